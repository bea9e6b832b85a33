// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cegar

import (
	"fmt"
	"math"

	"github.com/patterncollections/cegar-pdbs/internal/task"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// InitialCollectionType selects how the initial collection is seeded (4.7).
type InitialCollectionType int

const (
	AllGoals InitialCollectionType = iota
	GivenGoal
	RandomGoal
)

func (t InitialCollectionType) String() string {
	switch t {
	case AllGoals:
		return "ALL_GOALS"
	case GivenGoal:
		return "GIVEN_GOAL"
	case RandomGoal:
		return "RANDOM_GOAL"
	default:
		return "UNKNOWN"
	}
}

// Options is the configuration surface: one field per row of the option
// table, with the same defaults and bounds.
type Options struct {
	MaxRefinements       int // unlimited sentinel = no cap (default)
	MaxPDBSize           int // >= 1, default 1_000_000
	MaxCollectionSize    int // unlimited sentinel = no cap (default)
	WildcardPlans        bool
	IgnoreGoalViolations bool
	GlobalBlacklistSize  int
	Initial              InitialCollectionType
	GivenGoal            int     // required iff Initial == GivenGoal
	MaxTime              float64 // seconds; math.Inf(1) means no deadline (default)
	Verbosity            verbosity.Level
}

// DefaultOptions returns the configuration surface's documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxRefinements:       unlimited,
		MaxPDBSize:           1_000_000,
		MaxCollectionSize:    unlimited,
		WildcardPlans:        true,
		IgnoreGoalViolations: false,
		GlobalBlacklistSize:  0,
		Initial:              AllGoals,
		GivenGoal:            -1,
		MaxTime:              math.Inf(1),
		Verbosity:            verbosity.Normal,
	}
}

// Validate checks bounds and the GivenGoal cross-check against t, returning
// an ErrInput-wrapped error on failure. Driver.Generate calls this before
// preparing the initial collection, so a bad flag combination fails before
// any work starts.
func (o Options) Validate(t task.View) error {
	if o.MaxRefinements < unlimited {
		return inputErrorf("validate", fmt.Errorf("max_refinements must be >= 0 or unlimited, got %d", o.MaxRefinements))
	}
	if o.MaxPDBSize < 1 {
		return inputErrorf("validate", fmt.Errorf("max_pdb_size must be >= 1, got %d", o.MaxPDBSize))
	}
	if o.MaxCollectionSize != unlimited && o.MaxCollectionSize < 1 {
		return inputErrorf("validate", fmt.Errorf("max_collection_size must be >= 1 or unlimited, got %d", o.MaxCollectionSize))
	}
	if o.GlobalBlacklistSize < 0 {
		return inputErrorf("validate", fmt.Errorf("global_blacklist_size must be >= 0, got %d", o.GlobalBlacklistSize))
	}
	if !math.IsInf(o.MaxTime, 1) && o.MaxTime < 0 {
		return inputErrorf("validate", fmt.Errorf("max_time must be >= 0, got %f", o.MaxTime))
	}
	if o.Initial == GivenGoal {
		if o.GivenGoal < 0 || o.GivenGoal >= t.NumVariables() {
			return inputErrorf("validate", fmt.Errorf("given_goal %d out of range", o.GivenGoal))
		}
		isGoal := false
		for _, g := range t.Goal() {
			if g.Var == o.GivenGoal {
				isGoal = true
				break
			}
		}
		if !isGoal {
			return inputErrorf("validate", fmt.Errorf("given_goal %d is not a goal variable", o.GivenGoal))
		}
	}
	return nil
}
