// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the YAML configuration surface documented in
// spec.md §6, grounded on cmd/aleutian/main.go's PersistentPreRun pattern:
// a package-level struct decoded from a config.yaml file via
// gopkg.in/yaml.v3, with CLI flags overriding whatever the file sets.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/patterncollections/cegar-pdbs/internal/cegar"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// Config holds one YAML key per cegar.Options field (Verbose is a bool
// standing for the verbosity level), named as in the configuration surface
// table, plus a task_file key.
type Config struct {
	MaxRefinements       int     `yaml:"max_refinements"`
	MaxPDBSize           int     `yaml:"max_pdb_size"`
	MaxCollectionSize    int     `yaml:"max_collection_size"`
	WildcardPlans        bool    `yaml:"wildcard_plans"`
	IgnoreGoalViolations bool    `yaml:"ignore_goal_violations"`
	GlobalBlacklistSize  int     `yaml:"global_blacklist_size"`
	Initial              string  `yaml:"initial"`
	GivenGoal            int     `yaml:"given_goal"`
	MaxTime              float64 `yaml:"max_time"`
	Verbose              bool    `yaml:"verbose"`
	TaskFile             string  `yaml:"task_file"`
}

// Default returns a Config that mirrors cegar.DefaultOptions().
func Default() Config {
	d := cegar.DefaultOptions()
	return Config{
		MaxRefinements:       d.MaxRefinements,
		MaxPDBSize:           d.MaxPDBSize,
		MaxCollectionSize:    d.MaxCollectionSize,
		WildcardPlans:        d.WildcardPlans,
		IgnoreGoalViolations: d.IgnoreGoalViolations,
		GlobalBlacklistSize:  d.GlobalBlacklistSize,
		Initial:              d.Initial.String(),
		GivenGoal:            d.GivenGoal,
		MaxTime:              -1, // -1 in YAML means unbounded; see ToOptions
	}
}

// Load reads and decodes a YAML file at path. A missing file is not an
// error here — cmd/cegar-pdbs falls back to Default() and lets flags carry
// the whole configuration when no file is present.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ToOptions converts the YAML-facing Config into cegar.Options. A negative
// MaxTime in the file means "unbounded" (math.Inf(1)); the driver treats
// exactly 0 as a legitimate, immediately-expired deadline, so the sentinel
// has to live outside the option's own value range.
func (c Config) ToOptions() (cegar.Options, error) {
	opts := cegar.DefaultOptions()
	opts.MaxRefinements = c.MaxRefinements
	opts.MaxPDBSize = c.MaxPDBSize
	opts.MaxCollectionSize = c.MaxCollectionSize
	opts.WildcardPlans = c.WildcardPlans
	opts.IgnoreGoalViolations = c.IgnoreGoalViolations
	opts.GlobalBlacklistSize = c.GlobalBlacklistSize
	opts.GivenGoal = c.GivenGoal
	if c.MaxTime < 0 {
		opts.MaxTime = math.Inf(1)
	} else {
		opts.MaxTime = c.MaxTime
	}
	if c.Verbose {
		opts.Verbosity = verbosity.Verbose
	} else {
		opts.Verbosity = verbosity.Normal
	}

	switch c.Initial {
	case "", "ALL_GOALS":
		opts.Initial = cegar.AllGoals
	case "GIVEN_GOAL":
		opts.Initial = cegar.GivenGoal
	case "RANDOM_GOAL":
		opts.Initial = cegar.RandomGoal
	default:
		return cegar.Options{}, fmt.Errorf("config: unknown initial collection type %q", c.Initial)
	}
	return opts, nil
}
