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
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/patterncollections/cegar-pdbs/internal/abstractsolver"
	"github.com/patterncollections/cegar-pdbs/internal/invariant"
	"github.com/patterncollections/cegar-pdbs/internal/metrics"
	"github.com/patterncollections/cegar-pdbs/internal/rng"
	"github.com/patterncollections/cegar-pdbs/internal/task"
	"github.com/patterncollections/cegar-pdbs/internal/telemetry"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// buildEnv bundles everything needed to solve a new pattern, so
// collectionState's mutators don't carry six parallel parameters.
type buildEnv struct {
	ctx       context.Context
	task      task.View
	solver    abstractsolver.Solver
	rng       rng.Source
	wildcard  bool
	verbosity verbosity.Level
}

func (b buildEnv) solve(pattern []int) (*solutionEntry, error) {
	sorted := append([]int(nil), pattern...)
	sort.Ints(sorted)

	ctx, span := telemetry.StartSolve(b.ctx, sorted)
	start := time.Now()
	sol, err := b.solver.Solve(ctx, b.task, sorted, b.rng, b.wildcard, b.verbosity)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.SolveDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	telemetry.EndWithError(span, err)
	if err != nil {
		return nil, fmt.Errorf("cegar: solving pattern %v: %w", sorted, err)
	}
	return newSolutionEntry(sol), nil
}

// collectionState is C4: the set of live solutionEntries, the var->index
// lookup, the running total size, the goal variables not yet placed in any
// pattern, the global blacklist, and the concrete-solution marker.
//
// Tombstoned slots hold nil rather than being compacted out, so an index
// once assigned to an entry never gets reassigned to a different one.
type collectionState struct {
	entries               []*solutionEntry
	lookup                map[int]int // variable -> index into entries
	collectionSize        int
	remainingGoals        []int
	blacklist             map[int]bool
	concreteSolutionIndex int
}

func newCollectionState() *collectionState {
	return &collectionState{
		lookup:                make(map[int]int),
		blacklist:             make(map[int]bool),
		concreteSolutionIndex: -1,
	}
}

func (c *collectionState) entry(index int) *solutionEntry { return c.entries[index] }

// concreteSolution reports the index of the entry whose abstract plan
// turned out to solve the concrete task, if any.
func (c *collectionState) concreteSolution() (int, bool) {
	if c.concreteSolutionIndex < 0 {
		return -1, false
	}
	return c.concreteSolutionIndex, true
}

func (c *collectionState) isBlacklisted(v int) bool { return c.blacklist[v] }

func (c *collectionState) removeRemainingGoal(v int) {
	for i, g := range c.remainingGoals {
		if g == v {
			c.remainingGoals = append(c.remainingGoals[:i], c.remainingGoals[i+1:]...)
			return
		}
	}
}

func (c *collectionState) isRemainingGoal(v int) bool {
	for _, g := range c.remainingGoals {
		if g == v {
			return true
		}
	}
	return false
}

// addNewSingleton implements 4.2's add_new_singleton.
func (c *collectionState) addNewSingleton(env buildEnv, v int) (int, error) {
	e, err := env.solve([]int{v})
	if err != nil {
		return -1, err
	}
	index := len(c.entries)
	c.entries = append(c.entries, e)
	c.lookup[v] = index
	c.collectionSize += e.pdb().Size()
	c.removeRemainingGoal(v)
	return index, nil
}

// replaceWithExtended implements 4.2's replace_with_extended: construct a
// new entry over old ∪ {var} and install it at the same slot.
func (c *collectionState) replaceWithExtended(env buildEnv, index, v int) error {
	old := c.entries[index]
	invariant.Check(old != nil, "replaceWithExtended: tombstoned slot")
	newPattern := append(append([]int(nil), old.pattern()...), v)
	e, err := env.solve(newPattern)
	if err != nil {
		return err
	}
	oldSize := old.pdb().Size()
	c.entries[index] = e
	c.collectionSize += e.pdb().Size() - oldSize
	c.lookup[v] = index
	c.removeRemainingGoal(v)
	return nil
}

// merge implements 4.2's merge: construct a new entry over patterns[i] ∪
// patterns[j], install it at i, and tombstone j.
func (c *collectionState) merge(env buildEnv, i, j int) error {
	ei, ej := c.entries[i], c.entries[j]
	invariant.Check(ei != nil && ej != nil, "merge: tombstoned slot")
	newPattern := append(append([]int(nil), ei.pattern()...), ej.pattern()...)
	e, err := env.solve(newPattern)
	if err != nil {
		return err
	}
	oldSizeI, oldSizeJ := ei.pdb().Size(), ej.pdb().Size()
	for _, v := range ej.pattern() {
		c.lookup[v] = i
	}
	c.entries[i] = e
	c.entries[j] = nil
	c.collectionSize += e.pdb().Size() - oldSizeI - oldSizeJ
	return nil
}

// blacklistVar implements 4.2's blacklist: insert into the global
// blacklist, no other bookkeeping change.
func (c *collectionState) blacklistVar(v int) { c.blacklist[v] = true }
