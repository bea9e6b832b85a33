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

import "github.com/patterncollections/cegar-pdbs/internal/task"

// flaw is C5's output unit: an (entry_index, variable) pair recording why
// an abstract plan failed on the concrete task.
type flaw struct {
	entryIndex int
	variable   int
}

// flawExtractor is C5: it replays each live entry's abstract plan against
// the concrete task from the concrete initial state and reports flaws, or
// detects a concrete solution as a side effect.
type flawExtractor struct {
	task                 task.View
	opByID               map[int]task.Operator
	ignoreGoalViolations bool
}

func newFlawExtractor(t task.View, ignoreGoalViolations bool) *flawExtractor {
	byID := make(map[int]task.Operator, len(t.Operators()))
	for _, op := range t.Operators() {
		byID[op.ID] = op
	}
	return &flawExtractor{task: t, opByID: byID, ignoreGoalViolations: ignoreGoalViolations}
}

// getFlaws implements 4.5: iterate live, unsolved entries in index order,
// concatenating per-entry flaw lists. Any entry whose abstract projection
// has no solution makes the whole task unsolvable — pattern projection
// only relaxes the concrete task. A concrete solution short-circuits with
// an empty flaw list, discarding anything accumulated so far.
func (fx *flawExtractor) getFlaws(c *collectionState) ([]flaw, error) {
	var flaws []flaw
	for index, e := range c.entries {
		if e == nil || e.isSolved() {
			continue
		}
		if !e.solutionExists() {
			return nil, unsolvableError("get_flaws")
		}
		entryFlaws, concreteSolution := fx.project(c, index, e)
		if concreteSolution {
			return nil, nil
		}
		flaws = append(flaws, entryFlaws...)
	}
	return flaws, nil
}

// project implements 4.4: replay entry e's wildcard abstract plan against
// the concrete task from the concrete initial state.
func (fx *flawExtractor) project(c *collectionState, index int, e *solutionEntry) (flaws []flaw, concreteSolution bool) {
	s := fx.task.InitialState()
	for _, step := range e.plan() {
		applicableOp, stepFlaws, found := fx.tryStep(c, s, e, step)
		if found {
			s = s.Apply(applicableOp)
			continue
		}
		for _, v := range stepFlaws {
			flaws = append(flaws, flaw{entryIndex: index, variable: v})
		}
		return flaws, false
	}

	if fx.task.IsGoal(s) {
		if len(c.blacklist) == 0 {
			c.concreteSolutionIndex = index
			return nil, true
		}
		// A non-empty blacklist means variables outside the pattern were
		// never checked; "solved" here is conditional on the blacklist
		// assumption holding on the concrete task too. Preserved as-is.
		e.markSolved()
		return nil, false
	}

	if fx.ignoreGoalViolations {
		e.markSolved()
		return nil, false
	}

	var goalFlaws []flaw
	for _, g := range fx.task.Goal() {
		if s.Get(g.Var) == g.Value {
			continue
		}
		if c.isBlacklisted(g.Var) {
			continue
		}
		if !c.isRemainingGoal(g.Var) {
			continue
		}
		goalFlaws = append(goalFlaws, flaw{entryIndex: index, variable: g.Var})
	}
	return goalFlaws, false
}

// tryStep scans a wildcard step's equivalence class for the first operator
// applicable in s, ignoring blacklisted variables in precondition checks.
// If none apply, it returns the union of every tried operator's violated,
// non-blacklisted precondition variables, in scan order and deduplicated.
func (fx *flawExtractor) tryStep(c *collectionState, s task.State, e *solutionEntry, step []int) (op task.Operator, unionFlaws []int, found bool) {
	seen := make(map[int]bool)
	for _, absOpID := range step {
		concreteOp := fx.opByID[e.translate(absOpID)]
		violated := fx.violatedPreconditions(c, s, concreteOp)
		if len(violated) == 0 {
			return concreteOp, nil, true
		}
		for _, v := range violated {
			if !seen[v] {
				seen[v] = true
				unionFlaws = append(unionFlaws, v)
			}
		}
	}
	return task.Operator{}, unionFlaws, false
}

func (fx *flawExtractor) violatedPreconditions(c *collectionState, s task.State, op task.Operator) []int {
	var violated []int
	for _, p := range op.Preconditions {
		if c.isBlacklisted(p.Var) {
			continue
		}
		if s.Get(p.Var) != p.Value {
			violated = append(violated, p.Var)
		}
	}
	return violated
}
