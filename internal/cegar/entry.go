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

import "github.com/patterncollections/cegar-pdbs/internal/abstractsolver"

// solutionEntry is C3: it owns one (pattern, PDB, abstract plan) triple and
// the solved flag that freezes it from further flaw extraction. Everything
// but solved is immutable once constructed; refinement never mutates an
// entry in place, it replaces the collection slot with a new one (see
// collection.go).
type solutionEntry struct {
	solution abstractsolver.Solution
	solved   bool
}

// newSolutionEntry wraps a freshly solved pattern. Construction always goes
// through the AbstractSolver (C2); nothing in this package builds a
// solutionEntry any other way.
func newSolutionEntry(sol abstractsolver.Solution) *solutionEntry {
	return &solutionEntry{solution: sol}
}

func (e *solutionEntry) pattern() []int { return e.solution.Pattern() }

func (e *solutionEntry) pdb() abstractsolver.PDB { return e.solution.PDB() }

func (e *solutionEntry) plan() [][]int { return e.solution.Plan() }

// planCost passes through the abstract plan's step count, used to report
// plan length when a pattern's abstract plan turns out to solve the
// concrete task outright.
func (e *solutionEntry) planCost() int { return e.solution.PlanCost() }

// translate maps an abstract operator ID from this entry's plan back to a
// concrete operator ID.
func (e *solutionEntry) translate(absOpID int) int { return e.solution.Translate(absOpID) }

func (e *solutionEntry) isSolved() bool { return e.solved }

func (e *solutionEntry) markSolved() { e.solved = true }

// solutionExists is false iff the AbstractSolver proved the abstract task
// unsolvable; because pattern projection only relaxes the concrete task,
// this implies the concrete task is unsolvable too.
func (e *solutionEntry) solutionExists() bool { return e.solution.SolutionExists() }
