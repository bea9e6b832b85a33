// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package abstractsolver

import (
	"context"
	"sort"

	"github.com/patterncollections/cegar-pdbs/internal/rng"
	"github.com/patterncollections/cegar-pdbs/internal/task"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// Solver is the AbstractSolver contract from spec.md §6.1: given a task and
// a pattern, produce a Solution even when the abstract task is unsolvable
// (SolutionExists reports which).
type Solver interface {
	Solve(ctx context.Context, t task.View, pattern []int, r rng.Source, wildcard bool, v verbosity.Level) (Solution, error)
}

// Solution owns one pattern's PDB and abstract plan.
type Solution interface {
	Pattern() []int
	PDB() PDB
	// Plan returns the wildcard steps: each step is the set of abstract
	// operator IDs treated as equivalent at that point in the plan.
	Plan() [][]int
	// Translate maps an abstract operator ID back to a concrete one.
	Translate(absOpID int) int
	SolutionExists() bool
	// PlanCost is the number of steps in the plan (every operator has unit
	// cost; spec.md's data model says cost is unused by the CEGAR core,
	// but the driver's optional plan-length/cost report needs it, see
	// SPEC_FULL.md §11).
	PlanCost() int
}

type solution struct {
	pattern []int
	pdb     *table
	plan    [][]int
	exists  bool
}

func (s *solution) Pattern() []int { return append([]int(nil), s.pattern...) }
func (s *solution) PDB() PDB       { return s.pdb }
func (s *solution) Plan() [][]int  { return s.plan }

// Translate is the identity here: BruteForce's abstract operators are the
// task's own concrete operators (a pattern projection never introduces new
// operator identities), so no separate ID space needs bridging.
func (s *solution) Translate(absOpID int) int { return absOpID }
func (s *solution) SolutionExists() bool      { return s.exists }
func (s *solution) PlanCost() int             { return len(s.plan) }

// BruteForce is the reference AbstractSolver: an explicit-state
// breadth-first search over the pattern's abstracted state space. It
// ignores the rng parameter (its exploration order is deterministic), which
// is a legitimate implementation of the Solver contract — nothing in
// spec.md requires the solver itself to consult the RNG, only that the
// core's own shuffles and flaw picks do (spec.md §5, §9).
type BruteForce struct{}

// NewBruteForce constructs the reference solver.
func NewBruteForce() *BruteForce { return &BruteForce{} }

type projectedOp struct {
	op  task.Operator
	pre map[int]int
	eff map[int]int
}

// Solve implements Solver.
func (b *BruteForce) Solve(ctx context.Context, t task.View, pattern []int, r rng.Source, wildcard bool, v verbosity.Level) (Solution, error) {
	sortedPattern := append([]int(nil), pattern...)
	sort.Ints(sortedPattern)

	domainSizes := make([]int, len(sortedPattern))
	posOf := make(map[int]int, len(sortedPattern))
	for i, variable := range sortedPattern {
		domainSizes[i] = t.DomainSize(variable)
		posOf[variable] = i
	}

	pdb, err := newTable(domainSizes, sortedPattern)
	if err != nil {
		return nil, err
	}

	projected := projectOperators(t.Operators(), posOf)
	abstractGoal := projectGoal(t.Goal(), posOf)
	isGoal := func(values []int) bool {
		for pos, val := range abstractGoal {
			if values[pos] != val {
				return false
			}
		}
		return true
	}

	initialValues := make([]int, len(sortedPattern))
	initState := t.InitialState()
	for i, variable := range sortedPattern {
		initialValues[i] = initState.Get(variable)
	}
	initIdx := pdb.encode(initialValues)

	dist, pred, goalIdx, err := breadthFirstSearch(ctx, pdb, projected, initIdx, isGoal)
	if err != nil {
		return nil, err
	}
	pdb.distances = dist

	if goalIdx == -1 {
		return &solution{pattern: sortedPattern, pdb: pdb, exists: false}, nil
	}

	path := reconstructPath(pred, initIdx, goalIdx)
	plan := buildWildcardPlan(pdb, projected, path, wildcard)

	return &solution{pattern: sortedPattern, pdb: pdb, plan: plan, exists: true}, nil
}

func projectOperators(ops []task.Operator, posOf map[int]int) []projectedOp {
	projected := make([]projectedOp, 0, len(ops))
	for _, op := range ops {
		p := projectedOp{op: op, pre: map[int]int{}, eff: map[int]int{}}
		for _, f := range op.Preconditions {
			if pos, ok := posOf[f.Var]; ok {
				p.pre[pos] = f.Value
			}
		}
		for _, f := range op.Effects {
			if pos, ok := posOf[f.Var]; ok {
				p.eff[pos] = f.Value
			}
		}
		if len(p.eff) == 0 {
			// No effect on any pattern variable: this operator is a no-op
			// in the abstraction and contributes no observable transition.
			continue
		}
		projected = append(projected, p)
	}
	return projected
}

func projectGoal(goal []task.Fact, posOf map[int]int) map[int]int {
	abstractGoal := make(map[int]int)
	for _, g := range goal {
		if pos, ok := posOf[g.Var]; ok {
			abstractGoal[pos] = g.Value
		}
	}
	return abstractGoal
}

type predecessor struct {
	from int
	op   task.Operator
}

func breadthFirstSearch(ctx context.Context, pdb *table, projected []projectedOp, initIdx int, isGoal func([]int) bool) ([]int, []predecessor, int, error) {
	dist := make([]int, pdb.size)
	pred := make([]predecessor, pdb.size)
	for i := range dist {
		dist[i] = -1
		pred[i] = predecessor{from: -1}
	}

	dist[initIdx] = 0
	goalIdx := -1
	if isGoal(pdb.decode(initIdx)) {
		return dist, pred, initIdx, nil
	}

	queue := []int{initIdx}
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, nil, -1, ctx.Err()
		default:
		}

		cur := queue[0]
		queue = queue[1:]
		curValues := pdb.decode(cur)

		for _, p := range projected {
			if !matches(curValues, p.pre) {
				continue
			}
			nextValues := applyEffect(curValues, p.eff)
			nextIdx := pdb.encode(nextValues)
			if nextIdx == cur || dist[nextIdx] != -1 {
				continue
			}
			dist[nextIdx] = dist[cur] + 1
			pred[nextIdx] = predecessor{from: cur, op: p.op}
			if isGoal(nextValues) {
				return dist, pred, nextIdx, nil
			}
			queue = append(queue, nextIdx)
		}
	}
	return dist, pred, goalIdx, nil
}

func matches(values []int, constraints map[int]int) bool {
	for pos, val := range constraints {
		if values[pos] != val {
			return false
		}
	}
	return true
}

func applyEffect(values []int, eff map[int]int) []int {
	next := append([]int(nil), values...)
	for pos, val := range eff {
		next[pos] = val
	}
	return next
}

func reconstructPath(pred []predecessor, initIdx, goalIdx int) []int {
	var path []int
	for idx := goalIdx; ; {
		path = append([]int{idx}, path...)
		if idx == initIdx {
			break
		}
		idx = pred[idx].from
	}
	return path
}

// buildWildcardPlan turns a sequence of abstract-state indices into steps,
// each the set of operator IDs equivalent for that transition. When
// wildcard is false, only the first matching operator is kept per step,
// matching spec.md's "regular" (non-wildcard) plan mode.
func buildWildcardPlan(pdb *table, projected []projectedOp, path []int, wildcard bool) [][]int {
	plan := make([][]int, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		fromValues := pdb.decode(from)
		var step []int
		for _, p := range projected {
			if !matches(fromValues, p.pre) {
				continue
			}
			if pdb.encode(applyEffect(fromValues, p.eff)) != to {
				continue
			}
			step = append(step, p.op.ID)
			if !wildcard {
				break
			}
		}
		plan = append(plan, step)
	}
	return plan
}
