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
	"errors"
	"testing"

	"github.com/patterncollections/cegar-pdbs/internal/abstractsolver"
	"github.com/patterncollections/cegar-pdbs/internal/rng"
	"github.com/patterncollections/cegar-pdbs/internal/task"
)

func TestDriverTrivialGoalAlreadySatisfied(t *testing.T) {
	tk, err := task.New([]int{2}, nil, []task.Fact{{Var: 0, Value: 0}}, []int{0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	d := NewDriver(tk, abstractsolver.NewBruteForce(), rng.NewSeeded(1), DefaultOptions(), nil)
	result, err := d.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !result.ConcreteSolution {
		t.Fatalf("expected a concrete solution")
	}
	if result.Refinements != 0 {
		t.Fatalf("Refinements = %d, want 0", result.Refinements)
	}
	if len(result.Patterns) != 1 || !equalInts(result.Patterns[0].Pattern, []int{0}) {
		t.Fatalf("Patterns = %+v, want single pattern [0]", result.Patterns)
	}
	if result.ConcretePlanLength() != 0 {
		t.Fatalf("ConcretePlanLength = %d, want 0 for an already-satisfied goal", result.ConcretePlanLength())
	}
	if want := "[[0]]"; result.String() != want {
		t.Fatalf("String() = %q, want %q", result.String(), want)
	}
}

func TestDriverUnsolvableProjection(t *testing.T) {
	// goal value for the only variable is never reachable: no operators
	// can ever change it away from its initial value.
	tk, err := task.New([]int{2}, nil, []task.Fact{{Var: 0, Value: 1}}, []int{0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	d := NewDriver(tk, abstractsolver.NewBruteForce(), rng.NewSeeded(1), DefaultOptions(), nil)
	_, err = d.Generate(context.Background())
	if !errors.Is(err, ErrUnsolvable) {
		t.Fatalf("Generate error = %v, want ErrUnsolvable", err)
	}
}

func TestDriverPreconditionFlawDetectsUnsolvableAfterExtend(t *testing.T) {
	// a is the goal variable; the only operator that can achieve it
	// requires b=1, but nothing in the task can ever set b.
	ops := []task.Operator{
		{ID: 0, Preconditions: []task.Fact{{Var: 1, Value: 1}}, Effects: []task.Fact{{Var: 0, Value: 1}}},
	}
	tk, err := task.New([]int{2, 2}, ops, []task.Fact{{Var: 0, Value: 1}}, []int{0, 0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	opts := DefaultOptions()
	opts.Initial = GivenGoal
	opts.GivenGoal = 0

	d := NewDriver(tk, abstractsolver.NewBruteForce(), rng.NewSeeded(1), opts, nil)
	_, err = d.Generate(context.Background())
	if !errors.Is(err, ErrUnsolvable) {
		t.Fatalf("Generate error = %v, want ErrUnsolvable", err)
	}
}

func TestDriverPreconditionFlawExtendsAndSolves(t *testing.T) {
	// same shape as above, but a second operator lets b become 1, so the
	// extended pattern [a,b] should find a real solution.
	ops := []task.Operator{
		{ID: 0, Preconditions: []task.Fact{{Var: 1, Value: 1}}, Effects: []task.Fact{{Var: 0, Value: 1}}},
		{ID: 1, Effects: []task.Fact{{Var: 1, Value: 1}}},
	}
	tk, err := task.New([]int{2, 2}, ops, []task.Fact{{Var: 0, Value: 1}}, []int{0, 0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	opts := DefaultOptions()
	opts.Initial = GivenGoal
	opts.GivenGoal = 0

	d := NewDriver(tk, abstractsolver.NewBruteForce(), rng.NewSeeded(1), opts, nil)
	result, err := d.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !result.ConcreteSolution {
		t.Fatalf("expected a concrete solution, got %+v", result)
	}
	if len(result.Patterns) != 1 || !equalInts(result.Patterns[0].Pattern, []int{0, 1}) {
		t.Fatalf("Patterns = %+v, want single pattern [0,1]", result.Patterns)
	}
	if result.Refinements == 0 {
		t.Fatalf("expected at least one refinement")
	}
}

func TestDriverMergeOnSharedVariable(t *testing.T) {
	// a and b are both goals; the operator that achieves a requires b=1,
	// and a second operator achieves b unconditionally. Seeding [a] and
	// [b] as singletons should flaw entry [a] on b (already in [b]'s
	// pattern) and the refiner should merge them.
	ops := []task.Operator{
		{ID: 0, Preconditions: []task.Fact{{Var: 1, Value: 1}}, Effects: []task.Fact{{Var: 0, Value: 1}}},
		{ID: 1, Effects: []task.Fact{{Var: 1, Value: 1}}},
	}
	tk, err := task.New([]int{2, 2}, ops, []task.Fact{{Var: 0, Value: 1}, {Var: 1, Value: 1}}, []int{0, 0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	env := buildEnv{
		ctx:      context.Background(),
		task:     tk,
		solver:   abstractsolver.NewBruteForce(),
		rng:      rng.NewSeeded(1),
		wildcard: true,
	}
	c := newCollectionState()
	idxA, err := c.addNewSingleton(env, 0)
	if err != nil {
		t.Fatalf("addNewSingleton(a): %v", err)
	}
	idxB, err := c.addNewSingleton(env, 1)
	if err != nil {
		t.Fatalf("addNewSingleton(b): %v", err)
	}

	extractor := newFlawExtractor(tk, false)
	flaws, err := extractor.getFlaws(c)
	if err != nil {
		t.Fatalf("getFlaws: %v", err)
	}
	if len(flaws) != 1 || flaws[0].entryIndex != idxA || flaws[0].variable != 1 {
		t.Fatalf("flaws = %+v, want single flaw (entry %d, var 1)", flaws, idxA)
	}

	ref := newRefiner(1_000_000, unlimited)
	if err := ref.refine(env, c, flaws, rng.NewSeeded(1)); err != nil {
		t.Fatalf("refine: %v", err)
	}

	if c.entries[idxB] != nil {
		t.Fatalf("entry %d should be tombstoned after merge", idxB)
	}
	if got, want := c.entry(idxA).pattern(), []int{0, 1}; !equalInts(got, want) {
		t.Fatalf("merged pattern = %v, want %v", got, want)
	}
	if got, want := c.collectionSize, 4; got != want {
		t.Fatalf("collectionSize = %d, want %d", got, want)
	}
	if got := c.lookup[1]; got != idxA {
		t.Fatalf("lookup[1] = %d, want %d", got, idxA)
	}
}

func TestDriverSizeCapForcesBlacklist(t *testing.T) {
	ops := []task.Operator{
		{ID: 0, Preconditions: []task.Fact{{Var: 1, Value: 1}}, Effects: []task.Fact{{Var: 0, Value: 1}}},
	}
	tk, err := task.New([]int{2, 2}, ops, []task.Fact{{Var: 0, Value: 1}}, []int{0, 0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	env := buildEnv{
		ctx:      context.Background(),
		task:     tk,
		solver:   abstractsolver.NewBruteForce(),
		rng:      rng.NewSeeded(1),
		wildcard: true,
	}
	c := newCollectionState()
	idxA, err := c.addNewSingleton(env, 0)
	if err != nil {
		t.Fatalf("addNewSingleton(a): %v", err)
	}

	extractor := newFlawExtractor(tk, false)
	flaws, err := extractor.getFlaws(c)
	if err != nil {
		t.Fatalf("getFlaws: %v", err)
	}
	if len(flaws) != 1 || flaws[0].variable != 1 {
		t.Fatalf("flaws = %+v, want single flaw on var 1", flaws)
	}

	// max_pdb_size = 1 means even a size-2 singleton can never grow.
	ref := newRefiner(1, unlimited)
	if err := ref.refine(env, c, flaws, rng.NewSeeded(1)); err != nil {
		t.Fatalf("refine: %v", err)
	}
	if !c.isBlacklisted(1) {
		t.Fatalf("expected variable 1 to be blacklisted")
	}
	if got, want := c.entry(idxA).pattern(), []int{0}; !equalInts(got, want) {
		t.Fatalf("entry pattern changed to %v, want unchanged %v", got, want)
	}

	flaws, err = extractor.getFlaws(c)
	if err != nil {
		t.Fatalf("getFlaws after blacklist: %v", err)
	}
	if len(flaws) != 0 {
		t.Fatalf("flaws after blacklisting the responsible variable = %+v, want none", flaws)
	}
	if !c.entry(idxA).isSolved() {
		t.Fatalf("expected entry to be marked solved once its blacklisted precondition stopped mattering")
	}
}

func TestDriverExpiredDeadlineStopsBeforeAnyRefinement(t *testing.T) {
	ops := []task.Operator{
		{ID: 0, Preconditions: []task.Fact{{Var: 1, Value: 1}}, Effects: []task.Fact{{Var: 0, Value: 1}}},
	}
	tk, err := task.New([]int{2, 2}, ops, []task.Fact{{Var: 0, Value: 1}}, []int{0, 0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	opts := DefaultOptions()
	opts.MaxTime = 0 // already expired: spec's max_time bound is ">= 0", 0 is a real deadline

	d := NewDriver(tk, abstractsolver.NewBruteForce(), rng.NewSeeded(1), opts, nil)
	result, err := d.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Refinements != 0 {
		t.Fatalf("Refinements = %d, want 0", result.Refinements)
	}
	if result.ConcreteSolution {
		t.Fatalf("did not expect a concrete solution before any refinement")
	}
	if len(result.Patterns) != 1 || !equalInts(result.Patterns[0].Pattern, []int{0}) {
		t.Fatalf("Patterns = %+v, want the unrefined seed pattern [0]", result.Patterns)
	}
}

func TestOptionsValidateRejectsBadGivenGoal(t *testing.T) {
	tk, err := task.New([]int{2, 2}, nil, []task.Fact{{Var: 0, Value: 1}}, []int{0, 0})
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}

	opts := DefaultOptions()
	opts.Initial = GivenGoal
	opts.GivenGoal = 1 // not a goal variable

	if err := opts.Validate(tk); !errors.Is(err, ErrInput) {
		t.Fatalf("Validate error = %v, want ErrInput", err)
	}
}
