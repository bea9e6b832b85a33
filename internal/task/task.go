// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package task

import "fmt"

// Fact is a (variable, value) pair, the unit of preconditions, effects and
// goals.
type Fact struct {
	Var   int
	Value int
}

// Operator is identified by an integer ID and carries conjunctive
// preconditions and effects. Cost is not modeled: the CEGAR core never
// reads it (spec: "cost is not used by the core"); the reference solver in
// package abstractsolver assigns unit cost to every operator when it needs
// one for plan-cost reporting.
type Operator struct {
	ID            int
	Preconditions []Fact
	Effects       []Fact
}

// EffectValue returns the value an operator's effect assigns to a variable,
// and whether the operator has an effect on that variable at all.
func (o Operator) EffectValue(v int) (int, bool) {
	for _, e := range o.Effects {
		if e.Var == v {
			return e.Value, true
		}
	}
	return 0, false
}

// View is the read-only interface the CEGAR core and the abstract solver
// consume. It is satisfied by *Task, and could equally be satisfied by an
// adapter over a larger planning system's own task representation.
type View interface {
	NumVariables() int
	DomainSize(v int) int
	Operators() []Operator
	Goal() []Fact
	InitialState() State
	IsGoal(s State) bool
}

// Task is a concrete, in-memory finite-domain planning task.
type Task struct {
	domainSizes []int
	operators   []Operator
	goal        []Fact
	initial     State
}

// New constructs a Task. domainSizes[i] is the domain size of variable i;
// every fact referenced by operators, goal, or initial must use a value in
// [0, domainSizes[var]).
func New(domainSizes []int, operators []Operator, goal []Fact, initial []int) (*Task, error) {
	if len(initial) != len(domainSizes) {
		return nil, fmt.Errorf("task: initial state has %d variables, want %d", len(initial), len(domainSizes))
	}
	for _, g := range goal {
		if g.Var < 0 || g.Var >= len(domainSizes) {
			return nil, fmt.Errorf("task: goal references variable %d out of range", g.Var)
		}
	}
	values := make([]int, len(initial))
	copy(values, initial)
	return &Task{
		domainSizes: append([]int(nil), domainSizes...),
		operators:   append([]Operator(nil), operators...),
		goal:        append([]Fact(nil), goal...),
		initial:     State{values: values},
	}, nil
}

func (t *Task) NumVariables() int { return len(t.domainSizes) }

func (t *Task) DomainSize(v int) int { return t.domainSizes[v] }

func (t *Task) Operators() []Operator { return t.operators }

func (t *Task) Goal() []Fact { return t.goal }

func (t *Task) InitialState() State { return t.initial }

// IsGoal reports whether every goal fact holds in s.
func (t *Task) IsGoal(s State) bool {
	for _, g := range t.goal {
		if s.Get(g.Var) != g.Value {
			return false
		}
	}
	return true
}

// State is an assignment of a value to every task variable. It is
// immutable; Apply produces a new State without registering it anywhere,
// matching the "unregistered successor" requirement consumers rely on.
type State struct {
	values []int
}

// NewState builds a State from a full variable assignment.
func NewState(values []int) State {
	return State{values: append([]int(nil), values...)}
}

// Get returns the value assigned to variable v.
func (s State) Get(v int) int { return s.values[v] }

// Applicable reports whether every precondition of op holds in s.
func (s State) Applicable(op Operator) bool {
	for _, p := range op.Preconditions {
		if s.Get(p.Var) != p.Value {
			return false
		}
	}
	return true
}

// Apply returns the state resulting from applying op's effects to s. It
// does not check applicability; callers that need that must call
// Applicable first (the CEGAR flaw extractor needs to distinguish
// "which preconditions failed" from "successor state", so the two are
// kept separate rather than folded into one fallible Apply).
func (s State) Apply(op Operator) State {
	next := append([]int(nil), s.values...)
	for _, e := range op.Effects {
		next[e.Var] = e.Value
	}
	return State{values: next}
}

// Clone returns an independent copy of s.
func (s State) Clone() State {
	return State{values: append([]int(nil), s.values...)}
}
