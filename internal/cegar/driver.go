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
	"strings"

	"github.com/google/uuid"

	"github.com/patterncollections/cegar-pdbs/internal/abstractsolver"
	"github.com/patterncollections/cegar-pdbs/internal/countdown"
	"github.com/patterncollections/cegar-pdbs/internal/metrics"
	"github.com/patterncollections/cegar-pdbs/internal/rng"
	"github.com/patterncollections/cegar-pdbs/internal/task"
	"github.com/patterncollections/cegar-pdbs/internal/telemetry"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// PatternInfo is one pattern in the final collection: its variables and the
// size of its PDB. The PDB and abstract plan stay internal to the package —
// nothing outside it needs to walk a wildcard plan once the collection is
// finalized.
type PatternInfo struct {
	Pattern []int
	PDBSize int
}

// Result is the driver's output: either the single pattern that happened
// to solve the concrete task, or otherwise the full set of live patterns
// the loop produced. RunID identifies this call for
// correlating logs, spans, and printed output across a batch of runs.
type Result struct {
	RunID            string
	Patterns         []PatternInfo
	ConcreteSolution bool
	Refinements      int
	planLength       int
}

// ConcretePlanLength reports the number of steps in the abstract plan that
// solved the concrete task outright. It is only meaningful when
// ConcreteSolution is true; it is 0 otherwise.
func (r *Result) ConcretePlanLength() int { return r.planLength }

// String lists every pattern in Patterns in order, matching
// Cegar::print_collection's "[p0, p1, ...]" rendering.
func (r *Result) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range r.Patterns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", p.Pattern)
	}
	b.WriteByte(']')
	return b.String()
}

// Driver is C7: it seeds the initial collection, runs the refinement loop
// under a deadline/refinement budget, and finalizes the output collection.
type Driver struct {
	task   task.View
	solver abstractsolver.Solver
	rng    rng.Source
	opts   Options
	log    *verbosity.Logger
}

// NewDriver constructs a Driver.
func NewDriver(t task.View, solver abstractsolver.Solver, r rng.Source, opts Options, log *verbosity.Logger) *Driver {
	if log == nil {
		log = verbosity.Default()
	}
	return &Driver{task: t, solver: solver, rng: r, opts: opts, log: log}
}

// Generate runs the CEGAR loop to completion: validation, seeding, then
// iterating get_flaws/refine until a concrete solution, an exhausted
// budget, or an unsolvable projection. Budget exhaustion is not an error;
// the errors returned are ErrInput (bad configuration), ErrUnsolvable, and
// any error from an AbstractSolver call. ctx is checked at the start of
// every iteration, and it is also passed to each AbstractSolver call, which
// may stop early with ctx's error (BruteForce does); that error is returned.
func (d *Driver) Generate(ctx context.Context) (result *Result, err error) {
	if err := d.opts.Validate(d.task); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := d.log.With("run_id", runID)

	ctx, span := telemetry.StartGenerate(ctx, d.task.NumVariables(), len(d.task.Operators()))
	defer func() { telemetry.EndWithError(span, err) }()

	env := buildEnv{
		ctx:       ctx,
		task:      d.task,
		solver:    d.solver,
		rng:       d.rng,
		wildcard:  d.opts.WildcardPlans,
		verbosity: d.opts.Verbosity,
	}
	c := newCollectionState()

	if err := d.prepare(env, c); err != nil {
		return nil, err
	}

	timer := countdown.New(d.opts.MaxTime)
	extractor := newFlawExtractor(d.task, d.opts.IgnoreGoalViolations)
	ref := newRefiner(d.opts.MaxPDBSize, d.opts.MaxCollectionSize)

	refinements := 0
	for {
		if timer.Expired() || (d.opts.MaxRefinements != unlimited && refinements >= d.opts.MaxRefinements) {
			log.Verbose("terminating: budget exhausted", "refinements", refinements)
			break
		}
		if ctx.Err() != nil {
			break
		}

		flaws, err := extractor.getFlaws(c)
		if err != nil {
			return nil, err
		}
		metrics.FlawsFoundTotal.Add(float64(len(flaws)))
		if len(flaws) == 0 {
			log.Verbose("terminating: no actionable flaws", "refinements", refinements)
			break
		}
		if timer.Expired() {
			break
		}

		_, refineSpan := telemetry.StartRefinement(ctx, refinements)
		refineErr := ref.refine(env, c, flaws, d.rng)
		telemetry.EndWithError(refineSpan, refineErr)
		if refineErr != nil {
			return nil, refineErr
		}
		refinements++
		metrics.RefinementsTotal.Inc()
		metrics.Sample(c.collectionSize, liveEntryCount(c), len(c.blacklist))
		log.Verbose("refinement complete",
			"iteration", refinements,
			"collection_size", c.collectionSize,
			"collection", collectionSnapshot(c).String())
	}

	res := d.finalize(c, refinements, runID)
	if res.ConcreteSolution {
		log.Info("task solved during computation of abstract solutions",
			"plan_length", res.ConcretePlanLength(),
			"plan_cost", res.ConcretePlanLength())
	}
	return res, nil
}

// collectionSnapshot builds a Result-shaped view of every live pattern in
// c, in index order, purely so String() can render it for a verbose log
// line — it carries none of the run's final metadata.
func collectionSnapshot(c *collectionState) *Result {
	var patterns []PatternInfo
	for _, e := range c.entries {
		if e == nil {
			continue
		}
		patterns = append(patterns, PatternInfo{Pattern: e.pattern(), PDBSize: e.pdb().Size()})
	}
	return &Result{Patterns: patterns}
}

// liveEntryCount counts non-tombstoned slots in c.
func liveEntryCount(c *collectionState) int {
	n := 0
	for _, e := range c.entries {
		if e != nil {
			n++
		}
	}
	return n
}

// prepare implements 4.7's preparation phase: populate and shuffle
// remaining_goals, optionally seed the global blacklist, then seed the
// initial collection. Size limits do not apply to this seed by design
// (spec.md §4.7): the heuristic must never come out empty.
func (d *Driver) prepare(env buildEnv, c *collectionState) error {
	goalVars := make([]int, len(d.task.Goal()))
	for i, g := range d.task.Goal() {
		goalVars[i] = g.Var
	}
	d.rng.Shuffle(len(goalVars), func(i, j int) { goalVars[i], goalVars[j] = goalVars[j], goalVars[i] })
	c.remainingGoals = goalVars

	if d.opts.GlobalBlacklistSize > 0 {
		goalSet := make(map[int]bool, len(goalVars))
		for _, v := range goalVars {
			goalSet[v] = true
		}
		var nonGoals []int
		for v := 0; v < d.task.NumVariables(); v++ {
			if !goalSet[v] {
				nonGoals = append(nonGoals, v)
			}
		}
		d.rng.Shuffle(len(nonGoals), func(i, j int) { nonGoals[i], nonGoals[j] = nonGoals[j], nonGoals[i] })
		n := d.opts.GlobalBlacklistSize
		if n > len(nonGoals) {
			n = len(nonGoals)
		}
		for _, v := range nonGoals[:n] {
			c.blacklistVar(v)
		}
	}

	switch d.opts.Initial {
	case GivenGoal:
		if _, err := c.addNewSingleton(env, d.opts.GivenGoal); err != nil {
			return err
		}
	case RandomGoal:
		if len(c.remainingGoals) == 0 {
			return nil
		}
		v := c.remainingGoals[len(c.remainingGoals)-1]
		if _, err := c.addNewSingleton(env, v); err != nil {
			return err
		}
	case AllGoals:
		for _, v := range append([]int(nil), c.remainingGoals...) {
			if _, err := c.addNewSingleton(env, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// finalize builds the output Result: the single concrete-solution pattern
// if one was found, otherwise every live pattern, ordered by lowest
// variable for reproducible output.
func (d *Driver) finalize(c *collectionState, refinements int, runID string) *Result {
	if index, ok := c.concreteSolution(); ok {
		e := c.entry(index)
		return &Result{
			RunID:            runID,
			Patterns:         []PatternInfo{{Pattern: e.pattern(), PDBSize: e.pdb().Size()}},
			ConcreteSolution: true,
			Refinements:      refinements,
			planLength:       e.planCost(),
		}
	}

	var patterns []PatternInfo
	for _, e := range c.entries {
		if e == nil {
			continue
		}
		patterns = append(patterns, PatternInfo{Pattern: e.pattern(), PDBSize: e.pdb().Size()})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Pattern[0] < patterns[j].Pattern[0] })
	return &Result{RunID: runID, Patterns: patterns, Refinements: refinements}
}
