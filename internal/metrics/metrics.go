// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metrics exposes the CEGAR driver's counters and gauges, grounded
// on services/trace/graph/hld_path_updates.go's package-level
// promauto.NewCounter/NewGauge registration style.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefinementsTotal counts refinement iterations completed across all
	// Driver.Generate runs in this process.
	RefinementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cegar_refinements_total",
		Help: "Total refinement iterations completed",
	})

	// FlawsFoundTotal counts flaws returned by getFlaws, summed over every
	// iteration of every run.
	FlawsFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cegar_flaws_found_total",
		Help: "Total flaws extracted across all refinement rounds",
	})

	// RefinementOperationsTotal counts refinements by the operator applied:
	// extend, merge, or blacklist.
	RefinementOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cegar_refinement_operations_total",
		Help: "Total refinements by operator kind",
	}, []string{"operator"})

	// CollectionSize is the current sum of live PDB sizes in the
	// in-progress collection.
	CollectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cegar_collection_size",
		Help: "Sum of PDB sizes across all live patterns in the collection",
	})

	// PatternCount is the current number of live (non-tombstoned) patterns.
	PatternCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cegar_pattern_count",
		Help: "Number of live patterns in the collection",
	})

	// BlacklistSize is the current size of the global variable blacklist.
	BlacklistSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cegar_blacklist_size",
		Help: "Number of variables in the global blacklist",
	})

	// SolveDuration tracks AbstractSolver.Solve latency by outcome.
	SolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cegar_solve_duration_seconds",
		Help:    "AbstractSolver.Solve duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
	}, []string{"outcome"})
)

// Operator labels for RefinementOperationsTotal.
const (
	OperatorExtend    = "extend"
	OperatorMerge     = "merge"
	OperatorBlacklist = "blacklist"
)

// Sample records the current collection/blacklist size as gauge readings.
// The driver calls this once per refinement iteration; a caller that never
// touches metrics never has to know it exists.
func Sample(collectionSize, patternCount, blacklistSize int) {
	CollectionSize.Set(float64(collectionSize))
	PatternCount.Set(float64(patternCount))
	BlacklistSize.Set(float64(blacklistSize))
}
