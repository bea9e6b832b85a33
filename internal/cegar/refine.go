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
	"github.com/patterncollections/cegar-pdbs/internal/invariant"
	"github.com/patterncollections/cegar-pdbs/internal/metrics"
	"github.com/patterncollections/cegar-pdbs/internal/rng"
)

// refiner is C6: given a non-empty flaw list, pick one uniformly at random
// and perform exactly one of merge, extend, or blacklist.
type refiner struct {
	maxPDBSize        int
	maxCollectionSize int
}

func newRefiner(maxPDBSize, maxCollectionSize int) *refiner {
	return &refiner{maxPDBSize: maxPDBSize, maxCollectionSize: maxCollectionSize}
}

// refine implements 4.6.
func (r *refiner) refine(env buildEnv, c *collectionState, flaws []flaw, source rng.Source) error {
	pick := flaws[source.IntN(len(flaws))]
	k, v := pick.entryIndex, pick.variable

	if m, ok := c.lookup[v]; ok {
		invariant.Check(m != k, "refine: flaw variable already belongs to its own entry")
		pdbSizeK := c.entry(k).pdb().Size()
		pdbSizeM := c.entry(m).pdb().Size()
		if canMerge(pdbSizeK, pdbSizeM, r.maxPDBSize, c.collectionSize, r.maxCollectionSize) {
			metrics.RefinementOperationsTotal.WithLabelValues(metrics.OperatorMerge).Inc()
			return c.merge(env, k, m)
		}
		metrics.RefinementOperationsTotal.WithLabelValues(metrics.OperatorBlacklist).Inc()
		c.blacklistVar(v)
		return nil
	}

	pdbSizeK := c.entry(k).pdb().Size()
	domainSize := env.task.DomainSize(v)
	if canExtend(pdbSizeK, domainSize, r.maxPDBSize, c.collectionSize, r.maxCollectionSize) {
		metrics.RefinementOperationsTotal.WithLabelValues(metrics.OperatorExtend).Inc()
		return c.replaceWithExtended(env, k, v)
	}
	metrics.RefinementOperationsTotal.WithLabelValues(metrics.OperatorBlacklist).Inc()
	c.blacklistVar(v)
	return nil
}
