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

import "fmt"

// PDB is the opaque pattern-database artifact spec.md describes: a
// queryable positive integer Size, equal to the product of the domains of
// the pattern's variables.
type PDB interface {
	Size() int
}

// table is the reference PDB: it also keeps the breadth-first distance
// array from BruteForce's search, but nothing reads it; consumers only ever
// see the PDB interface. It is not a goal-distance table.
type table struct {
	pattern   []int
	sizes     []int // domain size of each pattern variable, same order as pattern
	distances []int // distance from the abstract initial state per abstract-state index, -1 if not reached before the search stopped at the first goal state
	size      int
}

func (t *table) Size() int { return t.size }

// encode converts a per-variable value assignment (indexed the same as
// pattern) into a mixed-radix abstract-state index.
func (t *table) encode(values []int) int {
	idx := 0
	for i, v := range values {
		idx = idx*t.sizes[i] + v
	}
	return idx
}

// decode is the inverse of encode.
func (t *table) decode(idx int) []int {
	values := make([]int, len(t.sizes))
	for i := len(t.sizes) - 1; i >= 0; i-- {
		values[i] = idx % t.sizes[i]
		idx /= t.sizes[i]
	}
	return values
}

// newTable computes the abstract-state count for pattern, guarding against
// overflow the way spec.md §4.3 requires for size predicates elsewhere in
// the collection: a pattern this solver is ever asked to build should
// already have passed can_extend/can_merge, but a defensive check here
// keeps a runaway caller from silently wrapping around.
func newTable(patternDomainSizes []int, pattern []int) (*table, error) {
	size := 1
	for _, d := range patternDomainSizes {
		if d <= 0 {
			return nil, fmt.Errorf("abstractsolver: non-positive domain size %d", d)
		}
		if size > (1<<62)/d {
			return nil, fmt.Errorf("abstractsolver: pattern %v abstract state count overflows", pattern)
		}
		size *= d
	}
	return &table{
		pattern: append([]int(nil), pattern...),
		sizes:   append([]int(nil), patternDomainSizes...),
		size:    size,
	}, nil
}
