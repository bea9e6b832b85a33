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
	"sort"
	"testing"

	"github.com/patterncollections/cegar-pdbs/internal/abstractsolver"
	"github.com/patterncollections/cegar-pdbs/internal/rng"
	"github.com/patterncollections/cegar-pdbs/internal/task"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// checkInvariants asserts I1-I4 (and, given maxCollectionSize, I5) against
// c's current state.
func checkInvariants(t *testing.T, c *collectionState, maxCollectionSize int) {
	t.Helper()

	sum := 0
	seen := make(map[int]int) // variable -> owning index, for I2/I3
	for index, e := range c.entries {
		if e == nil {
			continue
		}
		sum += e.pdb().Size()

		pattern := e.pattern()
		if len(pattern) == 0 {
			t.Fatalf("I4 violated: entry %d has empty pattern", index)
		}
		for i := 1; i < len(pattern); i++ {
			if pattern[i-1] >= pattern[i] {
				t.Fatalf("I4 violated: entry %d pattern %v not strictly sorted ascending", index, pattern)
			}
		}
		for _, v := range pattern {
			if owner, ok := seen[v]; ok {
				t.Fatalf("I3 violated: variable %d appears in both entry %d and entry %d", v, owner, index)
			}
			seen[v] = index
			if got := c.lookup[v]; got != index {
				t.Fatalf("I2 violated: lookup[%d] = %d, want %d", v, got, index)
			}
		}
	}
	if sum != c.collectionSize {
		t.Fatalf("I1 violated: sum of live PDB sizes = %d, collectionSize = %d", sum, c.collectionSize)
	}
	for v, index := range c.lookup {
		if c.entries[index] == nil {
			t.Fatalf("I2 violated: lookup[%d] = %d points at a tombstoned slot", v, index)
		}
	}
	if !withinCap(c.collectionSize, maxCollectionSize) {
		t.Fatalf("I5 violated: collectionSize %d exceeds cap %d", c.collectionSize, maxCollectionSize)
	}
}

func newTestEnv(t *testing.T, domainSizes []int) buildEnv {
	t.Helper()
	initial := make([]int, len(domainSizes))
	tk, err := task.New(domainSizes, nil, nil, initial)
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}
	return buildEnv{
		ctx:       context.Background(),
		task:      tk,
		solver:    abstractsolver.NewBruteForce(),
		rng:       rng.NewSeeded(1),
		wildcard:  true,
		verbosity: verbosity.Normal,
	}
}

func TestCollectionInvariantsThroughFullLifecycle(t *testing.T) {
	const maxCollectionSize = 1_000_000
	env := newTestEnv(t, []int{2, 3, 2, 4})
	c := newCollectionState()
	checkInvariants(t, c, maxCollectionSize)

	idx0, err := c.addNewSingleton(env, 0)
	if err != nil {
		t.Fatalf("addNewSingleton(0): %v", err)
	}
	checkInvariants(t, c, maxCollectionSize)

	idx1, err := c.addNewSingleton(env, 1)
	if err != nil {
		t.Fatalf("addNewSingleton(1): %v", err)
	}
	checkInvariants(t, c, maxCollectionSize)

	if err := c.replaceWithExtended(env, idx0, 2); err != nil {
		t.Fatalf("replaceWithExtended: %v", err)
	}
	checkInvariants(t, c, maxCollectionSize)
	if got := c.lookup[2]; got != idx0 {
		t.Fatalf("lookup[2] = %d, want %d", got, idx0)
	}
	if got, want := c.entry(idx0).pattern(), []int{0, 2}; !equalInts(got, want) {
		t.Fatalf("entry %d pattern = %v, want %v", idx0, got, want)
	}

	idx3, err := c.addNewSingleton(env, 3)
	if err != nil {
		t.Fatalf("addNewSingleton(3): %v", err)
	}
	checkInvariants(t, c, maxCollectionSize)

	sizeBefore := c.entry(idx0).pdb().Size() + c.entry(idx3).pdb().Size()
	if err := c.merge(env, idx0, idx3); err != nil {
		t.Fatalf("merge: %v", err)
	}
	checkInvariants(t, c, maxCollectionSize)
	if c.entries[idx3] != nil {
		t.Fatalf("entry %d should be tombstoned after merge", idx3)
	}
	if got, want := c.entry(idx0).pattern(), []int{0, 2, 3}; !equalInts(got, want) {
		t.Fatalf("merged entry pattern = %v, want %v", got, want)
	}
	if got := c.entry(idx0).pdb().Size(); got != sizeBefore {
		// every PDB size is the product of its pattern's domain sizes, so
		// the merged size (2*2*4 = 16) differs from the sum of the two old
		// sizes (4+4 = 8); assert the actual product.
		wantProduct := 2 * 4 * 2
		if got != wantProduct {
			t.Fatalf("merged PDB size = %d, want %d", got, wantProduct)
		}
	}

	// idx1's singleton pattern is untouched by any of the above.
	if got, want := c.entry(idx1).pattern(), []int{1}; !equalInts(got, want) {
		t.Fatalf("entry %d pattern = %v, want %v", idx1, got, want)
	}

	c.blacklistVar(1)
	if !c.isBlacklisted(1) {
		t.Fatalf("blacklistVar(1) did not register")
	}
	checkInvariants(t, c, maxCollectionSize)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
