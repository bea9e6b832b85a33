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
	"math"
	"math/bits"
)

// unlimited is the sentinel used for Options.MaxCollectionSize and
// Options.MaxRefinements when the corresponding budget is infinite (spec
// default). max_pdb_size has no infinite default, so it is always a
// concrete positive int and never uses this sentinel.
const unlimited = -1

// withinCap reports whether value respects cap, where cap == unlimited
// means "no cap".
func withinCap(value, cap int) bool {
	return cap == unlimited || value <= cap
}

// mulOverflow multiplies two non-negative ints, reporting overflow instead
// of wrapping. PDB sizes are products of domain sizes and can grow past the
// platform int range well before max_pdb_size would ever allow them
// through, so every feasibility check here goes through this instead of a
// bare '*'.
func mulOverflow(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, true
	}
	return int(lo), false
}

// canExtend implements 4.3's can_extend: does adding var to the pattern at
// index keep the resulting PDB within max_pdb_size and the collection
// within max_collection_size.
func canExtend(pdbSize, domainSize, maxPDBSize, collectionSize, maxCollectionSize int) bool {
	newSize, overflow := mulOverflow(pdbSize, domainSize)
	if overflow || newSize > maxPDBSize {
		return false
	}
	delta := newSize - pdbSize
	return withinCap(collectionSize+delta, maxCollectionSize)
}

// canMerge implements 4.3's can_merge: does the union of two patterns'
// abstract state spaces stay within budget.
func canMerge(pdbSizeI, pdbSizeJ, maxPDBSize, collectionSize, maxCollectionSize int) bool {
	product, overflow := mulOverflow(pdbSizeI, pdbSizeJ)
	if overflow || product > maxPDBSize {
		return false
	}
	delta := product - pdbSizeI - pdbSizeJ
	return withinCap(collectionSize+delta, maxCollectionSize)
}
