// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build !cegardebug

// Package invariant checks programming-error assertions that spec.md §7
// says are "not a user-facing failure". Its callers check tombstone-slot
// access in collectionState and that a flaw variable does not already
// belong to its own entry in the refiner; the collection-state invariants
// I1–I5 are not checked through it at run time (the cegar package's tests
// check them). Check is a no-op in ordinary
// builds and panics when built with the cegardebug tag, mirroring the
// teacher's own use of ordinary if+panic for assertions rather than a
// dedicated assertion library — the difference here is only that it can be
// compiled out.
package invariant

// Check does nothing in a normal build.
func Check(cond bool, msg string) {}
