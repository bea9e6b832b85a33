// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cegar implements the counterexample-guided abstraction
// refinement loop that turns a planning task into a collection of pattern
// databases: C3 through C7 of the design (SolutionEntry, Collection State,
// Flaw Extractor, Refiner, and the Driver that ties them together).
//
// The package is deliberately single-threaded and synchronous: no
// goroutines, channels, or mutexes appear anywhere below. Termination is a
// cooperative check against a countdown.Timer (and the caller's context)
// between iterations; the context is also handed to each AbstractSolver
// call, which may abandon a solve when it is cancelled.
//
// Architecture:
//
//	Driver.Generate
//	    ├─ prepare            seed remaining_goals, blacklist, initial patterns
//	    └─ loop:
//	         ├─ flawExtractor.getFlaws   replay each entry's plan concretely
//	         └─ refiner.refine           merge | extend | blacklist one flaw
//
// A collectionState is the only mutable state threaded through the loop;
// solutionEntry values are immutable once built except for the solved
// flag, and refinement always replaces a collection slot rather than
// mutating an entry's pattern or plan in place.
package cegar
