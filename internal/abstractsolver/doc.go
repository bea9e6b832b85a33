// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package abstractsolver implements C2 from the CEGAR specification: given
// a task and a pattern (a subset of the task's variables), produce a
// pattern database (sized by the pattern's abstract state count; BruteForce
// records distances from the abstract initial state, not goal distances)
// and a wildcard abstract plan.
//
// This is deliberately an external collaborator, not part of the CEGAR
// control loop: spec.md frames PDB/plan construction as "an opaque
// AbstractSolver service" and explicitly does not require it to be
// single-threaded. BruteForce below performs an ordinary unweighted
// breadth-first search over the pattern's abstracted state space — the
// projection semantics (which operators apply to which abstract states)
// follow the same "project onto pattern variables" idea as
// tasks::ProjectedTask in the original C++ source
// (original_source/src/search/pdbs/cegar.cc, line 7's #include).
//
// Architecture:
//
//	pattern ──▶ enumerate abstract states (mixed-radix over domain sizes)
//	        ──▶ project every concrete operator onto the pattern
//	        ──▶ BFS from abstract(initial) to any abstract-goal state
//	        ──▶ walk predecessors back to a wildcard step sequence
package abstractsolver
