// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package task provides a read-only view over a finite-domain classical
// planning task: variables with finite domains, operators with conjunctive
// preconditions and effects, an initial state, and a conjunctive goal.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────┐
//	│                          Task                            │
//	│  Variables (domain sizes)  Operators (pre/eff)  Goal     │
//	└───────────────────────────┬───────────────────────────────┘
//	                            │ View (read-only)
//	                            ▼
//	                  ┌───────────────────┐
//	                  │  abstractsolver    │  projects onto a pattern
//	                  │      cegar         │  simulates plans concretely
//	                  └───────────────────┘
//
// Task itself never mutates once built; State values are produced by
// Apply, which returns a new, unregistered State rather than mutating a
// shared table — no global state registry is required by any consumer.
package task
