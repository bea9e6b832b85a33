// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package countdown provides the cooperative wall-clock deadline the CEGAR
// driver checks between iterations. Grounded on
// services/trace/agent/mcts/budget.go's TreeBudget (Elapsed/Exhausted), but
// stripped of every atomic/mutex-protected counter: spec.md §5 requires the
// core to be single-threaded and synchronous, and a deadline check here is
// the only resource limit the core itself enforces (node/expansion counts
// belong to the MCTS domain, not this one).
package countdown

import (
	"math"
	"time"
)

// Timer tracks a deadline measured in wall-clock seconds from creation.
// A negative or infinite limit means "no deadline" (never expires),
// matching spec.md's max_time default of infinity. A limit of exactly zero
// is a real, immediately-expired deadline, not "unlimited" — the
// configuration surface's max_time bound is ">= 0" precisely so 0 can mean
// "don't even try."
type Timer struct {
	deadline time.Time
	forever  bool
	start    time.Time
}

// New starts a Timer with the given limit in seconds. A negative or +Inf
// limit means no deadline.
func New(limitSeconds float64) *Timer {
	now := time.Now()
	if limitSeconds < 0 || math.IsInf(limitSeconds, 1) {
		return &Timer{forever: true, start: now}
	}
	return &Timer{
		deadline: now.Add(time.Duration(limitSeconds * float64(time.Second))),
		start:    now,
	}
}

// Expired reports whether the deadline has passed. Always false for a
// no-deadline Timer.
func (t *Timer) Expired() bool {
	if t.forever {
		return false
	}
	return !time.Now().Before(t.deadline)
}

// Elapsed returns the time since the Timer was created.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
