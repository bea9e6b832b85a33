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

import "errors"

// Package-level sentinel errors, matched with errors.Is.
var (
	// ErrInput signals a misconfiguration detected before the driver starts:
	// an option outside its bounds, or initial == GivenGoal but GivenGoal is
	// out of range or not a goal variable.
	ErrInput = errors.New("cegar: invalid input")

	// ErrUnsolvable signals that some live entry's abstract projection has
	// been proven unsolvable. Since pattern projection only relaxes the
	// task, this implies the concrete task itself is unsolvable.
	ErrUnsolvable = errors.New("cegar: task is unsolvable")
)

// componentError wraps a sentinel with the operation that produced it,
// following the {Component, Operation, Err} shape used elsewhere in the
// codebase for algorithm-specific failures.
type componentError struct {
	Component string
	Operation string
	Err       error
}

func (e *componentError) Error() string {
	return e.Component + "." + e.Operation + ": " + e.Err.Error()
}

func (e *componentError) Unwrap() error { return e.Err }

func inputErrorf(operation string, err error) error {
	return &componentError{Component: "driver", Operation: operation, Err: errors.Join(ErrInput, err)}
}

func unsolvableError(operation string) error {
	return &componentError{Component: "driver", Operation: operation, Err: ErrUnsolvable}
}
