// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command cegar-pdbs runs the counterexample-guided pattern collection
// generator against a SAS+-encoded planning task.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/patterncollections/cegar-pdbs/internal/cegar"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the driver's sentinel errors to process exit codes.
// Budget exhaustion is not an error and never reaches this function.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, cegar.ErrInput):
		return 2
	case errors.Is(err, cegar.ErrUnsolvable):
		return 3
	default:
		return 1
	}
}
