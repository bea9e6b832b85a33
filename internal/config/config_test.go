// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/patterncollections/cegar-pdbs/internal/cegar"
)

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(missing) = %+v, want Default()", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("max_pdb_size: 500\nwildcard_plans: false\ninitial: GIVEN_GOAL\ngiven_goal: 2\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxPDBSize != 500 {
		t.Errorf("MaxPDBSize = %d, want 500", cfg.MaxPDBSize)
	}
	if cfg.WildcardPlans {
		t.Errorf("WildcardPlans = true, want false")
	}
	if cfg.Initial != "GIVEN_GOAL" || cfg.GivenGoal != 2 {
		t.Errorf("Initial/GivenGoal = %q/%d, want GIVEN_GOAL/2", cfg.Initial, cfg.GivenGoal)
	}
	// fields absent from the file keep their defaults
	if cfg.MaxCollectionSize != Default().MaxCollectionSize {
		t.Errorf("MaxCollectionSize = %d, want default %d", cfg.MaxCollectionSize, Default().MaxCollectionSize)
	}
}

func TestToOptionsMapsUnboundedSentinel(t *testing.T) {
	cfg := Default()
	cfg.MaxTime = -1
	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions: %v", err)
	}
	if !math.IsInf(opts.MaxTime, 1) {
		t.Errorf("MaxTime = %v, want +Inf", opts.MaxTime)
	}
}

func TestToOptionsRejectsUnknownInitial(t *testing.T) {
	cfg := Default()
	cfg.Initial = "NOT_A_REAL_MODE"
	if _, err := cfg.ToOptions(); err == nil {
		t.Fatalf("ToOptions: expected error for unknown initial collection type")
	}
}

func TestToOptionsRoundTripsGivenGoal(t *testing.T) {
	cfg := Default()
	cfg.Initial = "GIVEN_GOAL"
	cfg.GivenGoal = 3
	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions: %v", err)
	}
	if opts.Initial != cegar.GivenGoal || opts.GivenGoal != 3 {
		t.Fatalf("Initial/GivenGoal = %v/%d, want GivenGoal/3", opts.Initial, opts.GivenGoal)
	}
}
