// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/patterncollections/cegar-pdbs/internal/abstractsolver"
	"github.com/patterncollections/cegar-pdbs/internal/cegar"
	"github.com/patterncollections/cegar-pdbs/internal/config"
	"github.com/patterncollections/cegar-pdbs/internal/rng"
	"github.com/patterncollections/cegar-pdbs/internal/task"
	"github.com/patterncollections/cegar-pdbs/internal/telemetry"
	"github.com/patterncollections/cegar-pdbs/internal/verbosity"
)

// --- Global flags, following commands.go's package-level cobra.Command
// tree with flag-backed package vars set up in init(). ---
var (
	cfgPath       string
	taskFile      string
	seed          uint64
	traceExporter string
	metricsAddr   string
	jsonOutput    bool

	flagMaxRefinements       int
	flagMaxPDBSize           int
	flagMaxCollectionSize    int
	flagWildcardPlans        bool
	flagIgnoreGoalViolations bool
	flagGlobalBlacklistSize  int
	flagInitial              string
	flagGivenGoal            int
	flagMaxTime              float64
	flagVerbose              bool

	rootCmd = &cobra.Command{
		Use:   "cegar-pdbs",
		Short: "Generate pattern database collections via counterexample-guided refinement",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			shutdown, err := telemetry.Init(cmd.Context(), traceExporter)
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			shutdownTelemetry = shutdown

			if metricsAddr != "" {
				serveMetrics(metricsAddr)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdownTelemetry != nil {
				return shutdownTelemetry(context.Background())
			}
			return nil
		},
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Run the refinement loop and print the resulting pattern collection",
		RunE:  runGenerate,
	}
)

var shutdownTelemetry func(context.Context) error

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace-exporter", "none", "Trace exporter: stdout or none")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus /metrics on (empty disables it)")

	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&taskFile, "task", "", "Path to a SAS+ task file (required)")
	generateCmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the deterministic RNG source")
	generateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")

	generateCmd.Flags().IntVar(&flagMaxRefinements, "max-refinements", -1, "Refinement cap, -1 for unlimited (unset leaves the config value)")
	generateCmd.Flags().IntVar(&flagMaxPDBSize, "max-pdb-size", 1_000_000, "Per-pattern PDB size cap (unset leaves the config value)")
	generateCmd.Flags().IntVar(&flagMaxCollectionSize, "max-collection-size", -1, "Collection size cap, -1 for unlimited (unset leaves the config value)")
	generateCmd.Flags().BoolVar(&flagWildcardPlans, "wildcard-plans", true, "Compute wildcard abstract plans")
	generateCmd.Flags().BoolVar(&flagIgnoreGoalViolations, "ignore-goal-violations", false, "Ignore unmet non-blacklisted goal facts once a pattern's plan replays cleanly")
	generateCmd.Flags().IntVar(&flagGlobalBlacklistSize, "global-blacklist-size", 0, "Number of random non-goal variables to blacklist up front")
	generateCmd.Flags().StringVar(&flagInitial, "initial", "", "Initial collection seeding: ALL_GOALS, GIVEN_GOAL, or RANDOM_GOAL")
	generateCmd.Flags().IntVar(&flagGivenGoal, "given-goal", -1, "Goal variable to seed with, required when --initial=GIVEN_GOAL")
	generateCmd.Flags().Float64Var(&flagMaxTime, "max-time", -1, "Wall-clock budget in seconds, -1 for unbounded, 0 for an immediately expired deadline")
	generateCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log each refinement iteration")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if taskFile == "" {
		return fmt.Errorf("cegar-pdbs: --task is required")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	opts, err := cfg.ToOptions()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &opts)

	f, err := os.Open(taskFile)
	if err != nil {
		return fmt.Errorf("cegar-pdbs: opening %s: %w", taskFile, err)
	}
	defer f.Close()

	t, err := task.LoadSAS(f)
	if err != nil {
		return fmt.Errorf("cegar-pdbs: parsing %s: %w", taskFile, err)
	}

	log := verbosity.New(opts.Verbosity, nil)
	driver := cegar.NewDriver(t, abstractsolver.NewBruteForce(), rng.NewSeeded(seed), opts, log)

	result, err := driver.Generate(cmd.Context())
	if err != nil {
		return err
	}

	return printResult(result)
}

// applyFlagOverrides layers flags explicitly set on the command line over
// the config-file-derived Options, so an unset flag never clobbers a value
// the config file provided.
func applyFlagOverrides(cmd *cobra.Command, opts *cegar.Options) {
	flags := cmd.Flags()
	if flags.Changed("max-refinements") {
		opts.MaxRefinements = flagMaxRefinements
	}
	if flags.Changed("max-pdb-size") {
		opts.MaxPDBSize = flagMaxPDBSize
	}
	if flags.Changed("max-collection-size") {
		opts.MaxCollectionSize = flagMaxCollectionSize
	}
	if flags.Changed("wildcard-plans") {
		opts.WildcardPlans = flagWildcardPlans
	}
	if flags.Changed("ignore-goal-violations") {
		opts.IgnoreGoalViolations = flagIgnoreGoalViolations
	}
	if flags.Changed("global-blacklist-size") {
		opts.GlobalBlacklistSize = flagGlobalBlacklistSize
	}
	if flags.Changed("given-goal") {
		opts.GivenGoal = flagGivenGoal
	}
	if flags.Changed("max-time") {
		opts.MaxTime = flagMaxTime
	}
	if flags.Changed("verbose") && flagVerbose {
		opts.Verbosity = verbosity.Verbose
	}
	if flags.Changed("initial") {
		switch flagInitial {
		case "ALL_GOALS":
			opts.Initial = cegar.AllGoals
		case "GIVEN_GOAL":
			opts.Initial = cegar.GivenGoal
		case "RANDOM_GOAL":
			opts.Initial = cegar.RandomGoal
		}
	}
}

func printResult(result *cegar.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("refinements: %d\n", result.Refinements)
	fmt.Printf("concrete_solution: %t\n", result.ConcreteSolution)
	if result.ConcreteSolution {
		fmt.Printf("plan length: %d step(s)\n", result.ConcretePlanLength())
		fmt.Printf("plan cost: %d\n", result.ConcretePlanLength())
	}
	fmt.Printf("patterns (%d):\n", len(result.Patterns))
	for _, p := range result.Patterns {
		fmt.Printf("  %v  pdb_size=%d\n", p.Pattern, p.PDBSize)
	}
	return nil
}
