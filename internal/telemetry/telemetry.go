// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides the span-per-unit-of-work tracing used by the
// CEGAR driver, grounded on
// services/trace/agent/mcts/algorithms/runner.go's
// otel.Tracer("algorithms").Start(...) pattern. Spans here are purely
// observational: nothing in internal/cegar reads span state, and losing a
// span never changes control flow (the concurrency model in SPEC_FULL.md §5
// forbids anything in the core depending on tracing for correctness).
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "cegar-pdbs"

// Init installs a stdout-exporting TracerProvider when traceExporter is
// "stdout", mirroring services/trace/telemetry/telemetry.go's
// switch-on-exporter-name Init pattern trimmed to the one exporter this
// module ships a dependency for. Any other value (including "none" or "")
// leaves otel's default no-op tracer in place. The returned shutdown must
// be called once at process exit; it is a no-op when nothing was installed.
func Init(ctx context.Context, traceExporter string) (shutdown func(context.Context) error, err error) {
	if traceExporter != "stdout" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// StartGenerate opens the root span for one Driver.Generate call.
func StartGenerate(ctx context.Context, numVariables, numOperators int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "cegar.generate",
		trace.WithAttributes(
			attribute.Int("num_variables", numVariables),
			attribute.Int("num_operators", numOperators),
		),
	)
}

// StartRefinement opens a child span for one refinement iteration.
func StartRefinement(ctx context.Context, iteration int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "cegar.refinement",
		trace.WithAttributes(attribute.Int("iteration", iteration)),
	)
}

// StartSolve opens a child span for one AbstractSolver.Solve call.
func StartSolve(ctx context.Context, pattern []int) (context.Context, trace.Span) {
	ints := make([]int64, len(pattern))
	for i, v := range pattern {
		ints[i] = int64(v)
	}
	return otel.Tracer(tracerName).Start(ctx, "cegar.solve_pattern",
		trace.WithAttributes(attribute.Int64Slice("pattern", ints)),
	)
}

// EndWithError records err on span (a no-op if err is nil) and ends it.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
