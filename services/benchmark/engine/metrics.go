// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// Package-level tracer and meter for benchmark operations.
var (
	tracer = otel.Tracer("aleutian.benchmark")
	meter  = otel.Meter("aleutian.benchmark")
)

// Metrics for benchmark execution.
var (
	// Trial metrics
	trialsTotal   metric.Int64Counter
	trialDuration metric.Float64Histogram
	tokenSavings  metric.Float64Histogram

	// Run metrics
	runsTotal      metric.Int64Counter
	tokensMeasured metric.Int64Counter
	estimatedRuns  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		// Trial metrics
		trialsTotal, err = meter.Int64Counter(
			"benchmark_trials_total",
			metric.WithDescription("Total benchmark trials by data type and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		trialDuration, err = meter.Float64Histogram(
			"benchmark_trial_duration_seconds",
			metric.WithDescription("Trial wall-clock duration by data type"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		tokenSavings, err = meter.Float64Histogram(
			"benchmark_token_savings_percent",
			metric.WithDescription("Token savings percentage distribution by data type"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		// Run metrics
		runsTotal, err = meter.Int64Counter(
			"benchmark_runs_total",
			metric.WithDescription("Total matrix runs by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		tokensMeasured, err = meter.Int64Counter(
			"benchmark_tokens_total",
			metric.WithDescription("Total tokens measured by format"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		estimatedRuns, err = meter.Int64Counter(
			"benchmark_estimated_counts_total",
			metric.WithDescription("Trials priced with the character estimate instead of a tokenizer"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordTrial records metrics for one completed trial.
//
// Thread Safety: Safe for concurrent use.
func recordTrial(ctx context.Context, r datatypes.BenchmarkResult, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("data_type", string(r.DataType)),
	)

	trialsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("data_type", string(r.DataType)),
		attribute.String("outcome", "completed"),
	))
	trialDuration.Record(ctx, duration.Seconds(), attrs)
	tokenSavings.Record(ctx, r.TokenSavingsPercent, attrs)

	tokensMeasured.Add(ctx, int64(r.JSONTokens), metric.WithAttributes(attribute.String("format", "json")))
	tokensMeasured.Add(ctx, int64(r.TOONTokens), metric.WithAttributes(attribute.String("format", "toon")))

	if r.TokensEstimated {
		estimatedRuns.Add(ctx, 1, attrs)
	}
}

// recordTrialFailure records a failed or skipped trial.
//
// Thread Safety: Safe for concurrent use.
func recordTrialFailure(ctx context.Context, dataType datatypes.DataType, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}

	trialsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("data_type", string(dataType)),
		attribute.String("outcome", outcome),
	))
}

// recordRun records the outcome of a whole matrix run.
//
// Thread Safety: Safe for concurrent use.
func recordRun(ctx context.Context, outcome string) {
	if err := initMetrics(); err != nil {
		return
	}
	runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// startRunSpan creates a span covering one full matrix run.
func startRunSpan(ctx context.Context, cfg datatypes.BenchmarkConfig) (context.Context, trace.Span) {
	return tracer.Start(ctx, "benchmark.run_matrix",
		trace.WithAttributes(
			attribute.Int("benchmark.sizes", len(cfg.Sizes)),
			attribute.Int("benchmark.data_types", len(cfg.DataTypes)),
			attribute.Int("benchmark.repetitions", cfg.Repetitions),
			attribute.Int("benchmark.trials", cfg.TrialCount()),
			attribute.Bool("benchmark.warmup", cfg.Warmup),
		),
	)
}

// startTrialSpan creates a span for one trial.
func startTrialSpan(ctx context.Context, dataType datatypes.DataType, size, rep int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "benchmark.trial",
		trace.WithAttributes(
			attribute.String("benchmark.data_type", string(dataType)),
			attribute.Int("benchmark.size", size),
			attribute.Int("benchmark.repetition", rep),
		),
	)
}

// setTrialSpanResult sets result attributes on a trial span.
func setTrialSpanResult(span trace.Span, r datatypes.BenchmarkResult) {
	span.SetAttributes(
		attribute.Int("benchmark.json_tokens", r.JSONTokens),
		attribute.Int("benchmark.toon_tokens", r.TOONTokens),
		attribute.Float64("benchmark.token_savings_percent", r.TokenSavingsPercent),
		attribute.Float64("benchmark.time_overhead_percent", r.TimeOverheadPercent),
		attribute.Bool("benchmark.tokens_estimated", r.TokensEstimated),
	)
}
