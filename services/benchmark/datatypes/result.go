// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BenchmarkResult records one (data type, size, repetition) trial.
//
// # Description
//
// Created once by the orchestrator and never mutated afterwards. The
// column set below is the de facto interchange contract with reporters
// and the export sink; renames here propagate to every renderer.
//
// Derived percentages are rounded to two decimals at capture time.
// Aggregation runs over these already-rounded values, so rounding error
// accumulates per trial, not per group.
type BenchmarkResult struct {
	// DataType is the tag of the generator that produced the dataset.
	// Set by the orchestrator after measurement; the measurement path
	// itself does not know the semantic type.
	DataType DataType `json:"data_type"`

	// Size is the record count of the dataset.
	Size int `json:"size"`

	// Character counts of the serialized output, per format.
	JSONChars int `json:"json_chars"`
	TOONChars int `json:"toon_chars"`

	// Token counts under the configured tokenizer model, per format.
	JSONTokens int `json:"json_tokens"`
	TOONTokens int `json:"toon_tokens"`

	// Median encode latency over the sampling loop, milliseconds.
	JSONTimeMS float64 `json:"json_time_ms"`
	TOONTimeMS float64 `json:"toon_time_ms"`

	// Transient allocation for one representative encode, kilobytes.
	JSONMemoryKB float64 `json:"json_memory_kb"`
	TOONMemoryKB float64 `json:"toon_memory_kb"`

	// TokenSavingsPercent = (1 - toon_tokens/json_tokens) * 100, 2 dp.
	TokenSavingsPercent float64 `json:"token_savings_percent"`

	// TimeOverheadPercent = (toon_time/json_time - 1) * 100, 2 dp.
	TimeOverheadPercent float64 `json:"time_overhead_percent"`

	// TokensEstimated is true when the tokenizer was unavailable and
	// counts fall back to the character-based estimate.
	TokensEstimated bool `json:"tokens_estimated,omitempty"`

	// CapturedAt is the trial capture timestamp.
	CapturedAt time.Time `json:"captured_at"`
}

// ResultTable holds all trial results for one full run.
//
// # Description
//
// Created empty at run start, appended to for the duration of the run,
// then frozen once the run completes. A frozen table is read-only and
// is what the aggregator, reporters, and the history store consume.
//
// # Thread Safety
//
// Not safe for concurrent use. The matrix loop is strictly sequential,
// so the table is only ever touched by one goroutine.
type ResultTable struct {
	// RunID uniquely identifies the run (UUID v4).
	RunID string `json:"run_id"`

	// Config echoes the matrix configuration that produced the table.
	Config BenchmarkConfig `json:"config"`

	// Results in trial-completion order.
	Results []BenchmarkResult `json:"results"`

	// Partial is true when the skip-on-error policy dropped at least
	// one trial; the table is incomplete but still aggregatable.
	Partial bool `json:"partial,omitempty"`

	// SkippedTrials counts trials dropped under the skip policy.
	SkippedTrials int `json:"skipped_trials,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	frozen bool
}

// NewResultTable creates an empty table for a validated config, stamped
// with a fresh run ID and start time.
func NewResultTable(cfg BenchmarkConfig) *ResultTable {
	return &ResultTable{
		RunID:     uuid.NewString(),
		Config:    cfg,
		Results:   make([]BenchmarkResult, 0, cfg.TrialCount()),
		StartedAt: time.Now().UTC(),
	}
}

// Append adds a trial result. Appending to a frozen table is a lifecycle
// violation and fails with ErrInvalidState.
func (t *ResultTable) Append(r BenchmarkResult) error {
	if t.frozen {
		return fmt.Errorf("append to frozen result table %s: %w", t.RunID, ErrInvalidState)
	}
	t.Results = append(t.Results, r)
	return nil
}

// Freeze marks the run complete and the table read-only. Idempotent. A
// CompletedAt already carried by the table is preserved, so re-freezing a
// deserialized run keeps its original completion time.
func (t *ResultTable) Freeze() {
	if t.frozen {
		return
	}
	t.frozen = true
	if t.CompletedAt.IsZero() {
		t.CompletedAt = time.Now().UTC()
	}
}

// Frozen reports whether the table has been frozen.
func (t *ResultTable) Frozen() bool {
	return t.frozen
}

// Len returns the number of recorded trials.
func (t *ResultTable) Len() int {
	return len(t.Results)
}
