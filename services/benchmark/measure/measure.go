// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package measure prices serialized payloads and encode operations.
//
// Three independent cost dimensions: text size (characters and bytes),
// token count under a tokenizer model (with a character-based estimate
// when the tokenizer is unavailable), and encode latency/transient
// memory under repeated sampling. Token counting never aborts a run;
// encode failures do.
package measure

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/AleutianAI/tokenbench/services/benchmark/stats"
	"github.com/AleutianAI/tokenbench/services/benchmark/tokenizer"
)

// DefaultSamples is the latency sampling count when the caller passes
// samples <= 0. Median over 100 samples is robust against scheduler
// jitter and one-off pauses.
const DefaultSamples = 100

// WarnFunc receives non-fatal measurement warnings. Matches slog's
// logging methods so slog.Warn can be used directly.
type WarnFunc func(msg string, args ...any)

// MeasurerOption is a functional option for configuring Measurer.
type MeasurerOption func(*Measurer)

// Measurer prices payloads using an explicitly constructed tokenizer
// collaborator.
//
// # Description
//
// The tokenizer is injected at construction and never dialed lazily; a
// nil counter means every token count uses the heuristic estimate. A
// counter failure degrades to the same estimate with a warning, once
// per Measurer, so a dead tokenizer does not flood the log across a
// large matrix.
//
// # Thread Safety
//
// Not safe for concurrent use. Trial execution is sequential and each
// latency sample must observe an idle process.
type Measurer struct {
	counter  tokenizer.Counter
	estimate *tokenizer.Heuristic
	warn     WarnFunc

	warnedFallback bool
}

// NewMeasurer creates a Measurer delegating token counts to counter.
func NewMeasurer(counter tokenizer.Counter, opts ...MeasurerOption) *Measurer {
	m := &Measurer{
		counter:  counter,
		estimate: tokenizer.NewHeuristic(),
		warn:     slog.Warn,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.warn == nil {
		m.warn = slog.Warn
	}
	return m
}

// WithWarnFunc redirects non-fatal measurement warnings. The default
// sink is slog.Warn.
func WithWarnFunc(fn WarnFunc) MeasurerOption {
	return func(m *Measurer) {
		m.warn = fn
	}
}

// TextCost returns the character (rune) count and byte length of s.
func (m *Measurer) TextCost(s string) (chars, bytes int) {
	return utf8.RuneCountInString(s), len(s)
}

// TokenCost counts tokens in s under the configured model.
//
// # Description
//
// Delegates to the injected counter. If no counter is configured or the
// counter fails, the count falls back to ceil(chars/4) and estimated is
// true. Token counting never returns an error: a benchmark run must not
// die because a vocabulary was unreachable.
func (m *Measurer) TokenCost(ctx context.Context, s string) (tokens int, estimated bool) {
	if m.counter != nil {
		n, err := m.counter.Count(ctx, s)
		if err == nil {
			return n, false
		}
		m.fallbackWarning("token count failed, using character estimate",
			"model", m.counter.Model(), "error", err.Error())
	} else {
		m.fallbackWarning("no tokenizer configured, using character estimate")
	}

	n, _ := m.estimate.Count(ctx, s)
	return n, true
}

// Latency invokes encode samples times and returns the median duration
// in milliseconds. samples <= 0 selects DefaultSamples. The first
// encode failure aborts sampling.
func (m *Measurer) Latency(encode func() error, samples int) (float64, error) {
	if samples <= 0 {
		samples = DefaultSamples
	}

	durations := make([]float64, 0, samples)
	for i := 0; i < samples; i++ {
		begin := time.Now()
		if err := encode(); err != nil {
			return 0, fmt.Errorf("latency sample %d: %w", i, err)
		}
		durations = append(durations, float64(time.Since(begin))/float64(time.Millisecond))
	}
	return stats.Median(durations), nil
}

// Memory returns the transient heap allocation of one representative
// encode invocation, in kilobytes.
//
// # Limitations
//
// Measures allocation volume (monotonic TotalAlloc delta), not peak
// residency; allocations freed mid-call still count. Suits the purpose
// of comparing two encoders on identical input.
func (m *Measurer) Memory(encode func() error) (float64, error) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	if err := encode(); err != nil {
		return 0, fmt.Errorf("memory trial: %w", err)
	}

	runtime.ReadMemStats(&after)
	return float64(after.TotalAlloc-before.TotalAlloc) / 1024, nil
}

// fallbackWarning emits the degradation warning once per Measurer.
func (m *Measurer) fallbackWarning(msg string, args ...any) {
	if m.warnedFallback {
		return
	}
	m.warnedFallback = true
	m.warn(msg, args...)
}

// PeakRSS returns the process peak resident set size in kilobytes.
// Diagnostic only, never part of a BenchmarkResult; ok is false on
// platforms without rusage support.
func PeakRSS() (kb int64, ok bool) {
	return peakRSSKB()
}
