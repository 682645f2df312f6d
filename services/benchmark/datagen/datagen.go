// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datagen produces the synthetic datasets the benchmark encodes.
//
// Four shapes are supported: chronological time series, numeric matrices,
// parameterized experiment records, and schema-driven arbitrary records.
// Every generator guarantees the uniformity invariant (each record in a
// dataset carries the identical key set, in the same order) and is
// deterministic in shape; values are drawn from the *rand.Rand injected at
// construction, so seeding is the caller's choice.
//
// Malformed input (non-positive counts, an empty schema) fails with
// datatypes.ErrInvalidArgument and produces no partial output. Unknown
// field or type tags never abort generation: they degrade to a fallback
// value and signal through the warning hook.
package datagen

import (
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// WarnFunc receives non-fatal generation warnings. The signature matches
// slog's logging methods so slog.Warn can be used directly.
type WarnFunc func(msg string, args ...any)

// GeneratorOption is a functional option for configuring Generator.
type GeneratorOption func(*Generator)

// Generator produces synthetic datasets from an injected random source.
//
// # Description
//
// One Generator is created per run and handed to the orchestrator. All
// randomness flows through the injected *rand.Rand; there is no package
// global state, so a seeded source reproduces a run's datasets exactly.
//
// # Thread Safety
//
// Not safe for concurrent use: *rand.Rand is not synchronized and trial
// execution is strictly sequential anyway.
type Generator struct {
	rng  *rand.Rand
	warn WarnFunc
}

// NewGenerator creates a Generator drawing values from rng. A nil rng
// falls back to a clock-seeded source.
func NewGenerator(rng *rand.Rand, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:  rng,
		warn: slog.Warn,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.warn == nil {
		g.warn = slog.Warn
	}

	return g
}

// WithWarnFunc redirects non-fatal generation warnings. The default sink
// is slog.Warn.
func WithWarnFunc(fn WarnFunc) GeneratorOption {
	return func(g *Generator) {
		g.warn = fn
	}
}

// =============================================================================
// Shared draw helpers
// =============================================================================

// normal draws from N(mean, stddev).
func (g *Generator) normal(mean, stddev float64) float64 {
	return g.rng.NormFloat64()*stddev + mean
}

const alphanum = "abcdefghijklmnopqrstuvwxyz0123456789"

// randString returns a fixed-length lowercase alphanumeric string.
func (g *Generator) randString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanum[g.rng.Intn(len(alphanum))]
	}
	return string(b)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
