// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tokenizer counts language-model tokens for serialized payloads.
//
// The real counter wraps tiktoken BPE vocabularies keyed by model name.
// The heuristic counter estimates four characters per token and exists
// both standalone (offline runs) and as the measurer's fallback when the
// real tokenizer is unavailable.
package tokenizer

import (
	"context"
	"unicode/utf8"
)

// Counter counts tokens in a text under one tokenizer model.
//
// # Thread Safety
//
// Implementations must be safe for repeated sequential use; the
// benchmark loop never calls Count concurrently.
type Counter interface {
	// Count returns the token count of text.
	Count(ctx context.Context, text string) (int, error)

	// Model names the pricing model the counts correspond to.
	Model() string
}

// Heuristic estimates tokens as ceil(characters / 4), the conventional
// rule of thumb for English-heavy payloads. It never fails.
type Heuristic struct{}

// NewHeuristic creates the estimating counter.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Count implements Counter. Characters are runes, not bytes.
func (h *Heuristic) Count(_ context.Context, text string) (int, error) {
	chars := utf8.RuneCountInString(text)
	return (chars + 3) / 4, nil
}

// Model implements Counter.
func (h *Heuristic) Model() string {
	return "heuristic"
}

// MockCounter is a configurable test double for Counter.
type MockCounter struct {
	// Tokens and Err are returned by Count.
	Tokens int
	Err    error

	// ModelTag is returned by Model.
	ModelTag string

	// Calls counts Count invocations.
	Calls int
}

// Count implements Counter.
func (m *MockCounter) Count(_ context.Context, _ string) (int, error) {
	m.Calls++
	return m.Tokens, m.Err
}

// Model implements Counter.
func (m *MockCounter) Model() string {
	return m.ModelTag
}

var (
	_ Counter = (*Heuristic)(nil)
	_ Counter = (*MockCounter)(nil)
)
