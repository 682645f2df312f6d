// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tokenizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// =============================================================================
// Heuristic Tests
// =============================================================================

func TestHeuristic_Count(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"below one chunk", "abc", 1},
		{"exactly one chunk", "abcd", 1},
		{"one over", "abcde", 2},
		{"hundred chars", strings.Repeat("x", 100), 25},
		{"unicode runes not bytes", "héllo", 2}, // 5 runes, 6 bytes
	}

	h := NewHeuristic()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.Count(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("heuristic count must never fail, got %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %d tokens for %q, got %d", tc.expected, tc.text, got)
			}
		})
	}
}

func TestHeuristic_Model(t *testing.T) {
	if got := NewHeuristic().Model(); got != "heuristic" {
		t.Errorf("expected model tag 'heuristic', got %q", got)
	}
}

// =============================================================================
// Tiktoken Tests
// =============================================================================

func TestNewTiktoken_UnknownModel(t *testing.T) {
	_, err := NewTiktoken("not-a-real-model")
	if err == nil {
		t.Fatal("expected constructor failure for unknown model, got nil")
	}
	if !errors.Is(err, datatypes.ErrTokenizerUnavailable) {
		t.Errorf("expected ErrTokenizerUnavailable, got %v", err)
	}
}

// =============================================================================
// Mock Tests
// =============================================================================

func TestMockCounter(t *testing.T) {
	m := &MockCounter{Tokens: 12, ModelTag: "mock"}

	got, err := m.Count(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 {
		t.Errorf("expected 12 tokens, got %d", got)
	}
	if m.Calls != 1 {
		t.Errorf("expected 1 call recorded, got %d", m.Calls)
	}
	if m.Model() != "mock" {
		t.Errorf("expected model tag 'mock', got %q", m.Model())
	}
}

func TestMockCounter_Error(t *testing.T) {
	m := &MockCounter{Err: datatypes.ErrTokenizerUnavailable}

	_, err := m.Count(context.Background(), "whatever")
	if !errors.Is(err, datatypes.ErrTokenizerUnavailable) {
		t.Errorf("expected configured error, got %v", err)
	}
}
