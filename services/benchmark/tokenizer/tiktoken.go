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
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// Tiktoken counts tokens with the BPE vocabulary of a named model.
//
// # Description
//
// The vocabulary is resolved once at construction; an unsupported model
// name or an unreachable vocabulary source fails the constructor with
// ErrTokenizerUnavailable, never a later Count call. Callers that must
// survive without it fall back to Heuristic (the measurer does this
// automatically).
//
// # Limitations
//
// First-time vocabulary loads fetch the BPE file unless a local cache
// (TIKTOKEN_CACHE_DIR) already holds it.
type Tiktoken struct {
	model string
	enc   *tiktoken.Tiktoken
}

// NewTiktoken resolves the tokenizer for model.
func NewTiktoken(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w: model %q: %v", datatypes.ErrTokenizerUnavailable, model, err)
	}
	return &Tiktoken{model: model, enc: enc}, nil
}

// Count implements Counter.
func (t *Tiktoken) Count(_ context.Context, text string) (int, error) {
	return len(t.enc.Encode(text, nil, nil)), nil
}

// Model implements Counter.
func (t *Tiktoken) Model() string {
	return t.model
}

var _ Counter = (*Tiktoken)(nil)
