// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package codec serializes datasets into the two competing formats.
//
// The baseline format is plain JSON; the alternative is TOON, a tabular
// token-economical rendering that states the field names once in a header
// and emits one delimited row per record. Both encoders are pure: the
// same dataset and options always produce the same string.
package codec

import (
	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// Options is an open mapping of encoder-specific settings. Unrecognized
// keys are the encoder's concern; encoders ignore what they do not know.
type Options map[string]any

// Bool reads a boolean option, false when absent or mistyped.
func (o Options) Bool(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// String reads a string option, falling back when absent or mistyped.
func (o Options) String(key, fallback string) string {
	v, ok := o[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// Encoder serializes a dataset into one format.
//
// # Thread Safety
//
// Implementations are stateless and safe for concurrent use, though the
// benchmark loop is sequential.
type Encoder interface {
	// Name returns the short format tag used in logs and reports.
	Name() string

	// Encode serializes the dataset. A failure is fatal to the current
	// trial and wraps datatypes.ErrEncoderFailure.
	Encode(ds datatypes.Dataset, opts Options) (string, error)
}

// MockEncoder is a configurable test double for Encoder.
type MockEncoder struct {
	// NameTag is returned by Name.
	NameTag string

	// Output and Err are returned by Encode.
	Output string
	Err    error

	// Calls counts Encode invocations.
	Calls int
}

// Name implements Encoder.
func (m *MockEncoder) Name() string {
	return m.NameTag
}

// Encode implements Encoder.
func (m *MockEncoder) Encode(_ datatypes.Dataset, _ Options) (string, error) {
	m.Calls++
	return m.Output, m.Err
}

var _ Encoder = (*MockEncoder)(nil)
