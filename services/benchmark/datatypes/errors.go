// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the shared data model for the benchmark service.
//
// This file defines the error taxonomy used across the generator, measurer,
// and orchestrator. Errors fall into two classes:
//
//   - Fatal to the call: ErrInvalidArgument, ErrEncoderFailure, ErrInvalidState.
//     These surface immediately to the caller and are never swallowed.
//   - Non-fatal degradations: ErrUnrecognizedField, ErrUnrecognizedType,
//     ErrTokenizerUnavailable. Components fall back to a documented default
//     and signal a warning instead of returning these directly.
//
// Classify with errors.Is; wrap with fmt.Errorf("...: %w", err).
package datatypes

import (
	"errors"
	"fmt"
)

// Sentinel errors for benchmark operations.
var (
	// ErrInvalidArgument is returned for malformed generator or config input:
	// non-positive counts, empty schemas, unknown data type tags. Always fatal
	// to the call and caught nowhere internally.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnrecognizedField marks an unknown time-series field tag. Generation
	// degrades to a uniform random fallback value; this sentinel is only used
	// to classify warning signals, never returned from a generator.
	ErrUnrecognizedField = errors.New("unrecognized field tag")

	// ErrUnrecognizedType marks an unknown schema type tag. The field is set
	// to an explicit no-value marker and generation continues.
	ErrUnrecognizedType = errors.New("unrecognized type tag")

	// ErrTokenizerUnavailable is returned when the tokenizer collaborator
	// cannot be constructed or fails for a given model. The measurer degrades
	// to a character-based estimate; token counts never abort a run.
	ErrTokenizerUnavailable = errors.New("tokenizer unavailable")

	// ErrEncoderFailure is returned when a format encoder fails for a dataset.
	// Fatal to the current trial; matrix propagation follows the configured
	// error policy.
	ErrEncoderFailure = errors.New("encoder failure")

	// ErrInvalidState guards derived-metric computation: zero token or time
	// denominators and empty serialized output are rejected with this error
	// rather than propagating NaN or Inf into results.
	ErrInvalidState = errors.New("invalid state")
)

// TrialError wraps a failure of one (data type, size, repetition) trial.
//
// The orchestrator attaches the trial coordinates so callers can identify
// which configuration failed without parsing the message. Unwrap exposes
// the underlying cause for errors.Is/As.
type TrialError struct {
	// DataType is the tag of the dataset that was being benchmarked.
	DataType DataType `json:"data_type"`

	// Size is the configured dataset size for the trial.
	Size int `json:"size"`

	// Repetition is the zero-based repetition index.
	Repetition int `json:"repetition"`

	// Err is the underlying error.
	Err error `json:"error"`
}

// Error implements the error interface.
func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %s/%d rep %d: %v", e.DataType, e.Size, e.Repetition, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TrialError) Unwrap() error {
	return e.Err
}
