// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used in
// database keys, InfluxDB line protocol, or tokenizer lookups. Using these
// validators prevents injection attacks (line-protocol injection, key
// manipulation) and rejects absurd ranges before they allocate memory.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Range limits for user-supplied benchmark parameters.
//
// Dataset sizes multiply out: every record is generated, encoded twice,
// and re-encoded for each latency sample. The caps keep a single CLI
// invocation from exhausting memory on a typo like --sizes 10000000.
const (
	// MaxDatasetSize is the largest per-trial record count accepted.
	MaxDatasetSize = 1_000_000

	// MaxSizeCount is the most size steps accepted in one matrix.
	MaxSizeCount = 64
)

// modelPattern matches tokenizer model names.
// Allows: lowercase letters, digits, dots (gpt-3.5-turbo),
// hyphens (gpt-4o), underscores (o200k_base)
// Max length: 64 characters
var modelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._\-]{0,63}$`)

// tagPattern matches data-type tags (time-series, matrix, ...).
var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9\-]{0,31}$`)

// runIDPattern matches hyphenated UUID run identifiers.
var runIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateModel validates a tokenizer model name.
//
// Model names flow into tiktoken encoding lookups and InfluxDB tags,
// so the shape is restricted to what real model identifiers use:
//
//   - 1-64 characters
//   - Lowercase letters a-z and digits 0-9
//   - Dots (.) as in gpt-3.5-turbo
//   - Hyphens (-) as in gpt-4o
//   - Underscores (_) as in o200k_base
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateModel(model); err != nil {
//	    return nil, fmt.Errorf("invalid model: %w", err)
//	}
//	// Safe to use as an Influx tag value
func ValidateModel(model string) error {
	if model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if !modelPattern.MatchString(model) {
		return fmt.Errorf("invalid model format: %q (must be 1-64 lowercase alphanumeric chars, dots, hyphens, or underscores)", model)
	}

	return nil
}

// SanitizeModel normalizes and validates a model name.
// Returns the lowercase name if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	safeModel, err := validation.SanitizeModel(userInput)
//	if err != nil {
//	    return err
//	}
//	// safeModel is lowercase and validated
func SanitizeModel(model string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(model))
	if err := ValidateModel(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateTag validates a data-type tag's shape.
//
// This is a shape check only; semantic membership in the closed tag
// enumeration is checked by the datatypes package. The shape screen
// keeps arbitrary user strings out of logs and metric labels.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("data type cannot be empty")
	}

	if !tagPattern.MatchString(tag) {
		return fmt.Errorf("invalid data type format: %q (must be 1-32 lowercase alphanumeric chars or hyphens)", tag)
	}

	return nil
}

// ValidateTags validates multiple data-type tags.
// Returns an error listing all invalid tags if any fail validation.
func ValidateTags(tags []string) error {
	var invalid []string
	for _, tag := range tags {
		if err := ValidateTag(tag); err != nil {
			invalid = append(invalid, tag)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid data types: %v", invalid)
	}
	return nil
}

// ValidateSize validates a single dataset size.
//
// Sizes must be positive and below MaxDatasetSize.
func ValidateSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("size must be positive, got %d", size)
	}
	if size > MaxDatasetSize {
		return fmt.Errorf("size %d exceeds maximum %d", size, MaxDatasetSize)
	}
	return nil
}

// ValidateSizes validates a dataset size list.
//
// The list must be non-empty, within MaxSizeCount entries, and every
// size must pass ValidateSize. Returns an error naming the first
// offending entry.
func ValidateSizes(sizes []int) error {
	if len(sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}
	if len(sizes) > MaxSizeCount {
		return fmt.Errorf("too many sizes: %d (maximum %d)", len(sizes), MaxSizeCount)
	}

	for _, size := range sizes {
		if err := ValidateSize(size); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRunID validates a run identifier before it is used as a
// database key.
//
// Run IDs are hyphenated UUIDs assigned at run creation. Anything
// else is rejected so lookups never probe arbitrary key shapes.
//
// Example:
//
//	if err := validation.ValidateRunID(args[0]); err != nil {
//	    return err
//	}
//	table, err := store.Get(ctx, args[0])
func ValidateRunID(runID string) error {
	if runID == "" {
		return fmt.Errorf("run id cannot be empty")
	}

	if !runIDPattern.MatchString(runID) {
		return fmt.Errorf("invalid run id format: %q (must be a hyphenated UUID)", runID)
	}

	return nil
}
