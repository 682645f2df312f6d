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

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Data Type Tags
// =============================================================================

// DataType tags the shape of a generated dataset. The set is closed:
// the orchestrator dispatches on it and the aggregator groups by it.
type DataType string

const (
	// TypeTimeSeries is a chronological sensor-style sequence.
	TypeTimeSeries DataType = "time-series"

	// TypeMatrix is a row-per-record numeric matrix, sparse by default.
	TypeMatrix DataType = "matrix"

	// TypeRecords is a schema-driven set of arbitrary uniform records.
	TypeRecords DataType = "records"

	// TypeExperiments is a parameterized experiment-result sequence.
	TypeExperiments DataType = "experiments"
)

// AllDataTypes lists every valid tag in canonical order.
var AllDataTypes = []DataType{TypeTimeSeries, TypeMatrix, TypeRecords, TypeExperiments}

// Valid reports whether the tag is a member of the closed enumeration.
func (t DataType) Valid() bool {
	switch t {
	case TypeTimeSeries, TypeMatrix, TypeRecords, TypeExperiments:
		return true
	}
	return false
}

// ParseDataType converts a string tag to a DataType or fails with
// ErrInvalidArgument listing the valid tags.
func ParseDataType(s string) (DataType, error) {
	t := DataType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown data type %q (valid: %v)", ErrInvalidArgument, s, AllDataTypes)
	}
	return t, nil
}

// =============================================================================
// Shared Validator Instance
// =============================================================================

// benchValidate is the validator instance for benchmark datatypes.
// Initialized in init() with custom validators.
var benchValidate *validator.Validate

func init() {
	benchValidate = validator.New()

	// Register custom validators for closed enums
	_ = benchValidate.RegisterValidation("datatype", validateDataType)
	_ = benchValidate.RegisterValidation("errorpolicy", validateErrorPolicy)
}

// validateDataType validates that a field holds a member of the closed
// DataType enumeration.
func validateDataType(fl validator.FieldLevel) bool {
	return DataType(fl.Field().String()).Valid()
}

// validateErrorPolicy validates that a field holds a recognized error
// policy.
func validateErrorPolicy(fl validator.FieldLevel) bool {
	return ErrorPolicy(fl.Field().String()).Valid()
}

// =============================================================================
// Benchmark Configuration
// =============================================================================

// BenchmarkConfig describes one full experiment matrix.
//
// # Description
//
// BenchmarkConfig is an immutable value object: it is validated once at
// construction and never re-checked (or mutated) at use time. The
// orchestrator iterates Sizes x DataTypes x Repetitions in that nesting
// order.
//
// # Fields
//
//   - Sizes: dataset sizes to benchmark, all > 0.
//   - DataTypes: tags from the closed enumeration, at least one.
//   - Repetitions: trials per (size, type) pair, > 0.
//   - Warmup: run one throwaway encode/measure cycle before the matrix
//     to absorb first-call overhead.
//
// # Examples
//
//	cfg, err := NewBenchmarkConfig([]int{10, 100}, []DataType{TypeTimeSeries}, 3, true)
type BenchmarkConfig struct {
	Sizes       []int      `yaml:"sizes" json:"sizes" validate:"required,min=1,dive,gt=0"`
	DataTypes   []DataType `yaml:"data_types" json:"data_types" validate:"required,min=1,dive,datatype"`
	Repetitions int        `yaml:"repetitions" json:"repetitions" validate:"required,gt=0"`
	Warmup      bool       `yaml:"warmup" json:"warmup"`
}

// NewBenchmarkConfig builds and validates a config. Violations are
// ErrInvalidArgument and are raised here, at construction, never at use.
func NewBenchmarkConfig(sizes []int, types []DataType, repetitions int, warmup bool) (BenchmarkConfig, error) {
	cfg := BenchmarkConfig{
		Sizes:       sizes,
		DataTypes:   types,
		Repetitions: repetitions,
		Warmup:      warmup,
	}
	if err := cfg.Validate(); err != nil {
		return BenchmarkConfig{}, err
	}
	return cfg, nil
}

// Validate checks the construction-time invariants: all sizes > 0, at
// least one valid data type, repetitions > 0.
func (c BenchmarkConfig) Validate() error {
	if err := benchValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// TrialCount returns the number of trials the matrix will run.
func (c BenchmarkConfig) TrialCount() int {
	return len(c.Sizes) * len(c.DataTypes) * c.Repetitions
}
