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
	"errors"
	"testing"
)

// =============================================================================
// DataType Tests
// =============================================================================

func TestDataType_Valid_AllConstants(t *testing.T) {
	for _, dt := range AllDataTypes {
		if !dt.Valid() {
			t.Errorf("expected %q to be valid", dt)
		}
	}
}

func TestDataType_Valid_InvalidValues(t *testing.T) {
	invalid := []DataType{
		"",
		"timeseries",
		"time_series",
		"Time-Series", // case sensitive
		"graph",
	}

	for _, dt := range invalid {
		if dt.Valid() {
			t.Errorf("expected %q to be invalid", dt)
		}
	}
}

func TestParseDataType_Valid(t *testing.T) {
	dt, err := ParseDataType("time-series")
	if err != nil {
		t.Fatalf("expected valid tag, got error: %v", err)
	}
	if dt != TypeTimeSeries {
		t.Errorf("expected %q, got %q", TypeTimeSeries, dt)
	}
}

func TestParseDataType_Invalid(t *testing.T) {
	_, err := ParseDataType("csv")
	if err == nil {
		t.Fatal("expected error for unknown tag, got nil")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAllDataTypes_CoversEnum(t *testing.T) {
	if len(AllDataTypes) != 4 {
		t.Errorf("expected 4 data types, got %d", len(AllDataTypes))
	}
}

// =============================================================================
// BenchmarkConfig Validation Tests
// =============================================================================

func TestNewBenchmarkConfig_Success(t *testing.T) {
	cfg, err := NewBenchmarkConfig([]int{10, 100}, []DataType{TypeTimeSeries, TypeMatrix}, 3, true)
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if !cfg.Warmup {
		t.Error("expected warmup to be preserved")
	}
}

func TestNewBenchmarkConfig_EmptySizes(t *testing.T) {
	_, err := NewBenchmarkConfig(nil, []DataType{TypeTimeSeries}, 1, false)
	if err == nil {
		t.Error("expected error for empty sizes, got nil")
	}
}

func TestNewBenchmarkConfig_ZeroSize(t *testing.T) {
	_, err := NewBenchmarkConfig([]int{10, 0}, []DataType{TypeTimeSeries}, 1, false)
	if err == nil {
		t.Error("expected error for size 0, got nil")
	}
}

func TestNewBenchmarkConfig_NegativeSize(t *testing.T) {
	_, err := NewBenchmarkConfig([]int{-5}, []DataType{TypeTimeSeries}, 1, false)
	if err == nil {
		t.Error("expected error for negative size, got nil")
	}
}

func TestNewBenchmarkConfig_EmptyDataTypes(t *testing.T) {
	_, err := NewBenchmarkConfig([]int{10}, nil, 1, false)
	if err == nil {
		t.Error("expected error for empty data types, got nil")
	}
}

func TestNewBenchmarkConfig_UnknownDataType(t *testing.T) {
	_, err := NewBenchmarkConfig([]int{10}, []DataType{"graph"}, 1, false)
	if err == nil {
		t.Error("expected error for unknown data type, got nil")
	}
}

func TestNewBenchmarkConfig_ZeroRepetitions(t *testing.T) {
	_, err := NewBenchmarkConfig([]int{10}, []DataType{TypeTimeSeries}, 0, false)
	if err == nil {
		t.Error("expected error for zero repetitions, got nil")
	}
}

func TestBenchmarkConfig_Validate_WrapsInvalidArgument(t *testing.T) {
	cfg := BenchmarkConfig{Sizes: []int{10}, DataTypes: []DataType{"bogus"}, Repetitions: 1}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBenchmarkConfig_TrialCount(t *testing.T) {
	cfg := BenchmarkConfig{
		Sizes:       []int{10, 100},
		DataTypes:   []DataType{TypeTimeSeries, TypeMatrix, TypeRecords},
		Repetitions: 4,
	}

	if got := cfg.TrialCount(); got != 24 {
		t.Errorf("expected 24 trials, got %d", got)
	}
}

// =============================================================================
// ErrorPolicy Tests
// =============================================================================

func TestErrorPolicy_Valid(t *testing.T) {
	if !ErrorPolicyAbort.Valid() {
		t.Error("expected abort to be valid")
	}
	if !ErrorPolicySkip.Valid() {
		t.Error("expected skip to be valid")
	}
	if ErrorPolicy("retry").Valid() {
		t.Error("expected retry to be invalid")
	}
}

func TestParseErrorPolicy_Valid(t *testing.T) {
	p, err := ParseErrorPolicy("skip")
	if err != nil {
		t.Fatalf("expected valid policy, got error: %v", err)
	}
	if p != ErrorPolicySkip {
		t.Errorf("expected %q, got %q", ErrorPolicySkip, p)
	}
}

func TestParseErrorPolicy_Invalid(t *testing.T) {
	_, err := ParseErrorPolicy("continue")
	if err == nil {
		t.Fatal("expected error for unknown policy, got nil")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
