// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats aggregates benchmark results into grouped statistics.
//
// All statistics run over the already-rounded per-trial percentages
// stored in each BenchmarkResult; aggregation never re-derives from raw
// counts, so rounding error accumulates at the per-trial level. The
// helpers return zero values for empty series, never NaN or Inf.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// =============================================================================
// Series helpers
// =============================================================================

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value, averaging the two middles for an
// even-length series; 0 for an empty series.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MinMax returns the series extremes, zeros for an empty series.
func MinMax(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// StdDev returns the population standard deviation, 0 for a series of
// fewer than two values.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}

// Describe summarizes one series into a Distribution.
func Describe(values []float64) datatypes.Distribution {
	min, max := MinMax(values)
	return datatypes.Distribution{
		Mean:   Mean(values),
		Median: Median(values),
		Min:    min,
		Max:    max,
		StdDev: StdDev(values),
	}
}

// =============================================================================
// Aggregation
// =============================================================================

// series accumulates the two percentage columns of one group.
type series struct {
	savings  []float64
	overhead []float64
}

func (s *series) add(r datatypes.BenchmarkResult) {
	s.savings = append(s.savings, r.TokenSavingsPercent)
	s.overhead = append(s.overhead, r.TimeOverheadPercent)
}

func (s *series) stats() datatypes.GroupStats {
	return datatypes.GroupStats{
		Trials:       len(s.savings),
		TokenSavings: Describe(s.savings),
		TimeOverhead: Describe(s.overhead),
	}
}

// Aggregate computes grouped statistics over a frozen result table.
//
// # Description
//
// Groups trials by data type and independently by dataset size, then
// summarizes the run as a whole. Pure and idempotent: aggregating the
// same frozen table twice yields identical output. A table holding a
// single trial yields that trial's own percentages for every statistic
// (mean == median == min == max, stddev 0).
//
// # Inputs
//
//   - table: frozen result table; nil or unfrozen tables are rejected.
//
// # Outputs
//
//   - *datatypes.GroupedStatistics: grouped and summary statistics. An
//     empty table yields empty groups and a zero summary, never NaN/Inf.
//   - error: ErrInvalidArgument for nil, ErrInvalidState when unfrozen.
func Aggregate(table *datatypes.ResultTable) (*datatypes.GroupedStatistics, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil result table", datatypes.ErrInvalidArgument)
	}
	if !table.Frozen() {
		return nil, fmt.Errorf("%w: aggregation requires a frozen result table", datatypes.ErrInvalidState)
	}

	byType := make(map[datatypes.DataType]*series)
	bySize := make(map[int]*series)
	all := &series{}
	totalJSON, totalTOON := 0, 0

	for _, r := range table.Results {
		if byType[r.DataType] == nil {
			byType[r.DataType] = &series{}
		}
		byType[r.DataType].add(r)

		if bySize[r.Size] == nil {
			bySize[r.Size] = &series{}
		}
		bySize[r.Size].add(r)

		all.add(r)
		totalJSON += r.JSONTokens
		totalTOON += r.TOONTokens
	}

	out := &datatypes.GroupedStatistics{
		RunID:      table.RunID,
		ByDataType: make(map[datatypes.DataType]datatypes.GroupStats, len(byType)),
		BySize:     make(map[int]datatypes.GroupStats, len(bySize)),
		Summary: datatypes.SummaryStats{
			GroupStats:      all.stats(),
			TotalJSONTokens: totalJSON,
			TotalTOONTokens: totalTOON,
		},
	}
	for dt, s := range byType {
		out.ByDataType[dt] = s.stats()
	}
	for size, s := range bySize {
		out.BySize[size] = s.stats()
	}
	return out, nil
}
