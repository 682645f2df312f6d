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

// Distribution summarizes one series of already-rounded per-trial
// percentages. StdDev is the population standard deviation; a
// single-value series has Mean == Median == Min == Max and StdDev 0.
type Distribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// GroupStats summarizes the trials of one group: all trials sharing a
// data type, or sharing a dataset size.
//
// # Description
//
// Inputs are the per-trial TokenSavingsPercent and TimeOverheadPercent
// values, which are rounded to two decimals at capture time; the
// distributions describe those rounded values, not re-derived ratios.
type GroupStats struct {
	// Trials is the number of results in the group.
	Trials int `json:"trials"`

	// TokenSavings describes the token-savings percentages.
	TokenSavings Distribution `json:"token_savings"`

	// TimeOverhead describes the encode-time overhead percentages.
	TimeOverhead Distribution `json:"time_overhead"`
}

// SummaryStats summarizes a whole run across every trial, with raw
// token totals so the absolute spend difference survives alongside the
// percentages.
type SummaryStats struct {
	GroupStats

	TotalJSONTokens int `json:"total_json_tokens"`
	TotalTOONTokens int `json:"total_toon_tokens"`
}

// GroupedStatistics is the aggregator output for one frozen result
// table: savings and overhead distributions grouped by data type and by
// dataset size, plus the run-wide summary.
//
// # Description
//
// Map keys carry no order. Renderers sort keys before display (data
// types lexically, sizes ascending) so output is deterministic.
type GroupedStatistics struct {
	RunID string `json:"run_id"`

	ByDataType map[DataType]GroupStats `json:"by_data_type"`
	BySize     map[int]GroupStats      `json:"by_size"`

	Summary SummaryStats `json:"summary"`
}
