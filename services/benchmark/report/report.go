// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report renders a benchmark run for humans and for downstream
// tooling. The tabular shape (data type, size, per-format token and char
// counts, latency, memory, derived percentages, capture timestamp) is the
// interchange contract and is preserved across every format.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// Supported output formats.
const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Renderer writes one benchmark run in a fixed output format.
//
// stats may be nil; renderers then emit the per-trial rows without the
// aggregate sections.
type Renderer interface {
	Render(w io.Writer, table *datatypes.ResultTable, stats *datatypes.GroupedStatistics) error
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case FormatTable:
		return TableRenderer{}, nil
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatMarkdown:
		return MarkdownRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{Pretty: true}, nil
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", datatypes.ErrInvalidArgument, format)
	}
}

// Formats lists the supported format names in display order.
func Formats() []string {
	return []string{FormatTable, FormatCSV, FormatMarkdown, FormatJSON}
}

// resultColumns is the shared column order for row-oriented formats.
var resultColumns = []string{
	"data_type", "size",
	"json_tokens", "toon_tokens",
	"json_chars", "toon_chars",
	"json_time_ms", "toon_time_ms",
	"json_memory_kb", "toon_memory_kb",
	"token_savings_percent", "time_overhead_percent",
	"tokens_estimated", "captured_at",
}

// resultRow formats one result in resultColumns order.
func resultRow(r datatypes.BenchmarkResult) []string {
	return []string{
		string(r.DataType),
		strconv.Itoa(r.Size),
		strconv.Itoa(r.JSONTokens),
		strconv.Itoa(r.TOONTokens),
		strconv.Itoa(r.JSONChars),
		strconv.Itoa(r.TOONChars),
		formatFloat(r.JSONTimeMS, 3),
		formatFloat(r.TOONTimeMS, 3),
		formatFloat(r.JSONMemoryKB, 1),
		formatFloat(r.TOONMemoryKB, 1),
		formatFloat(r.TokenSavingsPercent, 2),
		formatFloat(r.TimeOverheadPercent, 2),
		strconv.FormatBool(r.TokensEstimated),
		r.CapturedAt.Format(timestampLayout),
	}
}

const timestampLayout = "2006-01-02T15:04:05Z07:00"

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// sortedTypeKeys returns the data-type group keys sorted lexically.
func sortedTypeKeys(groups map[datatypes.DataType]datatypes.GroupStats) []datatypes.DataType {
	keys := make([]datatypes.DataType, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// sortedSizeKeys returns the size group keys ascending.
func sortedSizeKeys(groups map[int]datatypes.GroupStats) []int {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
