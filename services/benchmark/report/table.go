// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// TableRenderer writes ASCII tables for terminal display: the per-trial
// rows, then the grouped statistics when provided. The machine-readable
// columns (estimate flag, capture timestamp) live in the CSV and JSON
// renderers; here the run header carries the timestamps and an estimate
// footnote keeps the token columns honest.
type TableRenderer struct{}

var _ Renderer = TableRenderer{}

func (TableRenderer) Render(w io.Writer, table *datatypes.ResultTable, stats *datatypes.GroupedStatistics) error {
	if table == nil {
		return fmt.Errorf("%w: nil result table", datatypes.ErrInvalidArgument)
	}

	if _, err := fmt.Fprintf(w, "Run %s\n", table.RunID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Started %s, completed %s\n",
		table.StartedAt.Format(timestampLayout),
		table.CompletedAt.Format(timestampLayout)); err != nil {
		return err
	}
	if table.Partial {
		if _, err := fmt.Fprintf(w, "PARTIAL RUN: %d trial(s) skipped\n", table.SkippedTrials); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	rows := tablewriter.NewWriter(w)
	rows.SetHeader([]string{
		"Type", "Size",
		"JSON Tok", "TOON Tok",
		"JSON Ch", "TOON Ch",
		"JSON ms", "TOON ms",
		"JSON KB", "TOON KB",
		"Save %", "Over %",
	})
	estimated := false
	for _, r := range table.Results {
		estimated = estimated || r.TokensEstimated
		rows.Append([]string{
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
		})
	}
	rows.Render()

	if estimated {
		if _, err := fmt.Fprintln(w, "* token counts estimated (ceil(chars/4)); tokenizer was unavailable"); err != nil {
			return err
		}
	}

	if stats == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\nBy data type\n"); err != nil {
		return err
	}
	byType := tablewriter.NewWriter(w)
	byType.SetHeader(groupHeader("Data Type"))
	for _, k := range sortedTypeKeys(stats.ByDataType) {
		byType.Append(groupRow(string(k), stats.ByDataType[k]))
	}
	byType.Render()

	if _, err := fmt.Fprintf(w, "\nBy size\n"); err != nil {
		return err
	}
	bySize := tablewriter.NewWriter(w)
	bySize.SetHeader(groupHeader("Size"))
	for _, k := range sortedSizeKeys(stats.BySize) {
		bySize.Append(groupRow(strconv.Itoa(k), stats.BySize[k]))
	}
	bySize.Render()

	if _, err := fmt.Fprintf(w, "\nSummary\n"); err != nil {
		return err
	}
	sum := tablewriter.NewWriter(w)
	sum.SetHeader([]string{"Metric", "Value"})
	s := stats.Summary
	sum.Append([]string{"Trials", strconv.Itoa(s.Trials)})
	sum.Append([]string{"Token savings mean %", formatFloat(s.TokenSavings.Mean, 2)})
	sum.Append([]string{"Token savings median %", formatFloat(s.TokenSavings.Median, 2)})
	sum.Append([]string{"Token savings min %", formatFloat(s.TokenSavings.Min, 2)})
	sum.Append([]string{"Token savings max %", formatFloat(s.TokenSavings.Max, 2)})
	sum.Append([]string{"Token savings stddev", formatFloat(s.TokenSavings.StdDev, 2)})
	sum.Append([]string{"Time overhead mean %", formatFloat(s.TimeOverhead.Mean, 2)})
	sum.Append([]string{"Total JSON tokens", strconv.Itoa(s.TotalJSONTokens)})
	sum.Append([]string{"Total TOON tokens", strconv.Itoa(s.TotalTOONTokens)})
	sum.Render()

	return nil
}

func groupHeader(key string) []string {
	return []string{
		key, "Trials",
		"Save Mean", "Save Median",
		"Over Mean", "Over Median",
	}
}

func groupRow(key string, g datatypes.GroupStats) []string {
	return []string{
		key,
		strconv.Itoa(g.Trials),
		formatFloat(g.TokenSavings.Mean, 2),
		formatFloat(g.TokenSavings.Median, 2),
		formatFloat(g.TimeOverhead.Mean, 2),
		formatFloat(g.TimeOverhead.Median, 2),
	}
}
