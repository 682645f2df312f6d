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
	"strings"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// MarkdownRenderer writes GitHub-flavored tables, one row per trial plus
// the grouped statistics, for pasting into PRs and docs.
type MarkdownRenderer struct{}

var _ Renderer = MarkdownRenderer{}

func (MarkdownRenderer) Render(w io.Writer, table *datatypes.ResultTable, stats *datatypes.GroupedStatistics) error {
	if table == nil {
		return fmt.Errorf("%w: nil result table", datatypes.ErrInvalidArgument)
	}

	if _, err := fmt.Fprintf(w, "# Token Benchmark Report\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "- Run: %s\n- Started: %s\n- Completed: %s\n- Trials: %d\n",
		table.RunID,
		table.StartedAt.Format(timestampLayout),
		table.CompletedAt.Format(timestampLayout),
		table.Len()); err != nil {
		return err
	}
	if table.Partial {
		if _, err := fmt.Fprintf(w, "- **Partial run**: %d trial(s) skipped\n", table.SkippedTrials); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n## Trials\n\n"); err != nil {
		return err
	}

	if err := markdownRow(w, resultColumns); err != nil {
		return err
	}
	if err := markdownRule(w, len(resultColumns)); err != nil {
		return err
	}
	for _, r := range table.Results {
		if err := markdownRow(w, resultRow(r)); err != nil {
			return err
		}
	}

	if stats == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n## By data type\n\n"); err != nil {
		return err
	}
	if err := markdownRow(w, groupHeader("data_type")); err != nil {
		return err
	}
	if err := markdownRule(w, 6); err != nil {
		return err
	}
	for _, k := range sortedTypeKeys(stats.ByDataType) {
		if err := markdownRow(w, groupRow(string(k), stats.ByDataType[k])); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n## By size\n\n"); err != nil {
		return err
	}
	if err := markdownRow(w, groupHeader("size")); err != nil {
		return err
	}
	if err := markdownRule(w, 6); err != nil {
		return err
	}
	for _, k := range sortedSizeKeys(stats.BySize) {
		if err := markdownRow(w, groupRow(strconv.Itoa(k), stats.BySize[k])); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n## Summary\n\n"); err != nil {
		return err
	}
	if err := markdownRow(w, []string{"metric", "value"}); err != nil {
		return err
	}
	if err := markdownRule(w, 2); err != nil {
		return err
	}
	s := stats.Summary
	lines := []struct {
		name  string
		value string
	}{
		{"trials", strconv.Itoa(s.Trials)},
		{"token_savings_mean_percent", formatFloat(s.TokenSavings.Mean, 2)},
		{"token_savings_median_percent", formatFloat(s.TokenSavings.Median, 2)},
		{"token_savings_min_percent", formatFloat(s.TokenSavings.Min, 2)},
		{"token_savings_max_percent", formatFloat(s.TokenSavings.Max, 2)},
		{"token_savings_stddev", formatFloat(s.TokenSavings.StdDev, 2)},
		{"time_overhead_mean_percent", formatFloat(s.TimeOverhead.Mean, 2)},
		{"total_json_tokens", strconv.Itoa(s.TotalJSONTokens)},
		{"total_toon_tokens", strconv.Itoa(s.TotalTOONTokens)},
	}
	for _, line := range lines {
		if err := markdownRow(w, []string{line.name, line.value}); err != nil {
			return err
		}
	}
	return nil
}

func markdownRow(w io.Writer, cells []string) error {
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	return err
}

func markdownRule(w io.Writer, columns int) error {
	cells := make([]string, columns)
	for i := range cells {
		cells[i] = "---"
	}
	_, err := fmt.Fprintf(w, "|%s|\n", strings.Join(cells, "|"))
	return err
}
