// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
	"github.com/AleutianAI/tokenbench/services/benchmark/history"
	"github.com/AleutianAI/tokenbench/services/benchmark/report"
	"github.com/AleutianAI/tokenbench/services/benchmark/stats"
)

// writeReport aggregates a frozen run and renders it in the requested
// format, to a file when outPath is set and to stdout otherwise.
//
// Aggregation failures are reported but do not block the per-trial rows:
// a partial run with zero completed trials still renders as an empty
// table rather than erroring out after the benchmark already ran.
func writeReport(table *datatypes.ResultTable, format, outPath string) error {
	renderer, err := report.ForFormat(format)
	if err != nil {
		return fmt.Errorf("%w (supported formats: %s)", err, strings.Join(report.Formats(), ", "))
	}

	grouped, err := stats.Aggregate(table)
	if err != nil {
		logger.Warn("rendering without aggregate statistics", "error", err)
		grouped = nil
	}

	if outPath == "" {
		return renderer.Render(os.Stdout, table, grouped)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := renderer.Render(f, table, grouped); err != nil {
		return err
	}
	logger.Info("report written", "path", outPath, "format", format)
	return nil
}

// openHistory opens the run history store at the configured path.
func openHistory() (*history.Store, error) {
	cfg := history.DefaultConfig(expandPath(historyPath))
	cfg.Logger = logger.Slog()
	return history.Open(cfg)
}
