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
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tokenbench/pkg/ux"
	"github.com/AleutianAI/tokenbench/pkg/validation"
)

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		ux.Muted("no saved runs")
		return nil
	}

	ux.Title(fmt.Sprintf("%d saved run(s)", len(summaries)))
	for _, s := range summaries {
		types := make([]string, 0, len(s.DataTypes))
		for _, dt := range s.DataTypes {
			types = append(types, string(dt))
		}
		line := fmt.Sprintf("%s  %s  %d trial(s)  %s",
			s.RunID,
			s.CompletedAt.Format("2006-01-02 15:04:05"),
			s.Trials,
			strings.Join(types, ","))
		if s.Partial {
			line += "  (partial)"
		}
		ux.Info(line)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if err := validation.ValidateRunID(runID); err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	table, err := store.Get(context.Background(), runID)
	if err != nil {
		return err
	}
	return writeReport(table, historyFormat, "")
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	keep, _ := cmd.Flags().GetInt("keep")
	if keep < 0 {
		return fmt.Errorf("--keep must be >= 0, got %d", keep)
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(context.Background(), keep)
	if err != nil {
		return err
	}
	ux.Success(fmt.Sprintf("pruned %d run(s), kept the %d most recent", removed, keep))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if err := validation.ValidateRunID(runID); err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(context.Background(), runID); err != nil {
		return err
	}
	ux.Success(fmt.Sprintf("deleted run %s", runID))
	return nil
}
