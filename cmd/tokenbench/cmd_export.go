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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tokenbench/pkg/ux"
	"github.com/AleutianAI/tokenbench/pkg/validation"
	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

func runExport(cmd *cobra.Command, _ []string) error {
	if err := validation.ValidateRunID(exportRunID); err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	table, err := store.Get(ctx, exportRunID)
	if err != nil {
		return err
	}

	cfg := resolveInfluxConfig(exportURL, exportToken, exportOrg, exportBucket)
	sink := NewInfluxSink(cfg)
	defer sink.Close()

	if err := exportRun(ctx, sink, table); err != nil {
		return err
	}

	ux.Success(fmt.Sprintf("exported %d trial(s) of run %s to %s (%s/%s)",
		table.Len(), table.RunID, cfg.URL, cfg.Org, cfg.Bucket))
	return nil
}

// exportRun ships a saved run through a sink. Split from the command so
// tests can drive it with a MockSink.
func exportRun(ctx context.Context, sink ResultSink, table *datatypes.ResultTable) error {
	if !table.Frozen() {
		return fmt.Errorf("%w: refusing to export an unfrozen run", datatypes.ErrInvalidState)
	}
	return sink.WriteRun(ctx, table)
}
