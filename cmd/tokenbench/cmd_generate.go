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
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tokenbench/pkg/validation"
	"github.com/AleutianAI/tokenbench/services/benchmark/codec"
	"github.com/AleutianAI/tokenbench/services/benchmark/datagen"
	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
	"github.com/AleutianAI/tokenbench/services/benchmark/engine"
	"github.com/AleutianAI/tokenbench/services/benchmark/measure"
	"github.com/AleutianAI/tokenbench/services/benchmark/tokenizer"
)

func runGenerate(cmd *cobra.Command, _ []string) error {
	if err := validation.ValidateTag(genType); err != nil {
		return err
	}
	dataType, err := datatypes.ParseDataType(genType)
	if err != nil {
		return err
	}
	if err := validation.ValidateSize(genSize); err != nil {
		return err
	}

	var enc codec.Encoder
	switch genEncoding {
	case "json":
		enc = codec.NewJSON()
	case "toon":
		enc = codec.NewTOON()
	default:
		return fmt.Errorf("%w: encoding %q (want json or toon)", datatypes.ErrInvalidArgument, genEncoding)
	}

	seed := time.Now().UnixNano()
	if cmd.Flags().Changed("seed") {
		seed = genSeed
	}
	gen := datagen.NewGenerator(rand.New(rand.NewSource(seed)), datagen.WithWarnFunc(logger.Warn))

	dataset, err := buildDataset(gen, dataType, genSize, genSchema)
	if err != nil {
		return err
	}

	text, err := enc.Encode(dataset, nil)
	if err != nil {
		return err
	}

	if genOut == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(genOut, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	logger.Info("dataset written",
		"path", genOut, "type", string(dataType), "records", genSize, "encoding", genEncoding)
	return nil
}

// buildDataset produces a dataset with the same fixed shapes the benchmark
// matrix uses, so generated samples match what a run would measure. An
// explicit --schema replaces the default record schema.
func buildDataset(gen *datagen.Generator, dataType datatypes.DataType, size int, schemaPairs []string) (datatypes.Dataset, error) {
	if len(schemaPairs) > 0 {
		if dataType != datatypes.TypeRecords {
			return nil, fmt.Errorf("%w: --schema only applies to --type records", datatypes.ErrInvalidArgument)
		}
		schema, err := parseSchema(schemaPairs)
		if err != nil {
			return nil, err
		}
		return gen.FromSchema(size, schema)
	}

	// The orchestrator owns the fixed trial shapes; borrow its dispatch
	// instead of restating the constants here.
	orch, err := engine.NewOrchestrator(
		gen, codec.NewJSON(), codec.NewTOON(),
		measure.NewMeasurer(tokenizer.NewHeuristic()),
	)
	if err != nil {
		return nil, err
	}
	return orch.Generate(dataType, size)
}

// parseSchema converts name:type pairs into a generator schema.
func parseSchema(pairs []string) (datagen.Schema, error) {
	schema := make(datagen.Schema, len(pairs))
	for _, pair := range pairs {
		name, typeTag, ok := strings.Cut(pair, ":")
		if !ok || name == "" || typeTag == "" {
			return nil, fmt.Errorf("%w: schema entry %q (want name:type)", datatypes.ErrInvalidArgument, pair)
		}
		schema[name] = typeTag
	}
	return schema, nil
}
