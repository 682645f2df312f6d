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
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/tokenbench/pkg/ux"
	"github.com/AleutianAI/tokenbench/pkg/validation"
	"github.com/AleutianAI/tokenbench/services/benchmark/codec"
	"github.com/AleutianAI/tokenbench/services/benchmark/datagen"
	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
	"github.com/AleutianAI/tokenbench/services/benchmark/engine"
	"github.com/AleutianAI/tokenbench/services/benchmark/measure"
	"github.com/AleutianAI/tokenbench/services/benchmark/tokenizer"
)

func runRun(cmd *cobra.Command, _ []string) error {
	scn, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	if runWatch && scenarioPath == "" {
		return fmt.Errorf("--watch requires --scenario: %w", datatypes.ErrInvalidArgument)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telShutdown, err := initTelemetry(ctx)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := telShutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server
	if metricsAddr != "" {
		srv = metricsServer(metricsAddr)
		g.Go(func() error {
			logger.Info("serving metrics", "addr", metricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			if srv != nil {
				sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(sctx)
			}
		}()

		if err := executeRun(gctx, scn); err != nil {
			return err
		}
		if runWatch {
			return watchAndRerun(gctx, scenarioPath)
		}
		return nil
	})

	return g.Wait()
}

// buildScenario resolves the run definition: a scenario file when --scenario
// is set, the matrix flags otherwise. Flags that were explicitly set
// override the file's run-level fields.
func buildScenario(cmd *cobra.Command) (*datatypes.Scenario, error) {
	var scn *datatypes.Scenario

	if scenarioPath != "" {
		loaded, err := datatypes.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		scn = loaded
	} else {
		if err := validation.ValidateSizes(runSizes); err != nil {
			return nil, err
		}
		if err := validation.ValidateTags(runTypes); err != nil {
			return nil, err
		}
		types := make([]datatypes.DataType, 0, len(runTypes))
		for _, tag := range runTypes {
			dt, err := datatypes.ParseDataType(tag)
			if err != nil {
				return nil, err
			}
			types = append(types, dt)
		}

		cfg, err := datatypes.NewBenchmarkConfig(runSizes, types, runReps, runWarmup)
		if err != nil {
			return nil, err
		}
		scn = &datatypes.Scenario{
			Name:      "adhoc",
			Benchmark: cfg,
		}
	}

	if cmd.Flags().Changed("model") || scn.Model == "" {
		model := runModel
		if model == "" {
			model = config.Model
		}
		if model == "" {
			model = datatypes.DefaultTokenizerModel
		}
		scn.Model = model
	}
	model, err := validation.SanitizeModel(scn.Model)
	if err != nil {
		return nil, err
	}
	scn.Model = model

	if cmd.Flags().Changed("policy") || scn.ErrorPolicy == "" {
		policy, err := datatypes.ParseErrorPolicy(runPolicy)
		if err != nil {
			return nil, err
		}
		scn.ErrorPolicy = policy
	}
	if cmd.Flags().Changed("seed") {
		seed := runSeed
		scn.Seed = &seed
	}
	if cmd.Flags().Changed("json-indent") {
		scn.Encoding.JSONIndent = runIndent
	}

	return scn, nil
}

// buildCounter resolves the token counter for a model name. The literal
// model "heuristic" selects the offline estimator; a tokenizer that cannot
// be constructed degrades to the same estimator with a warning, because
// token counts must never abort a run.
func buildCounter(model string) tokenizer.Counter {
	if model == "heuristic" {
		return tokenizer.NewHeuristic()
	}
	counter, err := tokenizer.NewTiktoken(model)
	if err != nil {
		logger.Warn("tokenizer unavailable, using character estimate",
			"model", model, "error", err)
		ux.Warning(fmt.Sprintf("tokenizer for %s unavailable; token counts are estimates", model))
		return tokenizer.NewHeuristic()
	}
	return counter
}

// executeRun wires the collaborators, runs the matrix, and reports.
func executeRun(ctx context.Context, scn *datatypes.Scenario) error {
	seed := time.Now().UnixNano()
	if scn.Seed != nil {
		seed = *scn.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	gen := datagen.NewGenerator(rng, datagen.WithWarnFunc(logger.Warn))
	meas := measure.NewMeasurer(buildCounter(scn.Model), measure.WithWarnFunc(logger.Warn))

	progress := newMatrixProgress()
	defer progress.Finish()

	var jsonOpts codec.Options
	if scn.Encoding.JSONIndent {
		jsonOpts = codec.Options{"indent": true}
	}

	opts := []engine.OrchestratorOption{
		engine.WithErrorPolicy(scn.ErrorPolicy),
		engine.WithEncodingOptions(jsonOpts, nil),
		engine.WithProgressFunc(progress.Update),
	}
	if runSamples > 0 {
		opts = append(opts, engine.WithSamples(runSamples))
	}

	orch, err := engine.NewOrchestrator(gen, codec.NewJSON(), codec.NewTOON(), meas, opts...)
	if err != nil {
		return err
	}

	logger.Info("starting benchmark run",
		"scenario", scn.Name,
		"trials", scn.Benchmark.TrialCount(),
		"model", scn.Model,
		"policy", string(scn.ErrorPolicy),
		"seed", seed)
	recordRunStarted()

	started := time.Now()
	table, err := orch.RunMatrix(ctx, scn.Benchmark)
	progress.Finish()
	if err != nil {
		return err
	}

	ux.Summary(table.Len(), table.SkippedTrials, scn.Benchmark.TrialCount())
	if table.Partial {
		ux.Warning(fmt.Sprintf("run is partial: %d trial(s) skipped", table.SkippedTrials))
	}
	logger.Info("benchmark run complete",
		"run_id", table.RunID,
		"trials", table.Len(),
		"elapsed", time.Since(started).Round(time.Millisecond).String())

	if err := writeReport(table, runFormat, runOut); err != nil {
		return err
	}

	if runSave {
		store, err := openHistory()
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer store.Close()
		if err := store.Save(ctx, table); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		ux.Success(fmt.Sprintf("saved run %s", table.RunID))
	}

	return nil
}

// watchAndRerun blocks on the scenario file and re-executes the run on
// every write until the context is cancelled. The scenario is re-parsed
// each time so edits to the matrix take effect; a file that no longer
// parses is reported and skipped, not fatal.
func watchAndRerun(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	ux.Info(fmt.Sprintf("watching %s for changes (ctrl-c to stop)", path))

	// Editors fire bursts of events per save; a short debounce collapses
	// them into one rerun.
	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-timerCh:
			timer = nil
			timerCh = nil

			scn, err := datatypes.LoadScenario(path)
			if err != nil {
				ux.Error(fmt.Sprintf("scenario reload failed: %v", err))
				continue
			}
			recordWatchRerun()
			ux.Info(fmt.Sprintf("scenario changed, rerunning %s", scn.Name))
			if err := executeRun(ctx, scn); err != nil {
				ux.Error(fmt.Sprintf("rerun failed: %v", err))
			}
		}
	}
}
