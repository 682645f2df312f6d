// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine drives the benchmark: one RunOne per trial, RunMatrix over
// a full size x data-type x repetition grid.
//
// The Orchestrator owns no collaborator construction. Generator, encoders
// and measurer are built once at process start and passed in, so a broken
// tokenizer or encoder surfaces as a startup error rather than a mid-run
// surprise. Trial execution is strictly sequential; the ResultTable is
// never touched concurrently.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/AleutianAI/tokenbench/services/benchmark/codec"
	"github.com/AleutianAI/tokenbench/services/benchmark/datagen"
	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
	"github.com/AleutianAI/tokenbench/services/benchmark/measure"
)

// Dataset shape constants for matrix trials. The configured size always
// maps to the record count; the remaining dimensions are fixed so results
// stay comparable across runs.
const (
	// matrixColumns is the value-vector length for matrix datasets.
	matrixColumns = 10

	// matrixSparse selects sparse generation for matrix datasets.
	matrixSparse = true

	// experimentParameters is the synthetic parameter count for
	// experiment datasets.
	experimentParameters = 5

	// warmupRecords is the size of the throwaway time-series dataset
	// encoded before a matrix run to absorb first-call overhead.
	warmupRecords = 8
)

// defaultRecordSchema shapes the records data type: one field per primitive
// type tag, so a single trial exercises every generation rule.
var defaultRecordSchema = datagen.Schema{
	"active":     datagen.FieldBoolean,
	"count":      datagen.FieldInteger,
	"label":      datagen.FieldString,
	"ratio":      datagen.FieldFloat,
	"updated_at": datagen.FieldTimestamp,
}

// generateFuncs maps each data-type tag to its dataset construction call.
// BenchmarkConfig validation guarantees membership; a miss is still guarded.
var generateFuncs = map[datatypes.DataType]func(*Orchestrator, int) (datatypes.Dataset, error){
	datatypes.TypeTimeSeries: func(o *Orchestrator, size int) (datatypes.Dataset, error) {
		return o.gen.TimeSeries(size, nil)
	},
	datatypes.TypeMatrix: func(o *Orchestrator, size int) (datatypes.Dataset, error) {
		return o.gen.Matrix(size, matrixColumns, matrixSparse)
	},
	datatypes.TypeRecords: func(o *Orchestrator, size int) (datatypes.Dataset, error) {
		return o.gen.FromSchema(size, defaultRecordSchema)
	},
	datatypes.TypeExperiments: func(o *Orchestrator, size int) (datatypes.Dataset, error) {
		return o.gen.Experiments(size, experimentParameters)
	},
}

// ProgressFunc receives the completed and total trial counts after every
// trial, including skipped ones. Used by cmd for spinner/step output; not
// part of the functional contract.
type ProgressFunc func(completed, total int)

// OrchestratorOption is a functional option for configuring Orchestrator.
type OrchestratorOption func(*Orchestrator)

// Orchestrator runs benchmark trials over explicitly injected collaborators.
//
// # Description
//
// RunOne executes the measurement pipeline for a single dataset: encode
// with both codecs, measure character and token cost, sample encode latency
// and transient memory, derive the comparison percentages. RunMatrix drives
// RunOne over the configured grid and collects the results into a frozen
// ResultTable.
//
// # Thread Safety
//
// Not safe for concurrent use. Trials run strictly sequentially so each
// latency sample observes an idle process.
type Orchestrator struct {
	gen      *datagen.Generator
	jsonEnc  codec.Encoder
	toonEnc  codec.Encoder
	meas     *measure.Measurer
	policy   datatypes.ErrorPolicy
	samples  int
	jsonOpts codec.Options
	toonOpts codec.Options
	progress ProgressFunc
}

// NewOrchestrator creates an Orchestrator over the given collaborators.
//
// # Inputs
//
//   - gen: dataset generator. Must not be nil.
//   - jsonEnc, toonEnc: the two codecs under comparison. Must not be nil.
//   - meas: cost measurer. Must not be nil.
//   - opts: optional configuration.
//
// # Outputs
//
//   - *Orchestrator: ready to run; defaults to the abort error policy and
//     the measurer's default sample count.
//   - error: datatypes.ErrInvalidArgument if a collaborator is nil.
func NewOrchestrator(
	gen *datagen.Generator,
	jsonEnc, toonEnc codec.Encoder,
	meas *measure.Measurer,
	opts ...OrchestratorOption,
) (*Orchestrator, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: generator must not be nil", datatypes.ErrInvalidArgument)
	}
	if jsonEnc == nil || toonEnc == nil {
		return nil, fmt.Errorf("%w: both encoders must not be nil", datatypes.ErrInvalidArgument)
	}
	if meas == nil {
		return nil, fmt.Errorf("%w: measurer must not be nil", datatypes.ErrInvalidArgument)
	}

	o := &Orchestrator{
		gen:     gen,
		jsonEnc: jsonEnc,
		toonEnc: toonEnc,
		meas:    meas,
		policy:  datatypes.ErrorPolicyAbort,
		samples: measure.DefaultSamples,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// WithErrorPolicy sets how RunMatrix reacts to a failed trial. Invalid
// values keep the abort default.
func WithErrorPolicy(p datatypes.ErrorPolicy) OrchestratorOption {
	return func(o *Orchestrator) {
		if p.Valid() {
			o.policy = p
		}
	}
}

// WithSamples sets the latency sample count per format per trial. Values
// below 1 keep the default.
func WithSamples(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.samples = n
		}
	}
}

// WithEncodingOptions sets per-codec options (indentation, delimiter)
// applied to every encode in the run.
func WithEncodingOptions(jsonOpts, toonOpts codec.Options) OrchestratorOption {
	return func(o *Orchestrator) {
		o.jsonOpts = jsonOpts
		o.toonOpts = toonOpts
	}
}

// WithProgressFunc installs a progress hook called after every trial.
func WithProgressFunc(fn ProgressFunc) OrchestratorOption {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// Generate constructs a dataset for a data-type tag using the fixed trial
// shapes (matrix width, experiment parameter count, default record schema).
//
// # Inputs
//
//   - dataType: one of the closed data-type tags.
//   - size: record count, must be > 0.
//
// # Outputs
//
//   - datatypes.Dataset: size records of the requested shape.
//   - error: datatypes.ErrInvalidArgument for an unknown tag or a size the
//     underlying generator rejects.
func (o *Orchestrator) Generate(dataType datatypes.DataType, size int) (datatypes.Dataset, error) {
	fn, ok := generateFuncs[dataType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown data type %q", datatypes.ErrInvalidArgument, dataType)
	}
	return fn(o, size)
}

// RunOne executes the measurement pipeline for one dataset.
//
// # Description
//
// Pipeline order: encode with both codecs, measure character length, count
// tokens (heuristic fallback applies), sample encode latency and transient
// memory per format, then derive token_savings_percent and
// time_overhead_percent rounded to two decimals. A zero JSON token count or
// a zero JSON median latency would divide by zero; both are guarded and
// reported as datatypes.ErrInvalidState, never as NaN or Inf.
//
// The result carries no data-type tag; RunMatrix stamps the tag used for
// generation after the fact.
//
// # Inputs
//
//   - ctx: propagated to token counting.
//   - dataset: the records to benchmark. Must be non-empty.
//
// # Outputs
//
//   - datatypes.BenchmarkResult: one immutable trial result.
//   - error: ErrInvalidState for an empty dataset or zero denominators,
//     ErrEncoderFailure (wrapped) if either codec rejects the dataset.
func (o *Orchestrator) RunOne(ctx context.Context, dataset datatypes.Dataset) (datatypes.BenchmarkResult, error) {
	var zero datatypes.BenchmarkResult

	if len(dataset) == 0 {
		return zero, fmt.Errorf("%w: empty dataset", datatypes.ErrInvalidState)
	}

	jsonText, err := o.jsonEnc.Encode(dataset, o.jsonOpts)
	if err != nil {
		return zero, err
	}
	toonText, err := o.toonEnc.Encode(dataset, o.toonOpts)
	if err != nil {
		return zero, err
	}

	jsonChars, _ := o.meas.TextCost(jsonText)
	toonChars, _ := o.meas.TextCost(toonText)

	jsonTokens, jsonEstimated := o.meas.TokenCost(ctx, jsonText)
	toonTokens, toonEstimated := o.meas.TokenCost(ctx, toonText)

	jsonTime, err := o.meas.Latency(encodeThunk(o.jsonEnc, dataset, o.jsonOpts), o.samples)
	if err != nil {
		return zero, err
	}
	toonTime, err := o.meas.Latency(encodeThunk(o.toonEnc, dataset, o.toonOpts), o.samples)
	if err != nil {
		return zero, err
	}

	jsonMemory, err := o.meas.Memory(encodeThunk(o.jsonEnc, dataset, o.jsonOpts))
	if err != nil {
		return zero, err
	}
	toonMemory, err := o.meas.Memory(encodeThunk(o.toonEnc, dataset, o.toonOpts))
	if err != nil {
		return zero, err
	}

	if jsonTokens == 0 {
		return zero, fmt.Errorf("%w: zero json token count", datatypes.ErrInvalidState)
	}
	if jsonTime == 0 {
		return zero, fmt.Errorf("%w: zero json encode time", datatypes.ErrInvalidState)
	}

	savings := round2((1 - float64(toonTokens)/float64(jsonTokens)) * 100)
	overhead := round2((toonTime/jsonTime - 1) * 100)

	return datatypes.BenchmarkResult{
		Size:                len(dataset),
		JSONChars:           jsonChars,
		TOONChars:           toonChars,
		JSONTokens:          jsonTokens,
		TOONTokens:          toonTokens,
		JSONTimeMS:          jsonTime,
		TOONTimeMS:          toonTime,
		JSONMemoryKB:        jsonMemory,
		TOONMemoryKB:        toonMemory,
		TokenSavingsPercent: savings,
		TimeOverheadPercent: overhead,
		TokensEstimated:     jsonEstimated || toonEstimated,
		CapturedAt:          time.Now().UTC(),
	}, nil
}

// RunMatrix runs the full trial grid described by cfg.
//
// # Description
//
// Iterates sizes (outer) x data types (middle) x repetitions (inner),
// strictly sequentially. When cfg.Warmup is set, one throwaway trial on a
// small fixed time-series dataset runs first and is discarded. Each trial
// generates a fresh dataset, runs the RunOne pipeline, stamps the
// generating data-type tag on the result, and appends it to the table.
//
// Trial failures follow the configured error policy: abort (the default)
// returns the wrapping *datatypes.TrialError and no table; skip logs the
// failure, marks the table partial, and continues. The returned table is
// frozen.
//
// # Inputs
//
//   - ctx: propagated to token counting and instrumentation.
//   - cfg: validated grid definition.
//
// # Outputs
//
//   - *datatypes.ResultTable: frozen results, one row per completed trial.
//   - error: ErrInvalidArgument for a bad config, *datatypes.TrialError
//     under the abort policy, or a warmup failure.
func (o *Orchestrator) RunMatrix(ctx context.Context, cfg datatypes.BenchmarkConfig) (*datatypes.ResultTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startRunSpan(ctx, cfg)
	defer span.End()

	if cfg.Warmup {
		if err := o.warmup(ctx); err != nil {
			recordRun(ctx, "failed")
			return nil, err
		}
	}

	table := datatypes.NewResultTable(cfg)
	total := cfg.TrialCount()
	completed := 0

	for _, size := range cfg.Sizes {
		for _, dataType := range cfg.DataTypes {
			for rep := 0; rep < cfg.Repetitions; rep++ {
				result, err := o.runTrial(ctx, dataType, size, rep)
				if err != nil {
					trialErr := &datatypes.TrialError{
						DataType:   dataType,
						Size:       size,
						Repetition: rep,
						Err:        err,
					}
					if o.policy == datatypes.ErrorPolicySkip {
						slog.Warn("skipping failed trial",
							"data_type", string(dataType),
							"size", size,
							"repetition", rep,
							"reason", err.Error())
						recordTrialFailure(ctx, dataType, "skipped")
						table.Partial = true
						table.SkippedTrials++
						completed++
						o.reportProgress(completed, total)
						continue
					}
					recordTrialFailure(ctx, dataType, "failed")
					recordRun(ctx, "aborted")
					return nil, trialErr
				}

				if err := table.Append(result); err != nil {
					return nil, err
				}
				completed++
				o.reportProgress(completed, total)
			}
		}
	}

	table.Freeze()
	recordRun(ctx, "completed")
	return table, nil
}

// runTrial generates one dataset, measures it, and stamps the data-type
// tag. The measurement pipeline itself does not know the semantic tag.
func (o *Orchestrator) runTrial(ctx context.Context, dataType datatypes.DataType, size, rep int) (datatypes.BenchmarkResult, error) {
	ctx, span := startTrialSpan(ctx, dataType, size, rep)
	defer span.End()

	start := time.Now()

	dataset, err := o.Generate(dataType, size)
	if err != nil {
		return datatypes.BenchmarkResult{}, err
	}

	result, err := o.RunOne(ctx, dataset)
	if err != nil {
		return datatypes.BenchmarkResult{}, err
	}
	result.DataType = dataType

	setTrialSpanResult(span, result)
	recordTrial(ctx, result, time.Since(start))
	return result, nil
}

// warmup encodes and measures a small fixed dataset once, discarding the
// result. First-call costs (tokenizer vocabulary load, allocator growth)
// land here instead of in the smallest configured size.
func (o *Orchestrator) warmup(ctx context.Context) error {
	dataset, err := o.gen.TimeSeries(warmupRecords, nil)
	if err != nil {
		return fmt.Errorf("warmup: %w", err)
	}
	if _, err := o.RunOne(ctx, dataset); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}
	return nil
}

func (o *Orchestrator) reportProgress(completed, total int) {
	if o.progress == nil {
		return
	}
	o.progress(completed, total)
}

// encodeThunk binds an encoder to one dataset for repeated sampling.
func encodeThunk(enc codec.Encoder, dataset datatypes.Dataset, opts codec.Options) func() error {
	return func() error {
		_, err := enc.Encode(dataset, opts)
		return err
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
