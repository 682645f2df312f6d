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
	"os"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// trialMeasurement is the InfluxDB measurement name for exported trials.
const trialMeasurement = "benchmark_trials"

// ResultSink receives a completed run for external storage.
//
// # Description
//
// The benchmark core knows nothing about dashboards; this is the CLI's
// boundary for shipping a frozen ResultTable to a time-series backend so
// savings trends can be charted across runs.
//
// # Thread Safety
//
// Implementations must tolerate a single writer; the CLI never exports
// concurrently.
type ResultSink interface {
	// WriteRun stores every trial of a frozen run.
	WriteRun(ctx context.Context, table *datatypes.ResultTable) error

	// Close releases the underlying connection.
	Close()
}

// InfluxConfig holds the InfluxDB connection settings for the export path.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// resolveInfluxConfig layers flag values over environment variables over
// local-development defaults.
func resolveInfluxConfig(url, token, org, bucket string) InfluxConfig {
	cfg := InfluxConfig{URL: url, Token: token, Org: org, Bucket: bucket}
	if cfg.URL == "" {
		cfg.URL = envOr("INFLUXDB_URL", "http://localhost:8086")
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("INFLUXDB_TOKEN")
	}
	if cfg.Org == "" {
		cfg.Org = envOr("INFLUXDB_ORG", "aleutian")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = envOr("INFLUXDB_BUCKET", "tokenbench")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InfluxSink writes benchmark trials to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

// NewInfluxSink connects a sink. The client is lazy; connectivity errors
// surface on the first WriteRun, not here.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		bucket:   cfg.Bucket,
		org:      cfg.Org,
	}
}

// WriteRun implements ResultSink. One point per trial, batched into a
// single blocking write.
func (s *InfluxSink) WriteRun(ctx context.Context, table *datatypes.ResultTable) error {
	if table == nil || table.Len() == 0 {
		return fmt.Errorf("%w: nothing to export", datatypes.ErrInvalidArgument)
	}

	points := make([]*write.Point, 0, table.Len())
	for _, r := range table.Results {
		points = append(points, trialPoint(table.RunID, r))
	}
	if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("write %d point(s) to %s/%s: %w", len(points), s.org, s.bucket, err)
	}
	return nil
}

// Close implements ResultSink.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// trialPoint maps one trial onto an InfluxDB point. Data type and size are
// tags so dashboards can group by them; everything measured is a field.
func trialPoint(runID string, r datatypes.BenchmarkResult) *write.Point {
	return influxdb2.NewPointWithMeasurement(trialMeasurement).
		AddTag("run_id", runID).
		AddTag("data_type", string(r.DataType)).
		AddTag("size", strconv.Itoa(r.Size)).
		AddField("json_chars", r.JSONChars).
		AddField("toon_chars", r.TOONChars).
		AddField("json_tokens", r.JSONTokens).
		AddField("toon_tokens", r.TOONTokens).
		AddField("json_time_ms", r.JSONTimeMS).
		AddField("toon_time_ms", r.TOONTimeMS).
		AddField("json_memory_kb", r.JSONMemoryKB).
		AddField("toon_memory_kb", r.TOONMemoryKB).
		AddField("token_savings_percent", r.TokenSavingsPercent).
		AddField("time_overhead_percent", r.TimeOverheadPercent).
		AddField("tokens_estimated", r.TokensEstimated).
		SetTime(r.CapturedAt)
}

// MockSink is an in-memory ResultSink for tests.
type MockSink struct {
	// Runs collects every table passed to WriteRun.
	Runs []*datatypes.ResultTable

	// Err, when set, is returned by WriteRun.
	Err error

	// Closed reports whether Close was called.
	Closed bool
}

// WriteRun implements ResultSink.
func (m *MockSink) WriteRun(_ context.Context, table *datatypes.ResultTable) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, table)
	return nil
}

// Close implements ResultSink.
func (m *MockSink) Close() {
	m.Closed = true
}

// Compile-time interface checks
var (
	_ ResultSink = (*InfluxSink)(nil)
	_ ResultSink = (*MockSink)(nil)
)
