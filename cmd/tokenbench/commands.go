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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tokenbench/pkg/ux"
)

// Version is stamped by the release build (-ldflags "-X main.Version=...").
var Version = "dev"

// --- Global Command Variables ---
var (
	plainOutput bool
	logLevel    string
	logDir      string
	historyPath string

	// run flags
	scenarioPath string
	runSizes     []int
	runTypes     []string
	runReps      int
	runWarmup    bool
	runModel     string
	runSeed      int64
	runSamples   int
	runFormat    string
	runOut       string
	runSave      bool
	runPolicy    string
	runWatch     bool
	runIndent    bool
	metricsAddr  string
	traceStdout  bool
	metricsOut   bool

	// generate flags
	genType     string
	genSize     int
	genSchema   []string
	genEncoding string
	genSeed     int64
	genOut      string

	// history flags
	historyFormat string

	// export flags
	exportRunID  string
	exportURL    string
	exportToken  string
	exportOrg    string
	exportBucket string

	rootCmd = &cobra.Command{
		Use:   "tokenbench",
		Short: "Compare token, time, and memory cost of JSON vs TOON encodings",
		Long: `Tokenbench generates synthetic structured datasets, serializes them
with a JSON baseline and the token-oriented TOON format, and measures
how many characters, tokens, milliseconds, and kilobytes each encoding
costs as dataset size grows.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plainOutput {
				ux.SetPlain(true)
			}
			loadGlobalConfig(cmd.Root().PersistentFlags())
			initLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogging()
		},
	}

	// --- Benchmark Runs ---
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark matrix and report encoding costs",
		RunE:  runRun, // Defined in cmd_run.go
	}

	// --- Dataset Generation ---
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a standalone synthetic dataset and print its encoding",
		RunE:  runGenerate, // Defined in cmd_generate.go
	}

	// --- Run History ---
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Inspect saved benchmark runs",
	}
	historyListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE:  runHistoryList, // Defined in cmd_history.go
	}
	historyShowCmd = &cobra.Command{
		Use:   "show [run-id]",
		Short: "Render a saved run in any report format",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow, // Defined in cmd_history.go
	}
	historyPruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent saved runs",
		RunE:  runHistoryPrune, // Defined in cmd_history.go
	}
	historyDeleteCmd = &cobra.Command{
		Use:   "delete [run-id]",
		Short: "Delete one saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDelete, // Defined in cmd_history.go
	}

	// --- Export ---
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export a saved run's trials to InfluxDB",
		RunE:  runExport, // Defined in cmd_export.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the tokenbench version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tokenbench %s\n", Version)
		},
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Plain output without colors or icons (default when piped)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Directory for JSON log files (disabled when empty)")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history-path", defaultHistoryPath,
		"Directory of the run history store")

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file; overrides the matrix flags")
	runCmd.Flags().IntSliceVar(&runSizes, "sizes", []int{10, 100, 1000}, "Dataset sizes to benchmark")
	runCmd.Flags().StringSliceVar(&runTypes, "types", []string{"time-series", "matrix", "records", "experiments"},
		"Data types: time-series, matrix, records, experiments")
	runCmd.Flags().IntVar(&runReps, "reps", 3, "Repetitions per (size, type) pair")
	runCmd.Flags().BoolVar(&runWarmup, "warmup", true, "Run a throwaway warmup trial before the matrix")
	runCmd.Flags().StringVar(&runModel, "model", "", "Tokenizer model ('heuristic' for the offline estimate)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "RNG seed for reproducible datasets (0 seeds from the clock)")
	runCmd.Flags().IntVar(&runSamples, "samples", 0, "Latency samples per format per trial (0 keeps the default)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "table", "Report format: table, csv, markdown, json")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Write the report to a file instead of stdout")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Save the run to the history store")
	runCmd.Flags().StringVar(&runPolicy, "policy", "abort", "Trial failure policy: abort or skip")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run whenever the scenario file changes (requires --scenario)")
	runCmd.Flags().BoolVar(&runIndent, "json-indent", false, "Benchmark indented JSON instead of compact")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	runCmd.Flags().BoolVar(&traceStdout, "trace", false, "Print OTel spans to stdout for debugging")
	runCmd.Flags().BoolVar(&metricsOut, "metrics-stdout", false, "Print OTel metrics to stdout for debugging")

	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&genType, "type", "t", "time-series",
		"Data type: time-series, matrix, records, experiments")
	generateCmd.Flags().IntVarP(&genSize, "size", "n", 10, "Record count")
	generateCmd.Flags().StringSliceVar(&genSchema, "schema", nil,
		"Schema fields as name:type pairs for --type records (e.g. count:integer,label:string)")
	generateCmd.Flags().StringVarP(&genEncoding, "encoding", "e", "toon", "Output encoding: json or toon")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "RNG seed (0 seeds from the clock)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write the dataset to a file instead of stdout")

	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", "table",
		"Report format: table, csv, markdown, json")
	historyCmd.AddCommand(historyPruneCmd)
	historyPruneCmd.Flags().Int("keep", 10, "Number of most recent runs to keep")
	historyCmd.AddCommand(historyDeleteCmd)

	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportRunID, "run-id", "", "Run ID to export (required)")
	exportCmd.Flags().StringVar(&exportURL, "url", "", "InfluxDB URL (default INFLUXDB_URL or http://localhost:8086)")
	exportCmd.Flags().StringVar(&exportToken, "token", "", "InfluxDB API token (default INFLUXDB_TOKEN)")
	exportCmd.Flags().StringVar(&exportOrg, "org", "", "InfluxDB organization (default INFLUXDB_ORG or aleutian)")
	exportCmd.Flags().StringVar(&exportBucket, "bucket", "", "InfluxDB bucket (default INFLUXDB_BUCKET or tokenbench)")
	_ = exportCmd.MarkFlagRequired("run-id")

	rootCmd.AddCommand(versionCmd)
}
