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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/tokenbench/pkg/logging"
)

const defaultHistoryPath = "~/.tokenbench/history"

// Config is the optional global configuration file (tokenbench.yaml in the
// working directory). Flags override everything in it.
type Config struct {
	LogLevel    string `yaml:"log_level"`
	LogDir      string `yaml:"log_dir"`
	HistoryPath string `yaml:"history_path"`
	Model       string `yaml:"model"`
}

var (
	config Config
	logger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error; exit nonzero so scripts notice.
		os.Exit(1)
	}
}

// loadGlobalConfig reads tokenbench.yaml when it exists. A missing file is
// normal; a malformed one is not. The persistent flag set is passed in so
// config only fills flags the user left untouched.
func loadGlobalConfig(flags *pflag.FlagSet) {
	raw, err := os.ReadFile("tokenbench.yaml")
	if err != nil {
		return
	}
	if err := yaml.Unmarshal(raw, &config); err != nil {
		logging.Default().Warn("ignoring malformed tokenbench.yaml", "error", err)
		return
	}

	// Config fills in flags the user left at their defaults.
	if config.LogLevel != "" && !flags.Changed("log-level") {
		logLevel = config.LogLevel
	}
	if config.LogDir != "" && !flags.Changed("log-dir") {
		logDir = config.LogDir
	}
	if config.HistoryPath != "" && !flags.Changed("history-path") {
		historyPath = config.HistoryPath
	}
}

func initLogging() {
	level := logging.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}

	logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  logDir,
		Service: "tokenbench",
	})
}

func closeLogging() {
	if logger != nil {
		_ = logger.Close()
	}
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
