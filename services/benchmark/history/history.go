// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package history persists completed benchmark runs in an embedded
// BadgerDB so past results can be reported, compared and exported later.
//
// Runs are stored one key per run ("run:{run_id}") with the JSON encoding
// of the frozen ResultTable as the value; the stored bytes match the JSON
// report format, so a dump stays readable with standard tooling.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// ErrRunNotFound is returned when no stored run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

const runKeyPrefix = "run:"

// Config holds configuration for the history store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging and store events.
	// If nil, BadgerDB logging is disabled and store events use the
	// default logger.
	Logger *slog.Logger
}

// DefaultConfig returns the production configuration for a store at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns a configuration for testing: no disk I/O, no
// sync overhead, data lost on close.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// RunSummary is the lightweight listing view of a stored run.
type RunSummary struct {
	RunID       string               `json:"run_id"`
	StartedAt   time.Time            `json:"started_at"`
	CompletedAt time.Time            `json:"completed_at"`
	Trials      int                  `json:"trials"`
	DataTypes   []datatypes.DataType `json:"data_types"`
	Partial     bool                 `json:"partial,omitempty"`
}

// Store is a BadgerDB-backed archive of benchmark runs.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB transactions provide isolation.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates and opens a history store with the given configuration.
//
// # Inputs
//
//   - cfg: store configuration. Path is required unless InMemory is true.
//
// # Outputs
//
//   - *Store: the opened store. Caller must Close() when done.
//   - error: non-nil if the path is invalid or the database cannot open.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("%w: path is required for a persistent history store",
			datatypes.ErrInvalidArgument)
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create history directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "history")),
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(runID string) []byte {
	return []byte(runKeyPrefix + runID)
}

// Save persists a frozen run. Saving the same run ID again overwrites the
// stored copy.
//
// # Inputs
//
//   - ctx: checked for cancellation before the write.
//   - table: the completed run. Must be non-nil, carry a run ID, and be
//     frozen; in-flight tables are not archived.
//
// # Outputs
//
//   - error: ErrInvalidArgument for a nil or ID-less table,
//     ErrInvalidState for an unfrozen one.
func (s *Store) Save(ctx context.Context, table *datatypes.ResultTable) error {
	if table == nil || table.RunID == "" {
		return fmt.Errorf("%w: table with a run id required", datatypes.ErrInvalidArgument)
	}
	if !table.Frozen() {
		return fmt.Errorf("%w: only frozen runs are archived", datatypes.ErrInvalidState)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", table.RunID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(table.RunID), data)
	})
	if err != nil {
		return fmt.Errorf("save run %s: %w", table.RunID, err)
	}

	s.logger.Debug("run saved",
		slog.String("run_id", table.RunID),
		slog.Int("trials", table.Len()),
		slog.Int("bytes", len(data)))
	return nil
}

// Get loads a stored run by ID. The returned table is frozen.
func (s *Store) Get(ctx context.Context, runID string) (*datatypes.ResultTable, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: run id required", datatypes.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var table datatypes.ResultTable
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &table)
		})
	})
	if err != nil {
		return nil, err
	}

	// The frozen marker is not serialized; restore it so the loaded run
	// stays append-proof and aggregatable.
	table.Freeze()
	return &table, nil
}

// List returns summaries of every stored run, newest first.
func (s *Store) List(ctx context.Context) ([]RunSummary, error) {
	var summaries []RunSummary

	prefix := []byte(runKeyPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := it.Item().Value(func(val []byte) error {
				var table datatypes.ResultTable
				if err := json.Unmarshal(val, &table); err != nil {
					return fmt.Errorf("decode run %s: %w", it.Item().Key(), err)
				}
				summaries = append(summaries, RunSummary{
					RunID:       table.RunID,
					StartedAt:   table.StartedAt,
					CompletedAt: table.CompletedAt,
					Trials:      table.Len(),
					DataTypes:   table.Config.DataTypes,
					Partial:     table.Partial,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	return summaries, nil
}

// Delete removes a stored run.
//
// # Outputs
//
//   - error: ErrRunNotFound if no run has the given ID.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("%w: run id required", datatypes.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := runKey(runID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("run deleted", slog.String("run_id", runID))
	return nil
}

// Prune deletes all but the newest keep runs.
//
// # Inputs
//
//   - ctx: checked for cancellation.
//   - keep: how many of the newest runs to retain. Must be >= 0.
//
// # Outputs
//
//   - int: how many runs were removed.
//   - error: ErrInvalidArgument for a negative keep.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep must be >= 0, got %d", datatypes.ErrInvalidArgument, keep)
	}

	summaries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(summaries) <= keep {
		return 0, nil
	}

	victims := summaries[keep:]
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, v := range victims {
			if err := txn.Delete(runKey(v.RunID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	s.logger.Info("history pruned",
		slog.Int("kept", keep),
		slog.Int("removed", len(victims)))
	return len(victims), nil
}
