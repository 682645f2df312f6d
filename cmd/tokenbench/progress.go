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
	"io"
	"os"
	"sync"
	"time"

	"github.com/AleutianAI/tokenbench/pkg/ux"
)

// ProgressIndicator defines the interface for progress feedback.
//
// # Description
//
// ProgressIndicator provides visual feedback during a benchmark matrix so
// users can tell a long sampling loop apart from a hang.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use from multiple goroutines.
type ProgressIndicator interface {
	// Start begins the progress indication.
	Start()

	// Stop halts the progress indication.
	Stop()

	// SetMessage updates the displayed message.
	SetMessage(message string)

	// IsRunning returns whether the indicator is active.
	IsRunning() bool
}

// SpinnerConfig configures spinner behavior.
type SpinnerConfig struct {
	// Message is the text displayed next to the spinner.
	Message string

	// Interval is the time between frame updates.
	// Default: 100ms
	Interval time.Duration

	// Frames are the animation characters.
	// Default: Braille dots (⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏)
	Frames []string

	// Writer is where output is written.
	// Default: os.Stderr
	Writer io.Writer

	// ClearOnStop clears the spinner line when stopped.
	// Default: true
	ClearOnStop bool
}

// DefaultSpinnerConfig returns sensible defaults: Braille dot animation,
// 100ms interval, writing to stderr.
func DefaultSpinnerConfig() SpinnerConfig {
	return SpinnerConfig{
		Message:     "Working...",
		Interval:    100 * time.Millisecond,
		Frames:      []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		Writer:      os.Stderr,
		ClearOnStop: true,
	}
}

// Spinner provides animated progress feedback for CLI operations.
//
// # Description
//
// Spinner displays an animated character sequence with a message. The
// matrix loop updates the message after every trial, so the line doubles
// as a step counter.
//
// # Thread Safety
//
// Spinner is safe for concurrent use. Start/Stop can be called from
// different goroutines.
//
// # Limitations
//
//   - Requires an ANSI-capable terminal for proper display
//   - Concurrent writes to the same Writer may cause garbled output
type Spinner struct {
	config  SpinnerConfig
	frame   int
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
}

// NewSpinner creates a new spinner with the given configuration. Nothing
// is displayed until Start() is called.
func NewSpinner(config SpinnerConfig) *Spinner {
	if config.Interval <= 0 {
		config.Interval = 100 * time.Millisecond
	}
	if len(config.Frames) == 0 {
		config.Frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	}
	if config.Writer == nil {
		config.Writer = os.Stderr
	}

	return &Spinner{
		config: config,
	}
}

// Start begins the spinner animation. Safe to call multiple times
// (subsequent calls are no-ops).
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.spin()
}

// Stop halts the spinner animation and clears the line if configured.
// Blocks until the spinner goroutine has fully stopped.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh

	if s.config.ClearOnStop {
		s.clearLine()
	}
}

// SetMessage updates the displayed message. Safe to call while the
// spinner is running.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.config.Message = message
	s.mu.Unlock()
}

// IsRunning returns whether the spinner is active.
func (s *Spinner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// spin is the main animation loop.
func (s *Spinner) spin() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.render()
		case <-s.stopCh:
			return
		}
	}
}

// render draws the current frame.
func (s *Spinner) render() {
	s.mu.Lock()
	frame := s.config.Frames[s.frame%len(s.config.Frames)]
	message := s.config.Message
	s.frame++
	s.mu.Unlock()

	fmt.Fprintf(s.config.Writer, "\r%s %s", frame, message)
}

// clearLine clears the current line.
func (s *Spinner) clearLine() {
	fmt.Fprint(s.config.Writer, "\r\033[K")
}

// Compile-time interface check
var _ ProgressIndicator = (*Spinner)(nil)

// matrixProgress reports trial completion during a benchmark matrix.
//
// # Description
//
// On a terminal it drives a Spinner whose message carries a progress bar
// and step count. In plain mode it logs a line every few trials instead,
// so piped output stays append-only.
type matrixProgress struct {
	spinner *Spinner
	plain   bool
	mu      sync.Mutex
	lastPct int
}

// newMatrixProgress creates a progress reporter sized to the output mode.
func newMatrixProgress() *matrixProgress {
	p := &matrixProgress{plain: ux.IsPlain(), lastPct: -10}
	if !p.plain {
		p.spinner = NewSpinner(DefaultSpinnerConfig())
		p.spinner.SetMessage("starting matrix...")
		p.spinner.Start()
	}
	return p
}

// Update is the engine.ProgressFunc hook.
func (p *matrixProgress) Update(completed, total int) {
	if p.plain {
		// One line per 10% step keeps piped logs short.
		p.mu.Lock()
		defer p.mu.Unlock()
		pct := 100
		if total > 0 {
			pct = completed * 100 / total
		}
		if pct/10 > p.lastPct/10 || completed == total {
			p.lastPct = pct
			fmt.Fprintf(os.Stderr, "trial %d/%d (%d%%)\n", completed, total, pct)
		}
		return
	}
	p.spinner.SetMessage(fmt.Sprintf("trial %d/%d %s", completed, total, ux.ProgressBar(completed, total, 20)))
}

// Finish stops the indicator.
func (p *matrixProgress) Finish() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}
