// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// Error policy
// ============================================================================

// ErrorPolicy selects how the matrix loop reacts to a failed trial.
type ErrorPolicy string

const (
	// ErrorPolicyAbort stops the run on the first trial failure. This is
	// the default.
	ErrorPolicyAbort ErrorPolicy = "abort"

	// ErrorPolicySkip drops the failed trial, marks the table partial,
	// and continues with the remaining trials.
	ErrorPolicySkip ErrorPolicy = "skip"
)

// Valid reports whether p is a recognized policy.
func (p ErrorPolicy) Valid() bool {
	switch p {
	case ErrorPolicyAbort, ErrorPolicySkip:
		return true
	}
	return false
}

// ParseErrorPolicy converts a user-supplied string into an ErrorPolicy.
// Returns ErrInvalidArgument for anything outside the closed set.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	p := ErrorPolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("error policy %q (want abort or skip): %w", s, ErrInvalidArgument)
	}
	return p, nil
}

// ============================================================================
// Scenario
// ============================================================================

// DefaultTokenizerModel is the model whose tokenizer prices trials when
// a scenario or flag does not name one.
const DefaultTokenizerModel = "gpt-4o"

// EncodingOptions carries encoder knobs a scenario can set.
type EncodingOptions struct {
	// JSONIndent switches the baseline encoder from compact to
	// two-space indented output.
	JSONIndent bool `yaml:"json_indent" json:"json_indent,omitempty"`
}

// Scenario is a declarative description of one benchmark run, usually
// loaded from a YAML file.
//
// # Description
//
// A scenario bundles the matrix configuration with run-level choices
// the matrix itself does not know about: tokenizer model, RNG seed,
// encoder options, and the error policy. Zero values mean "use the
// default"; ApplyDefaults fills them in.
//
// # Examples
//
//	name: nightly
//	benchmark:
//	  sizes: [10, 100, 1000]
//	  data_types: [time-series, matrix, records, experiments]
//	  repetitions: 3
//	  warmup: true
//	model: gpt-4o
//	seed: 42
//	error_policy: skip
type Scenario struct {
	// Name identifies the scenario in reports and history.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Description is free-form operator notes.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Benchmark is the size/type/repetition matrix to run.
	Benchmark BenchmarkConfig `yaml:"benchmark" json:"benchmark" validate:"required"`

	// Model names the tokenizer pricing model. Empty means
	// DefaultTokenizerModel.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Seed fixes the generator RNG for reproducible datasets. Nil means
	// seed from the clock.
	Seed *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// ErrorPolicy is abort or skip. Empty means abort.
	ErrorPolicy ErrorPolicy `yaml:"error_policy,omitempty" json:"error_policy,omitempty" validate:"omitempty,errorpolicy"`

	// Encoding carries encoder options.
	Encoding EncodingOptions `yaml:"encoding,omitempty" json:"encoding,omitempty"`
}

// ApplyDefaults fills zero-valued run-level fields with their defaults.
func (s *Scenario) ApplyDefaults() {
	if s.Model == "" {
		s.Model = DefaultTokenizerModel
	}
	if s.ErrorPolicy == "" {
		s.ErrorPolicy = ErrorPolicyAbort
	}
}

// Validate checks the scenario, including the nested matrix config.
// Returns an error wrapping ErrInvalidArgument on the first violation.
func (s *Scenario) Validate() error {
	if err := benchValidate.Struct(s); err != nil {
		return fmt.Errorf("scenario %q: %v: %w", s.Name, err, ErrInvalidArgument)
	}
	return nil
}

// LoadScenario reads, parses, defaults, and validates a scenario file.
//
// # Inputs
//
//   - path: YAML file path.
//
// # Outputs
//
//   - *Scenario: ready to run.
//   - error: unreadable file, malformed YAML, or a validation failure
//     wrapping ErrInvalidArgument.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
