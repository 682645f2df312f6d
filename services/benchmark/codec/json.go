// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// JSONEncoder renders a dataset as a JSON array of objects. Field order
// inside each object follows record insertion order (Record implements
// json.Marshaler), so output is stable across runs.
//
// Recognized options:
//   - "indent" (bool): two-space indented output instead of compact.
type JSONEncoder struct{}

// NewJSON creates the baseline JSON encoder.
func NewJSON() *JSONEncoder {
	return &JSONEncoder{}
}

// Name implements Encoder.
func (e *JSONEncoder) Name() string {
	return "json"
}

// Encode implements Encoder.
func (e *JSONEncoder) Encode(ds datatypes.Dataset, opts Options) (string, error) {
	var (
		raw []byte
		err error
	)
	if opts.Bool("indent") {
		raw, err = json.MarshalIndent(ds, "", "  ")
	} else {
		raw, err = json.Marshal(ds)
	}
	if err != nil {
		return "", fmt.Errorf("%w: json: %v", datatypes.ErrEncoderFailure, err)
	}
	return string(raw), nil
}

var _ Encoder = (*JSONEncoder)(nil)
