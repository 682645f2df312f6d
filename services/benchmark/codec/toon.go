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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// TOONEncoder renders a dataset as a tabular block: one header stating
// the record count and field names, then one delimited row per record.
//
//	[3]{timestamp,temperature}:
//	  2026-08-26T09:00:00Z,19.42
//	  2026-08-26T09:01:00Z,23.1
//	  2026-08-26T09:02:00Z,17.75
//
// Field names appear once in the header instead of once per record,
// which is where the token savings on uniform datasets come from.
//
// Recognized options:
//   - "delimiter" (string): cell separator, default ",". Applies to the
//     header field list and to rows.
//
// TOON requires the uniformity invariant; a non-uniform dataset fails
// with ErrEncoderFailure. An empty dataset renders a bare "[0]:" header.
type TOONEncoder struct{}

// NewTOON creates the alternative tabular encoder.
func NewTOON() *TOONEncoder {
	return &TOONEncoder{}
}

// Name implements Encoder.
func (e *TOONEncoder) Name() string {
	return "toon"
}

// Encode implements Encoder.
func (e *TOONEncoder) Encode(ds datatypes.Dataset, opts Options) (string, error) {
	if !ds.Uniform() {
		return "", fmt.Errorf("%w: toon: dataset records are not uniform", datatypes.ErrEncoderFailure)
	}
	if len(ds) == 0 {
		return "[0]:", nil
	}

	delim := opts.String("delimiter", ",")

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(len(ds)))
	sb.WriteString("]{")
	sb.WriteString(strings.Join(ds[0].Keys(), delim))
	sb.WriteString("}:")

	for _, rec := range ds {
		sb.WriteString("\n  ")
		for i, f := range rec.Fields() {
			if i > 0 {
				sb.WriteString(delim)
			}
			cell, err := toonCell(f.Value, delim)
			if err != nil {
				return "", fmt.Errorf("%w: toon: field %q: %v", datatypes.ErrEncoderFailure, f.Name, err)
			}
			sb.WriteString(cell)
		}
	}
	return sb.String(), nil
}

// toonCell renders one scalar cell. nil renders as an empty cell, the
// explicit no-value marker.
func toonCell(v any, delim string) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return quoteIfNeeded(x, delim), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return formatFloat(x), nil
	case time.Time:
		return x.UTC().Format(time.RFC3339), nil
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = formatFloat(f)
		}
		return "[" + strings.Join(parts, " ") + "]", nil
	default:
		return "", fmt.Errorf("unsupported value kind %T", v)
	}
}

// quoteIfNeeded quotes a string cell only when it would otherwise be
// ambiguous: it contains the delimiter, a quote, a line break, or
// leading/trailing whitespace. Empty strings render as "" to stay
// distinguishable from the nil empty cell.
func quoteIfNeeded(s, delim string) string {
	if s == "" {
		return `""`
	}
	if strings.Contains(s, delim) ||
		strings.ContainsAny(s, "\"\n\r") ||
		s != strings.TrimSpace(s) {
		return strconv.Quote(s)
	}
	return s
}

// formatFloat renders a float in its shortest exact decimal form.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var _ Encoder = (*TOONEncoder)(nil)
