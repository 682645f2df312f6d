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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// weatherDataset builds a small fixed dataset so encoder output is exact.
func weatherDataset() datatypes.Dataset {
	base := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	var a, b datatypes.Record
	a.Set("timestamp", base)
	a.Set("temperature", 19.42)
	b.Set("timestamp", base.Add(time.Minute))
	b.Set("temperature", 23.1)

	return datatypes.Dataset{a, b}
}

// =============================================================================
// JSON Encoder Tests
// =============================================================================

func TestJSONEncoder_Compact(t *testing.T) {
	out, err := NewJSON().Encode(weatherDataset(), nil)
	require.NoError(t, err)

	expected := `[{"timestamp":"2026-08-26T09:00:00Z","temperature":19.42},` +
		`{"timestamp":"2026-08-26T09:01:00Z","temperature":23.1}]`
	assert.Equal(t, expected, out)
}

func TestJSONEncoder_IndentOption(t *testing.T) {
	enc := NewJSON()

	compact, err := enc.Encode(weatherDataset(), nil)
	require.NoError(t, err)
	indented, err := enc.Encode(weatherDataset(), Options{"indent": true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(indented, "[\n"))
	assert.Greater(t, len(indented), len(compact))
}

func TestJSONEncoder_EmptyDataset(t *testing.T) {
	out, err := NewJSON().Encode(datatypes.Dataset{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestJSONEncoder_Name(t *testing.T) {
	assert.Equal(t, "json", NewJSON().Name())
}

// =============================================================================
// TOON Encoder Tests
// =============================================================================

func TestTOONEncoder_Golden(t *testing.T) {
	out, err := NewTOON().Encode(weatherDataset(), nil)
	require.NoError(t, err)

	expected := "[2]{timestamp,temperature}:\n" +
		"  2026-08-26T09:00:00Z,19.42\n" +
		"  2026-08-26T09:01:00Z,23.1"
	assert.Equal(t, expected, out)
}

func TestTOONEncoder_DelimiterOption(t *testing.T) {
	out, err := NewTOON().Encode(weatherDataset(), Options{"delimiter": "|"})
	require.NoError(t, err)

	expected := "[2]{timestamp|temperature}:\n" +
		"  2026-08-26T09:00:00Z|19.42\n" +
		"  2026-08-26T09:01:00Z|23.1"
	assert.Equal(t, expected, out)
}

func TestTOONEncoder_CellKinds(t *testing.T) {
	var rec datatypes.Record
	rec.Set("id", 7)
	rec.Set("big", int64(1 << 40))
	rec.Set("ok", true)
	rec.Set("label", "plain")
	rec.Set("row", []float64{1.5, 0, -2.25})

	out, err := NewTOON().Encode(datatypes.Dataset{rec}, nil)
	require.NoError(t, err)

	expected := "[1]{id,big,ok,label,row}:\n" +
		"  7,1099511627776,true,plain,[1.5 0 -2.25]"
	assert.Equal(t, expected, out)
}

func TestTOONEncoder_StringQuoting(t *testing.T) {
	cases := []struct {
		name  string
		value string
		cell  string
	}{
		{"plain", "success", "success"},
		{"contains delimiter", "a,b", `"a,b"`},
		{"contains quote", `say "hi"`, `"say \"hi\""`},
		{"contains newline", "two\nlines", `"two\nlines"`},
		{"leading space", " padded", `" padded"`},
		{"empty", "", `""`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec datatypes.Record
			rec.Set("s", tc.value)

			out, err := NewTOON().Encode(datatypes.Dataset{rec}, nil)
			require.NoError(t, err)
			assert.Equal(t, "[1]{s}:\n  "+tc.cell, out)
		})
	}
}

func TestTOONEncoder_NilCellEmpty(t *testing.T) {
	var rec datatypes.Record
	rec.Set("a", 1)
	rec.Set("gap", nil)
	rec.Set("b", 2)

	out, err := NewTOON().Encode(datatypes.Dataset{rec}, nil)
	require.NoError(t, err)
	assert.Equal(t, "[1]{a,gap,b}:\n  1,,2", out)
}

func TestTOONEncoder_EmptyDataset(t *testing.T) {
	out, err := NewTOON().Encode(datatypes.Dataset{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "[0]:", out)
}

func TestTOONEncoder_NonUniformDataset(t *testing.T) {
	var a, b datatypes.Record
	a.Set("x", 1)
	b.Set("y", 2)

	_, err := NewTOON().Encode(datatypes.Dataset{a, b}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, datatypes.ErrEncoderFailure))
}

func TestTOONEncoder_UnsupportedKind(t *testing.T) {
	var rec datatypes.Record
	rec.Set("bad", struct{}{})

	_, err := NewTOON().Encode(datatypes.Dataset{rec}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, datatypes.ErrEncoderFailure))
}

func TestTOONEncoder_Name(t *testing.T) {
	assert.Equal(t, "toon", NewTOON().Name())
}

// =============================================================================
// Comparative Tests
// =============================================================================

func TestTOON_ShorterThanJSON_UniformDataset(t *testing.T) {
	base := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	ds := make(datatypes.Dataset, 0, 10)
	for i := 0; i < 10; i++ {
		var rec datatypes.Record
		rec.Set("timestamp", base.Add(time.Duration(i)*time.Minute))
		rec.Set("temperature", 20.5)
		ds = append(ds, rec)
	}

	jsonOut, err := NewJSON().Encode(ds, nil)
	require.NoError(t, err)
	toonOut, err := NewTOON().Encode(ds, nil)
	require.NoError(t, err)

	assert.Less(t, len(toonOut), len(jsonOut),
		"tabular encoding should be shorter once field names are stated once")
}

// =============================================================================
// Mock Tests
// =============================================================================

func TestMockEncoder_CountsCalls(t *testing.T) {
	m := &MockEncoder{NameTag: "mock", Output: "payload"}

	out, err := m.Encode(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "payload", out)

	_, _ = m.Encode(nil, nil)
	assert.Equal(t, 2, m.Calls)
	assert.Equal(t, "mock", m.Name())
}
