// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datagen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// seededGenerator returns a Generator with a fixed seed and a warning
// capture slice.
func seededGenerator(t *testing.T, seed int64) (*Generator, *[]string) {
	t.Helper()
	warnings := &[]string{}
	g := NewGenerator(rand.New(rand.NewSource(seed)), WithWarnFunc(func(msg string, args ...any) {
		*warnings = append(*warnings, msg)
	}))
	return g, warnings
}

// =============================================================================
// Uniformity Tests
// =============================================================================

func TestGenerators_Uniformity(t *testing.T) {
	g, _ := seededGenerator(t, 42)

	cases := []struct {
		name     string
		generate func() (datatypes.Dataset, error)
		keys     []string
	}{
		{
			name:     "time series",
			generate: func() (datatypes.Dataset, error) { return g.TimeSeries(25, []string{"timestamp", "value"}) },
			keys:     []string{"timestamp", "value"},
		},
		{
			name:     "matrix",
			generate: func() (datatypes.Dataset, error) { return g.Matrix(25, 4, true) },
			keys:     []string{"row_id", "values"},
		},
		{
			name:     "experiments",
			generate: func() (datatypes.Dataset, error) { return g.Experiments(25, 3) },
			keys:     []string{"experiment_id", "timestamp", "status", "param_0", "param_1", "param_2", "result"},
		},
		{
			name: "schema",
			generate: func() (datatypes.Dataset, error) {
				return g.FromSchema(25, Schema{"id": FieldInteger, "name": FieldString})
			},
			keys: []string{"id", "name"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := tc.generate()
			require.NoError(t, err)
			require.Len(t, ds, 25)
			assert.True(t, ds.Uniform())
			assert.Equal(t, tc.keys, ds[0].Keys())
		})
	}
}

// =============================================================================
// Input Validation Tests
// =============================================================================

func TestGenerators_InvalidArgument(t *testing.T) {
	g, _ := seededGenerator(t, 42)

	cases := []struct {
		name     string
		generate func() (datatypes.Dataset, error)
	}{
		{"time series zero", func() (datatypes.Dataset, error) { return g.TimeSeries(0, nil) }},
		{"time series negative", func() (datatypes.Dataset, error) { return g.TimeSeries(-1, nil) }},
		{"matrix zero rows", func() (datatypes.Dataset, error) { return g.Matrix(0, 5, false) }},
		{"matrix zero cols", func() (datatypes.Dataset, error) { return g.Matrix(5, 0, false) }},
		{"experiments zero", func() (datatypes.Dataset, error) { return g.Experiments(0, 3) }},
		{"experiments zero params", func() (datatypes.Dataset, error) { return g.Experiments(5, 0) }},
		{"schema zero", func() (datatypes.Dataset, error) { return g.FromSchema(0, Schema{"id": FieldInteger}) }},
		{"schema empty", func() (datatypes.Dataset, error) { return g.FromSchema(5, Schema{}) }},
		{"schema nil", func() (datatypes.Dataset, error) { return g.FromSchema(5, nil) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := tc.generate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, datatypes.ErrInvalidArgument))
			assert.Nil(t, ds, "no partial output on validation failure")
		})
	}
}

// =============================================================================
// Time Series Tests
// =============================================================================

func TestTimeSeries_TimestampsStrictlyIncreasing(t *testing.T) {
	g, _ := seededGenerator(t, 7)

	ds, err := g.TimeSeries(50, []string{"timestamp", "value"})
	require.NoError(t, err)

	var prev time.Time
	for i, rec := range ds {
		v, ok := rec.Get("timestamp")
		require.True(t, ok)
		ts, ok := v.(time.Time)
		require.True(t, ok)

		if i > 0 {
			assert.True(t, ts.After(prev), "timestamp %d must be after its predecessor", i)
		}
		prev = ts
	}
}

func TestTimeSeries_DefaultFields(t *testing.T) {
	g, _ := seededGenerator(t, 7)

	ds, err := g.TimeSeries(3, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeSeriesFields, ds[0].Keys())
}

func TestTimeSeries_HumidityClamped(t *testing.T) {
	g, _ := seededGenerator(t, 7)

	ds, err := g.TimeSeries(2000, []string{"humidity"})
	require.NoError(t, err)

	for _, rec := range ds {
		v, _ := rec.Get("humidity")
		h, ok := v.(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 100.0)
	}
}

func TestTimeSeries_SensorIDRange(t *testing.T) {
	g, _ := seededGenerator(t, 7)

	ds, err := g.TimeSeries(500, []string{"sensor_id"})
	require.NoError(t, err)

	for _, rec := range ds {
		v, _ := rec.Get("sensor_id")
		id, ok := v.(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, 10)
	}
}

func TestTimeSeries_UnknownFieldFallsBack(t *testing.T) {
	g, warnings := seededGenerator(t, 7)

	ds, err := g.TimeSeries(20, []string{"timestamp", "wind_speed"})
	require.NoError(t, err)

	// One warning per call, not one per record.
	assert.Len(t, *warnings, 1)

	for _, rec := range ds {
		v, ok := rec.Get("wind_speed")
		require.True(t, ok)
		f, ok := v.(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

// =============================================================================
// Matrix Tests
// =============================================================================

func TestMatrix_SparseZeroFraction(t *testing.T) {
	g, _ := seededGenerator(t, 11)

	// 100x100 = 10,000 cells.
	ds, err := g.Matrix(100, 100, true)
	require.NoError(t, err)

	zeros, total := 0, 0
	for _, rec := range ds {
		v, _ := rec.Get("values")
		values, ok := v.([]float64)
		require.True(t, ok)
		require.Len(t, values, 100)

		for _, cell := range values {
			if cell == 0 {
				zeros++
			}
			total++
		}
	}

	fraction := float64(zeros) / float64(total)
	assert.InDelta(t, sparseZeroProbability, fraction, 0.05,
		"zero fraction %f should sit within 5%% of the design constant", fraction)
}

func TestMatrix_DenseHasFewZeros(t *testing.T) {
	g, _ := seededGenerator(t, 11)

	ds, err := g.Matrix(50, 50, false)
	require.NoError(t, err)

	zeros := 0
	for _, rec := range ds {
		v, _ := rec.Get("values")
		for _, cell := range v.([]float64) {
			if cell == 0 {
				zeros++
			}
		}
	}
	assert.Less(t, zeros, 50, "dense mode should almost never produce zeros")
}

func TestMatrix_RowIDsOneBased(t *testing.T) {
	g, _ := seededGenerator(t, 11)

	ds, err := g.Matrix(5, 2, false)
	require.NoError(t, err)

	for i, rec := range ds {
		v, _ := rec.Get("row_id")
		assert.Equal(t, i+1, v)
	}
}

func TestMatrix_SameSeedSameDataset(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(99)))
	b := NewGenerator(rand.New(rand.NewSource(99)))

	dsA, err := a.Matrix(10, 10, true)
	require.NoError(t, err)
	dsB, err := b.Matrix(10, 10, true)
	require.NoError(t, err)

	for i := range dsA {
		va, _ := dsA[i].Get("values")
		vb, _ := dsB[i].Get("values")
		assert.Equal(t, va, vb, "row %d should match under an identical seed", i)
	}
}

// =============================================================================
// Experiments Tests
// =============================================================================

func TestExperiments_TimestampsHourlySpacing(t *testing.T) {
	g, _ := seededGenerator(t, 13)

	ds, err := g.Experiments(24, 2)
	require.NoError(t, err)

	var prev time.Time
	for i, rec := range ds {
		v, _ := rec.Get("timestamp")
		ts := v.(time.Time)
		if i > 0 {
			assert.Equal(t, time.Hour, ts.Sub(prev), "record %d spacing", i)
		}
		prev = ts
	}
}

func TestExperiments_ResultTracksParameterMean(t *testing.T) {
	g, _ := seededGenerator(t, 13)

	ds, err := g.Experiments(100, 4)
	require.NoError(t, err)

	for i, rec := range ds {
		sum := 0.0
		for p := 0; p < 4; p++ {
			v, ok := rec.Get(fmt.Sprintf("param_%d", p))
			require.True(t, ok)
			sum += v.(float64)
		}
		mean := sum / 4

		v, _ := rec.Get("result")
		result := v.(float64)

		// Noise is N(0,5); five sigmas bounds essentially every draw.
		assert.LessOrEqual(t, math.Abs(result-mean), 25.0,
			"record %d result %f strays too far from parameter mean %f", i, result, mean)
	}
}

func TestExperiments_StatusFromClosedSet(t *testing.T) {
	g, _ := seededGenerator(t, 13)

	ds, err := g.Experiments(50, 1)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, rec := range ds {
		v, _ := rec.Get("status")
		s := v.(string)
		assert.Contains(t, []string{"success", "failed"}, s)
		seen[s] = true
	}
	assert.Len(t, seen, 2, "both statuses should appear over 50 draws")
}

// =============================================================================
// Schema Tests
// =============================================================================

func TestFromSchema_FieldOrderSortedByName(t *testing.T) {
	g, _ := seededGenerator(t, 17)

	ds, err := g.FromSchema(5, Schema{
		"zeta":  FieldInteger,
		"alpha": FieldString,
		"mid":   FieldBoolean,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ds[0].Keys())
}

func TestFromSchema_ValueKinds(t *testing.T) {
	g, _ := seededGenerator(t, 17)

	ds, err := g.FromSchema(200, Schema{
		"count":   FieldInteger,
		"ratio":   FieldFloat,
		"label":   FieldString,
		"active":  FieldBoolean,
		"created": FieldTimestamp,
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	yearAgo := now.Add(-366 * 24 * time.Hour)

	for _, rec := range ds {
		v, _ := rec.Get("count")
		n, ok := v.(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 1000)

		v, _ = rec.Get("ratio")
		f, ok := v.(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1000.0)

		v, _ = rec.Get("label")
		s, ok := v.(string)
		require.True(t, ok)
		assert.Len(t, s, 8)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(alphanum, r))
		}

		v, _ = rec.Get("active")
		_, ok = v.(bool)
		require.True(t, ok)

		v, _ = rec.Get("created")
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.True(t, ts.After(yearAgo))
		assert.True(t, ts.Before(now.Add(time.Second)))
	}
}

func TestFromSchema_UnknownTypeEmitsNil(t *testing.T) {
	g, warnings := seededGenerator(t, 17)

	ds, err := g.FromSchema(10, Schema{
		"id":   FieldInteger,
		"blob": "binary",
	})
	require.NoError(t, err)
	assert.Len(t, *warnings, 1, "one warning per call for the unknown type")

	for _, rec := range ds {
		v, ok := rec.Get("blob")
		require.True(t, ok, "unknown-typed field still present")
		assert.Nil(t, v)
	}
	assert.True(t, ds.Uniform())
}
