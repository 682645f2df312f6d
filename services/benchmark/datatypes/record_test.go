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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Record Ordering Tests
// =============================================================================

func TestRecord_MarshalJSON_PreservesInsertionOrder(t *testing.T) {
	var r Record
	r.Set("zulu", 1)
	r.Set("alpha", 2)
	r.Set("mike", 3)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	// A map-backed record would sort or randomize these keys.
	assert.Equal(t, `{"zulu":1,"alpha":2,"mike":3}`, string(data))
}

func TestRecord_MarshalJSON_Empty(t *testing.T) {
	var r Record

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestRecord_MarshalJSON_ValueKinds(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	var r Record
	r.Set("count", 42)
	r.Set("ratio", 0.25)
	r.Set("label", "warm")
	r.Set("active", true)
	r.Set("at", ts)
	r.Set("row", []float64{1.5, -2})
	r.Set("gap", nil)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	expected := `{"count":42,"ratio":0.25,"label":"warm","active":true,` +
		`"at":"2026-03-14T09:26:53Z","row":[1.5,-2],"gap":null}`
	assert.Equal(t, expected, string(data))
}

func TestRecord_Set_ReplaceKeepsPosition(t *testing.T) {
	var r Record
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 9)

	assert.Equal(t, []string{"a", "b"}, r.Keys())

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 9, v)
	assert.Equal(t, 2, r.Len())
}

func TestRecord_Get_Missing(t *testing.T) {
	var r Record
	r.Set("present", 1)

	v, ok := r.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestRecord_Fields_ReturnsCopy(t *testing.T) {
	var r Record
	r.Set("a", 1)

	fields := r.Fields()
	fields[0].Value = 99

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v, "mutating the returned slice must not touch the record")
}

// =============================================================================
// Dataset Uniformity Tests
// =============================================================================

func TestDataset_Uniform_Empty(t *testing.T) {
	assert.True(t, Dataset{}.Uniform())
}

func TestDataset_Uniform_SingleRecord(t *testing.T) {
	var r Record
	r.Set("x", 1)

	assert.True(t, Dataset{r}.Uniform())
}

func TestDataset_Uniform_MatchingKeys(t *testing.T) {
	var a, b Record
	a.Set("x", 1)
	a.Set("y", 2)
	b.Set("x", 3)
	b.Set("y", 4)

	assert.True(t, Dataset{a, b}.Uniform())
}

func TestDataset_Uniform_MissingKey(t *testing.T) {
	var a, b Record
	a.Set("x", 1)
	a.Set("y", 2)
	b.Set("x", 3)

	assert.False(t, Dataset{a, b}.Uniform())
}

func TestDataset_Uniform_ReorderedKeys(t *testing.T) {
	var a, b Record
	a.Set("x", 1)
	a.Set("y", 2)
	b.Set("y", 4)
	b.Set("x", 3)

	assert.False(t, Dataset{a, b}.Uniform(),
		"same key set in a different order is not uniform")
}

func TestDataset_MarshalJSON_Array(t *testing.T) {
	var a, b Record
	a.Set("id", 1)
	b.Set("id", 2)

	data, err := json.Marshal(Dataset{a, b})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1},{"id":2}]`, string(data))
}
