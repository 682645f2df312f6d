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
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one named value inside a Record.
//
// Values are restricted to the scalar kinds the generators produce:
// int, int64, float64, string, bool, time.Time, []float64, or nil for
// the explicit no-value marker.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered mapping from field name to value.
//
// # Description
//
// Record preserves insertion order so that serialized output is stable
// across encoders and across records of the same dataset. A plain map
// would randomize key order on marshal, which breaks both the tabular
// encoding and byte-for-byte comparability between trials.
//
// # Thread Safety
//
// Record is not safe for concurrent mutation. Datasets are built by a
// single generator call and treated as read-only afterwards.
//
// # Examples
//
//	var r Record
//	r.Set("experiment_id", 1)
//	r.Set("status", "success")
//	v, ok := r.Get("status") // "success", true
type Record struct {
	fields []Field
}

// Set appends a field, or replaces its value if the name already exists.
// Replacement keeps the original position so field order stays stable.
func (r *Record) Set(name string, value any) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Get returns the value for name and whether it exists.
func (r *Record) Get(name string) (any, bool) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			return r.fields[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i := range r.fields {
		keys[i] = r.fields[i].Name
	}
	return keys
}

// Fields returns a copy of the ordered field slice.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// MarshalJSON implements json.Marshaler, emitting fields in insertion
// order. Values are marshaled with encoding/json, so time.Time fields
// render as RFC 3339 strings.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", f.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is an ordered, finite sequence of Records.
//
// Order corresponds to generation order and is semantically meaningful
// for time series and experiment sequences. Every record in a generated
// dataset carries the identical key set (the uniformity invariant);
// Uniform reports whether that holds.
type Dataset []Record

// Uniform reports whether every record shares the key set of the first
// record, in the same order. An empty dataset is trivially uniform.
func (d Dataset) Uniform() bool {
	if len(d) == 0 {
		return true
	}
	keys := d[0].Keys()
	for _, r := range d[1:] {
		if r.Len() != len(keys) {
			return false
		}
		for i, f := range r.fields {
			if f.Name != keys[i] {
				return false
			}
		}
	}
	return true
}
