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
	"fmt"
	"time"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// timeSeriesStep is the spacing between consecutive time-series records.
const timeSeriesStep = time.Minute

// DefaultTimeSeriesFields is the tag set used when the caller requests no
// specific fields.
var DefaultTimeSeriesFields = []string{
	"timestamp", "sensor_id", "value", "temperature", "pressure", "humidity",
}

// tsFieldFunc generates one field value for the record at index row.
type tsFieldFunc func(g *Generator, row int, start time.Time) any

// timeSeriesFields maps each known tag to its generation rule. The
// distribution constants are fixed contract values; results are only
// comparable across runs if they stay put. Unknown tags route to
// tsFallbackField.
var timeSeriesFields = map[string]tsFieldFunc{
	"timestamp": func(_ *Generator, row int, start time.Time) any {
		return start.Add(time.Duration(row) * timeSeriesStep)
	},
	"sensor_id": func(g *Generator, _ int, _ time.Time) any {
		return g.rng.Intn(10) + 1
	},
	"value": func(g *Generator, _ int, _ time.Time) any {
		return roundTo(g.normal(100, 25), 2)
	},
	"temperature": func(g *Generator, _ int, _ time.Time) any {
		return roundTo(g.normal(20, 10), 2)
	},
	"pressure": func(g *Generator, _ int, _ time.Time) any {
		return roundTo(g.normal(1013, 20), 2)
	},
	"humidity": func(g *Generator, _ int, _ time.Time) any {
		h := roundTo(g.normal(60, 15), 2)
		if h < 0 {
			return 0.0
		}
		if h > 100 {
			return 100.0
		}
		return h
	},
}

// tsFallbackField handles unrecognized tags: a uniform draw in [0,1)
// rounded to four decimals.
func tsFallbackField(g *Generator, _ int, _ time.Time) any {
	return roundTo(g.rng.Float64(), 4)
}

// TimeSeries generates n chronological records carrying the requested
// field tags.
//
// # Description
//
// Timestamps form a strictly increasing sequence starting at now minus
// n steps, advancing one minute per record. Recognized tags follow the
// fixed rules in timeSeriesFields; unrecognized tags signal a warning
// once per call and fall back to a uniform random value. An empty tag
// list selects DefaultTimeSeriesFields.
//
// # Inputs
//
//   - n: record count, must be > 0.
//   - fields: requested field tags, in output order.
//
// # Outputs
//
//   - datatypes.Dataset: n uniform records.
//   - error: ErrInvalidArgument when n <= 0; no partial output.
func (g *Generator) TimeSeries(n int, fields []string) (datatypes.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: time series size must be > 0, got %d", datatypes.ErrInvalidArgument, n)
	}
	if len(fields) == 0 {
		fields = DefaultTimeSeriesFields
	}

	// Resolve tags before the row loop so an unknown tag warns once per
	// call instead of once per record.
	gens := make([]tsFieldFunc, len(fields))
	for i, tag := range fields {
		fn, ok := timeSeriesFields[tag]
		if !ok {
			g.warn("unrecognized time-series field, using random fallback",
				"field", tag, "reason", datatypes.ErrUnrecognizedField.Error())
			fn = tsFallbackField
		}
		gens[i] = fn
	}

	start := time.Now().UTC().Truncate(time.Second).Add(-time.Duration(n) * timeSeriesStep)

	out := make(datatypes.Dataset, 0, n)
	for row := 0; row < n; row++ {
		var rec datatypes.Record
		for i, tag := range fields {
			rec.Set(tag, gens[i](g, row, start))
		}
		out = append(out, rec)
	}
	return out, nil
}
