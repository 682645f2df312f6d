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

// experimentStep is the spacing between consecutive experiment records.
const experimentStep = time.Hour

// experimentStatuses is the closed status set, drawn uniformly.
var experimentStatuses = []string{"success", "failed"}

// Experiments generates n parameterized experiment records.
//
// # Description
//
// Each record carries a 1-based experiment_id, a timestamp advancing one
// hour per record, a status drawn uniformly from {success, failed},
// parameters fields named param_0 .. param_{p-1} each drawn from N(50,20)
// and rounded to three decimals, and a derived result field computed as
// the mean of the parameter values plus N(0,5) noise, rounded to three
// decimals. The result is computed after all parameter fields exist
// since it depends on their values.
//
// # Inputs
//
//   - n: record count, must be > 0.
//   - parameters: synthetic parameter field count, must be > 0.
//
// # Outputs
//
//   - datatypes.Dataset: n uniform records.
//   - error: ErrInvalidArgument when n <= 0 or parameters <= 0.
func (g *Generator) Experiments(n, parameters int) (datatypes.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: experiment count must be > 0, got %d", datatypes.ErrInvalidArgument, n)
	}
	if parameters <= 0 {
		return nil, fmt.Errorf("%w: parameter count must be > 0, got %d", datatypes.ErrInvalidArgument, parameters)
	}

	start := time.Now().UTC().Truncate(time.Second).Add(-time.Duration(n) * experimentStep)

	out := make(datatypes.Dataset, 0, n)
	for row := 0; row < n; row++ {
		var rec datatypes.Record
		rec.Set("experiment_id", row+1)
		rec.Set("timestamp", start.Add(time.Duration(row)*experimentStep))
		rec.Set("status", experimentStatuses[g.rng.Intn(len(experimentStatuses))])

		sum := 0.0
		for p := 0; p < parameters; p++ {
			v := roundTo(g.normal(50, 20), 3)
			rec.Set(fmt.Sprintf("param_%d", p), v)
			sum += v
		}

		mean := sum / float64(parameters)
		rec.Set("result", roundTo(mean+g.normal(0, 5), 3))

		out = append(out, rec)
	}
	return out, nil
}
