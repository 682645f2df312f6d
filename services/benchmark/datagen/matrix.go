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

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// sparseZeroProbability is the fixed fraction of zero cells in sparse
// mode. Fixed contract value, not configurable.
const sparseZeroProbability = 0.80

// Matrix generates one record per row: a 1-based row_id and a values
// field holding a numeric sequence of length cols.
//
// # Description
//
// In sparse mode each cell is zero with probability 0.80, otherwise
// drawn from N(0,1) scaled by 100 and rounded to two decimals. Dense
// mode draws every cell. Row order is incidental; the records are
// uniform by construction.
//
// # Inputs
//
//   - rows, cols: matrix dimensions, both must be > 0.
//   - sparse: zero-heavy payload toggle.
//
// # Outputs
//
//   - datatypes.Dataset: rows uniform records.
//   - error: ErrInvalidArgument when rows <= 0 or cols <= 0.
func (g *Generator) Matrix(rows, cols int, sparse bool) (datatypes.Dataset, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix dimensions must be > 0, got %dx%d", datatypes.ErrInvalidArgument, rows, cols)
	}

	out := make(datatypes.Dataset, 0, rows)
	for row := 0; row < rows; row++ {
		values := make([]float64, cols)
		for c := range values {
			if sparse && g.rng.Float64() < sparseZeroProbability {
				continue
			}
			values[c] = roundTo(g.rng.NormFloat64()*100, 2)
		}

		var rec datatypes.Record
		rec.Set("row_id", row+1)
		rec.Set("values", values)
		out = append(out, rec)
	}
	return out, nil
}
