// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// JSONRenderer writes the run and its statistics as one JSON document.
type JSONRenderer struct {
	// Pretty indents the output for terminals; off for piping.
	Pretty bool
}

var _ Renderer = JSONRenderer{}

// jsonReport is the envelope emitted by JSONRenderer.
type jsonReport struct {
	Run        *datatypes.ResultTable       `json:"run"`
	Statistics *datatypes.GroupedStatistics `json:"statistics,omitempty"`
}

func (r JSONRenderer) Render(w io.Writer, table *datatypes.ResultTable, stats *datatypes.GroupedStatistics) error {
	if table == nil {
		return fmt.Errorf("%w: nil result table", datatypes.ErrInvalidArgument)
	}

	encoder := json.NewEncoder(w)
	if r.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(jsonReport{Run: table, Statistics: stats})
}
