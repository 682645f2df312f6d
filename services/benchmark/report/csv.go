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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// CSVRenderer writes one row per trial with the full column set, for
// spreadsheets and downstream analysis. Aggregate statistics are not
// emitted; they re-derive from the rows.
type CSVRenderer struct{}

var _ Renderer = CSVRenderer{}

func (CSVRenderer) Render(w io.Writer, table *datatypes.ResultTable, _ *datatypes.GroupedStatistics) error {
	if table == nil {
		return fmt.Errorf("%w: nil result table", datatypes.ErrInvalidArgument)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(resultColumns); err != nil {
		return err
	}
	for _, r := range table.Results {
		if err := writer.Write(resultRow(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
