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
	"sort"
	"time"

	"github.com/AleutianAI/tokenbench/services/benchmark/datatypes"
)

// Schema maps field names to primitive type tags.
type Schema map[string]string

// Primitive type tags FromSchema recognizes.
const (
	FieldInteger   = "integer"
	FieldFloat     = "float"
	FieldString    = "string"
	FieldBoolean   = "boolean"
	FieldTimestamp = "timestamp"
)

// schemaFieldFunc generates one value for a declared type tag.
type schemaFieldFunc func(g *Generator) any

// schemaFieldGens maps each primitive type tag to its generation rule.
// Unknown tags route to schemaUnknownField.
var schemaFieldGens = map[string]schemaFieldFunc{
	FieldInteger: func(g *Generator) any {
		return g.rng.Intn(1000)
	},
	FieldFloat: func(g *Generator) any {
		return roundTo(g.rng.Float64()*1000, 3)
	},
	FieldString: func(g *Generator) any {
		return g.randString(8)
	},
	FieldBoolean: func(g *Generator) any {
		return g.rng.Intn(2) == 0
	},
	FieldTimestamp: func(g *Generator) any {
		offset := time.Duration(g.rng.Int63n(int64(365 * 24 * time.Hour)))
		return time.Now().UTC().Add(-offset).Truncate(time.Second)
	},
}

// schemaUnknownField handles unrecognized type tags with the explicit
// no-value marker. Generation never aborts for an unknown type.
func schemaUnknownField(*Generator) any {
	return nil
}

// FromSchema generates n records whose fields are declared by schema.
//
// # Description
//
// Each field is generated by the fixed rule for its declared type tag:
// bounded random integer in [0,1000), random float in [0,1000) rounded
// to three decimals, fixed-length random string of eight alphanumerics,
// fair-coin boolean, or a timestamp within the past year. Unrecognized
// type tags signal a warning once per call and emit nil for that field.
//
// Output field order is sorted by name so records are uniform and
// encoding is stable across records and runs.
//
// # Inputs
//
//   - n: record count, must be > 0.
//   - schema: field name to type tag mapping, must be non-empty.
//
// # Outputs
//
//   - datatypes.Dataset: n uniform records.
//   - error: ErrInvalidArgument when n <= 0 or the schema is empty.
func (g *Generator) FromSchema(n int, schema Schema) (datatypes.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: record count must be > 0, got %d", datatypes.ErrInvalidArgument, n)
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: schema must declare at least one field", datatypes.ErrInvalidArgument)
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	gens := make([]schemaFieldFunc, len(names))
	for i, name := range names {
		fn, ok := schemaFieldGens[schema[name]]
		if !ok {
			g.warn("unrecognized schema type, emitting null value",
				"field", name, "type", schema[name],
				"reason", datatypes.ErrUnrecognizedType.Error())
			fn = schemaUnknownField
		}
		gens[i] = fn
	}

	out := make(datatypes.Dataset, 0, n)
	for row := 0; row < n; row++ {
		var rec datatypes.Record
		for i, name := range names {
			rec.Set(name, gens[i](g))
		}
		out = append(out, rec)
	}
	return out, nil
}
