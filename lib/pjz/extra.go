// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// loadExtraFile reads and parses the extension side-file supplied at
// pack time. The file is JSON with commentary tolerated: // and /* */
// comments and trailing commas are stripped before strict parsing.
// The parsed value is attached wholesale, so the file may hold any
// JSON value, not only an object.
func loadExtraFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtraFileNotFound, path)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("parsing extra file %s: %w", path, err)
	}
	return convertNumbers(value), nil
}

// convertNumbers recursively walks a JSON-decoded value and converts
// json.Number to int64 or float64. Without this, json.Decoder with
// UseNumber() leaves numbers as strings that the CBOR encoder would
// encode as text instead of numeric types. A literal too large for
// both (out-of-range exponent) is kept as its source text.
func convertNumbers(v any) any {
	switch value := v.(type) {
	case json.Number:
		if integer, err := value.Int64(); err == nil {
			return integer
		}
		if float, err := value.Float64(); err == nil {
			return float
		}
		return value.String()

	case map[string]any:
		for key, element := range value {
			value[key] = convertNumbers(element)
		}
		return value

	case []any:
		for index, element := range value {
			value[index] = convertNumbers(element)
		}
		return value

	default:
		return v
	}
}
