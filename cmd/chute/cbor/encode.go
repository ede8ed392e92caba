// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chuteworks/chute/cmd/chute/cli"
	"github.com/chuteworks/chute/lib/codec"
)

// EncodeCommand returns the "encode" command.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON to CBOR",
		Description: `Read JSON from stdin (or a file argument) and write the equivalent
CBOR to stdout using Core Deterministic Encoding (RFC 8949 §4.2).

JSON integers are preserved as CBOR integers (not floats). This
matters for round-tripping record timestamps and for the validate
command, which expects deterministic integer encoding.

The output is binary. Pipe to "chute diag" or "xxd" to inspect.`,
		Usage: "chute encode [file]",
		Examples: []cli.Example{
			{
				Description: "Encode JSON to CBOR",
				Command:     "echo '{\"unit\":\"cam\"}' | chute encode > item.cbor",
			},
			{
				Description: "Encode a JSON file to CBOR",
				Command:     "chute encode input.json > output.cbor",
			},
			{
				Description: "Round-trip: encode then dump",
				Command:     "echo '{\"count\":42}' | chute encode | chute dump",
			},
		},
		Run: func(args []string) error {
			data, remainingArgs, err := ReadInput(args, false)
			if err != nil {
				return err
			}
			if len(remainingArgs) > 0 {
				return fmt.Errorf("encode takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return encodeCBOR(data, os.Stdout)
		},
	}
}

// encodeCBOR encodes JSON data as CBOR and writes it to w.
func encodeCBOR(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected JSON data")
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}

	value, err := convertNumbers(value)
	if err != nil {
		return fmt.Errorf("convert JSON numbers: %w", err)
	}

	cborData, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode CBOR: %w", err)
	}

	_, err = w.Write(cborData)
	return err
}

// convertNumbers recursively walks a JSON-decoded value and converts
// json.Number to int64 or float64. Without this, json.Decoder with
// UseNumber() leaves numbers as strings that the CBOR encoder would
// encode as text instead of numeric types.
//
// Valid JSON can still hold numbers no Go numeric type represents
// (1e1000 overflows float64). Those are reported as errors rather
// than silently clamped.
func convertNumbers(v any) (any, error) {
	switch value := v.(type) {
	case json.Number:
		if integer, err := value.Int64(); err == nil {
			return integer, nil
		}
		if float, err := value.Float64(); err == nil {
			return float, nil
		}
		return nil, fmt.Errorf("number %s does not fit int64 or float64", value.String())

	case map[string]any:
		for key, element := range value {
			converted, err := convertNumbers(element)
			if err != nil {
				return nil, err
			}
			value[key] = converted
		}
		return value, nil

	case []any:
		for index, element := range value {
			converted, err := convertNumbers(element)
			if err != nil {
				return nil, err
			}
			value[index] = converted
		}
		return value, nil

	default:
		return v, nil
	}
}
