// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package jsonl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/chuteworks/chute/lib/codec"
)

// Options configures a Dump run.
type Options struct {
	// Deep applies the byte-string rule uniformly through arrays and
	// bare values (see NormalizeDeep) instead of the faithful
	// mapping-values-only rule.
	Deep bool

	// Indent pretty-prints each item over multiple lines with 2-space
	// indentation. The output is then no longer one line per item.
	Indent bool

	// Slurp collects the whole sequence into a single JSON array
	// instead of one line per item, the way jq -s does. An empty
	// sequence produces an empty array, not empty output.
	Slurp bool
}

// Dump reads a CBOR sequence from r and writes each item as JSON to w,
// one item per line, after applying the Normalize transform.
//
// The loop ends cleanly when r is exhausted between items: zero input
// items produce zero output lines and a nil error (with Slurp, an
// empty array). A malformed or truncated item stops the dump with a
// non-nil error naming the item's index; no line is written for the
// failed item and no resynchronization is attempted.
//
// HTML escaping is disabled so the output round-trips textually
// ("<", ">", "&" appear literally).
func Dump(r io.Reader, w io.Writer, options Options) error {
	// The lenient decoder keeps the default map type (map[any]any) so
	// foreign CBOR with integer map keys decodes; Normalize and
	// jsonSafe then turn the result into something encoding/json
	// accepts.
	decoder := codec.NewToolDecoder(r)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if options.Indent {
		encoder.SetIndent("", "  ")
	}

	// Slurp collects transformed items; the line-per-item path
	// encodes as it goes so a malformed tail cannot retract lines
	// already written.
	slurped := []any{}

	for index := 0; ; index++ {
		var value any
		if err := decoder.Decode(&value); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decode CBOR item %d: %w", index, err)
		}

		var transformed any
		if options.Deep {
			transformed = NormalizeDeep(value)
		} else {
			transformed = jsonSafe(Normalize(value))
		}

		if options.Slurp {
			slurped = append(slurped, transformed)
			continue
		}
		if err := encoder.Encode(transformed); err != nil {
			return fmt.Errorf("write item %d as JSON: %w", index, err)
		}
	}

	if options.Slurp {
		if err := encoder.Encode(slurped); err != nil {
			return fmt.Errorf("write slurped array as JSON: %w", err)
		}
	}
	return nil
}
