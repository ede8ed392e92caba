// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"fmt"
	"io"
	"os"

	"github.com/chuteworks/chute/cmd/chute/cli"
	"github.com/chuteworks/chute/lib/codec"
)

// diagParams holds the parameters for the "chute diag" command.
type diagParams struct {
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex-encoded CBOR"`
}

// DiagCommand returns the "diag" command.
func DiagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Convert CBOR to diagnostic notation",
		Description: `Read CBOR from stdin (or a file argument) and write RFC 8949 Extended
Diagnostic Notation (EDN) to stdout, one line per sequence item.

Unlike JSON output, diagnostic notation preserves CBOR type
information: integer vs float, byte strings vs text strings, integer
map keys, and tagged values. Use it to see the exact wire shape of a
captured record before the dump transform touches it.

Examples of diagnostic notation:

  {"t": 1739525400123, "d": h'7b7d'}      integer value, byte string
  {1: "cam", 2: "image/jpeg"}             integer map keys
  h'a1636b6579'                           byte string in hex`,
		Usage:  "chute diag [-x] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Show the wire shape of a capture spool",
				Command:     "chute diag < capture.spool",
			},
			{
				Description: "Encode JSON and inspect the CBOR structure",
				Command:     "echo '{\"count\":42}' | chute encode | chute diag",
			},
		},
		Run: func(args []string) error {
			data, remainingArgs, err := ReadInput(args, params.HexInput)
			if err != nil {
				return err
			}
			if len(remainingArgs) > 0 {
				return fmt.Errorf("diag takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return diagCBOR(data, os.Stdout)
		},
	}
}

// diagCBOR writes the diagnostic notation of the CBOR sequence in data
// to w, one line per item.
func diagCBOR(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected CBOR data")
	}

	// Process as a sequence: diagnose each item and print on its
	// own line. For a single item this produces one line; for CBOR
	// sequences (RFC 8742) it produces one line per item.
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			offset := len(data) - len(remaining)
			return fmt.Errorf("diagnose CBOR at byte %d: %w", offset, err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
		remaining = rest
	}

	return nil
}
