// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/chuteworks/chute/cmd/chute/cli"
	"github.com/chuteworks/chute/lib/jsonl"
)

// dumpParams holds the parameters for the "chute dump" command.
type dumpParams struct {
	Deep     bool `json:"deep"      flag:"deep"     desc:"apply the byte-string rule inside arrays and to bare values"`
	Indent   bool `json:"indent"    flag:"indent,i" desc:"pretty-print each item (output is no longer one line per item)"`
	HexInput bool `json:"hex_input" flag:"hex,x"    desc:"treat input as hex-encoded CBOR"`
}

// DumpCommand returns the "dump" command, the default action of the
// chute CLI.
func DumpCommand() *cli.Command {
	var params dumpParams

	return &cli.Command{
		Name:    "dump",
		Summary: "Convert a CBOR sequence to JSON Lines",
		Description: `Read consecutive CBOR items from stdin (or a file argument) and write
each as a single line of JSON to stdout.

Byte-string values inside mappings are made readable: a value whose
bytes are all printable ASCII (0x20 through 0x7F) appears as a JSON
string under its original key, anything else appears as standard
base64 under the key with "_b64" appended. Other values pass through
with their JSON equivalents; integer map keys become string keys.

Byte strings that are not mapping values (array elements, bare items)
are emitted as plain base64 in place. Use --deep to apply the
printable-or-b64 rule to those as well.

Empty input is not an error: zero items in, zero lines out, exit 0.
A malformed or truncated item stops the dump with a nonzero exit and
a diagnostic naming the item's position.`,
		Usage:  "chute dump [--deep] [--indent] [-x] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Dump a capture spool as JSON Lines",
				Command:     "chute dump < capture.spool",
			},
			{
				Description: "Dump a file argument with pretty-printing",
				Command:     "chute dump --indent capture.spool",
			},
			{
				Description: "Dump hex-encoded CBOR from a debug log",
				Command:     "echo 'a1616405ff01ff' | chute dump -x",
			},
		},
		Run: func(args []string) error {
			data, remainingArgs, err := ReadInput(args, params.HexInput)
			if err != nil {
				return err
			}
			if len(remainingArgs) > 0 {
				return fmt.Errorf("dump takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return dumpCBOR(data, os.Stdout, jsonl.Options{
				Deep:   params.Deep,
				Indent: params.Indent,
			})
		},
	}
}

// dumpCBOR writes the JSON Lines rendering of the CBOR sequence in
// data to w. Zero items produce zero output and a nil error.
func dumpCBOR(data []byte, w io.Writer, options jsonl.Options) error {
	return jsonl.Dump(bytes.NewReader(data), w, options)
}
