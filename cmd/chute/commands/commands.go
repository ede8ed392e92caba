// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete Chute CLI command tree. The
// chute binary imports this package; keeping tree construction out of
// main makes the full surface testable without spawning a process.
package commands

import (
	"bytes"
	"fmt"
	"os"

	cborcmd "github.com/chuteworks/chute/cmd/chute/cbor"
	"github.com/chuteworks/chute/cmd/chute/cli"
	recordcmd "github.com/chuteworks/chute/cmd/chute/record"
	"github.com/chuteworks/chute/lib/jsonl"
	"github.com/chuteworks/chute/lib/version"
)

// rootParams holds the parameters for the bare "chute" invocation.
// The root command has both Subcommands (dump, diag, encode, validate,
// record, version) and a Run fallback. When the first positional
// argument matches a subcommand, the framework routes there.
// Otherwise, Run handles it: no args means dump stdin as JSON Lines;
// anything else is treated as a jq filter expression.
type rootParams struct {
	Compact   bool `json:"compact"    flag:"compact,c"    desc:"compact jq output (dump output is always compact)"`
	RawOutput bool `json:"raw_output" flag:"raw-output,r" desc:"raw string output (passed to jq)"`
	Slurp     bool `json:"slurp"      flag:"slurp,s"      desc:"read the whole CBOR sequence into a single JSON array"`
	HexInput  bool `json:"hex_input"  flag:"hex,x"        desc:"treat input as hex-encoded CBOR"`
}

// Root builds and returns the complete Chute CLI command tree.
func Root() *cli.Command {
	var params rootParams

	return &cli.Command{
		Name: "chute",
		Description: `Chute: capture-unit record plumbing.

Inspect, produce, and filter the CBOR record streams that capture
units post and spool files accumulate. With no arguments, decodes
CBOR on stdin to JSON Lines on stdout (equivalent to "chute dump").

When the first argument is not a subcommand name, it is treated as a
jq filter expression. The CBOR input is decoded to a JSON stream
internally and piped through jq. Common jq flags (-c, -r, -s) are
supported and passed through.

All inspection commands accept an optional trailing file path
argument. When provided, input is read from the file instead of
stdin. This matches jq convention: "chute '.unit' capture.spool".

With --hex, input is treated as hex-encoded CBOR rather than raw
binary. Whitespace in the hex input is ignored.`,
		Subcommands: []*cli.Command{
			cborcmd.DumpCommand(),
			cborcmd.DiagCommand(),
			cborcmd.EncodeCommand(),
			cborcmd.ValidateCommand(),
			recordcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("chute %s\n", version.Full())
					return nil
				},
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			data, remainingArgs, err := cborcmd.ReadInput(args, params.HexInput)
			if err != nil {
				return err
			}

			if len(remainingArgs) == 0 {
				// No arguments: default to dump.
				return jsonl.Dump(bytes.NewReader(data), os.Stdout, jsonl.Options{
					Slurp: params.Slurp,
				})
			}

			// Remaining positional args are a jq filter expression.
			var jqArgs []string
			if params.Compact {
				jqArgs = append(jqArgs, "-c")
			}
			if params.RawOutput {
				jqArgs = append(jqArgs, "-r")
			}
			if params.Slurp {
				jqArgs = append(jqArgs, "-s")
			}
			jqArgs = append(jqArgs, remainingArgs...)

			return cborcmd.Filter(data, jqArgs)
		},
		Examples: []cli.Example{
			{
				Description: "Dump a record stream as JSON Lines",
				Command:     "chute < capture.spool",
			},
			{
				Description: "Dump a spool file with indentation",
				Command:     "chute dump --indent capture.spool",
			},
			{
				Description: "Extract a field with jq",
				Command:     "chute '.unit' capture.spool",
			},
			{
				Description: "Raw string output from a jq filter",
				Command:     "chute -r '.[\"Content-Type\"]' capture.spool",
			},
			{
				Description: "Collect a sequence into one JSON array",
				Command:     "chute -s 'length' capture.spool",
			},
			{
				Description: "Decode hex-encoded CBOR",
				Command:     "echo 'a161740c' | chute --hex",
			},
			{
				Description: "Encode JSON to deterministic CBOR",
				Command:     "echo '{\"unit\":\"cam\"}' | chute encode",
			},
			{
				Description: "Validate deterministic encoding",
				Command:     "chute validate capture.spool",
			},
			{
				Description: "Inspect CBOR structure with diagnostic notation",
				Command:     "chute diag capture.spool",
			},
			{
				Description: "List the records in a spool file",
				Command:     "chute record ls capture.spool",
			},
			{
				Description: "Verify record digests in a spool file",
				Command:     "chute record verify capture.spool",
			},
		},
	}
}
