// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chuteworks/chute/cmd/chute/cli"
	"github.com/chuteworks/chute/lib/jsonl"
	recordschema "github.com/chuteworks/chute/lib/schema/record"
	"github.com/chuteworks/chute/lib/spool"
)

type printParams struct {
	Pretty bool `json:"pretty" flag:"pretty,p" desc:"indent JSON output"`
	Raw    bool `json:"raw"    flag:"raw"      desc:"write raw payload bytes instead of JSON"`
}

func printCommand() *cli.Command {
	var params printParams

	return &cli.Command{
		Name:    "print",
		Summary: "Print records as JSON, payloads decompressed",
		Description: `Print each record of a spool as one JSON line.

Unlike the top-level dump command, print understands the record
schema: compressed payloads are decompressed before display, digests
are rendered in their b3: text form, and the compression field is
dropped (it describes storage, not the payload). The payload follows
the usual byte-string rule: printable ASCII appears as text under
"d", anything else as base64 under "d_b64".

With --raw, the decompressed payload bytes are written verbatim and
nothing else, which turns a single-record spool back into the posted
payload.`,
		Usage: "chute record print [flags] [spool]",
		Examples: []cli.Example{
			{
				Description: "Print records as JSON Lines",
				Command:     "chute record print capture.spool",
			},
			{
				Description: "Pretty-print records",
				Command:     "chute record print --pretty capture.spool",
			},
			{
				Description: "Recover a posted payload",
				Command:     "chute record print --raw single.spool > payload.bin",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			input, err := openSpoolInput(args)
			if err != nil {
				return err
			}
			defer input.Close()

			return printRecords(input, os.Stdout, params)
		},
	}
}

func printRecords(input io.Reader, output io.Writer, params printParams) error {
	encoder := json.NewEncoder(output)
	if params.Pretty {
		encoder.SetIndent("", "  ")
	}

	scanner := spool.NewScanner(input)
	for scanner.Scan() {
		rec := scanner.Record()
		payload, err := rec.Payload()
		if err != nil {
			return fmt.Errorf("record at offset %d: %w", scanner.Offset(), err)
		}

		if params.Raw {
			if _, err := output.Write(payload); err != nil {
				return fmt.Errorf("write payload: %w", err)
			}
			continue
		}

		if err := encoder.Encode(recordLine(rec, payload)); err != nil {
			return fmt.Errorf("encode record at offset %d: %w", scanner.Offset(), err)
		}
	}
	return scanner.Err()
}

// recordLine builds the JSON object for one record: the record map
// with the payload decompressed under "d", passed through the mapping
// byte-string rule so binary payloads land under "d_b64".
func recordLine(rec recordschema.Record, payload []byte) any {
	line := map[string]any{
		"t": rec.Time,
		"d": payload,
	}
	if rec.ContentType != "" {
		line["Content-Type"] = rec.ContentType
	}
	if !rec.Digest.IsZero() {
		line["digest"] = rec.Digest.String()
	}
	if rec.Unit != "" {
		line["unit"] = rec.Unit
	}
	return jsonl.Normalize(line)
}
