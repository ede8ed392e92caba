// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/chuteworks/chute/cmd/chute/cli"
	recordschema "github.com/chuteworks/chute/lib/schema/record"
	"github.com/chuteworks/chute/lib/spool"
)

type lsParams struct {
	cli.JSONOutput
}

// lsEntry is one row of the listing. The JSON form carries the full
// digest; the table abbreviates it.
type lsEntry struct {
	Time        int64                    `json:"time_unix_nano"`
	Unit        string                   `json:"unit,omitempty"`
	ContentType string                   `json:"content_type,omitempty"`
	Size        int64                    `json:"size"`
	Compression recordschema.Compression `json:"compression,omitempty"`
	Digest      string                   `json:"digest,omitempty"`
	Offset      int64                    `json:"offset"`
}

func lsCommand() *cli.Command {
	var params lsParams

	return &cli.Command{
		Name:    "ls",
		Summary: "List records one row each",
		Description: `List the records of a spool file as a table: capture time, unit,
content type, stored size, and digest prefix. Sizes are the encoded
on-disk sizes, compression included. Use --json for full digests and
byte offsets.`,
		Usage: "chute record ls [flags] [spool]",
		Examples: []cli.Example{
			{
				Description: "List records in a spool",
				Command:     "chute record ls capture.spool",
			},
			{
				Description: "Full entries as JSON",
				Command:     "chute record ls --json capture.spool",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			input, err := openSpoolInput(args)
			if err != nil {
				return err
			}
			defer input.Close()

			entries, err := listRecords(input)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No records found.")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "TIME\tUNIT\tTYPE\tSIZE\tDIGEST\n")
			for _, entry := range entries {
				digest := entry.Digest
				if len(digest) > 15 {
					digest = digest[:15]
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
					formatTimestamp(entry.Time),
					entry.Unit,
					entry.ContentType,
					formatBytes(entry.Size),
					digest,
				)
			}
			return writer.Flush()
		},
	}
}

// listRecords scans a spool into listing entries.
func listRecords(input io.Reader) ([]lsEntry, error) {
	var entries []lsEntry

	scanner := spool.NewScanner(input)
	for scanner.Scan() {
		rec := scanner.Record()
		entries = append(entries, lsEntry{
			Time:        rec.Time,
			Unit:        rec.Unit,
			ContentType: rec.ContentType,
			Size:        scanner.Size(),
			Compression: rec.Compression,
			Digest:      digestIfAny(rec),
			Offset:      scanner.Offset(),
		})
	}
	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}
