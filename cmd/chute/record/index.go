// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/chuteworks/chute/cmd/chute/cli"
	"github.com/chuteworks/chute/lib/recordindex"
	recordschema "github.com/chuteworks/chute/lib/schema/record"
	"github.com/chuteworks/chute/lib/spool"
)

// openIndex opens the index database for a subcommand, with the
// command logger receiving operational messages.
func openIndex(path string) (*recordindex.Index, error) {
	return recordindex.Open(recordindex.Config{
		Path:   path,
		Logger: cli.NewCommandLogger(),
	})
}

// --- record index ---

type indexParams struct {
	DB string `json:"db" flag:"db" desc:"path to the index database" default:"chute.db"`
}

func indexCommand() *cli.Command {
	var params indexParams

	return &cli.Command{
		Name:    "index",
		Summary: "Index spool files into the record database",
		Description: `Scan spool files and upsert every record into the SQLite index.

Indexing is idempotent: re-running it over the same spools is a
no-op, and running it after appends picks up the new tail. Spool
paths are stored in absolute form, so search and show results
resolve regardless of the working directory.`,
		Usage: "chute record index [flags] <spool>...",
		Examples: []cli.Example{
			{
				Description: "Index one spool",
				Command:     "chute record index capture.spool",
			},
			{
				Description: "Index a unit's whole spool directory",
				Command:     "chute record index --db chute.db spool/cam/*.spool",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("at least one spool path is required\n\nRun 'chute record index --help' for usage.")
			}

			index, err := openIndex(params.DB)
			if err != nil {
				return err
			}
			defer index.Close()

			ctx := context.Background()
			total := 0
			for _, spoolPath := range args {
				count, err := index.Reindex(ctx, spoolPath)
				if err != nil {
					return err
				}
				total += count
			}

			fmt.Printf("indexed %d records from %d spools\n", total, len(args))
			return nil
		},
	}
}

// --- record search ---

type searchParams struct {
	cli.JSONOutput
	DB    string `json:"db"           flag:"db"      desc:"path to the index database" default:"chute.db"`
	Unit  string `json:"unit"         flag:"unit,u"  desc:"filter by capture unit"`
	Type  string `json:"content_type" flag:"type,t"  desc:"filter by content type prefix"`
	Since string `json:"since"        flag:"since"   desc:"start of time range (duration or timestamp)"`
	Until string `json:"until"        flag:"until"   desc:"end of time range (duration or timestamp)"`
	Limit int    `json:"limit"        flag:"limit,n" desc:"maximum number of entries to return" default:"100"`
}

func searchCommand() *cli.Command {
	var params searchParams

	return &cli.Command{
		Name:    "search",
		Summary: "Search the record index",
		Description: `Search indexed records by unit, content type, and time range,
newest first.

The --type filter is a prefix match, so "application/json" also
catches "application/json; charset=utf-8". Time ranges use --since
and --until, which accept Go durations (1h, 30m), day suffixes (7d),
or timestamps (RFC3339 or YYYY-MM-DD).`,
		Usage: "chute record search [flags]",
		Examples: []cli.Example{
			{
				Description: "Most recent records from one unit",
				Command:     "chute record search --unit cam --limit 20",
			},
			{
				Description: "JSON payloads captured in the last day",
				Command:     "chute record search --type application/json --since 24h",
			},
			{
				Description: "Full entries as JSON",
				Command:     "chute record search --unit gps --json",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("search takes no positional arguments, got %q", args[0])
			}

			query := recordindex.Query{
				Unit:        params.Unit,
				ContentType: params.Type,
				Limit:       params.Limit,
			}
			var err error
			if query.Since, err = parseTimeFlag(params.Since); err != nil {
				return fmt.Errorf("--since: %w", err)
			}
			if query.Until, err = parseTimeFlag(params.Until); err != nil {
				return fmt.Errorf("--until: %w", err)
			}

			index, err := openIndex(params.DB)
			if err != nil {
				return err
			}
			defer index.Close()

			entries, err := index.Search(context.Background(), query)
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
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
					formatTimestamp(entry.Time),
					entry.Unit,
					entry.ContentType,
					formatBytes(entry.Size),
					shortDigest(entry.Digest),
				)
			}
			return writer.Flush()
		},
	}
}

// --- record show ---

type showParams struct {
	DB      string `json:"db"      flag:"db"      desc:"path to the index database" default:"chute.db"`
	Payload bool   `json:"payload" flag:"payload" desc:"write raw payload bytes instead of JSON"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one record by digest",
		Description: `Look up a record digest in the index, read the record back from
its spool file, and print it as indented JSON (the same rendering as
"record print --pretty").

With --payload, the decompressed payload bytes are written verbatim,
so a captured file can be recovered by digest:

    chute record show --payload b3:4ac0... > payload.bin`,
		Usage: "chute record show [flags] <digest>",
		Examples: []cli.Example{
			{
				Description: "Show a record",
				Command:     "chute record show b3:4ac0d0eff15278d5be6a593f2a7482cd744022bcb6e9114e0b0ed2a2fba35638",
			},
			{
				Description: "Recover the payload",
				Command:     "chute record show --payload b3:4ac0... > payload.bin",
			},
		},
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one digest argument is required (b3:...)\n\nRun 'chute record show --help' for usage.")
			}
			digest, err := recordschema.ParseDigest(args[0])
			if err != nil {
				return err
			}

			index, err := openIndex(params.DB)
			if err != nil {
				return err
			}
			defer index.Close()

			entry, err := index.Lookup(context.Background(), digest)
			if err != nil {
				return err
			}

			file, err := os.Open(entry.Spool)
			if err != nil {
				return fmt.Errorf("opening spool: %w", err)
			}
			defer file.Close()

			rec, err := spool.ReadRecordAt(file, entry.Offset)
			if err != nil {
				return err
			}
			payload, err := rec.Payload()
			if err != nil {
				return err
			}

			if params.Payload {
				_, err := os.Stdout.Write(payload)
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(recordLine(rec, payload))
		},
	}
}

// --- record stats ---

type statsParams struct {
	cli.JSONOutput
	DB string `json:"db" flag:"db" desc:"path to the index database" default:"chute.db"`
}

func statsCommand() *cli.Command {
	var params statsParams

	return &cli.Command{
		Name:    "stats",
		Summary: "Summarize the record index",
		Usage:   "chute record stats [flags]",
		Params:  func() any { return &params },
		Run: func(args []string) error {
			index, err := openIndex(params.DB)
			if err != nil {
				return err
			}
			defer index.Close()

			stats, err := index.Stats(context.Background())
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(stats); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "records\t%d\n", stats.Records)
			fmt.Fprintf(writer, "units\t%d\n", stats.Units)
			fmt.Fprintf(writer, "spools\t%d\n", stats.Spools)
			fmt.Fprintf(writer, "stored bytes\t%s\n", formatBytes(stats.StoredBytes))
			fmt.Fprintf(writer, "index bytes\t%s\n", formatBytes(stats.IndexBytes))
			return writer.Flush()
		},
	}
}
