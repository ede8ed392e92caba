// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import "github.com/chuteworks/chute/cmd/chute/cli"

// Command returns the "record" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "record",
		Summary: "Inspect, verify, and index spool records",
		Description: `Record-aware operations on spool files.

A spool file is a CBOR sequence of capture records. The top-level
dump and diag commands show that sequence verbatim; the record
commands decode each item as a record: payloads are decompressed,
digests are shown in their b3: text form, and corrupt items are
reported with their byte offset.

The index subcommands maintain a SQLite index over spool files so
records can be found by digest, unit, content type, or time range
without scanning every spool.`,
		Subcommands: []*cli.Command{
			printCommand(),
			verifyCommand(),
			lsCommand(),
			indexCommand(),
			searchCommand(),
			showCommand(),
			statsCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Print records as JSON Lines, payloads decompressed",
				Command:     "chute record print capture.spool",
			},
			{
				Description: "Verify every record digest in a spool",
				Command:     "chute record verify capture.spool",
			},
			{
				Description: "Index spools, then search by unit",
				Command:     "chute record index --db chute.db spool/cam/*.spool && chute record search --db chute.db --unit cam",
			},
		},
	}
}
