// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package record implements the "chute record" subcommand group:
// record-aware inspection of spool files.
//
// Where the top-level dump and diag commands treat a spool as an
// opaque CBOR sequence, these commands decode each item as a capture
// record: print decompresses payloads and renders digests in their
// text form, verify recomputes payload digests, ls summarizes records
// one row each, and the index subcommands maintain and query the
// SQLite record index.
package record
