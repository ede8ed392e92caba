// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbor implements the CBOR inspection subcommands of the chute
// CLI: dump, diag, encode, and validate.
//
// Chute stores captured payloads as CBOR records with Core
// Deterministic Encoding (RFC 8949 §4.2), and the capture stream
// format (a CBOR sequence, RFC 8742) is also what third-party sensors
// emit. These commands work on both: they accept arbitrary CBOR, not
// just Chute's own records.
//
// Subcommands:
//
//   - dump: convert a CBOR sequence to JSON Lines, mapping byte-string
//     values to printable text or base64 under a renamed key. This is
//     the tool the rest of the suite grew around, and the root
//     command's default action.
//   - diag: convert CBOR to RFC 8949 Extended Diagnostic Notation.
//   - encode: convert JSON to deterministic CBOR.
//   - validate: verify CBOR uses Core Deterministic Encoding.
//
// All subcommands accept input from stdin or from a trailing file path
// argument (jq convention). The -x flag treats input as hex-encoded
// CBOR for debugging wire dumps.
//
// The package also exports [ReadInput] and [Filter] for the root
// command, which treats a non-subcommand first argument as a jq filter
// expression over the dumped JSON stream.
package cbor
