// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Chute's standard CBOR encoding configuration.
//
// Chute uses two serialization formats with a clear boundary:
//
//   - CBOR for data at rest and on the wire: record spool files
//     written by the capture server, and any CBOR the tools themselves
//     produce (chute encode).
//   - JSON for everything a human or script reads: dump output, CLI
//     --json output, record printing.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every Chute package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so a record can be re-encoded anywhere and keep its digest.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (spool files, stdin):
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
//
// # Struct Tag Rules
//
// Chute types that serialize use `json` struct tags only. fxamacker/cbor
// v2 reads `json` tags as fallback when `cbor` tags are absent, so a
// single `json` tag controls field naming and omitempty for both
// formats. This matters because the same Record type is written as
// CBOR into spools and printed as JSON by the record tools. Never use
// both `cbor` and `json` tags on the same field.
//
// Note that these modes are deliberately strict about what Chute
// itself produces, not about what the inspection tools accept. The
// dump and diag commands decode arbitrary third-party CBOR and
// configure their own lenient decoder for that purpose.
package codec
