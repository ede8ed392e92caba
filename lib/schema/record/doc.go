// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package record defines the capture record: one HTTP payload received
// by a Chute unit, with its timestamp, content type, and integrity
// digest. Records are the unit of storage in spool files and the unit
// of lookup in the record index.
//
// The wire format is a CBOR map with short field names ("t", "d",
// "Content-Type") chosen for compatibility with records written by
// earlier capture pipelines. Fields added since ("digest",
// "compression", "unit") are absent from legacy records; decoding
// leaves them at their zero values and [Record.Verify] reports
// [ErrNoDigest] for records that predate digests.
//
// [Digest] is a keyed BLAKE3 hash of the uncompressed payload,
// domain-separated so record digests can never collide with hashes
// from other contexts. [Compression] names how the Data field is
// compressed on the wire; [Record.Payload] transparently decompresses.
//
// This package depends only on lib/codec.
package record
