// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package spool reads and writes spool files: back-to-back CBOR
// records with no framing between them (a CBOR sequence). A spool is
// append-only; the encoding is deterministic, so a spool written twice
// from the same records is byte-identical.
//
// [Appender] appends records to a single spool file under an exclusive
// flock, so two capture processes cannot interleave records in one
// file. [Scanner] iterates a spool and reports each record's byte
// offset and encoded size, which is what the record index stores.
//
// Output paths come from templates: %T expands to the record
// timestamp (20060102_150405.999999999, UTC) and %% to a literal
// percent. A template with %T names one file per record; without it,
// a single append spool.
//
// Payloads at or above [CompressionThreshold] are compressed before
// encoding, using the content-type-aware selection in
// lib/schema/record.
package spool
