// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest implements the HTTP capture service: named units
// accept POST bodies and persist them as capture records.
//
// A unit is a configured endpoint with its own secret, output path,
// and size limit. Units load from a YAML or JSONC file (see
// LoadConfig) and come in two shapes:
//
//   - Append units write every capture to one spool file, opened with
//     an exclusive lock at startup. This is the shape the rest of the
//     toolchain (indexing, the viewer, the CLI) consumes.
//   - File units expand a %T timestamp template per capture and write
//     one single-record file each time, for payloads that are easier
//     to handle as individual files (camera frames, uploaded blobs).
//
// Requests select a unit with the d query parameter and authenticate
// with the unit secret, carried either as the final path segment or
// in the X-Chute-Token header. Both comparisons are constant-time,
// and an unauthenticated request gets the same 404 as an unknown
// unit, so probing cannot enumerate configured units.
//
// Server wraps the handler with listener lifecycle: Ready() closes
// once the socket is bound, Serve(ctx) blocks until the context is
// cancelled and in-flight captures drain.
package ingest
