// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package recordui implements the interactive terminal viewer for
// record spools. It is a two-pane bubbletea application: a record
// list on the left (time, unit, content type, size) and a scrollable
// detail pane on the right showing the selected record's metadata and
// payload.
//
// Payload rendering adapts to content: JSON is pretty-printed with
// syntax highlighting, other textual payloads render as-is, and
// binary payloads get a hex dump. The / key starts an fzf-style fuzzy
// filter over unit, content type, and digest; matching characters are
// highlighted in the list.
//
// The chute-view binary wires this package to a spool file on disk.
package recordui
