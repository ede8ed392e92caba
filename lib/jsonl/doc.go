// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonl converts CBOR value trees into JSON Lines output.
//
// The package implements the transform behind "chute dump": read one
// CBOR item, rewrite it into a JSON-safe tree, print it as one line,
// repeat until the input is exhausted. The interesting part is the
// byte-string rule in [Normalize]: a byte string appearing as a
// mapping value becomes either its text (when every byte is printable
// ASCII) under the original key, or standard base64 under the key with
// "_b64" appended. Byte strings anywhere else — bare at top level or
// nested inside arrays — are deliberately left alone and fall through
// to the JSON encoder's own []byte handling (plain base64 in place,
// no key rename). That asymmetry is the tool's contract: it mirrors
// how capture payloads were dumped historically, and "fixing" it would
// silently change the shape of existing pipelines. The uniform
// treatment is available explicitly via [Options].Deep.
//
// Mapping keys are not required to be text: CBOR permits integer keys,
// and JSON does not. Non-string keys are stringified with fmt.Sprint,
// so {1: h'ff'} dumps as {"1_b64":"/w=="}.
//
// When a mapping contains both a non-printable byte string under "k"
// and a literal "k_b64" entry, the two collide on the output key
// "k_b64" and the survivor is unspecified (map iteration order).
package jsonl
