// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package jsonl

import (
	"encoding/base64"
	"fmt"
)

// Normalize rewrites a CBOR-decoded value tree into a JSON-safe tree.
//
// For a mapping, each entry (k, v) is rewritten: a byte-string value
// becomes (k, text) when every byte of v is printable ASCII, and
// (k+"_b64", standard base64 of v) otherwise; any other value recurses.
// Non-string keys are stringified with fmt.Sprint before use, so the
// "_b64" suffix is always well defined.
//
// Anything that is not a mapping — including arrays and bare byte
// strings — is returned unchanged. Normalize never recurses into
// array elements; byte strings below an array keep their raw form and
// are serialized by the printer's []byte fallback. See the package
// documentation for why this asymmetry is preserved.
func Normalize(value any) any {
	return normalize(value, false)
}

// NormalizeDeep applies the byte-string rule uniformly: mapping values
// as in [Normalize], and additionally every array element recursively
// and every bare byte string in place (printable text, or base64 text
// with no key to rename). This is a deliberate widening of the
// original rule, exposed behind the dump command's --deep flag.
func NormalizeDeep(value any) any {
	return normalize(value, true)
}

func normalize(value any, deep bool) any {
	switch tree := value.(type) {
	case map[any]any:
		result := make(map[string]any, len(tree))
		for key, element := range tree {
			normalizeEntry(result, mapKey(key), element, deep)
		}
		return result

	case map[string]any:
		result := make(map[string]any, len(tree))
		for key, element := range tree {
			normalizeEntry(result, key, element, deep)
		}
		return result

	case []any:
		if !deep {
			return tree
		}
		result := make([]any, len(tree))
		for index, element := range tree {
			result[index] = normalize(element, deep)
		}
		return result

	case []byte:
		if !deep {
			return tree
		}
		if printableASCII(tree) {
			return string(tree)
		}
		return base64.StdEncoding.EncodeToString(tree)

	default:
		return value
	}
}

// normalizeEntry writes one rewritten mapping entry into result. Byte
// string values get the printable-or-base64 treatment; everything else
// recurses. The base64 path renames the key, so a mapping that already
// holds a literal key+"_b64" entry collides with it (last write wins,
// iteration order unspecified).
func normalizeEntry(result map[string]any, key string, element any, deep bool) {
	data, isByteString := element.([]byte)
	if !isByteString {
		result[key] = normalize(element, deep)
		return
	}
	if printableASCII(data) {
		result[key] = string(data)
		return
	}
	result[key+"_b64"] = base64.StdEncoding.EncodeToString(data)
}

// printableASCII reports whether every byte of data lies in the
// inclusive range [0x20, 0x7F]. The byte-level check is equivalent to
// "strict UTF-8 decode succeeds and every code point is in
// [0x20, 0x7F]": any byte at or above 0x80 is either invalid UTF-8 on
// its own or part of a multi-byte rune whose code point exceeds 0x7F.
// The upper bound includes 0x7F (DEL) on purpose; the boundary is part
// of the tool's observed behavior and is kept as is.
func printableASCII(data []byte) bool {
	for _, b := range data {
		if b < 0x20 || b > 0x7F {
			return false
		}
	}
	return true
}

// mapKey converts a decoded CBOR map key to the string used in JSON
// output. Text keys pass through; integer and other scalar keys get
// their fmt.Sprint rendering ("1", "-7", "true").
func mapKey(key any) string {
	if text, ok := key.(string); ok {
		return text
	}
	return fmt.Sprint(key)
}

// jsonSafe converts residual map[any]any nodes (which encoding/json
// refuses to marshal) into map[string]any with stringified keys,
// recursively through maps and arrays. Unlike [Normalize] it applies
// no byte-string policy: []byte values are left for the JSON encoder,
// which emits them as plain base64 in place. Normalize leaves arrays
// untouched, so this pass is what makes trees with maps nested inside
// arrays printable at all.
func jsonSafe(value any) any {
	switch tree := value.(type) {
	case map[any]any:
		result := make(map[string]any, len(tree))
		for key, element := range tree {
			result[mapKey(key)] = jsonSafe(element)
		}
		return result

	case map[string]any:
		for key, element := range tree {
			tree[key] = jsonSafe(element)
		}
		return tree

	case []any:
		for index, element := range tree {
			tree[index] = jsonSafe(element)
		}
		return tree

	default:
		return value
	}
}
