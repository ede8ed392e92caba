// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ReadInput resolves the input bytes for an inspection command. If the
// last element of args names a regular file on disk, that file is the
// input (jq convention: "chute dump capture.spool"); otherwise the
// command reads stdin.
//
// With hexMode, the bytes are hex-encoded CBOR: whitespace is dropped
// and the remaining digits decoded, so pasted "a1 63 6b 65 79" and
// xxd -p output both work.
//
// Returns the input and args with any consumed file path removed; the
// caller decides whether leftover positional arguments are an error.
func ReadInput(args []string, hexMode bool) ([]byte, []string, error) {
	var data []byte
	remainingArgs := args

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err = os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			remainingArgs = args[:length-1]
		}
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}

	return data, remainingArgs, nil
}

// decodeHexInput decodes hex-encoded input to binary, ignoring any
// whitespace mixed into the digits.
func decodeHexInput(data []byte) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(data))

	if compact == "" {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}
