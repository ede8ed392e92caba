// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chuteworks/chute/lib/codec"
	"github.com/chuteworks/chute/lib/jsonl"
)

func TestDumpCBOR(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		options jsonl.Options
		want    string
	}{
		{
			name:  "map with printable byte value",
			input: map[string]any{"name": []byte("Alice")},
			want:  "{\"name\":\"Alice\"}\n",
		},
		{
			name:  "map with binary byte value",
			input: map[string]any{"blob": []byte{0xFF, 0xFE, 0x00}},
			want:  "{\"blob_b64\":\"//4A\"}\n",
		},
		{
			name:    "deep option reaches array elements",
			input:   []any{[]byte("Alice")},
			options: jsonl.Options{Deep: true},
			want:    "[\"Alice\"]\n",
		},
		{
			name:    "indent option pretty-prints",
			input:   map[string]any{"a": int64(1)},
			options: jsonl.Options{Indent: true},
			want:    "{\n  \"a\": 1\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cborData, err := codec.Marshal(tt.input)
			if err != nil {
				t.Fatalf("marshal CBOR: %v", err)
			}

			var output bytes.Buffer
			if err := dumpCBOR(cborData, &output, tt.options); err != nil {
				t.Fatalf("dumpCBOR: %v", err)
			}
			if got := output.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpCBOR_Sequence(t *testing.T) {
	item1, err := codec.Marshal(map[string]any{"index": int64(0)})
	if err != nil {
		t.Fatalf("marshal item 1: %v", err)
	}
	item2, err := codec.Marshal(map[string]any{"index": int64(1)})
	if err != nil {
		t.Fatalf("marshal item 2: %v", err)
	}

	var sequence []byte
	sequence = append(sequence, item1...)
	sequence = append(sequence, item2...)

	var output bytes.Buffer
	if err := dumpCBOR(sequence, &output, jsonl.Options{}); err != nil {
		t.Fatalf("dumpCBOR: %v", err)
	}

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), output.String())
	}
	if lines[0] != "{\"index\":0}" {
		t.Errorf("line 0 = %q, want {\"index\":0}", lines[0])
	}
	if lines[1] != "{\"index\":1}" {
		t.Errorf("line 1 = %q, want {\"index\":1}", lines[1])
	}
}

// Empty input is the no-captures-yet case and must succeed silently:
// scripts pipe fresh spools through dump before anything has posted.
func TestDumpCBOR_EmptyInputSucceeds(t *testing.T) {
	var output bytes.Buffer
	if err := dumpCBOR(nil, &output, jsonl.Options{}); err != nil {
		t.Fatalf("dumpCBOR on empty input: %v", err)
	}
	if output.Len() != 0 {
		t.Errorf("output = %q, want none", output.String())
	}
}

func TestDumpCBOR_MalformedInput(t *testing.T) {
	var output bytes.Buffer
	err := dumpCBOR([]byte{0xFF, 0xFE, 0xFD}, &output, jsonl.Options{})
	if err == nil {
		t.Fatal("expected error for malformed CBOR")
	}
	if !strings.Contains(err.Error(), "decode CBOR") {
		t.Errorf("error = %q, want to contain \"decode CBOR\"", err.Error())
	}
}
