// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chuteworks/chute/lib/codec"
)

func TestDiagCBOR(t *testing.T) {
	tests := []struct {
		name  string
		input any
		// Substrings that must appear in the diagnostic output.
		wantContains []string
	}{
		{
			name:         "string value",
			input:        map[string]any{"unit": "cam"},
			wantContains: []string{`"unit"`, `"cam"`},
		},
		{
			name:         "integer value",
			input:        map[string]any{"count": int64(42)},
			wantContains: []string{`"count"`, "42"},
		},
		{
			name:         "byte string shown as hex",
			input:        map[string]any{"d": []byte{0xAB, 0xCD}},
			wantContains: []string{"h'abcd'"},
		},
		{
			name:         "boolean and null",
			input:        map[string]any{"flag": true, "empty": nil},
			wantContains: []string{"true", "null"},
		},
		{
			name:         "array",
			input:        []any{int64(1), int64(2), int64(3)},
			wantContains: []string{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cborData, err := codec.Marshal(tt.input)
			if err != nil {
				t.Fatalf("marshal CBOR: %v", err)
			}

			var output bytes.Buffer
			if err := diagCBOR(cborData, &output); err != nil {
				t.Fatalf("diagCBOR: %v", err)
			}

			result := output.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(result, want) {
					t.Errorf("output %q does not contain %q", result, want)
				}
			}
		})
	}
}

func TestDiagCBOR_IntegerKeys(t *testing.T) {
	// Number-packed encodings keep integer keys; diagnostic notation
	// should show them as integers, not strings.
	type packed struct {
		Time int64  `cbor:"1,keyasint"`
		Name string `cbor:"2,keyasint"`
	}

	input := packed{Time: 1739525400, Name: "cam"}
	cborData, err := codec.Marshal(input)
	if err != nil {
		t.Fatalf("marshal CBOR: %v", err)
	}

	var output bytes.Buffer
	if err := diagCBOR(cborData, &output); err != nil {
		t.Fatalf("diagCBOR: %v", err)
	}

	result := output.String()
	// Diagnostic notation shows integer keys like {1: 1739525400, 2: "cam"},
	// not string keys like {"1": 1739525400}.
	if !strings.Contains(result, "1:") && !strings.Contains(result, "1 :") {
		t.Errorf("expected integer key 1 in diagnostic notation, got: %q", result)
	}
	if !strings.Contains(result, `"cam"`) {
		t.Errorf("expected value \"cam\" in diagnostic notation, got: %q", result)
	}
}

func TestDiagCBOR_Sequence(t *testing.T) {
	// Two CBOR items concatenated should produce two lines.
	item1, err := codec.Marshal("hello")
	if err != nil {
		t.Fatalf("marshal item 1: %v", err)
	}
	item2, err := codec.Marshal(int64(42))
	if err != nil {
		t.Fatalf("marshal item 2: %v", err)
	}

	var sequence []byte
	sequence = append(sequence, item1...)
	sequence = append(sequence, item2...)

	var output bytes.Buffer
	if err := diagCBOR(sequence, &output); err != nil {
		t.Fatalf("diagCBOR: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), output.String())
	}
	if !strings.Contains(lines[0], `"hello"`) {
		t.Errorf("line 0 = %q, want to contain '\"hello\"'", lines[0])
	}
	if !strings.Contains(lines[1], "42") {
		t.Errorf("line 1 = %q, want to contain \"42\"", lines[1])
	}
}

func TestDiagCBOR_EmptyInput(t *testing.T) {
	var output bytes.Buffer
	err := diagCBOR(nil, &output)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !strings.Contains(err.Error(), "empty input") {
		t.Errorf("error = %q, want to contain \"empty input\"", err.Error())
	}
}
