// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"os/exec"
	"testing"

	"github.com/chuteworks/chute/lib/codec"
	"github.com/chuteworks/chute/lib/jsonl"
)

func TestFilter(t *testing.T) {
	if _, err := exec.LookPath("jq"); err != nil {
		t.Skip("jq not in PATH, skipping filter tests")
	}

	input := map[string]any{
		"unit":  "cam",
		"path":  "spool/cam/20260214_103000.cam.spool",
		"count": int64(42),
	}
	cborData, err := codec.Marshal(input)
	if err != nil {
		t.Fatalf("marshal CBOR: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string // expected stdout (trimmed)
	}{
		{
			name: "extract string field",
			args: []string{".unit"},
			want: `"cam"`,
		},
		{
			name: "extract number field",
			args: []string{".count"},
			want: "42",
		},
		{
			name: "raw output",
			args: []string{"-r", ".path"},
			want: "spool/cam/20260214_103000.cam.spool",
		},
		{
			name: "compact output",
			args: []string{"-c", "{unit, count}"},
			want: `{"unit":"cam","count":42}`,
		},
		{
			name: "pipe expression",
			args: []string{".unit | length"},
			want: "3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Filter writes through jq to os.Stdout, which makes it
			// hard to capture in tests. Instead, test the underlying
			// pieces: the JSON stream jq receives is produced by
			// dumpCBOR (covered by the dump tests), and jq itself is
			// invoked here directly on that stream.
			var jsonOutput bytes.Buffer
			if err := dumpCBOR(cborData, &jsonOutput, jsonl.Options{}); err != nil {
				t.Fatalf("dump for filter: %v", err)
			}

			cmd := exec.Command("jq", tt.args...)
			cmd.Stdin = bytes.NewReader(jsonOutput.Bytes())
			output, err := cmd.Output()
			if err != nil {
				t.Fatalf("jq %v: %v", tt.args, err)
			}

			got := bytes.TrimSpace(output)
			if string(got) != tt.want {
				t.Errorf("jq %v = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestFilter_Sequence(t *testing.T) {
	if _, err := exec.LookPath("jq"); err != nil {
		t.Skip("jq not in PATH, skipping filter tests")
	}

	// jq consumes a stream of JSON values, so a CBOR sequence filters
	// item by item without any slurping.
	var sequence []byte
	for _, unit := range []string{"cam", "logs"} {
		item, err := codec.Marshal(map[string]any{"unit": unit})
		if err != nil {
			t.Fatalf("marshal item: %v", err)
		}
		sequence = append(sequence, item...)
	}

	var jsonOutput bytes.Buffer
	if err := dumpCBOR(sequence, &jsonOutput, jsonl.Options{}); err != nil {
		t.Fatalf("dump for filter: %v", err)
	}

	cmd := exec.Command("jq", "-r", ".unit")
	cmd.Stdin = bytes.NewReader(jsonOutput.Bytes())
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("jq: %v", err)
	}

	want := "cam\nlogs"
	got := string(bytes.TrimSpace(output))
	if got != want {
		t.Errorf("jq -r .unit = %q, want %q", got, want)
	}
}
