// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chuteworks/chute/lib/codec"
	recordschema "github.com/chuteworks/chute/lib/schema/record"
)

var baseTime = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

// spoolBytes encodes records as a spool: a CBOR sequence with one
// item per record.
func spoolBytes(t *testing.T, records ...recordschema.Record) []byte {
	t.Helper()
	var buffer bytes.Buffer
	encoder := codec.NewEncoder(&buffer)
	for i, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			t.Fatalf("encode record %d: %v", i, err)
		}
	}
	return buffer.Bytes()
}

func TestPrintRecords(t *testing.T) {
	textRec := recordschema.New(baseTime, "cam", "application/json", []byte(`{"reading":42}`))
	binaryRec := recordschema.New(baseTime.Add(time.Second), "cam", "application/octet-stream", []byte{0xFF, 0x00, 0x01})
	input := spoolBytes(t, textRec, binaryRec)

	var output bytes.Buffer
	if err := printRecords(bytes.NewReader(input), &output, printParams{}); err != nil {
		t.Fatalf("printRecords: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), output.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first["d"] != `{"reading":42}` {
		t.Errorf(`line 0 d = %v, want {"reading":42}`, first["d"])
	}
	if first["unit"] != "cam" {
		t.Errorf("line 0 unit = %v, want cam", first["unit"])
	}
	if first["Content-Type"] != "application/json" {
		t.Errorf("line 0 Content-Type = %v", first["Content-Type"])
	}
	if first["digest"] != textRec.Digest.String() {
		t.Errorf("line 0 digest = %v, want %s", first["digest"], textRec.Digest)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 1 is not JSON: %v", err)
	}
	if _, present := second["d"]; present {
		t.Error("line 1 has d, want d_b64 for a binary payload")
	}
	if second["d_b64"] != "/wAB" {
		t.Errorf("line 1 d_b64 = %v, want /wAB", second["d_b64"])
	}
}

func TestPrintRecordsCompressedPayload(t *testing.T) {
	payload := []byte(strings.Repeat("sensor reading 42; ", 50))
	rec := recordschema.New(baseTime, "logs", "text/plain", payload)
	compressed, err := recordschema.Compress(payload, recordschema.CompressionZstd)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	rec.Data = compressed
	rec.Compression = recordschema.CompressionZstd

	var output bytes.Buffer
	if err := printRecords(bytes.NewReader(spoolBytes(t, rec)), &output, printParams{}); err != nil {
		t.Fatalf("printRecords: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(output.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if line["d"] != string(payload) {
		t.Error("payload was not decompressed for display")
	}
	if _, present := line["compression"]; present {
		t.Error("compression field leaked into print output")
	}
}

func TestPrintRecordsRaw(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	rec := recordschema.New(baseTime, "cam", "image/png", payload)

	var output bytes.Buffer
	if err := printRecords(bytes.NewReader(spoolBytes(t, rec)), &output, printParams{Raw: true}); err != nil {
		t.Fatalf("printRecords: %v", err)
	}
	if !bytes.Equal(output.Bytes(), payload) {
		t.Errorf("raw output = %x, want %x", output.Bytes(), payload)
	}
}

func TestPrintRecordsPretty(t *testing.T) {
	rec := recordschema.New(baseTime, "cam", "application/json", []byte(`{"a":1}`))

	var output bytes.Buffer
	if err := printRecords(bytes.NewReader(spoolBytes(t, rec)), &output, printParams{Pretty: true}); err != nil {
		t.Fatalf("printRecords: %v", err)
	}
	if !strings.Contains(output.String(), "\n  \"") {
		t.Errorf("pretty output is not indented:\n%s", output.String())
	}
}

func TestPrintRecordsEmptyInput(t *testing.T) {
	var output bytes.Buffer
	if err := printRecords(bytes.NewReader(nil), &output, printParams{}); err != nil {
		t.Fatalf("printRecords on empty spool: %v", err)
	}
	if output.Len() != 0 {
		t.Errorf("empty spool produced output: %q", output.String())
	}
}
