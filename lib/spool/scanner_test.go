// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package spool

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chuteworks/chute/lib/codec"
	"github.com/chuteworks/chute/lib/schema/record"
)

// encodeSpool builds an in-memory spool from records.
func encodeSpool(t *testing.T, records ...record.Record) []byte {
	t.Helper()
	var spool bytes.Buffer
	for _, rec := range records {
		encoded, err := codec.Marshal(rec)
		if err != nil {
			t.Fatalf("encode record: %v", err)
		}
		spool.Write(encoded)
	}
	return spool.Bytes()
}

func TestScannerEmptySpool(t *testing.T) {
	scanner := NewScanner(bytes.NewReader(nil))
	if scanner.Scan() {
		t.Fatal("Scan returned true on empty spool")
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("empty spool is an error: %v", err)
	}
}

func TestScannerOffsetsAndSizes(t *testing.T) {
	records := []record.Record{
		makeRecord(t, "first"),
		makeRecord(t, "second record, a bit longer"),
		makeRecord(t, "third"),
	}
	spool := encodeSpool(t, records...)

	scanner := NewScanner(bytes.NewReader(spool))
	var offsets, sizes []int64
	for scanner.Scan() {
		offsets = append(offsets, scanner.Offset())
		sizes = append(sizes, scanner.Size())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(offsets) != len(records) {
		t.Fatalf("scanned %d records, want %d", len(offsets), len(records))
	}

	// Offsets start at zero and each record begins where the
	// previous one ended.
	var expected int64
	for i := range offsets {
		if offsets[i] != expected {
			t.Errorf("record %d offset = %d, want %d", i, offsets[i], expected)
		}
		if sizes[i] <= 0 {
			t.Errorf("record %d size = %d", i, sizes[i])
		}
		expected += sizes[i]
	}
	if expected != int64(len(spool)) {
		t.Errorf("sizes sum to %d, spool is %d bytes", expected, len(spool))
	}
}

func TestScannerOffsetsSeekBack(t *testing.T) {
	records := []record.Record{
		makeRecord(t, "alpha"),
		makeRecord(t, "beta"),
		makeRecord(t, "gamma"),
	}
	spool := encodeSpool(t, records...)

	scanner := NewScanner(bytes.NewReader(spool))
	for i := 0; scanner.Scan(); i++ {
		reread, err := ReadRecordAt(bytes.NewReader(spool), scanner.Offset())
		if err != nil {
			t.Fatalf("read record %d at offset %d: %v", i, scanner.Offset(), err)
		}
		if reread.Digest != scanner.Record().Digest {
			t.Errorf("record %d reread by offset differs", i)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
}

func TestScannerTruncatedTail(t *testing.T) {
	spool := encodeSpool(t, makeRecord(t, "intact"), makeRecord(t, "clipped"))
	truncated := spool[:len(spool)-3]

	scanner := NewScanner(bytes.NewReader(truncated))
	if !scanner.Scan() {
		t.Fatalf("first record did not scan: %v", scanner.Err())
	}
	if scanner.Scan() {
		t.Fatal("truncated record scanned")
	}
	err := scanner.Err()
	if err == nil {
		t.Fatal("truncated spool ended with nil Err")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("error %q does not name the failing record", err)
	}

	// The scanner stays stopped.
	if scanner.Scan() {
		t.Fatal("Scan returned true after an error")
	}
}

func TestScannerGarbageSpool(t *testing.T) {
	scanner := NewScanner(bytes.NewReader([]byte{0xff, 0x00, 0x01}))
	if scanner.Scan() {
		t.Fatal("garbage scanned as a record")
	}
	if scanner.Err() == nil {
		t.Fatal("garbage spool ended with nil Err")
	}
}

func TestReadRecordAtMisalignedOffset(t *testing.T) {
	spool := encodeSpool(t, makeRecord(t, "aligned"))
	if _, err := ReadRecordAt(bytes.NewReader(spool), 1); err == nil {
		t.Fatal("misaligned offset decoded as a record")
	}
}
