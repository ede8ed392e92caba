// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package spool

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chuteworks/chute/lib/codec"
	"github.com/chuteworks/chute/lib/schema/record"
)

var captureTime = time.Date(2026, 2, 14, 9, 30, 0, 123456789, time.UTC)

// makeRecord builds a small plain-text record for test use.
func makeRecord(t *testing.T, payload string) record.Record {
	t.Helper()
	return record.New(captureTime, "sensor-a", "text/plain", []byte(payload))
}

// scanAll reads every record from a spool file and fails the test on
// a scan error.
func scanAll(t *testing.T, path string) []record.Record {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open spool: %v", err)
	}
	defer file.Close()

	var records []record.Record
	scanner := NewScanner(file)
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan spool: %v", err)
	}
	return records
}

func TestAppenderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")
	appender, err := NewAppender(path, AppendOptions{Fsync: true})
	if err != nil {
		t.Fatalf("new appender: %v", err)
	}

	payloads := []string{"first", "second", "third"}
	var total int
	for _, payload := range payloads {
		size, err := appender.Append(makeRecord(t, payload))
		if err != nil {
			t.Fatalf("append %q: %v", payload, err)
		}
		if size <= 0 {
			t.Fatalf("append %q returned size %d", payload, size)
		}
		total += size
	}
	if err := appender.Close(); err != nil {
		t.Fatalf("close appender: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat spool: %v", err)
	}
	if info.Size() != int64(total) {
		t.Errorf("spool is %d bytes, appends reported %d", info.Size(), total)
	}

	records := scanAll(t, path)
	if len(records) != len(payloads) {
		t.Fatalf("scanned %d records, want %d", len(records), len(payloads))
	}
	for i, rec := range records {
		payload, err := rec.Payload()
		if err != nil {
			t.Fatalf("record %d payload: %v", i, err)
		}
		if string(payload) != payloads[i] {
			t.Errorf("record %d payload = %q, want %q", i, payload, payloads[i])
		}
		if err := rec.Verify(); err != nil {
			t.Errorf("record %d: %v", i, err)
		}
	}
}

func TestAppenderResumesExistingSpool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")

	for _, payload := range []string{"before restart", "after restart"} {
		appender, err := NewAppender(path, AppendOptions{})
		if err != nil {
			t.Fatalf("new appender: %v", err)
		}
		if _, err := appender.Append(makeRecord(t, payload)); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := appender.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	records := scanAll(t, path)
	if len(records) != 2 {
		t.Fatalf("scanned %d records after reopen, want 2", len(records))
	}
}

func TestAppenderCompressesLargePayloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")
	appender, err := NewAppender(path, AppendOptions{})
	if err != nil {
		t.Fatalf("new appender: %v", err)
	}
	defer appender.Close()

	payload := bytes.Repeat([]byte("line of telemetry text\n"), 400)
	rec := record.New(captureTime, "sensor-a", "text/plain", payload)
	size, err := appender.Append(rec)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if size >= len(payload) {
		t.Errorf("encoded size %d not smaller than payload %d", size, len(payload))
	}
	appender.Close()

	records := scanAll(t, path)
	if len(records) != 1 {
		t.Fatalf("scanned %d records, want 1", len(records))
	}
	stored := records[0]
	if stored.Compression != record.CompressionZstd {
		t.Errorf("Compression = %q, want zstd", stored.Compression)
	}
	roundTripped, err := stored.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !bytes.Equal(roundTripped, payload) {
		t.Error("decompressed payload differs from original")
	}
	if err := stored.Verify(); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func TestAppenderSkipsCompressionBelowThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")
	appender, err := NewAppender(path, AppendOptions{})
	if err != nil {
		t.Fatalf("new appender: %v", err)
	}
	defer appender.Close()

	if _, err := appender.Append(makeRecord(t, "tiny")); err != nil {
		t.Fatalf("append: %v", err)
	}
	appender.Close()

	records := scanAll(t, path)
	if records[0].Compression != record.CompressionNone {
		t.Errorf("small payload compressed with %q", records[0].Compression)
	}
}

func TestAppenderDisableCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")
	appender, err := NewAppender(path, AppendOptions{DisableCompression: true})
	if err != nil {
		t.Fatalf("new appender: %v", err)
	}
	defer appender.Close()

	payload := bytes.Repeat([]byte("line of telemetry text\n"), 400)
	if _, err := appender.Append(record.New(captureTime, "sensor-a", "text/plain", payload)); err != nil {
		t.Fatalf("append: %v", err)
	}
	appender.Close()

	records := scanAll(t, path)
	if records[0].Compression != record.CompressionNone {
		t.Errorf("compression disabled but record carries %q", records[0].Compression)
	}
}

func TestAppenderLockExcludesSecondOpener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")
	first, err := NewAppender(path, AppendOptions{})
	if err != nil {
		t.Fatalf("first appender: %v", err)
	}
	defer first.Close()

	if _, err := NewAppender(path, AppendOptions{}); err == nil {
		t.Fatal("second appender acquired a locked spool")
	} else if !strings.Contains(err.Error(), "locked") {
		t.Errorf("second appender error %q does not mention the lock", err)
	}

	// The lock dies with the first appender.
	first.Close()
	second, err := NewAppender(path, AppendOptions{})
	if err != nil {
		t.Fatalf("appender after close: %v", err)
	}
	second.Close()
}

func TestAppenderAppendAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.cbor")
	appender, err := NewAppender(path, AppendOptions{})
	if err != nil {
		t.Fatalf("new appender: %v", err)
	}
	appender.Close()

	if _, err := appender.Append(makeRecord(t, "late")); err == nil {
		t.Fatal("append to closed spool succeeded")
	}
}

func TestAppenderCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "by-unit", "sensor-a", "unit.cbor")
	appender, err := NewAppender(path, AppendOptions{})
	if err != nil {
		t.Fatalf("new appender: %v", err)
	}
	appender.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("spool file missing: %v", err)
	}
}

func TestWriteRecordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "by-time", "20260214_093000.123456789.cbor")
	rec := makeRecord(t, "one-shot")

	size, err := WriteRecordFile(path, rec, AppendOptions{Fsync: true})
	if err != nil {
		t.Fatalf("write record file: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(raw) != size {
		t.Errorf("file is %d bytes, write reported %d", len(raw), size)
	}

	var decoded record.Record
	if err := codec.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode record file: %v", err)
	}
	if err := decoded.Verify(); err != nil {
		t.Errorf("verify: %v", err)
	}
	if decoded.Unit != "sensor-a" {
		t.Errorf("Unit = %q", decoded.Unit)
	}
}
