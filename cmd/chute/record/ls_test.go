// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"testing"
	"time"

	recordschema "github.com/chuteworks/chute/lib/schema/record"
)

func TestListRecords(t *testing.T) {
	first := recordschema.New(baseTime, "cam", "image/png", []byte{0x89, 0x50})
	second := recordschema.New(baseTime.Add(time.Second), "logs", "text/plain", []byte("line"))

	entries, err := listRecords(bytes.NewReader(spoolBytes(t, first, second)))
	if err != nil {
		t.Fatalf("listRecords: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].Time != first.Time {
		t.Errorf("entry 0 time = %d, want %d", entries[0].Time, first.Time)
	}
	if entries[0].Unit != "cam" || entries[0].ContentType != "image/png" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[0].Digest != first.Digest.String() {
		t.Errorf("entry 0 digest = %q, want %s", entries[0].Digest, first.Digest)
	}
	if entries[0].Size <= 0 {
		t.Errorf("entry 0 size = %d, want > 0", entries[0].Size)
	}

	// Records are laid out back to back, so the second entry starts
	// where the first one ends.
	if entries[0].Offset != 0 {
		t.Errorf("entry 0 offset = %d, want 0", entries[0].Offset)
	}
	if entries[1].Offset != entries[0].Size {
		t.Errorf("entry 1 offset = %d, want %d", entries[1].Offset, entries[0].Size)
	}
}

func TestListRecordsEmpty(t *testing.T) {
	entries, err := listRecords(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("listRecords on empty spool: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
