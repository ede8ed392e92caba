// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"time"

	"github.com/chuteworks/chute/lib/schema/record"
)

// makeEntry builds a fixture entry with a digest computed from the
// payload, stamped with a time derived from the offset so fixtures
// are deterministic.
func makeEntry(offset int64, unit, contentType string, payload []byte) Entry {
	return Entry{
		Record: record.New(time.Unix(0, offset), unit, contentType, payload),
		Offset: offset,
		Size:   int64(len(payload)),
	}
}

// testEntries returns the fixture spool the ApplyFuzzy tests run
// against: two camera units, a JSON sensor unit, and a plain-text log
// unit. Only cam-front's unit carries c-a-m-f in order; no content
// type does, and digests are hex so they cannot contain an m.
func testEntries() []Entry {
	return []Entry{
		makeEntry(0, "cam-front", "image/jpeg", []byte{0x01, 0x02}),
		makeEntry(100, "cam-rear", "image/jpeg", []byte{0x03, 0x04}),
		makeEntry(200, "sensor-readings", "application/json", []byte(`{"ok":true}`)),
		makeEntry(300, "log", "text/plain", []byte("hello")),
	}
}
