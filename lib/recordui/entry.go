// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"fmt"
	"os"

	"github.com/chuteworks/chute/lib/schema/record"
	"github.com/chuteworks/chute/lib/spool"
)

// Entry is one record row in the viewer: the decoded record plus its
// position in the spool file. Offset is unique within a spool and
// serves as the stable row identity across filtering.
type Entry struct {
	Record record.Record
	Offset int64
	Size   int64
}

// LoadSpool reads every record from a spool file into memory. The
// viewer keeps full records (payloads included) so the detail pane
// can render without going back to disk.
func LoadSpool(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spool: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := spool.NewScanner(file)
	for scanner.Scan() {
		entries = append(entries, Entry{
			Record: scanner.Record(),
			Offset: scanner.Offset(),
			Size:   scanner.Size(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}
