// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"fmt"
	"strings"
)

// hexDumpLimit caps how much of a binary payload the detail pane
// renders. Dumping a multi-megabyte payload would produce hundreds of
// thousands of viewport lines for no inspection value; the first 4
// KiB identifies the format and shows the interesting header bytes.
const hexDumpLimit = 4 * 1024

// hexDump renders data in the classic 16-bytes-per-row layout: offset,
// hex bytes in two groups of eight, and an ASCII gutter. Payloads
// larger than hexDumpLimit are truncated with a trailing note.
//
//	00000000  7b 22 72 65 61 64 69 6e  67 22 3a 20 34 32 7d 0a  |{"reading": 42}.|
func hexDump(data []byte) string {
	limit := len(data)
	truncated := false
	if limit > hexDumpLimit {
		limit = hexDumpLimit
		truncated = true
	}

	var builder strings.Builder
	for offset := 0; offset < limit; offset += 16 {
		end := offset + 16
		if end > limit {
			end = limit
		}
		row := data[offset:end]

		fmt.Fprintf(&builder, "%08x  ", offset)
		for column := 0; column < 16; column++ {
			if column == 8 {
				builder.WriteByte(' ')
			}
			if column < len(row) {
				fmt.Fprintf(&builder, "%02x ", row[column])
			} else {
				builder.WriteString("   ")
			}
		}

		builder.WriteString(" |")
		for _, value := range row {
			if value >= 0x20 && value < 0x7f {
				builder.WriteByte(value)
			} else {
				builder.WriteByte('.')
			}
		}
		builder.WriteString("|\n")
	}

	if truncated {
		fmt.Fprintf(&builder, "… %d more bytes\n", len(data)-hexDumpLimit)
	}
	return strings.TrimRight(builder.String(), "\n")
}
