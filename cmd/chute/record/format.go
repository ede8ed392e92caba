// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	recordschema "github.com/chuteworks/chute/lib/schema/record"
)

// openSpoolInput returns the reader for an optional trailing spool
// path argument, following jq convention: with a path argument the
// file is opened, otherwise stdin is used. The caller closes the
// returned reader.
func openSpoolInput(args []string) (io.ReadCloser, error) {
	switch len(args) {
	case 0:
		return os.Stdin, nil
	case 1:
		file, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("opening spool: %w", err)
		}
		return file, nil
	default:
		return nil, fmt.Errorf("expected at most one spool path, got %d arguments", len(args))
	}
}

// formatTimestamp formats Unix nanoseconds as a local-time string
// with second precision.
func formatTimestamp(nanoseconds int64) string {
	if nanoseconds == 0 {
		return "-"
	}
	return time.Unix(0, nanoseconds).Local().Format("2006-01-02T15:04:05")
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// shortDigest returns an abbreviated digest for table display: the
// b3: prefix plus the first 12 hex characters. Enough to eyeball and
// to grep spool dumps with; the full form comes from --json output.
func shortDigest(digest recordschema.Digest) string {
	full := digest.String()
	if len(full) <= 15 {
		return full
	}
	return full[:15]
}

// parseTimeFlag parses a time specification from a CLI flag value.
// Accepts three formats:
//   - Go duration strings: "1h", "30m", "2h30m" — resolved relative to now
//   - Day suffixes: "7d", "30d" — shorthand for multiples of 24h
//   - Timestamps: RFC3339 ("2026-03-01T12:00:00Z") or date-only ("2026-03-01")
//
// Returns Unix nanoseconds. Duration-based values are subtracted from
// the current time (i.e., "1h" means "1 hour ago").
func parseTimeFlag(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	// Try day suffix first (not handled by time.ParseDuration).
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err == nil && days > 0 {
			return time.Now().Add(-time.Duration(days) * 24 * time.Hour).UnixNano(), nil
		}
	}

	// Try Go duration.
	duration, err := time.ParseDuration(value)
	if err == nil {
		return time.Now().Add(-duration).UnixNano(), nil
	}

	// Try RFC3339 timestamp.
	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp.UnixNano(), nil
	}

	// Try date-only (YYYY-MM-DD), interpreted as midnight UTC.
	timestamp, err = time.Parse("2006-01-02", value)
	if err == nil {
		return timestamp.UnixNano(), nil
	}

	return 0, fmt.Errorf("invalid time %q: expected duration (1h, 7d), RFC3339 timestamp, or date (2006-01-02)", value)
}
