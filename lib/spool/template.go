// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package spool

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayout is the %T expansion. Fractional seconds keep
// per-record file names unique; UTC keeps them sortable across
// machines in different zones.
const timestampLayout = "20060102_150405.999999999"

// ExpandTemplate substitutes %T with the formatted time and %% with a
// literal percent. Call ValidateTemplate first; unknown directives
// pass through here unchanged.
func ExpandTemplate(template string, when time.Time) string {
	// Splitting on %% first makes "%%T" come out as the literal
	// "%T" rather than an expanded timestamp.
	parts := strings.Split(template, "%%")
	timestamp := when.UTC().Format(timestampLayout)
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, "%T", timestamp)
	}
	return strings.Join(parts, "%")
}

// ValidateTemplate checks that every % in the template starts a known
// directive (%T or %%). A bare trailing % or an unknown directive is
// a configuration error, caught at load time rather than deep in the
// capture path.
func ValidateTemplate(template string) error {
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if i+1 >= len(template) {
			return fmt.Errorf("path template %q: trailing %%", template)
		}
		switch template[i+1] {
		case '%', 'T':
			i++
		default:
			return fmt.Errorf("path template %q: unknown directive %%%c", template, template[i+1])
		}
	}
	return nil
}

// ContainsTimeDirective reports whether the template has a %T
// directive, meaning it names one file per record rather than a
// single append spool. Escaped percents do not count: "%%T" is the
// literal "%T".
func ContainsTimeDirective(template string) bool {
	for i := 0; i < len(template)-1; i++ {
		if template[i] != '%' {
			continue
		}
		if template[i+1] == 'T' {
			return true
		}
		i++
	}
	return false
}
