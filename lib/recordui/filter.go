// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// FilterModel implements fzf-style fuzzy matching across the record
// fields a human navigates by: unit, content type, and digest. The
// filter narrows the loaded spool client-side; clearing it restores
// the full list.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// FilterResult pairs an entry with its match score and the matched
// rune positions in the fields the list actually displays. Digest
// matches contribute to the score but carry no positions: the list
// truncates digests, so highlighting them would point at characters
// that are not on screen.
type FilterResult struct {
	Entry         Entry
	Score         int
	UnitPositions []int
	TypePositions []int
}

// ApplyFuzzy matches the filter against each entry's unit, content
// type, and digest, keeping entries where any field matches. Results
// are ordered best score first; equal scores keep file order. An
// empty filter returns every entry with a zero score.
func (filter *FilterModel) ApplyFuzzy(entries []Entry) []FilterResult {
	if filter.Input == "" {
		results := make([]FilterResult, len(entries))
		for index, entry := range entries {
			results[index] = FilterResult{Entry: entry}
		}
		return results
	}

	pattern := []rune(filter.Input)
	slab := newSlab()

	var results []FilterResult
	for _, entry := range entries {
		unitMatch := fuzzyMatch(entry.Record.Unit, pattern, slab)
		typeMatch := fuzzyMatch(entry.Record.ContentType, pattern, slab)

		best := unitMatch.Score
		if typeMatch.Score > best {
			best = typeMatch.Score
		}
		if !entry.Record.Digest.IsZero() {
			digestMatch := fuzzyMatch(entry.Record.Digest.String(), pattern, slab)
			if digestMatch.Score > best {
				best = digestMatch.Score
			}
		}

		if best <= 0 {
			continue
		}

		results = append(results, FilterResult{
			Entry:         entry,
			Score:         best,
			UnitPositions: unitMatch.Positions,
			TypePositions: typeMatch.Positions,
		})
	}

	sort.SliceStable(results, func(first, second int) bool {
		return results[first].Score > results[second].Score
	})
	return results
}

// HandleRune processes a character typed while the filter is active.
// Returns true if the input changed.
func (filter *FilterModel) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text. When
// inactive with no text, returns empty string (hidden).
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	// Inactive but has text — show the filter as a subtle indicator.
	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}
