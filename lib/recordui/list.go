// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Column widths for the list table. The content type column fills
// remaining space; all others are fixed.
const (
	columnWidthTime = 21 // "2006-01-02T15:04:05" + 2 spaces
	columnWidthUnit = 14 // unit name, left-aligned with padding
	columnWidthSize = 9  // human size, right-aligned ("1023.9 KB")

	minTypeWidth = 8
)

// ListRenderer handles the table-style rendering of record entries
// within a given width.
type ListRenderer struct {
	theme Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders a single record entry as a formatted table row.
// The selected flag controls whether the row gets highlight styling.
// unitPositions and typePositions contain rune indices in the unit
// and content type fields that matched the current fuzzy filter;
// those characters are highlighted.
//
// Row layout: time + unit + content type + size, for example:
//
//	2026-02-14T10:30:00  cam           application/json      1.2 KB
func (renderer ListRenderer) RenderRow(entry Entry, selected bool, unitPositions, typePositions []int) string {
	typeWidth := renderer.width - 1 - columnWidthTime - columnWidthUnit - columnWidthSize
	if typeWidth < minTypeWidth {
		typeWidth = minTypeWidth
	}

	timeText := padField(formatTime(entry.Record.Time), columnWidthTime)
	unitText := padField(truncateString(entry.Record.Unit, columnWidthUnit-1), columnWidthUnit)

	contentType := entry.Record.ContentType
	if contentType == "" {
		contentType = "-"
	}
	typeText := padField(truncateString(contentType, typeWidth-1), typeWidth)

	sizeText := formatSize(entry.Size)
	if padding := columnWidthSize - lipgloss.Width(sizeText); padding > 0 {
		sizeText = strings.Repeat(" ", padding) + sizeText
	}

	if selected {
		return renderer.renderSelectedRow(timeText, unitText, typeText, sizeText, unitPositions, typePositions)
	}
	return renderer.renderNormalRow(entry, timeText, unitText, typeText, sizeText, unitPositions, typePositions)
}

// renderNormalRow renders a row with per-column foreground colors on
// the default terminal background.
func (renderer ListRenderer) renderNormalRow(entry Entry, timeText, unitText, typeText, sizeText string, unitPositions, typePositions []int) string {
	timeStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	unitStyle := lipgloss.NewStyle().Foreground(renderer.theme.UnitForeground)
	typeStyle := lipgloss.NewStyle().Foreground(renderer.theme.ContentTypeColor(entry.Record.ContentType))
	sizeStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	highlightStyle := lipgloss.NewStyle().
		Foreground(renderer.theme.NormalText).
		Background(renderer.theme.SearchHighlightBackground)

	row := " " +
		timeStyle.Render(timeText) +
		highlightField(unitText, unitPositions, unitStyle, highlightStyle) +
		highlightField(typeText, typePositions, typeStyle, highlightStyle) +
		sizeStyle.Render(sizeText)

	return lipgloss.NewStyle().Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// renderSelectedRow renders the selected row with a highlight
// background. All text uses the selected foreground color; filter
// matches use bold+underline so they stay visible against the
// selection background.
func (renderer ListRenderer) renderSelectedRow(timeText, unitText, typeText, sizeText string, unitPositions, typePositions []int) string {
	baseStyle := lipgloss.NewStyle().
		Background(renderer.theme.SelectedBackground).
		Foreground(renderer.theme.SelectedForeground)
	highlightStyle := baseStyle.Bold(true).Underline(true)

	row := " " +
		baseStyle.Render(timeText) +
		highlightField(unitText, unitPositions, baseStyle, highlightStyle) +
		highlightField(typeText, typePositions, baseStyle, highlightStyle) +
		baseStyle.Render(sizeText)

	return baseStyle.Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// highlightField renders a padded column value with character-level
// highlighting at the given rune positions. Positions index into the
// original field text; padding (and anything truncated away) renders
// in the base style. Consecutive runs of same-style characters are
// batched into a single Render call to keep ANSI output compact.
func highlightField(text string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(text)
	var result strings.Builder
	runStart := 0
	isHighlighted := len(runes) > 0 && positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}

	return result.String()
}

// truncateString truncates a string to maxWidth visual characters.
// Handles multi-byte characters correctly via lipgloss width
// measurement. Truncated values get a trailing ellipsis.
func truncateString(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate) <= maxWidth-1 {
			return candidate + "…"
		}
	}
	return ""
}

// padField pads text with trailing spaces to the given visual width.
func padField(text string, width int) string {
	if padding := width - lipgloss.Width(text); padding > 0 {
		return text + strings.Repeat(" ", padding)
	}
	return text
}

// formatTime renders a record timestamp (UnixNano) in local time.
// Zero renders as "-" (records written without a timestamp).
func formatTime(unixNano int64) string {
	if unixNano == 0 {
		return "-"
	}
	return time.Unix(0, unixNano).Local().Format("2006-01-02T15:04:05")
}

// formatSize renders a byte count in human-readable form.
func formatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
