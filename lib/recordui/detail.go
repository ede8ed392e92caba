// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// detailHeaderLines is the fixed height of the detail pane header:
// digest, unit/type, time/offset, sizes, separator.
const detailHeaderLines = 5

// DetailRenderer produces the header and body text for one record at
// a given width.
type DetailRenderer struct {
	theme Theme
	width int

	// lipgloss renderer with forced color profile for ANSI output.
	lipRenderer *lipgloss.Renderer
}

// NewDetailRenderer creates a DetailRenderer for the given width.
//
// The renderer forces the ANSI256 color profile: this output is
// always for terminal display (bubbletea TUI), so we bypass
// auto-detection which would produce uncolored output in test
// environments with no TTY. SetColorProfile is required because
// lipgloss.Renderer.ColorProfile() ignores the termenv.Output profile
// and re-detects from the environment unless explicitColorProfile is
// set.
func NewDetailRenderer(theme Theme, width int) DetailRenderer {
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)
	return DetailRenderer{
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
}

// RenderHeader renders the fixed header block for a record: digest,
// unit and content type, capture time and spool offset, and sizes.
// Every line is truncated to the renderer width so the header never
// wraps and pushes the separator out of its fixed row.
func (renderer DetailRenderer) RenderHeader(entry Entry) string {
	headerStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.HeaderForeground).Bold(true)
	normalStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.NormalText)
	faintStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)
	unitStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.UnitForeground)
	typeStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.ContentTypeColor(entry.Record.ContentType))

	digestLine := faintStyle.Render("(no digest)")
	if !entry.Record.Digest.IsZero() {
		digestLine = headerStyle.Render(entry.Record.Digest.String())
	}

	unit := entry.Record.Unit
	if unit == "" {
		unit = "-"
	}
	contentType := entry.Record.ContentType
	if contentType == "" {
		contentType = "-"
	}
	metaLine := unitStyle.Render(unit) + faintStyle.Render("  ·  ") + typeStyle.Render(contentType)

	timeText := "-"
	if entry.Record.Time != 0 {
		timeText = entry.Record.Timestamp().Local().Format(time.RFC3339)
	}
	timeLine := normalStyle.Render(timeText) +
		faintStyle.Render(fmt.Sprintf("  ·  offset %d", entry.Offset))

	sizeText := "size " + formatSize(entry.Size)
	if entry.Record.Compression != "" {
		if payload, err := entry.Record.Payload(); err == nil {
			sizeText = fmt.Sprintf("payload %s  ·  stored %s (%s)",
				formatSize(int64(len(payload))), formatSize(entry.Size), entry.Record.Compression)
		} else {
			sizeText = fmt.Sprintf("stored %s (%s)", formatSize(entry.Size), entry.Record.Compression)
		}
	}
	sizeLine := faintStyle.Render(sizeText)

	separator := renderer.lipRenderer.NewStyle().
		Foreground(renderer.theme.BorderColor).
		Render(strings.Repeat("─", renderer.width))

	lines := []string{digestLine, metaLine, timeLine, sizeLine, separator}
	for index, line := range lines {
		lines[index] = ansi.Truncate(line, renderer.width, "…")
	}
	return strings.Join(lines, "\n")
}

// RenderBody renders the record payload for the scrollable viewport.
// JSON payloads are pretty-printed with syntax highlighting, other
// textual payloads render raw, and binary payloads get a hex dump.
func (renderer DetailRenderer) RenderBody(entry Entry) string {
	faintStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)

	payload, err := entry.Record.Payload()
	if err != nil {
		return faintStyle.Render(err.Error())
	}
	if len(payload) == 0 {
		return faintStyle.Render("(empty payload)")
	}

	if isJSONPayload(entry.Record.ContentType, payload) {
		if rendered, ok := renderer.renderJSON(payload); ok {
			return rendered
		}
		// Declared JSON but not parseable as such: fall through to
		// the text and hex paths below.
	}

	if isTextPayload(entry.Record.ContentType, payload) {
		return strings.TrimRight(string(payload), "\n")
	}

	return hexDump(payload)
}

// renderJSON pretty-prints a JSON payload with two-space indentation
// and chroma terminal256 highlighting. Returns ok=false when the
// payload is not valid JSON. Highlighting failures degrade to the
// indented plain text rather than failing the render.
func (renderer DetailRenderer) renderJSON(payload []byte) (string, bool) {
	var indented bytes.Buffer
	if err := json.Indent(&indented, payload, "", "  "); err != nil {
		return "", false
	}

	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, indented.String(), "json", "terminal256", "monokai"); err != nil {
		return indented.String(), true
	}
	return strings.TrimRight(highlighted.String(), "\n"), true
}

// isJSONPayload reports whether the payload should take the JSON
// rendering path: either the content type declares JSON, or the
// record is untyped and the payload parses as a JSON object or array.
func isJSONPayload(contentType string, payload []byte) bool {
	if strings.HasPrefix(contentType, "application/json") || strings.HasSuffix(contentType, "+json") {
		return true
	}
	if contentType != "" {
		return false
	}
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(payload)
}

// isTextPayload reports whether the payload renders as raw text:
// declared text/ types always do, anything else only when the bytes
// are display-safe.
func isTextPayload(contentType string, payload []byte) bool {
	if strings.HasPrefix(contentType, "text/") {
		return true
	}
	return printableText(payload)
}

// printableText reports whether data is safe to write to the terminal
// as-is: valid UTF-8 with no control bytes beyond tab, newline, and
// carriage return. Stray control bytes (including ESC) would corrupt
// the TUI display, so anything containing them hex-dumps instead.
func printableText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, value := range data {
		if value == 0x7f {
			return false
		}
		if value < 0x20 && value != '\n' && value != '\r' && value != '\t' {
			return false
		}
	}
	return true
}

// DetailPane is the right-hand pane: a fixed header over a scrollable
// viewport showing the selected record's payload.
type DetailPane struct {
	viewport viewport.Model
	theme    Theme
	width    int
	height   int

	// Retained for re-rendering on resize. entry is set by SetContent
	// and cleared by Clear. When hasEntry is true, SetSize re-renders
	// the content at the new width so body wrapping adapts to splitter
	// changes.
	hasEntry bool
	entry    Entry

	// Pre-rendered header string, set by SetContent and rerender.
	header string
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme Theme) DetailPane {
	return DetailPane{theme: theme}
}

// bodyHeight returns the number of lines available for the scrollable
// viewport body (total height minus the fixed header).
func (pane DetailPane) bodyHeight() int {
	result := pane.height - detailHeaderLines
	if result < 1 {
		result = 1
	}
	return result
}

// contentWidth returns the usable width for text content (total width
// minus the left padding column and right scrollbar column).
func (pane DetailPane) contentWidth() int {
	return pane.width - 2
}

// SetSize updates the detail pane dimensions. If the width changed
// and there is content displayed, the content is re-rendered at the
// new width so body wrapping stays correct.
func (pane *DetailPane) SetSize(width, height int) {
	previousWidth := pane.width
	pane.width = width
	pane.height = height
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = pane.bodyHeight()

	if pane.hasEntry && width != previousWidth {
		pane.rerender()
	}
}

// SetContent updates the detail pane with rendered content for a
// record and scrolls to the top.
func (pane *DetailPane) SetContent(entry Entry) {
	pane.hasEntry = true
	pane.entry = entry
	pane.render()
	pane.viewport.GotoTop()
}

// Clear removes the detail pane content.
func (pane *DetailPane) Clear() {
	pane.hasEntry = false
	pane.entry = Entry{}
	pane.header = ""
	pane.viewport.SetContent("")
}

// rerender regenerates the content at the current width, preserving
// the scroll position as closely as possible.
func (pane *DetailPane) rerender() {
	previousOffset := pane.viewport.YOffset
	pane.render()

	maxOffset := pane.viewport.TotalLineCount() - pane.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if previousOffset > maxOffset {
		previousOffset = maxOffset
	}
	pane.viewport.SetYOffset(previousOffset)
}

// render regenerates the header and viewport body at the current
// width.
func (pane *DetailPane) render() {
	contentWidth := pane.contentWidth()
	if contentWidth < 1 {
		contentWidth = 1
	}
	renderer := NewDetailRenderer(pane.theme, contentWidth)
	pane.header = renderer.RenderHeader(pane.entry)

	// Wrap the body to contentWidth so no line exceeds the viewport
	// width. Long JSON strings and hex rows wrap rather than clip.
	body := renderer.RenderBody(pane.entry)
	body = lipgloss.NewStyle().Width(contentWidth).Render(body)
	pane.viewport.SetContent(body)
}

// View renders the detail pane as a docked panel with a fixed header,
// scrollable body, left padding, and a right scrollbar.
func (pane DetailPane) View(focused bool) string {
	contentWidth := pane.contentWidth()

	if !pane.hasEntry {
		emptyStyle := lipgloss.NewStyle().
			Foreground(pane.theme.FaintText)

		contentStyle := lipgloss.NewStyle().
			PaddingLeft(1).
			Width(pane.width - 1).
			Height(pane.height)

		content := contentStyle.Render(
			lipgloss.Place(
				contentWidth, pane.height,
				lipgloss.Center, lipgloss.Center,
				emptyStyle.Render("Select a record to view details"),
			),
		)

		scrollbar := renderScrollbar(
			pane.theme, pane.height,
			0, pane.height, 0,
			focused,
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
	}

	// Build the content column as exactly pane.height lines: fixed
	// header (detailHeaderLines) + scrollable body (remainder).
	paddingStyle := lipgloss.NewStyle().
		PaddingLeft(1).
		Width(pane.width - 1)

	headerView := paddingStyle.Height(detailHeaderLines).Render(pane.header)
	bodyView := paddingStyle.Height(pane.bodyHeight()).Render(pane.viewport.View())
	content := headerView + "\n" + bodyView

	// Scrollbar: blank column for the header rows, actual scrollbar
	// for the body rows. This way the scrollbar only covers the
	// region it actually scrolls.
	headerColumn := lipgloss.NewStyle().
		Width(1).
		Height(detailHeaderLines).
		Render("")
	bodyScrollbar := renderScrollbar(
		pane.theme, pane.bodyHeight(),
		pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset,
		focused,
	)
	scrollColumn := headerColumn + "\n" + bodyScrollbar

	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollColumn)
}

// ScrollUp scrolls the detail pane up by half a page.
func (pane *DetailPane) ScrollUp() {
	pane.viewport.HalfViewUp()
}

// ScrollDown scrolls the detail pane down by half a page.
func (pane *DetailPane) ScrollDown() {
	pane.viewport.HalfViewDown()
}
