// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusList means navigation keys move the record list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail viewport.
	FocusDetail
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
)

// Split ratio bounds and step size.
const (
	splitRatioMin  = 0.20
	splitRatioMax  = 0.80
	splitRatioStep = 0.05
)

// rowHighlight carries the fuzzy match positions for one visible row,
// keyed by the row's spool offset in Model.filterHighlights.
type rowHighlight struct {
	unit        []int
	contentType []int
}

// Model is the top-level bubbletea model for the record viewer TUI.
type Model struct {
	theme Theme
	keys  KeyMap

	// spoolName labels the header line; the base name of the loaded
	// spool file.
	spoolName string

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	filter FilterModel

	// List state. all holds every record in file order; entries is
	// the filtered view the list renders (same slice when no filter
	// is active).
	all          []Entry
	entries      []Entry
	cursor       int
	scrollOffset int

	// Stable focus: track selection by spool offset so clearing the
	// filter returns to the same record. -1 means nothing selected.
	selectedOffset int64

	// Filter match highlighting, keyed by spool offset. Nil when no
	// filter is active.
	filterHighlights map[int64]rowHighlight

	// Two-pane layout.
	focusRegion FocusRegion
	priorFocus  FocusRegion // Saved focus when entering filter mode.
	splitRatio  float64     // Fraction of width for the list pane.
	detailPane  DetailPane  // Right pane: scrollable record detail.
}

// NewModel creates a Model over the given entries, which must be in
// spool file order. spoolName labels the header; pass the file's base
// name.
func NewModel(spoolName string, entries []Entry) Model {
	model := Model{
		theme:          DefaultTheme,
		keys:           DefaultKeyMap,
		spoolName:      spoolName,
		all:            entries,
		entries:        entries,
		selectedOffset: -1,
		splitRatio:     0.50,
		detailPane:     NewDetailPane(DefaultTheme),
	}

	if len(model.entries) > 0 {
		model.cursor = 0
		model.selectedOffset = model.entries[0].Offset
	}

	return model
}

// Init implements tea.Model. The viewer is driven entirely by user
// input; there is no background event source.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes keyboard events based on the
// current focus region and handles layout changes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// When filter is active, route all input to the filter first,
		// except for Esc (clear) and Enter (confirm and return to list).
		if model.focusRegion == FocusFilter {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.FocusToggle):
			if model.focusRegion == FocusList {
				model.focusRegion = FocusDetail
			} else {
				model.focusRegion = FocusList
			}

		case key.Matches(message, model.keys.SplitGrow):
			model.splitRatio += splitRatioStep
			if model.splitRatio > splitRatioMax {
				model.splitRatio = splitRatioMax
			}
			model.updatePaneSizes()

		case key.Matches(message, model.keys.SplitShrink):
			model.splitRatio -= splitRatioStep
			if model.splitRatio < splitRatioMin {
				model.splitRatio = splitRatioMin
			}
			model.updatePaneSizes()

		case key.Matches(message, model.keys.FilterActivate):
			model.priorFocus = model.focusRegion
			model.focusRegion = FocusFilter
			model.filter.Active = true
			// Reset list position to the top so the user sees
			// results from the beginning as they type.
			model.cursor = 0
			model.scrollOffset = 0

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.Input != "" {
				model.filter.Clear()
				model.applyFilter()
			}

		default:
			if model.focusRegion == FocusList {
				model.handleListKeys(message)
			} else {
				model.handleDetailKeys(message)
			}
		}

	case tea.MouseMsg:
		model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		model.syncDetailPane()
	}
	return model, nil
}

// handleFilterKeys processes keystrokes while the filter input has
// focus. Regular characters extend the query, backspace shortens it,
// Esc clears (then exits), and Enter confirms and returns focus to
// the list.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		// ctrl+c always quits, even in filter mode.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		// 'q' is a regular character in filter mode.
		model.filter.HandleRune('q')
		model.applyFilter()
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		// Esc: if there's filter text, clear it; if already empty,
		// exit filter mode.
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
		} else {
			model.filter.Active = false
			model.focusRegion = model.priorFocus
		}
		return model, nil

	case message.Type == tea.KeyEnter:
		// Confirm filter and return focus to the list.
		model.filter.Active = false
		model.focusRegion = FocusList
		return model, nil

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}
		return model, nil

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
		return model, nil
	}

	return model, nil
}

// applyFilter re-derives the visible entries from the full list and
// the current filter text, then repositions cursor and detail pane.
func (model *Model) applyFilter() {
	if model.filter.Input == "" {
		model.entries = model.all
		model.filterHighlights = nil
		model.restoreSelection()
	} else {
		results := model.filter.ApplyFuzzy(model.all)
		model.entries = make([]Entry, len(results))
		model.filterHighlights = make(map[int64]rowHighlight, len(results))
		for index, result := range results {
			model.entries[index] = result.Entry
			if len(result.UnitPositions) > 0 || len(result.TypePositions) > 0 {
				model.filterHighlights[result.Entry.Offset] = rowHighlight{
					unit:        result.UnitPositions,
					contentType: result.TypePositions,
				}
			}
		}

		// When actively filtering, snap to the top of the list so the
		// highest-scored matches are visible as the user types.
		model.cursor = 0
		model.scrollOffset = 0
		if len(model.entries) > 0 {
			model.selectedOffset = model.entries[0].Offset
		}
	}

	model.ensureCursorVisible()
	model.syncDetailPane()
}

// restoreSelection moves the cursor back to the record identified by
// selectedOffset, or clamps the cursor when that record is no longer
// visible.
func (model *Model) restoreSelection() {
	if model.selectedOffset < 0 {
		model.cursor = 0
		return
	}

	for index, entry := range model.entries {
		if entry.Offset == model.selectedOffset {
			model.cursor = index
			return
		}
	}

	model.cursor = model.clampedIndex(model.cursor)
}

// clampedIndex returns position clamped to valid entry bounds.
func (model *Model) clampedIndex(position int) int {
	if len(model.entries) == 0 {
		return 0
	}
	if position < 0 {
		return 0
	}
	if position >= len(model.entries) {
		return len(model.entries) - 1
	}
	return position
}

// handleListKeys processes navigation keys when the list has focus.
func (model *Model) handleListKeys(message tea.KeyMsg) {
	prevCursor := model.cursor

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.entries)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.PageUp):
		model.cursor = model.clampedIndex(model.cursor - model.visibleHeight())

	case key.Matches(message, model.keys.PageDown):
		model.cursor = model.clampedIndex(model.cursor + model.visibleHeight())

	case key.Matches(message, model.keys.Home):
		model.cursor = 0

	case key.Matches(message, model.keys.End):
		if len(model.entries) > 0 {
			model.cursor = len(model.entries) - 1
		}

	case key.Matches(message, model.keys.OpenDetail):
		model.focusRegion = FocusDetail
	}

	model.ensureCursorVisible()

	// Update detail pane if selection changed.
	if model.cursor != prevCursor {
		model.syncDetailPane()
	}
}

// handleDetailKeys processes navigation keys when the detail pane has
// focus.
func (model *Model) handleDetailKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.detailPane.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.detailPane.viewport.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.detailPane.ScrollUp()
	case key.Matches(message, model.keys.PageDown):
		model.detailPane.ScrollDown()
	case key.Matches(message, model.keys.Home):
		model.detailPane.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.detailPane.viewport.GotoBottom()
	}
}

// handleMouse scrolls whichever pane the wheel event lands in. The
// viewer has no click or drag interactions; everything else is
// keyboard-driven.
func (model *Model) handleMouse(message tea.MouseMsg) {
	inContentArea := message.Y >= model.contentStartY() && message.Y < model.height-2
	if !inContentArea {
		return
	}
	inListPane := message.X <= model.listWidth()

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if inListPane {
			model.scrollListUp(1)
		} else {
			model.detailPane.viewport.LineUp(3)
		}

	case tea.MouseButtonWheelDown:
		if inListPane {
			model.scrollListDown(1)
		} else {
			model.detailPane.viewport.LineDown(3)
		}
	}
}

// scrollListUp moves the cursor up by count rows.
func (model *Model) scrollListUp(count int) {
	model.cursor = model.clampedIndex(model.cursor - count)
	model.ensureCursorVisible()
	model.syncDetailPane()
}

// scrollListDown moves the cursor down by count rows.
func (model *Model) scrollListDown(count int) {
	model.cursor = model.clampedIndex(model.cursor + count)
	model.ensureCursorVisible()
	model.syncDetailPane()
}

// syncDetailPane updates the detail pane to show the record under the
// cursor, tracking it as the stable selection.
func (model *Model) syncDetailPane() {
	if model.cursor < 0 || model.cursor >= len(model.entries) {
		model.detailPane.Clear()
		return
	}

	entry := model.entries[model.cursor]
	model.selectedOffset = entry.Offset
	model.detailPane.SetContent(entry)
}

// contentStartY returns the Y coordinate where the content area
// begins. The top chrome line is always exactly 1 row: either the
// header (normal) or the filter bar (when filter is active). The
// filter bar replaces the header rather than pushing content down.
func (model Model) contentStartY() int {
	return 1
}

// visibleHeight returns the number of list rows that fit between the
// chrome elements: the top line plus the bottom separator (1) and
// help bar (1).
func (model Model) visibleHeight() int {
	return model.height - model.contentStartY() - 2
}

// ensureCursorVisible adjusts scrollOffset so the cursor is within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}

	// Clamp scrollOffset so we never scroll past the end of the list.
	// This handles filter changes where the new list is shorter than
	// the old scrollOffset.
	maxOffset := len(model.entries) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}

	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// updatePaneSizes recalculates pane dimensions after a resize or
// split ratio change.
func (model *Model) updatePaneSizes() {
	contentHeight := model.visibleHeight()
	// 1 column for the vertical divider between panes.
	detailWidth := model.width - model.listWidth() - 1
	if detailWidth < 10 {
		detailWidth = 10
	}
	model.detailPane.SetSize(detailWidth, contentHeight)
}

// listWidth returns the width of the list pane in columns.
func (model Model) listWidth() int {
	return int(float64(model.width) * model.splitRatio)
}

// View implements tea.Model. Renders the full TUI frame with two panes.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	if len(model.entries) == 0 && model.filter.Input == "" && !model.filter.Active {
		return model.renderEmpty()
	}

	var sections []string

	// Top chrome line: either the header or the filter bar. The
	// filter bar replaces the header so the layout doesn't shift.
	filterView := model.filter.View(model.theme, model.width)
	if filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	// Two-pane content area with vertical divider.
	listView := model.renderListPane()
	divider := model.renderDivider()
	detailFocused := model.focusRegion == FocusDetail
	detailView := model.detailPane.View(detailFocused)
	contentArea := lipgloss.JoinHorizontal(lipgloss.Top, listView, divider, detailView)
	sections = append(sections, contentArea)

	// Bottom separator.
	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	sections = append(sections, separator)

	// Help bar.
	sections = append(sections, model.renderHelp())

	return strings.Join(sections, "\n")
}

// renderListPane renders the record list with proper column layout.
func (model Model) renderListPane() string {
	listWidth := model.listWidth()

	// Always reserve 1 column for the scrollbar so content stays at a
	// fixed position regardless of focus state.
	focused := model.focusRegion == FocusList
	rowWidth := listWidth - 1

	renderer := NewListRenderer(model.theme, rowWidth)

	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	var rows []string
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.entries); index++ {
		entry := model.entries[index]
		selected := index == model.cursor
		highlight := model.filterHighlights[entry.Offset]
		rows = append(rows, renderer.RenderRow(entry, selected, highlight.unit, highlight.contentType))
	}

	// Pad empty rows.
	rendered := len(rows)
	if rendered < visible {
		emptyStyle := lipgloss.NewStyle().Width(rowWidth)
		for padding := rendered; padding < visible; padding++ {
			rows = append(rows, emptyStyle.Render(""))
		}
	}

	// Right scrollbar: shows scroll position and focus state.
	scrollbar := renderScrollbar(
		model.theme, visible,
		len(model.entries), visible, model.scrollOffset,
		focused,
	)

	contentStyle := lipgloss.NewStyle().
		Width(rowWidth).
		Height(visible)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		contentStyle.Render(strings.Join(rows, "\n")),
		scrollbar,
	)
}

// renderDivider renders the single-column vertical divider between
// the list and detail panes.
func (model Model) renderDivider() string {
	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	dividerStyle := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor)

	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}

	return dividerStyle.Width(1).Height(visible).Render(strings.Join(lines, "\n"))
}

// renderEmpty renders the empty state when the spool has no records.
func (model Model) renderEmpty() string {
	messageStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	return lipgloss.Place(
		model.width, model.height,
		lipgloss.Center, lipgloss.Center,
		messageStyle.Render("No records in "+model.spoolName),
	)
}

// renderHeader renders the top chrome as a single line in the btop
// style: the spool name embedded in a horizontal rule with stats on
// the right.
//
// Example: ─── capture.spool ────────── 42/120 records  3 units  1.2 MB ─
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor)
	nameStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	sep := separatorStyle.Render("─")

	leftParts := sep + sep + sep + " " + nameStyle.Render(model.spoolName) + " "
	cursor := 3 + 1 + lipgloss.Width(model.spoolName) + 1

	// Stats on the right.
	units := make(map[string]bool)
	var totalBytes int64
	for _, entry := range model.all {
		if entry.Record.Unit != "" {
			units[entry.Record.Unit] = true
		}
		totalBytes += entry.Size
	}
	statsText := fmt.Sprintf("%d/%d records  %d units  %s",
		len(model.entries), len(model.all), len(units), formatSize(totalBytes))
	statsRendered := statsStyle.Render(statsText)
	statsWidth := lipgloss.Width(statsText)

	// Fill the gap between the name and stats with separator chars,
	// leaving 1 space on each side of the stats.
	rightPortion := " " + statsRendered + " " + sep
	rightWidth := 1 + statsWidth + 1 + 1

	fillCount := model.width - cursor - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}
	fill := ""
	for range fillCount {
		fill += sep
	}

	return leftParts + fill + rightPortion
}

// renderHelp renders the bottom help bar with key hints and position.
func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	focusIndicator := "LIST"
	switch model.focusRegion {
	case FocusDetail:
		focusIndicator = "DETAIL"
	case FocusFilter:
		focusIndicator = "FILTER"
	}

	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  Enter detail  Tab focus  ]/[ resize  g/G top/bottom  / filter",
		focusIndicator)

	if len(model.entries) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.entries))
	}

	return style.Width(model.width).MaxWidth(model.width).Render(help)
}
