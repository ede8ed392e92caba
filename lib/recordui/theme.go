// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package recordui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the record viewer. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Unit column.
	UnitForeground lipgloss.Color

	// Content type colors, keyed by broad payload class. JSON and
	// text payloads are the interesting ones in a capture spool;
	// everything else renders in the binary color.
	TypeJSON   lipgloss.Color
	TypeText   lipgloss.Color
	TypeBinary lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// AccentColor marks the focused pane: scrollbar thumb and divider.
	AccentColor lipgloss.Color

	// Filter match highlighting.
	SearchHighlightBackground lipgloss.Color
}

// ContentTypeColor returns the color for a content type string: JSON
// types get TypeJSON, other text/ types get TypeText, and everything
// else (including an empty content type) gets TypeBinary.
func (theme Theme) ContentTypeColor(contentType string) lipgloss.Color {
	switch {
	case strings.HasPrefix(contentType, "application/json"),
		strings.HasSuffix(contentType, "+json"):
		return theme.TypeJSON
	case strings.HasPrefix(contentType, "text/"):
		return theme.TypeText
	default:
		return theme.TypeBinary
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	UnitForeground: lipgloss.Color("75"), // blue

	TypeJSON:   lipgloss.Color("114"), // green
	TypeText:   lipgloss.Color("220"), // yellow/amber
	TypeBinary: lipgloss.Color("245"), // gray

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	AccentColor: lipgloss.Color("220"), // amber

	SearchHighlightBackground: lipgloss.Color("58"), // dark amber
}
