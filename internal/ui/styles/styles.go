// Package styles provides shared lipgloss styles for log tags and summaries.
//
// Colors are plain ANSI 256 values; the writer they are printed through
// (see colorprofile) downsamples them for the detected terminal.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors used throughout the output
var (
	// Success is used for passed stages and info tags (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for failed stages and error tags (red)
	Error color.Color = lipgloss.Color("196")

	// Warning is used for reformatted or non-counting failures (orange)
	Warning color.Color = lipgloss.Color("214")

	// Muted is used for debug tags and secondary columns (gray)
	Muted color.Color = lipgloss.Color("240")

	// Primary is used for section headers (cyan/teal)
	Primary color.Color = lipgloss.Color("62")
)

// Common styles
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// SuccessStyle applies the success color
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	// ErrorStyle applies the error color
	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	// WarningStyle applies the warning color
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	// MutedStyle applies the muted color
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	// HeaderStyle renders stage banners
	HeaderStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Outcome symbols
const (
	SymbolPassed      = "✓"
	SymbolFailed      = "✗"
	SymbolReformatted = "⚠"
)
