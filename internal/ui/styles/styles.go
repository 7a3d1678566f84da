// Package styles provides the shared lipgloss colors, styles and icon
// glyphs for the CLI renderers, prompts and the sidebar.
//
// Colors are package variables replaced by [Init] when the theme is
// loaded from config.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme colors, set by Init
var (
	Primary color.Color = DefaultTheme.Primary
	Accent  color.Color = DefaultTheme.Accent
	Success color.Color = DefaultTheme.Success
	Error   color.Color = DefaultTheme.Error
	Muted   color.Color = DefaultTheme.Muted
	Normal  color.Color = DefaultTheme.Normal
	Info    color.Color = DefaultTheme.Info
	Warning color.Color = DefaultTheme.Warning
)

// Common styles
var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Italic = lipgloss.NewStyle().Italic(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	// HighlightStyle marks fuzzy-matched characters
	HighlightStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true).Underline(true)

	// SelectedStyle is the cursor row in lists
	SelectedStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// NamedColor maps the color names used by tree nodes to theme colors.
// Unknown or empty names return nil.
func NamedColor(name string) color.Color {
	switch name {
	case "green":
		return Success
	case "yellow", "orange":
		return Warning
	case "red":
		return Error
	case "blue":
		return Info
	case "gray":
		return Muted
	}
	return nil
}

// ForColor returns a foreground style for a named color, or the normal
// style when the name is unknown.
func ForColor(name string) lipgloss.Style {
	if c := NamedColor(name); c != nil {
		return lipgloss.NewStyle().Foreground(c)
	}
	return NormalStyle
}
