// Package tui provides a bubbletea + lipgloss terminal UI for the recall game.
package tui

import "github.com/charmbracelet/lipgloss"

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorOrange = lipgloss.Color("#FFA54F")
)

// Styles used across the TUI. Accent-dependent styles (header, borders) live
// on the Theme and are computed from the configured accent color.
var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	uploadStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	rememberedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	forgotStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// activityIcon returns the icon prefix for an activity kind.
func activityIcon(kind ActivityKind) string {
	switch kind {
	case ActivityUpload:
		return "⬆"
	case ActivityRemembered:
		return "✓"
	case ActivityForgot:
		return "✗"
	case ActivityComplete:
		return "🏁"
	case ActivityCleared:
		return "🗑"
	case ActivityError:
		return "❌"
	case ActivityWarn:
		return "⚠"
	default:
		return "·"
	}
}

// activityStyle returns the lipgloss style for an activity kind.
func activityStyle(kind ActivityKind) lipgloss.Style {
	switch kind {
	case ActivityUpload:
		return uploadStyle
	case ActivityRemembered:
		return rememberedStyle
	case ActivityForgot:
		return forgotStyle
	case ActivityComplete:
		return resultStyle
	case ActivityError:
		return errorStyle
	case ActivityWarn, ActivityCleared:
		return warnStyle
	default:
		return infoStyle
	}
}
