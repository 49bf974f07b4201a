package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds accent-color-derived styles for the TUI.
type Theme struct {
	accentStyle     lipgloss.Style // header background
	accentText      lipgloss.Style // focused elements and the card back
	borderFocused   lipgloss.Style
	borderUnfocused lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		accentText: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// AccentTextStyle returns bold accent-colored text.
func (t Theme) AccentTextStyle() lipgloss.Style {
	return t.accentText
}

// PanelBorderStyle returns the border style for a panel based on whether it
// currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// RenderActivity renders an activity entry as a single terminal line,
// truncating the message to fit width.
func (t Theme) RenderActivity(entry Activity, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", entry.Time.Format("15:04:05")))
	text := singleLine(entry.Message)
	maxText := width - 15
	if maxText < 10 {
		maxText = 10
	}
	if runes := []rune(text); len(runes) > maxText {
		text = string(runes[:maxText-1]) + "…"
	}
	return fmt.Sprintf("%s %s", ts, activityStyle(entry.Kind).Render(activityIcon(entry.Kind)+" "+text))
}

// singleLine collapses newlines so one activity entry never spans rows.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
