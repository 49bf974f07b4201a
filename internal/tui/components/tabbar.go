// Package components provides reusable TUI components for the recall UI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// TabBar is a stateless tab bar component that renders a row of labelled tabs.
// The active tab is highlighted with the accent color and bold text.
type TabBar struct {
	tabs        []string
	active      int
	activeStyle lipgloss.Style
}

// NewTabBar creates a TabBar with the given tab titles. The first tab is active.
func NewTabBar(tabs []string, accent lipgloss.Color) TabBar {
	return TabBar{
		tabs:        tabs,
		activeStyle: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}

// Active returns the index of the currently active tab.
func (t TabBar) Active() int {
	return t.active
}

// Next returns a TabBar with the next tab active (wraps around).
func (t TabBar) Next() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + 1) % len(t.tabs)
	return t
}

// Select returns a TabBar with tab i active. Out-of-range i is ignored.
func (t TabBar) Select(i int) TabBar {
	if i >= 0 && i < len(t.tabs) {
		t.active = i
	}
	return t
}

// View renders the tab bar as a single line string. Badges, when non-empty,
// are appended to the matching label in parentheses.
func (t TabBar) View(badges ...string) string {
	if len(t.tabs) == 0 {
		return ""
	}
	parts := make([]string, len(t.tabs))
	for i, label := range t.tabs {
		if i < len(badges) && badges[i] != "" {
			label += " (" + badges[i] + ")"
		}
		if i == t.active {
			parts[i] = t.activeStyle.Render(label)
		} else {
			parts[i] = tabInactiveStyle.Render(label)
		}
	}
	return strings.Join(parts, "  │  ")
}
