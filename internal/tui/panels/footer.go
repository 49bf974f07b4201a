package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Tab          string // "play" or "gallery"
	Focus        string // "main" or "activity"
	Phase        string // "EMPTY", "HIDDEN", "REVEALED", "COMPLETE"
	Prompting    bool   // upload prompt open
	ConfirmClear bool   // waiting for a second C
	Status       string // transient status, shown on the left
}

// RenderFooter renders the context-sensitive footer bar.
// Left side: transient status. Right side: keybinding hints.
func RenderFooter(props FooterProps, width int) string {
	var right string
	switch {
	case props.Prompting:
		right = "enter:upload  esc:cancel"
	case props.ConfirmClear:
		right = "C:confirm clear all  any other key:cancel"
	default:
		right = contextHints(props) + "  u:upload  C:clear  g:gallery  tab:panel  q:quit"
	}

	gap := width - lipgloss.Width(props.Status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return footerStyle.Width(width).Render(props.Status + strings.Repeat(" ", gap) + right)
}

// contextHints returns the keybinding hints for the active tab, focus and phase.
func contextHints(props FooterProps) string {
	if props.Focus == "activity" {
		return "j/k:scroll  F:follow"
	}
	if props.Tab == "gallery" {
		return "j/k:navigate"
	}
	switch props.Phase {
	case "HIDDEN":
		return "space:reveal"
	case "REVEALED":
		return "space:hide  r:remembered  f:forgot"
	case "COMPLETE":
		return "any key:continue"
	default:
		return ""
	}
}
