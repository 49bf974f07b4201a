// Package panels provides the panel components for the recall TUI.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// String fields for phase avoid importing the parent tui package (circular dep prevention).
type HeaderProps struct {
	Title           string
	Backend         string
	Card            int // 1-based; 0 when the deck is empty
	Total           int
	Remembered      int
	Forgotten       int
	RememberedLabel string
	ForgotLabel     string
	PhaseSymbol     string // e.g. "?", "●", "✓"
	PhaseLabel      string // e.g. "HIDDEN", "REVEALED"
	Clock           time.Time
}

// RenderHeader renders the header bar.
// accentStyle is applied to the full header bar width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "Recall"
	if props.Title != "" {
		name = props.Title
	}
	parts := []string{"🧠 " + name}
	if props.Backend != "" {
		parts = append(parts, "store: "+props.Backend)
	}

	card := "—"
	if props.Total > 0 {
		card = fmt.Sprintf("%d/%d", props.Card, props.Total)
	}
	parts = append(parts,
		"card: "+card,
		fmt.Sprintf("%s: %d", labelOr(props.RememberedLabel, "remembered"), props.Remembered),
		fmt.Sprintf("%s: %d", labelOr(props.ForgotLabel, "forgot"), props.Forgotten),
	)

	phase := props.PhaseLabel
	if props.PhaseSymbol != "" && props.PhaseLabel != "" {
		phase = props.PhaseSymbol + " " + props.PhaseLabel
	}
	if phase != "" {
		parts = append(parts, phase)
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	return accentStyle.Width(width).Render(strings.Join(parts, "  │  "))
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
