package panels

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	backStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 4)
)

// CardPanel shows the current card: face down, revealed as a half-block
// preview, or the summary of a finished pass.
type CardPanel struct {
	width, height int
	accent        lipgloss.Style

	name     string
	payload  string
	index    int
	total    int
	revealed bool

	preview imagePreview

	summary []string
}

// NewCardPanel creates an empty card panel. accent colours the card back.
func NewCardPanel(w, h int, accent lipgloss.Style) CardPanel {
	return CardPanel{width: w, height: h, accent: accent}
}

// SetCard shows card index of total. name is used as the caption once revealed.
func (p CardPanel) SetCard(name, payload string, index, total int, revealed bool) CardPanel {
	p.name = name
	p.payload = payload
	p.index = index
	p.total = total
	p.revealed = revealed
	return p.renderPreview()
}

// SetSize resizes the panel, re-rendering the preview if one is shown.
func (p CardPanel) SetSize(w, h int) CardPanel {
	p.width = w
	p.height = h
	return p.renderPreview()
}

// ShowSummary overlays the given lines until ClearSummary is called.
func (p CardPanel) ShowSummary(lines []string) CardPanel {
	p.summary = append([]string(nil), lines...)
	return p
}

// ClearSummary removes the summary overlay.
func (p CardPanel) ClearSummary() CardPanel {
	p.summary = nil
	return p
}

// ShowingSummary reports whether the summary overlay is visible.
func (p CardPanel) ShowingSummary() bool {
	return p.summary != nil
}

// PreviewErr returns the decode error for the revealed card, if any.
func (p CardPanel) PreviewErr() error {
	if !p.revealed {
		return nil
	}
	return p.preview.err
}

// renderPreview decodes the payload only when it is revealed and the
// payload or size changed since the last render.
func (p CardPanel) renderPreview() CardPanel {
	if !p.revealed || p.payload == "" {
		return p
	}
	// Leave one row for the caption.
	p.preview = p.preview.render(p.payload, p.width, max(p.height-1, 1))
	return p
}

// View renders the card panel.
func (p CardPanel) View() string {
	center := lipgloss.NewStyle().
		Width(p.width).Height(p.height).
		Align(lipgloss.Center, lipgloss.Center)

	switch {
	case p.summary != nil:
		return center.Render(lipgloss.JoinVertical(lipgloss.Center, p.summary...))
	case p.total == 0:
		return center.Render(dimStyle.Render("No images yet.\nPress u to upload some."))
	case !p.revealed:
		back := backStyle.BorderForeground(p.accent.GetForeground()).
			Render(p.accent.Render("?"))
		caption := dimStyle.Render(fmt.Sprintf("card %d of %d · space to reveal", p.index+1, p.total))
		return center.Render(lipgloss.JoinVertical(lipgloss.Center, back, "", caption))
	case p.preview.err != nil:
		return center.Render(errStyle.Render(fmt.Sprintf("cannot preview %s: %v", p.name, p.preview.err)))
	default:
		caption := dimStyle.Render(fmt.Sprintf("%s · %d of %d", p.name, p.index+1, p.total))
		return center.Render(lipgloss.JoinVertical(lipgloss.Center, p.preview.out, caption))
	}
}
