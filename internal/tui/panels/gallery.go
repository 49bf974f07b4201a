package panels

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
)

// UploadRequestMsg is emitted when the user submits paths in the upload prompt.
type UploadRequestMsg struct{ Paths []string }

// galleryItem wraps a stored image as a list.Item.
type galleryItem struct {
	rec      deck.ImageRecord
	position int
	uploaded bool
}

func (g galleryItem) Title() string {
	mark := " "
	if g.uploaded {
		mark = "⬆"
	}
	return fmt.Sprintf("%s %3d  %s", mark, g.position, g.rec.Name)
}

func (g galleryItem) Description() string {
	return FormatSize(payloadSize(g.rec.Data))
}

func (g galleryItem) FilterValue() string {
	return g.rec.Name
}

// galleryDelegate renders compact single-line items with the size right-aligned.
type galleryDelegate struct{ accent lipgloss.Style }

func (d galleryDelegate) Height() int                             { return 1 }
func (d galleryDelegate) Spacing() int                            { return 0 }
func (d galleryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d galleryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi, ok := item.(galleryItem)
	if !ok {
		return
	}
	title, desc := gi.Title(), gi.Description()
	// Two cells of cursor and two of gap.
	if avail := m.Width() - 4 - lipgloss.Width(desc); avail > 1 && lipgloss.Width(title) > avail {
		title = truncate(title, avail)
	}
	s := title + "  " + dimStyle.Render(desc)
	if index == m.Index() {
		s = d.accent.Render("> ") + s
	} else {
		s = "  " + s
	}
	_, _ = fmt.Fprint(w, s)
}

// Below this width the gallery drops the preview pane and shows only the list.
const minPreviewWidth = 48

// GalleryPanel lists every stored image in deck order beside a preview of
// the highlighted one, and hosts the upload prompt.
type GalleryPanel struct {
	list        list.Model
	records     []deck.ImageRecord
	width       int
	height      int
	accent      lipgloss.Style
	input       textinput.Model
	inputActive bool
	preview     imagePreview
}

// NewGalleryPanel creates an empty gallery panel.
func NewGalleryPanel(w, h int, accent lipgloss.Style) GalleryPanel {
	l := list.New(nil, galleryDelegate{accent: accent}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "photos/1.png photos/2.jpg"
	ti.CharLimit = 4096
	if w > 4 {
		ti.Width = w - 4
	}

	p := GalleryPanel{
		list:   l,
		width:  w,
		height: h,
		accent: accent,
		input:  ti,
	}
	return p.SetSize(w, h)
}

// paneWidths splits the panel into list and preview columns with a one-cell
// gap. previewW is 0 when the panel is too narrow for a preview.
func (p GalleryPanel) paneWidths() (listW, previewW int) {
	if p.width < minPreviewWidth {
		return p.width, 0
	}
	listW = max(24, p.width*2/5)
	return listW, p.width - listW - 1
}

// refreshPreview renders the selected image into the preview pane, leaving
// one row for its caption.
func (p GalleryPanel) refreshPreview() GalleryPanel {
	_, previewW := p.paneWidths()
	sel, ok := p.Selected()
	if !ok || previewW == 0 {
		p.preview = imagePreview{}
		return p
	}
	p.preview = p.preview.render(sel.Data, previewW, max(p.height-1, 1))
	return p
}

// SetRecords replaces the listed images. Names in uploaded are marked as
// added during this run.
func (p GalleryPanel) SetRecords(records, uploaded []deck.ImageRecord) GalleryPanel {
	fresh := make(map[string]bool, len(uploaded))
	for _, r := range uploaded {
		fresh[r.Name] = true
	}
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = galleryItem{rec: r, position: i + 1, uploaded: fresh[r.Name]}
	}
	p.records = records
	p.list.SetItems(items)
	return p.refreshPreview()
}

// Len returns the number of listed images.
func (p GalleryPanel) Len() int {
	return len(p.records)
}

// Selected returns the highlighted image.
func (p GalleryPanel) Selected() (deck.ImageRecord, bool) {
	if item, ok := p.list.SelectedItem().(galleryItem); ok {
		return item.rec, true
	}
	return deck.ImageRecord{}, false
}

// Prompting reports whether the upload prompt is open.
func (p GalleryPanel) Prompting() bool {
	return p.inputActive
}

// OpenPrompt opens the upload prompt.
func (p GalleryPanel) OpenPrompt() (GalleryPanel, tea.Cmd) {
	p.inputActive = true
	p.input.Reset()
	cmd := p.input.Focus()
	return p, cmd
}

// SetSize resizes the panel.
func (p GalleryPanel) SetSize(w, h int) GalleryPanel {
	p.width = w
	p.height = h
	listW, _ := p.paneWidths()
	p.list.SetSize(listW, h)
	if w > 4 {
		p.input.Width = w - 4
	}
	return p.refreshPreview()
}

// Update handles key/mouse messages for the panel.
func (p GalleryPanel) Update(msg tea.Msg) (GalleryPanel, tea.Cmd) {
	if p.inputActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				p.inputActive = false
				p.input.Blur()
				p.input.Reset()
				return p, nil
			case "enter":
				paths := SplitPaths(p.input.Value())
				if len(paths) == 0 {
					return p, nil
				}
				p.inputActive = false
				p.input.Blur()
				p.input.Reset()
				return p, func() tea.Msg { return UploadRequestMsg{Paths: paths} }
			}
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p.refreshPreview(), cmd
}

// View renders the gallery panel.
func (p GalleryPanel) View() string {
	if p.inputActive {
		prompt := p.accent.Render("Upload images (space-separated paths):")
		hint := dimStyle.Render("Enter to upload · Esc to cancel · quote paths with spaces")
		content := lipgloss.JoinVertical(lipgloss.Left,
			prompt,
			p.input.View(),
			hint,
		)
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Render(content)
	}
	if len(p.records) == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No images")
	}
	listW, previewW := p.paneWidths()
	if previewW == 0 {
		return p.list.View()
	}
	left := lipgloss.NewStyle().Width(listW).Height(p.height).Render(p.list.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", p.previewView(previewW))
}

// previewView renders the highlighted image with its name underneath.
func (p GalleryPanel) previewView(w int) string {
	box := lipgloss.NewStyle().
		Width(w).Height(p.height).
		Align(lipgloss.Center, lipgloss.Center)
	sel, ok := p.Selected()
	if !ok {
		return box.Render("")
	}
	if p.preview.err != nil {
		return box.Render(errStyle.Render("cannot preview " + sel.Name))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Center,
		p.preview.out,
		dimStyle.Render(sel.Name),
	))
}

// truncate cuts s to at most w cells, ending in "…".
func truncate(s string, w int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}

// SplitPaths splits a prompt line on whitespace. Double- or single-quoted
// segments are kept together so paths with spaces can be entered.
func SplitPaths(line string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	flush := func() {
		if inTok {
			out = append(out, cur.String())
			cur.Reset()
			inTok = false
		}
	}
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()
	return out
}

// FormatSize renders a byte count as B, KiB or MiB.
func FormatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// payloadSize estimates the decoded byte size of a base64 data URI.
func payloadSize(uri string) int {
	i := strings.IndexByte(uri, ',')
	if i < 0 {
		return len(uri)
	}
	b64 := uri[i+1:]
	n := len(b64) * 3 / 4
	n -= strings.Count(b64[max(0, len(b64)-2):], "=")
	return n
}
