package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds how many lines a LogView keeps.
const DefaultMaxLines = 500

// LogView is a scrollable activity panel that wraps bubbles/viewport.
// In follow mode (default), new lines cause the view to auto-scroll to the bottom.
// Pressing 'F' toggles follow mode on/off.
type LogView struct {
	vp       viewport.Model
	lines    []string // rendered (pre-styled) lines
	maxLines int
	follow   bool
	width    int
	height   int
}

// NewLogView creates a LogView with the given dimensions, initially in follow mode.
func NewLogView(w, h int) LogView {
	return LogView{
		vp:       viewport.New(w, h),
		maxLines: DefaultMaxLines,
		follow:   true,
		width:    w,
		height:   h,
	}
}

// AppendLine appends a pre-rendered (styled) line, dropping the oldest line
// once maxLines is reached.
func (v LogView) AppendLine(rendered string) LogView {
	lines := make([]string, 0, len(v.lines)+1)
	lines = append(lines, v.lines...)
	lines = append(lines, rendered)
	if v.maxLines > 0 && len(lines) > v.maxLines {
		lines = lines[len(lines)-v.maxLines:]
	}
	v.lines = lines
	v.refresh()
	return v
}

// SetContent replaces all log lines with the given slice, keeping at most
// maxLines of the newest.
func (v LogView) SetContent(lines []string) LogView {
	if v.maxLines > 0 && len(lines) > v.maxLines {
		lines = lines[len(lines)-v.maxLines:]
	}
	v.lines = make([]string, len(lines))
	copy(v.lines, lines)
	v.refresh()
	return v
}

// SetMaxLines changes the retention cap. n <= 0 keeps everything.
func (v LogView) SetMaxLines(n int) LogView {
	v.maxLines = n
	if n > 0 && len(v.lines) > n {
		v.lines = append([]string(nil), v.lines[len(v.lines)-n:]...)
		v.refresh()
	}
	return v
}

// Len returns the number of retained lines.
func (v LogView) Len() int {
	return len(v.lines)
}

// ToggleFollow switches follow mode on or off.
// When turned on, scrolls immediately to the bottom.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// SetSize resizes the log view to the given dimensions.
func (v LogView) SetSize(w, h int) LogView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether follow mode is currently active.
func (v LogView) Following() bool {
	return v.follow
}

// Update handles bubbletea messages (scroll keys, mouse events).
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "F" {
		return v.ToggleFollow(), nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	if v.follow && !v.vp.AtBottom() {
		// Only disable follow on explicit scroll messages, not on resize.
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the log view content.
func (v LogView) View() string {
	return v.vp.View()
}

func (v *LogView) refresh() {
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
}
