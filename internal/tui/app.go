package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
	"github.com/LISSConsulting/LISSTech.Recall/internal/kv"
	"github.com/LISSConsulting/LISSTech.Recall/internal/logging"
	"github.com/LISSConsulting/LISSTech.Recall/internal/recall"
	"github.com/LISSConsulting/LISSTech.Recall/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.Recall/internal/tui/panels"
)

// Tab indexes for the main panel.
const (
	TabPlay = iota
	TabGallery
)

var tabLabels = []string{"Play", "Gallery"}

// Options configures a Model.
type Options struct {
	Adapter *deck.Adapter

	Backend         string // shown in the header
	Title           string
	AccentColor     string
	RememberedLabel string
	ForgotLabel     string

	// HistoryDir receives completed-pass summaries. Empty disables history.
	HistoryDir string
	// OnComplete is called with every completed pass, e.g. a notifier hook.
	OnComplete func(recall.Summary)

	Logger  *slog.Logger
	Context context.Context
	Now     func() time.Time
}

// Model is the root bubbletea model for the recall TUI.
type Model struct {
	adapter *deck.Adapter
	session *recall.Session
	records []deck.ImageRecord

	// Sub-panels
	tabs     components.TabBar
	card     panels.CardPanel
	gallery  panels.GalleryPanel
	activity components.LogView

	// Layout and focus
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	entries []Activity // newest last, capped like the log view

	opts         Options
	logger       *slog.Logger
	confirmClear bool
	status       string
	lastSummary  *recall.Summary
	now          time.Time
}

// New creates the TUI Model and loads the initial deck from the adapter.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RememberedLabel == "" {
		opts.RememberedLabel = "remembered"
	}
	if opts.ForgotLabel == "" {
		opts.ForgotLabel = "forgot"
	}

	th := NewTheme(opts.AccentColor)
	layout := Calculate(80, 24)
	mainW, mainH := mainDims(layout)
	actW, actH := activityDims(layout)

	m := Model{
		adapter:  opts.Adapter,
		session:  recall.New(nil, recall.WithOnComplete(opts.OnComplete), recall.WithClock(opts.Now)),
		tabs:     components.NewTabBar(tabLabels, accentColor(opts.AccentColor)),
		card:     panels.NewCardPanel(mainW, mainH, th.AccentTextStyle()),
		gallery:  panels.NewGalleryPanel(mainW, mainH, th.AccentTextStyle()),
		activity: components.NewLogView(actW, actH),
		layout:   layout,
		focus:    FocusMain,
		theme:    th,
		width:    80,
		height:   24,
		opts:     opts,
		logger:   opts.Logger,
		now:      opts.Now(),
	}
	return m.applyDeck(opts.Adapter.Load(), opts.Adapter.Uploaded())
}

// Init returns the initial command: the clock ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case storeChangedMsg:
		return m, loadDeckCmd(m.adapter)
	case deckLoadedMsg:
		m = m.applyDeck(msg.Records, msg.Uploaded)
		m = m.logActivity(ActivityInfo, "deck loaded: %d image(s)", len(msg.Records))
		return m, nil
	case panels.UploadRequestMsg:
		m = m.logActivity(ActivityInfo, "uploading %d file(s)…", len(msg.Paths))
		return m, ingestCmd(m.opts.Context, m.adapter, msg.Paths)
	case ingestDoneMsg:
		return m.handleIngestDone(msg)
	case clearDoneMsg:
		return m.handleClearDone(msg)
	case historySavedMsg:
		if msg.Err != nil {
			m.logger.Warn("save history", "err", msg.Err)
			m = m.logActivity(ActivityWarn, "history not saved: %v", msg.Err)
		}
		return m, nil
	}
	return m.delegateToFocused(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		mainW, mainH := mainDims(m.layout)
		actW, actH := activityDims(m.layout)
		m.card = m.card.SetSize(mainW, mainH)
		m.gallery = m.gallery.SetSize(mainW, mainH)
		m.activity = m.activity.SetSize(actW, actH).SetContent(m.renderEntries())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// The upload prompt swallows every key, q and space included.
	if m.gallery.Prompting() {
		var cmd tea.Cmd
		m.gallery, cmd = m.gallery.Update(msg)
		return m, cmd
	}

	if m.confirmClear {
		m.confirmClear = false
		if key == "C" {
			m.status = "clearing…"
			return m, clearCmd(m.adapter)
		}
		m.status = "clear cancelled"
		return m, nil
	}

	if m.card.ShowingSummary() && key != "q" {
		m.card = m.card.ClearSummary()
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = m.focus.Next()
		return m, nil
	case "shift+tab":
		m.focus = m.focus.Prev()
		return m, nil
	case "g":
		m.tabs = m.tabs.Next()
		return m, nil
	case "u":
		m.tabs = m.tabs.Select(TabGallery)
		m.focus = FocusMain
		var cmd tea.Cmd
		m.gallery, cmd = m.gallery.OpenPrompt()
		return m, cmd
	case "C":
		if len(m.records) == 0 {
			m.status = "nothing to clear"
			return m, nil
		}
		m.confirmClear = true
		return m, nil
	}

	if m.tabs.Active() == TabPlay && IsPlayKey(key) {
		return m.handlePlayKey(key)
	}
	return m.delegateToFocused(msg)
}

func (m Model) handlePlayKey(key string) (tea.Model, tea.Cmd) {
	st := m.session.State()
	name := ""
	if st.CurrentIndex < len(m.records) {
		name = m.records[st.CurrentIndex].Name
	}

	var (
		summary   recall.Summary
		completed bool
	)
	switch key {
	case " ", "enter":
		m.session.Reveal()
	case "r", "right":
		if !st.Revealed {
			m.status = "reveal the card first"
			return m, nil
		}
		summary, completed = m.session.MarkRemembered()
		m = m.logActivity(ActivityRemembered, "%s: %s", m.opts.RememberedLabel, name)
	case "f", "left":
		if !st.Revealed {
			m.status = "reveal the card first"
			return m, nil
		}
		summary, completed = m.session.MarkForgotten()
		m = m.logActivity(ActivityForgot, "%s: %s", m.opts.ForgotLabel, name)
	}
	m.status = ""
	m = m.syncCard()
	if err := m.card.PreviewErr(); err != nil && (key == " " || key == "enter") {
		m.logger.Warn("preview card", "name", name, "err", err)
		m = m.logActivity(ActivityWarn, "cannot preview %s: %v", name, err)
	}
	if !completed {
		return m, nil
	}
	return m.handleComplete(summary)
}

func (m Model) handleComplete(s recall.Summary) (tea.Model, tea.Cmd) {
	m.lastSummary = &s
	m.card = m.card.ShowSummary([]string{
		m.theme.AccentTextStyle().Render("🏁 Pass complete"),
		"",
		fmt.Sprintf("%s: %d", m.opts.RememberedLabel, s.Remembered),
		fmt.Sprintf("%s: %d", m.opts.ForgotLabel, s.Forgotten),
		fmt.Sprintf("of %d card(s)", s.Total),
		"",
		"press any key to play again",
	})
	m = m.logActivity(ActivityComplete, "%s", recall.FormatSummary(s, m.opts.RememberedLabel, m.opts.ForgotLabel))
	m.logger.Info("pass complete", "id", s.ID, "remembered", s.Remembered, "forgotten", s.Forgotten, "total", s.Total)
	if m.opts.HistoryDir == "" {
		return m, nil
	}
	return m, saveHistoryCmd(m.opts.HistoryDir, s)
}

func (m Model) handleIngestDone(msg ingestDoneMsg) (tea.Model, tea.Cmd) {
	added := 0
	for _, r := range msg.Results {
		switch {
		case r.Err == nil:
			added++
			m = m.logActivity(ActivityUpload, "added %s", r.Name)
		case errors.Is(r.Err, deck.ErrDecodeFailure):
			m = m.logActivity(ActivityError, "%s is not a readable image", r.Name)
		case errors.Is(r.Err, kv.ErrQuotaExceeded):
			m = m.logActivity(ActivityError, "%s: storage full, image not saved", r.Name)
		default:
			m = m.logActivity(ActivityError, "%s: %v", r.Name, r.Err)
		}
	}
	m.status = fmt.Sprintf("uploaded %d of %d", added, len(msg.Results))
	return m, func() tea.Msg { return storeChangedMsg{} }
}

func (m Model) handleClearDone(msg clearDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error("clear store", "err", msg.Err)
		m = m.logActivity(ActivityError, "clear failed: %v", msg.Err)
		m.status = ""
		return m, nil
	}
	m.session.Reset()
	m.card = m.card.ClearSummary()
	m = m.logActivity(ActivityCleared, "all images cleared")
	m.status = "cleared"
	return m, func() tea.Msg { return storeChangedMsg{} }
}

func (m Model) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusMain:
		if m.tabs.Active() == TabGallery {
			m.gallery, cmd = m.gallery.Update(msg)
		}
	case FocusActivity:
		m.activity, cmd = m.activity.Update(msg)
	}
	return m, cmd
}

// applyDeck swaps in a freshly loaded deck, keeping game progress when the
// current card still exists.
func (m Model) applyDeck(records, uploaded []deck.ImageRecord) Model {
	m.records = records
	m.session.SetDeck(deck.Payloads(records))
	m.gallery = m.gallery.SetRecords(records, uploaded)
	return m.syncCard()
}

// syncCard pushes the session state into the card panel.
func (m Model) syncCard() Model {
	st := m.session.State()
	var name, payload string
	if st.CurrentIndex < len(m.records) {
		name = m.records[st.CurrentIndex].Name
		payload = m.records[st.CurrentIndex].Data
	}
	m.card = m.card.SetCard(name, payload, st.CurrentIndex, len(m.records), st.Revealed)
	return m
}

func (m Model) logActivity(kind ActivityKind, format string, args ...any) Model {
	entry := Activity{Kind: kind, Time: m.opts.Now(), Message: fmt.Sprintf(format, args...)}
	entries := make([]Activity, 0, len(m.entries)+1)
	entries = append(entries, m.entries...)
	entries = append(entries, entry)
	if len(entries) > components.DefaultMaxLines {
		entries = entries[len(entries)-components.DefaultMaxLines:]
	}
	m.entries = entries
	m.activity = m.activity.AppendLine(m.theme.RenderActivity(entry, m.layout.Activity.Width))
	return m
}

// renderEntries renders every retained entry at the current width.
func (m Model) renderEntries() []string {
	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = m.theme.RenderActivity(e, m.layout.Activity.Width)
	}
	return lines
}

// Activities returns a copy of the activity log entries, oldest first.
func (m Model) Activities() []Activity {
	out := make([]Activity, len(m.entries))
	copy(out, m.entries)
	return out
}

// Phase returns the displayed game phase.
func (m Model) Phase() Phase {
	return phaseOf(m.session.State(), m.session.Len(), m.card.ShowingSummary())
}

// LastSummary returns the most recent completed pass, if any.
func (m Model) LastSummary() (recall.Summary, bool) {
	if m.lastSummary == nil {
		return recall.Summary{}, false
	}
	return *m.lastSummary, true
}

// View renders the full TUI.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x24.", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	st := m.session.State()
	phase := m.Phase()
	card := 0
	if m.session.Len() > 0 {
		card = st.CurrentIndex + 1
	}

	header := panels.RenderHeader(panels.HeaderProps{
		Title:           m.opts.Title,
		Backend:         m.opts.Backend,
		Card:            card,
		Total:           m.session.Len(),
		Remembered:      st.Remembered,
		Forgotten:       st.Forgotten,
		RememberedLabel: m.opts.RememberedLabel,
		ForgotLabel:     m.opts.ForgotLabel,
		PhaseSymbol:     phase.Symbol(),
		PhaseLabel:      phase.Label(),
		Clock:           m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	tab := "play"
	if m.tabs.Active() == TabGallery {
		tab = "gallery"
	}
	footer := panels.RenderFooter(panels.FooterProps{
		Tab:          tab,
		Focus:        m.focus.String(),
		Phase:        phase.Label(),
		Prompting:    m.gallery.Prompting(),
		ConfirmClear: m.confirmClear,
		Status:       m.status,
	}, m.layout.Footer.Width)

	mainW, mainH := innerDims(m.layout.Main)
	actW, actH := innerDims(m.layout.Activity)

	var content string
	if m.tabs.Active() == TabGallery {
		content = m.gallery.View()
	} else {
		content = m.card.View()
	}
	badge := ""
	if m.session.Len() > 0 {
		badge = fmt.Sprintf("%d/%d", card, m.session.Len())
	}
	mainPanel := m.theme.PanelBorderStyle(m.focus == FocusMain).
		Width(mainW).Height(mainH).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			m.tabs.View(badge, fmt.Sprintf("%d", m.gallery.Len())),
			content,
		))

	activityPanel := m.theme.PanelBorderStyle(m.focus == FocusActivity).
		Width(actW).Height(actH).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			timestampStyle.Render("Activity"),
			m.activity.View(),
		))

	body := lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, activityPanel)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// mainDims is the card/gallery content area: the main panel minus its
// border and the tab bar row.
func mainDims(l Layout) (w, h int) {
	w, h = innerDims(l.Main)
	if h > 1 {
		h--
	}
	return w, h
}

// activityDims is the activity log area: the panel minus its border and title.
func activityDims(l Layout) (w, h int) {
	w, h = innerDims(l.Activity)
	if h > 1 {
		h--
	}
	return w, h
}

func accentColor(hex string) lipgloss.Color {
	if hex == "" {
		return lipgloss.Color(defaultAccentColor)
	}
	return lipgloss.Color(hex)
}

func loadDeckCmd(a *deck.Adapter) tea.Cmd {
	return func() tea.Msg {
		return deckLoadedMsg{Records: a.Load(), Uploaded: a.Uploaded()}
	}
}

func ingestCmd(ctx context.Context, a *deck.Adapter, paths []string) tea.Cmd {
	srcs := make([]deck.Source, len(paths))
	for i, p := range paths {
		srcs[i] = deck.SourceFromPath(p)
	}
	return func() tea.Msg {
		return ingestDoneMsg{Results: a.IngestAll(ctx, srcs)}
	}
}

func clearCmd(a *deck.Adapter) tea.Cmd {
	return func() tea.Msg {
		return clearDoneMsg{Err: a.ClearAll()}
	}
}

func saveHistoryCmd(dir string, s recall.Summary) tea.Cmd {
	return func() tea.Msg {
		return historySavedMsg{Err: recall.AppendHistory(dir, s)}
	}
}
