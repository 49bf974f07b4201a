package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
	"github.com/LISSConsulting/LISSTech.Recall/internal/notify"
	"github.com/LISSConsulting/LISSTech.Recall/internal/recall"
	"github.com/LISSConsulting/LISSTech.Recall/internal/tui"
)

// executePlay runs the TUI until the user quits.
func executePlay(configPath string) (err error) {
	a, err := openApp(configPath, true)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	ctx, cancel := signalContext()
	defer cancel()

	cfg := a.cfg
	notifier := notify.New(cfg.Notifications.URL, cfg.TUI.Title,
		cfg.Deck.RememberedLabel, cfg.Deck.ForgotLabel, cfg.Notifications.OnComplete)

	model := tui.New(tui.Options{
		Adapter:         a.adapter,
		Backend:         cfg.Store.Backend,
		Title:           cfg.TUI.Title,
		AccentColor:     cfg.TUI.AccentColor,
		RememberedLabel: cfg.Deck.RememberedLabel,
		ForgotLabel:     cfg.Deck.ForgotLabel,
		HistoryDir:      a.historyDir(),
		OnComplete:      notifier.Hook,
		Logger:          a.logger.With("component", "tui"),
		Context:         ctx,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, runErr := program.Run(); runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}

// executeAdd ingests paths and reports per-file results. It fails when any
// file could not be stored.
func executeAdd(configPath string, w io.Writer, paths []string) (err error) {
	a, err := openApp(configPath, false)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	ctx, cancel := signalContext()
	defer cancel()
	return runAdd(ctx, w, a.adapter, paths)
}

func executeList(configPath string, w io.Writer) (err error) {
	a, err := openApp(configPath, false)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	_, err = io.WriteString(w, formatImageList(a.adapter.Load()))
	return err
}

func executeClear(configPath string, w io.Writer) (err error) {
	a, err := openApp(configPath, false)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	n := a.store.Count()
	if err := a.adapter.ClearAll(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Removed %d image(s)\n", n)
	return nil
}

func executeStats(configPath string, w io.Writer) (err error) {
	a, err := openApp(configPath, false)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	h, err := recall.LoadHistory(a.cfg.Dir)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, formatStats(h, a.cfg.Deck.RememberedLabel, a.cfg.Deck.ForgotLabel))
	return err
}

// runAdd is the testable core of executeAdd.
func runAdd(ctx context.Context, w io.Writer, adapter *deck.Adapter, paths []string) error {
	srcs := make([]deck.Source, len(paths))
	for i, p := range paths {
		srcs[i] = deck.SourceFromPath(p)
	}
	results := adapter.IngestAll(ctx, srcs)
	if _, err := io.WriteString(w, formatAddResults(results)); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d image(s) not added", failed, len(results))
	}
	return nil
}
