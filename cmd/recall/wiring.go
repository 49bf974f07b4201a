package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/LISSConsulting/LISSTech.Recall/internal/config"
	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
	"github.com/LISSConsulting/LISSTech.Recall/internal/kv"
	"github.com/LISSConsulting/LISSTech.Recall/internal/logging"
)

// app bundles what every command needs: config, logger, store and adapter.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   kv.Store
	adapter *deck.Adapter
	closers []io.Closer
}

// openApp loads config and opens the configured store. When the TUI owns the
// terminal, logs go only to log.file; otherwise they fall back to stderr.
func openApp(configPath string, tuiMode bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	var out io.Writer
	switch {
	case cfg.Log.File != "":
		f, err := logging.OpenFile(cfg.Resolve(cfg.Log.File))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, f)
		out = f
	case !tuiMode:
		out = os.Stderr
	}
	a.logger = logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: out})

	store, err := kv.Open(cfg.Store.Backend, cfg.StorePath(),
		kv.WithQuota(cfg.Store.QuotaBytes),
		kv.WithLogger(a.logger.With("component", "kv")),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	a.store = store
	// The store closes before the log file so its last messages land.
	a.closers = append([]io.Closer{store}, a.closers...)
	a.adapter = deck.New(store,
		deck.WithLogger(a.logger.With("component", "deck")),
		deck.WithMaxBytes(cfg.Store.QuotaBytes),
	)

	a.logger.Debug("store opened", "backend", cfg.Store.Backend, "path", cfg.StorePath(), "quota", cfg.Store.QuotaBytes)
	return a, nil
}

// historyDir returns where pass summaries are kept, or "" when disabled.
func (a *app) historyDir() string {
	if !a.cfg.Deck.KeepHistory {
		return ""
	}
	return a.cfg.Dir
}

// Close releases the store and log file.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
