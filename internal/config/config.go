// Package config parses recall.toml configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/LISSConsulting/LISSTech.Recall/internal/kv"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "recall.toml"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level recall.toml configuration.
type Config struct {
	Store         StoreConfig         `toml:"store"`
	Deck          DeckConfig          `toml:"deck"`
	TUI           TUIConfig           `toml:"tui"`
	Log           LogConfig           `toml:"log"`
	Notifications NotificationsConfig `toml:"notifications"`

	// Dir is the directory relative paths resolve against: the directory
	// holding recall.toml, or the working directory when none was found.
	Dir string `toml:"-"`
}

// StoreConfig selects and sizes the image store.
type StoreConfig struct {
	Backend    string `toml:"backend" env:"RECALL_STORE_BACKEND"`         // jsonl, sqlite or memory
	Path       string `toml:"path" env:"RECALL_STORE_PATH"`               // directory (jsonl) or file (sqlite)
	QuotaBytes int    `toml:"quota_bytes" env:"RECALL_STORE_QUOTA_BYTES"` // 0 = unlimited
}

// DeckConfig controls the recall game.
type DeckConfig struct {
	RememberedLabel string `toml:"remembered_label" env:"RECALL_DECK_REMEMBERED_LABEL"`
	ForgotLabel     string `toml:"forgot_label" env:"RECALL_DECK_FORGOT_LABEL"`
	KeepHistory     bool   `toml:"keep_history" env:"RECALL_DECK_KEEP_HISTORY"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color" env:"RECALL_TUI_ACCENT_COLOR"`
	Title       string `toml:"title" env:"RECALL_TUI_TITLE"`
}

// LogConfig controls structured logging. The TUI owns stdout, so logs go to
// a file; an empty file disables logging while the TUI runs.
type LogConfig struct {
	Level  string `toml:"level" env:"RECALL_LOG_LEVEL"`   // debug, info, warn, error
	Format string `toml:"format" env:"RECALL_LOG_FORMAT"` // text or json
	File   string `toml:"file" env:"RECALL_LOG_FILE"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL        string `toml:"url" env:"RECALL_NOTIFY_URL"`
	OnComplete bool   `toml:"on_complete" env:"RECALL_NOTIFY_ON_COMPLETE"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(kv.Backends, c.Store.Backend) {
		errs = append(errs, fmt.Errorf("store.backend must be one of %s", strings.Join(kv.Backends, ", ")))
	}
	if c.Store.Backend != kv.BackendMemory && strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, fmt.Errorf("store.path must not be empty for the %s backend", c.Store.Backend))
	}
	if c.Store.QuotaBytes < 0 {
		errs = append(errs, fmt.Errorf("store.quota_bytes must be >= 0 (0 = unlimited)"))
	}

	if strings.TrimSpace(c.Deck.RememberedLabel) == "" {
		errs = append(errs, fmt.Errorf("deck.remembered_label must not be empty"))
	}
	if strings.TrimSpace(c.Deck.ForgotLabel) == "" {
		errs = append(errs, fmt.Errorf("deck.forgot_label must not be empty"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of %s", strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %s", strings.Join(logFormats, ", ")))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Store: StoreConfig{
			Backend:    kv.BackendJSONL,
			Path:       ".recall/images",
			QuotaBytes: kv.DefaultQuota,
		},
		Deck: DeckConfig{
			RememberedLabel: "remembered",
			ForgotLabel:     "forgot",
			KeepHistory:     true,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
			Title:       "Recall",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Notifications: NotificationsConfig{
			URL:        "",
			OnComplete: true,
		},
	}
}

// Resolve returns p joined to c.Dir unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// StorePath returns the resolved store location.
func (c *Config) StorePath() string {
	return c.Resolve(c.Store.Path)
}

// Load reads recall.toml from the given path. If path is empty, it walks up
// from the current working directory looking for recall.toml and falls back
// to Defaults rooted at the working directory when none exists. RECALL_*
// environment variables override file values. Returns an error if the file
// contains unknown keys (likely typos) or the result fails Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		if found == "" {
			return loadDefaults()
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(abs)

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func loadDefaults() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	cfg := Defaults()
	cfg.Dir = wd
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return &cfg, nil
}

// applyEnv overlays RECALL_* environment variables. Unset variables leave
// the current value alone.
func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// findConfig walks up from the current directory looking for recall.toml.
// It returns "" without error when no file is found.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// InitFile writes a default recall.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# recall.toml — image recall trainer configuration
# Place this file in the directory you run recall from (or any parent).

[store]
backend = "jsonl"          # jsonl, sqlite or memory
path = ".recall/images"    # directory for jsonl, database file for sqlite
quota_bytes = 5242880      # 0 = unlimited

[deck]
remembered_label = "remembered"
forgot_label = "forgot"
keep_history = true        # record each completed pass in .recall/history.json

[tui]
accent_color = "#7D56F4"   # hex color for header/accent elements
title = "Recall"

[log]
level = "info"             # debug, info, warn, error
format = "text"            # text or json
file = ""                  # empty = no log file while the TUI runs

[notifications]
url = ""                   # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_complete = true         # notify when a pass through the deck completes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
