package recall

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// History is the list of completed passes, oldest first, persisted to
// .recall/history.json.
type History struct {
	Passes []Summary `json:"passes"`
}

const (
	historyDirName  = ".recall"
	historyFileName = "history.json"
)

// HistoryPath returns the history file location under dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, historyDirName, historyFileName)
}

// Totals sums remembered and forgotten counts across all passes.
func (h History) Totals() (remembered, forgotten int) {
	for _, p := range h.Passes {
		remembered += p.Remembered
		forgotten += p.Forgotten
	}
	return remembered, forgotten
}

// Last returns the most recent pass.
func (h History) Last() (Summary, bool) {
	if len(h.Passes) == 0 {
		return Summary{}, false
	}
	return h.Passes[len(h.Passes)-1], true
}

// LoadHistory reads the history under dir. A missing file yields an empty
// History, not an error.
func LoadHistory(dir string) (History, error) {
	data, err := os.ReadFile(HistoryPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return History{}, nil
		}
		return History{}, fmt.Errorf("recall: read history: %w", err)
	}
	var h History
	if jsonErr := json.Unmarshal(data, &h); jsonErr != nil {
		return History{}, fmt.Errorf("recall: parse history: %w", jsonErr)
	}
	return h, nil
}

// SaveHistory writes h under dir, creating .recall if needed. It writes a
// temp file and renames it so readers never see a partial file.
func SaveHistory(dir string, h History) error {
	histDir := filepath.Join(dir, historyDirName)
	if err := os.MkdirAll(histDir, 0755); err != nil {
		return fmt.Errorf("recall: create history dir: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("recall: marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(histDir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("recall: create temp history: %w", err)
	}
	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("recall: write history: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("recall: close history: %w", closeErr)
	}
	if renameErr := os.Rename(tmp.Name(), HistoryPath(dir)); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("recall: finalize history: %w", renameErr)
	}
	return nil
}

// AppendHistory loads the history under dir, appends s and saves it.
func AppendHistory(dir string, s Summary) error {
	h, err := LoadHistory(dir)
	if err != nil {
		return err
	}
	h.Passes = append(h.Passes, s)
	return SaveHistory(dir, h)
}
