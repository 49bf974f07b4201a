package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
)

// ActivityKind classifies an entry in the activity log.
type ActivityKind int

const (
	ActivityInfo ActivityKind = iota
	ActivityUpload
	ActivityRemembered
	ActivityForgot
	ActivityComplete
	ActivityCleared
	ActivityWarn
	ActivityError
)

// Activity is one line of the activity log.
type Activity struct {
	Kind    ActivityKind
	Time    time.Time
	Message string
}

// storeChangedMsg asks the model to re-read the deck from the store. It
// replaces a full restart after uploads or a clear.
type storeChangedMsg struct{}

// deckLoadedMsg carries a fresh snapshot of the ordered deck.
type deckLoadedMsg struct {
	Records  []deck.ImageRecord
	Uploaded []deck.ImageRecord
}

// ingestDoneMsg carries per-file upload results, in input order.
type ingestDoneMsg struct{ Results []deck.IngestResult }

// clearDoneMsg reports the outcome of clearing the store.
type clearDoneMsg struct{ Err error }

// historySavedMsg reports the outcome of persisting a pass summary.
type historySavedMsg struct{ Err error }

// tickMsg is sent every second for the clock.
type tickMsg time.Time
