// Package recall implements the one-card-at-a-time recall game. A Session
// walks an ordered deck of image payloads; a card must be revealed before it
// can be scored, and finishing the last card emits a Summary and starts the
// deck over.
package recall

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the observable state of a Session.
type State struct {
	CurrentIndex int
	Remembered   int
	Forgotten    int
	Revealed     bool
}

// Summary reports one completed pass through the deck.
type Summary struct {
	ID         string    `json:"id"`
	Remembered int       `json:"remembered"`
	Forgotten  int       `json:"forgotten"`
	Total      int       `json:"total"`
	FinishedAt time.Time `json:"finished_at"`
}

// Session drives the reveal/score loop over a deck. It is not safe for
// concurrent use; the TUI calls it from its Update loop only.
type Session struct {
	deck       []string
	state      State
	onComplete func(Summary)
	now        func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithOnComplete registers a callback invoked with the Summary each time a
// pass completes.
func WithOnComplete(fn func(Summary)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// WithClock overrides time.Now for Summary timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New starts a session over deck at the first card, hidden, with zero counts.
func New(deck []string, opts ...Option) *Session {
	s := &Session{now: time.Now}
	s.deck = cloneDeck(deck)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State { return s.state }

// Len returns the number of cards in the deck.
func (s *Session) Len() int { return len(s.deck) }

// Current returns the payload of the current card. ok is false when the deck
// is empty.
func (s *Session) Current() (payload string, ok bool) {
	if len(s.deck) == 0 {
		return "", false
	}
	return s.deck[s.state.CurrentIndex], true
}

// Reveal toggles whether the current card is shown. No-op on an empty deck.
func (s *Session) Reveal() {
	if len(s.deck) == 0 {
		return
	}
	s.state.Revealed = !s.state.Revealed
}

// MarkRemembered scores the current card as remembered and advances. It is a
// no-op while the card is hidden. completed reports whether this finished the
// pass, in which case summary holds the final counts.
func (s *Session) MarkRemembered() (summary Summary, completed bool) {
	if !s.state.Revealed {
		return Summary{}, false
	}
	s.state.Remembered++
	return s.advance()
}

// MarkForgotten scores the current card as forgotten and advances. Same
// rules as MarkRemembered.
func (s *Session) MarkForgotten() (summary Summary, completed bool) {
	if !s.state.Revealed {
		return Summary{}, false
	}
	s.state.Forgotten++
	return s.advance()
}

func (s *Session) advance() (Summary, bool) {
	if s.state.CurrentIndex < len(s.deck)-1 {
		s.state.CurrentIndex++
		s.state.Revealed = false
		return Summary{}, false
	}
	summary := Summary{
		ID:         uuid.NewString(),
		Remembered: s.state.Remembered,
		Forgotten:  s.state.Forgotten,
		Total:      len(s.deck),
		FinishedAt: s.now(),
	}
	s.state = State{}
	if s.onComplete != nil {
		s.onComplete(summary)
	}
	return summary, true
}

// Reset returns to the first card with zero counts.
func (s *Session) Reset() {
	s.state = State{}
}

// SetDeck swaps in a reloaded deck. Progress is kept when the current index
// is still inside the new deck; otherwise the session resets.
func (s *Session) SetDeck(deck []string) {
	s.deck = cloneDeck(deck)
	if s.state.CurrentIndex >= len(s.deck) {
		s.state = State{}
	}
}

func cloneDeck(deck []string) []string {
	out := make([]string, len(deck))
	copy(out, deck)
	return out
}

// FormatSummary renders s as a one-line message using the configured labels.
func FormatSummary(s Summary, rememberedLabel, forgotLabel string) string {
	return fmt.Sprintf("Pass complete: %s %d, %s %d of %d cards", rememberedLabel, s.Remembered, forgotLabel, s.Forgotten, s.Total)
}
