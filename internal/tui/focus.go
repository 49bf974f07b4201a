package tui

import "github.com/LISSConsulting/LISSTech.Recall/internal/recall"

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusMain     FocusTarget = iota // Left: card or gallery, per active tab
	FocusActivity                    // Right: activity log
)

// Next returns the next focus target in forward tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % 2
}

// Prev returns the previous focus target in reverse tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + 1) % 2
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusMain:
		return "main"
	case FocusActivity:
		return "activity"
	default:
		return "unknown"
	}
}

// Phase is the displayed state of the game.
type Phase int

const (
	PhaseEmpty    Phase = iota // No images stored
	PhaseHidden                // Card shown face down
	PhaseRevealed              // Card image visible, awaiting a score
	PhaseComplete              // Pass summary on screen
)

// phaseOf derives the Phase from the session state.
func phaseOf(st recall.State, deckLen int, summaryShown bool) Phase {
	switch {
	case summaryShown:
		return PhaseComplete
	case deckLen == 0:
		return PhaseEmpty
	case st.Revealed:
		return PhaseRevealed
	default:
		return PhaseHidden
	}
}

// Label returns a short uppercase label for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseEmpty:
		return "EMPTY"
	case PhaseHidden:
		return "HIDDEN"
	case PhaseRevealed:
		return "REVEALED"
	case PhaseComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol representing the phase.
func (p Phase) Symbol() string {
	switch p {
	case PhaseEmpty:
		return "∅"
	case PhaseHidden:
		return "?"
	case PhaseRevealed:
		return "●"
	case PhaseComplete:
		return "✓"
	default:
		return "?"
	}
}
