package recall

import (
	"testing"
	"time"
)

func threeCards() []string {
	return []string{"data:a", "data:b", "data:c"}
}

func TestNew_InitialState(t *testing.T) {
	s := New(threeCards())
	if got := s.State(); got != (State{}) {
		t.Errorf("initial state: got %+v, want zero", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len: got %d, want 3", s.Len())
	}
	if p, ok := s.Current(); !ok || p != "data:a" {
		t.Errorf("Current: got %q/%v", p, ok)
	}
}

func TestNew_CopiesDeck(t *testing.T) {
	deck := threeCards()
	s := New(deck)
	deck[0] = "mutated"
	if p, _ := s.Current(); p != "data:a" {
		t.Errorf("session should not alias the caller's slice, got %q", p)
	}
}

func TestReveal_Toggles(t *testing.T) {
	s := New(threeCards())
	s.Reveal()
	if !s.State().Revealed {
		t.Fatal("first Reveal should reveal")
	}
	s.Reveal()
	if s.State().Revealed {
		t.Fatal("second Reveal should hide again")
	}
}

func TestMark_WhileHiddenIsNoOp(t *testing.T) {
	s := New(threeCards())
	before := s.State()

	if _, done := s.MarkRemembered(); done {
		t.Error("MarkRemembered while hidden reported completion")
	}
	if _, done := s.MarkForgotten(); done {
		t.Error("MarkForgotten while hidden reported completion")
	}
	if got := s.State(); got != before {
		t.Errorf("state changed while hidden: %+v → %+v", before, got)
	}
}

func TestMarkRemembered_Advances(t *testing.T) {
	s := New(threeCards())
	s.Reveal()
	s.MarkRemembered()
	want := State{CurrentIndex: 1, Remembered: 1}
	if got := s.State(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if p, _ := s.Current(); p != "data:b" {
		t.Errorf("Current after advance: got %q", p)
	}
}

func TestMarkForgotten_Advances(t *testing.T) {
	s := New(threeCards())
	s.Reveal()
	s.MarkForgotten()
	want := State{CurrentIndex: 1, Forgotten: 1}
	if got := s.State(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFullPass_EmitsSummaryAndResets(t *testing.T) {
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var emitted []Summary
	s := New(threeCards(),
		WithOnComplete(func(sum Summary) { emitted = append(emitted, sum) }),
		WithClock(func() time.Time { return finished }),
	)

	s.Reveal()
	if _, done := s.MarkRemembered(); done {
		t.Fatal("card 1 should not complete the pass")
	}
	if got := s.State(); got != (State{CurrentIndex: 1, Remembered: 1}) {
		t.Fatalf("after card 1: %+v", got)
	}

	s.Reveal()
	if _, done := s.MarkForgotten(); done {
		t.Fatal("card 2 should not complete the pass")
	}
	if got := s.State(); got != (State{CurrentIndex: 2, Remembered: 1, Forgotten: 1}) {
		t.Fatalf("after card 2: %+v", got)
	}

	s.Reveal()
	sum, done := s.MarkRemembered()
	if !done {
		t.Fatal("last card should complete the pass")
	}
	if sum.Remembered != 2 || sum.Forgotten != 1 || sum.Total != 3 {
		t.Errorf("summary: got %+v, want remembered=2 forgotten=1 total=3", sum)
	}
	if !sum.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt: got %v, want %v", sum.FinishedAt, finished)
	}
	if sum.ID == "" {
		t.Error("summary ID should be set")
	}
	if got := s.State(); got != (State{}) {
		t.Errorf("state after completion: got %+v, want zero", got)
	}
	if len(emitted) != 1 || emitted[0] != sum {
		t.Errorf("OnComplete: got %+v", emitted)
	}

	// The deck loops: the next card is the first one, hidden.
	if p, _ := s.Current(); p != "data:a" {
		t.Errorf("Current after loop: got %q", p)
	}
}

func TestSingleCardDeck(t *testing.T) {
	s := New([]string{"only"})
	s.Reveal()
	sum, done := s.MarkForgotten()
	if !done {
		t.Fatal("single card should complete immediately")
	}
	if sum.Forgotten != 1 || sum.Remembered != 0 {
		t.Errorf("summary: %+v", sum)
	}
	if s.State() != (State{}) {
		t.Errorf("state: %+v", s.State())
	}
}

func TestEmptyDeck(t *testing.T) {
	s := New(nil)
	if _, ok := s.Current(); ok {
		t.Error("Current on empty deck should report !ok")
	}
	s.Reveal()
	if s.State().Revealed {
		t.Error("Reveal on empty deck should be a no-op")
	}
	if _, done := s.MarkRemembered(); done {
		t.Error("MarkRemembered on empty deck should be a no-op")
	}
}

func TestSummaryIDsUnique(t *testing.T) {
	s := New([]string{"x"})
	s.Reveal()
	a, _ := s.MarkRemembered()
	s.Reveal()
	b, _ := s.MarkRemembered()
	if a.ID == b.ID {
		t.Errorf("expected distinct pass IDs, both %q", a.ID)
	}
}

func TestSetDeck(t *testing.T) {
	tests := []struct {
		name string
		deck []string
		want State
	}{
		{"index still valid keeps progress", []string{"a", "b", "c", "d"}, State{CurrentIndex: 2, Remembered: 1, Forgotten: 1}},
		{"index out of range resets", []string{"a", "b"}, State{}},
		{"empty deck resets", nil, State{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(threeCards())
			s.Reveal()
			s.MarkRemembered()
			s.Reveal()
			s.MarkForgotten()

			s.SetDeck(tt.deck)
			if got := s.State(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if s.Len() != len(tt.deck) {
				t.Errorf("Len: got %d, want %d", s.Len(), len(tt.deck))
			}
		})
	}
}

func TestReset(t *testing.T) {
	s := New(threeCards())
	s.Reveal()
	s.MarkRemembered()
	s.Reveal()
	s.Reset()
	if s.State() != (State{}) {
		t.Errorf("Reset: got %+v", s.State())
	}
}

func TestFormatSummary(t *testing.T) {
	got := FormatSummary(Summary{Remembered: 2, Forgotten: 1, Total: 3}, "זכרתי", "שכחתי")
	want := "Pass complete: זכרתי 2, שכחתי 1 of 3 cards"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
