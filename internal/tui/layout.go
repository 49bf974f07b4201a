package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer Rect
	Main, Activity Rect
	TooSmall       bool // true when terminal is below the minimum 80×24
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
// Algorithm:
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Activity: 30% of width, clamped to [26, 40], right side
//   - Main: remaining width, full body height
func Calculate(width, height int) Layout {
	if width < 80 || height < 24 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2

	activityW := width * 30 / 100
	if activityW < 26 {
		activityW = 26
	}
	if activityW > 40 {
		activityW = 40
	}
	mainW := width - activityW

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Main:     Rect{X: 0, Y: 1, Width: mainW, Height: bodyH},
		Activity: Rect{X: mainW, Y: 1, Width: activityW, Height: bodyH},
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
