package panels

import (
	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
	"github.com/LISSConsulting/LISSTech.Recall/internal/tui/components"
)

// imagePreview caches the half-block rendering of one data URI at one size,
// so redraws that change nothing skip the decode.
type imagePreview struct {
	payload string
	w, h    int
	out     string
	err     error
}

// render returns the preview of payload at w×h cells, reusing c when none of
// them changed.
func (c imagePreview) render(payload string, w, h int) imagePreview {
	if c.payload == payload && c.w == w && c.h == h && (c.out != "" || c.err != nil) {
		return c
	}
	next := imagePreview{payload: payload, w: w, h: h}
	img, err := deck.DecodeImage(payload)
	if err != nil {
		next.err = err
		return next
	}
	next.out = components.RenderImage(img, w, h)
	return next
}
