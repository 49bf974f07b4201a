package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock paints the top pixel as foreground and the bottom pixel as
// background, so each terminal cell carries two vertically stacked pixels.
const halfBlock = "▀"

// FitSize scales an iw×ih image to fit within cols columns and rows terminal
// rows (2 pixels per row), keeping the aspect ratio. Results are at least 1.
func FitSize(iw, ih, cols, rows int) (w, h int) {
	if iw <= 0 || ih <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	maxH := rows * 2
	sx := float64(cols) / float64(iw)
	sy := float64(maxH) / float64(ih)
	scale := sx
	if sy < scale {
		scale = sy
	}
	w = int(float64(iw) * scale)
	h = int(float64(ih) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// RenderImage draws img with nearest-neighbour sampling into at most cols
// columns and rows lines of half-block characters.
func RenderImage(img image.Image, cols, rows int) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), cols, rows)
	if w == 0 {
		return ""
	}
	sample := func(x, y int) color.Color {
		sx := b.Min.X + x*b.Dx()/w
		sy := b.Min.Y + y*b.Dy()/h
		return img.At(sx, sy)
	}

	lines := make([]string, 0, (h+1)/2)
	for y := 0; y < h; y += 2 {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(sample(x, y)))
			if y+1 < h {
				style = style.Background(hexColor(sample(x, y+1)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// hexColor converts c to a lipgloss color, compositing translucent pixels
// over black.
func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA() // premultiplied, so alpha is already applied
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
