package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/living-cosmos/render"
)

// Rect is a cell rectangle
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Inner is the area inside a one-cell border
func (r Rect) Inner() Rect {
	return Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

// centered places a w by h rect in the middle of cols by rows, clipped to fit
func centered(cols, rows, w, h int) Rect {
	w = min(w, cols)
	h = min(h, rows)
	return Rect{X: (cols - w) / 2, Y: (rows - h) / 2, W: w, H: h}
}

type borderSet struct {
	TL, TR, BL, BR, H, V rune
}

var roundBorder = borderSet{'╭', '╮', '╰', '╯', '─', '│'}

// fill paints the rect background, blending over the scene by alpha
func fill(buf *render.Buffer, r Rect, bg render.RGB, alpha float64) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			buf.Set(x, y, ' ', bg, bg, render.BlendAlpha, alpha)
		}
	}
}

// box draws a filled, rounded frame
func box(buf *render.Buffer, r Rect, fg, bg render.RGB, alpha float64) {
	if r.W < 2 || r.H < 2 {
		return
	}
	fill(buf, r, bg, alpha)
	b := roundBorder
	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x1; x++ {
		buf.SetFgOnly(x, r.Y, b.H, fg, false)
		buf.SetFgOnly(x, y1, b.H, fg, false)
	}
	for y := r.Y + 1; y < y1; y++ {
		buf.SetFgOnly(r.X, y, b.V, fg, false)
		buf.SetFgOnly(x1, y, b.V, fg, false)
	}
	buf.SetFgOnly(r.X, r.Y, b.TL, fg, false)
	buf.SetFgOnly(x1, r.Y, b.TR, fg, false)
	buf.SetFgOnly(r.X, y1, b.BL, fg, false)
	buf.SetFgOnly(x1, y1, b.BR, fg, false)
}

// text writes s at x, y keeping the existing background, truncated to w columns
func text(buf *render.Buffer, x, y, w int, s string, fg render.RGB, bold bool) int {
	if w <= 0 {
		return 0
	}
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	n := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		buf.SetFgOnly(x+n, y, r, fg, bold)
		if rw == 2 {
			buf.SetFgOnly(x+n+1, y, ' ', fg, bold)
		}
		n += rw
	}
	return n
}

// textCentered writes s centered within [x, x+w)
func textCentered(buf *render.Buffer, x, y, w int, s string, fg render.RGB, bold bool) {
	sw := min(runewidth.StringWidth(s), w)
	text(buf, x+(w-sw)/2, y, w, s, fg, bold)
}

// wrap splits s into lines of at most w columns, breaking on width only
func wrap(s string, w int) []string {
	if w <= 0 {
		return nil
	}
	var lines []string
	var line []rune
	lw := 0
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, string(line))
			line, lw = line[:0], 0
			continue
		}
		rw := runewidth.RuneWidth(r)
		if lw+rw > w {
			lines = append(lines, string(line))
			line, lw = line[:0], 0
		}
		line = append(line, r)
		lw += rw
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
