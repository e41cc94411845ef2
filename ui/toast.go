package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
)

// Severity selects the toast palette
type Severity uint8

const (
	Info Severity = iota
	Success
	Warning
	Failure
)

var severityIcons = [...]rune{
	Info:    'ℹ',
	Success: '✓',
	Warning: '⚠',
	Failure: '✗',
}

var severityColors = [...]struct{ Fg, Bg, Icon render.RGB }{
	Info:    {Fg: render.RGB{R: 200, G: 200, B: 200}, Bg: render.RGB{R: 40, G: 40, B: 50}, Icon: render.RGB{R: 100, G: 150, B: 255}},
	Success: {Fg: render.RGB{R: 255, G: 240, B: 200}, Bg: render.RGB{R: 45, G: 30, B: 10}, Icon: render.RGB{R: 255, G: 215, B: 0}},
	Warning: {Fg: render.RGB{R: 255, G: 240, B: 200}, Bg: render.RGB{R: 60, G: 50, B: 20}, Icon: render.RGB{R: 255, G: 200, B: 60}},
	Failure: {Fg: render.RGB{R: 255, G: 220, B: 220}, Bg: render.RGB{R: 60, G: 25, B: 25}, Icon: render.RGB{R: 255, G: 80, B: 80}},
}

// Toast is one timed notification. Lines after the first render below it
type Toast struct {
	Lines    []string
	Severity Severity
	left     float64 // frame units
}

// Toasts is a bounded stack, newest at the bottom
type Toasts struct {
	items []*Toast
	max   int
}

func NewToasts(max int) *Toasts {
	if max <= 0 {
		max = 3
	}
	return &Toasts{max: max}
}

// Push shows lines for millis; the oldest toast is dropped when full
func (t *Toasts) Push(sev Severity, millis float64, lines ...string) {
	if len(lines) == 0 {
		return
	}
	if len(t.items) == t.max {
		t.items = t.items[1:]
	}
	t.items = append(t.items, &Toast{Lines: lines, Severity: sev, left: entity.MillisToFrames(millis)})
}

// Step ages toasts by dt frame units and drops expired ones
func (t *Toasts) Step(dt float64) {
	kept := t.items[:0]
	for _, it := range t.items {
		it.left -= dt
		if it.left > 0 {
			kept = append(kept, it)
		}
	}
	clear(t.items[len(kept):])
	t.items = kept
}

func (t *Toasts) Len() int { return len(t.items) }

func (t *Toasts) Items() []*Toast { return t.items }

// render stacks boxes upward from the bottom-right corner
func (t *Toasts) render(buf *render.Buffer) {
	cols, rows := buf.Width(), buf.Height()
	bottom := rows - 1
	for i := len(t.items) - 1; i >= 0; i-- {
		it := t.items[i]
		w := 0
		for _, l := range it.Lines {
			w = max(w, runewidth.StringWidth(l))
		}
		w = min(w+6, cols-2) // border, icon, padding
		h := len(it.Lines) + 2
		r := Rect{X: cols - w - 1, Y: bottom - h + 1, W: w, H: h}
		if r.Y < 0 || r.W < 5 {
			return
		}
		col := severityColors[it.Severity]
		box(buf, r, col.Icon, col.Bg, 0.9)
		in := r.Inner()
		buf.SetFgOnly(in.X+1, in.Y, severityIcons[it.Severity], col.Icon, true)
		for j, l := range it.Lines {
			text(buf, in.X+3, in.Y+j, in.W-4, l, col.Fg, j == 0)
		}
		bottom = r.Y - 1
	}
}
