package render

import "github.com/mattn/go-runewidth"

// Buffer is the per-frame cell compositor with touch tracking
type Buffer struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
}

func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
		b.touched = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.touched = b.touched[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Clear resets all cells using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Fg: RGBWhite, Bg: RgbBackground}
	b.touched[0] = false
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.touched); filled *= 2 {
		copy(b.touched[filled:], b.touched[:filled])
	}
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set composites a cell with the given blend mode; rune 0 keeps the existing glyph
func (b *Buffer) Set(x, y int, r rune, fg, bg RGB, mode BlendMode, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]

	op := uint8(mode) & 0x0F
	flags := uint8(mode) & 0xF0

	if r != 0 {
		dst.Rune = r
	}
	if flags&flagBg != 0 {
		dst.Bg = apply(op, dst.Bg, bg, alpha)
		b.touched[idx] = true
	}
	if flags&flagFg != 0 {
		dst.Fg = apply(op, dst.Fg, fg, alpha)
	}
}

// SetFgOnly writes rune and foreground, keeping the background
func (b *Buffer) SetFgOnly(x, y int, r rune, fg RGB, bold bool) {
	if !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]
	dst.Rune = r
	dst.Fg = fg
	dst.Bold = bold
}

// SetWithBg writes an opaque cell
func (b *Buffer) SetWithBg(x, y int, r rune, fg, bg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	b.cells[idx] = Cell{Rune: r, Fg: fg, Bg: bg}
	b.touched[idx] = true
}

// Get returns the cell at x, y; zero Cell out of bounds
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Text writes a string left to right from x, y, clipped at the right edge.
// Wide runes occupy two columns; the trailing column is blanked. Returns columns used
func (b *Buffer) Text(x, y int, s string, fg, bg RGB) int {
	n := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.SetWithBg(x+n, y, r, fg, bg)
		if w == 2 {
			b.SetWithBg(x+n+1, y, ' ', fg, bg)
		}
		n += w
	}
	return n
}

// TextWidth is the column count Text would use for s
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Cells exposes the finalized frame, row-major
func (b *Buffer) Cells() []Cell {
	b.finalize()
	return b.cells
}

func (b *Buffer) finalize() {
	for i := range b.cells {
		if !b.touched[i] {
			b.cells[i].Bg = RgbBackground
		}
	}
}
