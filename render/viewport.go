package render

import (
	"math"

	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	// Nominal pixel footprint of one terminal cell, roughly 1:2
	DefaultCellW = 8.0
	DefaultCellH = 16.0
)

// Viewport maps layer pixel space onto the cell grid
type Viewport struct {
	Cols, Rows   int
	CellW, CellH float64
}

func NewViewport(cols, rows int) Viewport {
	return Viewport{Cols: cols, Rows: rows, CellW: DefaultCellW, CellH: DefaultCellH}
}

// Size is the layer space extent in pixels
func (v Viewport) Size() vmath.Vec2 {
	return vmath.V2(float64(v.Cols)*v.CellW, float64(v.Rows)*v.CellH)
}

func (v Viewport) Bounds() vmath.Rect {
	return vmath.Rect{Max: v.Size()}
}

func (v Viewport) Empty() bool {
	return v.Cols <= 0 || v.Rows <= 0 || v.CellW <= 0 || v.CellH <= 0
}

// CellCenter returns the pixel position at the middle of a cell
func (v Viewport) CellCenter(x, y int) vmath.Vec2 {
	return vmath.V2((float64(x)+0.5)*v.CellW, (float64(y)+0.5)*v.CellH)
}

// ToCell projects a pixel position to its cell
func (v Viewport) ToCell(p vmath.Vec2) (int, int) {
	return int(math.Floor(p.X / v.CellW)), int(math.Floor(p.Y / v.CellH))
}

// CellSpan returns the clipped cell rectangle covering a pixel circle
func (v Viewport) CellSpan(c vmath.Vec2, r float64) (x0, y0, x1, y1 int) {
	x0, y0 = v.ToCell(vmath.V2(c.X-r, c.Y-r))
	x1, y1 = v.ToCell(vmath.V2(c.X+r, c.Y+r))
	x0 = max(x0, 0)
	y0 = max(y0, 0)
	x1 = min(x1, v.Cols-1)
	y1 = min(y1, v.Rows-1)
	return
}
