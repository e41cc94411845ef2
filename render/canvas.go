package render

import (
	"math"

	"github.com/lixenwraith/living-cosmos/vmath"
)

// Canvas draws pixel-space primitives onto a Buffer through a Viewport
type Canvas struct {
	Buf *Buffer
	VP  Viewport
}

func NewCanvas(buf *Buffer, vp Viewport) *Canvas {
	return &Canvas{Buf: buf, VP: vp}
}

// Glow adds a radial falloff of c to cell backgrounds within radius
func (c *Canvas) Glow(center vmath.Vec2, radius float64, col RGB, alpha float64) {
	if radius <= 0 || alpha <= 0 || !center.IsFinite() {
		return
	}
	x0, y0, x1, y1 := c.VP.CellSpan(center, radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := vmath.Dist(c.VP.CellCenter(x, y), center)
			w := vmath.Falloff(d, radius, 2) * alpha
			if w <= 0.004 {
				continue
			}
			c.Buf.Set(x, y, 0, col, col, BlendScreenBg, w)
		}
	}
}

// Disc alpha-fills cell backgrounds inside radius; a disc smaller than a cell
// still colors the cell containing its center
func (c *Canvas) Disc(center vmath.Vec2, radius float64, col RGB, alpha float64) {
	if alpha <= 0 || !center.IsFinite() {
		return
	}
	x0, y0, x1, y1 := c.VP.CellSpan(center, radius)
	hit := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if vmath.Dist(c.VP.CellCenter(x, y), center) <= radius {
				c.Buf.Set(x, y, 0, col, col, BlendAlphaBg, alpha)
				hit = true
			}
		}
	}
	if !hit {
		cx, cy := c.VP.ToCell(center)
		c.Buf.Set(cx, cy, 0, col, col, BlendAlphaBg, alpha*0.6)
	}
}

// Annulus fades col outward from inner to outer radius on cell backgrounds
func (c *Canvas) Annulus(center vmath.Vec2, inner, outer float64, col RGB, alpha float64) {
	if outer <= inner || alpha <= 0 || !center.IsFinite() {
		return
	}
	x0, y0, x1, y1 := c.VP.CellSpan(center, outer)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := vmath.Dist(c.VP.CellCenter(x, y), center)
			if d < inner || d > outer {
				continue
			}
			w := (1 - (d-inner)/(outer-inner)) * alpha
			if w <= 0.004 {
				continue
			}
			c.Buf.Set(x, y, 0, col, col, BlendScreenBg, w)
		}
	}
}

// Glyph places a rune at a pixel position, blending its foreground
func (c *Canvas) Glyph(p vmath.Vec2, r rune, col RGB, alpha float64) {
	if alpha <= 0 || !p.IsFinite() {
		return
	}
	x, y := c.VP.ToCell(p)
	c.Buf.Set(x, y, r, col, col, BlendAlphaFg, alpha)
}

// Ring marks cells lying on the circle of the given radius
func (c *Canvas) Ring(center vmath.Vec2, radius float64, r rune, col RGB, alpha float64) {
	if radius <= 0 || alpha <= 0 || !center.IsFinite() {
		return
	}
	// Sample the circumference at roughly one point per half cell
	steps := int(2*math.Pi*radius/(c.VP.CellW/2)) + 8
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		x, y := c.VP.ToCell(center.Add(vmath.Polar(a, radius)))
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		c.Buf.Set(x, y, r, col, col, BlendAlphaFg, alpha)
	}
}

// maxLineCells bounds one segment; longer ones are clipped garbage from bad input
const maxLineCells = 4096

// Line draws every cell the segment passes through
func (c *Canvas) Line(a, b vmath.Vec2, r rune, col RGB, alpha float64) {
	if alpha <= 0 || !a.IsFinite() || !b.IsFinite() {
		return
	}
	ca := vmath.V2(a.X/c.VP.CellW, a.Y/c.VP.CellH)
	cb := vmath.V2(b.X/c.VP.CellW, b.Y/c.VP.CellH)
	if vmath.Cells(ca, cb) > maxLineCells {
		return
	}
	t := vmath.NewGridTraverser(ca, cb)
	for t.Next() {
		x, y := t.Pos()
		c.Buf.Set(x, y, r, col, col, BlendAlphaFg, alpha)
	}
}

// Wash tints every cell background, used for sky gradients
func (c *Canvas) Wash(fn func(p vmath.Vec2) (RGB, float64)) {
	for y := 0; y < c.VP.Rows; y++ {
		for x := 0; x < c.VP.Cols; x++ {
			col, a := fn(c.VP.CellCenter(x, y))
			if a > 0 {
				c.Buf.Set(x, y, 0, col, col, BlendAlphaBg, a)
			}
		}
	}
}
