package render

import "github.com/lixenwraith/living-cosmos/vmath"

// Body is the read-only draw description of one luminous entity
type Body struct {
	Pos     vmath.Vec2
	Size    float64
	Color   RGB
	Opacity float64
	Core    rune
	Hovered bool
	Sparkle bool
}

// DrawBody paints outer glow, mid glow, core, center point, then hover decorations
func (c *Canvas) DrawBody(b Body) {
	if b.Opacity <= 0 || b.Size <= 0 {
		return
	}
	c.Glow(b.Pos, b.Size*4, b.Color, 0.25*b.Opacity)
	c.Glow(b.Pos, b.Size*2.5, b.Color, 0.45*b.Opacity)
	c.Disc(b.Pos, b.Size*0.7, b.Color, 0.8*b.Opacity)

	core := b.Core
	if core == 0 {
		core = '✦'
	}
	c.Glyph(b.Pos, core, Blend(b.Color, RGBWhite, 0.6), b.Opacity)

	if !b.Hovered {
		return
	}
	c.Ring(b.Pos, b.Size*1.1+c.VP.CellW, '·', b.Color, 0.8*b.Opacity)
	if b.Sparkle {
		arm := b.Size*1.5 + c.VP.CellW
		for _, d := range []vmath.Vec2{{X: arm}, {X: -arm}, {Y: arm}, {Y: -arm}} {
			c.Glyph(b.Pos.Add(d), '+', RGBWhite, 0.9*b.Opacity)
		}
	}
}
