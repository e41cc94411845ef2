package layer

import (
	"math"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	expansionStars   = 500
	expansionDelayMs = 200
	expansionMs      = 2500
	expansionFadeMs  = 700
	expansionTotal   = expansionDelayMs + expansionMs + expansionFadeMs
	expansionLines   = 48
	expansionReach   = 6 // scale gained by the nearest stars
)

// Expansion flies the camera out of the signature: stars packed at the center spread
// by depth while radial speed lines streak past, then the phase fades to the cosmos
type Expansion struct {
	introPhase
	pool     *entity.Pool
	progress float64
}

func NewExpansion() *Expansion {
	return &Expansion{pool: entity.NewPool(expansionStars)}
}

func (x *Expansion) Name() string { return IntroExpansion }

func (x *Expansion) Mount(env Env) error {
	if err := x.mount(env, 4); err != nil {
		return err
	}
	x.progress = 0
	x.pool.Reset()
	ctr := x.center()
	for i := 0; i < expansionStars; i++ {
		// Anchor is the offset from center in viewport fractions
		off := vmath.Polar(x.rng.Float64()*2*math.Pi, x.rng.Float64()*0.4*0.2)
		x.pool.Add(&entity.Entity{
			Anchor:     off,
			Pos:        ctr.Add(off.Mul(x.size)),
			Size:       x.rng.Range(0.4, 2.9),
			Brightness: x.rng.Range(0.4, 1),
			Color:      dustColor(x.rng.Float64(), 0.7, 0.92),
			Shape:      entity.MoteShape{Depth: x.rng.Range(0.1, 1)},
		})
	}
	return nil
}

func (x *Expansion) Unmount() { x.pool.Reset() }

// Progress is the linear expansion progress in [0, 1]
func (x *Expansion) Progress() float64 { return x.progress }

func (x *Expansion) Step(f clock.Frame) {
	dt := f.Delta
	x.progress = x.window(expansionDelayMs, expansionMs)
	ease := easeOutCubic(x.progress)
	ctr := x.center()
	for _, e := range x.pool.Items() {
		m, ok := e.Shape.(entity.MoteShape)
		if !ok {
			continue
		}
		grow := 1 + ease*expansionReach*m.Depth
		next := ctr.Add(e.Anchor.Mul(x.size).Scale(grow))
		e.Vel = next.Sub(e.Pos).Div(math.Max(dt, 1e-3))
		e.Pos = next
		e.Opacity = e.Brightness * (1 - x.progress*0.4)
	}
	x.advance(f, IntroExpansion, expansionTotal)
}

func (x *Expansion) Render(_ render.Context, c *render.Canvas) {
	ctr := x.center()
	fade := 1 - x.window(expansionDelayMs+expansionMs, expansionFadeMs)
	ease := easeOutCubic(x.progress)
	k := Scale(x.size.X)
	skyWash(c, ctr, math.Max(x.size.X, x.size.Y)*0.6, func(t float64) (render.RGB, float64) {
		return violet, 0.08 * (1 - t) * (1 - x.progress)
	})

	c.Glow(ctr, 200*k, render.Lerp(amber, render.RGBWhite, 0.5), (1-x.progress)*0.5*fade)

	if x.progress > 0.15 {
		a := (x.progress - 0.15) / 0.85 * 0.35 * fade
		inner := (40 + ease*200) * k
		outer := inner + (60+ease*250)*k
		for i := 0; i < expansionLines; i++ {
			ang := float64(i) / expansionLines * 2 * math.Pi
			c.Line(ctr.Add(vmath.Polar(ang, inner)), ctr.Add(vmath.Polar(ang, outer)), '·', render.RGBWhite, a)
		}
	}

	view := vmath.Rect{Max: x.size}.Inset(-50)
	for _, e := range x.pool.Items() {
		if !view.Contains(e.Pos) {
			continue
		}
		m, _ := e.Shape.(entity.MoteShape)
		if x.progress > 0.1 && e.Vel.Len() > 0.5 {
			c.Line(e.Pos.Sub(e.Vel.Scale(4)), e.Pos, '·', e.Color, 0.5*e.Opacity*fade)
		}
		c.Glyph(e.Pos, dustRune(e.Size*(1+ease*m.Depth*0.8)), e.Color, e.Opacity*fade)
	}
}
