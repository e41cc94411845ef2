package layer

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// Intro layer names, also the Layer field of their IntroPayload
const (
	IntroPreloader = "intro_preloader"
	IntroTouch     = "intro_touch"
	IntroSignature = "intro_signature"
	IntroExpansion = "intro_expansion"
)

var introSky = render.RGB{R: 0x03, G: 0x01, B: 0x0c}

// introPhase is the clock shared by the intro layers. Elapsed time is summed from
// frame deltas, so a stalled or unmounted phase never advances
type introPhase struct {
	env     Env
	size    vmath.Vec2
	rng     *vmath.FastRand
	elapsed float64 // ms
	done    bool
}

func (p *introPhase) mount(env Env, salt uint64) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	p.env = env
	p.size = env.Viewport.Size()
	p.rng = vmath.NewFastRand(uint64(env.Seed)*0x2545f4914f6cdd1d + salt)
	p.elapsed = 0
	p.done = false
	return nil
}

func (p *introPhase) Priority() render.Priority { return render.PriorityBackground }
func (p *introPhase) Resize(vp render.Viewport) { p.size = vp.Size() }

// Elapsed is the phase time in milliseconds
func (p *introPhase) Elapsed() float64 { return p.elapsed }
func (p *introPhase) Done() bool       { return p.done }

// advance moves the phase clock by one frame and reports completion once total is
// reached. total <= 0 never completes on time alone
func (p *introPhase) advance(f clock.Frame, name string, total float64) {
	p.elapsed += f.Delta * entity.FrameMillis
	if total > 0 && !p.done && p.elapsed >= total {
		p.finish(name, vmath.Vec2{})
	}
}

func (p *introPhase) finish(name string, touch vmath.Vec2) {
	p.done = true
	p.env.emit(event.EventIntroAdvanced, name, &event.IntroPayload{Layer: name, Touch: touch})
}

func (p *introPhase) center() vmath.Vec2 { return p.size.Scale(0.5) }

// window is the linear progress of elapsed through [start, start+dur]
func (p *introPhase) window(start, dur float64) float64 {
	if dur <= 0 {
		return 1
	}
	return vmath.Clamp((p.elapsed-start)/dur, 0, 1)
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func hsl(h, s, l float64) render.RGB {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return render.RGB{R: r, G: g, B: b}
}

// dustColor picks gold above goldAt, violet above violetAt, white otherwise
func dustColor(roll, goldAt, violetAt float64) render.RGB {
	switch {
	case roll > violetAt:
		return violet
	case roll > goldAt:
		return amber
	default:
		return render.RGBWhite
	}
}

func dustRune(size float64) rune {
	switch {
	case size > 2.2:
		return '✦'
	case size > 1.4:
		return '•'
	default:
		return '·'
	}
}

// caption centers s on the cell row containing at
func caption(c *render.Canvas, at vmath.Vec2, s string, col render.RGB, alpha float64) {
	if alpha <= 0 || !at.IsFinite() {
		return
	}
	cx, cy := c.VP.ToCell(at)
	x := cx - render.TextWidth(s)/2
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Buf.Set(x, cy, r, col, col, render.BlendAlphaFg, alpha)
		if w == 2 {
			c.Buf.Set(x+1, cy, ' ', col, col, render.BlendAlphaFg, alpha)
		}
		x += w
	}
}

// below offsets p by n cell rows
func below(c *render.Canvas, p vmath.Vec2, n float64) vmath.Vec2 {
	return p.Add(vmath.V2(0, n*c.VP.CellH))
}

// skyWash paints the intro backdrop with a radial tint around center
func skyWash(c *render.Canvas, center vmath.Vec2, reach float64, tint func(t float64) (render.RGB, float64)) {
	c.Wash(func(p vmath.Vec2) (render.RGB, float64) {
		t := math.Min(vmath.Dist(p, center)/reach, 1)
		col, k := tint(t)
		return render.Lerp(introSky, col, k), 1
	})
}
