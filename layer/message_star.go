package layer

import (
	"math"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/hover"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	wishDelayMinMs = 2000
	wishDelayVarMs = 5000
	wishCrossMinMs = 20000
	wishCrossVarMs = 10000
	wishMargin     = 100 // px beyond the edge where a crossing starts and ends
	wishHorizonMin = 0.7
	wishHorizonVar = 0.15
	wishWave       = 20 // px the path rises at mid crossing
	wishRadius     = 32
	wishTrail      = 6
)

// WishHint is shown while the message star is hovered
const WishHint = "流れ星に願いを"

var wishRunes = [...]rune{'✦', '✧', '✶', '✧'}

// wishOpacity follows the keyframes 0, 1, 1, 0 at 0, 10%, 90%, 100% of the crossing
func wishOpacity(p float64) float64 {
	switch {
	case p <= 0 || p >= 1:
		return 0
	case p < 0.1:
		return p / 0.1
	case p < 0.9:
		return 1
	default:
		return (1 - p) / 0.1
	}
}

// MessageStar is a single slow star drifting across the lower sky. Clicking it asks
// for the message prompt. After each crossing it waits 2-7s and crosses again
type MessageStar struct {
	env     Env
	size    vmath.Vec2
	pool    *entity.Pool
	rng     *vmath.FastRand
	arbiter *hover.Arbiter

	untilSpawn float64 // frame units
}

func NewMessageStar() *MessageStar {
	return &MessageStar{pool: entity.NewPool(1), arbiter: hover.NewArbiter(hover.Scaled(1))}
}

func (m *MessageStar) Name() string              { return "message_star" }
func (m *MessageStar) Priority() render.Priority { return render.PriorityWish }

func (m *MessageStar) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	m.env = env
	m.size = env.Viewport.Size()
	m.rng = vmath.NewFastRand(uint64(env.Seed)*0x9e3779b97f4a7c15 + 13)
	m.pool.Reset()
	m.arbiter.Forget()
	m.untilSpawn = m.delay()
	return nil
}

func (m *MessageStar) Resize(vp render.Viewport) { m.size = vp.Size() }

func (m *MessageStar) Unmount() {
	m.pool.Reset()
	m.arbiter.Forget()
}

func (m *MessageStar) Pool() *entity.Pool { return m.pool }

// Hovered reports whether the pointer is over the star
func (m *MessageStar) Hovered() bool { return m.arbiter.Current() != nil }

func (m *MessageStar) delay() float64 {
	return entity.MillisToFrames(wishDelayMinMs + m.rng.Float64()*wishDelayVarMs)
}

func (m *MessageStar) spawn() {
	from, to := float64(-wishMargin), m.size.X+wishMargin
	if m.rng.Float64() < 0.5 {
		from, to = to, from
	}
	spin := 2 * math.Pi
	if m.rng.Float64() < 0.5 {
		spin = -spin
	}
	shape := entity.WishShape{
		FromX:   from,
		ToX:     to,
		Horizon: wishHorizonMin + m.rng.Float64()*wishHorizonVar,
		Spin:    spin,
	}
	m.pool.Add(&entity.Entity{
		Pos:      vmath.V2(from, shape.Horizon*m.size.Y),
		Size:     wishRadius,
		Color:    amber,
		Lifetime: entity.MillisToFrames(wishCrossMinMs + m.rng.Float64()*wishCrossVarMs),
		Shape:    shape,
	})
}

func (m *MessageStar) Step(f clock.Frame) {
	dt := f.Delta
	if m.pool.Len() == 0 {
		m.untilSpawn -= dt
		if m.untilSpawn <= 0 {
			m.spawn()
		}
	}

	for _, e := range m.pool.Items() {
		e.Age += dt
		s, ok := e.Shape.(entity.WishShape)
		if !ok {
			e.Dead = true
			continue
		}
		p := e.Progress()
		e.Pos = vmath.V2(vmath.Lerp(s.FromX, s.ToX, p), s.Horizon*m.size.Y-wishWave*(1-math.Abs(2*p-1)))
		e.Opacity = wishOpacity(p)
		e.Rotation = s.Spin * p
	}
	if m.pool.Sweep() > 0 && m.pool.Len() == 0 {
		m.arbiter.Forget()
		m.untilSpawn = m.delay()
	}

	ptr := m.env.Pointer.Pointer()
	m.arbiter.Update(m.pool.Items(), ptr.Pos, ptr.Active)
}

func (m *MessageStar) Hover(p vmath.Vec2) { m.arbiter.Update(m.pool.Items(), p, true) }

func (m *MessageStar) ResetHover() { m.arbiter.Reset() }

// Click on a visible star requests the message prompt
func (m *MessageStar) Click(p vmath.Vec2) bool {
	e := hover.HitTest(m.pool.Items(), p, hover.Scaled(1))
	if e == nil || e.Opacity <= 0 {
		return false
	}
	m.env.Logger.Debug("message star clicked")
	m.env.emit(event.EventWishRequested, m.Name(), nil)
	return true
}

func (m *MessageStar) Render(_ render.Context, c *render.Canvas) {
	for _, e := range m.pool.Items() {
		s, ok := e.Shape.(entity.WishShape)
		if !ok || e.Opacity <= 0 {
			continue
		}
		k := 1.0
		if m.arbiter.Current() == e {
			k = 1.2
			caption(c, below(c, e.Pos, -2), WishHint, amber, e.Opacity)
		}
		c.Glow(e.Pos, e.Size*1.2*k, amber, 0.35*e.Opacity)

		back := math.Copysign(c.VP.CellW, s.FromX-s.ToX)
		for i := 1; i <= wishTrail; i++ {
			t := float64(i) / wishTrail
			c.Glyph(e.Pos.Add(vmath.V2(back*float64(i), 0)), trailRune(t), amber, e.Opacity*(1-t)*0.6)
		}
		turn := int(math.Abs(e.Rotation)/(math.Pi/2)) % len(wishRunes)
		c.Glyph(e.Pos, wishRunes[turn], render.Lerp(amber, render.RGBWhite, 0.4*(k-1)/0.2), e.Opacity)
	}
}
