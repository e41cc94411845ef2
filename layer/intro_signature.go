package layer

import (
	"math"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	signatureMotes    = 300
	signatureOuter    = 80
	signatureShockMs  = 800
	signatureFlashMs  = 150
	signatureGatherAt = 200
	signatureGatherMs = 2200
	signatureTextAt   = 2500
	signatureTextMs   = 600
	signatureTotal    = 5500
	signatureRings    = 4
	signatureTrail    = 6 // frame units of motion drawn behind a mote
)

// StardustSignature gathers dust from the touch point into the signature at the
// center. A shockwave and a white flash mark the touch; the name shows from 2.5s
type StardustSignature struct {
	introPhase
	touch  vmath.Vec2 // normalized
	origin vmath.Vec2
	pool   *entity.Pool
	time   float64
	gather float64
}

// NewStardustSignature starts the gathering at touch, given in viewport fractions.
// Points outside the unit square are clamped
func NewStardustSignature(touch vmath.Vec2) *StardustSignature {
	if !touch.IsFinite() {
		touch = vmath.V2(0.5, 0.5)
	}
	touch = vmath.V2(vmath.Clamp(touch.X, 0, 1), vmath.Clamp(touch.Y, 0, 1))
	return &StardustSignature{touch: touch, pool: entity.NewPool(signatureMotes + signatureOuter)}
}

func (s *StardustSignature) Name() string { return IntroSignature }

// Origin is the touch point in pixels
func (s *StardustSignature) Origin() vmath.Vec2 { return s.origin }

func (s *StardustSignature) Mount(env Env) error {
	if err := s.mount(env, 3); err != nil {
		return err
	}
	s.time = 0
	s.gather = 0
	s.origin = s.touch.Mul(s.size)
	s.pool.Reset()
	k := Scale(s.size.X)
	ctr := s.center()
	spawn := func(startMin, startSpan, toMin, toSpan, speedMin, speedMax float64) {
		start := s.origin.Add(vmath.Polar(s.rng.Float64()*2*math.Pi, (startMin+s.rng.Float64()*startSpan)*k))
		to := ctr.Add(vmath.Polar(s.rng.Float64()*2*math.Pi, (toMin+s.rng.Float64()*toSpan)*k))
		hue := 35 + s.rng.Float64()*25
		if s.rng.Float64() > 0.8 {
			hue = 270 + s.rng.Float64()*40
		}
		s.pool.Add(&entity.Entity{
			Pos:        start,
			Anchor:     start,
			Size:       s.rng.Range(0.8, 2.8),
			Brightness: s.rng.Range(0.5, 1),
			Color:      hsl(hue, 0.9, 0.7),
			Shape:      entity.MoteShape{To: to, Speed: s.rng.Range(speedMin, speedMax), Depth: 1, Travel: true},
		})
	}
	for i := 0; i < signatureMotes; i++ {
		spawn(80, 300, 15, 140, 0.012, 0.032)
	}
	for i := 0; i < signatureOuter; i++ {
		spawn(200, 300, 160, 40, 0.008, 0.02)
	}
	return nil
}

func (s *StardustSignature) Unmount() { s.pool.Reset() }

// Gather is the shared gathering progress in [0, 1]
func (s *StardustSignature) Gather() float64 { return s.gather }

func (s *StardustSignature) Step(f clock.Frame) {
	dt := f.Delta
	s.time += 0.02 * dt
	s.gather = s.window(signatureGatherAt, signatureGatherMs)
	gathering := s.elapsed >= signatureGatherAt
	for _, e := range s.pool.Items() {
		m, ok := e.Shape.(entity.MoteShape)
		if !ok {
			continue
		}
		if !gathering {
			e.Opacity = e.Brightness * 0.4
			continue
		}
		// Age counts frames since gathering began
		e.Age += dt
		ease := easeOutCubic(math.Min(e.Age*m.Speed, 1) * s.gather)
		next := e.Anchor.Add(m.To.Sub(e.Anchor).Scale(ease))
		e.Vel = next.Sub(e.Pos).Div(math.Max(dt, 1e-3))
		e.Pos = next
		e.Opacity = e.Brightness * (0.4 + 0.6*ease)
	}
	s.advance(f, IntroSignature, signatureTotal)
}

func (s *StardustSignature) Render(_ render.Context, c *render.Canvas) {
	ctr := s.center()
	reach := math.Max(s.size.X, s.size.Y)
	skyWash(c, ctr, reach*0.6, func(t float64) (render.RGB, float64) {
		return violet, 0.06 * s.gather * (1 - t)
	})

	if s.elapsed < signatureShockMs {
		left := 1 - s.elapsed/signatureShockMs
		r := s.elapsed / signatureShockMs * reach * 1.5
		for i := 0; i < signatureRings; i++ {
			fi := float64(i)
			col := render.Lerp(amber, violet, fi/(signatureRings-1))
			c.Ring(s.origin, r*(1-fi*0.12), '∘', col, left*(1-fi*0.25)*0.7)
		}
	}

	k := Scale(s.size.X)
	c.Glow(ctr, 60*k*(0.5+s.gather), amber, 0.25*s.gather)
	for _, e := range s.pool.Items() {
		if e.Vel.Len() > 0.5 {
			c.Line(e.Pos.Sub(e.Vel.Scale(signatureTrail)), e.Pos, '·', e.Color, 0.35*e.Opacity)
		}
		c.Glyph(e.Pos, dustRune(e.Size), e.Color, e.Opacity)
	}

	if s.elapsed >= signatureTextAt {
		a := s.window(signatureTextAt, signatureTextMs)
		pulse := 1 + 0.2*math.Sin(s.time*2.5)
		c.Glow(ctr, 40*k*pulse, amber, 0.4*a)
		caption(c, ctr, "つむ", render.RGBWhite, a)
	}

	if s.elapsed < signatureFlashMs {
		a := 0.7 * (1 - s.elapsed/signatureFlashMs)
		c.Wash(func(vmath.Vec2) (render.RGB, float64) { return render.RGBWhite, a })
	}
}
