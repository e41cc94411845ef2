package layer

import (
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/atmosphere"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	bandAngle = -30 * math.Pi / 180
	bandWidth = 0.25

	skyTimeRate     = 0.006
	skyDriftScale   = 0.1
	skyWrap         = 1.1
	skyRepelRadius  = 150.0
	skyRepelForce   = 12.0
	skyRepelLerp    = 0.05
	pointerGlowSize = 150.0

	nebulaDaySpeed   = 1.2
	nebulaNightSpeed = 0.4
)

var (
	skyTop    = render.RGB{R: 0x02, G: 0x00, B: 0x10}
	skyMiddle = render.RGB{R: 0x08, G: 0x04, B: 0x1a}

	violet = render.RGB{R: 139, G: 92, B: 246}
	pink   = render.RGB{R: 236, G: 72, B: 153}
	amber  = render.RGB{R: 251, G: 191, B: 36}

	bandCore = render.RGB{R: 220, G: 225, B: 255}
	bandEdge = render.RGB{R: 200, G: 210, B: 255}
)

// starLook is the per-class palette of background stars
type starLook struct {
	core, glow         render.RGB
	coreMult, glowMult float64
	flare              bool // always flared regardless of size
	flareAbove         float64
}

var starLooks = map[entity.StarClass]starLook{
	entity.BlueGiant:    {core: render.RGB{R: 147, G: 197, B: 253}, glow: render.RGB{R: 59, G: 130, B: 246}, coreMult: 1.4, glowMult: 0.7, flareAbove: 1.5},
	entity.RedGiant:     {core: render.RGB{R: 251, G: 146, B: 60}, glow: render.RGB{R: 239, G: 68, B: 68}, coreMult: 1.3, glowMult: 0.6, flareAbove: 1.5},
	entity.Supergiant:   {core: render.RGB{R: 255, G: 215, B: 0}, glow: render.RGB{R: 251, G: 191, B: 36}, coreMult: 1.5, glowMult: 0.8, flare: true},
	entity.WhiteDwarf:   {core: render.RGB{R: 200, G: 210, B: 255}, glow: render.RGB{R: 147, G: 197, B: 253}, coreMult: 0.9, glowMult: 0.3},
	entity.MainSequence: {core: render.RGBWhite, glow: render.RGB{R: 200, G: 210, B: 255}, coreMult: 1.0, glowMult: 0.4},
}

var depthAlpha = [4]float64{0.4, 0.6, 0.8, 1.0}

// skyNebula is one slow drifting colored wash
type skyNebula struct {
	pos            vmath.Vec2 // normalized center
	radius         float64    // relative to width
	alphaDay       float64
	alphaNight     float64
	speedX, speedY float64
	night1, night2 render.RGB
	day            func(p render.RGB) (render.RGB, render.RGB)
}

func scaleCh(v uint8, f float64) uint8 { return uint8(math.Floor(float64(v) * f)) }

var skyNebulas = []skyNebula{
	{
		pos: vmath.V2(0.2, 0.3), radius: 0.4, alphaDay: 0.08, alphaNight: 0.1, speedX: 0.12, speedY: 0.15,
		night1: render.RGB{R: 88, G: 28, B: 135}, night2: render.RGB{R: 59, G: 130, B: 246},
		day: func(p render.RGB) (render.RGB, render.RGB) {
			return render.RGB{R: p.R, G: scaleCh(p.G, 0.4), B: p.B}, render.RGB{R: scaleCh(p.R, 0.7), G: scaleCh(p.G, 0.5), B: p.B}
		},
	},
	{
		pos: vmath.V2(0.8, 0.4), radius: 0.35, alphaDay: 0.07, alphaNight: 0.08, speedX: 0.15, speedY: 0.12,
		night1: render.RGB{R: 147, G: 51, B: 234}, night2: pink,
		day: func(p render.RGB) (render.RGB, render.RGB) {
			return render.RGB{R: scaleCh(p.R, 0.8), G: scaleCh(p.G, 0.6), B: p.B}, render.RGB{R: p.R, G: scaleCh(p.G, 0.5), B: p.B}
		},
	},
	{
		pos: vmath.V2(0.5, 0.75), radius: 0.45, alphaDay: 0.08, alphaNight: 0.09, speedX: 0.1, speedY: 0.2,
		night1: pink, night2: render.RGB{R: 147, G: 51, B: 234},
		day: func(p render.RGB) (render.RGB, render.RGB) {
			return p, render.RGB{R: scaleCh(p.R, 0.75), G: scaleCh(p.G, 0.75), B: p.B}
		},
	},
}

// Starfield is the background: gradient sky, atmosphere-tinted nebula washes,
// the Milky Way band and a seeded field of drifting, twinkling stars
type Starfield struct {
	env   Env
	vp    render.Viewport
	stars []entity.SkyStar
	rng   *vmath.FastRand
	time  float64
}

func NewStarfield() *Starfield { return &Starfield{} }

func (s *Starfield) Name() string              { return "starfield" }
func (s *Starfield) Priority() render.Priority { return render.PriorityBackground }

func (s *Starfield) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	s.env = env
	s.vp = env.Viewport

	narrow := env.Viewport.Size().X < NarrowWidth
	cfg := entity.SkyConfig{Count: env.Options.Stars, Clusters: 5, BandAngle: bandAngle, BandWidth: bandWidth}
	if narrow {
		cfg.Count, cfg.Clusters = env.Options.StarsSmall, 3
	}
	s.stars = entity.Skyfield(cfg, vmath.NewSeededRand(env.Seed))
	s.rng = vmath.NewFastRand(uint64(env.Seed) ^ 0x5bd1e995)
	s.time = 0
	env.Logger.Debug("starfield mounted", zap.Int("stars", len(s.stars)))
	return nil
}

func (s *Starfield) Resize(vp render.Viewport) { s.vp = vp }

func (s *Starfield) Unmount() {
	s.stars = nil
}

// Stars exposes the simulated stars read-only for tests
func (s *Starfield) Stars() []entity.SkyStar { return s.stars }

func (s *Starfield) Step(f clock.Frame) {
	dt := f.Delta
	s.time += skyTimeRate * dt
	for i := range s.stars {
		st := &s.stars[i]
		st.Pos = st.Pos.Add(st.Vel.Scale(dt * skyDriftScale))
		if st.Pos.X > skyWrap {
			st.Pos.X = -0.1
		} else if st.Pos.X < -0.1 {
			st.Pos.X = skyWrap
		}
		if st.Pos.Y > skyWrap {
			st.Pos.Y = -0.1
			st.Pos.X = s.rng.Float64()
		}
	}
}

func (s *Starfield) Render(ctx render.Context, c *render.Canvas) {
	size := c.VP.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	atm := s.env.Atmosphere.Shown()

	c.Wash(func(p vmath.Vec2) (render.RGB, float64) {
		t := p.Y / size.Y
		if t < 0.5 {
			return render.Lerp(skyTop, skyMiddle, t*2), 1
		}
		return render.Lerp(skyMiddle, skyTop, (t-0.5)*2), 1
	})

	s.renderCenterGlow(c, size)
	s.renderBand(c, size)
	s.renderNebulas(c, size, atm)

	if ctx.HasPointer {
		c.Glow(ctx.Pointer, pointerGlowSize, violet, 0.06)
	}

	for i := range s.stars {
		s.renderStar(ctx, c, i, size)
	}
}

func (s *Starfield) renderCenterGlow(c *render.Canvas, size vmath.Vec2) {
	pulse := 0.8 + 0.2*math.Sin(s.time*0.3)
	center := size.Scale(0.5)
	radius := size.X * 0.5
	stops := fadeOut(
		stop{At: 0, Color: violet, Alpha: 0.018 * pulse},
		stop{At: 0.4, Color: pink, Alpha: 0.009 * pulse},
		stop{At: 0.7, Color: amber, Alpha: 0.005 * pulse},
	)
	c.Wash(func(p vmath.Vec2) (render.RGB, float64) {
		return sample(stops, vmath.Dist(p, center)/radius)
	})
}

func (s *Starfield) renderBand(c *render.Canvas, size vmath.Vec2) {
	alpha := 0.02 + 0.008*math.Sin(s.time*0.2)
	center := size.Scale(0.5)
	sin, cos := math.Sincos(bandAngle)
	stops := []stop{
		{At: 0, Color: bandEdge},
		{At: 0.35, Color: bandEdge, Alpha: alpha * 0.3},
		{At: 0.5, Color: bandCore, Alpha: alpha},
		{At: 0.65, Color: bandEdge, Alpha: alpha * 0.3},
		{At: 1, Color: bandEdge},
	}
	c.Wash(func(p vmath.Vec2) (render.RGB, float64) {
		d := p.Sub(center)
		// Band-local vertical coordinate after rotating by the band angle
		v := -d.X*sin + d.Y*cos
		return sample(stops, (v+size.Y)/(2*size.Y))
	})
}

func (s *Starfield) renderNebulas(c *render.Canvas, size vmath.Vec2, atm atmosphere.Atmosphere) {
	speed := nebulaNightSpeed
	if atm.Day {
		speed = nebulaDaySpeed
	}
	for _, n := range skyNebulas {
		col1, col2, alpha := n.night1, n.night2, n.alphaNight
		if atm.Day {
			col1, col2 = n.day(atm.Primary)
			alpha = n.alphaDay
		}
		alpha *= 0.85 + 0.15*math.Sin(s.time*0.4)
		center := vmath.V2(
			size.X*n.pos.X+math.Sin(s.time*n.speedX*speed)*25,
			size.Y*n.pos.Y+math.Cos(s.time*n.speedY*speed)*20,
		)
		radius := size.X * n.radius
		stops := fadeOut(
			stop{At: 0, Color: col1, Alpha: alpha},
			stop{At: 0.5, Color: col2, Alpha: alpha * 0.5},
		)
		c.Wash(func(p vmath.Vec2) (render.RGB, float64) {
			return sample(stops, vmath.Dist(p, center)/radius)
		})
	}
}

func (s *Starfield) renderStar(ctx render.Context, c *render.Canvas, i int, size vmath.Vec2) {
	st := &s.stars[i]
	phase := s.time*st.Speed*st.PulseSpeed + st.Phase + float64(i)*0.1
	twinkle := 0.5 + 0.5*math.Sin(phase)

	pos := st.Pos.Mul(size)
	if ctx.HasPointer {
		d := pos.Sub(ctx.Pointer)
		dist := d.Len()
		if dist > 0 && dist < skyRepelRadius {
			force := vmath.Falloff(dist, skyRepelRadius, 2) * skyRepelForce * ctx.Frame.Delta
			pos = pos.Add(d.Scale(force / dist * skyRepelLerp * ctx.Frame.Delta))
		}
	}

	alpha := vmath.Clamp(st.Brightness*twinkle, 0, 1)
	radius := st.Size * (0.85 + twinkle*0.3)
	look := starLooks[st.Class]
	coreMult, glowMult := look.coreMult, look.glowMult
	if st.InBand {
		coreMult *= 1.2
		glowMult *= 1.3
	}
	flare := look.flare || (look.flareAbove > 0 && radius > look.flareAbove)
	depth := depthAlpha[min(max(st.Depth, 0), len(depthAlpha)-1)]

	if st.Size > 0.8 {
		outer, mid := radius*3.5, radius*2
		if flare {
			outer, mid = radius*6, radius*4
		}
		c.Glow(pos, math.Max(outer, c.VP.CellW*1.5), look.glow, alpha*glowMult*depth*0.5)
		c.Glow(pos, math.Max(mid, c.VP.CellW), look.glow, alpha*0.4*depth*0.5)
	}
	c.Glyph(pos, starGlyph(radius, flare), look.core, vmath.Clamp(alpha*coreMult*depth, 0, 1))
}

// starGlyph picks a rune by apparent radius
func starGlyph(radius float64, flare bool) rune {
	switch {
	case flare:
		return '✦'
	case radius < 0.8:
		return '.'
	case radius < 1.4:
		return '·'
	case radius < 2.2:
		return '+'
	default:
		return '*'
	}
}
