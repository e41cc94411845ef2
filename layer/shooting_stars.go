package layer

import (
	"math"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	burstWarmupMillis = 2000
	burstMinMillis    = 3000
	burstVarMillis    = 2000
	burstMaxStars     = 5
	staggerMinSec     = 0.1
	staggerVarSec     = 0.2
	streakGraceMillis = 500
	streakSpawnArea   = 0.15
	streakTargetY     = 1.1
)

type streakColor struct {
	head, glow render.RGB
}

var streakColors = []streakColor{
	{head: render.RGBWhite, glow: render.RGB{R: 147, G: 197, B: 253}},
	{head: render.RGB{R: 147, G: 197, B: 253}, glow: render.RGB{R: 59, G: 130, B: 246}},
	{head: render.RGB{R: 196, G: 181, B: 253}, glow: violet},
	{head: amber, glow: render.RGB{R: 245, G: 158, B: 11}},
}

// streakProfile is the responsive look of a streak for one screen class
type streakProfile struct {
	angleDeg float64
	size     float64
	duration float64 // seconds before variation
	trail    float64 // pixels
}

func profileFor(width float64) streakProfile {
	switch {
	case width < NarrowWidth:
		return streakProfile{angleDeg: 45, size: 0.8, duration: 1.2, trail: 100}
	case width < MediumWidth:
		return streakProfile{angleDeg: 37, size: 1, duration: 1.0, trail: 140}
	default:
		return streakProfile{angleDeg: 30, size: 1.2, duration: 0.8, trail: 180}
	}
}

// streakOpacity follows the keyframes 0, 1, 1, 0.6, 0 at 0, 5%, 50%, 90%, 100% of the flight
func streakOpacity(p float64) float64 {
	switch {
	case p <= 0 || p >= 1:
		return 0
	case p < 0.05:
		return p / 0.05
	case p < 0.5:
		return 1
	case p < 0.9:
		return 1 - 0.4*(p-0.5)/0.4
	default:
		return 0.6 * (1 - (p-0.9)/0.1)
	}
}

// ShootingStars is the non-interactive overlay of periodic meteor bursts.
// The burst schedule is a countdown in frame units advanced by Step, so nothing
// outlives an Unmount
type ShootingStars struct {
	env     Env
	size    vmath.Vec2
	pool    *entity.Pool
	rng     *vmath.FastRand
	enabled bool

	untilBurst float64 // frame units
}

func NewShootingStars() *ShootingStars {
	return &ShootingStars{pool: entity.NewPool(16)}
}

func (s *ShootingStars) Name() string              { return "shooting_stars" }
func (s *ShootingStars) Priority() render.Priority { return render.PriorityShootingStars }

func (s *ShootingStars) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	s.env = env
	s.size = env.Viewport.Size()
	s.rng = vmath.NewFastRand(uint64(env.Seed)*0x9e3779b97f4a7c15 + 7)
	s.enabled = env.Options.ShootingStars
	s.untilBurst = entity.MillisToFrames(burstWarmupMillis)
	s.pool.Reset()
	return nil
}

func (s *ShootingStars) Resize(vp render.Viewport) { s.size = vp.Size() }

func (s *ShootingStars) Unmount() {
	s.enabled = false
	s.pool.Reset()
}

func (s *ShootingStars) Pool() *entity.Pool { return s.pool }

// Stop ends future bursts; streaks in flight finish normally
func (s *ShootingStars) Stop() { s.enabled = false }

func (s *ShootingStars) Step(f clock.Frame) {
	dt := f.Delta
	if s.enabled {
		s.untilBurst -= dt
		if s.untilBurst <= 0 {
			s.burst()
			s.untilBurst += entity.MillisToFrames(burstMinMillis + s.rng.Float64()*burstVarMillis)
		}
	}

	for _, e := range s.pool.Items() {
		e.Age += dt
		shape, ok := e.Shape.(entity.StreakShape)
		if !ok || e.Age < 0 || shape.Flight <= 0 {
			continue
		}
		p := math.Min(e.Age/shape.Flight, 1)
		e.Pos = e.Anchor.Add(vmath.Polar(shape.Angle, shape.Travel*p))
		e.Opacity = streakOpacity(p)
	}
	s.pool.Sweep()
}

// burst spawns 1-5 streaks staggered 100-300ms apart from the top-left corner
func (s *ShootingStars) burst() {
	prof := profileFor(s.size.X)
	angle := prof.angleDeg * math.Pi / 180
	n := 1 + s.rng.Intn(burstMaxStars)
	for i := 0; i < n; i++ {
		delay := float64(i) * (staggerMinSec + s.rng.Float64()*staggerVarSec)
		start := vmath.V2(s.rng.Float64()*streakSpawnArea*s.size.X, s.rng.Float64()*streakSpawnArea*s.size.Y)
		travel := (streakTargetY*s.size.Y - start.Y) / math.Sin(angle)
		col := streakColors[s.rng.Intn(len(streakColors))]
		duration := entity.MillisToFrames((prof.duration + s.rng.Float64()*0.4) * 1000)

		s.pool.Add(&entity.Entity{
			Pos:      start,
			Anchor:   start,
			Size:     (1 + s.rng.Float64()) * prof.size,
			Color:    col.head,
			Age:      -entity.MillisToFrames(delay * 1000),
			Lifetime: duration + entity.MillisToFrames(streakGraceMillis),
			Shape:    entity.StreakShape{Angle: angle, Trail: prof.trail, Glow: col.glow, Travel: travel, Flight: duration},
		})
	}
}

func (s *ShootingStars) Render(_ render.Context, c *render.Canvas) {
	for _, e := range s.pool.Items() {
		if e.Age < 0 || e.Opacity <= 0 {
			continue
		}
		shape, ok := e.Shape.(entity.StreakShape)
		if !ok {
			continue
		}
		dir := vmath.Polar(shape.Angle, 1)
		const steps = 16
		for k := steps; k >= 1; k-- {
			t := float64(k) / steps // 1 at the tail
			col := render.Lerp(e.Color, shape.Glow, t)
			alpha := e.Opacity * (1 - t)
			c.Glyph(e.Pos.Sub(dir.Scale(shape.Trail*t)), trailRune(t), col, alpha)
		}
		c.Glow(e.Pos, math.Max(e.Size*6, c.VP.CellW), shape.Glow, e.Opacity*0.5)
		c.Glyph(e.Pos, '✦', render.RGBWhite, e.Opacity)
	}
}

func trailRune(t float64) rune {
	switch {
	case t < 0.3:
		return '•'
	case t < 0.7:
		return '∙'
	default:
		return '·'
	}
}
