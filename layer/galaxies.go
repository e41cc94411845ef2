package layer

import (
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/hover"
	"github.com/lixenwraith/living-cosmos/physics"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	galaxyCount = 4
	nebulaCount = 5

	celestialTimeRate   = 0.004
	celestialHoverRange = 2.5
	hoveredRotation     = 0.2

	nebulaRepelForce = 0.002 // normalized to screen width
	nebulaRepelPower = 2.5
	nebulaDamping    = 0.95
	nebulaBounce     = 0.3

	boostFactor = 1.5
	boostMillis = 200

	pulseRate   = 0.05
	pulseRadius = 200.0
	pulseAlpha  = 0.6
)

var galaxyPalettes = [galaxyCount]entity.GalaxyShape{
	{Core: render.RGB{R: 255, G: 215, B: 0}, Arm1: render.RGB{R: 255, G: 180, B: 50}, Arm2: render.RGB{R: 255, G: 140, B: 0}, Halo: render.RGB{R: 200, G: 150, B: 50}},
	{Core: violet, Arm1: render.RGB{R: 167, G: 139, B: 250}, Arm2: render.RGB{R: 196, G: 181, B: 253}, Halo: violet},
	{Core: pink, Arm1: render.RGB{R: 251, G: 146, B: 60}, Arm2: render.RGB{R: 239, G: 68, B: 68}, Halo: render.RGB{R: 200, G: 100, B: 100}},
	{Core: render.RGB{R: 59, G: 130, B: 246}, Arm1: render.RGB{R: 147, G: 51, B: 234}, Arm2: render.RGB{R: 88, G: 28, B: 135}, Halo: render.RGB{R: 59, G: 130, B: 246}},
}

var nebulaPalettes = [nebulaCount]entity.NebulaShape{
	{Center: violet, Mid: render.RGB{R: 167, G: 139, B: 250}, Edge: render.RGB{R: 196, G: 181, B: 253}},
	{Center: pink, Mid: render.RGB{R: 251, G: 146, B: 60}, Edge: render.RGB{R: 239, G: 68, B: 68}},
	{Center: render.RGB{R: 59, G: 130, B: 246}, Mid: render.RGB{R: 147, G: 51, B: 234}, Edge: render.RGB{R: 88, G: 28, B: 135}},
	{Center: amber, Mid: amber, Edge: render.RGB{R: 234, G: 88, B: 12}},
	{Center: render.RGB{R: 147, G: 51, B: 234}, Mid: render.RGB{R: 196, G: 181, B: 253}, Edge: render.RGB{R: 167, G: 139, B: 250}},
}

// Galaxies holds the clickable galaxies and nebulas placed on two rings around the center
type Galaxies struct {
	env   Env
	size  vmath.Vec2
	scale float64
	time  float64

	pool    *entity.Pool
	pulses  *entity.Pool
	arbiter *hover.Arbiter
}

func NewGalaxies() *Galaxies {
	return &Galaxies{
		pool:    entity.NewPool(galaxyCount + nebulaCount),
		pulses:  entity.NewPool(1),
		arbiter: hover.NewArbiter(hover.Scaled(celestialHoverRange)),
	}
}

func (g *Galaxies) Name() string              { return "galaxies" }
func (g *Galaxies) Priority() render.Priority { return render.PriorityGalaxies }

func (g *Galaxies) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	g.env = env
	g.size = env.Viewport.Size()
	g.scale = Scale(g.size.X)
	g.time = 0
	g.pool.Reset()
	g.pulses.Reset()
	g.arbiter.Forget()

	rng := seedFor(env.Seed, 2)
	for i := 0; i < galaxyCount; i++ {
		pos := entity.RadialSlot(i, galaxyCount, 0, 0.25, 0.40, rng).Mul(g.size)
		shape := galaxyPalettes[i]
		e := &entity.Entity{
			Pos:           pos,
			Anchor:        pos,
			Size:          18 + rng.Float64()*12,
			Rotation:      rng.Float64() * 2 * math.Pi,
			RotationSpeed: 0.001 + rng.Float64()*0.002,
			Song:          songAt(env.Songs, i),
			SongIndex:     i,
		}
		if rng.Float64() > 0.5 {
			shape.Form = entity.Elliptical
		}
		e.Brightness = 0.7 + rng.Float64()*0.3
		e.Color = shape.Core
		e.Shape = shape
		g.pool.Add(e)
	}
	for i := 0; i < nebulaCount; i++ {
		pos := entity.RadialSlot(i, nebulaCount, math.Pi/4, 0.2, 0.35, rng).Mul(g.size)
		shape := nebulaPalettes[i]
		e := &entity.Entity{
			Pos:           pos,
			Anchor:        pos,
			Size:          20 + rng.Float64()*15,
			Rotation:      rng.Float64() * 2 * math.Pi,
			RotationSpeed: 0.0005 + rng.Float64()*0.001,
			Song:          songAt(env.Songs, i+galaxyCount),
			SongIndex:     i + galaxyCount,
		}
		e.Brightness = 0.6 + rng.Float64()*0.4
		if rng.Float64() > 0.5 {
			shape.Form = entity.Pillar
		}
		e.Color = shape.Center
		e.Shape = shape
		g.pool.Add(e)
	}
	return nil
}

// Resize keeps objects at the same relative screen position
func (g *Galaxies) Resize(vp render.Viewport) {
	next := vp.Size()
	if g.size.X > 0 && g.size.Y > 0 {
		k := vmath.V2(next.X/g.size.X, next.Y/g.size.Y)
		for _, e := range g.pool.Items() {
			e.Pos = e.Pos.Mul(k)
			e.Anchor = e.Anchor.Mul(k)
		}
	}
	g.size = next
	g.scale = Scale(next.X)
}

func (g *Galaxies) Unmount() {
	g.arbiter.Forget()
	g.pool.Reset()
	g.pulses.Reset()
}

func (g *Galaxies) Pool() *entity.Pool { return g.pool }

// Hovered returns the currently hovered object, nil if none
func (g *Galaxies) Hovered() *entity.Entity { return g.arbiter.Current() }

func (g *Galaxies) Step(f clock.Frame) {
	dt := f.Delta
	g.time += celestialTimeRate * dt

	ptr := g.env.Pointer.Pointer()
	g.updateHover(ptr.Pos, ptr.Active)
	hovered := g.arbiter.Current()

	bounds := vmath.Rect{Max: g.size}
	for _, e := range g.pool.Items() {
		e.Boost.Step(dt)
		speed := e.RotationSpeed
		if e == hovered {
			speed *= hoveredRotation
		}
		e.Rotation += speed * dt

		if e.Shape.Kind() != entity.KindNebula {
			continue
		}
		// Nebulas only drift while being pushed by the hovering pointer
		physics.Step(e, physics.Pointer{Pos: ptr.Pos, Active: ptr.Active && e == hovered}, bounds, physics.Params{
			InteractionRadius: e.Size * celestialHoverRange,
			InteractionForce:  nebulaRepelForce * g.size.X,
			FalloffPower:      nebulaRepelPower,
			Mode:              physics.Repel,
			Damping:           nebulaDamping,
			Restitution:       nebulaBounce,
			Boundary:          physics.Reflect,
			Margin:            e.Size,
		}, dt)
	}

	for _, p := range g.pulses.Items() {
		p.Age += dt
	}
	g.pulses.Sweep()
}

func (g *Galaxies) Hover(p vmath.Vec2) { g.updateHover(p, true) }

func (g *Galaxies) updateHover(p vmath.Vec2, active bool) {
	tr, changed := g.arbiter.Update(g.pool.Items(), p, active)
	if changed {
		g.emitHover(tr)
	}
}

func (g *Galaxies) ResetHover() {
	if tr, changed := g.arbiter.Reset(); changed {
		g.emitHover(tr)
	}
}

func (g *Galaxies) emitHover(tr hover.Transition) {
	if tr.Enter == nil {
		g.env.emit(event.EventHoverChanged, g.Name(), hoverPayload(g.Name(), nil, nil, vmath.Vec2{}))
		return
	}
	col := tr.Enter.Color
	g.env.emit(event.EventHoverChanged, g.Name(), hoverPayload(g.Name(), tr.Enter.Song, &col, tr.Enter.Pos))
}

// Click selects the object under p: pulse, tone, brightness boost and a selection event
func (g *Galaxies) Click(p vmath.Vec2) bool {
	e := hover.HitTest(g.pool.Items(), p, hover.Scaled(celestialHoverRange))
	if e == nil {
		return false
	}

	note, pulseCol, form := audio.C5, violet, ""
	switch s := e.Shape.(type) {
	case entity.GalaxyShape:
		form = s.Form.String()
	case entity.NebulaShape:
		note, pulseCol, form = audio.E, pink, s.Form.String()
	}

	g.pulses.Reset()
	g.pulses.Add(&entity.Entity{
		Pos:      e.Pos,
		Color:    pulseCol,
		Lifetime: 1 / pulseRate,
		Shape:    entity.RippleShape{MaxRadius: pulseRadius * g.scale, Filled: true},
	})
	audio.PlayNote(g.env.Tones, note, audio.CelestialDuration)
	e.Boost.Start(boostFactor, entity.MillisToFrames(boostMillis))

	g.env.Logger.Debug("celestial selected", zap.String("form", form), zap.Int("index", e.SongIndex))
	g.env.emit(event.EventEntitySelected, g.Name(), &event.SelectPayload{
		Layer: g.Name(),
		Kind:  e.Shape.Kind(),
		Form:  form,
		Song:  e.Song,
		Color: e.Color,
		Pos:   e.Pos,
	})
	return true
}

func (g *Galaxies) Render(_ render.Context, c *render.Canvas) {
	for _, p := range g.pulses.Items() {
		t := p.Progress()
		radius := t * pulseRadius * g.scale
		alpha := (1 - t) * pulseAlpha
		c.Glow(p.Pos, radius, p.Color, alpha)
	}

	d := &celestialDrawer{c: c, time: g.time, scale: g.scale}
	hovered := g.arbiter.Current()
	for _, e := range g.pool.Items() {
		d.e = e
		d.hovered = e == hovered
		e.Shape.Accept(d)
	}
}

// celestialDrawer renders one galaxy or nebula per Accept call
type celestialDrawer struct {
	c       *render.Canvas
	e       *entity.Entity
	time    float64
	scale   float64
	hovered bool
}

func (d *celestialDrawer) VisitGalaxy(s entity.GalaxyShape) {
	e, c := d.e, d.c
	hoverScale, brightness, glow := 1.0, e.EffectiveBrightness(), 1.0
	if d.hovered {
		hoverScale, brightness, glow = 1.1, brightness*1.5, 1.3
	}
	size := e.Size * hoverScale * d.scale
	twinkle := render.Twinkle(d.time, 2, e.Rotation)
	base := brightness * glow * twinkle

	c.Glow(e.Pos, size*4, s.Halo, vmath.Clamp(base*0.15, 0, 1))
	c.Glow(e.Pos, size*2.5, s.Halo, vmath.Clamp(base*0.4, 0, 1))

	if s.Form == entity.Spiral {
		for arm := 0; arm < 2; arm++ {
			col := s.Arm1
			if arm == 1 {
				col = s.Arm2
			}
			armAngle := float64(arm)*math.Pi + e.Rotation
			const steps = 28
			for i := 0; i < steps; i++ {
				t := float64(i) / steps
				r := size*0.15*t + size*0.55*math.Pow(t, 1.5)
				a := armAngle + t*math.Pi*3.2
				c.Glyph(e.Pos.Add(vmath.Polar(a, r)), armRune(t), col, vmath.Clamp(brightness*twinkle*(1-t*0.4), 0, 1))
			}
		}
	} else {
		c.Glow(e.Pos, size, s.Arm1, vmath.Clamp(base*0.6, 0, 1))
		const steps = 24
		sin, cos := math.Sincos(e.Rotation)
		for i := 0; i < steps; i++ {
			a := float64(i) / steps * 2 * math.Pi
			x, y := math.Cos(a)*size, math.Sin(a)*size*0.6
			p := vmath.V2(x*cos-y*sin, x*sin+y*cos)
			c.Glyph(e.Pos.Add(p), '·', s.Arm2, vmath.Clamp(brightness*twinkle*0.6, 0, 1))
		}
	}

	c.DrawBody(render.Body{
		Pos:     e.Pos,
		Size:    size * 0.5,
		Color:   s.Core,
		Opacity: vmath.Clamp(base, 0, 1),
		Core:    '✺',
		Hovered: d.hovered,
	})
}

func (d *celestialDrawer) VisitNebula(s entity.NebulaShape) {
	e, c := d.e, d.c
	hoverScale, brightness, glow := 1.0, e.EffectiveBrightness(), 1.0
	pulse := 0.9 + 0.1*math.Sin(d.time*2+e.Rotation)
	if d.hovered {
		hoverScale, brightness, glow = 1.3, brightness*1.5, 1.3
		pulse = 0.95 + 0.15*math.Sin(d.time*3+e.Rotation)
	}
	size := e.Size * hoverScale * d.scale
	twinkle := render.Twinkle(d.time, 2, e.Rotation)
	base := brightness * glow * pulse * twinkle

	if s.Form == entity.Cloud {
		layers := []struct {
			r   float64
			col render.RGB
			a   float64
		}{
			{3.5, s.Edge, 0.08},
			{2.8, s.Edge, 0.15},
			{2.0, s.Mid, 0.25},
			{1.4, s.Mid, 0.4},
			{0.9, s.Center, 0.6},
		}
		for _, l := range layers {
			c.Glow(e.Pos, size*l.r, l.col, vmath.Clamp(base*l.a, 0, 1))
		}
	} else {
		c.Glow(e.Pos, size*1.6, s.Edge, vmath.Clamp(base*0.3, 0, 1))
		half := size * 0.4
		axis := vmath.Polar(e.Rotation+math.Pi/2, half)
		c.Line(e.Pos.Sub(axis), e.Pos.Add(axis), '▒', s.Mid, vmath.Clamp(base*0.7, 0, 1))
	}

	c.DrawBody(render.Body{
		Pos:     e.Pos,
		Size:    size * 0.35,
		Color:   s.Center,
		Opacity: vmath.Clamp(base, 0, 1),
		Core:    '❋',
		Hovered: d.hovered,
		Sparkle: d.hovered,
	})
}

func (d *celestialDrawer) VisitStar(entity.StarShape)     {}
func (d *celestialDrawer) VisitRipple(entity.RippleShape) {}
func (d *celestialDrawer) VisitStreak(entity.StreakShape) {}
func (d *celestialDrawer) VisitSpark(entity.SparkShape)   {}
func (d *celestialDrawer) VisitMote(entity.MoteShape)     {}
func (d *celestialDrawer) VisitWish(entity.WishShape)     {}

// armRune thins the arm glyph toward its tip
func armRune(t float64) rune {
	switch {
	case t < 0.35:
		return '∗'
	case t < 0.7:
		return '·'
	default:
		return '.'
	}
}
