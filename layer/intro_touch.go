package layer

import (
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	touchStars     = 250
	touchOrbiters  = 12
	touchReadyMs   = 800
	touchFadeInMs  = 1000
	touchButtonPx  = 48
	touchNebulaPx  = 200
	touchOrbitMin  = 120
	touchOrbitSpan = 40
)

// TouchUniverse waits for the visitor's first touch. Clicks before the button has
// faded in are ignored; the first accepted click plays C5 and reports the touch point
// normalized to the viewport
type TouchUniverse struct {
	introPhase
	stars   *entity.Pool
	orbit   *entity.Pool
	time    float64
	hovered bool
}

func NewTouchUniverse() *TouchUniverse {
	return &TouchUniverse{
		stars: entity.NewPool(touchStars),
		orbit: entity.NewPool(touchOrbiters),
	}
}

func (t *TouchUniverse) Name() string { return IntroTouch }

func (t *TouchUniverse) Mount(env Env) error {
	if err := t.mount(env, 2); err != nil {
		return err
	}
	t.time = 0
	t.hovered = false
	t.stars.Reset()
	t.orbit.Reset()
	for i := 0; i < touchStars; i++ {
		// Anchor is normalized so a resize keeps the field
		norm := vmath.V2(t.rng.Float64(), t.rng.Float64())
		t.stars.Add(&entity.Entity{
			Anchor:     norm,
			Pos:        norm.Mul(t.size),
			Size:       t.rng.Range(0.3, 2.8),
			Brightness: t.rng.Range(0.3, 1),
			PulseSpeed: t.rng.Range(0.3, 2.3),
			Phase:      t.rng.Float64() * 2 * math.Pi,
			Color:      dustColor(t.rng.Float64(), 0.8, 0.95),
			Shape:      entity.MoteShape{Depth: 1},
		})
	}
	k := Scale(t.size.X)
	for i := 0; i < touchOrbiters; i++ {
		t.orbit.Add(&entity.Entity{
			Phase:         float64(i) / touchOrbiters * 2 * math.Pi,
			Radius:        (touchOrbitMin + t.rng.Float64()*touchOrbitSpan) * k,
			RotationSpeed: t.rng.Range(0.2, 0.5),
			Size:          t.rng.Range(1, 3),
			Color:         amber,
			Shape:         entity.MoteShape{Depth: 1},
		})
	}
	return nil
}

func (t *TouchUniverse) Unmount() {
	t.stars.Reset()
	t.orbit.Reset()
	t.hovered = false
}

// Ready reports whether clicks are accepted
func (t *TouchUniverse) Ready() bool { return t.elapsed >= touchReadyMs && !t.done }

func (t *TouchUniverse) Step(f clock.Frame) {
	dt := f.Delta
	t.time += 0.01 * dt
	for _, e := range t.stars.Items() {
		e.Pos = e.Anchor.Mul(t.size)
		e.Opacity = e.Brightness * (0.5 + 0.5*math.Sin(t.time*e.PulseSpeed+e.Phase))
	}
	ctr := t.center()
	for _, e := range t.orbit.Items() {
		e.Phase += e.RotationSpeed * 0.01 * dt
		e.Pos = ctr.Add(vmath.Polar(e.Phase, e.Radius))
	}
	t.advance(f, IntroTouch, 0)
}

func (t *TouchUniverse) Hover(p vmath.Vec2) {
	t.hovered = vmath.Dist(p, t.center()) < touchButtonPx*Scale(t.size.X)*2
}

func (t *TouchUniverse) ResetHover() { t.hovered = false }

func (t *TouchUniverse) Click(p vmath.Vec2) bool {
	if !t.Ready() || !p.IsFinite() {
		return false
	}
	audio.PlayNote(t.env.Tones, audio.C5, audio.TouchNoteDuration)
	touch := vmath.V2(vmath.Clamp(p.X/t.size.X, 0, 1), vmath.Clamp(p.Y/t.size.Y, 0, 1))
	t.env.Logger.Debug("universe touched", zap.Float64("x", touch.X), zap.Float64("y", touch.Y))
	t.finish(IntroTouch, touch)
	return true
}

func (t *TouchUniverse) Render(_ render.Context, c *render.Canvas) {
	ctr := t.center()
	skyWash(c, ctr, math.Max(t.size.X, t.size.Y)*0.7, func(d float64) (render.RGB, float64) {
		if d < 0.5 {
			return render.Lerp(violet, pink, d*2), 0.08 - 0.08*d
		}
		return render.Lerp(pink, amber, (d-0.5)*2), 0.04 - 0.04*d
	})

	for _, e := range t.stars.Items() {
		if e.Color != render.RGBWhite && e.Size > 1.5 {
			c.Glow(e.Pos, e.Size*c.VP.CellW, e.Color, 0.2*e.Opacity)
		}
		c.Glyph(e.Pos, dustRune(e.Size), e.Color, e.Opacity)
	}

	if ptr := t.env.Pointer.Pointer(); ptr.Active {
		c.Glow(ptr.Pos, touchNebulaPx*Scale(t.size.X), violet, 0.12)
	}

	show := t.window(100, touchFadeInMs)
	for _, e := range t.orbit.Items() {
		c.Glyph(e.Pos, '•', e.Color, 0.6*show)
	}

	k := Scale(t.size.X)
	pulse := 1 + 0.08*math.Sin(t.time*20)
	ring := touchButtonPx * k * pulse
	glow := 0.25
	if t.hovered {
		glow = 0.45
	}
	c.Glow(ctr, ring*1.6, amber, glow*show)
	c.Ring(ctr, ring, '·', amber, 0.6*show)
	c.Ring(ctr, ring*1.35, '·', violet, 0.35*show)
	caption(c, ctr, "宇宙に触れる", render.RGBWhite, show)
	caption(c, below(c, ctr, 1), "Touch the Universe", amber, 0.8*show)

	if t.elapsed >= touchReadyMs {
		hint := vmath.V2(ctr.X, t.size.Y-2*c.VP.CellH)
		caption(c, hint, "Click anywhere to begin your journey", render.RGB{R: 170, G: 160, B: 200}, 0.4+0.2*math.Sin(t.time*15))
	}
}
