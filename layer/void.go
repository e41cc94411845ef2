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
	rippleGrowth    = 3.5
	rippleMinRadius = 160.0
	rippleRadiusVar = 30.0
	rippleFadePower = 1.4
	rippleCutoff    = 0.01
)

// Void is the full-screen click target beneath the celestial layers.
// Every click it receives becomes an expanding ripple and a random note
type Void struct {
	env   Env
	scale float64
	pool  *entity.Pool
	rng   *vmath.FastRand
}

func NewVoid() *Void { return &Void{pool: entity.NewPool(16)} }

func (v *Void) Name() string              { return "void" }
func (v *Void) Priority() render.Priority { return render.PriorityVoid }

func (v *Void) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	v.env = env
	v.scale = Scale(env.Viewport.Size().X)
	v.rng = vmath.NewFastRand(uint64(env.Seed)*2654435761 + 1)
	v.pool.Reset()
	return nil
}

func (v *Void) Resize(vp render.Viewport) { v.scale = Scale(vp.Size().X) }

func (v *Void) Unmount() { v.pool.Reset() }

// Pool exposes the live ripples for inspection
func (v *Void) Pool() *entity.Pool { return v.pool }

// Receive spawns a ripple at the click position
func (v *Void) Receive(ev ClickEvent) bool {
	if !ev.Pos.IsFinite() {
		return false
	}
	v.pool.Add(&entity.Entity{
		Pos:     ev.Pos,
		Opacity: 1,
		Shape:   entity.RippleShape{MaxRadius: (rippleMinRadius + v.rng.Float64()*rippleRadiusVar) * v.scale},
	})
	n := audio.RandomNote(v.rng.Intn)
	audio.PlayNote(v.env.Tones, n, audio.RippleNoteDuration)
	v.env.Logger.Debug("ripple", zap.Stringer("note", n), zap.Bool("synthetic", ev.Synthetic))
	return true
}

func (v *Void) Step(f clock.Frame) {
	for _, e := range v.pool.Items() {
		stepRipple(e, rippleGrowth*v.scale, f.Delta)
	}
	v.pool.Sweep()
}

// stepRipple grows a ripple and fades it by progress^1.4, marking it dead once invisible
func stepRipple(e *entity.Entity, growth, dt float64) {
	shape, ok := e.Shape.(entity.RippleShape)
	if !ok || shape.MaxRadius <= 0 {
		e.Dead = true
		return
	}
	e.Radius += growth * dt
	progress := e.Radius / shape.MaxRadius
	e.Opacity = math.Max(0, 1-math.Pow(progress, rippleFadePower))
	if e.Opacity <= rippleCutoff {
		e.Dead = true
	}
}

func (v *Void) Render(_ render.Context, c *render.Canvas) {
	col := v.env.Atmosphere.Shown().Primary
	for _, e := range v.pool.Items() {
		if e.Expired() {
			continue
		}
		c.Annulus(e.Pos, e.Radius*0.75, e.Radius*1.15, col, vmath.Clamp(e.Opacity*0.3, 0, 1))
		c.Ring(e.Pos, e.Radius, '·', col, e.Opacity*0.5)
	}
}
