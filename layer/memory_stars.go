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
	starHoverRange = 2.2
	starLinkRange  = 200.0
	starLinkAlpha  = 0.15

	// Layout rings are authored for a ~900px tall view
	starLayoutExtent = 900.0
)

// MemoryStarParams is the motion of the song constellation
var MemoryStarParams = physics.Params{
	InteractionRadius: 200,
	InteractionForce:  0.05,
	FalloffPower:      2.5,
	Mode:              physics.Repel,
	HomeRadius:        400,
	HomeForce:         0.06,
	HomeCap:           0.25,
	OrbitForce:        0.008,
	Damping:           0.98,
	Restitution:       0.4,
	Boundary:          physics.Reflect,
}

// MemoryStars is the song constellation: one star per song on depth rings,
// three to a cluster, orbiting the screen center
type MemoryStars struct {
	env     Env
	size    vmath.Vec2
	pool    *entity.Pool
	arbiter *hover.Arbiter
}

func NewMemoryStars() *MemoryStars {
	return &MemoryStars{
		pool:    entity.NewPool(32),
		arbiter: hover.NewArbiter(hover.Scaled(starHoverRange)),
	}
}

func (m *MemoryStars) Name() string              { return "memory_stars" }
func (m *MemoryStars) Priority() render.Priority { return render.PriorityMemoryStars }

func (m *MemoryStars) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	m.env = env
	m.size = env.Viewport.Size()
	m.pool.Reset()
	m.arbiter.Forget()

	center := m.size.Scale(0.5)
	layout := vmath.Clamp(min(m.size.X, m.size.Y)/starLayoutExtent, 0.35, 1)
	rng := seedFor(env.Seed, 3)
	for i := range env.Songs {
		offset, depth, cluster := entity.ClusterSlot(i, len(env.Songs), rng)
		s := env.Songs[i]
		pos := center.Add(offset.Scale(layout))
		m.pool.Add(&entity.Entity{
			Pos:           pos,
			Anchor:        center,
			Size:          6 + rng.Float64()*8 + float64(depth)*2,
			Brightness:    0.7 + rng.Float64()*0.3,
			Rotation:      rng.Float64() * 2 * math.Pi,
			RotationSpeed: 0.001 + rng.Float64()*0.003,
			Color:         s.RGB(),
			Shape:         entity.StarShape{Depth: depth, Cluster: cluster},
			Song:          &s,
			SongIndex:     i,
		})
	}
	env.Logger.Debug("memory stars mounted", zap.Int("stars", m.pool.Len()), zap.Float64("layout", layout))
	return nil
}

func (m *MemoryStars) Resize(vp render.Viewport) {
	next := vp.Size()
	if m.size.X > 0 && m.size.Y > 0 {
		k := vmath.V2(next.X/m.size.X, next.Y/m.size.Y)
		for _, e := range m.pool.Items() {
			e.Pos = e.Pos.Mul(k)
			e.Anchor = next.Scale(0.5)
		}
	}
	m.size = next
}

func (m *MemoryStars) Unmount() {
	m.arbiter.Forget()
	m.pool.Reset()
}

func (m *MemoryStars) Pool() *entity.Pool      { return m.pool }
func (m *MemoryStars) Hovered() *entity.Entity { return m.arbiter.Current() }

func (m *MemoryStars) Step(f clock.Frame) {
	ptr := m.env.Pointer.Pointer()
	bounds := vmath.Rect{Max: m.size}
	for _, e := range m.pool.Items() {
		p := MemoryStarParams
		p.Margin = e.Size * 1.5
		physics.Step(e, ptr, bounds, p, f.Delta)
		e.Rotation += e.RotationSpeed * f.Delta
	}
	m.updateHover(ptr.Pos, ptr.Active)
}

func (m *MemoryStars) Hover(p vmath.Vec2) { m.updateHover(p, true) }

func (m *MemoryStars) updateHover(p vmath.Vec2, active bool) {
	if tr, changed := m.arbiter.Update(m.pool.Items(), p, active); changed {
		m.emitHover(tr)
	}
}

func (m *MemoryStars) ResetHover() {
	if tr, changed := m.arbiter.Reset(); changed {
		m.emitHover(tr)
	}
}

func (m *MemoryStars) emitHover(tr hover.Transition) {
	if tr.Enter == nil {
		m.env.emit(event.EventHoverChanged, m.Name(), hoverPayload(m.Name(), nil, nil, vmath.Vec2{}))
		return
	}
	col := tr.Enter.Color
	m.env.emit(event.EventHoverChanged, m.Name(), hoverPayload(m.Name(), tr.Enter.Song, &col, tr.Enter.Pos))
}

// Click plays the star's note and selects its song
func (m *MemoryStars) Click(p vmath.Vec2) bool {
	e := hover.HitTest(m.pool.Items(), p, hover.Scaled(starHoverRange))
	if e == nil {
		return false
	}
	audio.PlayNote(m.env.Tones, audio.NoteAt(m.pool.IndexOf(e)), audio.StarNoteDuration)
	if e.Song != nil {
		m.env.Logger.Debug("star selected", zap.String("title", e.Song.Title))
	}
	m.env.emit(event.EventEntitySelected, m.Name(), &event.SelectPayload{
		Layer: m.Name(),
		Kind:  entity.KindStar,
		Form:  "star",
		Song:  e.Song,
		Color: e.Color,
		Pos:   e.Pos,
	})
	return true
}

func (m *MemoryStars) Render(ctx render.Context, c *render.Canvas) {
	items := m.pool.Items()
	for i, a := range items {
		sa, ok := a.Shape.(entity.StarShape)
		if !ok {
			continue
		}
		for _, b := range items[i+1:] {
			sb, ok := b.Shape.(entity.StarShape)
			if !ok || sa.Cluster != sb.Cluster {
				continue
			}
			d := vmath.Dist(a.Pos, b.Pos)
			if d > starLinkRange {
				continue
			}
			alpha := starLinkAlpha * (1 - d/starLinkRange)
			c.Line(a.Pos, b.Pos, '·', a.Color, alpha*1.5)
		}
	}

	hovered := m.arbiter.Current()
	ms := ctx.Millis()
	for _, e := range items {
		isHovered := e == hovered
		col, mult, scale := render.RGBWhite, 0.8, 1.0
		if isHovered {
			col, mult, scale = e.Color, 1.5, 1.3
		}
		twinkle := render.Twinkle(ms, 0.003, e.Rotation*2)
		c.DrawBody(render.Body{
			Pos:     e.Pos,
			Size:    e.Size * scale,
			Color:   col,
			Opacity: vmath.Clamp(e.EffectiveBrightness()*mult*twinkle, 0, 1),
			Hovered: isHovered,
			Sparkle: isHovered && twinkle > 0.8,
		})
	}
}
