package layer

import (
	"math"

	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	sparkGravity = 0.1
	sparkFade    = 0.012
)

var fireworkSchemes = [3][]render.RGB{
	{{R: 0xFF, G: 0xD7, B: 0x00}, {R: 0xFF, G: 0xA5, B: 0x00}, {R: 0xFF, G: 0x8C, B: 0x00}}, // gold
	{{R: 0xFF, G: 0x14, B: 0x93}, {R: 0xFF, G: 0x69, B: 0xB4}, {R: 0xFF, G: 0xB6, B: 0xC1}}, // pink
	{{R: 0x93, G: 0x70, B: 0xDB}, {R: 0xBA, G: 0x55, B: 0xD3}, {R: 0xDD, G: 0xA0, B: 0xDD}}, // purple
}

type explosion struct {
	atMillis float64
	pos      vmath.Vec2 // normalized
	count    int
	scheme   int
}

var fireworkShow = []explosion{
	{0, vmath.V2(0.5, 0.5), 120, 0},
	{500, vmath.V2(0.35, 0.45), 80, 1},
	{1000, vmath.V2(0.65, 0.45), 80, 2},
	{1500, vmath.V2(0.5, 0.35), 100, 0},
	{2500, vmath.V2(0.25, 0.55), 90, 1},
	{3500, vmath.V2(0.75, 0.55), 90, 2},
	{4500, vmath.V2(0.5, 0.5), 120, 0},
	{6000, vmath.V2(0.4, 0.4), 85, 1},
	{7500, vmath.V2(0.6, 0.4), 85, 2},
	{9000, vmath.V2(0.5, 0.6), 100, 0},
	{10500, vmath.V2(0.3, 0.5), 80, 1},
	{12000, vmath.V2(0.7, 0.5), 80, 2},
	{13500, vmath.V2(0.5, 0.45), 150, 0},
}

// Fireworks celebrates a delivered message with a timed sequence of explosions.
// It is idle until Launch and returns to idle once the last spark fades
type Fireworks struct {
	env  Env
	size vmath.Vec2
	pool *entity.Pool
	rng  *vmath.FastRand

	running bool
	elapsed float64 // milliseconds since Launch
	next    int     // index into fireworkShow
}

func NewFireworks() *Fireworks { return &Fireworks{pool: entity.NewPool(512)} }

func (f *Fireworks) Name() string              { return "fireworks" }
func (f *Fireworks) Priority() render.Priority { return render.PriorityEffects }

func (f *Fireworks) Mount(env Env) error {
	env.defaults()
	if env.Viewport.Empty() {
		return ErrNoCanvas
	}
	f.env = env
	f.size = env.Viewport.Size()
	f.rng = vmath.NewFastRand(uint64(env.Seed) + 0xf1e2)
	f.pool.Reset()
	f.running = false
	return nil
}

func (f *Fireworks) Resize(vp render.Viewport) { f.size = vp.Size() }

func (f *Fireworks) Unmount() {
	f.running = false
	f.pool.Reset()
}

func (f *Fireworks) Pool() *entity.Pool { return f.pool }

// Launch restarts the show from the first explosion
func (f *Fireworks) Launch() {
	f.running = true
	f.elapsed = 0
	f.next = 0
	if f.env.Tones != nil {
		f.env.Tones.Chime()
	}
}

// Active reports whether explosions are pending or sparks are still visible
func (f *Fireworks) Active() bool {
	return f.running || f.pool.Len() > 0
}

func (f *Fireworks) Step(fr clock.Frame) {
	dt := fr.Delta
	if f.running {
		f.elapsed += dt * entity.FrameMillis
		for f.next < len(fireworkShow) && fireworkShow[f.next].atMillis <= f.elapsed {
			x := fireworkShow[f.next]
			f.explode(x.pos.Mul(f.size), x.count, fireworkSchemes[x.scheme])
			f.next++
		}
		if f.next >= len(fireworkShow) {
			f.running = false
		}
	}

	for _, e := range f.pool.Items() {
		shape, ok := e.Shape.(entity.SparkShape)
		if !ok {
			e.Dead = true
			continue
		}
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		e.Vel.Y += shape.Gravity * dt
		e.Opacity -= shape.Fade * dt
		if e.Opacity <= 0 {
			e.Dead = true
		}
	}
	f.pool.Sweep()
}

func (f *Fireworks) explode(at vmath.Vec2, count int, scheme []render.RGB) {
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		speed := 2 + f.rng.Float64()*4
		f.pool.Add(&entity.Entity{
			Pos:     at,
			Vel:     vmath.Polar(angle, speed),
			Color:   scheme[f.rng.Intn(len(scheme))],
			Size:    2 + f.rng.Float64()*3,
			Opacity: 1,
			Shape:   entity.SparkShape{Gravity: sparkGravity, Fade: sparkFade},
		})
	}
	audio.PlayNote(f.env.Tones, audio.NoteAt(count/10), audio.RippleNoteDuration)
}

func (f *Fireworks) Render(_ render.Context, c *render.Canvas) {
	for _, e := range f.pool.Items() {
		if e.Opacity <= 0 {
			continue
		}
		r := '•'
		if e.Size > 4 {
			r = '✸'
		}
		c.Glyph(e.Pos, r, e.Color, e.Opacity)
	}
}
