// Package layer implements the independently animated planes of the scene.
// Every layer owns its entity pool and is stepped by its own clock subscription;
// the only state shared between layers is the pointer snapshot and the atmosphere
package layer

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/atmosphere"
	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/physics"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/song"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// ErrNoCanvas is returned by Mount when the viewport has no drawable area
var ErrNoCanvas = errors.New("layer: no drawable area")

// Layer is one plane of the scene
type Layer interface {
	Name() string
	Priority() render.Priority
	// Mount builds the entity pool; it is called once before the first Step
	Mount(env Env) error
	Step(f clock.Frame)
	Render(ctx render.Context, c *render.Canvas)
	Resize(vp render.Viewport)
	// Unmount drops all entities and pending spawns
	Unmount()
}

// Interactive layers take part in hover arbitration and click hit-testing
type Interactive interface {
	Hover(p vmath.Vec2)
	// Click reports whether an entity claimed the click
	Click(p vmath.Vec2) bool
	ResetHover()
}

// ClickEvent is a click delivered to a Target. Synthetic clicks were forwarded by the
// compositor after no layer above claimed them
type ClickEvent struct {
	Pos       vmath.Vec2
	Synthetic bool
}

// Target receives clicks nothing above it handled
type Target interface {
	Receive(ev ClickEvent) bool
}

// PointerSource is the read-only pointer broadcast
type PointerSource interface {
	Pointer() physics.Pointer
}

// AtmosphereSource is the read-only atmosphere broadcast
type AtmosphereSource interface {
	Shown() atmosphere.Atmosphere
}

// Options are the tunables layers read at mount
type Options struct {
	Stars         int // background stars on wide screens
	StarsSmall    int // background stars below the narrow breakpoint
	ShootingStars bool
}

func DefaultOptions() Options {
	return Options{Stars: 150, StarsSmall: 80, ShootingStars: true}
}

// Env is everything a layer may depend on
type Env struct {
	Viewport   render.Viewport
	Seed       int64
	Songs      []song.Song
	Pointer    PointerSource
	Atmosphere AtmosphereSource
	Tones      audio.Tones
	Queue      *event.Queue
	Logger     *zap.Logger
	Options    Options
}

func (e *Env) defaults() {
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Tones == nil {
		e.Tones = audio.Silent{}
	}
	if e.Pointer == nil {
		e.Pointer = noPointer{}
	}
	if e.Atmosphere == nil {
		e.Atmosphere = staticAtmosphere{atmosphere.Compute(12, nil)}
	}
	if e.Options.Stars <= 0 {
		e.Options.Stars = DefaultOptions().Stars
	}
	if e.Options.StarsSmall <= 0 {
		e.Options.StarsSmall = DefaultOptions().StarsSmall
	}
}

func (e *Env) emit(t event.Type, source string, payload any) {
	if e.Queue != nil {
		e.Queue.Emit(t, source, payload)
	}
}

type noPointer struct{}

func (noPointer) Pointer() physics.Pointer { return physics.Pointer{} }

type staticAtmosphere struct{ a atmosphere.Atmosphere }

func (s staticAtmosphere) Shown() atmosphere.Atmosphere { return s.a }

// Screen breakpoints in layer pixels
const (
	NarrowWidth = 768
	MediumWidth = 1024
	baseWidth   = 1920
)

// Scale is the responsive size factor for celestial objects: width relative to 1920,
// floored at 0.6, and boosted on narrow screens for touchable targets
func Scale(width float64) float64 {
	base := width / baseWidth
	if width < NarrowWidth {
		return math.Max(base*1.5, 0.5)
	}
	return math.Max(base, 0.6)
}

// seedFor derives an independent deterministic stream per layer
func seedFor(seed int64, salt int64) *vmath.SeededRand {
	return vmath.NewSeededRand(seed*31 + salt)
}

// songAt cycles through songs; nil when there are none
func songAt(songs []song.Song, i int) *song.Song {
	if len(songs) == 0 {
		return nil
	}
	s := songs[i%len(songs)]
	return &s
}

func hoverPayload(layer string, s *song.Song, col *render.RGB, pos vmath.Vec2) *event.HoverPayload {
	return &event.HoverPayload{Layer: layer, Song: s, Color: col, Pos: pos}
}
