// Package entity defines the pooled visual objects and their deterministic layouts
package entity

import (
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/song"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// FrameMillis is the duration of one normalized frame unit
const FrameMillis = 16.67

// Entity is one visual object. Layers own and mutate their entities; renderers only read them
type Entity struct {
	ID int

	Pos    vmath.Vec2
	Vel    vmath.Vec2
	Anchor vmath.Vec2 // home position for attraction

	Size       float64
	Brightness float64
	Opacity    float64
	Radius     float64 // current radius for growing shapes
	Color      render.RGB

	Rotation      float64
	RotationSpeed float64
	Phase         float64
	PulseSpeed    float64

	// Age and Lifetime are in frame units; zero Lifetime is persistent
	Age      float64
	Lifetime float64
	Dead     bool

	Boost Boost
	Shape Shape

	Song      *song.Song
	SongIndex int
}

// Expired reports whether a transient entity should be swept
func (e *Entity) Expired() bool {
	return e.Dead || (e.Lifetime > 0 && e.Age >= e.Lifetime)
}

// Progress is Age/Lifetime clamped to [0, 1], zero for persistent entities
func (e *Entity) Progress() float64 {
	if e.Lifetime <= 0 {
		return 0
	}
	return vmath.Clamp(e.Age/e.Lifetime, 0, 1)
}

// EffectiveBrightness includes any active boost
func (e *Entity) EffectiveBrightness() float64 {
	return e.Brightness * e.Boost.Factor()
}

// Boost is a temporary multiplicative brightness bump that decays with frame time
type Boost struct {
	factor    float64
	remaining float64 // frame units
}

// Start replaces any running boost
func (b *Boost) Start(factor, frames float64) {
	b.factor = factor
	b.remaining = frames
}

// Step consumes frame time; the boost ends when the remaining time reaches zero
func (b *Boost) Step(dt float64) {
	if b.remaining <= 0 {
		return
	}
	b.remaining -= dt
	if b.remaining <= 0 {
		b.remaining = 0
		b.factor = 0
	}
}

func (b *Boost) Active() bool { return b.remaining > 0 }

func (b *Boost) Factor() float64 {
	if b.remaining <= 0 || b.factor <= 0 {
		return 1
	}
	return b.factor
}

// MillisToFrames converts wall time to frame units
func MillisToFrames(ms float64) float64 {
	return ms / FrameMillis
}
