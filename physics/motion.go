// Package physics advances entity motion by one normalized frame
package physics

import (
	"math"

	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// Mode selects the sign of the pointer interaction
type Mode uint8

const (
	Repel Mode = iota
	Attract
	Ignore
)

// Boundary is the policy applied after integration
type Boundary uint8

const (
	Reflect Boundary = iota
	Wrap
	Despawn
	Unbounded
)

// Params configures one Step; zero values disable the corresponding term
type Params struct {
	InteractionRadius float64
	InteractionForce  float64
	FalloffPower      float64
	Mode              Mode

	HomeRadius float64
	HomeForce  float64
	HomeCap    float64

	OrbitForce float64
	Drift      vmath.Vec2 // constant positional drift per frame unit

	Damping     float64 // per frame unit, 0 disables
	Restitution float64

	Boundary Boundary
	Margin   float64
}

// Pointer is the read-only pointer snapshot shared by all layers
type Pointer struct {
	Pos    vmath.Vec2
	Active bool
}

// Outcome reports boundary events from a Step
type Outcome struct {
	Reflected bool
	Wrapped   bool
	Despawned bool
}

// Step applies, in order: pointer force, home force, orbit drift, damping, integration, boundary
func Step(e *entity.Entity, ptr Pointer, bounds vmath.Rect, p Params, dt float64) Outcome {
	if !vmath.IsFinite(dt) || dt <= 0 {
		return Outcome{}
	}
	sanitize(e)

	if ptr.Active && p.Mode != Ignore && p.InteractionRadius > 0 && ptr.Pos.IsFinite() {
		ApplyPointerForce(e, ptr.Pos, p, dt)
	}

	toAnchor := e.Anchor.Sub(e.Pos)
	anchorDist := toAnchor.Len()
	if anchorDist > 0 {
		dir := toAnchor.Scale(1 / anchorDist)
		if p.HomeForce > 0 && p.HomeRadius > 0 && anchorDist > p.HomeRadius {
			f := (anchorDist - p.HomeRadius) / p.HomeRadius * p.HomeForce * dt
			if p.HomeCap > 0 {
				f = math.Min(f, p.HomeCap)
			}
			e.Vel = e.Vel.Add(dir.Scale(f))
		}
		if p.OrbitForce != 0 {
			e.Vel = e.Vel.Add(dir.Perp().Scale(p.OrbitForce * dt))
		}
	}

	if p.Damping > 0 {
		e.Vel = e.Vel.Scale(math.Pow(p.Damping, dt))
	}

	e.Pos = e.Pos.Add(e.Vel.Add(p.Drift).Scale(dt))
	sanitize(e)

	switch p.Boundary {
	case Reflect:
		return Outcome{Reflected: ReflectBounds(e, bounds.Inset(p.Margin), p.Restitution)}
	case Wrap:
		return Outcome{Wrapped: WrapBounds(e, bounds, p.Margin)}
	case Despawn:
		if Outside(e.Pos, bounds, p.Margin) {
			e.Dead = true
			return Outcome{Despawned: true}
		}
	}
	return Outcome{}
}

// ApplyPointerForce adds the smooth falloff force (1-d/R)^p * k * dt along the pointer axis.
// Zero distance has no direction and is skipped
func ApplyPointerForce(e *entity.Entity, pointer vmath.Vec2, p Params, dt float64) {
	delta := pointer.Sub(e.Pos)
	d := delta.Len()
	if d <= 0 || d >= p.InteractionRadius {
		return
	}
	power := p.FalloffPower
	if power <= 0 {
		power = 1
	}
	f := vmath.Falloff(d, p.InteractionRadius, power) * p.InteractionForce * dt
	dir := delta.Scale(1 / d)
	if p.Mode == Repel {
		f = -f
	}
	e.Vel = e.Vel.Add(dir.Scale(f))
}

// ReflectBoundsX clamps to [minX, maxX] and reverses horizontal velocity scaled by restitution
func ReflectBoundsX(e *entity.Entity, minX, maxX, restitution float64) bool {
	if e.Pos.X < minX {
		e.Pos.X = minX
		e.Vel.X *= -restitution
		return true
	}
	if e.Pos.X > maxX {
		e.Pos.X = maxX
		e.Vel.X *= -restitution
		return true
	}
	return false
}

func ReflectBoundsY(e *entity.Entity, minY, maxY, restitution float64) bool {
	if e.Pos.Y < minY {
		e.Pos.Y = minY
		e.Vel.Y *= -restitution
		return true
	}
	if e.Pos.Y > maxY {
		e.Pos.Y = maxY
		e.Vel.Y *= -restitution
		return true
	}
	return false
}

// ReflectBounds handles both axes, returns true if any reflection occurred
func ReflectBounds(e *entity.Entity, r vmath.Rect, restitution float64) bool {
	rx := ReflectBoundsX(e, r.Min.X, r.Max.X, restitution)
	ry := ReflectBoundsY(e, r.Min.Y, r.Max.Y, restitution)
	return rx || ry
}

// WrapBounds teleports an entity that left the margin-extended bounds to the opposite edge
func WrapBounds(e *entity.Entity, r vmath.Rect, margin float64) bool {
	wrapped := false
	w, h := r.W()+2*margin, r.H()+2*margin
	if w <= 0 || h <= 0 {
		return false
	}
	if e.Pos.X > r.Max.X+margin {
		e.Pos.X -= w
		wrapped = true
	} else if e.Pos.X < r.Min.X-margin {
		e.Pos.X += w
		wrapped = true
	}
	if e.Pos.Y > r.Max.Y+margin {
		e.Pos.Y -= h
		wrapped = true
	} else if e.Pos.Y < r.Min.Y-margin {
		e.Pos.Y += h
		wrapped = true
	}
	return wrapped
}

// Outside reports whether p lies beyond the margin-extended bounds
func Outside(p vmath.Vec2, r vmath.Rect, margin float64) bool {
	return p.X < r.Min.X-margin || p.X > r.Max.X+margin ||
		p.Y < r.Min.Y-margin || p.Y > r.Max.Y+margin
}

// sanitize resets non-finite state so one bad frame cannot poison later ones
func sanitize(e *entity.Entity) {
	if !e.Vel.IsFinite() {
		e.Vel = vmath.Vec2{}
	}
	if !e.Pos.IsFinite() {
		e.Pos = e.Anchor
		if !e.Pos.IsFinite() {
			e.Pos = vmath.Vec2{}
			e.Anchor = vmath.Vec2{}
		}
	}
}
