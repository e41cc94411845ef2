// Package hover resolves which entity the pointer is over and emits enter/leave transitions
package hover

import (
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// RadiusFunc returns the hit radius of an entity
type RadiusFunc func(e *entity.Entity) float64

// Scaled returns a RadiusFunc of size*k
func Scaled(k float64) RadiusFunc {
	return func(e *entity.Entity) float64 { return e.Size * k }
}

// Nearest returns the index of the entity closest to p with distance strictly below its
// radius; ties resolve to the earliest entity in pool order
func Nearest(items []*entity.Entity, p vmath.Vec2, radius RadiusFunc) (int, bool) {
	best := -1
	bestDist := 0.0
	for i, e := range items {
		if e == nil || e.Expired() {
			continue
		}
		d := vmath.Dist(e.Pos, p)
		if !(d < radius(e)) {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// HitTest resolves a click with the same rule as hover
func HitTest(items []*entity.Entity, p vmath.Vec2, radius RadiusFunc) *entity.Entity {
	if i, ok := Nearest(items, p, radius); ok {
		return items[i]
	}
	return nil
}

// Transition is emitted when the hovered entity changes
type Transition struct {
	Enter *entity.Entity // nil when nothing is hovered now
	Leave *entity.Entity // nil when nothing was hovered before
}

// Arbiter tracks the single hovered entity of one layer
type Arbiter struct {
	radius  RadiusFunc
	current *entity.Entity
}

func NewArbiter(radius RadiusFunc) *Arbiter {
	return &Arbiter{radius: radius}
}

func (a *Arbiter) Current() *entity.Entity { return a.current }

// Update re-evaluates hover; changed is false when the hovered entity stayed the same
func (a *Arbiter) Update(items []*entity.Entity, p vmath.Vec2, active bool) (Transition, bool) {
	var next *entity.Entity
	if active {
		next = HitTest(items, p, a.radius)
	}
	return a.set(next)
}

// Reset clears hover, reporting a leave if something was hovered
func (a *Arbiter) Reset() (Transition, bool) {
	return a.set(nil)
}

// Forget drops the current entity without a transition, used when the pool is rebuilt
func (a *Arbiter) Forget() {
	a.current = nil
}

func (a *Arbiter) set(next *entity.Entity) (Transition, bool) {
	if next == a.current {
		return Transition{}, false
	}
	t := Transition{Enter: next, Leave: a.current}
	a.current = next
	return t, true
}
