package vmath

import "math"

// GridTraverser is a zero-allocation iterator over every grid cell a segment
// touches (supercover DDA). Coordinates are in cell units: cell (i, j) covers
// [i, i+1) x [j, j+1)
type GridTraverser struct {
	currX, currY     int
	targetX, targetY int
	stepX, stepY     int

	tMaxX, tMaxY     float64
	tDeltaX, tDeltaY float64

	started bool
	done    bool
}

// NewGridTraverser creates an iterator from a to b
func NewGridTraverser(a, b Vec2) GridTraverser {
	t := GridTraverser{
		currX:   int(math.Floor(a.X)),
		currY:   int(math.Floor(a.Y)),
		targetX: int(math.Floor(b.X)),
		targetY: int(math.Floor(b.Y)),
	}
	t.stepX, t.tDeltaX, t.tMaxX = axisStep(a.X, b.X-a.X)
	t.stepY, t.tDeltaY, t.tMaxY = axisStep(a.Y, b.Y-a.Y)
	return t
}

// axisStep returns the step direction, the parametric distance between cell
// borders and the distance to the first border along one axis
func axisStep(p, d float64) (step int, delta, first float64) {
	if d == 0 {
		return 1, math.Inf(1), math.Inf(1)
	}
	frac := p - math.Floor(p)
	if d > 0 {
		return 1, 1 / d, (1 - frac) / d
	}
	return -1, -1 / d, frac / -d
}

// Next advances to the next cell, returning false once the target has been visited
func (t *GridTraverser) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}
	if t.currX == t.targetX && t.currY == t.targetY {
		t.done = true
		return false
	}

	switch {
	case t.tMaxX < t.tMaxY:
		if t.currX != t.targetX {
			t.stepAlongX()
		} else {
			t.stepAlongY()
		}
	case t.tMaxX > t.tMaxY:
		if t.currY != t.targetY {
			t.stepAlongY()
		} else {
			t.stepAlongX()
		}
	default:
		// corner crossing
		if t.currX != t.targetX {
			t.stepAlongX()
		}
		if t.currY != t.targetY {
			t.stepAlongY()
		}
	}
	return true
}

func (t *GridTraverser) stepAlongX() {
	t.currX += t.stepX
	t.tMaxX += t.tDeltaX
}

func (t *GridTraverser) stepAlongY() {
	t.currY += t.stepY
	t.tMaxY += t.tDeltaY
}

// Pos returns the current cell
func (t *GridTraverser) Pos() (int, int) {
	return t.currX, t.currY
}

// Cells is the number of cells a traversal from a to b visits, an upper bound used
// to cap degenerate segments
func Cells(a, b Vec2) int {
	return int(math.Abs(math.Floor(b.X)-math.Floor(a.X))+math.Abs(math.Floor(b.Y)-math.Floor(a.Y))) + 1
}
