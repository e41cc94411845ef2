package vmath

import "math"

// Vec2 is a float64 2D vector in layer pixel space
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.LenSq()) }
func (v Vec2) Perp() Vec2           { return Vec2{-v.Y, v.X} }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) IsFinite() bool       { return IsFinite(v.X) && IsFinite(v.Y) }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Div(s float64) Vec2 {
	if s == 0 {
		return Vec2{}
	}
	return Vec2{v.X / s, v.Y / s}
}

// Normalize returns the unit vector, zero vector for zero length
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	inv := 1.0 / l
	return Vec2{v.X * inv, v.Y * inv}
}

// Polar builds a vector from angle (radians) and length
func Polar(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

func IsFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Clamp restricts v to [lo, hi]; NaN collapses to lo
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Falloff is the smooth interaction weight (1-d/r)^p, zero outside [0, r)
func Falloff(d, r, p float64) float64 {
	if r <= 0 || d < 0 || d >= r || !IsFinite(d) {
		return 0
	}
	return math.Pow(1-d/r, p)
}

// Rect is an axis-aligned bounds in layer space
type Rect struct {
	Min, Max Vec2
}

func (r Rect) W() float64 { return r.Max.X - r.Min.X }
func (r Rect) H() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p is inside r, max edges exclusive
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Inset shrinks the rect by m on every side, collapsing to the center if too small
func (r Rect) Inset(m float64) Rect {
	out := Rect{Min: Vec2{r.Min.X + m, r.Min.Y + m}, Max: Vec2{r.Max.X - m, r.Max.Y - m}}
	c := r.Center()
	if out.Min.X > out.Max.X {
		out.Min.X, out.Max.X = c.X, c.X
	}
	if out.Min.Y > out.Max.Y {
		out.Min.Y, out.Max.Y = c.Y, c.Y
	}
	return out
}
