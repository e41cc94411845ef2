package render

import "math"

// RGB is a 24-bit cell color
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// Tint is a color with opacity, used for atmosphere accents
type Tint struct {
	RGB
	A float64
}

func (t Tint) Premultiplied() RGB { return Scale(t.RGB, t.A) }

// clamp converts float to uint8
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 || v != v {
		return 0
	}
	return uint8(v)
}

func clampAlpha(a float64) float64 {
	if a != a || a <= 0 {
		return 0
	}
	if a >= 1 {
		return 1
	}
	return a
}

// Blend performs alpha blending: dst*(1-a) + src*a
func Blend(dst, src RGB, alpha float64) RGB {
	a := clampAlpha(alpha)
	inv := 1.0 - a
	return RGB{
		R: clamp(float64(dst.R)*inv + float64(src.R)*a),
		G: clamp(float64(dst.G)*inv + float64(src.G)*a),
		B: clamp(float64(dst.B)*inv + float64(src.B)*a),
	}
}

// Add performs additive blending with clamping
func Add(dst, src RGB) RGB {
	return RGB{
		R: clamp(float64(dst.R) + float64(src.R)),
		G: clamp(float64(dst.G) + float64(src.G)),
		B: clamp(float64(dst.B) + float64(src.B)),
	}
}

// Max keeps the brighter channel
func Max(dst, src RGB) RGB {
	return RGB{
		R: max(dst.R, src.R),
		G: max(dst.G, src.G),
		B: max(dst.B, src.B),
	}
}

// Screen lightens: 1 - (1-d)*(1-s)
func Screen(dst, src RGB) RGB {
	return RGB{
		R: 255 - uint8((uint16(255-dst.R)*uint16(255-src.R))/255),
		G: 255 - uint8((uint16(255-dst.G)*uint16(255-src.G))/255),
		B: 255 - uint8((uint16(255-dst.B)*uint16(255-src.B))/255),
	}
}

// Scale multiplies every channel by f
func Scale(c RGB, f float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * f),
		G: clamp(float64(c.G) * f),
		B: clamp(float64(c.B) * f),
	}
}

// Lerp interpolates from a to b by t in [0, 1]
func Lerp(a, b RGB, t float64) RGB {
	return Blend(a, b, t)
}

// Luma is the perceived brightness in [0, 1]
func Luma(c RGB) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
}

// Twinkle returns the brightness oscillation 0.7 + 0.3*sin(t*k + phase)
func Twinkle(t, k, phase float64) float64 {
	return 0.7 + 0.3*math.Sin(t*k+phase)
}
