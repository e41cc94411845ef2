// Package atmosphere derives the scene tint from the hour in Japan or a hovered override color
package atmosphere

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/living-cosmos/render"
)

const (
	AccentAlpha = 0.7
	GlowAlpha   = 0.5

	DayStart = 6
	DayEnd   = 18
)

var (
	dayFrom   = [3]float64{255, 215, 0}
	dayTo     = [3]float64{216, 136, 0}
	nightFrom = [3]float64{11, 0, 51}
	nightTo   = [3]float64{75, 0, 130}
)

// Atmosphere is the color triple every tinted layer reads
type Atmosphere struct {
	Primary  render.RGB
	Accent   render.Tint
	Glow     render.Tint
	Day      bool
	Override bool
}

func (a Atmosphere) Equal(b Atmosphere) bool { return a == b }

// IsDay reports whether hour falls in [6, 18)
func IsDay(hour int) bool {
	return hour >= DayStart && hour < DayEnd
}

// Progress is the position within the current half-day in [0, 1)
func Progress(hour int) float64 {
	hour = ((hour % 24) + 24) % 24
	switch {
	case IsDay(hour):
		return float64(hour-DayStart) / 12
	case hour >= DayEnd:
		return float64(hour-DayEnd) / 12
	default:
		return float64(hour+6) / 12
	}
}

// Compute is pure: the same hour and override always give the same triple
func Compute(hour int, override *render.RGB) Atmosphere {
	hour = ((hour % 24) + 24) % 24
	if override != nil {
		return fromPrimary(*override, IsDay(hour), true)
	}
	p := Progress(hour)
	from, to := nightFrom, nightTo
	day := IsDay(hour)
	if day {
		from, to = dayFrom, dayTo
	}
	c := render.RGB{
		R: channel(from[0], to[0], p),
		G: channel(from[1], to[1], p),
		B: channel(from[2], to[2], p),
	}
	return fromPrimary(c, day, false)
}

func fromPrimary(c render.RGB, day, override bool) Atmosphere {
	return Atmosphere{
		Primary:  c,
		Accent:   render.Tint{RGB: c, A: AccentAlpha},
		Glow:     render.Tint{RGB: c, A: GlowAlpha},
		Day:      day,
		Override: override,
	}
}

func channel(from, to, p float64) uint8 {
	return uint8(math.Round(from + (to-from)*p))
}

// Ease moves shown toward target in Lab space by fraction t, used for crossfades
func Ease(shown, target Atmosphere, t float64) Atmosphere {
	if t >= 1 || channelGap(shown.Primary, target.Primary) <= snapGap {
		return target
	}
	a := toColorful(shown.Primary)
	b := toColorful(target.Primary)
	mixed := fromColorful(a.BlendLab(b, math.Max(t, 0)).Clamped())
	if mixed == shown.Primary && t > 0 {
		return target
	}
	return fromPrimary(mixed, target.Day, target.Override)
}

// snapGap is the largest channel difference rounding can leave behind in Ease
const snapGap = 4

func channelGap(a, b render.RGB) int {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return max(d(a.R, b.R), d(a.G, b.G), d(a.B, b.B))
}

func toColorful(c render.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) render.RGB {
	r, g, b := c.RGB255()
	return render.RGB{R: r, G: g, B: b}
}

// Tokyo returns Asia/Tokyo, falling back to a fixed +09:00 zone when tzdata is missing
func Tokyo() *time.Location {
	if loc, err := time.LoadLocation("Asia/Tokyo"); err == nil {
		return loc
	}
	return time.FixedZone("JST", 9*60*60)
}
