package layer

import "github.com/lixenwraith/living-cosmos/render"

// stop is one color stop of a gradient; Alpha scales the color's contribution
type stop struct {
	At    float64
	Color render.RGB
	Alpha float64
}

// sample interpolates a gradient at t. Stops must be sorted by At.
// Outside the stop range the nearest end stop applies
func sample(stops []stop, t float64) (render.RGB, float64) {
	if len(stops) == 0 {
		return render.RGB{}, 0
	}
	if t <= stops[0].At {
		return stops[0].Color, stops[0].Alpha
	}
	for i := 1; i < len(stops); i++ {
		b := stops[i]
		if t > b.At {
			continue
		}
		a := stops[i-1]
		span := b.At - a.At
		if span <= 0 {
			return b.Color, b.Alpha
		}
		k := (t - a.At) / span
		return render.Lerp(a.Color, b.Color, k), a.Alpha + (b.Alpha-a.Alpha)*k
	}
	last := stops[len(stops)-1]
	return last.Color, last.Alpha
}

// fadeOut ends a gradient in transparency, keeping the last color
func fadeOut(stops ...stop) []stop {
	last := stops[len(stops)-1]
	return append(stops, stop{At: 1, Color: last.Color})
}
