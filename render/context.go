package render

import (
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// Context is the per-frame state handed to renderers, passed by value
type Context struct {
	Frame    clock.Frame
	Viewport Viewport

	// Pointer is the last known pointer position in pixel space
	Pointer    vmath.Vec2
	HasPointer bool
}

// Millis is elapsed scene time in milliseconds, the unit twinkle phases use
func (c Context) Millis() float64 {
	return float64(c.Frame.Elapsed.Microseconds()) / 1000.0
}
