package event

import (
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/search"
	"github.com/lixenwraith/living-cosmos/song"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// HoverPayload carries the new hover target; Song and Color are nil on leave
type HoverPayload struct {
	Layer string
	Song  *song.Song
	Color *render.RGB
	Pos   vmath.Vec2
}

// SelectPayload describes a clicked entity for the detail surface
type SelectPayload struct {
	Layer string
	Kind  entity.Kind
	Form  string
	Song  *song.Song
	Color render.RGB
	Pos   vmath.Vec2
}

type SongsPayload struct {
	Songs    []song.Song
	Fallback bool
}

type MessagePayload struct {
	Err     error
	Warning string
}

type SearchPayload struct {
	Query   string
	Results []search.Result
	Err     error
}

type PlayerPayload struct {
	State string
	Song  *song.Song
	Err   error
}

// IntroPayload names the intro layer that finished. Touch is the normalized point the
// visitor touched, set only by the touch phase
type IntroPayload struct {
	Layer string
	Touch vmath.Vec2
}
