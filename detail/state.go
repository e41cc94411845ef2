package detail

import "errors"

var (
	// ErrNoVideo marks a selection without a playable video URL
	ErrNoVideo = errors.New("no playable video")
	// ErrLoadTimeout marks a player that did not become ready in time
	ErrLoadTimeout = errors.New("player load timed out")
	// ErrPlayerClosed is returned by player calls after Close
	ErrPlayerClosed = errors.New("player closed")
)

// State of the detail surface
type State uint8

const (
	StateClosed State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateUnavailable
)

var stateNames = [...]string{
	StateClosed:      "closed",
	StateLoading:     "loading",
	StateReady:       "ready",
	StatePlaying:     "playing",
	StatePaused:      "paused",
	StateUnavailable: "unavailable",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Open reports whether the surface is showing
func (s State) Open() bool { return s != StateClosed }
