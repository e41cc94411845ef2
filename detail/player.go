package detail

import "context"

// Player is the external video playback handle owned by the surface.
// Load blocks until playback is ready or ctx ends. Close must be safe to call
// at any point, including while Load is still running
type Player interface {
	Load(ctx context.Context, videoID string) error
	Play() error
	Pause() error
	Close() error
}

// Ender is implemented by players that can report the end of playback
type Ender interface {
	Done() <-chan struct{}
}

// PlayerFactory creates one player per opened selection
type PlayerFactory func() Player
