package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/living-cosmos/vmath"
)

const (
	// DefaultTarget is the nominal frame period that maps to delta 1.0
	DefaultTarget = 16670 * time.Microsecond
	// DefaultMaxDelta caps catch-up after stalls or background tabs
	DefaultMaxDelta = 1.5
)

// Frame is what every subscriber receives for one display refresh
type Frame struct {
	Number  uint64
	Now     time.Time
	Elapsed time.Duration // since the first tick
	Delta   float64       // normalized, 1.0 at the target rate
}

// Delta normalizes the wall-clock gap between two frames against the target period,
// clamped to [0, maxDelta]
func Delta(now, last time.Time, target time.Duration, maxDelta float64) float64 {
	if target <= 0 || last.IsZero() {
		return vmath.Clamp(1, 0, maxDelta)
	}
	raw := float64(now.Sub(last)) / float64(target)
	return vmath.Clamp(raw, 0, maxDelta)
}

// Subscription is the handle returned by Subscribe
type Subscription struct {
	fn        func(Frame)
	cancelled atomic.Bool
	owner     *FrameClock
}

// Cancel stops delivery; after it returns the callback is never invoked again
// Safe to call more than once and from inside the callback
func (s *Subscription) Cancel() {
	if s == nil || !s.cancelled.CompareAndSwap(false, true) {
		return
	}
	s.owner.remove(s)
}

func (s *Subscription) Cancelled() bool {
	return s.cancelled.Load()
}

// FrameClock dispatches one Frame per Tick to its subscribers in subscription order
type FrameClock struct {
	target   time.Duration
	maxDelta float64

	mu   sync.Mutex
	subs []*Subscription

	start  time.Time
	last   time.Time
	frames uint64
}

func New(target time.Duration, maxDelta float64) *FrameClock {
	if target <= 0 {
		target = DefaultTarget
	}
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &FrameClock{target: target, maxDelta: maxDelta}
}

func (c *FrameClock) Subscribe(fn func(Frame)) *Subscription {
	s := &Subscription{fn: fn, owner: c}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	return s
}

func (c *FrameClock) remove(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub == s {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the live subscription count
func (c *FrameClock) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Tick computes the shared delta once and delivers the frame
// The subscriber list is snapshotted; a subscription cancelled mid-tick is skipped
func (c *FrameClock) Tick(now time.Time) Frame {
	c.mu.Lock()
	if c.start.IsZero() {
		c.start = now
	}
	delta := Delta(now, c.last, c.target, c.maxDelta)
	c.last = now
	c.frames++
	f := Frame{
		Number:  c.frames,
		Now:     now,
		Elapsed: now.Sub(c.start),
		Delta:   delta,
	}
	snapshot := make([]*Subscription, len(c.subs))
	copy(snapshot, c.subs)
	c.mu.Unlock()

	for _, s := range snapshot {
		if s.cancelled.Load() {
			continue
		}
		s.fn(f)
	}
	return f
}

// Run ticks on a ticker until ctx is done
// Tick runs on the Run goroutine; callers that share state with subscribers should
// drive Tick from their own loop instead
func (c *FrameClock) Run(ctx context.Context, interval time.Duration, tp TimeProvider) {
	if interval <= 0 {
		interval = c.target
	}
	if tp == nil {
		tp = NewMonotonicTimeProvider()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(tp.Now())
		}
	}
}
