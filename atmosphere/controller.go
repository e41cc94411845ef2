package atmosphere

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/render"
)

// DefaultInterval is how often the hour is re-read
const DefaultInterval = 30 * time.Second

// Controller republishes the atmosphere on a fixed interval or when the override changes.
// Readers take the atomic snapshot; writers are the owning loop
type Controller struct {
	tp       clock.TimeProvider
	loc      *time.Location
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	override *render.RGB
	last     time.Time

	snapshot atomic.Pointer[Atmosphere]
	shown    Atmosphere
}

func NewController(tp clock.TimeProvider, interval time.Duration, logger *zap.Logger) *Controller {
	if tp == nil {
		tp = clock.NewMonotonicTimeProvider()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		tp:       tp,
		loc:      Tokyo(),
		interval: interval,
		logger:   logger.Named("atmosphere"),
	}
	c.recompute(tp.Now())
	c.shown = c.Current()
	return c
}

// Current returns the published snapshot
func (c *Controller) Current() Atmosphere {
	if a := c.snapshot.Load(); a != nil {
		return *a
	}
	return Compute(12, nil)
}

// Shown is the crossfaded value renderers draw with
func (c *Controller) Shown() Atmosphere {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}

// SetOverride sets or clears (nil) the hovered color and republishes immediately
func (c *Controller) SetOverride(col *render.RGB) {
	c.mu.Lock()
	if sameOverride(c.override, col) {
		c.mu.Unlock()
		return
	}
	if col != nil {
		v := *col
		col = &v
	}
	c.override = col
	c.mu.Unlock()
	c.recompute(c.tp.Now())
}

// Tick recomputes when the interval has elapsed, returning true on recompute
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	due := now.Sub(c.last) >= c.interval
	c.mu.Unlock()
	if !due {
		return false
	}
	c.recompute(now)
	return true
}

// Step advances the crossfade by dt frame units
func (c *Controller) Step(dt float64) {
	target := c.Current()
	c.mu.Lock()
	c.shown = Ease(c.shown, target, 0.08*dt)
	c.mu.Unlock()
}

func (c *Controller) recompute(now time.Time) {
	c.mu.Lock()
	hour := now.In(c.loc).Hour()
	a := Compute(hour, c.override)
	c.last = now
	c.mu.Unlock()

	prev := c.snapshot.Swap(&a)
	if prev == nil || !prev.Equal(a) {
		c.logger.Debug("atmosphere updated",
			zap.Int("hour_jst", hour),
			zap.Bool("day", a.Day),
			zap.Bool("override", a.Override),
			zap.Uint8s("primary", []uint8{a.Primary.R, a.Primary.G, a.Primary.B}))
	}
}

func sameOverride(a, b *render.RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
