// Package compositor stacks the scene layers in a fixed z-order and is the single
// coordinator between them. Layers never talk to each other: they read the pointer
// snapshot published here and emit events the compositor drains once per frame
package compositor

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/atmosphere"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/detail"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/layer"
	"github.com/lixenwraith/living-cosmos/physics"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// ErrNothingMounted is returned when every layer failed to mount
var ErrNothingMounted = errors.New("compositor: no layer mounted")

// Overlay is a UI surface above every layer. It sees clicks first
type Overlay interface {
	render.Renderer
	Click(p vmath.Vec2) bool
}

// Detail is the selection surface the compositor opens on EntitySelected
type Detail interface {
	Open(sel event.SelectPayload)
	Close()
	State() detail.State
}

// Atmosphere receives the hover override
type Atmosphere interface {
	layer.AtmosphereSource
	SetOverride(col *render.RGB)
}

// Handler processes one drained event
type Handler func(ev event.Event)

type mounted struct {
	layer layer.Layer
	sub   *clock.Subscription
}

// Compositor owns layer lifetimes, click routing and the per-frame event drain.
// All methods except Pointer are called from the scene loop goroutine
type Compositor struct {
	clock      *clock.FrameClock
	orch       *render.Orchestrator
	queue      *event.Queue
	detail     Detail
	atmosphere Atmosphere
	logger     *zap.Logger

	layers   []layer.Layer // registered, in z-order
	live     []mounted     // successfully mounted, in z-order
	overlays []Overlay
	handlers map[event.Type][]Handler

	pointer atomic.Pointer[physics.Pointer]

	hovers    map[string]*event.HoverPayload
	selection *event.SelectPayload
}

// Config wires a Compositor; Detail and Atmosphere may be nil
type Config struct {
	Clock        *clock.FrameClock
	Orchestrator *render.Orchestrator
	Queue        *event.Queue
	Detail       Detail
	Atmosphere   Atmosphere
	Logger       *zap.Logger
}

func New(cfg Config) *Compositor {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Queue == nil {
		cfg.Queue = event.NewQueue()
	}
	c := &Compositor{
		clock:      cfg.Clock,
		orch:       cfg.Orchestrator,
		queue:      cfg.Queue,
		detail:     cfg.Detail,
		atmosphere: cfg.Atmosphere,
		logger:     cfg.Logger.Named("compositor"),
		handlers:   make(map[event.Type][]Handler),
		hovers:     make(map[string]*event.HoverPayload),
	}
	c.pointer.Store(&physics.Pointer{})
	return c
}

// Add registers layers; they take effect on the next Mount
func (c *Compositor) Add(ls ...layer.Layer) {
	c.layers = append(c.layers, ls...)
	slices.SortStableFunc(c.layers, func(a, b layer.Layer) int { return int(a.Priority()) - int(b.Priority()) })
}

// AddOverlay registers a UI surface drawn above all layers
func (c *Compositor) AddOverlay(o Overlay, p render.Priority) {
	c.overlays = append(c.overlays, o)
	if c.orch != nil {
		c.orch.Register(o, p)
	}
}

// Handle subscribes h to an event type. Handlers run inside Dispatch in registration order
func (c *Compositor) Handle(t event.Type, h Handler) {
	c.handlers[t] = append(c.handlers[t], h)
}

func (c *Compositor) Queue() *event.Queue { return c.queue }

// Env completes base with the compositor's broadcasts
func (c *Compositor) Env(base layer.Env) layer.Env {
	base.Pointer = c
	base.Queue = c.queue
	if c.atmosphere != nil {
		base.Atmosphere = c.atmosphere
	}
	return base
}

// Mount mounts every registered layer and subscribes each to the clock on its own.
// A layer that fails to mount is logged and left out; the others continue
func (c *Compositor) Mount(env layer.Env) error {
	c.Unmount()
	env = c.Env(env)
	var errs []error
	for _, l := range c.layers {
		if err := l.Mount(env); err != nil {
			c.logger.Warn("layer mount failed", zap.String("layer", l.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", l.Name(), err))
			continue
		}
		m := mounted{layer: l}
		if c.clock != nil {
			m.sub = c.clock.Subscribe(l.Step)
		}
		if c.orch != nil {
			c.orch.Register(l, l.Priority())
		}
		c.live = append(c.live, m)
	}
	c.logger.Info("layers mounted", zap.Int("mounted", len(c.live)), zap.Int("failed", len(errs)))
	if len(c.live) == 0 && len(c.layers) > 0 {
		return errors.Join(append([]error{ErrNothingMounted}, errs...)...)
	}
	return nil
}

// Unmount cancels every layer subscription before dropping the layer's state, so no
// Step runs against an unmounted layer
func (c *Compositor) Unmount() {
	for _, m := range c.live {
		m.sub.Cancel()
		if c.orch != nil {
			c.orch.Unregister(m.layer)
		}
		m.layer.Unmount()
	}
	c.live = c.live[:0]
	clear(c.hovers)
	c.applyOverride()
}

// Remount rebuilds every layer, used when the song list changes
func (c *Compositor) Remount(env layer.Env) error {
	c.resetHovers()
	return c.Mount(env)
}

// Switch replaces the registered set with ls and mounts it. The outgoing layers lose
// their clock subscriptions before the first incoming layer mounts
func (c *Compositor) Switch(env layer.Env, ls ...layer.Layer) error {
	c.resetHovers()
	c.Unmount()
	c.layers = nil
	c.Add(ls...)
	return c.Mount(env)
}

// Mounted lists live layer names in z-order
func (c *Compositor) Mounted() []string {
	out := make([]string, 0, len(c.live))
	for _, m := range c.live {
		out = append(out, m.layer.Name())
	}
	return out
}

// Resize forwards the new viewport to the orchestrator and every live layer
func (c *Compositor) Resize(vp render.Viewport) {
	if c.orch != nil {
		c.orch.Resize(vp)
	}
	for _, m := range c.live {
		m.layer.Resize(vp)
	}
}

// Pointer implements layer.PointerSource. While the detail surface is open the scene
// sees no pointer
func (c *Compositor) Pointer() physics.Pointer {
	p := *c.pointer.Load()
	if c.detailOpen() {
		p.Active = false
	}
	return p
}

// MovePointer publishes a new pointer position
func (c *Compositor) MovePointer(p vmath.Vec2) {
	if !p.IsFinite() {
		return
	}
	c.pointer.Store(&physics.Pointer{Pos: p, Active: true})
}

// LeavePointer marks the pointer as gone, clearing hover on the next frame
func (c *Compositor) LeavePointer() {
	last := *c.pointer.Load()
	c.pointer.Store(&physics.Pointer{Pos: last.Pos})
}

// Click routes a pointer press: overlays first, then interactive layers from the top
// down. A click nobody claimed is forwarded once, as a synthetic event, to the topmost
// Target beneath
func (c *Compositor) Click(p vmath.Vec2) bool {
	return c.route(layer.ClickEvent{Pos: p})
}

func (c *Compositor) route(ev layer.ClickEvent) bool {
	if !ev.Pos.IsFinite() {
		return false
	}
	for i := len(c.overlays) - 1; i >= 0; i-- {
		if c.overlays[i].Click(ev.Pos) {
			return true
		}
	}
	if c.detailOpen() {
		// backdrop
		c.CloseDetail()
		return true
	}
	for i := len(c.live) - 1; i >= 0; i-- {
		if in, ok := c.live[i].layer.(layer.Interactive); ok && in.Click(ev.Pos) {
			return true
		}
	}
	if ev.Synthetic {
		return false
	}
	for i := len(c.live) - 1; i >= 0; i-- {
		if t, ok := c.live[i].layer.(layer.Target); ok {
			return t.Receive(layer.ClickEvent{Pos: ev.Pos, Synthetic: true})
		}
	}
	return false
}

// Dispatch drains the event queue once. Hover and selection are handled here; other
// types go to registered handlers
func (c *Compositor) Dispatch() int {
	evs := c.queue.Consume()
	for _, ev := range evs {
		switch ev.Type {
		case event.EventHoverChanged:
			if hp, ok := ev.Payload.(*event.HoverPayload); ok {
				c.onHover(hp)
			}
		case event.EventEntitySelected:
			if sp, ok := ev.Payload.(*event.SelectPayload); ok {
				c.Select(*sp)
			}
		}
		for _, h := range c.handlers[ev.Type] {
			h(ev)
		}
	}
	return len(evs)
}

func (c *Compositor) onHover(hp *event.HoverPayload) {
	if hp.Song == nil && hp.Color == nil {
		delete(c.hovers, hp.Layer)
	} else {
		c.hovers[hp.Layer] = hp
	}
	c.applyOverride()
}

// Hovered returns the hover of the topmost layer that has one
func (c *Compositor) Hovered() *event.HoverPayload {
	for i := len(c.live) - 1; i >= 0; i-- {
		if hp, ok := c.hovers[c.live[i].layer.Name()]; ok {
			return hp
		}
	}
	return nil
}

func (c *Compositor) applyOverride() {
	if c.atmosphere == nil {
		return
	}
	if hp := c.Hovered(); hp != nil && hp.Color != nil {
		c.atmosphere.SetOverride(hp.Color)
		return
	}
	c.atmosphere.SetOverride(nil)
}

// Select opens the detail surface for sel, switching away from any current selection
func (c *Compositor) Select(sel event.SelectPayload) {
	c.resetHovers()
	c.selection = &sel
	title := ""
	if sel.Song != nil {
		title = sel.Song.Title
	}
	c.logger.Info("entity selected",
		zap.String("layer", sel.Layer),
		zap.Stringer("kind", sel.Kind),
		zap.String("form", sel.Form),
		zap.String("title", title))
	if c.detail != nil {
		c.detail.Open(sel)
	}
}

// Selection is the open selection, nil when the detail surface is closed
func (c *Compositor) Selection() *event.SelectPayload {
	if c.detail != nil && !c.detailOpen() {
		c.selection = nil
	}
	return c.selection
}

// CloseDetail closes the detail surface and clears lingering hover state
func (c *Compositor) CloseDetail() {
	c.resetHovers()
	c.selection = nil
	if c.detail != nil {
		c.detail.Close()
	}
}

func (c *Compositor) detailOpen() bool {
	return c.detail != nil && c.detail.State().Open()
}

// resetHovers makes every interactive layer emit its leave and drops the override now
// rather than on the next drain
func (c *Compositor) resetHovers() {
	for _, m := range c.live {
		if in, ok := m.layer.(layer.Interactive); ok {
			in.ResetHover()
		}
	}
	clear(c.hovers)
	c.applyOverride()
}

// Render composites one frame with the current pointer
func (c *Compositor) Render(f clock.Frame) *render.Buffer {
	if c.orch == nil {
		return nil
	}
	p := c.Pointer()
	return c.orch.RenderFrame(render.Context{Frame: f, Pointer: p.Pos, HasPointer: p.Active})
}

// Shown is the atmosphere renderers should use; the noon default when unwired
func (c *Compositor) Shown() atmosphere.Atmosphere {
	if c.atmosphere == nil {
		return atmosphere.Compute(12, nil)
	}
	return c.atmosphere.Shown()
}
