// Package engine runs the scene: one goroutine owns every piece of mutable scene
// state and selects over frame ticks, terminal input and async results, while a
// second goroutine only polls the terminal
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/living-cosmos/atmosphere"
	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/client"
	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/compositor"
	"github.com/lixenwraith/living-cosmos/config"
	"github.com/lixenwraith/living-cosmos/detail"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/layer"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/song"
	"github.com/lixenwraith/living-cosmos/status"
	"github.com/lixenwraith/living-cosmos/terminal"
	"github.com/lixenwraith/living-cosmos/ui"
	"github.com/lixenwraith/living-cosmos/vmath"
)

const eventBuffer = 256

// ErrPanic wraps a recovered scene loop panic
var ErrPanic = errors.New("scene loop panic")

// Screen is the terminal surface the app draws to and reads input from
type Screen interface {
	render.Sink
	Size() (cols, rows int)
	PollEvent() terminal.Event
	Sync()
	Fini()
}

// Audio is the tone output plus its gesture-gated lifecycle
type Audio interface {
	audio.Tones
	Resume() error
	Close()
}

type muted struct{ audio.Silent }

func (muted) Resume() error { return nil }
func (muted) Close()        {}

// Options wire an App. Zero values pick the production defaults
type Options struct {
	Scene  config.SceneConfig
	Audio  config.AudioConfig
	Player config.PlayerConfig
	Time   clock.TimeProvider
	// Output replaces the beep synth built from Audio
	Output Audio
	// Players replaces the external media process built from Player
	Players detail.PlayerFactory
	Logger  *zap.Logger
}

// App is the assembled scene
type App struct {
	screen Screen
	opts   Options
	logger *zap.Logger

	clock      *clock.FrameClock
	orch       *render.Orchestrator
	comp       *compositor.Compositor
	atmosphere *atmosphere.Controller
	detail     *detail.Surface
	overlay    *ui.Overlay
	fireworks  *layer.Fireworks
	cosmos     []layer.Layer
	output     Audio
	client     *client.Client
	stats      *status.Registry
	metrics    metrics

	ctx     context.Context
	vp      render.Viewport
	phase   Phase
	touch   vmath.Vec2 // normalized, set by the touch phase
	songs   []song.Song
	fetched bool
	gesture bool
	last    time.Time
}

// metrics caches the registry pointers written every frame
type metrics struct {
	frames, events, layers, songs *atomic.Int64
	fps                           *status.AtomicFloat
	phase, player, pointer        *status.AtomicString
}

func newMetrics(r *status.Registry) metrics {
	return metrics{
		frames:  r.Int(status.KeyFrames),
		events:  r.Int(status.KeyEvents),
		layers:  r.Int(status.KeyLayers),
		songs:   r.Int(status.KeySongs),
		fps:     r.Float(status.KeyFPS),
		phase:   r.Text(status.KeyPhase),
		player:  r.Text(status.KeyPlayer),
		pointer: r.Text(status.KeyPointer),
	}
}

// fpsSmoothing weights each new frame-rate sample
const fpsSmoothing = 0.1

// New builds every component. Nothing runs until Run
func New(screen Screen, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Time == nil {
		opts.Time = clock.NewMonotonicTimeProvider()
	}
	if opts.Scene.FPS <= 0 {
		opts.Scene.FPS = 60
	}
	if opts.Scene.MaxDelta <= 0 {
		opts.Scene.MaxDelta = clock.DefaultMaxDelta
	}
	logger := opts.Logger

	a := &App{
		screen: screen,
		opts:   opts,
		logger: logger.Named("engine"),
		ctx:    context.Background(),
		phase:  PhaseComplete,
		songs:  song.Fallback(),
		stats:  status.NewRegistry(),
	}
	a.metrics = newMetrics(a.stats)
	a.metrics.songs.Store(int64(len(a.songs)))
	a.metrics.player.Set(detail.StateClosed.String())
	a.metrics.phase.Set(a.phase.String())

	switch {
	case opts.Output != nil:
		a.output = opts.Output
	case opts.Audio.Enabled:
		backend, err := audio.NewBackend(opts.Audio.Backend, logger)
		if err != nil {
			a.logger.Warn("audio backend unavailable, continuing silent", zap.Error(err))
			a.output = muted{}
			break
		}
		a.output = audio.NewSynth(backend, opts.Audio.Volume, logger)
	default:
		a.output = muted{}
	}

	players := opts.Players
	if players == nil {
		players = detail.NewExecPlayerFactory(opts.Player.Command, logger)
	}

	cols, rows := screen.Size()
	a.vp = render.NewViewport(cols, rows)

	queue := event.NewQueue()
	a.clock = clock.New(clock.DefaultTarget, opts.Scene.MaxDelta)
	a.orch = render.NewOrchestrator(screen, a.vp)
	a.atmosphere = atmosphere.NewController(opts.Time, opts.Scene.AtmosphereTick, logger)
	a.detail = detail.NewSurface(players, opts.Player.LoadTimeout, queue, logger)
	a.client = client.New(opts.Scene.APIBaseURL, opts.Scene.APITimeout, logger)
	a.comp = compositor.New(compositor.Config{
		Clock:        a.clock,
		Orchestrator: a.orch,
		Queue:        queue,
		Detail:       a.detail,
		Atmosphere:   a.atmosphere,
		Logger:       logger,
	})

	a.fireworks = layer.NewFireworks()
	a.cosmos = []layer.Layer{
		layer.NewStarfield(),
		layer.NewVoid(),
		layer.NewGalaxies(),
		layer.NewMemoryStars(),
		layer.NewShootingStars(),
		layer.NewMessageStar(),
		a.fireworks,
	}
	a.comp.Add(a.cosmos...)

	a.overlay = ui.New(a.comp, a.detail, ui.Actions{
		SendMessage: func(text string) {
			a.client.SendMessageAsync(a.ctx, queue, text)
		},
		Search: func(query string) {
			a.client.SearchAsync(a.ctx, queue, query)
		},
		TogglePlayer: a.detail.Toggle,
		CloseDetail:  a.comp.CloseDetail,
	}, logger)
	a.overlay.Resize(a.vp)
	a.overlay.SetStats(a.stats)
	a.comp.AddOverlay(a.overlay, render.PriorityOverlay)
	a.clock.Subscribe(a.overlay.Step)

	a.comp.Handle(event.EventSongsLoaded, a.onSongs)
	a.comp.Handle(event.EventMessageSent, a.onMessage)
	a.comp.Handle(event.EventSearchCompleted, a.onSearch)
	a.comp.Handle(event.EventPlayerChanged, a.onPlayer)
	a.comp.Handle(event.EventIntroAdvanced, a.onIntro)
	a.comp.Handle(event.EventWishRequested, a.onWish)
	return a
}

func (a *App) Compositor() *compositor.Compositor { return a.comp }
func (a *App) Overlay() *ui.Overlay               { return a.overlay }
func (a *App) Viewport() render.Viewport          { return a.vp }
func (a *App) Stats() *status.Registry            { return a.stats }

func (a *App) env() layer.Env {
	return layer.Env{
		Viewport: a.vp,
		Seed:     a.opts.Scene.Seed,
		Songs:    a.songs,
		Tones:    a.output,
		Logger:   a.opts.Logger,
		Options: layer.Options{
			Stars:         a.opts.Scene.Stars,
			StarsSmall:    a.opts.Scene.StarsSmall,
			ShootingStars: a.opts.Scene.ShootingStars,
		},
	}
}

// Run mounts the intro, or the scene with the fallback songs when the intro is off,
// starts the song fetch and loops until ctx ends or the user quits. The screen is
// finalized before Run returns
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	a.start()
	a.client.LoadSongs(ctx, a.comp.Queue())

	events := make(chan terminal.Event, eventBuffer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.poll(gctx, events)
	})
	g.Go(func() (err error) {
		defer cancel()
		defer a.screen.Fini()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
			}
		}()
		return a.loop(gctx, events)
	})

	err := g.Wait()
	a.teardown()
	return err
}

// poll forwards terminal input until the screen is finalized
func (a *App) poll(ctx context.Context, out chan<- terminal.Event) error {
	for {
		ev := a.screen.PollEvent()
		if ev.Type == terminal.EventClosed {
			return nil
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) loop(ctx context.Context, events <-chan terminal.Event) error {
	ticker := time.NewTicker(a.opts.Scene.FrameInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if a.handleInput(ev) {
				a.logger.Info("quit requested")
				return nil
			}
		case <-ticker.C:
			a.frame()
		}
	}
}

// frame advances every subscriber, applies async results and presents
func (a *App) frame() clock.Frame {
	now := a.opts.Time.Now()
	f := a.clock.Tick(now)
	a.atmosphere.Tick(now)
	a.atmosphere.Step(f.Delta)
	a.detail.Poll()
	a.metrics.events.Add(int64(a.comp.Dispatch()))
	a.comp.Render(f)

	a.metrics.frames.Add(1)
	if !a.last.IsZero() {
		if gap := now.Sub(a.last).Seconds(); gap > 0 {
			a.metrics.fps.Smooth(1/gap, fpsSmoothing)
		}
	}
	a.last = now
	p := a.comp.Pointer()
	if p.Active {
		x, y := a.vp.ToCell(p.Pos)
		a.metrics.pointer.Set(fmt.Sprintf("%d,%d", x, y))
	} else {
		a.metrics.pointer.Set("-")
	}
	return f
}

// handleInput applies one terminal event and reports whether to quit
func (a *App) handleInput(ev terminal.Event) bool {
	switch ev.Type {
	case terminal.EventResize:
		a.resize(ev.Width, ev.Height)
	case terminal.EventMouse:
		p := a.vp.CellCenter(ev.MouseX, ev.MouseY)
		a.comp.MovePointer(p)
		if ev.Click() {
			a.resumeAudio()
			a.comp.Click(p)
		}
	case terminal.EventKey:
		if ev.Key == terminal.KeyCtrlC {
			return true
		}
		if a.overlay.HandleKey(ev) {
			return false
		}
		switch {
		case ev.Key == terminal.KeyEscape:
			return true
		case ev.Key == terminal.KeyRune && ev.Rune == 'q':
			return true
		}
	}
	return false
}

func (a *App) resize(cols, rows int) {
	wasEmpty := a.vp.Empty()
	a.vp = render.NewViewport(cols, rows)
	a.comp.Resize(a.vp)
	a.overlay.Resize(a.vp)
	a.screen.Sync()
	a.logger.Debug("resized", zap.Int("cols", cols), zap.Int("rows", rows))
	if wasEmpty && !a.vp.Empty() {
		a.remount()
	}
}

// resumeAudio unlocks output on the first pointer gesture
func (a *App) resumeAudio() {
	if a.gesture {
		return
	}
	a.gesture = true
	if err := a.output.Resume(); err != nil {
		a.logger.Warn("audio not resumed", zap.Error(err))
	}
}

func (a *App) remount() {
	if err := a.comp.Remount(a.env()); err != nil {
		a.logger.Warn("remount failed", zap.Error(err))
	}
	a.metrics.layers.Store(int64(len(a.comp.Mounted())))
}

// onSongs rebuilds the layers once with a fetched list. A fallback result keeps the
// scene as mounted. During the intro the list is kept for the cosmos mount
func (a *App) onSongs(ev event.Event) {
	p, ok := ev.Payload.(*event.SongsPayload)
	if !ok || p == nil {
		return
	}
	if p.Fallback {
		a.logger.Info("using fallback songs", zap.Int("count", len(p.Songs)))
		return
	}
	if a.fetched {
		return
	}
	a.fetched = true
	a.songs = p.Songs
	a.metrics.songs.Store(int64(len(p.Songs)))
	a.logger.Info("songs loaded", zap.Int("count", len(p.Songs)))
	if a.phase != PhaseComplete {
		return
	}
	a.remount()
}

func (a *App) onMessage(ev event.Event) {
	p, _ := ev.Payload.(*event.MessagePayload)
	a.overlay.MessageResult(p)
	if p != nil && p.Err == nil {
		a.fireworks.Launch()
	}
}

func (a *App) onSearch(ev event.Event) {
	p, _ := ev.Payload.(*event.SearchPayload)
	a.overlay.SearchResult(p)
}

func (a *App) onPlayer(ev event.Event) {
	p, ok := ev.Payload.(*event.PlayerPayload)
	if !ok || p == nil {
		return
	}
	a.metrics.player.Set(p.State)
	if p.State == detail.StateUnavailable.String() {
		a.logger.Info("player unavailable", zap.Error(p.Err))
		return
	}
	a.logger.Debug("player state", zap.String("state", p.State))
}

// teardown runs after both goroutines exit
func (a *App) teardown() {
	a.comp.Unmount()
	a.detail.Shutdown()
	a.output.Close()
	a.client.Wait()
	a.metrics.layers.Store(0)
	a.logger.Info("scene stopped", a.stats.Fields()...)
}
