package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/config"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/song"
	"github.com/lixenwraith/living-cosmos/status"
	"github.com/lixenwraith/living-cosmos/terminal"
	"github.com/lixenwraith/living-cosmos/ui"
)

type recordingAudio struct {
	*audio.Recorder
	resumes atomic.Int32
	closed  atomic.Bool
}

func (r *recordingAudio) Resume() error { r.resumes.Add(1); return nil }
func (r *recordingAudio) Close()        { r.closed.Store(true) }

// countingScreen counts presented frames
type countingScreen struct {
	*terminal.Screen
	presents atomic.Int32
}

func (s *countingScreen) Present(cols, rows int, cells []render.Cell) {
	s.presents.Add(1)
	s.Screen.Present(cols, rows, cells)
}

// stubScreen has a fixed size and blocks PollEvent until Fini
type stubScreen struct {
	cols, rows int
	closed     chan struct{}
	fini       atomic.Bool
}

func newStubScreen(cols, rows int) *stubScreen {
	return &stubScreen{cols: cols, rows: rows, closed: make(chan struct{})}
}

func (s *stubScreen) Present(int, int, []render.Cell) {}
func (s *stubScreen) Size() (int, int)                { return s.cols, s.rows }
func (s *stubScreen) Sync()                           {}
func (s *stubScreen) PollEvent() terminal.Event {
	<-s.closed
	return terminal.Event{Type: terminal.EventClosed}
}
func (s *stubScreen) Fini() {
	if s.fini.CompareAndSwap(false, true) {
		close(s.closed)
	}
}

func sceneConfig() config.SceneConfig {
	return config.SceneConfig{
		FPS:           60,
		MaxDelta:      1.5,
		Seed:          7,
		Stars:         150,
		StarsSmall:    80,
		ShootingStars: true,
	}
}

func newApp(t *testing.T, scr Screen) (*App, *recordingAudio) {
	t.Helper()
	out := &recordingAudio{Recorder: &audio.Recorder{}}
	app := New(scr, Options{
		Scene:  sceneConfig(),
		Output: out,
		Logger: zaptest.NewLogger(t),
	})
	return app, out
}

func newSimApp(t *testing.T) (*App, *countingScreen, tcell.SimulationScreen, *recordingAudio) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	inner, err := terminal.NewWithScreen(sim)
	require.NoError(t, err)
	sim.SetSize(120, 40)
	scr := &countingScreen{Screen: inner}
	app, out := newApp(t, scr)
	return app, scr, sim, out
}

func keyEvent(k terminal.Key, r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: k, Rune: r}
}

func TestRunQuitsOnKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	app, scr, sim, out := newSimApp(t)
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	require.Eventually(t, func() bool { return scr.presents.Load() > 2 }, 2*time.Second, 5*time.Millisecond)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on q")
	}
	assert.True(t, out.closed.Load())
	assert.Empty(t, app.Compositor().Mounted())
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	app, _ := newApp(t, newStubScreen(100, 30))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

func TestQuitKeys(t *testing.T) {
	app, _ := newApp(t, newStubScreen(100, 30))
	require.NoError(t, app.Compositor().Mount(app.env()))

	assert.True(t, app.handleInput(keyEvent(terminal.KeyCtrlC, 0)))
	assert.True(t, app.handleInput(keyEvent(terminal.KeyRune, 'q')))
	assert.True(t, app.handleInput(keyEvent(terminal.KeyEscape, 0)))

	// keys belong to the prompt while it is open
	assert.False(t, app.handleInput(keyEvent(terminal.KeyRune, 'm')))
	require.Equal(t, ui.ModeMessage, app.Overlay().Mode())
	assert.False(t, app.handleInput(keyEvent(terminal.KeyRune, 'q')))
	assert.Equal(t, "q", app.Overlay().Value())
	assert.False(t, app.handleInput(keyEvent(terminal.KeyEscape, 0)))
	assert.Equal(t, ui.ModeScene, app.Overlay().Mode())
	assert.True(t, app.handleInput(keyEvent(terminal.KeyCtrlC, 0)))
}

func TestFirstClickResumesAudio(t *testing.T) {
	app, out := newApp(t, newStubScreen(100, 30))
	require.NoError(t, app.Compositor().Mount(app.env()))

	move := terminal.Event{Type: terminal.EventMouse, MouseX: 10, MouseY: 5, MouseAction: terminal.MouseActionMove}
	app.handleInput(move)
	assert.Zero(t, out.resumes.Load())
	assert.True(t, app.Compositor().Pointer().Active)

	click := terminal.Event{Type: terminal.EventMouse, MouseX: 10, MouseY: 5, MouseBtn: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionPress}
	app.handleInput(click)
	app.handleInput(click)
	assert.Equal(t, int32(1), out.resumes.Load())
}

func TestMessageSuccessLaunchesFireworks(t *testing.T) {
	app, out := newApp(t, newStubScreen(100, 30))
	require.NoError(t, app.Compositor().Mount(app.env()))

	q := app.Compositor().Queue()
	q.Emit(event.EventMessageSent, "client", &event.MessagePayload{})
	app.frame()

	assert.True(t, app.fireworks.Active())
	assert.Equal(t, 1, out.Chimes())
	require.Equal(t, 1, app.Overlay().Toasts().Len())
	assert.Equal(t, ui.Success, app.Overlay().Toasts().Items()[0].Severity)
}

func TestSongsLoadedRemountsOnce(t *testing.T) {
	app, _ := newApp(t, newStubScreen(100, 30))
	require.NoError(t, app.Compositor().Mount(app.env()))
	mounted := app.Compositor().Mounted()

	q := app.Compositor().Queue()
	q.Emit(event.EventSongsLoaded, "client", &event.SongsPayload{Songs: song.Fallback(), Fallback: true})
	app.frame()
	assert.False(t, app.fetched)

	fetched := song.Fallback()[:2]
	q.Emit(event.EventSongsLoaded, "client", &event.SongsPayload{Songs: fetched})
	app.frame()
	assert.True(t, app.fetched)
	assert.Len(t, app.songs, 2)
	assert.Equal(t, mounted, app.Compositor().Mounted())

	q.Emit(event.EventSongsLoaded, "client", &event.SongsPayload{Songs: song.Fallback()})
	app.frame()
	assert.Len(t, app.songs, 2, "only the first fetched list is applied")
}

func TestFrameUpdatesStats(t *testing.T) {
	app, _ := newApp(t, newStubScreen(100, 30))
	require.NoError(t, app.Compositor().Mount(app.env()))

	app.Compositor().Queue().Emit(event.EventMessageSent, "client", &event.MessagePayload{})
	app.frame()
	app.frame()

	st := app.Stats()
	assert.Equal(t, int64(2), st.Int(status.KeyFrames).Load())
	assert.GreaterOrEqual(t, st.Int(status.KeyEvents).Load(), int64(1))
	assert.Equal(t, int64(len(song.Fallback())), st.Int(status.KeySongs).Load())
	assert.Equal(t, "closed", st.Text(status.KeyPlayer).Get())
	assert.Equal(t, "-", st.Text(status.KeyPointer).Get())

	app.handleInput(terminal.Event{Type: terminal.EventMouse, MouseX: 4, MouseY: 3, MouseAction: terminal.MouseActionMove})
	app.frame()
	assert.Equal(t, "4,3", st.Text(status.KeyPointer).Get())
}

func TestResizeFromEmptyMounts(t *testing.T) {
	app, _ := newApp(t, newStubScreen(0, 0))
	require.Error(t, app.Compositor().Mount(app.env()))
	assert.Empty(t, app.Compositor().Mounted())

	app.handleInput(terminal.Event{Type: terminal.EventResize, Width: 100, Height: 30})
	assert.Equal(t, render.NewViewport(100, 30), app.Viewport())
	assert.Len(t, app.Compositor().Mounted(), 7)
}

func TestWishOpensMessagePrompt(t *testing.T) {
	app, _ := newApp(t, newStubScreen(100, 30))
	app.start()
	require.Contains(t, app.Compositor().Mounted(), "message_star")

	app.Compositor().Queue().Emit(event.EventWishRequested, "message_star", nil)
	app.frame()
	assert.Equal(t, ui.ModeMessage, app.Overlay().Mode())
}
