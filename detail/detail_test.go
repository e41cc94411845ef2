package detail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/song"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	l.calls = append(l.calls, s)
	l.mu.Unlock()
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakePlayer struct {
	name    string
	log     *callLog
	release chan error
	block   bool
	deaf    bool
	panics  bool
	done    chan struct{}
}

func (p *fakePlayer) Load(ctx context.Context, id string) error {
	p.log.add(p.name + ".load " + id)
	if p.deaf {
		return <-p.release
	}
	if !p.block {
		return nil
	}
	select {
	case err := <-p.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *fakePlayer) Play() error  { p.log.add(p.name + ".play"); return nil }
func (p *fakePlayer) Pause() error { p.log.add(p.name + ".pause"); return nil }

func (p *fakePlayer) Close() error {
	p.log.add(p.name + ".close")
	if p.panics {
		panic("boom")
	}
	return errors.New("already gone")
}

func (p *fakePlayer) Done() <-chan struct{} { return p.done }

type fakeFactory struct {
	log     *callLog
	n       int
	block   bool
	deaf    bool
	panics  bool
	players []*fakePlayer
}

func (f *fakeFactory) New() Player {
	p := &fakePlayer{
		name:    fmt.Sprintf("p%d", f.n),
		log:     f.log,
		release: make(chan error, 1),
		block:   f.block,
		deaf:    f.deaf,
		panics:  f.panics,
		done:    make(chan struct{}),
	}
	f.n++
	f.players = append(f.players, p)
	return p
}

func selection(id string) event.SelectPayload {
	return event.SelectPayload{
		Layer: "memory_stars",
		Kind:  entity.KindStar,
		Song:  &song.Song{ID: id, Title: id, YouTubeURL: "https://www.youtube.com/watch?v=" + id},
	}
}

func waitFor(t *testing.T, s *Surface, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		s.Poll()
		return s.State() == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=GAt2y-R4TIk", "GAt2y-R4TIk", true},
		{"https://youtu.be/GAt2y-R4TIk", "GAt2y-R4TIk", true},
		{"https://www.youtube.com/embed/GAt2y-R4TIk?autoplay=1", "GAt2y-R4TIk", true},
		{"https://www.youtube.com/watch?feature=share&v=GAt2y-R4TIk#t=3", "GAt2y-R4TIk", true},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://example.com/video", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := VideoID(tt.url)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrNoVideo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSurface_OpenLoadsAndAutoplays(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}}
	q := event.NewQueue()
	s := NewSurface(f.New, time.Second, q, zaptest.NewLogger(t))
	defer s.Shutdown()

	s.Open(selection("GAt2y-R4TIk"))
	assert.Equal(t, StateLoading, s.State())
	waitFor(t, s, StatePlaying)

	assert.Equal(t, []string{"p0.load GAt2y-R4TIk", "p0.play"}, f.log.snapshot())

	var states []string
	for _, ev := range q.Consume() {
		require.Equal(t, event.EventPlayerChanged, ev.Type)
		states = append(states, ev.Payload.(*event.PlayerPayload).State)
	}
	assert.Equal(t, []string{"loading", "ready", "playing"}, states)
}

func TestSurface_Toggle(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}}
	s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	s.Open(selection("GAt2y-R4TIk"))
	waitFor(t, s, StatePlaying)

	require.NoError(t, s.Toggle())
	assert.Equal(t, StatePaused, s.State())
	require.NoError(t, s.Toggle())
	assert.Equal(t, StatePlaying, s.State())
}

func TestSurface_MissingVideoIsUnavailable(t *testing.T) {
	f := &fakeFactory{log: &callLog{}}
	s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	sel := selection("x")
	sel.Song.YouTubeURL = ""
	s.Open(sel)
	assert.Equal(t, StateUnavailable, s.State())
	assert.ErrorIs(t, s.View().Err, ErrNoVideo)
	assert.Empty(t, f.players, "no player for an unplayable selection")

	s.Open(event.SelectPayload{Kind: entity.KindGalaxy})
	assert.Equal(t, StateUnavailable, s.State())
	assert.Empty(t, f.players)
}

func TestSurface_SwitchTearsDownBeforeSetup(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}, block: true}
	s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	s.Open(selection("AAAAAAAAAAA"))
	require.Eventually(t, func() bool { return len(f.log.snapshot()) == 1 }, time.Second, time.Millisecond)

	s.Open(selection("BBBBBBBBBBB"))
	calls := f.log.snapshot()
	require.GreaterOrEqual(t, len(calls), 2)
	assert.Equal(t, "p0.close", calls[1], "A is destroyed before B exists")
	assert.Equal(t, "BBBBBBBBBBB", s.View().VideoID)

	// A's cancelled load reports late and must not touch B
	f.players[1].release <- nil
	waitFor(t, s, StatePlaying)
	assert.Equal(t, "BBBBBBBBBBB", s.View().Selection.Song.ID)
	assert.NotContains(t, f.log.snapshot(), "p0.play")
}

func TestSurface_StaleResultDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}, block: true}
	s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	s.Open(selection("AAAAAAAAAAA"))
	s.Close()
	assert.Equal(t, StateClosed, s.State())

	s.Poll()
	assert.Equal(t, StateClosed, s.State(), "closed surface ignores the superseded load")
}

func TestSurface_LoadTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}, block: true}
	s := NewSurface(f.New, 30*time.Millisecond, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	s.Open(selection("GAt2y-R4TIk"))
	waitFor(t, s, StateUnavailable)
	assert.ErrorIs(t, s.View().Err, ErrLoadTimeout)
	assert.Contains(t, f.log.snapshot(), "p0.close")
}

func TestSurface_LoadTimeoutWithoutPlayerCooperation(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}, deaf: true}
	s := NewSurface(f.New, 30*time.Millisecond, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	start := time.Now()
	s.Open(selection("GAt2y-R4TIk"))
	require.Len(t, f.players, 1)
	defer close(f.players[0].release)

	waitFor(t, s, StateUnavailable)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, s.View().Err, ErrLoadTimeout)

	// the late success belongs to a dead generation
	f.players[0].release <- nil
	time.Sleep(20 * time.Millisecond)
	s.Poll()
	assert.Equal(t, StateUnavailable, s.State())
}

func TestSurface_CloseFromAnyState(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("closed", func(t *testing.T) {
		s := NewSurface(nil, 0, nil, zaptest.NewLogger(t))
		assert.NotPanics(t, s.Close)
		assert.NotPanics(t, s.Shutdown)
	})

	t.Run("loading with panicking player", func(t *testing.T) {
		f := &fakeFactory{log: &callLog{}, block: true, panics: true}
		s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
		s.Open(selection("GAt2y-R4TIk"))
		assert.NotPanics(t, s.Close)
		assert.Equal(t, StateClosed, s.State())
		s.Shutdown()
	})

	t.Run("playing then twice", func(t *testing.T) {
		f := &fakeFactory{log: &callLog{}}
		s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
		s.Open(selection("GAt2y-R4TIk"))
		waitFor(t, s, StatePlaying)
		s.Close()
		s.Close()
		assert.Equal(t, StateClosed, s.State())
		s.Shutdown()

		var closes int
		for _, c := range f.log.snapshot() {
			if c == "p0.close" {
				closes++
			}
		}
		assert.Equal(t, 1, closes)
	})

	t.Run("unavailable", func(t *testing.T) {
		s := NewSurface(nil, 0, nil, zaptest.NewLogger(t))
		s.Open(event.SelectPayload{})
		assert.NotPanics(t, s.Close)
		assert.Equal(t, StateClosed, s.State())
	})
}

func TestSurface_EndedReloadsOnToggle(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFactory{log: &callLog{}}
	s := NewSurface(f.New, time.Second, nil, zaptest.NewLogger(t))
	defer s.Shutdown()

	s.Open(selection("GAt2y-R4TIk"))
	waitFor(t, s, StatePlaying)

	close(f.players[0].done)
	waitFor(t, s, StatePaused)

	require.NoError(t, s.Toggle())
	waitFor(t, s, StatePlaying)
	assert.Len(t, f.players, 2)
}

func TestExecPlayer_MissingBinary(t *testing.T) {
	defer goleak.VerifyNone(t)
	p := NewExecPlayerFactory([]string{"/nonexistent/living-cosmos-player"}, zaptest.NewLogger(t))()
	err := p.Load(context.Background(), "GAt2y-R4TIk")
	require.Error(t, err)
	assert.Error(t, p.Pause(), "not loaded")
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Play(), ErrPlayerClosed)
}
