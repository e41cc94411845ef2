package detail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/event"
)

// DefaultLoadTimeout bounds how long a player may take to become ready
const DefaultLoadTimeout = 8 * time.Second

type loadResult struct {
	gen uint64
	err error
}

// View is a copy of the surface state for presentation
type View struct {
	State     State
	Selection event.SelectPayload
	VideoID   string
	Err       error
}

// Surface is the selection detail state machine.
// Open, Toggle, Close and Poll are called from the scene loop; player loads run on
// their own goroutine and report back through Poll. Results carrying an older
// generation than the current selection are dropped
type Surface struct {
	factory PlayerFactory
	timeout time.Duration
	queue   *event.Queue
	logger  *zap.Logger

	mu       sync.Mutex
	state    State
	sel      event.SelectPayload
	videoID  string
	err      error
	player   Player
	ended    <-chan struct{}
	finished bool
	cancel   context.CancelFunc
	gen      uint64

	results  chan loadResult
	done     chan struct{}
	shutdown sync.Once
	wg       sync.WaitGroup
}

// NewSurface creates a closed surface. queue may be nil
func NewSurface(factory PlayerFactory, timeout time.Duration, queue *event.Queue, logger *zap.Logger) *Surface {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surface{
		factory: factory,
		timeout: timeout,
		queue:   queue,
		logger:  logger.Named("detail"),
		results: make(chan loadResult, 4),
		done:    make(chan struct{}),
	}
}

func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Surface) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{State: s.state, Selection: s.sel, VideoID: s.videoID, Err: s.err}
}

// Open shows sel, tearing down any previous player before the new one is created
func (s *Surface) Open(sel event.SelectPayload) {
	s.mu.Lock()
	s.teardownLocked()
	s.gen++
	s.sel = sel
	s.err = nil
	s.videoID = ""
	s.finished = false

	var url string
	if sel.Song != nil {
		url = sel.Song.YouTubeURL
	}
	id, err := VideoID(url)
	if err != nil || s.factory == nil {
		if err == nil {
			err = ErrNoVideo
		}
		s.err = err
		s.setStateLocked(StateUnavailable)
		s.mu.Unlock()
		return
	}

	s.videoID = id
	s.player = s.factory()
	if e, ok := s.player.(Ender); ok {
		s.ended = e.Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	s.cancel = cancel
	s.setStateLocked(StateLoading)
	gen, p := s.gen, s.player
	s.wg.Add(1)
	s.mu.Unlock()

	go s.load(ctx, gen, p, id)
}

func (s *Surface) load(ctx context.Context, gen uint64, p Player, id string) {
	defer s.wg.Done()
	// a player that ignores ctx may return long after the deadline; its result is
	// dropped by the generation check in apply
	loaded := make(chan error, 1)
	go func() { loaded <- p.Load(ctx, id) }()

	var err error
	select {
	case err = <-loaded:
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrLoadTimeout, s.timeout)
		}
	case <-ctx.Done():
		err = ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrLoadTimeout, s.timeout)
		}
	}
	select {
	case s.results <- loadResult{gen: gen, err: err}:
	case <-s.done:
	}
}

// Poll applies finished loads and playback end. Returns true when the state changed
func (s *Surface) Poll() bool {
	changed := false
drain:
	for {
		select {
		case r := <-s.results:
			if s.apply(r) {
				changed = true
			}
		default:
			break drain
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended != nil && s.state == StatePlaying {
		select {
		case <-s.ended:
			s.ended = nil
			s.finished = true
			s.setStateLocked(StatePaused)
			changed = true
		default:
		}
	}
	return changed
}

func (s *Surface) apply(r loadResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.gen != s.gen || s.state != StateLoading {
		s.logger.Debug("stale load discarded", zap.Uint64("gen", r.gen), zap.Uint64("current", s.gen))
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if r.err != nil {
		s.logger.Warn("player load failed", zap.String("video_id", s.videoID), zap.Error(r.err))
		s.err = r.err
		s.closePlayerLocked()
		s.setStateLocked(StateUnavailable)
		return true
	}
	s.setStateLocked(StateReady)
	if err := s.player.Play(); err != nil {
		s.logger.Warn("autoplay failed", zap.Error(err))
		return true
	}
	s.setStateLocked(StatePlaying)
	return true
}

// Toggle flips between playing and paused. A finished video is reloaded
func (s *Surface) Toggle() error {
	s.mu.Lock()
	switch s.state {
	case StatePlaying:
		if err := s.player.Pause(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("pause: %w", err)
		}
		s.setStateLocked(StatePaused)
	case StatePaused, StateReady:
		if s.player == nil || s.finished {
			sel := s.sel
			s.mu.Unlock()
			s.Open(sel)
			return nil
		}
		if err := s.player.Play(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("play: %w", err)
		}
		s.setStateLocked(StatePlaying)
	}
	s.mu.Unlock()
	return nil
}

// Close tears down from any state. Safe to call repeatedly
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed && s.player == nil {
		return
	}
	s.teardownLocked()
	s.gen++
	s.sel = event.SelectPayload{}
	s.videoID = ""
	s.err = nil
	s.setStateLocked(StateClosed)
}

// Shutdown closes the surface and waits for in-flight loads to return
func (s *Surface) Shutdown() {
	s.Close()
	s.shutdown.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Surface) teardownLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.closePlayerLocked()
}

func (s *Surface) closePlayerLocked() {
	p := s.player
	s.player = nil
	s.ended = nil
	if p == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("player close panicked", zap.Any("panic", r))
		}
	}()
	if err := p.Close(); err != nil {
		s.logger.Warn("player close failed", zap.Error(err))
	}
}

func (s *Surface) setStateLocked(st State) {
	if s.state == st {
		return
	}
	s.logger.Debug("state", zap.Stringer("from", s.state), zap.Stringer("to", st))
	s.state = st
	if s.queue != nil {
		s.queue.Emit(event.EventPlayerChanged, "detail", &event.PlayerPayload{
			State: st.String(),
			Song:  s.sel.Song,
			Err:   s.err,
		})
	}
}
