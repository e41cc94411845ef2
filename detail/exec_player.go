package detail

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPlayerCommand plays audio only; the scene owns the terminal
var DefaultPlayerCommand = []string{"mpv", "--no-video", "--really-quiet"}

// settleTime is how long the process must stay up before it counts as ready
const settleTime = 400 * time.Millisecond

// ExecPlayer plays a video URL through an external media process
type ExecPlayer struct {
	argv   []string
	logger *zap.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	closed bool
	paused bool
	exited chan struct{}
	err    error
}

// NewExecPlayerFactory returns a factory for players running argv plus the video URL
func NewExecPlayerFactory(argv []string, logger *zap.Logger) PlayerFactory {
	if len(argv) == 0 {
		argv = DefaultPlayerCommand
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func() Player {
		return &ExecPlayer{
			argv:   append([]string(nil), argv...),
			logger: logger.Named("player"),
			exited: make(chan struct{}),
		}
	}
}

// Load starts the process and waits until it survives the settle time
func (p *ExecPlayer) Load(ctx context.Context, videoID string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	if p.cmd != nil {
		p.mu.Unlock()
		return fmt.Errorf("player already loaded")
	}
	args := append(append([]string(nil), p.argv[1:]...), WatchURL(videoID))
	cmd := exec.Command(p.argv[0], args...)
	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("start %s: %w", p.argv[0], err)
	}
	p.cmd = cmd
	p.mu.Unlock()

	p.logger.Debug("player started", zap.String("video_id", videoID), zap.Int("pid", cmd.Process.Pid))
	go p.wait(cmd)

	t := time.NewTimer(settleTime)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-p.exited:
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.err != nil {
			return fmt.Errorf("player exited: %w", p.err)
		}
		return fmt.Errorf("player exited before playback")
	case <-ctx.Done():
		_ = p.Close()
		return ctx.Err()
	}
}

func (p *ExecPlayer) wait(cmd *exec.Cmd) {
	err := cmd.Wait()
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.exited)
}

func (p *ExecPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usableLocked(); err != nil {
		return err
	}
	if !p.paused {
		return nil
	}
	if err := resumeProcess(p.cmd); err != nil {
		return err
	}
	p.paused = false
	return nil
}

func (p *ExecPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usableLocked(); err != nil {
		return err
	}
	if p.paused {
		return nil
	}
	if err := suspendProcess(p.cmd); err != nil {
		return err
	}
	p.paused = true
	return nil
}

// Done closes when the process exits
func (p *ExecPlayer) Done() <-chan struct{} { return p.exited }

// Close kills the process. Calling it more than once is a no-op
func (p *ExecPlayer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	cmd := p.cmd
	paused := p.paused
	p.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	select {
	case <-p.exited:
		return nil
	default:
	}
	if paused {
		_ = resumeProcess(cmd)
	}
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill player: %w", err)
	}
	<-p.exited
	return nil
}

func (p *ExecPlayer) usableLocked() error {
	if p.closed {
		return ErrPlayerClosed
	}
	if p.cmd == nil {
		return fmt.Errorf("player not loaded")
	}
	return nil
}
