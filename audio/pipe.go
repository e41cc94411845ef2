package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/gopxl/beep"
	"go.uber.org/zap"
)

// NewBackend picks the output device. "speaker" (or empty) is beep's speaker,
// "pipe" an external player found by DetectBackend
func NewBackend(name string, logger *zap.Logger) (Backend, error) {
	switch name {
	case "", "speaker":
		return speakerBackend{}, nil
	case "pipe":
		cfg, err := DetectBackend(int(sampleRate))
		if err != nil {
			return nil, err
		}
		return NewPipeBackend(cfg, logger), nil
	}
	return nil, fmt.Errorf("unknown audio backend %q", name)
}

// PipeBackend feeds the mixed stream as s16le stereo PCM into an external player.
// The player's blocking stdin paces the pump goroutine
type PipeBackend struct {
	cfg    *BackendConfig
	logger *zap.Logger

	mu       sync.Mutex // held by Lock/Unlock while the synth edits its mixer
	streamer beep.Streamer

	cmd    *exec.Cmd
	out    io.WriteCloser
	frames int
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewPipeBackend(cfg *BackendConfig, logger *zap.Logger) *PipeBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipeBackend{cfg: cfg, logger: logger.Named("audio_pipe")}
}

func (p *PipeBackend) Init(_ beep.SampleRate, bufferSize int) error {
	if p.cfg == nil {
		return ErrNoAudioBackend
	}
	if p.cfg.Args == nil {
		f, err := os.OpenFile(p.cfg.Path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("open %s: %w", p.cfg.Path, err)
		}
		p.out = f
	} else {
		cmd := exec.Command(p.cfg.Path, p.cfg.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return fmt.Errorf("%s stdin: %w", p.cfg.Name, err)
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			return fmt.Errorf("start %s: %w", p.cfg.Name, err)
		}
		p.cmd = cmd
		p.out = stdin
	}
	p.frames = max(bufferSize, 64)
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.pump()
	p.logger.Info("audio pipe started", zap.String("backend", p.cfg.Name))
	return nil
}

func (p *PipeBackend) Play(s beep.Streamer) {
	p.mu.Lock()
	p.streamer = s
	p.mu.Unlock()
}

func (p *PipeBackend) Lock()   { p.mu.Lock() }
func (p *PipeBackend) Unlock() { p.mu.Unlock() }

// Close stops the pump and the player. Safe to call more than once
func (p *PipeBackend) Close() {
	if p.done == nil {
		return
	}
	p.once.Do(func() {
		close(p.done)
		p.out.Close()
		if p.cmd != nil && p.cmd.Process != nil {
			p.cmd.Process.Kill()
			p.cmd.Wait()
		}
		p.wg.Wait()
	})
}

func (p *PipeBackend) pump() {
	defer p.wg.Done()
	samples := make([][2]float64, p.frames)
	buf := make([]byte, p.frames*4)
	for {
		select {
		case <-p.done:
			return
		default:
		}
		clear(samples)
		p.mu.Lock()
		if p.streamer != nil {
			p.streamer.Stream(samples)
		}
		p.mu.Unlock()
		encodePCM(buf, samples)
		if _, err := p.out.Write(buf); err != nil {
			select {
			case <-p.done:
			default:
				p.logger.Warn("audio pipe closed", zap.String("backend", p.cfg.Name), zap.Error(err))
			}
			return
		}
	}
}

// encodePCM writes clamped interleaved int16 LE samples; dst holds 4 bytes per frame
func encodePCM(dst []byte, samples [][2]float64) {
	for i, s := range samples {
		for ch := 0; ch < 2; ch++ {
			v := s[ch]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			binary.LittleEndian.PutUint16(dst[i*4+ch*2:], uint16(int16(v*32767)))
		}
	}
}
