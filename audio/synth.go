package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(48000)

// Tones is the capability the scene uses to make sound
type Tones interface {
	PlayTone(freq float64, d time.Duration)
	Chime()
}

// Backend is the output device; the default is the beep speaker
type Backend interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type speakerBackend struct{}

func (speakerBackend) Init(sr beep.SampleRate, n int) error { return speaker.Init(sr, n) }
func (speakerBackend) Play(s beep.Streamer)                 { speaker.Play(s) }
func (speakerBackend) Lock()                                { speaker.Lock() }
func (speakerBackend) Unlock()                              { speaker.Unlock() }
func (speakerBackend) Close()                               { speaker.Close() }

type synthState uint8

const (
	stateIdle synthState = iota
	stateSuspended
	stateRunning
	stateFailed
	stateClosed
)

// Synth owns one lazily created output. It starts suspended and is resumed by the first
// user gesture; once closed or failed it is never recreated
type Synth struct {
	mu      sync.Mutex
	backend Backend
	state   synthState
	mixer   *beep.Mixer
	ctrl    *beep.Ctrl
	volume  float64
	logger  *zap.Logger
}

func NewSynth(backend Backend, volume float64, logger *zap.Logger) *Synth {
	if backend == nil {
		backend = speakerBackend{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if volume <= 0 || volume > 1 {
		volume = 1
	}
	return &Synth{backend: backend, volume: volume, logger: logger.Named("audio")}
}

// ensure creates the output on first use; caller holds mu
func (s *Synth) ensure() bool {
	switch s.state {
	case stateSuspended, stateRunning:
		return true
	case stateFailed, stateClosed:
		return false
	}
	if err := s.backend.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		s.state = stateFailed
		s.logger.Warn("audio output unavailable, continuing silent", zap.Error(err))
		return false
	}
	s.mixer = &beep.Mixer{}
	s.ctrl = &beep.Ctrl{Streamer: s.mixer, Paused: true}
	s.backend.Play(s.ctrl)
	s.state = stateSuspended
	return true
}

// Resume unpauses output; called on the first pointer gesture
func (s *Synth) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ensure() {
		return fmt.Errorf("audio resume: output not available")
	}
	if s.state == stateRunning {
		return nil
	}
	s.backend.Lock()
	s.ctrl.Paused = false
	s.backend.Unlock()
	s.state = stateRunning
	s.logger.Debug("audio resumed")
	return nil
}

// Running reports whether tones are audible
func (s *Synth) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

// PlayTone plays one enveloped sine; dropped while suspended so no stale tones queue up
func (s *Synth) PlayTone(freq float64, d time.Duration) {
	s.play(d, freq)
}

// Chime plays the two-partial 800/1200 Hz sparkle
func (s *Synth) Chime() {
	s.play(300*time.Millisecond, 800, 1200)
}

func (s *Synth) play(d time.Duration, freqs ...float64) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ensure() || s.state != stateRunning {
		return
	}
	s.backend.Lock()
	s.mixer.Add(NewToneStreamer(sampleRate, d, s.volume, freqs...))
	s.backend.Unlock()
}

// Close stops output permanently
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateSuspended || s.state == stateRunning {
		s.backend.Lock()
		s.mixer.Clear()
		s.backend.Unlock()
		s.backend.Close()
	}
	s.state = stateClosed
}

// Silent satisfies Tones without output
type Silent struct{}

func (Silent) PlayTone(float64, time.Duration) {}
func (Silent) Chime()                          {}

// ToneCall is one recorded PlayTone
type ToneCall struct {
	Freq     float64
	Duration time.Duration
}

// Recorder captures tones for assertions
type Recorder struct {
	mu     sync.Mutex
	calls  []ToneCall
	chimes int
}

func (r *Recorder) PlayTone(freq float64, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ToneCall{Freq: freq, Duration: d})
}

func (r *Recorder) Chime() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chimes++
}

func (r *Recorder) Calls() []ToneCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToneCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) Chimes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chimes
}
