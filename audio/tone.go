package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Envelope shape: linear attack to peak, exponential decay to sustain, exponential release to floor
const (
	envPeak    = 0.25
	envSustain = 0.15
	envFloor   = 0.001
	envAttack  = 10 * time.Millisecond
	envDecay   = 100 * time.Millisecond
)

// Envelope returns the gain at t into a note of the given duration
func Envelope(t, dur time.Duration) float64 {
	switch {
	case t < 0 || t >= dur:
		return 0
	case t < envAttack:
		return envPeak * float64(t) / float64(envAttack)
	case t < envDecay || dur <= envDecay:
		return expRamp(envPeak, envSustain, float64(t-envAttack)/float64(envDecay-envAttack))
	default:
		return expRamp(envSustain, envFloor, float64(t-envDecay)/float64(dur-envDecay))
	}
}

func expRamp(from, to, p float64) float64 {
	p = math.Max(0, math.Min(1, p))
	return from * math.Pow(to/from, p)
}

// ToneStreamer renders summed sine partials shaped by Envelope
type ToneStreamer struct {
	sr     beep.SampleRate
	freqs  []float64
	dur    time.Duration
	gain   float64
	pos    int
	length int
}

func NewToneStreamer(sr beep.SampleRate, dur time.Duration, gain float64, freqs ...float64) *ToneStreamer {
	return &ToneStreamer{
		sr:     sr,
		freqs:  freqs,
		dur:    dur,
		gain:   gain,
		length: sr.N(dur),
	}
}

func (s *ToneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.length {
		return 0, false
	}
	norm := 1.0 / float64(max(len(s.freqs), 1))
	for i := range samples {
		if s.pos >= s.length {
			return i, true
		}
		t := s.sr.D(s.pos)
		env := Envelope(t, s.dur) * s.gain
		sec := float64(s.pos) / float64(s.sr)
		var v float64
		for _, f := range s.freqs {
			v += math.Sin(2 * math.Pi * f * sec)
		}
		v *= env * norm
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}
	return len(samples), true
}

func (s *ToneStreamer) Err() error { return nil }

// Len is the total sample count
func (s *ToneStreamer) Len() int { return s.length }
