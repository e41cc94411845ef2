package audio

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// ErrNoAudioBackend is returned when no PCM player is installed
var ErrNoAudioBackend = errors.New("no compatible audio backend found")

// BackendType identifies the external PCM player
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// BackendConfig describes a player that reads interleaved s16le stereo on stdin,
// or a device written directly when Args is nil
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

type candidate struct {
	typ  BackendType
	name string
	args func(rate string) []string
}

// Probe order: pacat > pw-cat > aplay > play (sox) > ffplay
var candidates = []candidate{
	{BackendPulse, "pacat", func(r string) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + r, "--channels=2", "--latency-msec=50", "--playback"}
	}},
	{BackendPipeWire, "pw-cat", func(r string) []string {
		return []string{"--playback", "--format=s16", "--rate=" + r, "--channels=2", "--latency=50ms", "-"}
	}},
	{BackendALSA, "aplay", func(r string) []string {
		return []string{"-t", "raw", "-f", "S16_LE", "-r", r, "-c", "2", "-q"}
	}},
	{BackendSoX, "play", func(r string) []string {
		return []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", r, "-", "-d", "-q"}
	}},
	{BackendFFplay, "ffplay", func(r string) []string {
		return []string{"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", r,
			"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet"}
	}},
}

// DetectBackend finds the first installed player for the given sample rate.
// On FreeBSD /dev/dsp is used as a last resort
func DetectBackend(rate int) (*BackendConfig, error) {
	r := strconv.Itoa(rate)
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return &BackendConfig{Type: c.typ, Name: c.name, Path: path, Args: c.args(r)}, nil
		}
	}
	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat("/dev/dsp"); err == nil {
			return &BackendConfig{Type: BackendOSS, Name: "oss", Path: "/dev/dsp"}, nil
		}
	}
	return nil, ErrNoAudioBackend
}
