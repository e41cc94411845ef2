package audio

import "time"

// Note is a piano key in the C major scale
type Note uint8

const (
	C Note = iota
	D
	E
	F
	G
	A
	B
	C5
)

var noteFreqs = [...]float64{261.63, 293.66, 329.63, 349.23, 392.0, 440.0, 493.88, 523.25}

var noteNames = [...]string{"C", "D", "E", "F", "G", "A", "B", "C5"}

// Notes lists the scale in ascending order
var Notes = []Note{C, D, E, F, G, A, B, C5}

func (n Note) Freq() float64 {
	if int(n) >= len(noteFreqs) {
		return noteFreqs[0]
	}
	return noteFreqs[n]
}

func (n Note) String() string {
	if int(n) >= len(noteNames) {
		return "?"
	}
	return noteNames[n]
}

// NoteAt wraps i onto the scale
func NoteAt(i int) Note {
	if i < 0 {
		i = -i
	}
	return Notes[i%len(Notes)]
}

// Durations used by the scene
const (
	StarNoteDuration   = 500 * time.Millisecond
	CelestialDuration  = 800 * time.Millisecond
	RippleNoteDuration = 400 * time.Millisecond
	TouchNoteDuration  = 1200 * time.Millisecond
)

// PlayNote is a convenience over Tones.PlayTone
func PlayNote(t Tones, n Note, d time.Duration) {
	if t == nil {
		return
	}
	t.PlayTone(n.Freq(), d)
}

// RandomNote picks a scale note using the caller's generator
func RandomNote(intn func(n int) int) Note {
	return Notes[intn(len(Notes))]
}
