package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 stored as bits. The zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *AtomicFloat) Get() float64  { return math.Float64frombits(f.bits.Load()) }

// Smooth moves the value toward sample by factor k in (0, 1]; the first sample is
// taken as is. Single writer
func (f *AtomicFloat) Smooth(sample, k float64) float64 {
	old := f.Get()
	v := sample
	if old != 0 {
		v = old + (sample-old)*k
	}
	f.Set(v)
	return v
}

// AtomicString holds an immutable string snapshot
type AtomicString struct {
	p atomic.Pointer[string]
}

func (s *AtomicString) Set(v string) { s.p.Store(&v) }

func (s *AtomicString) Get() string {
	if v := s.p.Load(); v != nil {
		return *v
	}
	return ""
}
