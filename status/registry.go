// Package status collects scene diagnostics. The scene loop writes through cached
// pointers; the overlay and the shutdown log read snapshots
package status

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Well-known keys written by the engine
const (
	KeyFrames  = "frames"
	KeyFPS     = "fps"
	KeyEvents  = "events"
	KeyLayers  = "layers"
	KeySongs   = "songs"
	KeyPhase   = "phase"
	KeyPlayer  = "player"
	KeyPointer = "pointer"
)

// Metric is one formatted reading
type Metric struct {
	Key   string
	Value string
}

// reading pairs a metric cell with its formatter
type reading struct {
	cell   any
	format func() string
}

// Registry hands out one typed cell per key. A key keeps the type it was first
// requested with; snapshots list keys in first-use order
type Registry struct {
	mu    sync.RWMutex
	order []string
	cells map[string]reading
}

func NewRegistry() *Registry {
	return &Registry{cells: make(map[string]reading)}
}

// cell returns the *T registered under key, creating it on first use.
// Asking for an existing key with another type panics
func cell[T any](r *Registry, key string, format func(*T) string) *T {
	r.mu.RLock()
	rd, ok := r.cells[key]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		if rd, ok = r.cells[key]; !ok {
			p := new(T)
			rd = reading{cell: p, format: func() string { return format(p) }}
			r.cells[key] = rd
			r.order = append(r.order, key)
		}
		r.mu.Unlock()
	}
	p, ok := rd.cell.(*T)
	if !ok {
		panic(fmt.Sprintf("status: key %q holds %T", key, rd.cell))
	}
	return p
}

// Int returns the counter for key
func (r *Registry) Int(key string) *atomic.Int64 {
	return cell(r, key, func(v *atomic.Int64) string { return strconv.FormatInt(v.Load(), 10) })
}

// Float returns the gauge for key, shown with one decimal
func (r *Registry) Float(key string) *AtomicFloat {
	return cell(r, key, func(v *AtomicFloat) string { return strconv.FormatFloat(v.Get(), 'f', 1, 64) })
}

// Text returns the label for key
func (r *Registry) Text(key string) *AtomicString {
	return cell(r, key, func(v *AtomicString) string { return v.Get() })
}

func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cells[key]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) Snapshot() []Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metric, len(r.order))
	for i, k := range r.order {
		out[i] = Metric{Key: k, Value: r.cells[k].format()}
	}
	return out
}

// Fields renders the snapshot as log fields
func (r *Registry) Fields() []zap.Field {
	snap := r.Snapshot()
	fields := make([]zap.Field, len(snap))
	for i, m := range snap {
		fields[i] = zap.String(m.Key, m.Value)
	}
	return fields
}
