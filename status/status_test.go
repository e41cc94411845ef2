package status

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRegistryCellIsStable(t *testing.T) {
	r := NewRegistry()
	a := r.Int(KeyFrames)
	a.Add(3)
	assert.Same(t, a, r.Int(KeyFrames))
	assert.True(t, r.Has(KeyFrames))
	assert.False(t, r.Has(KeyEvents))
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Int(KeyEvents).Add(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(8), r.Int(KeyEvents).Load())
	assert.Equal(t, 1, r.Len())
}

func TestRegistryKeyKeepsItsType(t *testing.T) {
	r := NewRegistry()
	r.Int(KeyPhase)
	assert.Panics(t, func() { r.Text(KeyPhase) })
}

func TestSnapshotFollowsFirstUse(t *testing.T) {
	r := NewRegistry()
	r.Int(KeyFrames).Store(120)
	r.Float(KeyFPS).Set(59.94)
	r.Text(KeyPhase).Set("touch")
	r.Int(KeyLayers).Store(1)
	r.Int(KeyFrames).Add(1)

	want := []Metric{
		{KeyFrames, "121"},
		{KeyFPS, "59.9"},
		{KeyPhase, "touch"},
		{KeyLayers, "1"},
	}
	if diff := cmp.Diff(want, r.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, r.Fields(), 4)
}

func TestSmooth(t *testing.T) {
	var f AtomicFloat
	assert.Equal(t, 60.0, f.Smooth(60, 0.1))
	assert.InDelta(t, 57.0, f.Smooth(30, 0.1), 1e-9)
}

func TestAtomicStringZero(t *testing.T) {
	var s AtomicString
	assert.Empty(t, s.Get())
	s.Set("x")
	assert.Equal(t, "x", s.Get())
}
