package clock

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDelta(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		now      time.Time
		last     time.Time
		maxDelta float64
		want     float64
	}{
		{"on target", base.Add(DefaultTarget), base, DefaultMaxDelta, 1},
		{"half frame", base.Add(DefaultTarget / 2), base, DefaultMaxDelta, 0.5},
		{"stall clamps", base.Add(5 * time.Second), base, DefaultMaxDelta, DefaultMaxDelta},
		{"backwards clamps to zero", base.Add(-time.Second), base, DefaultMaxDelta, 0},
		{"first frame", base, time.Time{}, DefaultMaxDelta, 1},
		{"first frame under low cap", base, time.Time{}, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delta(tt.now, tt.last, DefaultTarget, tt.maxDelta)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestTickDeliversSharedDelta(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	c := New(DefaultTarget, DefaultMaxDelta)

	var a, b []float64
	c.Subscribe(func(f Frame) { a = append(a, f.Delta) })
	c.Subscribe(func(f Frame) { b = append(b, f.Delta) })

	c.Tick(mock.Now())
	c.Tick(mock.Advance(DefaultTarget))
	c.Tick(mock.Advance(10 * time.Second))

	require.Len(t, a, 3)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, a[1], 1e-9)
	assert.InDelta(t, DefaultMaxDelta, a[2], 1e-9)
}

func TestFirstTickHonorsCap(t *testing.T) {
	c := New(DefaultTarget, 0.5)
	var got []float64
	c.Subscribe(func(f Frame) { got = append(got, f.Delta) })

	c.Tick(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5, got[0], 1e-9)
}

func TestCancelStopsDelivery(t *testing.T) {
	c := New(0, 0)
	var calls int
	sub := c.Subscribe(func(Frame) { calls++ })

	c.Tick(time.Now())
	sub.Cancel()
	sub.Cancel()
	c.Tick(time.Now())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Subscribers())
	assert.True(t, sub.Cancelled())
}

func TestCancelDuringTickSkipsLaterSubscriber(t *testing.T) {
	c := New(0, 0)
	var second *Subscription
	var secondCalls int

	c.Subscribe(func(Frame) { second.Cancel() })
	second = c.Subscribe(func(Frame) { secondCalls++ })

	c.Tick(time.Now())
	assert.Zero(t, secondCalls)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(time.Millisecond, DefaultMaxDelta)
	var ticks atomic.Int64
	c.Subscribe(func(Frame) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond, nil)
		close(done)
	}()

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	assert.True(t, mock.Now().Equal(start))

	got := mock.Advance(time.Hour)
	assert.True(t, got.Equal(start.Add(time.Hour)))

	mock.SetTime(start)
	assert.True(t, mock.Now().Equal(start))
}
