package atmosphere

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/render"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		hour    int
		primary render.RGB
		day     bool
	}{
		{"dawn is pure gold", 6, render.RGB{R: 255, G: 215, B: 0}, true},
		{"noon is half way", 12, render.RGB{R: 236, G: 176, B: 0}, true},
		{"dusk starts navy", 18, render.RGB{R: 11, G: 0, B: 51}, false},
		{"midnight is half way", 0, render.RGB{R: 43, G: 0, B: 91}, false},
		{"before dawn", 5, render.RGB{R: 70, G: 0, B: 123}, false},
		{"wraps negative hours", -12, render.RGB{R: 236, G: 176, B: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Compute(tt.hour, nil)
			assert.Equal(t, tt.primary, a.Primary)
			assert.Equal(t, tt.day, a.Day)
			assert.Equal(t, render.Tint{RGB: tt.primary, A: 0.7}, a.Accent)
			assert.Equal(t, render.Tint{RGB: tt.primary, A: 0.5}, a.Glow)
			assert.False(t, a.Override)
		})
	}
}

func TestOverrideIgnoresHour(t *testing.T) {
	ov := render.RGB{R: 1, G: 2, B: 3}
	for hour := 0; hour < 24; hour++ {
		a := Compute(hour, &ov)
		assert.Equal(t, ov, a.Primary)
		assert.Equal(t, 0.7, a.Accent.A)
		assert.Equal(t, 0.5, a.Glow.A)
		assert.True(t, a.Override)
	}
}

func TestComputeIdempotent(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, Compute(hour, nil), Compute(hour, nil))
	}
}

func TestControllerTickAndOverride(t *testing.T) {
	// 03:00 UTC is 12:00 JST
	start := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	mock := clock.NewMockTimeProvider(start)
	c := NewController(mock, 30*time.Second, zaptest.NewLogger(t))

	assert.Equal(t, render.RGB{R: 236, G: 176, B: 0}, c.Current().Primary)

	assert.False(t, c.Tick(mock.Advance(10*time.Second)))
	assert.True(t, c.Tick(mock.Advance(25*time.Second)))

	ov := render.RGB{R: 255, G: 182, B: 193}
	c.SetOverride(&ov)
	assert.Equal(t, ov, c.Current().Primary)

	c.SetOverride(nil)
	assert.False(t, c.Current().Override)
	assert.True(t, c.Current().Day)
}

func TestControllerCrossfadeConverges(t *testing.T) {
	mock := clock.NewMockTimeProvider(time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC))
	c := NewController(mock, 0, nil)
	ov := render.RGB{R: 0, G: 0, B: 255}
	c.SetOverride(&ov)

	assert.NotEqual(t, ov, c.Shown().Primary)
	for i := 0; i < 200; i++ {
		c.Step(1.5)
	}
	assert.Equal(t, ov, c.Shown().Primary)
}
