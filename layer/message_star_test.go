package layer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

func TestWishOpacityKeyframes(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.05, 0.5},
		{0.1, 1},
		{0.5, 1},
		{0.9, 1},
		{0.95, 0.5},
		{1, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, wishOpacity(tt.p), 1e-9, "p=%v", tt.p)
	}
}

// spawnWish steps m until its star appears
func spawnWish(t *testing.T, m *MessageStar) *entity.Entity {
	t.Helper()
	for i := 0; i < framesFor(wishDelayMinMs+wishDelayVarMs)+2 && m.Pool().Len() == 0; i++ {
		step(m, 1)
	}
	require.Equal(t, 1, m.Pool().Len())
	return m.Pool().At(0)
}

func TestMessageStarCrossesAndDespawns(t *testing.T) {
	m := NewMessageStar()
	env, _, _ := testEnv(t, nil)
	require.NoError(t, m.Mount(env))
	size := env.Viewport.Size()

	step(m, framesFor(wishDelayMinMs)-1)
	assert.Zero(t, m.Pool().Len(), "first crossing waits at least 2s")

	e := spawnWish(t, m)
	s := e.Shape.(entity.WishShape)
	assert.Contains(t, []float64{-wishMargin, size.X + wishMargin}, s.FromX)
	assert.InDelta(t, size.X+2*wishMargin, math.Abs(s.ToX-s.FromX), 1e-9)
	assert.GreaterOrEqual(t, s.Horizon, wishHorizonMin)
	assert.LessOrEqual(t, s.Horizon, wishHorizonMin+wishHorizonVar)
	assert.GreaterOrEqual(t, e.Lifetime, entity.MillisToFrames(wishCrossMinMs))
	assert.LessOrEqual(t, e.Lifetime, entity.MillisToFrames(wishCrossMinMs+wishCrossVarMs))

	half := int(math.Ceil(e.Lifetime/2 - e.Age))
	step(m, half)
	assert.Equal(t, 1.0, e.Opacity)
	assert.Less(t, e.Pos.Y, s.Horizon*size.Y-wishWave+1, "path rises mid crossing")
	assert.InDelta(t, math.Pi, math.Abs(e.Rotation), 0.05)

	step(m, int(math.Ceil(e.Lifetime-e.Age))+1)
	assert.Zero(t, m.Pool().Len(), "despawned after the crossing")
	assert.Zero(t, e.Opacity)

	spawnWish(t, m)
}

func TestMessageStarClickRequestsPrompt(t *testing.T) {
	m := NewMessageStar()
	env, _, q := testEnv(t, nil)
	require.NoError(t, m.Mount(env))
	e := spawnWish(t, m)
	step(m, int(e.Lifetime*0.2))
	q.Consume()

	assert.False(t, m.Click(vmath.V2(0, 0)))
	m.Hover(e.Pos)
	assert.True(t, m.Hovered())
	require.True(t, m.Click(e.Pos.Add(vmath.V2(wishRadius/2, 0))))

	evs := q.Consume()
	require.Len(t, evs, 1)
	assert.Equal(t, event.EventWishRequested, evs[0].Type)
	assert.Equal(t, "message_star", evs[0].Source)

	m.ResetHover()
	assert.False(t, m.Hovered())
}

func TestMessageStarHintOnHover(t *testing.T) {
	m := NewMessageStar()
	env, _, _ := testEnv(t, nil)
	require.NoError(t, m.Mount(env))
	e := spawnWish(t, m)
	step(m, int(e.Lifetime*0.5))
	m.Hover(e.Pos)

	buf := render.NewBuffer(env.Viewport.Cols, env.Viewport.Rows)
	m.Render(render.Context{Viewport: env.Viewport}, render.NewCanvas(buf, env.Viewport))
	x, y := env.Viewport.ToCell(e.Pos)
	x0 := x - render.TextWidth(WishHint)/2
	assert.Equal(t, '流', buf.Get(x0, y-2).Rune)
}
