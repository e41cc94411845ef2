package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/vmath"
)

func memoryStarParams(size float64) Params {
	return Params{
		InteractionRadius: 200,
		InteractionForce:  0.05,
		FalloffPower:      2.5,
		Mode:              Repel,
		HomeRadius:        400,
		HomeForce:         0.06,
		HomeCap:           0.25,
		OrbitForce:        0.008,
		Damping:           0.98,
		Restitution:       0.4,
		Boundary:          Reflect,
		Margin:            size * 1.5,
	}
}

func TestRepelPushesAway(t *testing.T) {
	e := &entity.Entity{Pos: vmath.V2(100, 100), Anchor: vmath.V2(100, 100)}
	p := memoryStarParams(10)
	ApplyPointerForce(e, vmath.V2(150, 100), p, 1)
	assert.Less(t, e.Vel.X, 0.0)
	assert.InDelta(t, 0, e.Vel.Y, 1e-12)

	p.Mode = Attract
	e.Vel = vmath.Vec2{}
	ApplyPointerForce(e, vmath.V2(150, 100), p, 1)
	assert.Greater(t, e.Vel.X, 0.0)
}

func TestPointerOnEntitySkipsForce(t *testing.T) {
	e := &entity.Entity{Pos: vmath.V2(50, 50), Anchor: vmath.V2(50, 50)}
	bounds := vmath.Rect{Max: vmath.V2(100, 100)}
	Step(e, Pointer{Pos: vmath.V2(50, 50), Active: true}, bounds, memoryStarParams(5), 1)
	assert.True(t, e.Pos.IsFinite())
	assert.True(t, e.Vel.IsFinite())
	assert.Equal(t, vmath.V2(50, 50), e.Pos)
}

func TestHomeForceCapped(t *testing.T) {
	e := &entity.Entity{Pos: vmath.V2(10000, 0), Anchor: vmath.V2(0, 0)}
	p := Params{HomeRadius: 400, HomeForce: 0.06, HomeCap: 0.25, Boundary: Unbounded}
	Step(e, Pointer{}, vmath.Rect{}, p, 1.5)
	assert.InDelta(t, -0.25, e.Vel.X, 1e-9)
}

func TestReflectRestitution(t *testing.T) {
	e := &entity.Entity{Pos: vmath.V2(95, 50), Vel: vmath.V2(10, 0), Anchor: vmath.V2(50, 50)}
	p := Params{Restitution: 0.4, Boundary: Reflect, Margin: 3}
	out := Step(e, Pointer{}, vmath.Rect{Max: vmath.V2(100, 100)}, p, 1)
	require.True(t, out.Reflected)
	assert.Equal(t, 97.0, e.Pos.X)
	assert.InDelta(t, -4, e.Vel.X, 1e-9)
}

func TestWrapAndDespawn(t *testing.T) {
	bounds := vmath.Rect{Max: vmath.V2(100, 100)}

	e := &entity.Entity{Pos: vmath.V2(50, 109), Vel: vmath.V2(0, 5)}
	out := Step(e, Pointer{}, bounds, Params{Boundary: Wrap, Margin: 10}, 1)
	assert.True(t, out.Wrapped)
	assert.Less(t, e.Pos.Y, 0.0)

	s := &entity.Entity{Pos: vmath.V2(99, 50), Vel: vmath.V2(20, 0)}
	out = Step(s, Pointer{}, bounds, Params{Boundary: Despawn}, 1)
	assert.True(t, out.Despawned)
	assert.True(t, s.Expired())
}

// Randomized pointer paths, including exact hits and pathological deltas, must never
// leave bounds or produce NaN
func TestStepStaysInBounds(t *testing.T) {
	rng := vmath.NewFastRand(99)
	bounds := vmath.Rect{Max: vmath.V2(1600, 800)}
	center := bounds.Center()

	entities := make([]*entity.Entity, 30)
	for i := range entities {
		size := rng.Range(6, 20)
		pos := vmath.V2(rng.Range(0, 1600), rng.Range(0, 800))
		entities[i] = &entity.Entity{Pos: pos, Anchor: center, Size: size}
	}

	deltas := []float64{1, 0.5, 1.5, 0, math.NaN(), math.Inf(1)}
	for frame := 0; frame < 2000; frame++ {
		ptr := Pointer{Pos: vmath.V2(rng.Range(-100, 1700), rng.Range(-100, 900)), Active: true}
		if frame%7 == 0 {
			ptr.Pos = entities[frame%len(entities)].Pos
		}
		dt := deltas[frame%len(deltas)]
		for _, e := range entities {
			p := memoryStarParams(e.Size)
			Step(e, ptr, bounds, p, dt)

			require.True(t, e.Pos.IsFinite(), "frame %d", frame)
			m := e.Size * 1.5
			require.GreaterOrEqual(t, e.Pos.X, m-1e-9)
			require.LessOrEqual(t, e.Pos.X, 1600-m+1e-9)
			require.GreaterOrEqual(t, e.Pos.Y, m-1e-9)
			require.LessOrEqual(t, e.Pos.Y, 800-m+1e-9)
		}
	}
}

func TestSanitizeRecoversNaN(t *testing.T) {
	e := &entity.Entity{Pos: vmath.V2(math.NaN(), 1), Vel: vmath.V2(math.Inf(-1), 0), Anchor: vmath.V2(5, 5)}
	Step(e, Pointer{}, vmath.Rect{Max: vmath.V2(10, 10)}, Params{Boundary: Reflect}, 1)
	assert.Equal(t, vmath.V2(5, 5), e.Pos)
	assert.Equal(t, vmath.Vec2{}, e.Vel)
}
