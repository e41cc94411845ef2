package hover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/vmath"
)

func star(x, y, size float64) *entity.Entity {
	return &entity.Entity{Pos: vmath.V2(x, y), Size: size}
}

func TestNearestPicksClosest(t *testing.T) {
	items := []*entity.Entity{star(0, 0, 10), star(15, 0, 10)}
	i, ok := Nearest(items, vmath.V2(10, 0), Scaled(2.2))
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestNearestTieGoesToFirst(t *testing.T) {
	items := []*entity.Entity{star(-5, 0, 10), star(5, 0, 10)}
	i, ok := Nearest(items, vmath.V2(0, 0), Scaled(2.2))
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestHitTestEdges(t *testing.T) {
	e := star(100, 100, 10)
	items := []*entity.Entity{e}
	r := Scaled(2)

	assert.Same(t, e, HitTest(items, e.Pos, r), "exact center")
	assert.Nil(t, HitTest(items, vmath.V2(100+20+1e-6, 100), r), "radius plus epsilon")
	assert.Nil(t, HitTest(items, vmath.V2(120, 100), r), "exact radius is outside")
	assert.Same(t, e, HitTest(items, vmath.V2(119.9, 100), r))
}

func TestHitTestSkipsExpired(t *testing.T) {
	dead := star(0, 0, 10)
	dead.Dead = true
	assert.Nil(t, HitTest([]*entity.Entity{dead}, vmath.V2(0, 0), Scaled(2)))
}

// A stationary pointer over an entity must produce exactly one enter across many frames
func TestArbiterSingleEnter(t *testing.T) {
	e := star(50, 50, 10)
	items := []*entity.Entity{e}
	a := NewArbiter(Scaled(2.2))

	enters := 0
	for frame := 0; frame < 100; frame++ {
		if tr, changed := a.Update(items, vmath.V2(52, 50), true); changed {
			require.Same(t, e, tr.Enter)
			enters++
		}
	}
	assert.Equal(t, 1, enters)

	tr, changed := a.Update(items, vmath.V2(500, 500), true)
	require.True(t, changed)
	assert.Same(t, e, tr.Leave)
	assert.Nil(t, tr.Enter)
	assert.Nil(t, a.Current())
}

func TestArbiterSwitchEmitsSymmetricPair(t *testing.T) {
	a1 := star(0, 0, 10)
	a2 := star(100, 0, 10)
	items := []*entity.Entity{a1, a2}
	arb := NewArbiter(Scaled(2.2))

	arb.Update(items, vmath.V2(0, 0), true)
	tr, changed := arb.Update(items, vmath.V2(100, 0), true)
	require.True(t, changed)
	assert.Same(t, a1, tr.Leave)
	assert.Same(t, a2, tr.Enter)
}

func TestArbiterReset(t *testing.T) {
	e := star(0, 0, 10)
	arb := NewArbiter(Scaled(2.2))
	arb.Update([]*entity.Entity{e}, vmath.V2(0, 0), true)

	tr, changed := arb.Reset()
	require.True(t, changed)
	assert.Same(t, e, tr.Leave)

	_, changed = arb.Reset()
	assert.False(t, changed)
}

func TestArbiterInactivePointerLeaves(t *testing.T) {
	e := star(0, 0, 10)
	arb := NewArbiter(Scaled(2.2))
	arb.Update([]*entity.Entity{e}, vmath.V2(0, 0), true)
	_, changed := arb.Update([]*entity.Entity{e}, vmath.V2(0, 0), false)
	assert.True(t, changed)
	assert.Nil(t, arb.Current())
}
