package layer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/living-cosmos/audio"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

func introEvents(q *event.Queue) []*event.IntroPayload {
	var out []*event.IntroPayload
	for _, ev := range q.Consume() {
		if ev.Type == event.EventIntroAdvanced {
			out = append(out, ev.Payload.(*event.IntroPayload))
		}
	}
	return out
}

func framesFor(ms float64) int { return int(entity.MillisToFrames(ms)) }

func TestTimedIntroPhasesAdvanceOnce(t *testing.T) {
	tests := []struct {
		layer Layer
		total float64
	}{
		{NewPreloader(), preloaderTotal},
		{NewStardustSignature(vmath.V2(0.3, 0.6)), signatureTotal},
		{NewExpansion(), expansionTotal},
	}
	for _, tt := range tests {
		t.Run(tt.layer.Name(), func(t *testing.T) {
			env, _, q := testEnv(t, nil)
			require.NoError(t, tt.layer.Mount(env))

			step(tt.layer, framesFor(tt.total)-2)
			assert.Empty(t, introEvents(q))

			step(tt.layer, 5)
			got := introEvents(q)
			require.Len(t, got, 1)
			assert.Equal(t, tt.layer.Name(), got[0].Layer)

			step(tt.layer, 120)
			assert.Empty(t, introEvents(q), "a phase reports completion once")
		})
	}
}

func TestPreloaderFillEases(t *testing.T) {
	p := NewPreloader()
	env, _, _ := testEnv(t, nil)
	require.NoError(t, p.Mount(env))
	assert.Zero(t, p.Fill())

	step(p, framesFor(preloaderFillMs/2))
	assert.Greater(t, p.Fill(), 0.8, "ease-out front-loads the fill")
	assert.Less(t, p.Fill(), 1.0)

	step(p, framesFor(preloaderFillMs/2)+2)
	assert.Equal(t, 1.0, p.Fill())
}

func TestTouchUniverseClick(t *testing.T) {
	tu := NewTouchUniverse()
	env, rec, q := testEnv(t, nil)
	require.NoError(t, tu.Mount(env))
	size := env.Viewport.Size()

	step(tu, 10)
	assert.False(t, tu.Click(size.Scale(0.5)), "too early")
	assert.Empty(t, rec.Calls())

	step(tu, framesFor(touchReadyMs))
	require.True(t, tu.Ready())
	require.True(t, tu.Click(vmath.V2(size.X*0.25, size.Y*0.75)))
	assert.Equal(t, []audio.ToneCall{{Freq: 523.25, Duration: audio.TouchNoteDuration}}, rec.Calls())

	got := introEvents(q)
	require.Len(t, got, 1)
	assert.Equal(t, IntroTouch, got[0].Layer)
	assert.InDelta(t, 0.25, got[0].Touch.X, 1e-9)
	assert.InDelta(t, 0.75, got[0].Touch.Y, 1e-9)

	assert.False(t, tu.Click(size.Scale(0.5)), "only the first touch counts")
	step(tu, framesFor(60000))
	assert.Empty(t, introEvents(q), "touch never completes on its own")
}

func TestStardustSignatureGathers(t *testing.T) {
	s := NewStardustSignature(vmath.V2(0.1, 0.2))
	env, _, _ := testEnv(t, nil)
	require.NoError(t, s.Mount(env))
	size := env.Viewport.Size()
	assert.Equal(t, vmath.V2(size.X*0.1, size.Y*0.2), s.Origin())
	require.Equal(t, signatureMotes+signatureOuter, s.pool.Len())

	step(s, framesFor(signatureGatherAt)-1)
	for _, e := range s.pool.Items() {
		assert.Equal(t, e.Anchor, e.Pos, "nothing moves before gathering")
	}

	step(s, framesFor(signatureTotal))
	assert.Equal(t, 1.0, s.Gather())
	for _, e := range s.pool.Items() {
		m := e.Shape.(entity.MoteShape)
		assert.InDelta(t, 0, vmath.Dist(e.Pos, m.To), 1e-6)
		assert.True(t, e.Pos.IsFinite())
	}
}

func TestStardustSignatureClampsTouch(t *testing.T) {
	s := NewStardustSignature(vmath.V2(2, -1))
	env, _, _ := testEnv(t, nil)
	require.NoError(t, s.Mount(env))
	assert.Equal(t, vmath.V2(env.Viewport.Size().X, 0), s.Origin())

	nan := NewStardustSignature(vmath.V2(math.NaN(), 0))
	require.NoError(t, nan.Mount(env))
	assert.Equal(t, env.Viewport.Size().Scale(0.5), nan.Origin())
}

func TestExpansionSpreadsByDepth(t *testing.T) {
	x := NewExpansion()
	env, _, _ := testEnv(t, nil)
	require.NoError(t, x.Mount(env))
	ctr := env.Viewport.Size().Scale(0.5)
	before := make([]float64, x.pool.Len())
	for i, e := range x.pool.Items() {
		before[i] = vmath.Dist(e.Pos, ctr)
	}

	step(x, framesFor(expansionDelayMs+expansionMs)+2)
	assert.Equal(t, 1.0, x.Progress())
	for i, e := range x.pool.Items() {
		m := e.Shape.(entity.MoteShape)
		assert.InDelta(t, before[i]*(1+expansionReach*m.Depth), vmath.Dist(e.Pos, ctr), 1e-6)
	}
}

func TestIntroLayersRender(t *testing.T) {
	layers := []Layer{NewPreloader(), NewTouchUniverse(), NewStardustSignature(vmath.V2(0.5, 0.5)), NewExpansion()}
	for _, l := range layers {
		t.Run(l.Name(), func(t *testing.T) {
			env, _, _ := testEnv(t, nil)
			require.NoError(t, l.Mount(env))
			buf := render.NewBuffer(env.Viewport.Cols, env.Viewport.Rows)
			for i := 0; i < 4; i++ {
				step(l, 40)
				buf.Clear()
				l.Render(render.Context{Viewport: env.Viewport}, render.NewCanvas(buf, env.Viewport))
			}
			assert.NotEqual(t, render.RGB{}, buf.Get(env.Viewport.Cols/2, env.Viewport.Rows/2).Bg, "backdrop painted")
		})
	}
}

func TestTouchUniverseShowsPrompt(t *testing.T) {
	tu := NewTouchUniverse()
	env, _, _ := testEnv(t, nil)
	require.NoError(t, tu.Mount(env))
	step(tu, framesFor(touchFadeInMs+200))

	buf := render.NewBuffer(env.Viewport.Cols, env.Viewport.Rows)
	tu.Render(render.Context{Viewport: env.Viewport}, render.NewCanvas(buf, env.Viewport))
	var line []rune
	cx, cy := env.Viewport.ToCell(env.Viewport.Size().Scale(0.5))
	for x := cx - 6; x <= cx+6; x++ {
		line = append(line, buf.Get(x, cy).Rune)
	}
	assert.Contains(t, string(line), "宇")
}
