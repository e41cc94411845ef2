package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/living-cosmos/render"
)

func newSim(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	scr, err := NewWithScreen(sim)
	require.NoError(t, err)
	sim.SetSize(20, 6)
	t.Cleanup(scr.Fini)
	return scr, sim
}

func TestPresent(t *testing.T) {
	scr, sim := newSim(t)
	buf := render.NewBuffer(20, 6)
	buf.SetFgOnly(3, 2, '✦', render.RGB{R: 255, G: 215}, true)

	scr.Present(buf.Width(), buf.Height(), buf.Cells())

	cells, w, _ := sim.GetContents()
	c := cells[2*w+3]
	require.NotEmpty(t, c.Runes)
	assert.Equal(t, '✦', c.Runes[0])
	fg, _, attrs := c.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 215, 0), fg)
	assert.NotZero(t, attrs&tcell.AttrBold)
}

func TestTranslateMouseEdges(t *testing.T) {
	scr, _ := newSim(t)

	steps := []struct {
		btn    tcell.ButtonMask
		action MouseAction
		button MouseButton
	}{
		{tcell.ButtonNone, MouseActionMove, MouseBtnNone},
		{tcell.Button1, MouseActionPress, MouseBtnLeft},
		{tcell.Button1, MouseActionDrag, MouseBtnLeft},
		{tcell.ButtonNone, MouseActionRelease, MouseBtnLeft},
		{tcell.Button2, MouseActionPress, MouseBtnRight},
	}
	for i, s := range steps {
		ev, ok := scr.translate(tcell.NewEventMouse(4, 5, s.btn, tcell.ModNone))
		require.True(t, ok)
		assert.Equal(t, s.action, ev.MouseAction, "step %d", i)
		assert.Equal(t, s.button, ev.MouseBtn, "step %d", i)
		assert.Equal(t, 4, ev.MouseX)
		assert.Equal(t, 5, ev.MouseY)
	}
}

func TestTranslateKeys(t *testing.T) {
	scr, _ := newSim(t)
	tests := []struct {
		ev   *tcell.EventKey
		key  Key
		rune rune
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), KeyRune, 'm', true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), KeySpace, ' ', true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), KeyEscape, 0, true},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), KeyEnter, 0, true},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), KeyBackspace, 0, true},
		{tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), KeyNone, 0, false},
	}
	for _, tt := range tests {
		ev, ok := scr.translate(tt.ev)
		assert.Equal(t, tt.ok, ok)
		if ok {
			assert.Equal(t, tt.key, ev.Key)
			assert.Equal(t, tt.rune, ev.Rune)
		}
	}
}

func TestPollAfterFini(t *testing.T) {
	scr, sim := newSim(t)
	require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	ev := scr.PollEvent()
	for ev.Type == EventResize {
		ev = scr.PollEvent()
	}
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, KeyEnter, ev.Key)

	scr.Fini()
	scr.Fini()
	assert.Equal(t, EventClosed, scr.PollEvent().Type)
}
