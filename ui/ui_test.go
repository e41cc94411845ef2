package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/living-cosmos/clock"
	"github.com/lixenwraith/living-cosmos/detail"
	"github.com/lixenwraith/living-cosmos/entity"
	"github.com/lixenwraith/living-cosmos/event"
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/search"
	"github.com/lixenwraith/living-cosmos/song"
	"github.com/lixenwraith/living-cosmos/status"
	"github.com/lixenwraith/living-cosmos/terminal"
	"github.com/lixenwraith/living-cosmos/vmath"
)

type fixedHover struct{ hp *event.HoverPayload }

func (f *fixedHover) Hovered() *event.HoverPayload { return f.hp }

type fixedDetail struct{ v detail.View }

func (f *fixedDetail) View() detail.View { return f.v }

func key(k terminal.Key) terminal.Event { return terminal.Event{Type: terminal.EventKey, Key: k} }
func char(r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r}
}

func typeText(o *Overlay, s string) {
	for _, r := range s {
		if r == ' ' {
			o.HandleKey(key(terminal.KeySpace))
			continue
		}
		o.HandleKey(char(r))
	}
}

func renderOnce(o *Overlay, vp render.Viewport) *render.Buffer {
	buf := render.NewBuffer(vp.Cols, vp.Rows)
	o.Render(render.Context{Viewport: vp}, render.NewCanvas(buf, vp))
	return buf
}

func screenText(buf *render.Buffer) string {
	var sb strings.Builder
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			r := buf.Get(x, y).Rune
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
			if runewidth.RuneWidth(r) == 2 {
				x++
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestFieldEditing(t *testing.T) {
	var f Field
	for _, r := range "hello world" {
		f.Insert(r)
	}
	assert.Equal(t, "hello world", f.Value())

	assert.True(t, f.DeleteWordBackward())
	assert.Equal(t, "hello ", f.Value())

	f.HandleKey(terminal.KeyHome, 0)
	f.HandleKey(terminal.KeyDelete, 0)
	assert.Equal(t, "ello ", f.Value())
	assert.Zero(t, f.Cursor)

	f.HandleKey(terminal.KeyEnd, 0)
	f.HandleKey(terminal.KeyCtrlU, 0)
	assert.Empty(t, f.Value())

	f.Limit = 2
	assert.True(t, f.Insert('a'))
	assert.True(t, f.Insert('b'))
	assert.False(t, f.Insert('c'))
}

func TestFieldAdjustScroll(t *testing.T) {
	var f Field
	for _, r := range "0123456789" {
		f.Insert(r)
	}
	f.AdjustScroll(4)
	assert.Equal(t, 7, f.Scroll)
	f.Cursor = 2
	f.AdjustScroll(4)
	assert.Equal(t, 2, f.Scroll)
}

func TestToastsExpire(t *testing.T) {
	ts := NewToasts(2)
	ts.Push(Info, 100, "a")
	ts.Push(Info, 1000, "b")
	ts.Push(Info, 1000, "c")
	require.Equal(t, 2, ts.Len())
	assert.Equal(t, "b", ts.Items()[0].Lines[0])

	ts.Step(entity.MillisToFrames(1001))
	assert.Zero(t, ts.Len())
}

func TestMessagePromptSubmit(t *testing.T) {
	var sent []string
	o := New(nil, nil, Actions{SendMessage: func(s string) { sent = append(sent, s) }}, zaptest.NewLogger(t))

	require.True(t, o.HandleKey(char('m')))
	require.Equal(t, ModeMessage, o.Mode())

	o.HandleKey(key(terminal.KeyEnter)) // empty is ignored
	assert.Empty(t, sent)

	typeText(o, "  happy birthday ")
	o.HandleKey(key(terminal.KeyEnter))
	o.HandleKey(key(terminal.KeyEnter)) // in flight
	require.Equal(t, []string{"happy birthday"}, sent)
	assert.True(t, o.Pending())

	o.MessageResult(&event.MessagePayload{})
	assert.Equal(t, ModeScene, o.Mode())
	require.Equal(t, 1, o.Toasts().Len())
	toast := o.Toasts().Items()[0]
	assert.Equal(t, Success, toast.Severity)
	assert.Equal(t, TextDelivered, toast.Lines[0])

	// still up at 14.9s, gone after 15s
	o.Step(clock.Frame{Delta: entity.MillisToFrames(SuccessMillis - 100)})
	assert.Equal(t, 1, o.Toasts().Len())
	o.Step(clock.Frame{Delta: entity.MillisToFrames(200)})
	assert.Zero(t, o.Toasts().Len())
}

func TestMessageFailureKeepsPrompt(t *testing.T) {
	o := New(nil, nil, Actions{SendMessage: func(string) {}}, zaptest.NewLogger(t))
	o.Open(ModeMessage)
	typeText(o, "hi")
	o.HandleKey(key(terminal.KeyEnter))

	o.MessageResult(&event.MessagePayload{Err: errors.New("status 500")})
	assert.Equal(t, ModeMessage, o.Mode())
	assert.False(t, o.Pending())
	assert.Equal(t, "hi", o.Value())
	require.Equal(t, 1, o.Toasts().Len())
	assert.Equal(t, TextSendFailed, o.Toasts().Items()[0].Lines[0])
}

func TestSearchFlow(t *testing.T) {
	var queries []string
	o := New(nil, nil, Actions{Search: func(q string) { queries = append(queries, q) }}, zaptest.NewLogger(t))
	o.HandleKey(char('/'))
	typeText(o, "lemon")
	o.HandleKey(key(terminal.KeyEnter))
	require.Equal(t, []string{"lemon"}, queries)

	resp, err := search.Generate("lemon")
	require.NoError(t, err)
	o.SearchResult(&event.SearchPayload{Query: "lemon", Results: resp.Results})
	assert.Equal(t, ModeResults, o.Mode())

	vp := render.NewViewport(100, 30)
	out := screenText(renderOnce(o, vp))
	assert.Contains(t, out, "lemon - Piano Tutorial")

	o.HandleKey(key(terminal.KeyEscape))
	assert.Equal(t, ModeScene, o.Mode())
}

func TestButtonsOpenPrompts(t *testing.T) {
	o := New(nil, nil, Actions{}, zaptest.NewLogger(t))
	vp := render.NewViewport(100, 30)
	renderOnce(o, vp)

	p := vp.CellCenter(o.searchBtn.X, o.searchBtn.Y)
	require.True(t, o.Click(p))
	assert.Equal(t, ModeSearch, o.Mode())

	// outside click dismisses and is still claimed
	assert.True(t, o.Click(vp.CellCenter(0, 29)))
	assert.Equal(t, ModeScene, o.Mode())

	renderOnce(o, vp)
	assert.False(t, o.Click(vp.CellCenter(o.searchBtn.X-4, 0)), "the bar holds only the observatory")
}

func TestHiddenOverlayIgnoresInput(t *testing.T) {
	o := New(nil, nil, Actions{}, zaptest.NewLogger(t))
	vp := render.NewViewport(100, 30)
	renderOnce(o, vp)
	o.Open(ModeMessage)

	o.SetHidden(true)
	assert.False(t, o.IsVisible())
	assert.Equal(t, ModeScene, o.Mode(), "hiding drops the prompt")
	assert.False(t, o.HandleKey(char('m')))
	assert.False(t, o.Click(vp.CellCenter(o.searchBtn.X, o.searchBtn.Y)))
	assert.Equal(t, ModeScene, o.Mode())

	o.SetHidden(false)
	assert.True(t, o.IsVisible())
	assert.True(t, o.HandleKey(char('m')))
	assert.Equal(t, ModeMessage, o.Mode())
}

func TestStatsPanelToggle(t *testing.T) {
	o := New(nil, nil, Actions{}, zaptest.NewLogger(t))
	assert.False(t, o.HandleKey(char('d')), "no source attached")

	reg := status.NewRegistry()
	reg.Int(status.KeyFrames).Store(42)
	reg.Text(status.KeyPlayer).Set("closed")
	o.SetStats(reg)

	vp := render.NewViewport(100, 30)
	assert.NotContains(t, screenText(renderOnce(o, vp)), "frames")

	require.True(t, o.HandleKey(char('d')))
	assert.True(t, o.StatsVisible())
	out := screenText(renderOnce(o, vp))
	assert.Contains(t, out, "frames 42")
	assert.Contains(t, out, "player closed")

	require.True(t, o.HandleKey(char('d')))
	assert.False(t, o.StatsVisible())
}

func TestSceneClickFallsThrough(t *testing.T) {
	o := New(nil, nil, Actions{}, zaptest.NewLogger(t))
	vp := render.NewViewport(100, 30)
	renderOnce(o, vp)
	assert.False(t, o.Click(vp.CellCenter(50, 15)))
}

func TestTooltipHiddenWhileDetailOpen(t *testing.T) {
	s := song.Fallback()[0]
	red := render.RGB{R: 255}
	hover := &fixedHover{hp: &event.HoverPayload{Layer: "memory_stars", Song: &s, Color: &red, Pos: vmath.V2(400, 200)}}
	det := &fixedDetail{}
	o := New(hover, det, Actions{}, zaptest.NewLogger(t))
	vp := render.NewViewport(100, 40)

	assert.Contains(t, screenText(renderOnce(o, vp)), s.Artist)

	det.v = detail.View{State: detail.StateLoading, Selection: event.SelectPayload{Kind: entity.KindGalaxy, Form: "spiral"}}
	out := screenText(renderOnce(o, vp))
	assert.NotContains(t, out, s.Artist)
	assert.Contains(t, out, "渦巻銀河")
}

func TestDetailKeysAndClose(t *testing.T) {
	toggles, closes := 0, 0
	det := &fixedDetail{v: detail.View{State: detail.StatePlaying, Selection: event.SelectPayload{Kind: entity.KindStar}}}
	o := New(nil, det, Actions{
		TogglePlayer: func() error { toggles++; return nil },
		CloseDetail:  func() { closes++ },
	}, zaptest.NewLogger(t))

	assert.True(t, o.HandleKey(key(terminal.KeySpace)))
	assert.Equal(t, 1, toggles)
	assert.False(t, o.HandleKey(char('m')), "prompts stay closed while the panel is up")

	vp := render.NewViewport(100, 40)
	renderOnce(o, vp)
	assert.True(t, o.Click(vp.CellCenter(o.panel.X+2, o.panel.Y+2)))
	assert.False(t, o.Click(vp.CellCenter(0, 39)), "backdrop belongs to the compositor")
	assert.True(t, o.Click(vp.CellCenter(o.closeBtn.X+1, o.closeBtn.Y)))
	assert.Equal(t, 1, closes)

	assert.True(t, o.HandleKey(key(terminal.KeyEscape)))
	assert.Equal(t, 2, closes)
}

func TestToggleErrorToasts(t *testing.T) {
	det := &fixedDetail{v: detail.View{State: detail.StatePaused}}
	o := New(nil, det, Actions{TogglePlayer: func() error { return errors.New("gone") }}, zaptest.NewLogger(t))
	o.HandleKey(key(terminal.KeySpace))
	require.Equal(t, 1, o.Toasts().Len())
	assert.Equal(t, Failure, o.Toasts().Items()[0].Severity)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "記憶の星", kindLabel(event.SelectPayload{Kind: entity.KindStar, Form: "star"}))
	assert.Equal(t, "創造の柱", kindLabel(event.SelectPayload{Kind: entity.KindNebula, Form: "pillar"}))
	assert.Equal(t, "楕円銀河", kindLabel(event.SelectPayload{Kind: entity.KindGalaxy, Form: "elliptical"}))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrap("abcdef", 4))
	assert.Equal(t, []string{"あい", "う"}, wrap("あいう", 4))
	assert.Nil(t, wrap("x", 0))
}
