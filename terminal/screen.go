// Package terminal adapts a tcell screen to the scene: cell output and
// translated mouse, key and resize input
package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/living-cosmos/render"
)

// Screen wraps a tcell screen. Present is called from the frame loop and
// PollEvent from the input goroutine; tcell serializes the two internally
type Screen struct {
	s    tcell.Screen
	fini sync.Once

	// only touched by the polling goroutine
	buttons tcell.ButtonMask
}

// New opens the controlling terminal
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen initializes an existing tcell screen, such as a simulation screen
func NewWithScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.EnableMouse(tcell.MouseMotionEvents)
	s.HideCursor()
	s.SetStyle(tcell.StyleDefault.Background(toColor(render.RgbBackground)))
	s.Clear()
	return &Screen{s: s}, nil
}

func (t *Screen) Size() (cols, rows int) {
	return t.s.Size()
}

// Present draws a row-major cell slice and shows it
func (t *Screen) Present(cols, rows int, cells []render.Cell) {
	if len(cells) < cols*rows {
		return
	}
	for y := 0; y < rows; y++ {
		row := cells[y*cols : (y+1)*cols]
		for x, c := range row {
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			st := tcell.StyleDefault.Foreground(toColor(c.Fg)).Background(toColor(c.Bg)).Bold(c.Bold)
			t.s.SetContent(x, y, r, nil, st)
		}
	}
	t.s.Show()
}

// Sync forces a full repaint after resize
func (t *Screen) Sync() { t.s.Sync() }

// PollEvent blocks for the next event the scene cares about.
// Returns EventClosed once the screen is finalized
func (t *Screen) PollEvent() Event {
	for {
		ev := t.s.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}
		if out, ok := t.translate(ev); ok {
			return out
		}
	}
}

func (t *Screen) translate(ev tcell.Event) (Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true
	case *tcell.EventKey:
		return translateKey(ev)
	case *tcell.EventMouse:
		return t.translateMouse(ev)
	}
	return Event{}, false
}

func translateKey(ev *tcell.EventKey) (Event, bool) {
	out := Event{Type: EventKey}
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			out.Key, out.Rune = KeySpace, ' '
		} else {
			out.Key, out.Rune = KeyRune, ev.Rune()
		}
	case tcell.KeyEscape:
		out.Key = KeyEscape
	case tcell.KeyEnter:
		out.Key = KeyEnter
	case tcell.KeyTab:
		out.Key = KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = KeyBackspace
	case tcell.KeyCtrlC:
		out.Key = KeyCtrlC
	case tcell.KeyLeft:
		out.Key = KeyLeft
	case tcell.KeyRight:
		out.Key = KeyRight
	case tcell.KeyHome, tcell.KeyCtrlA:
		out.Key = KeyHome
	case tcell.KeyEnd, tcell.KeyCtrlE:
		out.Key = KeyEnd
	case tcell.KeyDelete:
		out.Key = KeyDelete
	case tcell.KeyCtrlU:
		out.Key = KeyCtrlU
	case tcell.KeyCtrlW:
		out.Key = KeyCtrlW
	default:
		return Event{}, false
	}
	return out, true
}

// translateMouse turns tcell's button state snapshots into press/release edges
func (t *Screen) translateMouse(ev *tcell.EventMouse) (Event, bool) {
	x, y := ev.Position()
	btns := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	prev := t.buttons
	t.buttons = btns

	out := Event{Type: EventMouse, MouseX: x, MouseY: y}
	switch {
	case btns != 0 && prev == 0:
		out.MouseAction = MouseActionPress
		out.MouseBtn = button(btns)
	case btns == 0 && prev != 0:
		out.MouseAction = MouseActionRelease
		out.MouseBtn = button(prev)
	case btns != 0:
		out.MouseAction = MouseActionDrag
		out.MouseBtn = button(btns)
	default:
		out.MouseAction = MouseActionMove
	}
	return out, true
}

func button(m tcell.ButtonMask) MouseButton {
	switch {
	case m&tcell.Button1 != 0:
		return MouseBtnLeft
	case m&tcell.Button3 != 0:
		return MouseBtnMiddle
	case m&tcell.Button2 != 0:
		return MouseBtnRight
	}
	return MouseBtnNone
}

// Fini restores the terminal. Safe to call more than once
func (t *Screen) Fini() {
	t.fini.Do(t.s.Fini)
}

func toColor(c render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
