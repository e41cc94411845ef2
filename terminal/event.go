package terminal

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventMouse
	EventClosed // Screen finalized, poller should exit
)

// Key is the subset of keys the scene reacts to
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyCtrlC
	KeySpace
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyCtrlU
	KeyCtrlW
)

// MouseButton identifies the button on a mouse event
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
)

// MouseAction is the edge detected on a mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

// Event is a translated terminal input event
type Event struct {
	Type   EventType
	Key    Key
	Rune   rune
	Width  int // EventResize
	Height int // EventResize

	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// Click reports a left button press
func (e Event) Click() bool {
	return e.Type == EventMouse && e.MouseAction == MouseActionPress && e.MouseBtn == MouseBtnLeft
}

func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "press"
	case MouseActionRelease:
		return "release"
	case MouseActionMove:
		return "move"
	case MouseActionDrag:
		return "drag"
	default:
		return "none"
	}
}
