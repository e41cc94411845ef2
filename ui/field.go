package ui

import (
	"unicode"

	"github.com/lixenwraith/living-cosmos/terminal"
)

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Field is a single-line editable prompt value
type Field struct {
	Text   []rune
	Cursor int // rune index the cursor sits before
	Scroll int // first visible rune
	Limit  int // max runes, 0 for unlimited
}

func (f *Field) Value() string { return string(f.Text) }

func (f *Field) Clear() {
	f.Text = nil
	f.Cursor = 0
	f.Scroll = 0
}

// Insert adds r at the cursor unless the limit is reached
func (f *Field) Insert(r rune) bool {
	if f.Limit > 0 && len(f.Text) >= f.Limit {
		return false
	}
	f.Text = append(f.Text[:f.Cursor], append([]rune{r}, f.Text[f.Cursor:]...)...)
	f.Cursor++
	return true
}

func (f *Field) DeleteBackward() bool {
	if f.Cursor == 0 {
		return false
	}
	f.Text = append(f.Text[:f.Cursor-1], f.Text[f.Cursor:]...)
	f.Cursor--
	return true
}

func (f *Field) DeleteForward() bool {
	if f.Cursor >= len(f.Text) {
		return false
	}
	f.Text = append(f.Text[:f.Cursor], f.Text[f.Cursor+1:]...)
	return true
}

// DeleteWordBackward removes the word before the cursor along with trailing separators
func (f *Field) DeleteWordBackward() bool {
	if f.Cursor == 0 {
		return false
	}
	end := f.Cursor
	for end > 0 && !isWordChar(f.Text[end-1]) {
		end--
	}
	start := end
	for start > 0 && isWordChar(f.Text[start-1]) {
		start--
	}
	if start == f.Cursor {
		start = f.Cursor - 1
	}
	f.Text = append(f.Text[:start], f.Text[f.Cursor:]...)
	f.Cursor = start
	return true
}

func (f *Field) DeleteToStart() bool {
	if f.Cursor == 0 {
		return false
	}
	f.Text = f.Text[f.Cursor:]
	f.Cursor = 0
	f.Scroll = 0
	return true
}

// AdjustScroll keeps the cursor inside a window of w columns
func (f *Field) AdjustScroll(w int) {
	if w <= 0 {
		return
	}
	if f.Cursor < f.Scroll {
		f.Scroll = f.Cursor
	}
	if f.Cursor >= f.Scroll+w {
		f.Scroll = f.Cursor - w + 1
	}
	f.Scroll = max(f.Scroll, 0)
}

// HandleKey applies an editing key, reporting whether the value or cursor changed
func (f *Field) HandleKey(key terminal.Key, r rune) bool {
	switch key {
	case terminal.KeyLeft:
		if f.Cursor > 0 {
			f.Cursor--
		}
		return true
	case terminal.KeyRight:
		if f.Cursor < len(f.Text) {
			f.Cursor++
		}
		return true
	case terminal.KeyHome:
		f.Cursor = 0
		return true
	case terminal.KeyEnd:
		f.Cursor = len(f.Text)
		return true
	case terminal.KeyBackspace:
		return f.DeleteBackward()
	case terminal.KeyDelete:
		return f.DeleteForward()
	case terminal.KeyCtrlU:
		return f.DeleteToStart()
	case terminal.KeyCtrlW:
		return f.DeleteWordBackward()
	case terminal.KeySpace:
		return f.Insert(' ')
	case terminal.KeyRune:
		if r >= 32 {
			return f.Insert(r)
		}
	}
	return false
}
