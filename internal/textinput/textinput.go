// Package textinput is a single-line, rune-aware text buffer with a cursor.
package textinput

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/helmutkemper/tabform/internal/keys"
)

// Model holds the text and the cursor position, counted in runes.
type Model struct {
	value  []rune
	cursor int
}

// New returns an empty buffer.
func New() *Model {
	return &Model{}
}

// Value returns the current text.
func (m *Model) Value() string {
	return string(m.value)
}

// SetValue replaces the text and puts the cursor at its end.
func (m *Model) SetValue(s string) {
	m.value = []rune(s)
	m.cursor = len(m.value)
}

// Reset empties the buffer.
func (m *Model) Reset() {
	m.value = nil
	m.cursor = 0
}

// Cursor returns the cursor position in runes.
func (m *Model) Cursor() int {
	return m.cursor
}

// Insert inserts s at the cursor. Line breaks are flattened to spaces and
// other control characters are dropped.
func (m *Model) Insert(s string) {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ").Replace(s)
	var ins []rune
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		ins = append(ins, r)
	}
	if len(ins) == 0 {
		return
	}
	v := make([]rune, 0, len(m.value)+len(ins))
	v = append(v, m.value[:m.cursor]...)
	v = append(v, ins...)
	v = append(v, m.value[m.cursor:]...)
	m.value = v
	m.cursor += len(ins)
}

// Backspace removes the rune before the cursor.
func (m *Model) Backspace() {
	if m.cursor == 0 {
		return
	}
	m.value = append(m.value[:m.cursor-1], m.value[m.cursor:]...)
	m.cursor--
}

// Delete removes the rune under the cursor.
func (m *Model) Delete() {
	if m.cursor >= len(m.value) {
		return
	}
	m.value = append(m.value[:m.cursor], m.value[m.cursor+1:]...)
}

// HandleKey applies an editing key. It reports whether the buffer or the
// cursor changed.
func (m *Model) HandleKey(k keys.Key) bool {
	before, at := string(m.value), m.cursor
	switch k.Name {
	case keys.Rune, keys.Space, keys.Paste:
		m.Insert(k.Text)
	case keys.Backspace:
		m.Backspace()
	case keys.Delete:
		m.Delete()
	case keys.Left:
		if m.cursor > 0 {
			m.cursor--
		}
	case keys.Right:
		if m.cursor < len(m.value) {
			m.cursor++
		}
	case keys.Home:
		m.cursor = 0
	case keys.End:
		m.cursor = len(m.value)
	}
	return before != string(m.value) || at != m.cursor
}

// View returns the part of the text visible in width cells, split around the
// cursor. at is the rune under the cursor, or a space at the end of the text.
// The window scrolls horizontally so the cursor always stays visible.
func (m *Model) View(width int) (before, at, after string) {
	if width < 1 {
		return "", "", ""
	}
	start := 0
	for start < m.cursor && runewidth.StringWidth(string(m.value[start:m.cursor]))+1 > width {
		start++
	}
	before = string(m.value[start:m.cursor])
	used := runewidth.StringWidth(before)

	at = " "
	if m.cursor < len(m.value) {
		at = string(m.value[m.cursor])
	}
	used += runewidth.StringWidth(at)

	var b strings.Builder
	if m.cursor < len(m.value) {
		for _, r := range m.value[m.cursor+1:] {
			w := runewidth.RuneWidth(r)
			if used+w > width {
				break
			}
			b.WriteRune(r)
			used += w
		}
	}
	return before, at, b.String()
}
