// Package keys turns raw terminal input into the logical keys the form
// understands. Two sources are supported: raw byte tokens as delivered by a
// host that reads the terminal itself, and tcell events.
package keys

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/micro-editor/tcell/v2"
)

// Name identifies a logical key.
type Name int

const (
	None Name = iota
	Escape
	Enter
	Tab
	BackTab
	Up
	Down
	Left
	Right
	Backspace
	Delete
	Home
	End
	Space
	Rune
	Paste
)

var names = [...]string{
	None:      "None",
	Escape:    "Escape",
	Enter:     "Enter",
	Tab:       "Tab",
	BackTab:   "Shift+Tab",
	Up:        "Up",
	Down:      "Down",
	Left:      "Left",
	Right:     "Right",
	Backspace: "Backspace",
	Delete:    "Delete",
	Home:      "Home",
	End:       "End",
	Space:     "Space",
	Rune:      "Rune",
	Paste:     "Paste",
}

func (n Name) String() string {
	if n < 0 || int(n) >= len(names) {
		return "Unknown"
	}
	return names[n]
}

// Key is a logical key. Text carries the typed characters for Rune, Space
// and Paste keys and is empty otherwise.
type Key struct {
	Name Name
	Text string
}

// Named returns a key without text.
func Named(n Name) Key { return Key{Name: n} }

// Char returns the key produced by typing r.
func Char(r rune) Key {
	if r == ' ' {
		return Key{Name: Space, Text: " "}
	}
	return Key{Name: Rune, Text: string(r)}
}

func (k Key) String() string {
	switch k.Name {
	case Rune, Paste:
		return k.Name.String() + "(" + k.Text + ")"
	}
	return k.Name.String()
}

// Is reports whether k has one of the given names.
func (k Key) Is(ns ...Name) bool {
	for _, n := range ns {
		if k.Name == n {
			return true
		}
	}
	return false
}

// Digit returns the value of a "1".."9" key.
func (k Key) Digit() (int, bool) {
	if k.Name != Rune || len(k.Text) != 1 {
		return 0, false
	}
	c := k.Text[0]
	if c < '1' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

var sequences = map[string]Name{
	"\x1b":    Escape,
	"\r":      Enter,
	"\n":      Enter,
	"\r\n":    Enter,
	"\x1bOM":  Enter,
	"\t":      Tab,
	"\x1b[Z":  BackTab,
	"\x1b[A":  Up,
	"\x1bOA":  Up,
	"\x1b[B":  Down,
	"\x1bOB":  Down,
	"\x1b[C":  Right,
	"\x1bOC":  Right,
	"\x1b[D":  Left,
	"\x1bOD":  Left,
	"\x7f":    Backspace,
	"\x08":    Backspace,
	"\x1b[3~": Delete,
	"\x1b[H":  Home,
	"\x1bOH":  Home,
	"\x1b[1~": Home,
	"\x1b[7~": Home,
	"\x1b[F":  End,
	"\x1bOF":  End,
	"\x1b[4~": End,
	"\x1b[8~": End,
}

// Parse maps one raw input token to a logical key. Unrecognized control
// sequences map to None.
func Parse(token string) Key {
	if n, ok := sequences[token]; ok {
		return Named(n)
	}
	if strings.HasPrefix(token, pasteStart) {
		text := strings.TrimPrefix(token, pasteStart)
		text = strings.TrimSuffix(text, pasteEnd)
		return Key{Name: Paste, Text: text}
	}
	if token == "" || !utf8.ValidString(token) {
		return Named(None)
	}
	for _, r := range token {
		if unicode.IsControl(r) {
			return Named(None)
		}
	}
	if utf8.RuneCountInString(token) == 1 {
		r, _ := utf8.DecodeRuneInString(token)
		return Char(r)
	}
	return Key{Name: Paste, Text: token}
}

var tcellKeys = map[tcell.Key]Name{
	tcell.KeyEscape:     Escape,
	tcell.KeyEnter:      Enter,
	tcell.KeyTab:        Tab,
	tcell.KeyBacktab:    BackTab,
	tcell.KeyUp:         Up,
	tcell.KeyDown:       Down,
	tcell.KeyLeft:       Left,
	tcell.KeyRight:      Right,
	tcell.KeyBackspace:  Backspace,
	tcell.KeyBackspace2: Backspace,
	tcell.KeyDelete:     Delete,
	tcell.KeyHome:       Home,
	tcell.KeyEnd:        End,
}

// FromEvent maps a tcell key or paste event to a logical key. Rune keys
// combined with Ctrl or Alt are not text and map to None.
func FromEvent(ev tcell.Event) Key {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		return Key{Name: Paste, Text: e.Text()}
	case *tcell.EventKey:
		if e.Key() == tcell.KeyRune {
			if e.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
				return Named(None)
			}
			return Char(e.Rune())
		}
		n, ok := tcellKeys[e.Key()]
		if !ok {
			return Named(None)
		}
		if n == Tab && e.Modifiers()&tcell.ModShift != 0 {
			n = BackTab
		}
		return Named(n)
	}
	return Named(None)
}
