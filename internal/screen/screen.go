// Package screen owns the tcell screen and draws form boxes on it as a
// centered modal overlay.
package screen

import (
	"os"

	"github.com/go-errors/errors"
	isatty "github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/micro-editor/tcell/v2"

	"github.com/helmutkemper/tabform/internal/form"
)

// Interactive reports whether stdin is a terminal. The screen is drawn on
// the controlling tty, so stdout may be redirected.
func Interactive() bool {
	return isTerminal(os.Stdin.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Init creates and initializes a terminal screen.
func Init() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	s.HideCursor()
	return s, nil
}

// BoxWidth is the width a box may take on a screen w cells wide: the
// preferred width, shrunk to leave a one cell margin on each side.
func BoxWidth(w, preferred int) int {
	if w-2 < preferred {
		return w - 2
	}
	return preferred
}

// DrawOverlay draws lines centered on s. Lines wider or taller than the
// screen are cut at its edges.
func DrawOverlay(s tcell.Screen, lines []form.Line) {
	if len(lines) == 0 {
		return
	}
	w, h := s.Size()
	boxW := lines[0].Width()
	x0 := (w - boxW) / 2
	y0 := (h - len(lines)) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	for i, l := range lines {
		if y0+i >= h {
			break
		}
		DrawLine(s, x0, y0+i, l)
	}
}

// DrawLine draws one styled line starting at x, y.
func DrawLine(s tcell.Screen, x, y int, l form.Line) int {
	for _, seg := range l {
		x = putString(s, x, y, seg.Text, seg.Style)
	}
	return x
}

func putString(s tcell.Screen, x, y int, str string, st tcell.Style) int {
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		s.SetContent(x, y, r, nil, st)
		x += w
	}
	return x
}
