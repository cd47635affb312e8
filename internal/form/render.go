package form

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/micro-editor/tcell/v2"
)

// Style names looked up in the Theme.
const (
	StyleText     = "text"
	StyleTitle    = "title"
	StyleAccent   = "accent"
	StyleSelected = "selected"
	StyleMuted    = "muted"
	StyleDim      = "dim"
	StyleSuccess  = "success"
	StyleWarning  = "warning"
	StyleBorder   = "border"
	StyleActive   = "active"
	StyleInput    = "input"
	StyleCursor   = "cursor"
)

// MinWidth is the narrowest box Render draws. Narrower requests get no
// lines.
const MinWidth = 12

const ellipsis = "…"

// Box pieces. Their widths are measured at render time because box drawing
// runes are two cells wide when East Asian ambiguous width is on.
const (
	hbar       = "─"
	frameLeft  = "│ "
	frameRight = " │"
)

// Segment is a run of text in one style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Line is one rendered row.
type Line []Segment

// String returns the text of the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the display width of the line in cells.
func (l Line) Width() int {
	w := 0
	for _, s := range l {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// Render returns the form as a bordered box exactly width cells wide.
// Results are cached per width until the next state change or Invalidate;
// callers must not modify the returned lines.
func (f *Form) Render(width int) []Line {
	if width < MinWidth {
		return nil
	}
	if lines, ok := f.cache[width]; ok {
		return lines
	}
	inner := width - runewidth.StringWidth(frameLeft) - runewidth.StringWidth(frameRight)
	r := renderer{f: f, th: f.theme, inner: inner}
	lines := r.render(width)
	if f.cache == nil {
		f.cache = make(map[int][]Line)
	}
	f.cache[width] = lines
	return lines
}

// Invalidate drops the render cache.
func (f *Form) Invalidate() {
	f.cache = nil
}

type renderer struct {
	f     *Form
	th    Theme
	inner int
}

func (r renderer) st(name string) tcell.Style { return r.th.Style(name) }

func (r renderer) seg(text, style string) Segment {
	return Segment{Text: text, Style: r.st(style)}
}

func (r renderer) render(width int) []Line {
	body := []Line{r.tabStrip(), r.rule()}
	if r.f.InSummary() {
		body = append(body, r.summary()...)
	} else {
		body = append(body, r.browse()...)
	}
	body = append(body, r.rule(), r.help())

	out := make([]Line, 0, len(body)+2)
	out = append(out, r.top(width))
	for _, l := range body {
		out = append(out, r.frame(l))
	}
	return append(out, r.bottom(width))
}

func (r renderer) top(width int) Line {
	avail := width - runewidth.StringWidth("┌") - runewidth.StringWidth("┐")
	title := ""
	if r.f.spec.Title != "" {
		title = " " + truncate(r.f.spec.Title, avail-4) + " "
	}
	tw := runewidth.StringWidth(title)
	left := (avail - tw) / 2
	right := avail - tw - left
	return Line{
		r.seg("┌"+hline(left), StyleBorder),
		r.seg(title, StyleTitle),
		r.seg(hline(right)+"┐", StyleBorder),
	}
}

func (r renderer) bottom(width int) Line {
	avail := width - runewidth.StringWidth("└") - runewidth.StringWidth("┘")
	return Line{r.seg("└"+hline(avail)+"┘", StyleBorder)}
}

func (r renderer) frame(l Line) Line {
	out := Line{r.seg(frameLeft, StyleBorder)}
	out = append(out, fit(l, r.inner, r.st(StyleText))...)
	return append(out, r.seg(frameRight, StyleBorder))
}

func (r renderer) rule() Line {
	return Line{r.seg(hline(r.inner), StyleBorder)}
}

// hline is a horizontal border w cells wide. A cell the bar rune cannot
// fill is a space.
func hline(w int) string {
	if w <= 0 {
		return ""
	}
	bw := runewidth.StringWidth(hbar)
	n := w / bw
	return strings.Repeat(hbar, n) + strings.Repeat(" ", w-n*bw)
}

func (r renderer) tabStrip() Line {
	var l Line
	for i, t := range r.f.spec.Tabs {
		marker, ms := "□", StyleDim
		if r.f.Answered(t.ID) {
			marker, ms = "✓", StyleSuccess
		}
		if i == r.f.current {
			l = append(l, r.seg(" "+marker+" "+t.Label+" ", StyleActive))
		} else {
			l = append(l, r.seg(" ", StyleText), r.seg(marker, ms), r.seg(" "+t.Label+" ", StyleMuted))
		}
	}
	if r.f.InSummary() {
		l = append(l, r.seg(" → Submit ", StyleActive))
	} else {
		l = append(l, r.seg(" → Submit ", StyleMuted))
	}
	return l
}

func (r renderer) browse() []Line {
	f := r.f
	t := f.tab()
	var lines []Line
	for _, q := range wrap(t.Question, r.inner) {
		lines = append(lines, Line{r.seg(q, StyleSelected)})
	}
	lines = append(lines, nil)

	resp := f.responses[t.ID]
	cur := f.cursor[t.ID]
	for i, o := range t.Options {
		marker := "( ) "
		if t.Type == Multiple {
			marker = "[ ] "
		}
		ms := StyleDim
		if resp.IsSelected(o.Value) {
			ms = StyleSuccess
			switch t.Type {
			case Single:
				marker = "(•) "
			case Multiple:
				marker = "[x] "
			}
		}
		ls := StyleText
		if i == cur {
			ls = StyleSelected
		}
		l := append(r.prefix(i, cur), r.seg(marker, ms), r.seg(o.Label, ls))
		lines = append(lines, l)
		if o.Description != "" {
			lines = append(lines, Line{r.seg(strings.Repeat(" ", 8), StyleText), r.seg(o.Description, StyleMuted)})
		}
	}

	if !t.AllowCustom {
		return lines
	}
	i := len(t.Options)
	l := append(r.prefix(i, cur), r.seg("✎   ", StyleDim))
	switch {
	case f.editing[t.ID]:
		l = append(l, r.seg("Type your answer", StyleSelected))
	case resp.CustomText != "":
		l = append(l, r.seg("\""+resp.CustomText+"\"", StyleSuccess))
	default:
		l = append(l, r.seg("Other…", StyleMuted))
	}
	lines = append(lines, l)

	if f.editing[t.ID] {
		before, at, after := f.inputs[t.ID].View(r.inner - 10)
		lines = append(lines, Line{
			r.seg(strings.Repeat(" ", 8), StyleText),
			r.seg("> ", StyleAccent),
			r.seg(before, StyleInput),
			r.seg(at, StyleCursor),
			r.seg(after, StyleInput),
		})
		lines = append(lines, Line{r.seg(strings.Repeat(" ", 10), StyleText), r.seg("Enter to save, Esc to discard", StyleDim)})
	}
	return lines
}

// prefix is the cursor indicator and quick select number of slot i.
func (r renderer) prefix(i, cur int) Line {
	c := r.seg("  ", StyleText)
	if i == cur {
		c = r.seg("› ", StyleAccent)
	}
	num := "  "
	if r.f.quick && i < 9 {
		num = strconv.Itoa(i+1) + " "
	}
	return Line{c, r.seg(num, StyleDim)}
}

func (r renderer) summary() []Line {
	f := r.f
	lines := []Line{{r.seg("Review your answers", StyleTitle)}, nil}
	if len(f.spec.Tabs) == 0 {
		lines = append(lines, Line{r.seg("Nothing to answer.", StyleDim)})
	}
	answered := 0
	for _, t := range f.spec.Tabs {
		as := StyleText
		if f.Answered(t.ID) {
			answered++
		} else {
			as = StyleWarning
		}
		lines = append(lines, Line{r.seg(t.Label+": ", StyleAccent), r.seg(f.AnswerText(t.ID), as)})
	}
	if len(f.spec.Tabs) > 0 {
		lines = append(lines, nil, Line{r.seg(strconv.Itoa(answered)+" of "+strconv.Itoa(len(f.spec.Tabs))+" answered", StyleDim)})
	}
	return lines
}

func (r renderer) help() Line {
	var pairs []string
	switch {
	case r.f.InSummary():
		pairs = []string{"enter", "submit", "shift+tab", "back", "esc", "cancel"}
	case r.f.Editing():
		pairs = []string{"enter", "save", "esc", "discard", "←→", "cursor"}
	default:
		verb := "select"
		if r.f.tab().Type == Multiple {
			verb = "toggle"
		}
		pairs = []string{"↑↓", "move", "space", verb}
		if r.f.quick {
			pairs = append(pairs, "1-9", "pick")
		}
		pairs = append(pairs, "tab", "next", "esc", "cancel")
	}
	var l Line
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			l = append(l, r.seg("  ", StyleDim))
		}
		l = append(l, r.seg(pairs[i], StyleMuted), r.seg(" "+pairs[i+1], StyleDim))
	}
	return l
}

// fit clips l to w cells with a trailing ellipsis, or pads it with spaces
// in the pad style, so the result is exactly w cells wide.
func fit(l Line, w int, pad tcell.Style) Line {
	if w <= 0 {
		return nil
	}
	out := make(Line, 0, len(l)+1)
	if l.Width() <= w {
		out = append(out, l...)
	} else {
		room := w - runewidth.StringWidth(ellipsis)
		if room < 0 {
			room = 0
		}
		for _, s := range l {
			sw := runewidth.StringWidth(s.Text)
			if sw <= room {
				out = append(out, s)
				room -= sw
				continue
			}
			text := runewidth.Truncate(s.Text, room, "")
			if out.Width()+runewidth.StringWidth(text+ellipsis) <= w {
				text += ellipsis
			}
			out = append(out, Segment{Text: text, Style: s.Style})
			break
		}
	}
	if n := w - out.Width(); n > 0 {
		out = append(out, Segment{Text: strings.Repeat(" ", n), Style: pad})
	}
	return out
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= w {
		return s
	}
	room := w - runewidth.StringWidth(ellipsis)
	if room < 0 {
		return runewidth.Truncate(s, w, "")
	}
	return runewidth.Truncate(s, room, "") + ellipsis
}

// wrap breaks text into lines of at most w cells on word boundaries. Words
// longer than w get a line of their own and are clipped later.
func wrap(text string, w int) []string {
	var lines []string
	var cur strings.Builder
	cw := 0
	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if cw > 0 && cw+1+ww > w {
			lines = append(lines, cur.String())
			cur.Reset()
			cw = 0
		}
		if cw > 0 {
			cur.WriteByte(' ')
			cw++
		}
		cur.WriteString(word)
		cw += ww
	}
	if cw > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
