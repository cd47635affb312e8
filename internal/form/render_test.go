package form

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmutkemper/tabform/internal/keys"
)

type mapTheme map[string]tcell.Style

func (m mapTheme) Style(name string) tcell.Style {
	if st, ok := m[name]; ok {
		return st
	}
	return tcell.StyleDefault
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func assertWidth(t *testing.T, lines []Line, w int) {
	t.Helper()
	for i, l := range lines {
		assert.Equal(t, w, l.Width(), "line %d: %q", i, l.String())
	}
}

func TestRenderFixedWidth(t *testing.T) {
	spec := colorNotes()
	spec.Tabs[0].Options[0].Description = strings.Repeat("a very long description ", 10)

	for _, w := range []int{MinWidth, 30, 60, 120} {
		f, _ := newForm(t, spec)
		assertWidth(t, f.Render(w), w)

		press(f, tab, keys.Char('3'))
		typeText(f, strings.Repeat("typing ", 20))
		assertWidth(t, f.Render(w), w)

		press(f, enter, tab)
		assertWidth(t, f.Render(w), w)
	}
}

func wideSpec() FormSpec {
	return FormSpec{
		Title: "設定の確認フォーム",
		Tabs: []TabSpec{
			{
				ID: "lang", Label: "言語", Question: "どの言語で書きますか 長い質問文がここに続きます",
				Options: []OptionSpec{
					{Value: "ja", Label: "日本語", Description: "漢字とかなを使う書き言葉の説明がとても長く続く"},
					{Value: "zh", Label: "中文简体字"},
				},
			},
			{ID: "memo", Label: "メモ", Question: "ほかに何か", Type: Multiple, AllowCustom: true,
				Options: []OptionSpec{{Value: "x", Label: "ｘ全角"}}},
		},
	}
}

func checkWidths(t *testing.T, spec FormSpec) {
	t.Helper()
	for w := MinWidth; w <= 64; w++ {
		f, _ := newForm(t, spec)
		assertWidth(t, f.Render(w), w)

		press(f, tab, keys.Char('2'))
		typeText(f, "全角の文字で入力した回答がとても長く続きます")
		assertWidth(t, f.Render(w), w)

		press(f, enter)
		assertWidth(t, f.Render(w), w)

		press(f, tab)
		assertWidth(t, f.Render(w), w)
	}
}

func TestRenderWideRunes(t *testing.T) {
	checkWidths(t, wideSpec())
}

func TestRenderEastAsianAmbiguousWidth(t *testing.T) {
	old := runewidth.DefaultCondition.EastAsianWidth
	runewidth.DefaultCondition.EastAsianWidth = true
	t.Cleanup(func() { runewidth.DefaultCondition.EastAsianWidth = old })
	require.Equal(t, 2, runewidth.StringWidth("─"))

	checkWidths(t, colorNotes())
	checkWidths(t, wideSpec())

	f, _ := newForm(t, colorNotes())
	lines := texts(f.Render(41))
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasSuffix(lines[0], "┐"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "└"))
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "┘"))
	for _, l := range lines[1 : len(lines)-1] {
		assert.True(t, strings.HasPrefix(l, frameLeft), l)
		assert.True(t, strings.HasSuffix(l, frameRight), l)
	}
}

func TestRenderTooNarrow(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	assert.Nil(t, f.Render(MinWidth-1))
}

func TestRenderIsCached(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	a := f.Render(50)
	b := f.Render(50)
	require.Equal(t, texts(a), texts(b))
	assert.Same(t, &a[0], &b[0])

	f.Invalidate()
	c := f.Render(50)
	assert.Equal(t, a, c)
	assert.NotSame(t, &a[0], &c[0])
}

func TestRenderChangesAfterInput(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	before := texts(f.Render(50))
	press(f, enter)
	after := texts(f.Render(50))

	assert.NotEqual(t, before, after)
	assert.Contains(t, strings.Join(after, "\n"), "(•) Red")
}

func TestRenderBox(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	lines := texts(f.Render(40))

	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[0], " Preferences ")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "└"))
	for _, l := range lines[1 : len(lines)-1] {
		assert.True(t, strings.HasPrefix(l, "│ "), l)
		assert.True(t, strings.HasSuffix(l, " │"), l)
	}
}

func TestRenderHelpIsLastContentLine(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	lines := texts(f.Render(80))
	assert.Contains(t, lines[len(lines)-2], "esc cancel")

	press(f, tab, keys.Char('3'))
	lines = texts(f.Render(80))
	assert.Contains(t, lines[len(lines)-2], "esc discard")

	press(f, esc, tab)
	lines = texts(f.Render(80))
	assert.Contains(t, lines[len(lines)-2], "enter submit")
}

func TestRenderTabStrip(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	press(f, enter)
	strip := f.Render(60)[1].String()

	assert.Contains(t, strip, "✓ Color")
	assert.Contains(t, strip, "□ Notes")
	assert.Contains(t, strip, "Submit")
}

func TestRenderSelectionMarkers(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	press(f, tab, keys.Char('2'))
	out := strings.Join(texts(f.Render(60)), "\n")

	assert.Contains(t, out, "[ ] A")
	assert.Contains(t, out, "› 2 [x] B")
	assert.Contains(t, out, "Other…")
}

func TestRenderClipsDescription(t *testing.T) {
	spec := colorNotes()
	spec.Tabs[0].Options[1].Description = strings.Repeat("word ", 40)
	f, _ := newForm(t, spec)

	lines := texts(f.Render(40))

	var found bool
	for _, l := range lines {
		if strings.Contains(l, "word") {
			found = true
			assert.Contains(t, l, "…")
		}
	}
	assert.True(t, found)
}

func TestRenderCustomInput(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	press(f, tab, keys.Char('3'))
	typeText(f, "hello")
	out := strings.Join(texts(f.Render(60)), "\n")
	assert.Contains(t, out, "> hello")
	assert.Contains(t, out, "Enter to save, Esc to discard")

	press(f, enter)
	out = strings.Join(texts(f.Render(60)), "\n")
	assert.Contains(t, out, `"hello"`)
	assert.NotContains(t, out, "> hello")
}

func TestRenderSummary(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	press(f, enter, tab, tab)
	out := strings.Join(texts(f.Render(60)), "\n")

	assert.Contains(t, out, "Review your answers")
	assert.Contains(t, out, "Color: Red")
	assert.Contains(t, out, "Notes: "+NoSelection)
	assert.Contains(t, out, "1 of 2 answered")
}

func TestRenderSummaryUsesLabels(t *testing.T) {
	f, _ := newForm(t, colorNotes())

	press(f, tab, enter, down, enter, tab)
	out := strings.Join(texts(f.Render(60)), "\n")

	assert.Contains(t, out, "Notes: A, B")
}

func TestRenderUsesTheme(t *testing.T) {
	active := tcell.StyleDefault.Reverse(true)
	border := tcell.StyleDefault.Foreground(tcell.ColorRed)
	f, _ := newForm(t, colorNotes(), WithTheme(mapTheme{StyleActive: active, StyleBorder: border}))

	lines := f.Render(60)

	assert.Equal(t, border, lines[0][0].Style)
	var activeSeg *Segment
	for i, s := range lines[1] {
		if strings.Contains(s.Text, "Color") {
			activeSeg = &lines[1][i]
		}
	}
	require.NotNil(t, activeSeg)
	assert.Equal(t, active, activeSeg.Style)
}

func TestFit(t *testing.T) {
	st := tcell.StyleDefault
	l := Line{{Text: "hello ", Style: st}, {Text: "world", Style: st.Bold(true)}}

	assert.Equal(t, "hello world   ", fit(l, 14, st).String())
	assert.Equal(t, "hello w…", fit(l, 8, st).String())
	assert.Equal(t, st.Bold(true), fit(l, 8, st)[1].Style)
	assert.Equal(t, "hell…", fit(l, 5, st).String())
	assert.Nil(t, fit(l, 0, st))

	wide := Line{{Text: "日本語テキスト", Style: st}}
	assert.Equal(t, "日本… ", fit(wide, 6, st).String())
	assert.Equal(t, "日本語…", fit(wide, 7, st).String())
	assert.Equal(t, 6, fit(wide, 6, st).Width())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "日本語", truncate("日本語", 6))
	assert.Equal(t, "日…", truncate("日本語", 4))
	assert.Equal(t, "", truncate("日本語", 0))
}

func TestHline(t *testing.T) {
	assert.Equal(t, "───", hline(3))
	assert.Equal(t, "", hline(0))

	old := runewidth.DefaultCondition.EastAsianWidth
	runewidth.DefaultCondition.EastAsianWidth = true
	t.Cleanup(func() { runewidth.DefaultCondition.EastAsianWidth = old })
	assert.Equal(t, "── ", hline(5))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Equal(t, []string{"abcdefghij"}, wrap("abcdefghij", 4))
	assert.Empty(t, wrap("   ", 10))
}
