package action

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmutkemper/tabform/internal/config"
	"github.com/helmutkemper/tabform/internal/form"
)

func simHost(t *testing.T) (*Host, tcell.Screen) {
	t.Helper()
	h := NewHost(func() (tcell.Screen, error) {
		s := tcell.NewSimulationScreen("")
		if err := s.Init(); err != nil {
			return nil, err
		}
		s.SetSize(80, 24)
		return s, nil
	})
	s, err := h.Screen()
	require.NoError(t, err)
	t.Cleanup(h.Fini)
	return h, s
}

func post(t *testing.T, s tcell.Screen, evs ...tcell.Event) {
	t.Helper()
	for _, ev := range evs {
		require.NoError(t, s.PostEvent(ev))
	}
}

func key(k tcell.Key) tcell.Event { return tcell.NewEventKey(k, 0, tcell.ModNone, "") }

func char(r rune) tcell.Event { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone, "") }

func pickSpec() form.FormSpec {
	return form.FormSpec{
		Title: "Pick",
		Tabs: []form.TabSpec{{
			ID:          "color",
			Label:       "Color",
			Question:    "Which color?",
			Options:     []form.OptionSpec{{Value: "red", Label: "Red"}, {Value: "blue", Label: "Blue"}},
			AllowCustom: true,
		}},
	}
}

func TestAskSubmit(t *testing.T) {
	h, s := simHost(t)
	post(t, s, key(tcell.KeyDown), key(tcell.KeyEnter), key(tcell.KeyTab), key(tcell.KeyEnter))

	res, err := h.Ask(context.Background(), pickSpec(), 60)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"blue"}, res.Response("color").Selected)
}

func TestAskCustomTextAndPaste(t *testing.T) {
	h, s := simHost(t)
	post(t, s,
		char('3'),
		tcell.NewEventPaste("teal\r\nish", ""),
		key(tcell.KeyEnter),
		key(tcell.KeyTab),
		key(tcell.KeyEnter),
	)

	res, err := h.Ask(context.Background(), pickSpec(), 60)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "teal ish", res.Response("color").CustomText)
}

func TestAskCancel(t *testing.T) {
	for name, ev := range map[string]tcell.Event{
		"escape": key(tcell.KeyEscape),
		"ctrl-c": key(tcell.KeyCtrlC),
	} {
		t.Run(name, func(t *testing.T) {
			h, s := simHost(t)
			post(t, s, ev)

			res, err := h.Ask(context.Background(), pickSpec(), 60)
			require.NoError(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestAskContextCancelled(t *testing.T) {
	h, _ := simHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := h.Ask(ctx, pickSpec(), 60)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestAskSequential(t *testing.T) {
	h, s := simHost(t)

	post(t, s, key(tcell.KeyEscape))
	res, err := h.Ask(context.Background(), pickSpec(), 60)
	require.NoError(t, err)
	assert.Nil(t, res)

	post(t, s, key(tcell.KeyEnter), key(tcell.KeyTab), key(tcell.KeyEnter))
	res, err = h.Ask(context.Background(), pickSpec(), 60)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"red"}, res.Response("color").Selected)
}

func TestFiniStopsPolling(t *testing.T) {
	h, s := simHost(t)
	events := h.events
	post(t, s, char('x'), char('y'))

	finished := make(chan struct{})
	go func() {
		h.Fini()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Fini did not return")
	}

	_, open := <-events
	assert.False(t, open)
	h.Fini()
}

func TestAskNotInteractive(t *testing.T) {
	_, err := NewHost(nil).Ask(context.Background(), pickSpec(), 60)
	assert.ErrorIs(t, err, ErrNotInteractive)

	_, err = (&App{}).RunForm("x", pickSpec())
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestAskInvalidSpec(t *testing.T) {
	h, _ := simHost(t)
	spec := pickSpec()
	spec.Tabs = append(spec.Tabs, spec.Tabs[0])

	_, err := h.Ask(context.Background(), spec, 60)
	assert.ErrorIs(t, err, form.ErrInvalidSpec)
}

func TestRunForm(t *testing.T) {
	h, s := simHost(t)
	post(t, s, key(tcell.KeyEnter), key(tcell.KeyTab), key(tcell.KeyEnter))

	var out bytes.Buffer
	cb := &fakeClipboard{}
	file := filepath.Join(t.TempDir(), "pick.md")
	a := &App{
		Host:        h,
		Stdout:      &out,
		Output:      file,
		Clip:        true,
		Colorscheme: "no-such-scheme",
		Clipboard:   func() (Clipboard, error) { return cb, nil },
	}

	res, err := a.RunForm("pick.yaml", pickSpec())
	require.NoError(t, err)
	require.NotNil(t, res)

	want := form.Transcript(pickSpec(), res)
	assert.Equal(t, want, out.String())
	assert.Equal(t, want, string(cb.data))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestOpenCmdTranscriptDir(t *testing.T) {
	InitCommands()
	h, s := simHost(t)
	root := t.TempDir()
	dir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "forms"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "forms", "pick.yaml"), []byte(`title: Pick
tabs:
  - id: color
    options:
      - value: red
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "settings.json"), []byte(`{"transcriptdir": "`+dir+`"}`), 0644))

	p := config.Paths{Root: root}
	cfg, err := config.ReadSettings(p)
	require.NoError(t, err)

	post(t, s, key(tcell.KeyEnter), key(tcell.KeyTab), key(tcell.KeyEnter))
	a := &App{Paths: p, Config: cfg, Host: h}
	require.NoError(t, a.RunCmdLine("open pick"))

	data, err := os.ReadFile(filepath.Join(dir, "pick.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Answer: red")
}
