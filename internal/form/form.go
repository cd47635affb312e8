// Package form implements a tabbed, keyboard driven questionnaire that runs
// as a modal box in a terminal.
//
// A Form owns all of its state. The host feeds it keys with HandleKey or raw
// input tokens with HandleInput, asks for frames with Render and receives
// the outcome once through the done callback: a *Result on submit, nil on
// cancel.
//
// Each real tab is either Browsing (cursor over the options) or capturing
// free text for its custom slot. After the last tab comes the summary page,
// reached by moving past the last tab, where Enter submits.
package form

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/micro-editor/tcell/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/helmutkemper/tabform/internal/keys"
	"github.com/helmutkemper/tabform/internal/textinput"
)

// Theme resolves semantic style names to styles.
type Theme interface {
	Style(name string) tcell.Style
}

type plainTheme struct{}

func (plainTheme) Style(string) tcell.Style { return tcell.StyleDefault }

// Option configures a Form.
type Option func(*Form)

// WithTheme sets the styles used by Render.
func WithTheme(t Theme) Option {
	return func(f *Form) {
		if t != nil {
			f.theme = t
		}
	}
}

// WithOnChange registers fn to be called after every state change. Hosts use
// it to schedule a redraw.
func WithOnChange(fn func()) Option {
	return func(f *Form) { f.onChange = fn }
}

// WithQuickSelect enables or disables the 1-9 quick select keys. They are
// enabled by default.
func WithQuickSelect(on bool) Option {
	return func(f *Form) { f.quick = on }
}

// Form is the controller of one form session.
type Form struct {
	spec     FormSpec
	theme    Theme
	onDone   func(*Result)
	onChange func()
	quick    bool

	current   int
	responses map[string]*TabResponse
	cursor    map[string]int
	editing   map[string]bool
	inputs    map[string]*textinput.Model

	finish sync.Once
	done   atomic.Bool

	cache map[int][]Line
}

// New validates spec and opens a form on it. onDone is called exactly once,
// with the result on submit or nil on cancel.
func New(spec FormSpec, onDone func(*Result), opts ...Option) (*Form, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	f := &Form{
		spec:      spec.clone(),
		theme:     plainTheme{},
		onDone:    onDone,
		quick:     true,
		responses: make(map[string]*TabResponse, len(spec.Tabs)),
		cursor:    make(map[string]int, len(spec.Tabs)),
		editing:   make(map[string]bool, len(spec.Tabs)),
		inputs:    make(map[string]*textinput.Model, len(spec.Tabs)),
	}
	for _, t := range f.spec.Tabs {
		f.responses[t.ID] = &TabResponse{}
		f.cursor[t.ID] = 0
		f.editing[t.ID] = false
		f.inputs[t.ID] = textinput.New()
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Spec returns the form's spec.
func (f *Form) Spec() FormSpec { return f.spec }

// TabCount is the number of real tabs. CurrentTab equals TabCount on the
// summary page.
func (f *Form) TabCount() int { return len(f.spec.Tabs) }

// CurrentTab returns the index of the active tab.
func (f *Form) CurrentTab() int { return f.current }

// InSummary reports whether the summary page is active.
func (f *Form) InSummary() bool { return f.current == len(f.spec.Tabs) }

// Editing reports whether the active tab is capturing free text.
func (f *Form) Editing() bool {
	t := f.tab()
	return t != nil && f.editing[t.ID]
}

// Done reports whether the form has been submitted or cancelled.
func (f *Form) Done() bool { return f.done.Load() }

// Cursor returns the cursor position on the given tab.
func (f *Form) Cursor(id string) int { return f.cursor[id] }

// Response returns a copy of the current response of a tab.
func (f *Form) Response(id string) (TabResponse, bool) {
	r, ok := f.responses[id]
	if !ok {
		return TabResponse{}, false
	}
	return r.clone(), true
}

// Answered reports whether the tab has a selection or custom text. It is
// computed from the current response on every call.
func (f *Form) Answered(id string) bool {
	r, ok := f.responses[id]
	return ok && r.Answered()
}

// AnswerText returns the summary text of a tab, or NoSelection.
func (f *Form) AnswerText(id string) string {
	t, ok := f.spec.Tab(id)
	if !ok || !f.Answered(id) {
		return NoSelection
	}
	return AnswerText(t, *f.responses[id])
}

// InputValue returns the text buffer of a tab's custom slot.
func (f *Form) InputValue(id string) string {
	if in, ok := f.inputs[id]; ok {
		return in.Value()
	}
	return ""
}

// Abort cancels the form. It is safe to call from any goroutine and any
// number of times; only the first call to Abort, submit or cancel wins.
func (f *Form) Abort() {
	f.complete(nil)
}

// Watch aborts the form when ctx is done. The returned stop function
// detaches the watch.
func (f *Form) Watch(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, f.Abort)
}

// HandleInput parses a raw input token and handles the resulting key.
func (f *Form) HandleInput(token string) bool {
	return f.HandleKey(keys.Parse(token))
}

// HandleKey feeds one logical key to the form. It reports whether the key
// was consumed, which is always the case while the form is running.
func (f *Form) HandleKey(k keys.Key) bool {
	if f.Done() {
		return false
	}
	switch {
	case f.InSummary():
		f.handleSummary(k)
	case f.Editing():
		f.handleCustomInput(k)
	default:
		f.handleBrowsing(k)
	}
	return true
}

func (f *Form) handleBrowsing(k keys.Key) {
	t := f.tab()
	switch {
	case k.Is(keys.Escape):
		f.complete(nil)
	case k.Is(keys.Tab, keys.Right) || isRune(k, "l"):
		f.setTab(f.current + 1)
	case k.Is(keys.BackTab, keys.Left) || isRune(k, "h"):
		f.setTab(f.current - 1)
	case k.Is(keys.Up) || isRune(k, "k"):
		f.setCursor(t, f.cursor[t.ID]-1)
	case k.Is(keys.Down) || isRune(k, "j"):
		f.setCursor(t, f.cursor[t.ID]+1)
	case k.Is(keys.Enter, keys.Space):
		f.activate(t, f.cursor[t.ID])
	default:
		d, ok := k.Digit()
		if !ok || !f.quick || d > t.OptionCount() {
			return
		}
		f.setCursor(t, d-1)
		f.activate(t, d-1)
	}
}

func (f *Form) handleCustomInput(k keys.Key) {
	t := f.tab()
	switch k.Name {
	case keys.Escape:
		f.editing[t.ID] = false
		f.changed()
	case keys.Enter:
		text := norm.NFC.String(strings.TrimSpace(f.inputs[t.ID].Value()))
		if text != "" {
			r := f.responses[t.ID]
			r.CustomText = text
			r.Selected = nil
		}
		f.editing[t.ID] = false
		f.changed()
	default:
		if f.inputs[t.ID].HandleKey(k) {
			f.changed()
		}
	}
}

func (f *Form) handleSummary(k keys.Key) {
	n := len(f.spec.Tabs)
	switch {
	case k.Is(keys.Enter):
		f.complete(f.result())
	case k.Is(keys.Escape):
		f.complete(nil)
	case n == 0:
	case k.Is(keys.Tab, keys.Right):
		f.setTab(0)
	case k.Is(keys.BackTab, keys.Left):
		f.setTab(n - 1)
	}
}

// activate applies Enter/Space to cursor slot i of tab t.
func (f *Form) activate(t *TabSpec, i int) {
	if t.IsCustomSlot(i) {
		in := f.inputs[t.ID]
		in.SetValue(f.responses[t.ID].CustomText)
		f.editing[t.ID] = true
		f.changed()
		return
	}
	if i < 0 || i >= len(t.Options) {
		return
	}
	r := f.responses[t.ID]
	value := t.Options[i].Value
	switch t.Type {
	case Single:
		r.Selected = []string{value}
	case Multiple:
		if j := indexOf(r.Selected, value); j >= 0 {
			r.Selected = append(r.Selected[:j:j], r.Selected[j+1:]...)
		} else {
			r.Selected = append(r.Selected, value)
		}
	}
	r.CustomText = ""
	f.changed()
}

func (f *Form) setTab(i int) {
	i = clamp(i, 0, len(f.spec.Tabs))
	if i == f.current {
		return
	}
	f.current = i
	f.changed()
}

func (f *Form) setCursor(t *TabSpec, i int) {
	i = clamp(i, 0, t.OptionCount()-1)
	if i == f.cursor[t.ID] {
		return
	}
	f.cursor[t.ID] = i
	f.changed()
}

// tab returns the active real tab, nil on the summary page.
func (f *Form) tab() *TabSpec {
	if f.current >= len(f.spec.Tabs) {
		return nil
	}
	return &f.spec.Tabs[f.current]
}

func (f *Form) result() *Result {
	res := &Result{Responses: make(map[string]TabResponse, len(f.responses))}
	for id, r := range f.responses {
		res.Responses[id] = r.clone()
	}
	return res
}

func (f *Form) complete(res *Result) {
	f.finish.Do(func() {
		f.done.Store(true)
		if f.onDone != nil {
			f.onDone(res)
		}
	})
}

func (f *Form) changed() {
	f.Invalidate()
	if f.onChange != nil {
		f.onChange()
	}
}

func isRune(k keys.Key, s string) bool {
	return k.Name == keys.Rune && k.Text == s
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
