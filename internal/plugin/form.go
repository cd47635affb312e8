package plugin

import (
	"github.com/go-errors/errors"
	lua "github.com/yuin/gopher-lua"
	luar "layeh.com/gopher-luar"

	"github.com/helmutkemper/tabform/internal/form"
)

// Form is a form registered by a plugin.
type Form struct {
	Name   string
	Plugin string
	Spec   form.FormSpec

	hook *lua.LFunction
}

// Submit runs the onsubmit hook of f with the transcript of res and the
// answer text of every tab. A nil result or a missing hook is a no-op.
func (m *Manager) Submit(f *Form, res *form.Result) error {
	if f.hook == nil || res == nil {
		return nil
	}
	answers := make(map[string]string, len(f.Spec.Tabs))
	for i := range f.Spec.Tabs {
		t := &f.Spec.Tabs[i]
		answers[t.ID] = form.AnswerText(t, res.Response(t.ID))
	}
	err := m.L.CallByParam(lua.P{
		Fn:      f.hook,
		NRet:    0,
		Protect: true,
	}, lua.LString(form.Transcript(f.Spec, res)), luar.New(m.L, answers))
	if err != nil {
		return errors.Errorf("plugin %s: onsubmit: %v", f.Plugin, err)
	}
	return nil
}

// toSpec reads a form table:
//
//	{ title = "...", tabs = { { id = "...", label = "...", question = "...",
//	  type = "single"|"multiple", custom = true,
//	  options = { "value", { value = "...", label = "...", description = "..." } } } } }
func toSpec(tbl *lua.LTable) (form.FormSpec, error) {
	spec := form.FormSpec{Title: lua.LVAsString(tbl.RawGetString("title"))}
	tabs, ok := tbl.RawGetString("tabs").(*lua.LTable)
	if !ok {
		return spec, errors.New("tabs must be a table")
	}
	for i := 1; i <= tabs.Len(); i++ {
		tt, ok := tabs.RawGetInt(i).(*lua.LTable)
		if !ok {
			return spec, errors.Errorf("tab %d must be a table", i)
		}
		tab, err := toTab(tt)
		if err != nil {
			return spec, errors.Errorf("tab %d: %v", i, err)
		}
		spec.Tabs = append(spec.Tabs, tab)
	}
	return spec, spec.Validate()
}

func toTab(tt *lua.LTable) (form.TabSpec, error) {
	tab := form.TabSpec{
		ID:          lua.LVAsString(tt.RawGetString("id")),
		Label:       lua.LVAsString(tt.RawGetString("label")),
		Question:    lua.LVAsString(tt.RawGetString("question")),
		AllowCustom: lua.LVAsBool(tt.RawGetString("custom")),
	}
	typ, err := form.ParseSelectionType(lua.LVAsString(tt.RawGetString("type")))
	if err != nil {
		return tab, err
	}
	tab.Type = typ

	switch opts := tt.RawGetString("options").(type) {
	case *lua.LNilType:
	case *lua.LTable:
		for i := 1; i <= opts.Len(); i++ {
			switch o := opts.RawGetInt(i).(type) {
			case lua.LString:
				tab.Options = append(tab.Options, form.OptionSpec{Value: string(o)})
			case *lua.LTable:
				tab.Options = append(tab.Options, form.OptionSpec{
					Value:       lua.LVAsString(o.RawGetString("value")),
					Label:       lua.LVAsString(o.RawGetString("label")),
					Description: lua.LVAsString(o.RawGetString("description")),
				})
			default:
				return tab, errors.Errorf("option %d must be a string or a table", i)
			}
		}
	default:
		return tab, errors.New("options must be a table")
	}
	return tab, nil
}
