package form

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

// ErrInvalidSpec is wrapped by every error New returns for a malformed
// FormSpec.
var ErrInvalidSpec = errors.New("invalid form spec")

// SelectionType says how many options of a tab can be selected at once.
type SelectionType int

const (
	// Single allows at most one selected option (radio buttons). It is the
	// zero value.
	Single SelectionType = iota
	// Multiple allows any subset of the options (checkboxes).
	Multiple
)

func (t SelectionType) String() string {
	switch t {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	}
	return fmt.Sprintf("SelectionType(%d)", int(t))
}

// ParseSelectionType parses "single" or "multiple".
func ParseSelectionType(s string) (SelectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "":
		return Single, nil
	case "multiple", "multi":
		return Multiple, nil
	}
	return 0, errors.Errorf("unknown selection type %q", s)
}

// UnmarshalYAML lets form files spell the selection type as a string.
func (t *SelectionType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseSelectionType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// OptionSpec is one choice of a tab.
type OptionSpec struct {
	// Value is reported in the result and must be unique within its tab.
	Value string `yaml:"value"`
	// Label is what the user sees, in the option list and in the summary.
	Label string `yaml:"label"`
	// Description is optional and clipped to a single line when rendered.
	Description string `yaml:"description,omitempty"`
}

// TabSpec is one question of the form.
type TabSpec struct {
	// ID keys the tab's response in the result. Must be unique.
	ID string `yaml:"id"`
	// Label is the short name shown in the tab strip.
	Label    string        `yaml:"label"`
	Question string        `yaml:"question"`
	Options  []OptionSpec  `yaml:"options"`
	Type     SelectionType `yaml:"type"`
	// AllowCustom appends a free-text slot after the options.
	AllowCustom bool `yaml:"custom"`
}

// OptionCount is the number of cursor slots of the tab: its options plus
// the free-text slot when AllowCustom is set.
func (t *TabSpec) OptionCount() int {
	n := len(t.Options)
	if t.AllowCustom {
		n++
	}
	return n
}

// IsCustomSlot reports whether cursor position i is the free-text slot.
func (t *TabSpec) IsCustomSlot(i int) bool {
	return t.AllowCustom && i == len(t.Options)
}

// Option returns the option with the given value.
func (t *TabSpec) Option(value string) (OptionSpec, bool) {
	for _, o := range t.Options {
		if o.Value == value {
			return o, true
		}
	}
	return OptionSpec{}, false
}

// FormSpec describes a whole form. It is never modified once a Form is
// built from it.
type FormSpec struct {
	Title string    `yaml:"title"`
	Tabs  []TabSpec `yaml:"tabs"`
}

// Tab returns the tab with the given id.
func (s *FormSpec) Tab(id string) (*TabSpec, bool) {
	for i := range s.Tabs {
		if s.Tabs[i].ID == id {
			return &s.Tabs[i], true
		}
	}
	return nil, false
}

// Validate checks the contract New relies on: tab ids are non-empty and
// unique, option values are non-empty and unique within a tab, every tab
// has at least one cursor slot and a known selection type.
func (s *FormSpec) Validate() error {
	seen := make(map[string]bool, len(s.Tabs))
	for i, t := range s.Tabs {
		if t.ID == "" {
			return invalid("tab %d has an empty id", i+1)
		}
		if seen[t.ID] {
			return invalid("duplicate tab id %q", t.ID)
		}
		seen[t.ID] = true

		switch t.Type {
		case Single, Multiple:
		default:
			return invalid("tab %q: %v", t.ID, t.Type)
		}

		if t.OptionCount() == 0 {
			return invalid("tab %q has no options and does not allow custom input", t.ID)
		}
		values := make(map[string]bool, len(t.Options))
		for _, o := range t.Options {
			if o.Value == "" {
				return invalid("tab %q has an option with an empty value", t.ID)
			}
			if values[o.Value] {
				return invalid("tab %q: duplicate option value %q", t.ID, o.Value)
			}
			values[o.Value] = true
		}
	}
	return nil
}

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, a...))
}

// clone deep-copies s so callers cannot mutate a running form.
func (s FormSpec) clone() FormSpec {
	c := FormSpec{Title: s.Title, Tabs: make([]TabSpec, len(s.Tabs))}
	for i, t := range s.Tabs {
		t.Options = append([]OptionSpec(nil), t.Options...)
		if t.Label == "" {
			t.Label = t.ID
		}
		for j := range t.Options {
			if t.Options[j].Label == "" {
				t.Options[j].Label = t.Options[j].Value
			}
		}
		c.Tabs[i] = t
	}
	return c
}
