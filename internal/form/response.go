package form

import "strings"

// NoSelection is shown in the summary for a tab without an answer.
const NoSelection = "(no selection)"

// TabResponse is the answer to one tab. Selected and CustomText are never
// both set: setting one clears the other.
type TabResponse struct {
	// Selected holds option values in selection order. It has at most one
	// element for Single tabs.
	Selected []string `json:"selected,omitempty" yaml:"selected,omitempty"`
	// CustomText is the free-text answer, empty when not given.
	CustomText string `json:"customText,omitempty" yaml:"custom,omitempty"`
}

// Answered reports whether the response holds a selection or custom text.
func (r TabResponse) Answered() bool {
	return len(r.Selected) > 0 || r.CustomText != ""
}

// IsSelected reports whether value is in the selected set.
func (r TabResponse) IsSelected(value string) bool {
	return indexOf(r.Selected, value) >= 0
}

func (r TabResponse) clone() TabResponse {
	r.Selected = append([]string(nil), r.Selected...)
	return r
}

// Result is what a submitted form returns: one response per tab, keyed by
// tab id. Tabs left unanswered are present with an empty response.
type Result struct {
	Responses map[string]TabResponse
}

// Response returns the response for a tab id.
func (r *Result) Response(id string) TabResponse {
	if r == nil {
		return TabResponse{}
	}
	return r.Responses[id]
}

// AnswerText is the human readable answer of a tab: the custom text
// verbatim, else the comma-joined labels of the selected options, else
// the empty string.
func AnswerText(t *TabSpec, r TabResponse) string {
	if r.CustomText != "" {
		return r.CustomText
	}
	labels := make([]string, 0, len(r.Selected))
	for _, v := range r.Selected {
		if o, ok := t.Option(v); ok && o.Label != "" {
			labels = append(labels, o.Label)
		} else {
			labels = append(labels, v)
		}
	}
	return strings.Join(labels, ", ")
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
