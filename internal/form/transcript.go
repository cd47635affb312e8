package form

import (
	"bufio"
	"io"
	"strings"
)

// Skipped is the transcript answer of a tab without any response.
const Skipped = "(skipped)"

// WriteTranscript writes the plain-text record of a submitted form: the
// title as a heading, then per tab its label, its question and the answer.
func WriteTranscript(w io.Writer, spec FormSpec, res *Result) error {
	bw := bufio.NewWriter(w)
	title := spec.Title
	if title == "" {
		title = "Form"
	}
	bw.WriteString("# " + title + "\n")
	for i := range spec.Tabs {
		t := &spec.Tabs[i]
		label := t.Label
		if label == "" {
			label = t.ID
		}
		bw.WriteString("\n## " + label + "\n\n")
		if t.Question != "" {
			bw.WriteString(t.Question + "\n\n")
		}
		answer := Skipped
		if r := res.Response(t.ID); r.Answered() {
			answer = AnswerText(t, r)
		}
		bw.WriteString("Answer: " + answer + "\n")
	}
	return bw.Flush()
}

// Transcript returns the transcript as a string.
func Transcript(spec FormSpec, res *Result) string {
	var b strings.Builder
	WriteTranscript(&b, spec, res)
	return b.String()
}
