package action

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmutkemper/tabform/internal/form"
)

type fakeClipboard struct {
	reg  string
	data []byte
	err  error
}

func (c *fakeClipboard) WriteAll(reg string, p []byte) error {
	if c.err != nil {
		return c.err
	}
	c.reg = reg
	c.data = append([]byte(nil), p...)
	return nil
}

func deliverySpec() (form.FormSpec, *form.Result) {
	spec := form.FormSpec{
		Title: "Lunch",
		Tabs: []form.TabSpec{{
			ID:       "food",
			Label:    "Food",
			Question: "What?",
			Options:  []form.OptionSpec{{Value: "soup", Label: "Soup"}},
		}},
	}
	res := &form.Result{Responses: map[string]form.TabResponse{"food": {Selected: []string{"soup"}}}}
	return spec, res
}

func TestDeliver(t *testing.T) {
	spec, res := deliverySpec()
	want := form.Transcript(spec, res)

	var out bytes.Buffer
	cb := &fakeClipboard{}
	file := filepath.Join(t.TempDir(), "nested", "lunch.md")

	require.NoError(t, Deliver(spec, res, Delivery{Stdout: &out, File: file, Clipboard: cb}))

	assert.Equal(t, want, out.String())
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
	assert.Equal(t, "clipboard", cb.reg)
	assert.Equal(t, want, string(cb.data))
}

func TestDeliverCancelled(t *testing.T) {
	spec, _ := deliverySpec()
	var out bytes.Buffer
	cb := &fakeClipboard{}

	require.NoError(t, Deliver(spec, nil, Delivery{Stdout: &out, Clipboard: cb}))
	assert.Zero(t, out.Len())
	assert.Nil(t, cb.data)
}

func TestDeliverKeepsGoingAfterError(t *testing.T) {
	spec, res := deliverySpec()
	var out bytes.Buffer
	cb := &fakeClipboard{err: errors.New("no clipboard tool")}

	err := Deliver(spec, res, Delivery{Stdout: &out, Clipboard: cb})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clipboard tool")
	assert.NotZero(t, out.Len())
}
