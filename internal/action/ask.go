package action

import (
	"context"
	"io"
	"log"

	"github.com/go-errors/errors"
	"github.com/micro-editor/tcell/v2"

	"github.com/helmutkemper/tabform/internal/form"
	"github.com/helmutkemper/tabform/internal/keys"
	"github.com/helmutkemper/tabform/internal/screen"
)

// ErrNotInteractive is returned when a form is asked for without a
// terminal to show it on.
var ErrNotInteractive = errors.New("tabform needs an interactive terminal")

// Host binds forms to one tcell screen. The screen is opened on the first
// Ask and events are polled from then on until Fini. Keys typed while no
// form is up are kept for the next Ask.
type Host struct {
	open   func() (tcell.Screen, error)
	screen tcell.Screen
	events chan tcell.Event

	quit    chan struct{}
	stopped chan struct{}
}

// NewHost returns a host that opens its screen with open. A nil open makes
// every Ask fail with ErrNotInteractive.
func NewHost(open func() (tcell.Screen, error)) *Host {
	return &Host{open: open}
}

// Screen returns the host's screen, opening it if needed.
func (h *Host) Screen() (tcell.Screen, error) {
	if h.screen != nil {
		return h.screen, nil
	}
	if h.open == nil {
		return nil, ErrNotInteractive
	}
	s, err := h.open()
	if err != nil {
		return nil, err
	}
	events := make(chan tcell.Event)
	quit, stopped := make(chan struct{}), make(chan struct{})
	h.screen, h.events, h.quit, h.stopped = s, events, quit, stopped
	go func() {
		defer close(stopped)
		defer close(events)
		for {
			e := s.PollEvent()
			if e == nil {
				return
			}
			select {
			case events <- e:
			case <-quit:
				return
			}
		}
	}()
	return s, nil
}

// Fini releases the screen and waits for event polling to stop. Calling
// it again is a no-op.
func (h *Host) Fini() {
	if h.screen == nil {
		return
	}
	close(h.quit)
	h.screen.Fini()
	<-h.stopped
	h.screen = nil
}

// Ask shows spec as a modal box at most width cells wide and runs it until
// it completes. It returns nil on cancel. Cancelling ctx aborts the form.
func (h *Host) Ask(ctx context.Context, spec form.FormSpec, width int, opts ...form.Option) (*form.Result, error) {
	s, err := h.Screen()
	if err != nil {
		return nil, err
	}

	var (
		res      *form.Result
		finished bool
	)
	f, err := form.New(spec, func(r *form.Result) {
		res = r
		finished = true
	}, opts...)
	if err != nil {
		return nil, err
	}
	log.Printf("form %q opened, %d tabs", spec.Title, len(spec.Tabs))

	for !finished {
		draw(s, f, width)
		select {
		case <-ctx.Done():
			f.Abort()
		case e, ok := <-h.events:
			if !ok {
				f.Abort()
				continue
			}
			handleEvent(s, f, e)
		}
	}

	s.Fill(' ', tcell.StyleDefault)
	s.Show()
	if res == nil {
		log.Printf("form %q cancelled", spec.Title)
	} else {
		log.Printf("form %q submitted, %d of %d answered", spec.Title, answered(res), len(spec.Tabs))
	}
	return res, nil
}

func draw(s tcell.Screen, f *form.Form, width int) {
	s.Fill(' ', tcell.StyleDefault)
	s.HideCursor()
	w, _ := s.Size()
	screen.DrawOverlay(s, f.Render(screen.BoxWidth(w, width)))
	s.Show()
}

func handleEvent(s tcell.Screen, f *form.Form, e tcell.Event) {
	switch ev := e.(type) {
	case *tcell.EventResize:
		s.Sync()
	case *tcell.EventError:
		log.Println("tcell event error: ", ev.Error())
		if ev.Err() == io.EOF {
			f.Abort()
		}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			f.Abort()
			return
		}
		f.HandleKey(keys.FromEvent(ev))
	case *tcell.EventPaste:
		f.HandleKey(keys.FromEvent(ev))
	}
}

func answered(res *form.Result) int {
	n := 0
	for _, r := range res.Responses {
		if r.Answered() {
			n++
		}
	}
	return n
}
