package cli

import (
	"os"
	"os/signal"
	"sync"

	"github.com/kregerl/nbt-editor/pkg/cli/term"
	"github.com/kregerl/nbt-editor/pkg/sys"
)

// TTY is the type the terminal dependency of the app needs to satisfy.
type TTY interface {
	// Setup sets up the terminal for the app.
	//
	// This method returns a restore function that undoes the setup, and any
	// error during setup. It only returns fatal errors that make the terminal
	// unsuitable for later operations; non-fatal errors may be reported by
	// logging a warning, but not returned.
	//
	// This method should be called before any other method is called.
	Setup() (restore func(), err error)

	// ReadEvent reads a terminal event.
	ReadEvent() (term.Event, error)
	// CloseReader releases resources allocated for reading terminal events.
	// An outstanding ReadEvent call returns term.ErrStopped.
	CloseReader()

	// NotifySignals start relaying signals and returns a channel on which
	// signals are delivered.
	NotifySignals() <-chan os.Signal
	// StopSignals stops the relaying of signals. After this function returns,
	// the channel returned by NotifySignals will no longer deliver signals.
	StopSignals()

	// Size returns the height and width of the terminal.
	Size() (h, w int)

	// Buffer returns the current buffer.
	Buffer() *term.Buffer
	// ResetBuffer resets the current buffer to an empty one without actuating
	// any redraw.
	ResetBuffer()
	// UpdateBuffer updates the current buffer and draws it to the terminal.
	UpdateBuffer(bufNotes, bufMain *term.Buffer, full bool) error
	// ClearScreen clears the terminal screen.
	ClearScreen()
}

type aTTY struct {
	in, out *os.File
	r       term.Reader
	rMutex  sync.Mutex
	// Set by CloseReader; ReadEvent then fails until the next Setup.
	rClosed bool
	term.Writer
	sigCh chan os.Signal
}

// NewTTY returns a new TTY from input and output terminal files.
func NewTTY(in, out *os.File) TTY {
	return &aTTY{in: in, out: out, Writer: term.NewWriter(out)}
}

func (t *aTTY) Setup() (func(), error) {
	restore, err := term.Setup(t.in, t.out)
	t.rMutex.Lock()
	t.rClosed = false
	t.rMutex.Unlock()
	return func() {
		if err := restore(); err != nil {
			logger.Warn("failed to restore terminal properties", "err", err)
		}
	}, err
}

func (t *aTTY) Size() (h, w int) {
	return sys.WinSize(t.out)
}

func (t *aTTY) ReadEvent() (term.Event, error) {
	r, err := t.getReader()
	if err != nil {
		return nil, err
	}
	return r.ReadEvent()
}

func (t *aTTY) getReader() (term.Reader, error) {
	t.rMutex.Lock()
	defer t.rMutex.Unlock()
	if t.rClosed {
		return nil, term.ErrStopped
	}
	if t.r == nil {
		r, err := term.NewReader(t.in)
		if err != nil {
			return nil, err
		}
		t.r = r
	}
	return t.r, nil
}

func (t *aTTY) CloseReader() {
	t.rMutex.Lock()
	defer t.rMutex.Unlock()
	if t.r != nil {
		t.r.Close()
	}
	t.r = nil
	t.rClosed = true
}

func (t *aTTY) NotifySignals() <-chan os.Signal {
	t.sigCh = sys.NotifySignals()
	return t.sigCh
}

func (t *aTTY) StopSignals() {
	signal.Stop(t.sigCh)
	close(t.sigCh)
	t.sigCh = nil
}
