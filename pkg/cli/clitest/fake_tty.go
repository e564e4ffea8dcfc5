// Package clitest provides a fake terminal for testing the cli package.
package clitest

import (
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kregerl/nbt-editor/pkg/cli"
	"github.com/kregerl/nbt-editor/pkg/cli/term"
	"github.com/kregerl/nbt-editor/pkg/ui"
)

const (
	// Maximum number of events FakeTTY buffers.
	fakeTTYEvents = 4096
	// Maximum number of signals FakeTTY buffers.
	fakeTTYSignals = 4096
)

// Initial size of fake TTY.
const (
	FakeTTYHeight = 20
	FakeTTYWidth  = 50
)

// Frame records one update of a fake terminal. Both buffers are nil for a
// ResetBuffer call.
type Frame struct {
	Notes, Main *term.Buffer
	Full        bool
}

// An implementation of the cli.TTY interface that records every update.
type fakeTTY struct {
	setup func() (func(), error)

	eventMutex  sync.Mutex
	eventCh     chan term.Event
	eventClosed bool

	sigCh chan os.Signal

	mu     sync.Mutex
	frames []Frame
	// Index of the first frame not examined by a Test method yet.
	seen int
	// Closed and replaced whenever a frame is recorded.
	updated       chan struct{}
	cleared       int
	height, width int
}

// NewFakeTTY creates a new FakeTTY and a handle for controlling it. The initial
// size of the terminal is FakeTTYHeight and FakeTTYWidth.
func NewFakeTTY() (cli.TTY, TTYCtrl) {
	tty := &fakeTTY{
		eventCh: make(chan term.Event, fakeTTYEvents),
		sigCh:   make(chan os.Signal, fakeTTYSignals),
		updated: make(chan struct{}),
		height:  FakeTTYHeight, width: FakeTTYWidth,
	}
	return tty, TTYCtrl{tty}
}

func (t *fakeTTY) Setup() (func(), error) {
	if t.setup == nil {
		return func() {}, nil
	}
	return t.setup()
}

func (t *fakeTTY) Size() (h, w int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.height, t.width
}

// ReadEvent returns the next injected event, or term.ErrStopped after
// CloseReader.
func (t *fakeTTY) ReadEvent() (term.Event, error) {
	event, ok := <-t.eventCh
	if !ok {
		return nil, term.ErrStopped
	}
	return event, nil
}

func (t *fakeTTY) CloseReader() {
	t.eventMutex.Lock()
	defer t.eventMutex.Unlock()
	if !t.eventClosed {
		close(t.eventCh)
		t.eventClosed = true
	}
}

// Buffer returns the main buffer of the last frame.
func (t *fakeTTY) Buffer() *term.Buffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastMain()
}

func (t *fakeTTY) lastMain() *term.Buffer {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1].Main
}

func (t *fakeTTY) ResetBuffer() { t.record(Frame{}) }

func (t *fakeTTY) UpdateBuffer(bufNotes, buf *term.Buffer, full bool) error {
	t.record(Frame{bufNotes, buf, full})
	return nil
}

func (t *fakeTTY) record(f Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, f)
	close(t.updated)
	t.updated = make(chan struct{})
}

func (t *fakeTTY) ClearScreen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cleared++
}

func (t *fakeTTY) NotifySignals() <-chan os.Signal { return t.sigCh }

func (t *fakeTTY) StopSignals() { close(t.sigCh) }

// TTYCtrl is an interface for controlling a fake terminal.
type TTYCtrl struct{ *fakeTTY }

// GetTTYCtrl takes a TTY and returns a TTYCtrl and true, if the TTY is a fake
// terminal. Otherwise it returns an invalid TTYCtrl and false.
func GetTTYCtrl(t cli.TTY) (TTYCtrl, bool) {
	fake, ok := t.(*fakeTTY)
	return TTYCtrl{fake}, ok
}

// SetSetup sets the return values of the Setup method of the fake terminal.
func (t TTYCtrl) SetSetup(restore func(), err error) {
	t.setup = func() (func(), error) {
		return restore, err
	}
}

// SetSize sets the size of the fake terminal.
func (t TTYCtrl) SetSize(h, w int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.height, t.width = h, w
}

// Inject injects events to the fake terminal. Events injected after
// CloseReader are dropped.
func (t TTYCtrl) Inject(events ...term.Event) {
	t.eventMutex.Lock()
	defer t.eventMutex.Unlock()
	if t.eventClosed {
		return
	}
	for _, event := range events {
		t.eventCh <- event
	}
}

// InjectKeys injects key events.
func (t TTYCtrl) InjectKeys(keys ...ui.Key) {
	for _, k := range keys {
		t.Inject(term.KeyEvent(k))
	}
}

// InjectText injects one key event for each rune of s, as if s were typed.
func (t TTYCtrl) InjectText(s string) {
	for _, r := range s {
		t.Inject(term.K(r))
	}
}

// InjectSignal injects signals.
func (t TTYCtrl) InjectSignal(sigs ...os.Signal) {
	for _, sig := range sigs {
		t.sigCh <- sig
	}
}

// ScreenCleared returns the number of times ClearScreen has been called on the
// TTY.
func (t TTYCtrl) ScreenCleared() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cleared
}

// Frames returns all recorded frames.
func (t TTYCtrl) Frames() []Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.frames)
}

// BufferHistory returns the main buffers of all frames.
func (t TTYCtrl) BufferHistory() []*term.Buffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	bufs := make([]*term.Buffer, len(t.frames))
	for i, f := range t.frames {
		bufs[i] = f.Main
	}
	return bufs
}

// LastBuffer returns the main buffer of the last frame.
func (t TTYCtrl) LastBuffer() *term.Buffer { return t.Buffer() }

// FullRedraws returns the number of frames that were full redraws.
func (t TTYCtrl) FullRedraws() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, f := range t.frames {
		if f.Full {
			n++
		}
	}
	return n
}

// WaitFor waits for a frame whose main buffer satisfies match, looking only
// at frames recorded after the one matched by the previous call. It reports
// whether such a frame appeared within the timeout.
func (t TTYCtrl) WaitFor(match func(*term.Buffer) bool) bool {
	deadline := time.After(uiTimeout())
	for {
		t.mu.Lock()
		for ; t.seen < len(t.frames); t.seen++ {
			if b := t.frames[t.seen].Main; b != nil && match(b) {
				t.seen++
				t.mu.Unlock()
				return true
			}
		}
		updated := t.updated
		t.mu.Unlock()
		select {
		case <-updated:
		case <-deadline:
			return false
		}
	}
}

func (t TTYCtrl) fail(tt *testing.T, format string, args ...any) {
	tt.Helper()
	tt.Logf(format, args...)
	if last := t.LastBuffer(); last != nil {
		tt.Logf("last buffer: %q", last.Plain())
	}
	tt.FailNow()
}

// TestBuffer verifies that a buffer equal to b appears within the timeout,
// and aborts the test if it doesn't.
func (t TTYCtrl) TestBuffer(tt *testing.T, b *term.Buffer) {
	tt.Helper()
	if !t.WaitFor(func(got *term.Buffer) bool { return reflect.DeepEqual(got, b) }) {
		t.fail(tt, "wanted buffer not shown:\n%s", b.TTYString())
	}
}

// TestPlain verifies that a buffer whose text lines are want appears within
// the timeout, ignoring styles and the cursor, and aborts the test if it
// doesn't.
func (t TTYCtrl) TestPlain(tt *testing.T, want ...string) {
	tt.Helper()
	if !t.WaitFor(func(got *term.Buffer) bool { return slices.Equal(got.Plain(), want) }) {
		t.fail(tt, "wanted lines not shown: %q", want)
	}
}

// TestLine verifies that a buffer with a line starting with prefix appears
// within the timeout, and aborts the test if it doesn't.
func (t TTYCtrl) TestLine(tt *testing.T, prefix string) {
	tt.Helper()
	match := func(got *term.Buffer) bool {
		return slices.ContainsFunc(got.Plain(), func(line string) bool {
			return strings.HasPrefix(line, prefix)
		})
	}
	if !t.WaitFor(match) {
		t.fail(tt, "no line starting with %q shown", prefix)
	}
}

const uiTimeoutEnvName = "NBTED_TEST_UI_TIMEOUT"

// Used instead of the default timeout when non-zero.
var uiTimeoutOverride time.Duration

// uiTimeout returns how long to wait for a buffer. It can be raised on slow
// machines by setting $NBTED_TEST_UI_TIMEOUT to a duration.
func uiTimeout() time.Duration {
	if uiTimeoutOverride != 0 {
		return uiTimeoutOverride
	}
	if d, err := time.ParseDuration(os.Getenv(uiTimeoutEnvName)); err == nil {
		return d
	}
	return time.Second
}
