package clitest

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kregerl/nbt-editor/pkg/cli"
	"github.com/kregerl/nbt-editor/pkg/cli/term"
	"github.com/kregerl/nbt-editor/pkg/testutil"
	"github.com/kregerl/nbt-editor/pkg/ui"
)

func TestFakeTTY_Setup(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	restoreCalled := 0
	ttyCtrl.SetSetup(func() { restoreCalled++ }, nil)

	restore, err := tty.Setup()
	if err != nil {
		t.Errorf("Setup -> error %v, want nil", err)
	}
	restore()
	if restoreCalled != 1 {
		t.Errorf("Setup did not return restore")
	}
}

func TestFakeTTY_Size(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	if h, w := tty.Size(); h != FakeTTYHeight || w != FakeTTYWidth {
		t.Errorf("initial Size -> (%v, %v)", h, w)
	}
	ttyCtrl.SetSize(20, 30)
	if h, w := tty.Size(); h != 20 || w != 30 {
		t.Errorf("Size -> (%v, %v), want (20, 30)", h, w)
	}
}

func TestFakeTTY_Events(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	ttyCtrl.Inject(term.K('a'), term.K('b'))
	if event, err := tty.ReadEvent(); event != term.K('a') || err != nil {
		t.Errorf("Got (%v, %v), want (%v, nil)", event, err, term.K('a'))
	}
	if event, _ := tty.ReadEvent(); event != term.K('b') {
		t.Errorf("Got event %v, want K('b')", event)
	}
	ttyCtrl.InjectKeys(ui.K(ui.Enter))
	ttyCtrl.InjectText("ok")
	for _, want := range []term.Event{term.K(ui.Enter), term.K('o'), term.K('k')} {
		if event, _ := tty.ReadEvent(); event != want {
			t.Errorf("Got event %v, want %v", event, want)
		}
	}

	tty.CloseReader()
	if _, err := tty.ReadEvent(); !errors.Is(err, term.ErrStopped) {
		t.Errorf("ReadEvent after CloseReader -> %v, want ErrStopped", err)
	}
	// Injecting after the reader is closed is a no-op.
	ttyCtrl.Inject(term.K('c'))
}

func TestFakeTTY_Signals(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	signals := tty.NotifySignals()
	ttyCtrl.InjectSignal(os.Interrupt, os.Kill)
	if sig := <-signals; sig != os.Interrupt {
		t.Errorf("Got signal %v, want %v", sig, os.Interrupt)
	}
	if sig := <-signals; sig != os.Kill {
		t.Errorf("Got signal %v, want %v", sig, os.Kill)
	}
	tty.StopSignals()
	if _, ok := <-signals; ok {
		t.Errorf("signal channel still open after StopSignals")
	}
}

func TestFakeTTY_Buffer(t *testing.T) {
	bufNotes1 := term.NewBufferBuilder(10).Write("notes 1").Buffer()
	buf1 := term.NewBufferBuilder(10).Write("buf 1").Buffer()
	buf2 := term.NewBufferBuilder(10).Write("buf 2").Newline().Write("x").Buffer()

	tty, ttyCtrl := NewFakeTTY()
	if ttyCtrl.LastBuffer() != nil {
		t.Errorf("buffer recorded before any update")
	}

	tty.UpdateBuffer(bufNotes1, buf1, true)
	if ttyCtrl.LastBuffer() != buf1 {
		t.Errorf("last buffer is not the updated one")
	}
	ttyCtrl.TestBuffer(t, buf1)

	tty.UpdateBuffer(nil, buf2, false)
	ttyCtrl.TestPlain(t, "buf 2", "x")

	tty.ResetBuffer()
	if tty.Buffer() != nil {
		t.Errorf("Buffer after ResetBuffer -> %v, want nil", tty.Buffer())
	}

	wantBufs := []*term.Buffer{buf1, buf2, nil}
	if diff := cmp.Diff(wantBufs, ttyCtrl.BufferHistory()); diff != "" {
		t.Errorf("BufferHistory (-want +got):\n%s", diff)
	}
	wantFrames := []Frame{{bufNotes1, buf1, true}, {nil, buf2, false}, {}}
	if diff := cmp.Diff(wantFrames, ttyCtrl.Frames()); diff != "" {
		t.Errorf("Frames (-want +got):\n%s", diff)
	}
	if n := ttyCtrl.FullRedraws(); n != 1 {
		t.Errorf("FullRedraws -> %d, want 1", n)
	}
}

func TestFakeTTY_WaitFor(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	health := term.NewBufferBuilder(20).Write("health: 20").Buffer()
	items := term.NewBufferBuilder(20).Write("▸ items").Buffer()

	go func() {
		tty.UpdateBuffer(nil, health, false)
		tty.UpdateBuffer(nil, items, false)
	}()
	ttyCtrl.TestLine(t, "health")
	ttyCtrl.TestPlain(t, "▸ items")

	// Frames that were already matched are not examined again.
	testutil.Set(t, &uiTimeoutOverride, 10*time.Millisecond)
	if ttyCtrl.WaitFor(func(b *term.Buffer) bool { return b == health }) {
		t.Errorf("WaitFor matched a frame before the last match")
	}
}

func TestFakeTTY_ClearScreen(t *testing.T) {
	fakeTTY, ttyCtrl := NewFakeTTY()
	for i := 0; i < 5; i++ {
		if cleared := ttyCtrl.ScreenCleared(); cleared != i {
			t.Errorf("ScreenCleared -> %v, want %v", cleared, i)
		}
		fakeTTY.ClearScreen()
	}
}

func TestGetTTYCtrl(t *testing.T) {
	fakeTTY, ttyCtrl := NewFakeTTY()
	if got, ok := GetTTYCtrl(fakeTTY); got != ttyCtrl || !ok {
		t.Errorf("-> %v, %v, want %v, %v", got, ok, ttyCtrl, true)
	}
	if _, ok := GetTTYCtrl(cli.NewTTY(os.Stdin, os.Stderr)); ok {
		t.Errorf("GetTTYCtrl(real TTY) -> _, true, want _, false")
	}
}
