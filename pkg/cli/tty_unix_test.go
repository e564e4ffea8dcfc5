//go:build unix

package cli_test

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"

	. "github.com/kregerl/nbt-editor/pkg/cli"
)

func TestTTYSignal(t *testing.T) {
	tty := NewTTY(os.Stdin, os.Stderr)
	sigch := tty.NotifySignals()

	err := unix.Kill(unix.Getpid(), unix.SIGWINCH)
	if err != nil {
		t.Skip("cannot send SIGWINCH to myself:", err)
	}

	if sig := <-sigch; sig != unix.SIGWINCH {
		t.Errorf("Got signal %v, want SIGWINCH", sig)
	}

	tty.StopSignals()

	if sig := <-sigch; sig != nil {
		t.Errorf("Got signal %v, want nil", sig)
	}
}
