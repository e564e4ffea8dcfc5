//go:build !unix

package sys

import (
	"os"
	"os/signal"
)

var sigWINCH os.Signal

func notifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, os.Interrupt)
	return sigCh
}

func winSize(*os.File) (row, col int) { return -1, -1 }
