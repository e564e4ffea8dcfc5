//go:build unix

package term

import (
	"errors"
	"io"
	"os"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/kregerl/nbt-editor/pkg/sys/eunix"
)

type byteReaderWithTimeout interface {
	// ReadByteWithTimeout reads a single byte with a timeout. A negative
	// timeout means no timeout.
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

// A helper for reading from a file.
type fileReader interface {
	byteReaderWithTimeout
	// Stop stops any outstanding read call. It blocks until the read returns.
	Stop() error
	// Close releases new resources allocated for the fileReader. It does not
	// close the underlying file.
	Close()
}

func newFileReader(file *os.File) (fileReader, error) {
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &bReader{file: file, rStop: rStop, wStop: wStop}, nil
}

type bReader struct {
	file  *os.File
	rStop *os.File
	wStop *os.File
	// Held while a read is in process.
	mutex sync.Mutex
}

func (r *bReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for {
		ready, err := eunix.WaitForRead(timeout, r.file, r.rStop)
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return 0, err
		}
		if ready[1] {
			var b [1]byte
			r.rStop.Read(b[:])
			return 0, ErrStopped
		}
		if !ready[0] {
			return 0, errTimeout
		}
		var b [1]byte
		nr, err := r.file.Read(b[:])
		if err != nil {
			return 0, err
		}
		if nr != 1 {
			return 0, io.ErrNoProgress
		}
		return b[0], nil
	}
}

func (r *bReader) Stop() error {
	_, err := r.wStop.Write([]byte{'q'})
	r.mutex.Lock()
	//lint:ignore SA2001 Used for synchronization.
	r.mutex.Unlock()
	return err
}

func (r *bReader) Close() {
	r.rStop.Close()
	r.wStop.Close()
}

// readRune reads a UTF-8 encoded rune. The timeout applies to each byte.
func readRune(rd byteReaderWithTimeout, timeout time.Duration) (rune, error) {
	leader, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return utf8.RuneError, err
	}
	var r rune
	var cont int
	switch {
	case leader>>7 == 0:
		return rune(leader), nil
	case leader>>5 == 0x06:
		r, cont = rune(leader&0x1f), 1
	case leader>>4 == 0x0e:
		r, cont = rune(leader&0x0f), 2
	case leader>>3 == 0x1e:
		r, cont = rune(leader&0x07), 3
	default:
		return utf8.RuneError, seqError{"bad UTF-8 leader", string(leader)}
	}
	for i := 0; i < cont; i++ {
		b, err := rd.ReadByteWithTimeout(timeout)
		if err != nil {
			return utf8.RuneError, err
		}
		if b>>6 != 0x02 {
			return utf8.RuneError, seqError{"bad UTF-8 continuation", string(b)}
		}
		r = r<<6 | rune(b&0x3f)
	}
	return r, nil
}
