// Package logutil provides logging utilities.
//
// All loggers obtained from GetLogger write to a shared set of handlers: a
// text handler writing to the output set by SetOutput or SetOutputFile, plus
// any handlers added with AddHandler. The set can be changed at any time, and
// takes effect for loggers obtained earlier.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	mu       sync.RWMutex
	out      io.Writer = io.Discard
	extra    []slog.Handler
	root     slog.Handler
	level    = new(slog.LevelVar)
	openFile *os.File
)

func init() { rebuild() }

// rebuild must be called with mu held.
func rebuild() {
	handlers := append([]slog.Handler{
		slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
	}, extra...)
	root = slogmulti.Fanout(handlers...)
}

// GetLogger gets a logger for the named component.
func GetLogger(name string) *slog.Logger {
	return slog.New(&dispatch{}).With("component", name)
}

// SetOutput redirects the text handler to the given writer. A nil writer
// discards the output.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	out = w
	rebuild()
}

// SetOutputFile redirects the text handler to the named file, which is
// opened for appending. An empty name discards the output.
func SetOutputFile(name string) error {
	if name == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	out, openFile = file, file
	rebuild()
	return nil
}

func closeFile() {
	if openFile != nil {
		openFile.Close()
		openFile = nil
	}
}

// SetLevel sets the minimum level of the text handler.
func SetLevel(l slog.Level) { level.Set(l) }

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// AddHandler adds a handler that receives all records, and returns a
// function that removes it.
func AddHandler(h slog.Handler) (remove func()) {
	mu.Lock()
	defer mu.Unlock()
	extra = append(extra, h)
	rebuild()
	return func() {
		mu.Lock()
		defer mu.Unlock()
		for i, e := range extra {
			if e == h {
				extra = append(extra[:i:i], extra[i+1:]...)
				break
			}
		}
		rebuild()
	}
}

func current() slog.Handler {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// dispatch forwards records to the current root handler, replaying the
// attributes and groups it was derived with.
type dispatch struct {
	ops []func(slog.Handler) slog.Handler
}

func (d *dispatch) resolve() slog.Handler {
	h := current()
	for _, op := range d.ops {
		h = op(h)
	}
	return h
}

func (d *dispatch) Enabled(ctx context.Context, l slog.Level) bool {
	return d.resolve().Enabled(ctx, l)
}

func (d *dispatch) Handle(ctx context.Context, r slog.Record) error {
	return d.resolve().Handle(ctx, r)
}

func (d *dispatch) with(op func(slog.Handler) slog.Handler) *dispatch {
	ops := append(d.ops[:len(d.ops):len(d.ops)], op)
	return &dispatch{ops}
}

func (d *dispatch) WithAttrs(attrs []slog.Attr) slog.Handler {
	return d.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (d *dispatch) WithGroup(name string) slog.Handler {
	return d.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}
