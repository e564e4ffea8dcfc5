package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kregerl/nbt-editor/pkg/ui"
)

// noteHandler is a slog.Handler that shows warnings and errors as notes of
// an App.
type noteHandler struct {
	app   *App
	attrs []slog.Attr
}

func (h *noteHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= slog.LevelWarn
}

func (h *noteHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		if a.Equal(slog.Attr{}) || a.Key == "component" {
			return true
		}
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	styling := ui.Fg(ui.Yellow)
	if r.Level >= slog.LevelError {
		styling = ui.Fg(ui.Red)
	}
	h.app.Notify(ui.T(sb.String(), styling))
	return nil
}

func (h *noteHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &noteHandler{h.app, append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)}
}

// Groups only qualify keys, which notes do not show.
func (h *noteHandler) WithGroup(string) slog.Handler { return h }
