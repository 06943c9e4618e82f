// Package logger builds the slog loggers used across the module. The color
// handler tints warnings yellow and errors red for terminal runs; the json
// format is for anything that ships logs elsewhere.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ANSI escape sequences for level tinting.
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// New builds a logger from the configured level and format. Unknown values
// fall back to info-level colored text output.
func New(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	default:
		return slog.New(NewColorHandler(os.Stderr, opts))
	}
}

// NewDefaultLogger returns a colored stderr logger at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ColorHandler wraps a text handler and tints the whole line by level.
type ColorHandler struct {
	inner slog.Handler
	out   io.Writer
}

// NewColorHandler builds a color handler writing to out.
func NewColorHandler(out io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	return &ColorHandler{
		inner: slog.NewTextHandler(out, opts),
		out:   out,
	}
}

func (h *ColorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ColorHandler) Handle(ctx context.Context, record slog.Record) error {
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprint(h.out, colorRed)
	case record.Level >= slog.LevelWarn:
		fmt.Fprint(h.out, colorYellow)
	}
	err := h.inner.Handle(ctx, record)
	if record.Level >= slog.LevelWarn {
		fmt.Fprint(h.out, colorReset)
	}
	return err
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColorHandler{inner: h.inner.WithAttrs(attrs), out: h.out}
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	return &ColorHandler{inner: h.inner.WithGroup(name), out: h.out}
}
