package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Logger = slog.Logger

var defaultLogger *Logger

var (
	String = slog.String
	Int    = slog.Int
	Any    = slog.Any
)

func init() {
	InitLogger(os.Stdout, false)
}

// InitLogger points the package logger at w. Diagnostics for the operator go to
// standard output by default; debug enables the per-step records.
func InitLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	defaultLogger = slog.New(&PrefixHandler{
		handler: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	})
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Err(err error) slog.Attr {
	return slog.Attr{Key: "error", Value: slog.AnyValue(err)}
}

func FilePath(path string) slog.Attr {
	return slog.String("file_path", path)
}

func Artifact(name string) slog.Attr {
	return slog.String("artifact", name)
}

// WithPrefix returns a logger whose messages start with "[prefix] ".
func WithPrefix(prefix string) *Logger {
	return slog.New(&PrefixHandler{
		prefix:  prefix,
		handler: defaultLogger.Handler(),
	})
}

// PrefixHandler decorates record messages with a component prefix.
type PrefixHandler struct {
	prefix  string
	handler slog.Handler
}

func (h *PrefixHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.prefix != "" {
		r.Message = fmt.Sprintf("[%s] %s", h.prefix, r.Message)
	}
	return h.handler.Handle(ctx, r)
}

func (h *PrefixHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrefixHandler{
		prefix:  h.prefix,
		handler: h.handler.WithAttrs(attrs),
	}
}

func (h *PrefixHandler) WithGroup(name string) slog.Handler {
	return &PrefixHandler{
		prefix:  h.prefix,
		handler: h.handler.WithGroup(name),
	}
}

func (h *PrefixHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
