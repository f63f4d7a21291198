package httpserver

import (
	"context"
	"log/slog"
)

// noopHandler discards every record. Used when no logger is supplied so the
// server never has to nil-check its logger.
type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h noopHandler) WithGroup(string) slog.Handler           { return h }

func newNoopLogger() *slog.Logger {
	return slog.New(noopHandler{})
}
