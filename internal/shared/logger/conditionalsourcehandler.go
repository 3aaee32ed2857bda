package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// ConditionalSourceHandler attaches the caller location only to records whose
// level is in the configured set. The wrapped handler must not add source itself.
type ConditionalSourceHandler struct {
	next   slog.Handler
	levels map[slog.Level]struct{}
}

func NewConditionalSourceHandler(next slog.Handler, levels ...slog.Level) *ConditionalSourceHandler {
	set := make(map[slog.Level]struct{}, len(levels))
	for _, lvl := range levels {
		set[lvl] = struct{}{}
	}
	return &ConditionalSourceHandler{next: next, levels: set}
}

func (h *ConditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ConditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if _, ok := h.levels[r.Level]; ok {
		// skip runtime.Callers, Handle and the slog frame
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		frame, _ := runtime.CallersFrames(pcs[:]).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h *ConditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConditionalSourceHandler{next: h.next.WithAttrs(attrs), levels: h.levels}
}

func (h *ConditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &ConditionalSourceHandler{next: h.next.WithGroup(name), levels: h.levels}
}
