package logs

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// RingHandler is a slog.Handler that records into a RingBuffer.
type RingHandler struct {
	buffer *RingBuffer
	level  slog.Leveler
	attrs  []Attr
	groups []string
}

// NewRingHandler creates a handler writing records at or above level into buffer.
func NewRingHandler(buffer *RingBuffer, level slog.Leveler) *RingHandler {
	if level == nil {
		level = slog.LevelInfo
	}

	return &RingHandler{buffer: buffer, level: level}
}

func (h *RingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *RingHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = appendAttr(attrs, h.groups, a)

		return true
	})

	h.buffer.Add(Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   attrs,
	})

	return nil
}

func (h *RingHandler) WithAttrs(as []slog.Attr) slog.Handler {
	if len(as) == 0 {
		return h
	}

	cloned := *h
	cloned.attrs = slices.Clone(h.attrs)
	for _, a := range as {
		cloned.attrs = appendAttr(cloned.attrs, h.groups, a)
	}

	return &cloned
}

func (h *RingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	cloned := *h
	cloned.groups = append(slices.Clone(h.groups), name)

	return &cloned
}

func appendAttr(dst []Attr, groups []string, a slog.Attr) []Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return dst
		}

		nested := groups
		if a.Key != "" {
			nested = append(slices.Clone(groups), a.Key)
		}
		for _, member := range members {
			dst = appendAttr(dst, nested, member)
		}

		return dst
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + a.Key
	}

	return append(dst, Attr{Key: key, Value: a.Value.String()})
}

// fanoutHandler forwards each record to every handler that accepts its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}

	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}

	return &fanoutHandler{handlers: handlers}
}
