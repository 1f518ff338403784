// Package logging builds the process-wide slog.Logger. Grounded on the
// teacher's internal/pkg/logging/setup.go MultiHandler fan-out; the
// Yandex Cloud Logging handler is dropped (no such sink exists for this
// domain) and the second fan-out slot is repurposed to mirror
// warn/error records onto the health package's live websocket feed, so
// an operator watching /live sees both delivery decisions and log
// noise on the same stream.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// EventSink receives a formatted line for every Warn/Error record, in
// addition to the normal stdout handler. Implemented by an adapter in
// cmd/surepulse that forwards into the health server's live hub.
type EventSink interface {
	Emit(level, message string)
}

// Setup builds the service-wide logger. serviceName is attached to
// every record via With. sink may be nil, in which case only the
// stdout handler runs.
func Setup(serviceName string, sink EventSink) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
	if sink != nil {
		handlers = append(handlers, &sinkHandler{sink: sink, level: slog.LevelWarn})
	}

	logger := slog.New(&MultiHandler{handlers: handlers})
	logger = logger.With("service", serviceName)
	slog.SetDefault(logger)
	return logger
}

// MultiHandler fans records out to every wrapped handler.
type MultiHandler struct {
	handlers []slog.Handler
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var lastErr error
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}

// sinkHandler forwards records at or above level to an EventSink
// instead of a second text/JSON destination, since this service's
// only secondary audience for logs is the live ops feed, not a cloud
// logging backend.
type sinkHandler struct {
	sink  EventSink
	level slog.Level
}

func (h *sinkHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *sinkHandler) Handle(_ context.Context, record slog.Record) error {
	h.sink.Emit(record.Level.String(), record.Message)
	return nil
}

func (h *sinkHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *sinkHandler) WithGroup(_ string) slog.Handler      { return h }
