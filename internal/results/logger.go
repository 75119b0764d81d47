package results

import (
	"context"
	"log/slog"
	"os"
)

// multiHandler wraps multiple handlers to write to multiple destinations
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if err := handler.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// SetupLogger creates a multi-handler logger that writes text to stdout and
// JSON to the method's run log file. It creates the method directory if
// needed, so call it only after the dataset path has been validated.
func SetupLogger(layout Layout, logLevel slog.Level) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(layout.MethodDir(), 0755); err != nil {
		return nil, nil, err
	}

	logFile, err := os.OpenFile(layout.RunLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	jsonHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(&multiHandler{
		handlers: []slog.Handler{textHandler, jsonHandler},
	})

	return logger, logFile, nil
}
