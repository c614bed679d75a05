// Package logging builds session-scoped loggers. Every assembly run gets a
// logger that writes both to the process log and to a per-session
// transcript file, so support can replay exactly what one run did without
// grepping the combined stream.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewSession returns a logger teeing records to base's handler and to a
// transcript file under logsDir. The file handler exists only for this
// session; closing the returned closer detaches it. Concurrent sessions
// never share file handlers.
func NewSession(base *slog.Logger, logsDir, sessionID string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs dir: %w", err)
	}
	path := filepath.Join(logsDir, fmt.Sprintf("bundle_%s.log", sessionID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open session log: %w", err)
	}
	fileHandler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(tee{handlers: []slog.Handler{base.Handler(), fileHandler}}).
		With("session_id", sessionID)
	return log, f, nil
}

// tee fans one record out to several handlers.
type tee struct {
	handlers []slog.Handler
}

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return tee{handlers: hs}
}

func (t tee) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithGroup(name)
	}
	return tee{handlers: hs}
}
