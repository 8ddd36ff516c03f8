// Package logger is the structured logger shared by every kasir package.
//
// WithCtx returns the per-request logger that the Logger middleware injects,
// so handler and service log lines carry the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("sale committed", "sale_id", sale.ID, "total", sale.TotalPrice)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/kasir/config"
)

var (
	L *slog.Logger

	mu    sync.Mutex
	sinks []io.Closer
)

func init() {
	L = slog.New(newConsoleHandler(os.Stdout, config.IsProduction()))
	slog.SetDefault(L)
}

func newConsoleHandler(w io.Writer, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup rebuilds L from configuration. When LOG_MONGO_URI is set, records
// are also shipped to MongoDB; a sink that cannot connect is reported and
// skipped so the process still starts.
func Setup() {
	handler := newConsoleHandler(os.Stdout, config.IsProduction())

	if uri := config.LogMongoURI(); uri != "" {
		mh, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			slog.New(handler).Warn("logger: mongo sink disabled", "error", err)
		} else {
			handler = NewMultiHandler(handler, mh)
			mu.Lock()
			sinks = append(sinks, mh)
			mu.Unlock()
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// Close flushes and closes any asynchronous sinks opened by Setup.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	for _, s := range sinks {
		_ = s.Close()
	}
	sinks = nil
}

// ─── Context-aware logger ─────────────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
