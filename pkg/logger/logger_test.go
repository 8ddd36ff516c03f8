package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestWithCtxFallsBackToDefault(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")
	ctx := InjectLogger(context.Background(), reqLog)

	WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var debug, info bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	log := slog.New(h).With("svc", "kasir")

	log.Debug("only debug")
	log.Info("both")

	assert.Contains(t, debug.String(), "only debug")
	assert.Contains(t, debug.String(), "both")
	assert.NotContains(t, info.String(), "only debug")
	assert.Contains(t, info.String(), "svc=kasir")
}

func TestAttrValue(t *testing.T) {
	assert.Equal(t, "boom", attrValue(slog.AnyValue(errors.New("boom"))))
	assert.Equal(t, int64(3), attrValue(slog.Int64Value(3)))
	assert.Equal(t, bson.M{"id": "x"}, attrValue(slog.GroupValue(slog.String("id", "x"))))
}
