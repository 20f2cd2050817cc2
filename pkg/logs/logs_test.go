package logs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Defimaso/Diario362-sub001/pkg/reqctx"
)

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	l := slog.New(h).With(slog.String("service", "test"))

	l.Info("scan finished")
	assert.Contains(t, info.String(), `"msg":"scan finished"`)
	assert.Contains(t, info.String(), `"service":"test"`)
	assert.Empty(t, errs.String())

	l.Error("push failed")
	assert.Contains(t, errs.String(), `"msg":"push failed"`)

	require.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestCloseNil(t *testing.T) {
	var l *Logger
	l.Close()
}

func TestContextHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(&contextHandler{inner: slog.NewJSONHandler(&buf, nil)})

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "rid-42"})
	l.InfoContext(ctx, "dispatched")
	assert.Contains(t, buf.String(), `"request_id":"rid-42"`)

	buf.Reset()
	l.Info("no request")
	assert.NotContains(t, buf.String(), "request_id")
}
