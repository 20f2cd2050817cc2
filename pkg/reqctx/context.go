// Package reqctx carries request-scoped values (caller claims and request
// metadata) on a context.Context so services and log handlers can read them
// without depending on the HTTP layer.
package reqctx

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyClaims
)

// RequestMeta is set by the HTTP middleware on every request.
type RequestMeta struct {
	RequestID   string
	TraceID     string
	SpanID      string
	ClientIP    string
	UserAgent   string
	RequestedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

// RequestIDFromContext returns "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}

// LogAttrs returns the request attributes worth stamping on every log line.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if meta, ok := RequestMetaFromContext(ctx); ok {
		attrs = append(attrs, slog.String("request_id", meta.RequestID))
		if meta.TraceID != "" {
			attrs = append(attrs, slog.String("trace_id", meta.TraceID), slog.String("span_id", meta.SpanID))
		}
	}
	if claims := ClaimsFromContext(ctx); claims != nil {
		attrs = append(attrs, slog.String("user_id", claims.GetUserID().String()))
	}
	return attrs
}
