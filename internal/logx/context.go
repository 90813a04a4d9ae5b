package logx

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// FromContext returns the global logger, tagged with the request id when
// one is present.
func FromContext(ctx context.Context) *zerolog.Logger {
	id := RequestID(ctx)
	if id == "" {
		return &log.Logger
	}
	l := log.Logger.With().Str("request_id", id).Logger()
	return &l
}
