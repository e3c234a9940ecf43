// Package middleware holds the HTTP middleware of the site: request logging, htmx
// detection, signed sessions, CSRF, rate limiting and static asset caching.
package middleware

import (
	"context"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "req_id"
	ctxKeyIsHTMX    ctxKey = "is_htmx"
)

// WithRequestID stores the request id that Logger attaches to every log line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyRequestID).(string)
	return id, ok
}

// WithHTMX records whether the request came from htmx, so handlers can answer
// with a fragment instead of the full layout.
func WithHTMX(ctx context.Context, htmx bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, htmx)
}

func IsHTMX(ctx context.Context) bool {
	htmx, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return htmx
}
