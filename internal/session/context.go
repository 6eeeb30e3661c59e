package session

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	sidKey ctxKey = iota
	requestKey
)

// WithSessionID attaches the browser session id used to key long-lived records.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey, sid)
}

func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey).(string)
	return sid
}

// WithRequest attaches the inbound request so cookie-backed tiers can read it.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey, r)
}

func RequestFromContext(ctx context.Context) *http.Request {
	r, _ := ctx.Value(requestKey).(*http.Request)
	return r
}
