package store

import "context"

type (
	reqIDKey     struct{}
	principalKey struct{}
)

// WithRequestID attaches a request id for query tracing
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID returns the request id, if any
func RequestID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(reqIDKey{}).(string)
	return s, s != ""
}

// WithPrincipal attaches the caller's user id for query tracing
func WithPrincipal(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// Principal returns the caller's user id, if any
func Principal(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(principalKey{}).(int64)
	return id, ok && id > 0
}
