// Package net carries request scoped ids across transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey uint8

const keyViewer ctxKey = iota

// WithRequestID sets the id chi's RequestID middleware would have set
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithViewer records the signed in user; ids <= 0 mean anonymous and are not stored
func WithViewer(ctx context.Context, userID int64) context.Context {
	if userID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, keyViewer, userID)
}

// Viewer returns the signed in user id, if any
func Viewer(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(keyViewer).(int64)
	return id, ok
}
