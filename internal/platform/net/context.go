// Package net holds transport-neutral request plumbing: ids on the context and the wire envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type userKey struct{}

// WithUser annotates ctx with the authenticated caller
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the authenticated caller or ""
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userKey{}).(string)
	return v
}

// RequestID returns the id assigned by the request id middleware or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
