package clientctx

import (
	"context"
	"net/http"
)

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyClientID is the key for the browser client id in the context
	ContextKeyClientID ContextKey = "clientID"
)

// WithClientID returns a copy of ctx carrying id.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyClientID, id)
}

// GetClientID retrieves the client id from the request context.
func GetClientID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyClientID).(string); ok {
		return id
	}
	return ""
}
