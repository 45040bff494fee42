package auth

import (
	"context"
	"net/http"
)

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyUserID holds the internal id of the resolved user.
	ContextKeyUserID ContextKey = "userID"
	// ContextKeyExternalID holds the identity-provider id the request carried.
	ContextKeyExternalID ContextKey = "externalID"
)

// HeaderUserID carries the identity-provider id of the caller. It is set by
// the authenticating proxy in front of the API.
const HeaderUserID = "X-User-ID"

// WithUser returns a context carrying the resolved user.
func WithUser(ctx context.Context, userID, externalID string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	return context.WithValue(ctx, ContextKeyExternalID, externalID)
}

// GetUserID retrieves the resolved user id from the request context.
func GetUserID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// GetExternalID retrieves the identity-provider id from the request context.
func GetExternalID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyExternalID).(string); ok {
		return id
	}
	return ""
}

// UserIDPtr returns the resolved user id, or nil for anonymous requests.
func UserIDPtr(r *http.Request) *string {
	if id := GetUserID(r); id != "" {
		return &id
	}
	return nil
}
