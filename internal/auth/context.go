package auth

import (
	"context"

	"github.com/google/uuid"
)

// SystemUserID identifies the principal authenticated with the admin API key
var SystemUserID = uuid.Nil

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	// IsSystem is set for requests authenticated with the admin API key
	IsSystem bool
}

type contextKey string

const (
	userContextKey contextKey = "userContext"
	trackerKey     contextKey = "userTracker"
)

type tracker struct {
	user *UserContext
}

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	if t, ok := ctx.Value(trackerKey).(*tracker); ok {
		t.user = user
	}
	return context.WithValue(ctx, userContextKey, user)
}

// TrackUser lets outer middleware see the user that inner middleware authenticates.
// The returned func reports the user attached to any context derived from ctx.
func TrackUser(ctx context.Context) (context.Context, func() (*UserContext, bool)) {
	t := &tracker{}
	return context.WithValue(ctx, trackerKey, t), func() (*UserContext, bool) {
		return t.user, t.user != nil
	}
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// UserFromContext returns the context only when it belongs to a real user account
func UserFromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := FromContext(ctx)
	if !ok || user == nil || user.IsSystem {
		return nil, false
	}
	return user, true
}

// NewSystemContext returns the principal used for API key requests and background jobs
func NewSystemContext() *UserContext {
	return &UserContext{
		UserID:      SystemUserID,
		DisplayName: "System",
		Email:       "system@chirps.local",
		IsSystem:    true,
	}
}
