package auth

import (
	"context"

	"github.com/straye-as/portfolio-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      int64
	Username    string
	DisplayName string
	Role        domain.UserRole
}

type contextKey string

const (
	userContextKey     contextKey = "userContext"
	identityCaptureKey contextKey = "identityCapture"
)

// WithUserContext adds user context to the context. An identity capture installed
// earlier in the chain is filled as well.
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	if slot, ok := ctx.Value(identityCaptureKey).(**UserContext); ok {
		*slot = user
	}
	return context.WithValue(ctx, userContextKey, user)
}

// WithIdentityCapture lets outer middleware learn the identity attached by inner
// middleware. The returned func reports it once the request has been served.
func WithIdentityCapture(ctx context.Context) (context.Context, func() *UserContext) {
	slot := new(*UserContext)
	return context.WithValue(ctx, identityCaptureKey, slot), func() *UserContext {
		return *slot
	}
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// ActorName returns the display name of the caller, or "System" for anonymous requests.
// It is what gets written to the activity log.
func ActorName(ctx context.Context) string {
	if user, ok := FromContext(ctx); ok && user.DisplayName != "" {
		return user.DisplayName
	}
	return domain.SystemActor
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}
