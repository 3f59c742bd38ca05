// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithAuth/FromContext and the Require authorization gate

package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned by Require when no user is present in the
// request context. It is the only error the authorization gate produces.
var ErrUnauthenticated = errors.New("authentication required")

// Identity is the per-request summary of the authenticated user.
// It never carries the password hash.
type Identity struct {
	ID       string
	Email    string
	Username string
}

// AuthContext holds the authenticated identity extracted from a request.
// User is nil for anonymous requests; the context itself is always present
// once the middleware has run.
type AuthContext struct {
	User *Identity
}

// authContextKey is the key type for storing AuthContext in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the AuthContext attached.
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// FromContext retrieves the AuthContext from the context, returning nil if not present.
func FromContext(ctx context.Context) *AuthContext {
	val := ctx.Value(authContextKey{})
	if val == nil {
		return nil
	}
	auth, ok := val.(*AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// Require is the authorization gate used by every protected operation.
// It returns the identity when one is present and ErrUnauthenticated
// otherwise. Protected resolvers call it before touching any collaborator.
func Require(ctx context.Context) (*Identity, error) {
	auth := FromContext(ctx)
	if auth == nil || auth.User == nil {
		return nil, ErrUnauthenticated
	}
	return auth.User, nil
}
