// ABOUTME: HTTP middleware resolving bearer tokens into request auth context
// ABOUTME: Every failure degrades to an anonymous request, never a rejection

package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/libris-app/libris/internal/store"
)

// bearerPrefix is the case-sensitive header prefix for bearer tokens.
const bearerPrefix = "Bearer "

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", "invalid authorization header format"
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// ContextMiddleware creates an HTTP middleware that resolves the request's
// bearer token into an AuthContext. It runs once per request, before any
// operation executes. A missing header, a token that fails verification, and
// a subject that no longer resolves to a user are all equivalent: the request
// continues anonymously with an empty AuthContext. Rejection is the job of
// the Require gate, not this resolver.
func ContextMiddleware(users store.UserStore, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := &AuthContext{}

			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("token verification failed", "error", err)
				next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
				return
			}

			identity, err := users.GetUserIdentity(r.Context(), subject)
			if err != nil {
				// Covers not-found, malformed ids, and store faults alike.
				// Authentication failure degrades to anonymous, never to a
				// request-level fault.
				logger.Debug("subject lookup failed", "subject", subject, "error", err)
				next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
				return
			}

			authCtx.User = &Identity{
				ID:       identity.ID,
				Email:    identity.Email,
				Username: identity.Username,
			}
			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
		})
	}
}
