// ABOUTME: Unit tests for the request auth resolver middleware
// ABOUTME: Every failure mode must degrade to anonymous, never reject

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/libris-app/libris/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureHandler records the AuthContext the middleware attached.
func captureHandler(got **AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func setupMiddlewareTest(t *testing.T) (*store.MockStore, *JWTCodec, func(http.Handler) http.Handler) {
	t.Helper()
	users := store.NewMockStore()
	codec := NewJWTCodec([]byte("test-secret"))
	mw := ContextMiddleware(users, codec, testLogger())
	return users, codec, mw
}

func registerTestUser(t *testing.T, users *store.MockStore) *store.User {
	t.Helper()
	user := &store.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "irrelevant",
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return user
}

func doRequest(mw func(http.Handler) http.Handler, authHeader string) (*AuthContext, int) {
	var got *AuthContext
	handler := mw(captureHandler(&got))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return got, rec.Code
}

func TestContextMiddleware_ValidToken(t *testing.T) {
	users, codec, mw := setupMiddlewareTest(t)
	user := registerTestUser(t, users)

	token, err := codec.Generate(user.ID, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, status := doRequest(mw, "Bearer "+token)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got == nil || got.User == nil {
		t.Fatal("expected authenticated context")
	}
	if got.User.ID != user.ID {
		t.Errorf("User.ID = %q, want %q", got.User.ID, user.ID)
	}
	if got.User.Email != "alice@example.com" {
		t.Errorf("User.Email = %q, want %q", got.User.Email, "alice@example.com")
	}
}

func TestContextMiddleware_AnonymousOutcomes(t *testing.T) {
	users, codec, mw := setupMiddlewareTest(t)
	registerTestUser(t, users)

	expired, err := codec.Generate("user-1", -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	otherCodec := NewJWTCodec([]byte("other-secret"))
	wrongSecret, err := otherCodec.Generate("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "basic auth scheme", header: "Basic xyz"},
		{name: "lowercase bearer prefix", header: "bearer sometoken"},
		{name: "bare bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "wrong secret", header: "Bearer " + wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := doRequest(mw, tt.header)

			// Resolution failures are not error paths
			if status != http.StatusOK {
				t.Errorf("status = %d, want 200", status)
			}
			if got == nil {
				t.Fatal("middleware should always attach an AuthContext")
			}
			if got.User != nil {
				t.Errorf("User = %+v, want nil", got.User)
			}
		})
	}
}

func TestContextMiddleware_DeletedUser(t *testing.T) {
	users, codec, mw := setupMiddlewareTest(t)
	user := registerTestUser(t, users)

	token, err := codec.Generate(user.ID, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// The token outlives the account
	users.DeleteUser(user.ID)

	got, status := doRequest(mw, "Bearer "+token)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got == nil || got.User != nil {
		t.Errorf("expected anonymous context, got %+v", got)
	}
}

func TestContextMiddleware_StoreFault(t *testing.T) {
	users, codec, mw := setupMiddlewareTest(t)
	user := registerTestUser(t, users)
	users.GetIdentityErr = errors.New("store unavailable")

	token, err := codec.Generate(user.ID, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, status := doRequest(mw, "Bearer "+token)

	// A store fault during resolution degrades to anonymous
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got == nil || got.User != nil {
		t.Errorf("expected anonymous context, got %+v", got)
	}
}
