// ABOUTME: Unit tests for the auth service register and login flows
// ABOUTME: Tests email normalization, duplicate detection, and credential errors

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/libris-app/libris/internal/store"
)

func setupService(t *testing.T) (*Service, *store.MockStore, *JWTCodec) {
	t.Helper()
	users := store.NewMockStore()
	codec := NewJWTCodec([]byte("test-secret"))
	svc := NewService(users, codec, testLogger())
	return svc, users, codec
}

func TestService_Register(t *testing.T) {
	svc, _, codec := setupService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "a@x.com", "pw", "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if session.User.Email != "a@x.com" {
		t.Errorf("User.Email = %q, want %q", session.User.Email, "a@x.com")
	}
	if session.User.Username != "alice" {
		t.Errorf("User.Username = %q, want %q", session.User.Username, "alice")
	}
	if session.User.ID == "" {
		t.Error("User.ID should be assigned")
	}

	// The issued token must verify and reference the new user
	subject, err := codec.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if subject != session.User.ID {
		t.Errorf("token subject = %q, want %q", subject, session.User.ID)
	}
}

func TestService_Register_NormalizesEmail(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "  A@X.Com ", "pw", "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.User.Email != "a@x.com" {
		t.Errorf("User.Email = %q, want normalized %q", session.User.Email, "a@x.com")
	}

	stored, err := users.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if stored.PasswordHash == "pw" || stored.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
}

func TestService_Register_DuplicateEmail_CaseInsensitive(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "pw", "alice"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "A@X.com", "pw2", "alice2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestService_Register_StoreRace(t *testing.T) {
	svc, users, _ := setupService(t)
	ctx := context.Background()

	// The pre-check passes but the insert hits the unique index, as it
	// would when a concurrent registration wins the race
	users.CreateUserErr = store.ErrEmailExists

	_, err := svc.Register(ctx, "a@x.com", "pw", "alice")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestService_Login(t *testing.T) {
	svc, _, codec := setupService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@x.com", "pw", "alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	session, err := svc.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.User.ID != registered.User.ID {
		t.Errorf("User.ID = %q, want %q", session.User.ID, registered.User.ID)
	}

	subject, err := codec.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if subject != registered.User.ID {
		t.Errorf("token subject = %q, want %q", subject, registered.User.ID)
	}
}

func TestService_Login_NormalizesEmail(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "pw", "alice"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.Login(ctx, " A@X.COM ", "pw"); err != nil {
		t.Errorf("Login() with unnormalized email error = %v", err)
	}
}

func TestService_Login_UndifferentiatedErrors(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "pw", "alice"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Wrong password and unknown account must be the same error kind,
	// so the response shape cannot enumerate accounts
	_, wrongPw := svc.Login(ctx, "a@x.com", "wrong")
	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", wrongPw)
	}

	_, noUser := svc.Login(ctx, "nobody@x.com", "pw")
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Errorf("Login(unknown email) error = %v, want ErrInvalidCredentials", noUser)
	}

	if wrongPw.Error() != noUser.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPw, noUser)
	}
}
