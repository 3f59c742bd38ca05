// ABOUTME: Auth service orchestrating registration and login
// ABOUTME: Issues bearer tokens keyed on user ids; undifferentiated login errors

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/libris-app/libris/internal/store"
)

// ErrEmailTaken is returned by Register when the normalized email is already
// registered, whether detected by the pre-check or by the store's unique index.
var ErrEmailTaken = errors.New("user already exists")

// ErrInvalidCredentials is returned by Login for both unknown accounts and
// wrong passwords. The two cases are deliberately indistinguishable so that
// the response shape cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the result of a successful registration or login.
type Session struct {
	User  Identity
	Token string
}

// Service issues credentials. It is invoked only by the register and login
// operations; protected operations go through the Require gate instead.
type Service struct {
	users  store.UserStore
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService creates an auth service backed by the given user store and
// token issuer.
func NewService(users store.UserStore, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.With("component", "auth"),
	}
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and issues a token for it. The email is
// normalized before the uniqueness check. The check-then-insert here is not
// atomic; the store's unique email index is the real backstop, and its
// violation surfaces as the same ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password, username string) (*Session, error) {
	email = normalizeEmail(email)

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			// Lost a race with a concurrent registration
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user registered", "id", user.ID, "email", user.Email)

	return &Session{
		User:  Identity{ID: user.ID, Email: user.Email, Username: user.Username},
		Token: token,
	}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password return the same error kind.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Dummy comparison keeps the response time in line with the
			// wrong-password path
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", "id", user.ID)

	return &Session{
		User:  Identity{ID: user.ID, Email: user.Email, Username: user.Username},
		Token: token,
	}, nil
}
