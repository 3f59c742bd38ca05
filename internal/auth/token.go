// ABOUTME: JWT token issuance and verification for authenticating requests
// ABOUTME: Uses HS256 signing with a process-wide secret

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// TokenTTL is the fixed lifetime of issued tokens. There is no refresh
// mechanism; a stale token simply resolves to an anonymous request.
const TokenTTL = time.Hour

// TokenVerifier defines the interface for token verification
type TokenVerifier interface {
	Verify(tokenString string) (subject string, err error)
}

// TokenIssuer defines the interface for issuing signed tokens
type TokenIssuer interface {
	Generate(subject string, expiresIn time.Duration) (string, error)
}

// JWTCodec implements TokenIssuer and TokenVerifier using HS256 signed JWTs
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec creates a new JWT codec with the given secret
func NewJWTCodec(secret []byte) *JWTCodec {
	return &JWTCodec{secret: secret}
}

// Verify validates the token and extracts the subject from the "sub" claim.
// Bad signatures, malformed tokens, and elapsed expiry all return errors;
// callers that need soft-fail semantics absorb them (see ContextMiddleware).
func (c *JWTCodec) Verify(tokenString string) (subject string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}

// Generate creates a new JWT token for the given subject with expiration
func (c *JWTCodec) Generate(subject string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}
