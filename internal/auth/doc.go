// Package auth provides authentication and authorization for libris.
//
// # Components
//
// The package covers the full credential path:
//
//   - Password hashing: bcrypt with cost 10. HashPassword salts each digest;
//     CheckPassword treats malformed digests as non-matches.
//
//   - Token codec: HS256 JWTs carrying sub/iat/exp, signed with the
//     configured jwt_secret. Tokens live for one hour; there is no refresh.
//
//   - Service: Register and Login. Both normalize the email and return a
//     Session holding the identity and a fresh token. Login failures are
//     undifferentiated between unknown account and wrong password.
//
//   - Request resolution: ContextMiddleware runs once per request, turning
//     the Authorization header into an AuthContext. Every failure mode —
//     missing header, bad prefix, invalid or expired token, vanished user —
//     resolves to an anonymous context, never an error response.
//
//   - Authorization gate: Require converts an anonymous context into
//     ErrUnauthenticated. It is the single guard shared by all protected
//     operations.
//
// # Error kinds
//
// ErrEmailTaken, ErrInvalidCredentials and ErrUnauthenticated are the three
// user-facing error kinds; their messages are stable. Token verification
// errors never cross the middleware boundary.
package auth
