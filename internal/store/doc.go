// Package store provides persistent storage for libris using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture:
//
//   - UserStore: account records consumed by the auth service and the
//     request auth resolver
//   - BookStore: the book collection served by the GraphQL resolvers
//
// SQLiteStore implements both interfaces in a single struct. Consumers
// accept the narrow interface they need; the constructor returns the
// concrete type.
//
// # Invariants
//
// The users table carries a unique index on the normalized email column.
// That index, not the service-level pre-check, is the authoritative
// defense against concurrent duplicate registration: CreateUser maps the
// driver's unique-constraint violation to ErrEmailExists. The books table
// carries a unique index on title for the same reason.
//
// Timestamps are stored as RFC3339 strings in UTC.
package store
