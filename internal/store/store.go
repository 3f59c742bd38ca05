// ABOUTME: Store interfaces and data types for libris persistence
// ABOUTME: Defines User, Book structs and the UserStore/BookStore interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when inserting a user whose normalized email is already taken
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateBook is returned when inserting a book whose title is already taken
var ErrDuplicateBook = errors.New("book already exists")

// User represents a registered account. PasswordHash holds a bcrypt digest;
// the plaintext never enters the store.
type User struct {
	ID           string
	Email        string // lowercase-normalized, trimmed, unique
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserIdentity is the projection of a User that is safe to attach to a
// request context. It deliberately carries no password hash.
type UserIdentity struct {
	ID       string
	Email    string
	Username string
}

// Book represents a single book record.
type Book struct {
	ID            string
	Title         string
	Author        string
	PublishedYear *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookPatch holds the fields of a partial book update.
// Nil fields are left unchanged.
type BookPatch struct {
	Title         *string
	Author        *string
	PublishedYear *int
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrEmailExists if the
	// normalized email is already taken.
	CreateUser(ctx context.Context, user *User) error
	// GetUserByEmail retrieves a user by normalized email.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// GetUserIdentity retrieves only the identity fields of a user by ID.
	// Returns ErrNotFound if no such user exists.
	GetUserIdentity(ctx context.Context, id string) (*UserIdentity, error)
}

// BookStore defines the interface for book persistence.
type BookStore interface {
	// CreateBook inserts a new book. Returns ErrDuplicateBook if the title is taken.
	CreateBook(ctx context.Context, book *Book) error
	// GetBook retrieves a book by ID. Returns ErrNotFound if absent.
	GetBook(ctx context.Context, id string) (*Book, error)
	// ListBooks returns all books ordered by creation time.
	ListBooks(ctx context.Context) ([]*Book, error)
	// ListBooksByAuthor returns books whose author contains the given
	// substring, case-insensitively.
	ListBooksByAuthor(ctx context.Context, author string) ([]*Book, error)
	// UpdateBook applies a partial update and returns the updated book.
	// Returns ErrNotFound if absent.
	UpdateBook(ctx context.Context, id string, patch BookPatch) (*Book, error)
	// DeleteBook removes a book and returns the deleted record.
	// Returns ErrNotFound if absent.
	DeleteBook(ctx context.Context, id string) (*Book, error)
}

// Store combines all persistence interfaces.
type Store interface {
	UserStore
	BookStore
	Close() error
}
