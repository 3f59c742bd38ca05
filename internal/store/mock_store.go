// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu           sync.RWMutex
	users        map[string]*User // keyed by user ID
	usersByEmail map[string]string
	books        map[string]*Book // keyed by book ID

	// CreateUserErr, when set, is returned by CreateUser after the
	// duplicate check. Simulates store-level faults.
	CreateUserErr error
	// GetIdentityErr, when set, is returned by GetUserIdentity.
	GetIdentityErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:        make(map[string]*User),
		usersByEmail: make(map[string]string),
		books:        make(map[string]*Book),
	}
}

// Interface guard.
var _ Store = (*MockStore)(nil)

// CreateUser stores a new user, enforcing email uniqueness like the real store.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByEmail[user.Email]; exists {
		return ErrEmailExists
	}
	if m.CreateUserErr != nil {
		return m.CreateUserErr
	}

	// Copy to avoid external modification
	u := *user
	m.users[u.ID] = &u
	m.usersByEmail[u.Email] = u.ID

	return nil
}

// GetUserByEmail retrieves a user by normalized email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}

	u := *m.users[id]
	return &u, nil
}

// GetUserIdentity retrieves the identity projection of a user.
func (m *MockStore) GetUserIdentity(ctx context.Context, id string) (*UserIdentity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetIdentityErr != nil {
		return nil, m.GetIdentityErr
	}

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &UserIdentity{ID: u.ID, Email: u.Email, Username: u.Username}, nil
}

// DeleteUser removes a user. Only the mock exposes this; the subsystem has no
// account-deletion operation, but tests need to simulate users vanishing
// between token issuance and the next request.
func (m *MockStore) DeleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		delete(m.usersByEmail, u.Email)
		delete(m.users, id)
	}
}

// CreateBook stores a new book, enforcing title uniqueness.
func (m *MockStore) CreateBook(ctx context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.books {
		if b.Title == book.Title {
			return ErrDuplicateBook
		}
	}

	b := *book
	m.books[b.ID] = &b
	return nil
}

// GetBook retrieves a book by ID.
func (m *MockStore) GetBook(ctx context.Context, id string) (*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[id]
	if !ok {
		return nil, ErrNotFound
	}

	book := *b
	return &book, nil
}

// ListBooks returns all books ordered by creation time.
func (m *MockStore) ListBooks(ctx context.Context) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]*Book, 0, len(m.books))
	for _, b := range m.books {
		book := *b
		books = append(books, &book)
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.Before(books[j].CreatedAt)
	})

	return books, nil
}

// ListBooksByAuthor returns books matching the author substring, case-insensitively.
func (m *MockStore) ListBooksByAuthor(ctx context.Context, author string) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(author)
	var books []*Book
	for _, b := range m.books {
		if strings.Contains(strings.ToLower(b.Author), needle) {
			book := *b
			books = append(books, &book)
		}
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.Before(books[j].CreatedAt)
	})

	return books, nil
}

// UpdateBook applies a partial update and returns the updated book.
func (m *MockStore) UpdateBook(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	if patch.PublishedYear != nil {
		year := *patch.PublishedYear
		b.PublishedYear = &year
	}

	book := *b
	return &book, nil
}

// DeleteBook removes a book and returns the deleted record.
func (m *MockStore) DeleteBook(ctx context.Context, id string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return nil, ErrNotFound
	}

	delete(m.books, id)
	book := *b
	return &book, nil
}

// Close is a no-op for the mock.
func (m *MockStore) Close() error {
	return nil
}
