// ABOUTME: GraphQL resolvers for book CRUD and authentication operations
// ABOUTME: Protected resolvers call the authorization gate before any work

package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/libris-app/libris/internal/auth"
	"github.com/libris-app/libris/internal/store"
)

// Resolver holds the collaborators shared by all GraphQL resolvers.
type Resolver struct {
	auth   *auth.Service
	books  store.BookStore
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given auth service and book store.
func NewResolver(authSvc *auth.Service, books store.BookStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		auth:   authSvc,
		books:  books,
		logger: logger.With("component", "graph"),
	}
}

// bookPayload is the wire shape of a Book.
type bookPayload struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear *int   `json:"publishedYear"`
}

// userPayload is the wire shape of a User.
type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// authPayload is the wire shape of a registration or login result.
type authPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func toBookPayload(b *store.Book) *bookPayload {
	return &bookPayload{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
	}
}

func toBookPayloads(books []*store.Book) []*bookPayload {
	out := make([]*bookPayload, len(books))
	for i, b := range books {
		out[i] = toBookPayload(b)
	}
	return out
}

func toAuthPayload(s *auth.Session) *authPayload {
	return &authPayload{
		Token: s.Token,
		User: userPayload{
			ID:       s.User.ID,
			Email:    s.User.Email,
			Username: s.User.Username,
		},
	}
}

// Books resolves the books query. Protected.
func (r *Resolver) Books(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	books, err := r.books.ListBooks(p.Context)
	if err != nil {
		r.logger.Error("listing books failed", "error", err)
		return nil, fmt.Errorf("failed to fetch books: %v", err)
	}
	return toBookPayloads(books), nil
}

// Book resolves the book query. Protected.
func (r *Resolver) Book(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	id := p.Args["id"].(string)
	book, err := r.books.GetBook(p.Context, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.New("book not found")
		}
		return nil, fmt.Errorf("failed to fetch book: %v", err)
	}
	return toBookPayload(book), nil
}

// BooksByAuthor resolves the booksByAuthor query. Protected.
func (r *Resolver) BooksByAuthor(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	author := p.Args["author"].(string)
	books, err := r.books.ListBooksByAuthor(p.Context, author)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %v", err)
	}
	return toBookPayloads(books), nil
}

// Me resolves the me query. Protected; returns the identity from the
// request's authentication context.
func (r *Resolver) Me(p graphql.ResolveParams) (interface{}, error) {
	identity, err := auth.Require(p.Context)
	if err != nil {
		return nil, err
	}

	return &userPayload{
		ID:       identity.ID,
		Email:    identity.Email,
		Username: identity.Username,
	}, nil
}

// CreateBook resolves the createBook mutation. Protected.
func (r *Resolver) CreateBook(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	title := p.Args["title"].(string)
	author, _ := p.Args["author"].(string)
	var year *int
	if v, ok := p.Args["publishedYear"].(int); ok {
		year = &v
	}

	now := time.Now().UTC()
	book := &store.Book{
		ID:            uuid.New().String(),
		Title:         title,
		Author:        author,
		PublishedYear: year,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.books.CreateBook(p.Context, book); err != nil {
		if errors.Is(err, store.ErrDuplicateBook) {
			return nil, fmt.Errorf("book %q by %s already exists", title, author)
		}
		r.logger.Error("creating book failed", "error", err)
		return nil, fmt.Errorf("failed to create book: %v", err)
	}

	return toBookPayload(book), nil
}

// UpdateBook resolves the updateBook mutation. Protected; only supplied
// arguments change.
func (r *Resolver) UpdateBook(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	id := p.Args["id"].(string)

	var patch store.BookPatch
	if v, ok := p.Args["title"].(string); ok {
		patch.Title = &v
	}
	if v, ok := p.Args["author"].(string); ok {
		patch.Author = &v
	}
	if v, ok := p.Args["publishedYear"].(int); ok {
		patch.PublishedYear = &v
	}

	book, err := r.books.UpdateBook(p.Context, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.New("book not found")
		}
		return nil, fmt.Errorf("failed to update book: %v", err)
	}

	return toBookPayload(book), nil
}

// DeleteBook resolves the deleteBook mutation. Protected; returns the
// deleted book.
func (r *Resolver) DeleteBook(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.Require(p.Context); err != nil {
		return nil, err
	}

	id := p.Args["id"].(string)
	book, err := r.books.DeleteBook(p.Context, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.New("book not found")
		}
		return nil, fmt.Errorf("failed to delete book: %v", err)
	}

	return toBookPayload(book), nil
}

// Register resolves the register mutation. Public.
func (r *Resolver) Register(p graphql.ResolveParams) (interface{}, error) {
	email := p.Args["email"].(string)
	password := p.Args["password"].(string)
	username := p.Args["username"].(string)

	session, err := r.auth.Register(p.Context, email, password, username)
	if err != nil {
		return nil, err
	}
	return toAuthPayload(session), nil
}

// Login resolves the login mutation. Public.
func (r *Resolver) Login(p graphql.ResolveParams) (interface{}, error) {
	email := p.Args["email"].(string)
	password := p.Args["password"].(string)

	session, err := r.auth.Login(p.Context, email, password)
	if err != nil {
		return nil, err
	}
	return toAuthPayload(session), nil
}

// Logout resolves the logout mutation. Token discard happens client-side;
// there is no server-side session to tear down.
func (r *Resolver) Logout(p graphql.ResolveParams) (interface{}, error) {
	return true, nil
}
