// ABOUTME: Book persistence methods for the SQLite store
// ABOUTME: CRUD plus case-insensitive author search and partial updates

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateBook inserts a new book record.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (id, title, author, published_year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		yearValue(book.PublishedYear),
		book.CreatedAt.UTC().Format(time.RFC3339),
		book.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateBook
		}
		return fmt.Errorf("inserting book: %w", err)
	}

	s.logger.Info("created book", "id", book.ID, "title", book.Title)
	return nil
}

// GetBook retrieves a book by ID.
func (s *SQLiteStore) GetBook(ctx context.Context, id string) (*Book, error) {
	query := `
		SELECT id, title, author, published_year, created_at, updated_at
		FROM books
		WHERE id = ?
	`

	return s.scanBook(s.db.QueryRowContext(ctx, query, id))
}

// ListBooks returns all books ordered by creation time.
func (s *SQLiteStore) ListBooks(ctx context.Context) ([]*Book, error) {
	query := `
		SELECT id, title, author, published_year, created_at, updated_at
		FROM books
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBooks(rows)
}

// ListBooksByAuthor returns books whose author contains the given substring,
// matched case-insensitively.
func (s *SQLiteStore) ListBooksByAuthor(ctx context.Context, author string) ([]*Book, error) {
	query := `
		SELECT id, title, author, published_year, created_at, updated_at
		FROM books
		WHERE author LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("querying books by author: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectBooks(rows)
}

// UpdateBook applies a partial update and returns the updated book.
// Nil patch fields leave the corresponding columns unchanged.
func (s *SQLiteStore) UpdateBook(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	query := `
		UPDATE books
		SET title          = COALESCE(?, title),
		    author         = COALESCE(?, author),
		    published_year = COALESCE(?, published_year),
		    updated_at     = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		stringValue(patch.Title),
		stringValue(patch.Author),
		yearValue(patch.PublishedYear),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateBook
		}
		return nil, fmt.Errorf("updating book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetBook(ctx, id)
}

// DeleteBook removes a book and returns the deleted record.
func (s *SQLiteStore) DeleteBook(ctx context.Context, id string) (*Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting book: %w", err)
	}

	s.logger.Info("deleted book", "id", id, "title", book.Title)
	return book, nil
}

// scanBook scans a single book row, mapping sql.ErrNoRows to ErrNotFound.
func (s *SQLiteStore) scanBook(row *sql.Row) (*Book, error) {
	var book Book
	var year sql.NullInt64
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&year,
		&createdAtStr,
		&updatedAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning book: %w", err)
	}

	if year.Valid {
		y := int(year.Int64)
		book.PublishedYear = &y
	}

	book.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	book.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &book, nil
}

// collectBooks scans all rows of a book query.
func collectBooks(rows *sql.Rows) ([]*Book, error) {
	var books []*Book
	for rows.Next() {
		var book Book
		var year sql.NullInt64
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &year, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}

		if year.Valid {
			y := int(year.Int64)
			book.PublishedYear = &y
		}

		var err error
		book.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		book.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}

		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

// yearValue converts an optional year into a driver-friendly value.
func yearValue(year *int) interface{} {
	if year == nil {
		return nil
	}
	return *year
}

// stringValue converts an optional string into a driver-friendly value.
func stringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
