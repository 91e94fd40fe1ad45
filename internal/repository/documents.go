// Package repository provides persistence for snapshot documents using a
// PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrDocumentNotFound reports an identifier with no stored document, either
// never created or already expired.
var ErrDocumentNotFound = errors.New("document not found")

// PostgresDocumentRepository implements document storage against a PostgreSQL database.
type PostgresDocumentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDocumentRepository creates a repository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance.
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{DB: db}
}

// Create stores a brand-new document body under id.
//
//	ctx:  context for cancellation and deadlines
//	id:   identifier minted for the document
//	body: complete snapshot JSON
//
// Returns an error if the insert fails.
func (r *PostgresDocumentRepository) Create(ctx context.Context, id string, body []byte) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO documents (id, body) VALUES ($1, $2)
	`, id, body)
	if err != nil {
		return fmt.Errorf("Create failed: %w", err)
	}
	return nil
}

// Get retrieves the full document body stored under id.
// Returns ErrDocumentNotFound when id resolves to nothing.
func (r *PostgresDocumentRepository) Get(ctx context.Context, id string) ([]byte, error) {
	var body []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE id = $1
	`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get failed: %w", err)
	}
	return body, nil
}

// Replace overwrites the full document at id and bumps its freshness stamp.
// Returns ErrDocumentNotFound when id resolves to nothing: callers must not
// be able to resurrect an expired identifier by pushing to it.
func (r *PostgresDocumentRepository) Replace(ctx context.Context, id string, body []byte) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE documents SET body = $2, updated_at = now() WHERE id = $1
	`, id, body)
	if err != nil {
		return fmt.Errorf("Replace failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Replace rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
