// Package service provides business logic for snapshot document hosting,
// delegating persistence to repository interfaces.
package service

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository defines the persistence operations needed by the
// DocumentService.
type DocumentRepository interface {
	// Create stores a brand-new document body under id.
	Create(ctx context.Context, id string, body []byte) error
	// Get retrieves the full stored body for id.
	Get(ctx context.Context, id string) ([]byte, error)
	// Replace overwrites the full body at id.
	Replace(ctx context.Context, id string, body []byte) error
}

// DocumentService implements the relay's wholesale-document semantics:
// a document is always created, read and replaced as one complete body.
type DocumentService struct {
	// repo is the underlying persistence repository.
	repo DocumentRepository
}

// NewDocumentService constructs a DocumentService with the provided repository.
func NewDocumentService(repo DocumentRepository) *DocumentService {
	return &DocumentService{repo: repo}
}

// Create mints a fresh opaque identifier, stores body under it and returns
// the identifier. On error no identifier has been allocated for the caller.
func (s *DocumentService) Create(ctx context.Context, body []byte) (string, error) {
	id := uuid.NewString()
	if err := s.repo.Create(ctx, id, body); err != nil {
		return "", err
	}
	return id, nil
}

// Get retrieves the full document for id.
func (s *DocumentService) Get(ctx context.Context, id string) ([]byte, error) {
	return s.repo.Get(ctx, id)
}

// Replace overwrites the full document at id. Concurrent writers race: the
// last replace to commit wins in full, with no merge and no conflict signal.
func (s *DocumentService) Replace(ctx context.Context, id string, body []byte) error {
	return s.repo.Replace(ctx, id, body)
}
