// Package http provides HTTP handlers for snapshot document hosting.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/klinikapp/klinikd/internal/repository"
)

// DocumentService defines the interface for document operations required by
// the DocumentHandler.
type DocumentService interface {
	// Create stores body as a new document and returns its minted identifier.
	Create(ctx context.Context, body []byte) (string, error)
	// Get retrieves the full document for id, or
	// repository.ErrDocumentNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Replace overwrites the full document at id, or returns
	// repository.ErrDocumentNotFound for an unknown/expired id.
	Replace(ctx context.Context, id string, body []byte) error
}

// DocumentHandler handles HTTP requests for snapshot documents.
type DocumentHandler struct {
	DocumentService DocumentService
}

// Create handles POST /api/docs requests.
// The body is the complete snapshot JSON; the response is {"id": "..."}.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	id, err := h.DocumentService.Create(r.Context(), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// Get handles GET /api/docs/{id} requests, writing back the stored document
// verbatim.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := h.DocumentService.Get(r.Context(), id)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Replace handles PUT /api/docs/{id} requests: a wholesale overwrite, no
// partial update semantics.
func (h *DocumentHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	err = h.DocumentService.Replace(r.Context(), id, body)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
