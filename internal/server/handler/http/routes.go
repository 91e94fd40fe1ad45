// Package http provides HTTP routing and middleware configuration
// for the snapshot relay service.
package http

import (
	"net/http"

	"github.com/klinikapp/klinikd/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the relay API.
// It applies JSON content-type enforcement and request logging, and mounts
// the document endpoints under /api.
//
// Routes:
//
//	POST /api/docs       → docHandler.Create  (mint id, store initial document)
//	GET  /api/docs/{id}  → docHandler.Get     (read full document)
//	PUT  /api/docs/{id}  → docHandler.Replace (overwrite full document)
//
// There is no authentication layer: a clinic id is an opaque capability and
// whoever holds it reads and writes the document.
func NewRouter(docHandler *DocumentHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/docs", docHandler.Create)
		r.Get("/docs/{id}", docHandler.Get)
		r.Put("/docs/{id}", docHandler.Replace)
	})

	return r
}
