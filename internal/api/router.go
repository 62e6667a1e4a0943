package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface. Every data route requires a bearer
// token; the MCP POST handler does its own verification so it can answer
// with JSON-RPC error envelopes.
func NewRouter(handler *Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Get("/mcp", handler.MCPInfoHandler)
		r.Post("/mcp", handler.MCPHandler)

		r.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)

			r.Get("/characters", handler.ListCharactersHandler)
			r.Post("/characters", handler.CreateCharacterHandler)
			r.Get("/characters/{id}/export", handler.ExportCharacterHandler)

			r.Post("/chat", handler.SendMessageHandler)

			r.Post("/embeddings", handler.CreateEmbeddingHandler)
			r.Get("/embeddings", handler.SearchEmbeddingsHandler)
		})
	})

	return r
}
