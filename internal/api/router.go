package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// RouterConfig controls the cross-cutting middleware of the API.
type RouterConfig struct {
	AuthEnabled bool
	Token       string
	// RatePerSecond <= 0 disables rate limiting.
	RatePerSecond float64
	Burst         int
	// CORSOrigins lists allowed browser origins; empty disables CORS headers.
	CORSOrigins []string
}

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, cfg RouterConfig, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}).Handler)
	}
	r.Use(RateLimitMiddleware(cfg.RatePerSecond, cfg.Burst))
	r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))

	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
