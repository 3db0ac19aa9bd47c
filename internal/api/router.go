package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Library.
	r.Get("/stories", h.ListStories)
	r.Post("/stories", h.CreateStory)
	r.Get("/stories/{name}", h.GetStory)
	r.Delete("/stories/{name}", h.DeleteStory)

	// Chapters.
	r.Get("/stories/{name}/chapters/*", h.GetChapter)
	r.Put("/stories/{name}/chapters/*", h.UpdateChapter)

	// Statistics.
	r.Get("/stories/{name}/stats", h.GetStats)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
