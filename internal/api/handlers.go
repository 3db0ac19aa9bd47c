package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andersmmg/novel-app/internal/apperr"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// storyName extracts the archive name from the URL. Supports encoded
// slashes from OpenAPI clients (e.g. drafts%2Fnovel.story).
func storyName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// chapterPath extracts the chapter path from the wildcard segment and
// re-anchors it under the chapters namespace.
func chapterPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return "chapters/" + decoded
}

// ListStories handles GET /api/stories.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListStories(r.Context())
	if err != nil {
		slog.Error("list stories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []StoryListItem{}
	}
	writeJSON(w, http.StatusOK, StoryListResponse{Stories: items, Total: len(items)})
}

// CreateStory handles POST /api/stories.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	detail, err := h.svc.CreateStory(r.Context(), req.Title)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("story already exists"))
		} else {
			slog.Error("create story failed", slog.String("title", req.Title), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// GetStory handles GET /api/stories/{name}.
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	name := storyName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	detail, err := h.svc.GetStory(r.Context(), name)
	if err != nil {
		h.writeError(w, name, "get story failed", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteStory handles DELETE /api/stories/{name}.
func (h *Handler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	name := storyName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.svc.DeleteStory(r.Context(), name); err != nil {
		slog.Error("delete story failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetChapter handles GET /api/stories/{name}/chapters/*.
func (h *Handler) GetChapter(w http.ResponseWriter, r *http.Request) {
	name, chapter := storyName(r), chapterPath(r)
	if name == "" || chapter == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name and chapter are required"))
		return
	}
	detail, err := h.svc.GetChapter(r.Context(), name, chapter)
	if err != nil {
		h.writeError(w, name, "get chapter failed", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateChapter handles PUT /api/stories/{name}/chapters/*.
func (h *Handler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	name, chapter := storyName(r), chapterPath(r)
	if name == "" || chapter == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name and chapter are required"))
		return
	}
	var req UpdateChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	detail, err := h.svc.UpdateChapter(r.Context(), name, chapter, req.Content)
	if err != nil {
		h.writeError(w, name, "update chapter failed", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetStats handles GET /api/stories/{name}/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	name := storyName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	stats, err := h.svc.Stats(r.Context(), name)
	if err != nil {
		h.writeError(w, name, "stats failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, name, msg string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidArchive):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("invalid archive"))
	default:
		slog.Error(msg, slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
