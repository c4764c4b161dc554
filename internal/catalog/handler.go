package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// DefaultPageSize is used when the size query parameter is absent or invalid.
const DefaultPageSize = 36

// Handler exposes catalog HTTP endpoints using go-chi.
type Handler struct {
	store    *Store
	log      *slog.Logger
	pageSize int
}

// NewHandler returns a Handler reading snapshots from store. pageSize is the
// default page size; values <= 0 fall back to DefaultPageSize.
func NewHandler(store *Store, log *slog.Logger, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Handler{store: store, log: log, pageSize: pageSize}
}

type videosResponse struct {
	Videos   []Video `json:"videos"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	Size     int     `json:"size"`
	Category string  `json:"category,omitempty"`
}

// ListVideos handles GET /api/videos?page=&size=&category=.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", h.pageSize)
	category := r.URL.Query().Get("category")

	snap := h.store.Current()
	videos, total := snap.Page(page, size, category)
	if videos == nil {
		videos = []Video{}
	}

	writeJSON(w, http.StatusOK, videosResponse{
		Videos:   videos,
		Total:    total,
		Page:     page,
		Size:     size,
		Category: category,
	})
}

// GetVideo handles GET /api/videos/{id}.
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v, ok := h.store.Current().ByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "video not found"})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SearchVideos handles GET /api/search?q=&duration=.
func (h *Handler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	band := DurationBand(r.URL.Query().Get("duration"))

	snap := h.store.Current()
	results := Search(FilterBand(snap.Records(), band), query)
	if results == nil {
		results = []Video{}
	}

	h.log.Debug("search",
		slog.String("query", query),
		slog.String("duration", string(band)),
		slog.Int("results", len(results)))

	writeJSON(w, http.StatusOK, videosResponse{
		Videos: results,
		Total:  len(results),
		Page:   1,
		Size:   len(results),
	})
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Current().Categories())
}

func queryInt(r *http.Request, key string, fallback int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
