package curation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"videohub/internal/catalog"
	"videohub/internal/platform/metrics"
)

// Handler exposes the curated home page over HTTP.
type Handler struct {
	store   *catalog.Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler curating from the given catalog store.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(store *catalog.Store, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{store: store, log: log, metrics: m}
}

// Home handles GET /api/home. The selection is recomputed on every request
// against the current snapshot; category order varies between requests.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	result := BuildHome(snap, nil)

	if result.Hero == nil {
		result.Hero = []catalog.Video{}
	}
	if result.MostViewed == nil {
		result.MostViewed = []catalog.Video{}
	}
	if result.Recommended == nil {
		result.Recommended = []catalog.Video{}
	}

	h.log.Debug("home curated",
		slog.Int("hero", len(result.Hero)),
		slog.Int("most_viewed", len(result.MostViewed)),
		slog.Int("recommended", len(result.Recommended)),
		slog.Int("catalog", snap.Len()))

	if h.metrics != nil {
		h.metrics.IncHomeSelections()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}
