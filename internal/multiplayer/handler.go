package multiplayer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"videohub/internal/basket"
	"videohub/internal/catalog"
	"videohub/internal/platform/metrics"
)

// Handler exposes multiplayer HTTP endpoints using go-chi.
type Handler struct {
	mgr     *Manager
	basket  *basket.Service
	store   *catalog.Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler opening sessions from the current basket and
// catalog. Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(mgr *Manager, b *basket.Service, store *catalog.Store, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{mgr: mgr, basket: b, store: store, log: log, metrics: m}
}

// Open handles POST /api/multiplayer/open. The gate requires exactly four
// basket ids; anything else answers 403 with the gate error.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	ids := h.basket.Items()
	snap := h.store.Current()

	s, err := h.mgr.Open(ids, snap)
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error": ErrNotReady.Error(),
				"size":  len(ids),
			})
			return
		}
		h.log.Error("multiplayer open failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.IncMultiplayerSessions()
	}
	writeJSON(w, http.StatusCreated, s.View())
}

// Get handles GET /api/multiplayer, returning the open session's quadrant
// states, or 404 when no session is open.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.mgr.Current()
	if s == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no open session"})
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// Close handles POST /api/multiplayer/close. Closing discards the quadrant
// assignment; basket contents are untouched.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	closed := h.mgr.Close()
	writeJSON(w, http.StatusOK, map[string]bool{"closed": closed})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
