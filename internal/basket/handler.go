package basket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"videohub/internal/platform/metrics"
)

// Handler exposes basket HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler over the basket service. Metrics may be nil
// to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

type basketResponse struct {
	Items            []string `json:"items"`
	Size             int      `json:"size"`
	Full             bool     `json:"full"`
	MultiplayerReady bool     `json:"multiplayerReady"`
}

func (h *Handler) snapshot() basketResponse {
	items := h.svc.Items()
	return basketResponse{
		Items:            items,
		Size:             len(items),
		Full:             len(items) == Capacity,
		MultiplayerReady: len(items) == Capacity,
	}
}

// Get handles GET /api/basket.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// Toggle handles POST /api/basket/toggle. Body: { "id": "abc123" }.
// A full basket answers 409 with the unchanged state.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	added, err := h.svc.Toggle(body.ID)
	if err != nil {
		if errors.Is(err, ErrFull) {
			h.log.Info("basket full, add rejected", slog.String("id", body.ID))
			if h.metrics != nil {
				h.metrics.IncBasketFull()
			}
			writeJSON(w, http.StatusConflict, struct {
				Error string `json:"error"`
				basketResponse
			}{Error: ErrFull.Error(), basketResponse: h.snapshot()})
			return
		}
		h.log.Error("basket toggle failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		if added {
			h.metrics.IncBasketAdds()
		} else {
			h.metrics.IncBasketRemoves()
		}
	}
	h.log.Debug("basket toggled",
		slog.String("id", body.ID),
		slog.Bool("added", added),
		slog.Int("size", h.svc.Len()))

	writeJSON(w, http.StatusOK, struct {
		Added bool `json:"added"`
		basketResponse
	}{Added: added, basketResponse: h.snapshot()})
}

// Clear handles POST /api/basket/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear()
	h.log.Info("basket cleared")
	writeJSON(w, http.StatusOK, h.snapshot())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
