package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthHandler struct {
	pinger Pinger
}

func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

func (h *HealthHandler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.handleHealth)
	router.Get("/ready", h.handleReady)
}

// handleHealth only reports that the process serves requests.
func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "OK", Message: "Server is running"})
}

func (h *HealthHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		requestLogger(r).Error().Err(err).Msg("Readiness check failed")
		respondWithError(w, r, http.StatusServiceUnavailable, "Database is unavailable")
		return
	}

	respondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "OK", Message: "Database is reachable"})
}
