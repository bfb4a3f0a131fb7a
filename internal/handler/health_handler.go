package handlers

import (
	"context"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.HealthRepo.Ping(ctx); err != nil {
		h.Log.WithError(err).Warn("health check failed")
		WriteJSON(w, HealthResponse{Status: "unavailable", Database: "down"}, http.StatusServiceUnavailable)
		return
	}

	WriteJSON(w, HealthResponse{Status: "ok", Database: "up"}, http.StatusOK)
}
