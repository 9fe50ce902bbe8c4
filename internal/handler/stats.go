package handler

import (
	"net/http"

	"talentbridge/pkg/logger"
)

// GetStats serves the landing-page counter block.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetStats()
	if err != nil {
		logger.Sugar.Errorf("Failed to compute stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
