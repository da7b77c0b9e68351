package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// handleMarket refreshes the competitor list for the session's target
// market. The scan failure case arrives as a log entry in the returned
// state, not as an HTTP error.
func (h *GameHandler) handleMarket(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, err := h.manager.AnalyzeMarket(r.Context(), id)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}
