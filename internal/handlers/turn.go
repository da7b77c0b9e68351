package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type turnRequest struct {
	Command string `json:"command,omitempty"`
	CardID  string `json:"card_id,omitempty"`
}

// handleTurn executes one week of simulation, either from a free-text
// command or an action card from the hand. Exactly one of the two must be
// present.
func (h *GameHandler) handleTurn(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	command := strings.TrimSpace(req.Command)
	if (command == "") == (req.CardID == "") {
		writeError(w, h.logger, http.StatusBadRequest, "Provide either a command or a card_id")
		return
	}

	if req.CardID != "" {
		gs, err := h.manager.PlayCard(r.Context(), id, req.CardID)
		if err != nil {
			writeSessionError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, gs)
		return
	}

	gs, err := h.manager.ExecuteTurn(r.Context(), id, command, true)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}
