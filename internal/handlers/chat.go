package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type chatRequest struct {
	AgentID string `json:"agent_id"`
	Message string `json:"message"`
}

// handleChat runs a 1:1 conversation with a team member. Chat never
// advances the turn counter.
func (h *GameHandler) handleChat(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AgentID == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "agent_id and message are required")
		return
	}

	result, err := h.manager.ChatWithAgent(r.Context(), id, req.AgentID, req.Message)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}
