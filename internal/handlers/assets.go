package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

type assetRequest struct {
	Type   sim.AssetType `json:"type"`
	Prompt string        `json:"prompt"`
}

// handleAssets commissions a marketing image or video. Video generation
// holds the request open while the remote operation is polled.
func (h *GameHandler) handleAssets(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "A prompt is required")
		return
	}
	if req.Type != sim.AssetImage && req.Type != sim.AssetVideo {
		writeError(w, h.logger, http.StatusBadRequest, "Asset type must be IMAGE or VIDEO")
		return
	}

	gs, err := h.manager.GenerateAsset(r.Context(), id, req.Type, req.Prompt)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}
