package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/foundermode/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeSessionError maps session-layer sentinel errors to HTTP statuses.
func writeSessionError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, logger, http.StatusNotFound, "Game not found")
	case errors.Is(err, session.ErrBusy):
		writeError(w, logger, http.StatusConflict, "Another operation is in progress")
	case errors.Is(err, session.ErrGameOver):
		writeError(w, logger, http.StatusConflict, "Game is over")
	case errors.Is(err, session.ErrAgentNotFound):
		writeError(w, logger, http.StatusNotFound, "Agent not found")
	case errors.Is(err, session.ErrCardNotInHand):
		writeError(w, logger, http.StatusBadRequest, "Card is not in the current hand")
	default:
		logger.Error("Unhandled session error", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}
