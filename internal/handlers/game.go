package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/foundermode/internal/session"
	"github.com/jwebster45206/foundermode/pkg/sim"
)

// GameHandler serves the game session API.
//
// Routes:
// POST   /v1/game                 - Start a new game
// GET    /v1/game/{id}            - Read game state
// DELETE /v1/game/{id}            - Delete a game
// POST   /v1/game/{id}/turn      - Execute a turn (command or action card)
// POST   /v1/game/{id}/chat      - 1:1 agent chat
// POST   /v1/game/{id}/market    - Run market analysis
// POST   /v1/game/{id}/assets    - Commission a marketing asset
// POST   /v1/game/{id}/restart   - Restart the session
// PATCH  /v1/game/{id}/settings  - Update session settings
type GameHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewGameHandler(manager *session.Manager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		manager: manager,
		logger:  logger,
	}
}

func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/game"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
		}
		return
	}

	switch parts[1] {
	case "turn":
		h.requirePost(w, r, id, h.handleTurn)
	case "chat":
		h.requirePost(w, r, id, h.handleChat)
	case "market":
		h.requirePost(w, r, id, h.handleMarket)
	case "assets":
		h.requirePost(w, r, id, h.handleAssets)
	case "restart":
		h.requirePost(w, r, id, h.handleRestart)
	case "settings":
		if r.Method != http.MethodPatch {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: PATCH")
			return
		}
		h.handleSettings(w, r, id)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *GameHandler) requirePost(w http.ResponseWriter, r *http.Request, id uuid.UUID, next func(http.ResponseWriter, *http.Request, uuid.UUID)) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}
	next(w, r, id)
}

type createGameRequest struct {
	Idea     string       `json:"idea"`
	Language sim.Language `json:"language,omitempty"`
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "A startup idea is required")
		return
	}
	lang := req.Language
	if lang == "" {
		lang = sim.LangEN
	}

	gs, err := h.manager.StartGame(r.Context(), req.Idea, lang)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}

	h.logger.Info("Game started", "uuid", gs.ID)
	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, err := h.manager.GetState(r.Context(), id)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *GameHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.manager.Delete(r.Context(), id); err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleRestart(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, err := h.manager.Restart(r.Context(), id)
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	h.logger.Info("Game restarted", "uuid", id)
	writeJSON(w, h.logger, http.StatusOK, gs)
}

type settingsRequest struct {
	Language          *sim.Language `json:"language,omitempty"`
	TutorialActive    *bool         `json:"tutorial_active,omitempty"`
	ActiveAgentChatID *string       `json:"active_agent_chat_id,omitempty"`
}

func (h *GameHandler) handleSettings(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	gs, err := h.manager.UpdateSettings(r.Context(), id, session.Settings{
		Language:          req.Language,
		TutorialActive:    req.TutorialActive,
		ActiveAgentChatID: req.ActiveAgentChatID,
	})
	if err != nil {
		writeSessionError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}
