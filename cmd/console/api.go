package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// apiClient is a thin wrapper over the game API.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func (c *apiClient) testConnection() bool {
	resp, err := c.client.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends a request and decodes the game-state response. Every mutating
// game endpoint returns the full updated state.
func (c *apiClient) do(method, path string, payload interface{}, wantStatus int) (*sim.GameState, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var gs sim.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game state response: %w", err)
	}
	return &gs, nil
}

func (c *apiClient) createGame(idea string, language sim.Language) (*sim.GameState, error) {
	return c.do(http.MethodPost, "/v1/game",
		map[string]interface{}{"idea": idea, "language": language},
		http.StatusCreated)
}

func (c *apiClient) getGame(id uuid.UUID) (*sim.GameState, error) {
	return c.do(http.MethodGet, "/v1/game/"+id.String(), nil, http.StatusOK)
}

func (c *apiClient) executeTurn(id uuid.UUID, command string) (*sim.GameState, error) {
	return c.do(http.MethodPost, "/v1/game/"+id.String()+"/turn",
		map[string]string{"command": command}, http.StatusOK)
}

func (c *apiClient) playCard(id uuid.UUID, cardID string) (*sim.GameState, error) {
	return c.do(http.MethodPost, "/v1/game/"+id.String()+"/turn",
		map[string]string{"card_id": cardID}, http.StatusOK)
}

func (c *apiClient) analyzeMarket(id uuid.UUID) (*sim.GameState, error) {
	return c.do(http.MethodPost, "/v1/game/"+id.String()+"/market", nil, http.StatusOK)
}

func (c *apiClient) restart(id uuid.UUID) (*sim.GameState, error) {
	return c.do(http.MethodPost, "/v1/game/"+id.String()+"/restart", nil, http.StatusOK)
}

func (c *apiClient) chat(id uuid.UUID, agentID, message string) (*sim.ChatResult, error) {
	data, err := json.Marshal(map[string]string{"agent_id": agentID, "message": message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/v1/game/"+id.String()+"/chat",
		"application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var result sim.ChatResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &result, nil
}
