package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicTemperature = 0.7
	DefaultAnthropicMaxTokens   = 2048
)

// AnthropicService implements the text half of Oracle on the Anthropic
// messages API. Media generation is not available from this provider;
// those calls fail explicitly and the caller's fallback policy applies.
type AnthropicService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicChatRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicChatResponse struct {
	ID      string                  `json:"id"`
	Type    string                  `json:"type"`
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicService creates an Anthropic-backed oracle.
func NewAnthropicService(apiKey string, modelName string, logger *slog.Logger) *AnthropicService {
	return &AnthropicService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   anthropicBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// chatCompletion makes one messages-API request and returns the text content.
func (a *AnthropicService) chatCompletion(ctx context.Context, system, userContent string) (string, error) {
	temperature := DefaultAnthropicTemperature
	anthropicReq := anthropicChatRequest{
		Model:       a.modelName,
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		System:      system,
		Messages: []anthropicMessage{
			{Role: "user", Content: userContent},
		},
	}

	reqBody, err := json.Marshal(anthropicReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var anthropicResp anthropicChatResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if anthropicResp.Error != nil {
		return "", fmt.Errorf("API error: %s", anthropicResp.Error.Message)
	}

	var responseText string
	for _, content := range anthropicResp.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}
	if responseText == "" {
		return "", fmt.Errorf("empty response content")
	}
	return responseText, nil
}

func (a *AnthropicService) GeneratePlan(ctx context.Context, idea string) (*sim.BusinessPlan, error) {
	text, err := a.chatCompletion(ctx, plannerInstruction,
		fmt.Sprintf("Generate a business plan for this idea: %s", idea))
	if err != nil {
		return nil, err
	}
	return parseBusinessPlan(text)
}

func (a *AnthropicService) SimulateTurn(ctx context.Context, snap sim.Snapshot, command string) (*sim.TurnResult, error) {
	prompt := fmt.Sprintf("Current State: %s\n\nUser Action: %q\n\nSimulate the next week. Calculate financials strictly. Check objectives.",
		snap.JSON(), command)

	text, err := a.chatCompletion(ctx, simulatorInstruction, prompt)
	if err != nil {
		return nil, err
	}
	return parseTurnResult(text)
}

func (a *AnthropicService) Chat(ctx context.Context, agent sim.Agent, message string) (*sim.ChatResult, error) {
	profile, err := json.Marshal(agent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent profile: %w", err)
	}

	text, err := a.chatCompletion(ctx, agentChatInstruction,
		fmt.Sprintf("Agent Profile: %s\nCEO Message: %q", profile, message))
	if err != nil {
		return nil, err
	}
	return parseChatResult(text)
}

func (a *AnthropicService) AnalyzeMarket(ctx context.Context, targetMarket string) ([]sim.Competitor, error) {
	prompt := fmt.Sprintf("Find 3 real-world startups in %q that would be competitors. Return a JSON array of objects with keys name, description, url, market_share (percentage, e.g. 15 for 15%%). Ensure market shares sum to less than 90.", targetMarket)

	text, err := a.chatCompletion(ctx, "You are a market research analyst. Output MUST be a valid JSON array.", prompt)
	if err != nil {
		return nil, err
	}
	return parseCompetitors(text)
}

func (a *AnthropicService) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error) {
	return "", fmt.Errorf("image generation not supported by the anthropic provider")
}

func (a *AnthropicService) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("video generation not supported by the anthropic provider")
}
