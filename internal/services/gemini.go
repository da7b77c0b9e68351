package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiTemperature = 0.7
	videoPollInterval        = 5 * time.Second
)

// GeminiService implements Oracle on the Gemini API. Text and image calls
// go through the official SDK; video generation uses the long-running
// operations REST surface, polled at a fixed interval until completion.
type GeminiService struct {
	client            *genai.Client
	httpClient        *http.Client
	apiKey            string
	modelName         string
	researchModelName string
	imageModelName    string
	videoModelName    string
	pollInterval      time.Duration
	logger            *slog.Logger
}

// NewGeminiService creates a Gemini-backed oracle.
func NewGeminiService(ctx context.Context, apiKey, modelName, researchModelName, imageModelName, videoModelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{
		client:            client,
		httpClient:        &http.Client{Timeout: 120 * time.Second},
		apiKey:            apiKey,
		modelName:         modelName,
		researchModelName: researchModelName,
		imageModelName:    imageModelName,
		videoModelName:    videoModelName,
		pollInterval:      videoPollInterval,
		logger:            logger,
	}, nil
}

// Close releases the underlying SDK client.
func (g *GeminiService) Close() error {
	return g.client.Close()
}

// generate runs one text-generation round trip and returns the raw text.
func (g *GeminiService) generate(ctx context.Context, modelName, systemInstruction, prompt string) (string, error) {
	model := g.client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.SetTemperature(DefaultGeminiTemperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func (g *GeminiService) GeneratePlan(ctx context.Context, idea string) (*sim.BusinessPlan, error) {
	text, err := g.generate(ctx, g.modelName, plannerInstruction,
		fmt.Sprintf("Generate a business plan for this idea: %s", idea))
	if err != nil {
		return nil, err
	}
	return parseBusinessPlan(text)
}

func (g *GeminiService) SimulateTurn(ctx context.Context, snap sim.Snapshot, command string) (*sim.TurnResult, error) {
	prompt := fmt.Sprintf("Current State: %s\n\nUser Action: %q\n\nSimulate the next week. Calculate financials strictly. Check objectives.",
		snap.JSON(), command)

	text, err := g.generate(ctx, g.modelName, simulatorInstruction, prompt)
	if err != nil {
		return nil, err
	}
	return parseTurnResult(text)
}

func (g *GeminiService) Chat(ctx context.Context, agent sim.Agent, message string) (*sim.ChatResult, error) {
	profile, err := json.Marshal(agent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent profile: %w", err)
	}

	text, err := g.generate(ctx, g.modelName, agentChatInstruction,
		fmt.Sprintf("Agent Profile: %s\nCEO Message: %q", profile, message))
	if err != nil {
		return nil, err
	}
	return parseChatResult(text)
}

func (g *GeminiService) AnalyzeMarket(ctx context.Context, targetMarket string) ([]sim.Competitor, error) {
	prompt := fmt.Sprintf(`Find 3 real-world startups in %q that would be competitors. Return a JSON array of objects with keys name, description, url, market_share (percentage, e.g. 15 for 15%%). Ensure market shares sum to less than 90.`, targetMarket)

	text, err := g.generate(ctx, g.researchModelName, "You are a market research analyst. Output MUST be a valid JSON array.", prompt)
	if err != nil {
		return nil, err
	}
	return parseCompetitors(text)
}

func (g *GeminiService) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error) {
	model := g.client.GenerativeModel(g.imageModelName)
	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf("%s (aspect ratio %s)", prompt, aspectRatio)))
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("image generation returned no candidates")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, base64.StdEncoding.EncodeToString(blob.Data)), nil
		}
	}
	return "", fmt.Errorf("no image data in response")
}

// Long-running video operation wire types.
type videoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

// GenerateVideo starts a remote video generation and polls the operation
// until done. The call is not cancellable once issued on the remote side;
// a cancelled context only stops the polling.
func (g *GeminiService) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(map[string]interface{}{
		"instances": []map[string]string{{"prompt": prompt}},
		"parameters": map[string]interface{}{
			"numberOfVideos": 1,
			"resolution":     "720p",
			"aspectRatio":    "16:9",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal video request: %w", err)
	}

	startURL := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", geminiBaseURL, g.videoModelName, g.apiKey)
	op, err := g.videoRequest(ctx, http.MethodPost, startURL, reqBody)
	if err != nil {
		return "", err
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("video generation interrupted: %w", ctx.Err())
		case <-time.After(g.pollInterval):
		}

		pollURL := fmt.Sprintf("%s/%s?key=%s", geminiBaseURL, op.Name, g.apiKey)
		op, err = g.videoRequest(ctx, http.MethodGet, pollURL, nil)
		if err != nil {
			return "", err
		}
		g.logger.Debug("Polling video operation", "operation", op.Name, "done", op.Done)
	}

	if op.Error != nil {
		return "", fmt.Errorf("video generation failed: %s", op.Error.Message)
	}
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return "", fmt.Errorf("no video URI returned")
	}
	return op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI, nil
}

func (g *GeminiService) videoRequest(ctx context.Context, method, url string, body []byte) (*videoOperation, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var op videoOperation
	if err := json.Unmarshal(respBody, &op); err != nil {
		return nil, fmt.Errorf("failed to parse operation: %w", err)
	}
	return &op, nil
}
