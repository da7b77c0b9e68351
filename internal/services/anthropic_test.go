package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// anthropicTestServer returns a service pointed at a fake messages API
// that replies with the given content text.
func anthropicTestServer(t *testing.T, content string, check func(r *http.Request, req anthropicChatRequest)) *AnthropicService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(r, req)
		}
		resp := anthropicChatResponse{
			ID:   "msg_test",
			Type: "message",
			Role: "assistant",
			Content: []anthropicContentBlock{
				{Type: "text", Text: content},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	svc := NewAnthropicService("test-key", "test-model", slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.baseURL = srv.URL
	return svc
}

func TestAnthropicService_SimulateTurn(t *testing.T) {
	content := `{"narrative": "Shipped.", "cash_change": -500, "user_change": 10, "reputation_change": 1, "product_quality_change": 2}`
	svc := anthropicTestServer(t, content, func(r *http.Request, req anthropicChatRequest) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, simulatorInstruction, req.System)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "Close the deal")
	})

	gs := sim.NewGameState(sim.LangEN, sim.DefaultCatalog())
	result, err := svc.SimulateTurn(context.Background(), gs.Snapshot(), "Close the deal")
	require.NoError(t, err)
	assert.Equal(t, -500, result.CashChange)
	assert.Equal(t, "Shipped.", result.Narrative)
}

func TestAnthropicService_SimulateTurn_MissingFields(t *testing.T) {
	svc := anthropicTestServer(t, `{"narrative": "Half."}`, nil)

	gs := sim.NewGameState(sim.LangEN, sim.DefaultCatalog())
	_, err := svc.SimulateTurn(context.Background(), gs.Snapshot(), "anything")
	assert.ErrorIs(t, err, ErrInvalidTurnResult)
}

func TestAnthropicService_GeneratePlan(t *testing.T) {
	content := `{"name": "PetTech", "mission": "Happy pets.", "target_market": "Pet owners", "revenue_model": "Subscriptions", "estimated_valuation": 500000}`
	svc := anthropicTestServer(t, content, nil)

	plan, err := svc.GeneratePlan(context.Background(), "pet startup")
	require.NoError(t, err)
	assert.Equal(t, "PetTech", plan.Name)
}

func TestAnthropicService_MediaUnsupported(t *testing.T) {
	svc := NewAnthropicService("k", "m", slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.GenerateImage(context.Background(), "logo", AspectSquare)
	assert.Error(t, err)

	_, err = svc.GenerateVideo(context.Background(), "teaser")
	assert.Error(t, err)
}

func TestAnthropicService_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewAnthropicService("k", "m", slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.baseURL = srv.URL

	gs := sim.NewGameState(sim.LangEN, sim.DefaultCatalog())
	_, err := svc.SimulateTurn(context.Background(), gs.Snapshot(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
