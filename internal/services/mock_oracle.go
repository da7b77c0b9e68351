package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// MockOracle is a mock implementation of Oracle for testing
type MockOracle struct {
	GeneratePlanFunc  func(ctx context.Context, idea string) (*sim.BusinessPlan, error)
	SimulateTurnFunc  func(ctx context.Context, snap sim.Snapshot, command string) (*sim.TurnResult, error)
	ChatFunc          func(ctx context.Context, agent sim.Agent, message string) (*sim.ChatResult, error)
	AnalyzeMarketFunc func(ctx context.Context, targetMarket string) ([]sim.Competitor, error)
	GenerateImageFunc func(ctx context.Context, prompt string, aspectRatio string) (string, error)
	GenerateVideoFunc func(ctx context.Context, prompt string) (string, error)

	// Track calls for testing
	GeneratePlanCalls  []string
	SimulateTurnCalls  []SimulateTurnCall
	ChatCalls          []ChatCall
	AnalyzeMarketCalls []string
	GenerateImageCalls []string
	GenerateVideoCalls []string

	mu sync.Mutex // protects all fields above
}

type SimulateTurnCall struct {
	Snapshot sim.Snapshot
	Command  string
}

type ChatCall struct {
	AgentID string
	Message string
}

// NewMockOracle creates a new mock oracle
func NewMockOracle() *MockOracle {
	return &MockOracle{
		GeneratePlanCalls:  make([]string, 0),
		SimulateTurnCalls:  make([]SimulateTurnCall, 0),
		ChatCalls:          make([]ChatCall, 0),
		AnalyzeMarketCalls: make([]string, 0),
		GenerateImageCalls: make([]string, 0),
		GenerateVideoCalls: make([]string, 0),
	}
}

// GeneratePlan mocks business plan generation
func (m *MockOracle) GeneratePlan(ctx context.Context, idea string) (*sim.BusinessPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GeneratePlanCalls = append(m.GeneratePlanCalls, idea)

	if m.GeneratePlanFunc != nil {
		return m.GeneratePlanFunc(ctx, idea)
	}

	return sim.DefaultBusinessPlan(), nil
}

// SimulateTurn mocks turn resolution
func (m *MockOracle) SimulateTurn(ctx context.Context, snap sim.Snapshot, command string) (*sim.TurnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SimulateTurnCalls = append(m.SimulateTurnCalls, SimulateTurnCall{
		Snapshot: snap,
		Command:  command,
	})

	if m.SimulateTurnFunc != nil {
		return m.SimulateTurnFunc(ctx, snap, command)
	}

	// Default behavior - quiet week, nothing changes
	return &sim.TurnResult{
		Narrative:        "A quiet week at the office.",
		SuggestedActions: []string{"Ship a feature", "Talk to users", "Raise money"},
	}, nil
}

// Chat mocks a 1:1 agent conversation
func (m *MockOracle) Chat(ctx context.Context, agent sim.Agent, message string) (*sim.ChatResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, ChatCall{
		AgentID: agent.ID,
		Message: message,
	})

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, agent, message)
	}

	return &sim.ChatResult{Response: "Mock reply"}, nil
}

// AnalyzeMarket mocks competitor research
func (m *MockOracle) AnalyzeMarket(ctx context.Context, targetMarket string) ([]sim.Competitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AnalyzeMarketCalls = append(m.AnalyzeMarketCalls, targetMarket)

	if m.AnalyzeMarketFunc != nil {
		return m.AnalyzeMarketFunc(ctx, targetMarket)
	}

	return []sim.Competitor{
		{Name: "MockCorp", Description: "A mock competitor.", URL: "https://example.com", MarketShare: 12},
	}, nil
}

// GenerateImage mocks image generation
func (m *MockOracle) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateImageCalls = append(m.GenerateImageCalls, prompt)

	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, aspectRatio)
	}

	return "data:image/png;base64,bW9jaw==", nil
}

// GenerateVideo mocks video generation
func (m *MockOracle) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateVideoCalls = append(m.GenerateVideoCalls, prompt)

	if m.GenerateVideoFunc != nil {
		return m.GenerateVideoFunc(ctx, prompt)
	}

	return "https://example.com/video.mp4", nil
}

// Reset clears all call tracking
func (m *MockOracle) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GeneratePlanCalls = make([]string, 0)
	m.SimulateTurnCalls = make([]SimulateTurnCall, 0)
	m.ChatCalls = make([]ChatCall, 0)
	m.AnalyzeMarketCalls = make([]string, 0)
	m.GenerateImageCalls = make([]string, 0)
	m.GenerateVideoCalls = make([]string, 0)
}

// SetSimulateTurnError sets up the mock to fail turn resolution
func (m *MockOracle) SetSimulateTurnError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SimulateTurnFunc = func(ctx context.Context, snap sim.Snapshot, command string) (*sim.TurnResult, error) {
		return nil, err
	}
}

// SetGeneratePlanError sets up the mock to fail plan generation
func (m *MockOracle) SetGeneratePlanError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GeneratePlanFunc = func(ctx context.Context, idea string) (*sim.BusinessPlan, error) {
		return nil, err
	}
}

// SetChatError sets up the mock to fail agent chat
func (m *MockOracle) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, agent sim.Agent, message string) (*sim.ChatResult, error) {
		return nil, err
	}
}

// SetAnalyzeMarketError sets up the mock to fail market research
func (m *MockOracle) SetAnalyzeMarketError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnalyzeMarketFunc = func(ctx context.Context, targetMarket string) ([]sim.Competitor, error) {
		return nil, err
	}
}

// SetGenerateImageError sets up the mock to fail image generation
func (m *MockOracle) SetGenerateImageError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateImageFunc = func(ctx context.Context, prompt string, aspectRatio string) (string, error) {
		return "", err
	}
}
