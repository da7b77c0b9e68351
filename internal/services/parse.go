package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// turnResultWire is the over-the-wire shape of a turn result. The four
// deltas are pointers so a missing field is distinguishable from a zero:
// the contract requires them to be present.
type turnResultWire struct {
	CashChange           *int   `json:"cash_change"`
	UserChange           *int   `json:"user_change"`
	ReputationChange     *int   `json:"reputation_change"`
	ProductQualityChange *int   `json:"product_quality_change"`
	Narrative            string `json:"narrative"`

	AgentUpdates     []sim.AgentUpdate `json:"agent_updates"`
	ObjectivesUpdate []sim.Objective   `json:"objectives_update"`
	SuggestedActions []string          `json:"suggested_actions"`

	StageProgression sim.GameStage     `json:"stage_progression,omitempty"`
	GameStatusUpdate sim.GameStatus    `json:"game_status_update,omitempty"`
	NewAgent         *sim.NewAgentSpec `json:"new_agent,omitempty"`
	AgentFiredID     string            `json:"agent_fired_id,omitempty"`
	RandomEvent      *sim.RandomEvent  `json:"random_event,omitempty"`
}

// parseTurnResult validates and converts oracle output. Any structural
// problem is reported as ErrInvalidTurnResult so callers can fail the turn
// cleanly instead of applying a partial result.
func parseTurnResult(raw string) (*sim.TurnResult, error) {
	var wire turnResultWire
	if err := json.Unmarshal([]byte(extractJSON(raw)), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse turn result: %w", err)
	}

	var missing []string
	if wire.CashChange == nil {
		missing = append(missing, "cash_change")
	}
	if wire.UserChange == nil {
		missing = append(missing, "user_change")
	}
	if wire.ReputationChange == nil {
		missing = append(missing, "reputation_change")
	}
	if wire.ProductQualityChange == nil {
		missing = append(missing, "product_quality_change")
	}
	if strings.TrimSpace(wire.Narrative) == "" {
		missing = append(missing, "narrative")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTurnResult, strings.Join(missing, ", "))
	}

	return &sim.TurnResult{
		CashChange:           *wire.CashChange,
		UserChange:           *wire.UserChange,
		ReputationChange:     *wire.ReputationChange,
		ProductQualityChange: *wire.ProductQualityChange,
		Narrative:            wire.Narrative,
		AgentUpdates:         wire.AgentUpdates,
		ObjectivesUpdate:     wire.ObjectivesUpdate,
		SuggestedActions:     wire.SuggestedActions,
		StageProgression:     wire.StageProgression,
		GameStatusUpdate:     wire.GameStatusUpdate,
		NewAgent:             wire.NewAgent,
		AgentFiredID:         wire.AgentFiredID,
		RandomEvent:          wire.RandomEvent,
	}, nil
}

func parseBusinessPlan(raw string) (*sim.BusinessPlan, error) {
	var plan sim.BusinessPlan
	if err := json.Unmarshal([]byte(extractJSON(raw)), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse business plan: %w", err)
	}
	if plan.Name == "" || plan.Mission == "" {
		return nil, fmt.Errorf("business plan missing required fields")
	}
	return &plan, nil
}

func parseChatResult(raw string) (*sim.ChatResult, error) {
	var result sim.ChatResult
	if err := json.Unmarshal([]byte(extractJSON(raw)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse chat result: %w", err)
	}
	if result.Response == "" {
		return nil, fmt.Errorf("chat result missing response")
	}
	return &result, nil
}

func parseCompetitors(raw string) ([]sim.Competitor, error) {
	var competitors []sim.Competitor
	if err := json.Unmarshal([]byte(extractJSON(raw)), &competitors); err != nil {
		return nil, fmt.Errorf("failed to parse competitors: %w", err)
	}
	return competitors, nil
}

// extractJSON strips markdown code fences that chat-completion models wrap
// around JSON output, and trims to the outermost JSON value.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Some models prepend prose before the JSON body.
	objStart := strings.IndexAny(s, "{[")
	if objStart > 0 {
		s = s[objStart:]
	}
	return s
}
