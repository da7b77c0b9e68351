package sim

// AgentUpdateTargetAny is the wildcard agent id: the update applies to the
// first agent in stored order whose status is currently IDLE.
const AgentUpdateTargetAny = "ANY"

// AgentUpdate is a per-agent instruction inside a turn result.
type AgentUpdate struct {
	AgentID         string      `json:"agent_id"`
	Status          AgentStatus `json:"status"`
	TaskDescription string      `json:"task_description,omitempty"`
	MoraleChange    int         `json:"morale_change,omitempty"`
}

// NewAgentSpec describes a hire returned by the oracle. The engine assigns
// the id, initial status, and morale.
type NewAgentSpec struct {
	Name       string    `json:"name"`
	Role       AgentRole `json:"role"`
	SkillLevel int       `json:"skill_level"`
	Traits     []string  `json:"traits,omitempty"`
}

// TurnResult is the structured outcome of one simulated turn. Adapters
// guarantee structural validity before it reaches the resolution engine:
// the four deltas and the narrative are required, everything else is
// optional or may be empty. An empty ObjectivesUpdate means "no change",
// never "clear all".
type TurnResult struct {
	CashChange           int    `json:"cash_change"`
	UserChange           int    `json:"user_change"`
	ReputationChange     int    `json:"reputation_change"`
	ProductQualityChange int    `json:"product_quality_change"`
	Narrative            string `json:"narrative"`

	AgentUpdates     []AgentUpdate `json:"agent_updates,omitempty"`
	ObjectivesUpdate []Objective   `json:"objectives_update,omitempty"`
	SuggestedActions []string      `json:"suggested_actions,omitempty"`

	StageProgression GameStage     `json:"stage_progression,omitempty"`
	GameStatusUpdate GameStatus    `json:"game_status_update,omitempty"`
	NewAgent         *NewAgentSpec `json:"new_agent,omitempty"`
	AgentFiredID     string        `json:"agent_fired_id,omitempty"`
	RandomEvent      *RandomEvent  `json:"random_event,omitempty"`
}

// ChatResult is the outcome of a 1:1 agent conversation. It never drives a
// turn; its deltas are applied through a scoped store mutator.
type ChatResult struct {
	Response     string `json:"response"`
	MoraleChange int    `json:"morale_change"`
	SkillChange  int    `json:"skill_change"`
}

// NeutralChatResult is the fallback when the chat oracle fails. Chat must
// never block game flow, so it degrades to a non-answer.
func NeutralChatResult() *ChatResult {
	return &ChatResult{Response: "...", MoraleChange: 0, SkillChange: 0}
}

// DefaultSuggestions is the fallback command triple shown when the oracle
// returns no suggestions.
func DefaultSuggestions() []string {
	return []string{"Analyze Metrics", "Scout Talent", "Product Iteration"}
}
