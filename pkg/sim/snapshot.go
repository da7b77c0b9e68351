package sim

import "encoding/json"

// AgentSummary is the compact agent view sent to the oracle. Full agent
// records (tasks, traits, avatars) stay local to keep the request bounded.
type AgentSummary struct {
	ID     string      `json:"id"`
	Role   AgentRole   `json:"role"`
	Status AgentStatus `json:"status"`
	Morale int         `json:"morale"`
}

// Snapshot is the bounded state context for a turn-resolution request.
// It deliberately excludes the narrative history: the oracle reasons about
// continuity from numbers, agents, and objectives, not prose.
type Snapshot struct {
	Stage          GameStage     `json:"stage"`
	Turn           int           `json:"turn"`
	Cash           int           `json:"cash"`
	Users          int           `json:"users"`
	ProductQuality int           `json:"product_quality"`
	Reputation     int           `json:"reputation"`
	Agents         []AgentSummary `json:"agents"`
	Objectives     []Objective   `json:"current_objectives,omitempty"`
	BusinessPlan   *BusinessPlan `json:"business_plan,omitempty"`
	Language       Language      `json:"language,omitempty"`
}

// Snapshot extracts the oracle-facing view of the state.
func (gs *GameState) Snapshot() Snapshot {
	agents := make([]AgentSummary, 0, len(gs.Agents))
	for _, a := range gs.Agents {
		agents = append(agents, AgentSummary{
			ID:     a.ID,
			Role:   a.Role,
			Status: a.Status,
			Morale: a.Morale,
		})
	}
	return Snapshot{
		Stage:          gs.Stage,
		Turn:           gs.Turn,
		Cash:           gs.Cash,
		Users:          gs.Users,
		ProductQuality: gs.ProductQuality,
		Reputation:     gs.Reputation,
		Agents:         agents,
		Objectives:     gs.Objectives,
		BusinessPlan:   gs.BusinessPlan,
		Language:       gs.Language,
	}
}

// JSON renders the snapshot for prompt embedding.
func (s Snapshot) JSON() []byte {
	data, _ := json.Marshal(s)
	return data
}
