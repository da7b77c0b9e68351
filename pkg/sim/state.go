package sim

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GameStatus is the lifecycle state of a game session.
// WON and LOST are terminal; the only mutation allowed afterward is a full restart.
type GameStatus string

const (
	StatusPlaying GameStatus = "PLAYING"
	StatusWon     GameStatus = "WON"
	StatusLost    GameStatus = "LOST"
)

// GameStage is the coarse lifecycle phase of the simulated company.
type GameStage string

const (
	StageGarage GameStage = "GARAGE"
	StageSeed   GameStage = "SEED"
	StageGrowth GameStage = "GROWTH"
	StageIPO    GameStage = "IPO"
)

// AgentRole is the job function of a hired agent.
type AgentRole string

const (
	RoleEngineer  AgentRole = "ENGINEER"
	RoleDesigner  AgentRole = "DESIGNER"
	RoleMarketing AgentRole = "MARKETING"
	RoleFinance   AgentRole = "FINANCE"
	RoleProduct   AgentRole = "PRODUCT"
)

// AgentStatus is the working state of an agent within a turn.
type AgentStatus string

const (
	AgentIdle     AgentStatus = "IDLE"
	AgentWorking  AgentStatus = "WORKING"
	AgentStressed AgentStatus = "STRESSED"
	AgentDone     AgentStatus = "DONE"
)

// Language is the player's UI language preference. It is forwarded to the
// oracle so narratives come back in the right language; the engine itself
// is language-agnostic.
type Language string

const (
	LangEN Language = "EN"
	LangCN Language = "CN"
)

// LogSource identifies who emitted a log entry.
type LogSource string

const (
	SourceSystem LogSource = "SYSTEM"
	SourceCEO    LogSource = "CEO"
	SourceAgent  LogSource = "AGENT"
	SourceMarket LogSource = "MARKET"
	SourceEvent  LogSource = "EVENT"
)

// Sentiment tags a log entry for presentation.
type Sentiment string

const (
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentCritical Sentiment = "critical"
)

// LogEntry is one line in the session's narrative feed. Entries are
// immutable once appended and never reordered or pruned by the engine.
type LogEntry struct {
	ID        string    `json:"id"`
	Turn      int       `json:"turn"`
	Source    LogSource `json:"source"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Timestamp time.Time `json:"timestamp"`
}

// Agent is a hired AI worker. Agents are created by hiring events and
// removed by firing events; there is no other deletion path.
type Agent struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Role        AgentRole   `json:"role"`
	Status      AgentStatus `json:"status"`
	CurrentTask string      `json:"current_task,omitempty"`
	SkillLevel  int         `json:"skill_level"` // 0-100
	Morale      int         `json:"morale"`      // 0-100
	Traits      []string    `json:"traits,omitempty"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
}

// BusinessPlan is generated once at game start and immutable afterward.
type BusinessPlan struct {
	Name               string `json:"name"`
	Mission            string `json:"mission"`
	TargetMarket       string `json:"target_market"`
	RevenueModel       string `json:"revenue_model"`
	EstimatedValuation int64  `json:"estimated_valuation"`
}

// AssetType distinguishes generated media.
type AssetType string

const (
	AssetImage AssetType = "IMAGE"
	AssetVideo AssetType = "VIDEO"
)

// Asset is a generated media reference. Assets are append-only.
type Asset struct {
	ID        string    `json:"id"`
	Type      AssetType `json:"type"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// Competitor is one entry in a market analysis. The competitor list is
// replaced wholesale by each analysis, never merged.
type Competitor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	MarketShare int    `json:"market_share"` // percentage 0-100
}

// ObjectiveCategory groups board objectives.
type ObjectiveCategory string

const (
	ObjectiveGrowth    ObjectiveCategory = "GROWTH"
	ObjectiveHiring    ObjectiveCategory = "HIRING"
	ObjectiveProduct   ObjectiveCategory = "PRODUCT"
	ObjectiveFinancial ObjectiveCategory = "FINANCIAL"
)

// Objective is a tracked board goal, marked complete by the oracle.
type Objective struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Reward      string            `json:"reward"` // display string, e.g. "$5,000"
	IsCompleted bool              `json:"is_completed"`
	Category    ObjectiveCategory `json:"category"`
}

// EventType classifies a random event.
type EventType string

const (
	EventOpportunity EventType = "OPPORTUNITY"
	EventCrisis      EventType = "CRISIS"
	EventMarketNews  EventType = "MARKET_NEWS"
)

// EventChoice is an interactive option attached to a random event. Playing
// a choice sends its action text as the next turn's command.
type EventChoice struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// RandomEvent is the at-most-one pending event. It is replaced or cleared
// every turn; events do not persist unless the oracle re-issues them.
type RandomEvent struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        EventType     `json:"type"`
	Effect      string        `json:"effect"`
	Choices     []EventChoice `json:"choices,omitempty"`
}

// CardCategory groups action cards.
type CardCategory string

const (
	CardGrowth  CardCategory = "GROWTH"
	CardProduct CardCategory = "PRODUCT"
	CardHR      CardCategory = "HR"
	CardFinance CardCategory = "FINANCE"
	CardRisk    CardCategory = "RISK"
)

// ActionCard is a predefined command shortcut from the static catalog.
// EffectDirective is forwarded verbatim to the oracle when the card is played.
type ActionCard struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Cost            string       `json:"cost"` // display string, e.g. "$5k"
	Category        CardCategory `json:"category"`
	EffectDirective string       `json:"effect_directive"`
	Icon            string       `json:"icon"`
}

// GameState is the single mutable aggregate for one session. It is owned
// exclusively by the session store; all turn mutation flows through Resolve.
type GameState struct {
	ID     uuid.UUID  `json:"id"`
	Status GameStatus `json:"status"`
	Stage  GameStage  `json:"stage"`
	Turn   int        `json:"turn"`

	Cash           int `json:"cash"`
	LastCashChange int `json:"last_cash_change"`
	Users          int `json:"users"`
	LastUserChange int `json:"last_user_change"`
	Reputation     int `json:"reputation"`      // 0-100
	ProductQuality int `json:"product_quality"` // 0-100

	History      []LogEntry    `json:"history,omitempty"`
	Agents       []Agent       `json:"agents,omitempty"`
	BusinessPlan *BusinessPlan `json:"business_plan,omitempty"`
	Assets       []Asset       `json:"assets,omitempty"`
	Competitors  []Competitor  `json:"competitors,omitempty"`
	Objectives   []Objective   `json:"objectives,omitempty"`
	ActiveEvent  *RandomEvent  `json:"active_event,omitempty"`

	SuggestedCommands []string     `json:"suggested_commands,omitempty"`
	Hand              []ActionCard `json:"hand,omitempty"`
	Deck              []ActionCard `json:"deck,omitempty"`

	Language          Language `json:"language"`
	TutorialActive    bool     `json:"tutorial_active"`
	ActiveAgentChatID string   `json:"active_agent_chat_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initial game constants, from the tuned reference campaign.
const (
	InitialCash           = 50000
	InitialReputation     = 50
	InitialProductQuality = 10
)

// NewGameState creates a fresh session at the garage stage with the seed
// team and a full, undealt deck.
func NewGameState(lang Language, catalog []ActionCard) *GameState {
	now := time.Now()
	return &GameState{
		ID:             uuid.New(),
		Status:         StatusPlaying,
		Stage:          StageGarage,
		Turn:           1,
		Cash:           InitialCash,
		Users:          0,
		Reputation:     InitialReputation,
		ProductQuality: InitialProductQuality,
		Agents:         SeedAgents(),
		Deck:           cloneCards(catalog),
		Language:       lang,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SeedAgents returns the founding team present at game start.
func SeedAgents() []Agent {
	return []Agent{
		{ID: "dev1", Name: "Alex", Role: RoleEngineer, Status: AgentIdle, SkillLevel: 85, Morale: 90, Traits: []string{"Pragmatic"}},
		{ID: "mkt1", Name: "Sarah", Role: RoleMarketing, Status: AgentIdle, SkillLevel: 80, Morale: 95, Traits: []string{"Charismatic"}},
		{ID: "des1", Name: "Mia", Role: RoleDesigner, Status: AgentIdle, SkillLevel: 90, Morale: 85, Traits: []string{"Perfectionist"}},
	}
}

// DefaultBusinessPlan is the fallback used when plan generation fails.
// Plan generation must never block the game from starting.
func DefaultBusinessPlan() *BusinessPlan {
	return &BusinessPlan{
		Name:               "Stealth Startup",
		Mission:            "To revolutionize the industry with AI.",
		TargetMarket:       "Global Tech Consumers",
		RevenueModel:       "SaaS Subscription",
		EstimatedValuation: 1000000,
	}
}

// Agent returns the agent with the given id, or nil.
func (gs *GameState) Agent(id string) *Agent {
	for i := range gs.Agents {
		if gs.Agents[i].ID == id {
			return &gs.Agents[i]
		}
	}
	return nil
}

// CardInHand returns the card with the given id from the current hand, or nil.
func (gs *GameState) CardInHand(id string) *ActionCard {
	for i := range gs.Hand {
		if gs.Hand[i].ID == id {
			return &gs.Hand[i]
		}
	}
	return nil
}

// AppendLog appends an immutable entry to the narrative feed at the current
// turn number.
func (gs *GameState) AppendLog(source LogSource, text string, sentiment Sentiment) {
	gs.History = append(gs.History, LogEntry{
		ID:        uuid.NewString(),
		Turn:      gs.Turn,
		Source:    source,
		Text:      text,
		Sentiment: sentiment,
		Timestamp: time.Now(),
	})
}

// DeepCopy returns an independent copy of the game state. The session store
// hands copies to readers so no caller can mutate the authoritative slot.
func (gs *GameState) DeepCopy() (*GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, err
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func cloneCards(cards []ActionCard) []ActionCard {
	out := make([]ActionCard, len(cards))
	copy(out, cards)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
