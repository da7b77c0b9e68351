package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playingState() *GameState {
	gs := NewGameState(LangEN, DefaultCatalog())
	gs.BusinessPlan = DefaultBusinessPlan()
	return gs
}

func TestResolve_FinancialFold(t *testing.T) {
	gs := playingState()
	gs.Cash = 50000
	gs.Users = 100
	gs.Reputation = 50
	gs.ProductQuality = 10

	result := &TurnResult{
		CashChange:           -6100,
		UserChange:           50,
		ReputationChange:     3,
		ProductQualityChange: 5,
		Narrative:            "A productive week.",
	}

	next := Resolve(gs, result, Dealt{})

	assert.Equal(t, 43900, next.Cash)
	assert.Equal(t, -6100, next.LastCashChange)
	assert.Equal(t, 150, next.Users)
	assert.Equal(t, 50, next.LastUserChange)
	assert.Equal(t, 53, next.Reputation)
	assert.Equal(t, 15, next.ProductQuality)
	assert.Equal(t, gs.Turn+1, next.Turn)
	assert.Equal(t, StatusPlaying, next.Status)

	// Prior state is untouched.
	assert.Equal(t, 50000, gs.Cash)
	assert.Equal(t, 1, gs.Turn)
}

func TestResolve_Clamping(t *testing.T) {
	tests := []struct {
		name           string
		result         TurnResult
		wantReputation int
		wantQuality    int
		wantUsers      int
	}{
		{
			name:           "deltas clamp at ceiling",
			result:         TurnResult{ReputationChange: 500, ProductQualityChange: 500, UserChange: 10, Narrative: "up"},
			wantReputation: 100,
			wantQuality:    100,
			wantUsers:      10,
		},
		{
			name:           "deltas clamp at floor",
			result:         TurnResult{ReputationChange: -500, ProductQualityChange: -500, UserChange: -10, Narrative: "down"},
			wantReputation: 0,
			wantQuality:    0,
			wantUsers:      0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := playingState()
			next := Resolve(gs, &tc.result, Dealt{})
			assert.Equal(t, tc.wantReputation, next.Reputation)
			assert.Equal(t, tc.wantQuality, next.ProductQuality)
			assert.Equal(t, tc.wantUsers, next.Users)
		})
	}
}

func TestResolve_BankruptcyOverridesOracleStatus(t *testing.T) {
	gs := playingState()
	gs.Cash = 1000

	result := &TurnResult{
		CashChange:       -5000,
		Narrative:        "The burn rate caught up with us.",
		GameStatusUpdate: StatusPlaying, // oracle says keep playing; local rule wins
	}

	next := Resolve(gs, result, Dealt{})

	assert.Equal(t, -4000, next.Cash)
	assert.Equal(t, StatusLost, next.Status)
}

func TestResolve_OracleStatusAppliedWhenSolvent(t *testing.T) {
	gs := playingState()
	result := &TurnResult{
		CashChange:       100,
		Narrative:        "The IPO bell rings.",
		GameStatusUpdate: StatusWon,
	}

	next := Resolve(gs, result, Dealt{})
	assert.Equal(t, StatusWon, next.Status)
}

func TestResolve_StagePermissive(t *testing.T) {
	// The oracle may set any stage; no monotonicity is enforced.
	gs := playingState()
	gs.Stage = StageGrowth

	next := Resolve(gs, &TurnResult{Narrative: "Back to basics.", StageProgression: StageGarage}, Dealt{})
	assert.Equal(t, StageGarage, next.Stage)

	next = Resolve(gs, &TurnResult{Narrative: "Steady."}, Dealt{})
	assert.Equal(t, StageGrowth, next.Stage)
}

func TestResolve_AgentWildcardUpdate(t *testing.T) {
	// Scenario: three idle agents, the oracle assigns work to "ANY".
	gs := playingState()
	gs.Cash = 50000
	require.Len(t, gs.Agents, 3)
	for i := range gs.Agents {
		gs.Agents[i].Status = AgentIdle
		gs.Agents[i].Morale = 90
	}

	result := &TurnResult{
		CashChange:           -6100,
		ProductQualityChange: 5,
		Narrative:            "Team focused on the product.",
		AgentUpdates: []AgentUpdate{
			{AgentID: AgentUpdateTargetAny, Status: AgentWorking},
		},
	}

	next := Resolve(gs, result, Dealt{})

	assert.Equal(t, 43900, next.Cash)
	assert.Equal(t, StatusPlaying, next.Status)
	assert.Equal(t, gs.Turn+1, next.Turn)

	// Exactly the first idle agent picked up the work. Its previous status
	// was IDLE, so it gains the +5 regeneration term on top of the zero
	// morale change.
	assert.Equal(t, AgentWorking, next.Agents[0].Status)
	assert.Equal(t, 95, next.Agents[0].Morale)
	assert.Equal(t, AgentIdle, next.Agents[1].Status)
	assert.Equal(t, AgentIdle, next.Agents[2].Status)
}

func TestResolve_WorkingAgentBurnsMorale(t *testing.T) {
	gs := playingState()
	gs.Agents = []Agent{
		{ID: "a1", Name: "Dev", Role: RoleEngineer, Status: AgentWorking, Morale: 50},
	}

	result := &TurnResult{
		Narrative: "Crunch continues.",
		AgentUpdates: []AgentUpdate{
			{AgentID: "a1", Status: AgentWorking, MoraleChange: -3, TaskDescription: "Shipping v2"},
		},
	}

	next := Resolve(gs, result, Dealt{})
	require.Len(t, next.Agents, 1)
	assert.Equal(t, 42, next.Agents[0].Morale) // 50 - 3 - 5 burn
	assert.Equal(t, "Shipping v2", next.Agents[0].CurrentTask)
}

func TestResolve_DoneAgentResetsToIdle(t *testing.T) {
	gs := playingState()
	gs.Agents = []Agent{
		{ID: "a1", Name: "Dev", Role: RoleEngineer, Status: AgentDone, CurrentTask: "Launch", Morale: 60},
	}

	next := Resolve(gs, &TurnResult{Narrative: "Quiet week."}, Dealt{})
	require.Len(t, next.Agents, 1)
	assert.Equal(t, AgentIdle, next.Agents[0].Status)
	assert.Empty(t, next.Agents[0].CurrentTask)
	assert.Equal(t, 60, next.Agents[0].Morale)
}

func TestResolve_Hiring(t *testing.T) {
	gs := playingState()
	before := len(gs.Agents)

	result := &TurnResult{
		Narrative: "A strong candidate accepted the offer.",
		NewAgent:  &NewAgentSpec{Name: "Jordan", Role: RoleFinance, SkillLevel: 70},
	}

	next := Resolve(gs, result, Dealt{})
	require.Len(t, next.Agents, before+1)

	hired := next.Agents[before]
	assert.Equal(t, "Jordan", hired.Name)
	assert.Equal(t, RoleFinance, hired.Role)
	assert.Equal(t, AgentIdle, hired.Status)
	assert.Equal(t, 100, hired.Morale)
	assert.NotEmpty(t, hired.ID)
	assert.NotNil(t, hired.Traits)

	// Ids stay unique across the roster.
	seen := map[string]bool{}
	for _, a := range next.Agents {
		assert.False(t, seen[a.ID], "duplicate agent id %s", a.ID)
		seen[a.ID] = true
	}

	assert.True(t, hasLog(next, "New hire onboarded: Jordan (FINANCE)"))
}

func TestResolve_Firing(t *testing.T) {
	gs := playingState()

	result := &TurnResult{
		Narrative:    "Hard decisions were made.",
		AgentFiredID: "mkt1",
	}

	next := Resolve(gs, result, Dealt{})
	assert.Len(t, next.Agents, 2)
	assert.Nil(t, next.Agent("mkt1"))
	assert.NotNil(t, next.Agent("dev1"))
	assert.NotNil(t, next.Agent("des1"))
	assert.True(t, hasLog(next, "Agent has left the company."))

	// Firing an unknown id is a no-op on the roster.
	next = Resolve(gs, &TurnResult{Narrative: "n", AgentFiredID: "ghost"}, Dealt{})
	assert.Len(t, next.Agents, 3)
}

func TestResolve_ObjectivesReplaceWholesale(t *testing.T) {
	gs := playingState()
	gs.Objectives = []Objective{
		{ID: "o1", Description: "Reach 100 users", Reward: "+5 Rep", Category: ObjectiveGrowth},
		{ID: "o2", Description: "Ship MVP", Reward: "$5,000", Category: ObjectiveProduct},
	}

	// Empty update retains the prior list verbatim.
	next := Resolve(gs, &TurnResult{Narrative: "n"}, Dealt{})
	assert.Equal(t, gs.Objectives, next.Objectives)

	// Non-empty update replaces wholesale, no merging.
	replacement := []Objective{{ID: "o9", Description: "Raise a seed round", Reward: "$50,000", Category: ObjectiveFinancial}}
	next = Resolve(gs, &TurnResult{Narrative: "n", ObjectivesUpdate: replacement}, Dealt{})
	assert.Equal(t, replacement, next.Objectives)
}

func TestResolve_ObjectiveCompletionLogging(t *testing.T) {
	gs := playingState()
	gs.Objectives = []Objective{
		{ID: "o1", Description: "Reach 100 users", Reward: "+5 Rep", IsCompleted: false},
	}

	result := &TurnResult{
		Narrative: "Milestone hit.",
		ObjectivesUpdate: []Objective{
			{ID: "o1", Description: "Reach 100 users", Reward: "+5 Rep", IsCompleted: true},
		},
	}

	next := Resolve(gs, result, Dealt{})

	completions := 0
	for _, entry := range next.History {
		if strings.HasPrefix(entry.Text, "OBJECTIVE COMPLETE:") {
			completions++
			assert.Contains(t, entry.Text, "Reach 100 users")
			assert.Equal(t, SentimentPositive, entry.Sentiment)
		}
	}
	assert.Equal(t, 1, completions)

	// An objective that was already completed does not log again.
	next2 := Resolve(next, result, Dealt{})
	for _, entry := range next2.History[len(next.History):] {
		assert.False(t, strings.HasPrefix(entry.Text, "OBJECTIVE COMPLETE:"))
	}
}

func TestResolve_SuggestedActionsFallback(t *testing.T) {
	gs := playingState()

	next := Resolve(gs, &TurnResult{Narrative: "n"}, Dealt{})
	assert.Equal(t, DefaultSuggestions(), next.SuggestedCommands)

	next = Resolve(gs, &TurnResult{Narrative: "n", SuggestedActions: []string{"Ship it"}}, Dealt{})
	assert.Equal(t, []string{"Ship it"}, next.SuggestedCommands)
}

func TestResolve_EventReplacedOrCleared(t *testing.T) {
	gs := playingState()
	gs.ActiveEvent = &RandomEvent{Title: "Server Outage", Type: EventCrisis}

	next := Resolve(gs, &TurnResult{Narrative: "n"}, Dealt{})
	assert.Nil(t, next.ActiveEvent)

	event := &RandomEvent{Title: "Acquisition Offer", Type: EventOpportunity, Effect: "+cash"}
	next = Resolve(gs, &TurnResult{Narrative: "n", RandomEvent: event}, Dealt{})
	require.NotNil(t, next.ActiveEvent)
	assert.Equal(t, "Acquisition Offer", next.ActiveEvent.Title)
	assert.True(t, hasLog(next, "OPPORTUNITY: Acquisition Offer"))
}

func TestResolve_NarrativeSentiment(t *testing.T) {
	gs := playingState()

	next := Resolve(gs, &TurnResult{Narrative: "Users poured in.", UserChange: 10}, Dealt{})
	assert.Equal(t, SentimentPositive, lastLogFor(next, "Users poured in.").Sentiment)

	next = Resolve(gs, &TurnResult{Narrative: "Nothing happened.", CashChange: -100}, Dealt{})
	assert.Equal(t, SentimentNeutral, lastLogFor(next, "Nothing happened.").Sentiment)
}

func TestResolve_CardsReplacedByDealtPair(t *testing.T) {
	gs := playingState()
	catalog := DefaultCatalog()
	dealt := Dealt{Hand: catalog[:4], Deck: catalog[4:]}

	next := Resolve(gs, &TurnResult{Narrative: "n"}, dealt)
	assert.Equal(t, dealt.Hand, next.Hand)
	assert.Equal(t, dealt.Deck, next.Deck)
}

func TestResolveFailure(t *testing.T) {
	gs := playingState()
	gs.Cash = 12345
	gs.Objectives = []Objective{{ID: "o1", Description: "x"}}
	logsBefore := len(gs.History)

	next := ResolveFailure(gs)

	assert.Equal(t, gs.Turn, next.Turn)
	assert.Equal(t, gs.Cash, next.Cash)
	assert.Equal(t, gs.Objectives, next.Objectives)
	require.Len(t, next.History, logsBefore+1)

	entry := next.History[len(next.History)-1]
	assert.Equal(t, SourceSystem, entry.Source)
	assert.Equal(t, SentimentNegative, entry.Sentiment)
	assert.Equal(t, TurnFailureText, entry.Text)
}

func hasLog(gs *GameState, text string) bool {
	for _, entry := range gs.History {
		if entry.Text == text {
			return true
		}
	}
	return false
}

func lastLogFor(gs *GameState, text string) LogEntry {
	for i := len(gs.History) - 1; i >= 0; i-- {
		if gs.History[i].Text == text {
			return gs.History[i]
		}
	}
	return LogEntry{}
}
