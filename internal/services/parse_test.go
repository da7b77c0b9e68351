package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

func TestParseTurnResult(t *testing.T) {
	t.Run("complete result", func(t *testing.T) {
		raw := `{
			"narrative": "The sprint shipped on time.",
			"cash_change": -6100,
			"user_change": 250,
			"reputation_change": 2,
			"product_quality_change": 5,
			"agent_updates": [{"agent_id": "dev1", "status": "WORKING", "task_description": "Shipping v2", "morale_change": -3}],
			"suggested_actions": ["Ship it", "Demo day", "Refactor"],
			"stage_progression": "SEED",
			"new_agent": {"name": "Priya", "role": "MARKETING"}
		}`

		result, err := parseTurnResult(raw)
		require.NoError(t, err)
		assert.Equal(t, -6100, result.CashChange)
		assert.Equal(t, 250, result.UserChange)
		assert.Equal(t, 2, result.ReputationChange)
		assert.Equal(t, 5, result.ProductQualityChange)
		assert.Equal(t, sim.StageSeed, result.StageProgression)
		require.Len(t, result.AgentUpdates, 1)
		assert.Equal(t, "dev1", result.AgentUpdates[0].AgentID)
		require.NotNil(t, result.NewAgent)
		assert.Equal(t, "Priya", result.NewAgent.Name)
	})

	t.Run("zero deltas are valid", func(t *testing.T) {
		raw := `{"narrative": "Nothing happened.", "cash_change": 0, "user_change": 0, "reputation_change": 0, "product_quality_change": 0}`
		result, err := parseTurnResult(raw)
		require.NoError(t, err)
		assert.Zero(t, result.CashChange)
	})

	t.Run("missing delta is invalid", func(t *testing.T) {
		raw := `{"narrative": "Half a result.", "cash_change": 100, "user_change": 5, "reputation_change": 1}`
		_, err := parseTurnResult(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTurnResult)
		assert.Contains(t, err.Error(), "product_quality_change")
	})

	t.Run("missing narrative is invalid", func(t *testing.T) {
		raw := `{"narrative": "  ", "cash_change": 0, "user_change": 0, "reputation_change": 0, "product_quality_change": 0}`
		_, err := parseTurnResult(raw)
		assert.ErrorIs(t, err, ErrInvalidTurnResult)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := parseTurnResult(`not json at all`)
		assert.Error(t, err)
	})

	t.Run("fenced output", func(t *testing.T) {
		raw := "```json\n{\"narrative\": \"Fenced.\", \"cash_change\": 1, \"user_change\": 2, \"reputation_change\": 3, \"product_quality_change\": 4}\n```"
		result, err := parseTurnResult(raw)
		require.NoError(t, err)
		assert.Equal(t, 1, result.CashChange)
		assert.Equal(t, "Fenced.", result.Narrative)
	})
}

func TestParseBusinessPlan(t *testing.T) {
	raw := `{"name": "CloudCrate", "mission": "Ship faster.", "target_market": "DevOps teams", "revenue_model": "SaaS subscriptions", "estimated_valuation": 2000000}`
	plan, err := parseBusinessPlan(raw)
	require.NoError(t, err)
	assert.Equal(t, "CloudCrate", plan.Name)
	assert.Equal(t, int64(2000000), plan.EstimatedValuation)

	_, err = parseBusinessPlan(`{"target_market": "nobody"}`)
	assert.Error(t, err)
}

func TestParseChatResult(t *testing.T) {
	raw := `{"response": "On it, boss.", "morale_change": 4, "skill_change": 1}`
	result, err := parseChatResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "On it, boss.", result.Response)
	assert.Equal(t, 4, result.MoraleChange)

	_, err = parseChatResult(`{"morale_change": 4}`)
	assert.Error(t, err)
}

func TestParseCompetitors(t *testing.T) {
	raw := "Here are the competitors:\n" + `[{"name": "RivalOne", "description": "Bigger budget.", "url": "https://rival.one", "market_share": 30}]`
	competitors, err := parseCompetitors(raw)
	require.NoError(t, err)
	require.Len(t, competitors, 1)
	assert.Equal(t, "RivalOne", competitors[0].Name)
	assert.Equal(t, 30, competitors[0].MarketShare)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"leading prose", "Sure! Here you go: {\"a\":1}", `{"a":1}`},
		{"whitespace", "\n\n  {\"a\":1}  \n", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
