package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	catalog := sim.DefaultCatalog()
	return NewStore(sim.NewGameState(sim.LangEN, catalog), catalog)
}

func TestStore_StateIsACopy(t *testing.T) {
	st := newTestStore(t)

	first, err := st.State()
	require.NoError(t, err)
	first.Cash = -999
	first.Agents[0].Morale = 0

	second, err := st.State()
	require.NoError(t, err)
	assert.Equal(t, sim.InitialCash, second.Cash)
	assert.Equal(t, 90, second.Agents[0].Morale)
}

func TestStore_Replace(t *testing.T) {
	st := newTestStore(t)

	next, err := st.State()
	require.NoError(t, err)
	next.Cash = 12345
	next.Turn = 7
	st.Replace(next)

	got, err := st.State()
	require.NoError(t, err)
	assert.Equal(t, 12345, got.Cash)
	assert.Equal(t, 7, got.Turn)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestStore_ApplyChatDelta(t *testing.T) {
	st := newTestStore(t)

	st.ApplyChatDelta("dev1", 20, 5)
	got, err := st.State()
	require.NoError(t, err)
	agent := got.Agent("dev1")
	require.NotNil(t, agent)
	assert.Equal(t, 100, agent.Morale) // 90+20 clamped
	assert.Equal(t, 90, agent.SkillLevel)

	st.ApplyChatDelta("dev1", -200, -200)
	got, err = st.State()
	require.NoError(t, err)
	agent = got.Agent("dev1")
	assert.Equal(t, 0, agent.Morale)
	assert.Equal(t, 0, agent.SkillLevel)

	// Unknown agent is a no-op, not a panic.
	st.ApplyChatDelta("ghost", 10, 10)
}

func TestStore_AttachAvatar(t *testing.T) {
	st := newTestStore(t)

	st.AttachAvatar("mkt1", "data:image/png;base64,abc")
	got, err := st.State()
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,abc", got.Agent("mkt1").AvatarURL)

	// Fired agents are gone; attaching is a no-op.
	st.AttachAvatar("ghost", "data:image/png;base64,def")
}

func TestStore_BusyFlag(t *testing.T) {
	st := newTestStore(t)

	require.True(t, st.TryBegin())
	assert.False(t, st.TryBegin(), "second claim must fail while busy")
	assert.True(t, st.Busy())

	st.End()
	assert.False(t, st.Busy())
	assert.True(t, st.TryBegin())
	st.End()
}

func TestStore_Restart(t *testing.T) {
	catalog := sim.DefaultCatalog()
	gs := sim.NewGameState(sim.LangCN, catalog)
	gs.Cash = 0
	gs.Status = sim.StatusLost
	gs.Turn = 19
	originalID := gs.ID
	st := NewStore(gs, catalog)

	fresh := st.Restart()

	assert.Equal(t, originalID, fresh.ID, "restart preserves the session id")
	assert.Equal(t, sim.LangCN, fresh.Language, "restart preserves language")
	assert.Equal(t, sim.StatusPlaying, fresh.Status)
	assert.Equal(t, sim.InitialCash, fresh.Cash)
	assert.Equal(t, 1, fresh.Turn)
	assert.Len(t, fresh.Agents, 3)
}

func TestStore_AppendLogAndAsset(t *testing.T) {
	st := newTestStore(t)

	st.AppendLog(sim.SourceMarket, "Rival raised a Series B.", sim.SentimentNegative)
	st.AppendAsset(sim.Asset{ID: "a1", Type: sim.AssetImage, URL: "u", Prompt: "p"})

	got, err := st.State()
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, sim.SourceMarket, got.History[0].Source)
	require.Len(t, got.Assets, 1)
	assert.Equal(t, sim.AssetImage, got.Assets[0].Type)
}
