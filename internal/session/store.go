package session

import (
	"sync"
	"time"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// Store owns the single authoritative GameState for one session. All
// reads go through deep copies and all writes happen under the lock, so
// no caller ever observes a partially applied turn.
//
// The busy flag serializes turn resolution, market analysis and asset
// generation for the session. It is deliberately one flag, not one per
// operation: the game permits a single oracle-backed action in flight.
type Store struct {
	mu      sync.RWMutex
	state   *sim.GameState
	catalog []sim.ActionCard
	busy    bool
}

// NewStore wraps an existing game state. The catalog is retained for
// restarts.
func NewStore(state *sim.GameState, catalog []sim.ActionCard) *Store {
	return &Store{
		state:   state,
		catalog: catalog,
	}
}

// State returns a deep copy of the current game state.
func (s *Store) State() (*sim.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DeepCopy()
}

// Replace installs next as the authoritative state.
func (s *Store) Replace(next *sim.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next.UpdatedAt = time.Now()
	s.state = next
}

// AppendLog appends a log entry to the live state.
func (s *Store) AppendLog(source sim.LogSource, text string, sentiment sim.Sentiment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppendLog(source, text, sentiment)
	s.state.UpdatedAt = time.Now()
}

// AppendAsset appends a generated media asset.
func (s *Store) AppendAsset(asset sim.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Assets = append(s.state.Assets, asset)
	s.state.UpdatedAt = time.Now()
}

// AttachAvatar sets an agent's avatar URL. Avatar generation races with
// later turns, so the agent may already be fired; that is a no-op.
func (s *Store) AttachAvatar(agentID, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agent := s.state.Agent(agentID); agent != nil {
		agent.AvatarURL = url
		s.state.UpdatedAt = time.Now()
	}
}

// ApplyChatDelta applies morale and skill changes from a 1:1 chat,
// clamped to the 0-100 scales. No-op if the agent is gone.
func (s *Store) ApplyChatDelta(agentID string, moraleChange, skillChange int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agent := s.state.Agent(agentID)
	if agent == nil {
		return
	}
	agent.Morale = clamp(agent.Morale+moraleChange, 0, 100)
	agent.SkillLevel = clamp(agent.SkillLevel+skillChange, 0, 100)
	s.state.UpdatedAt = time.Now()
}

// ReplaceCompetitors swaps in a fresh market analysis wholesale.
func (s *Store) ReplaceCompetitors(competitors []sim.Competitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Competitors = competitors
	s.state.UpdatedAt = time.Now()
}

// SetLanguage switches the session language.
func (s *Store) SetLanguage(lang sim.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Language = lang
	s.state.UpdatedAt = time.Now()
}

// SetTutorialActive toggles the tutorial flag.
func (s *Store) SetTutorialActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TutorialActive = active
	s.state.UpdatedAt = time.Now()
}

// SetActiveChatAgent records which agent the player is chatting with,
// or clears it with an empty id.
func (s *Store) SetActiveChatAgent(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveAgentChatID = agentID
	s.state.UpdatedAt = time.Now()
}

// Restart resets the session to a fresh initial state, preserving the
// session id and language.
func (s *Store) Restart() *sim.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := sim.NewGameState(s.state.Language, s.catalog)
	fresh.ID = s.state.ID
	s.state = fresh
	snap, err := fresh.DeepCopy()
	if err != nil {
		return fresh
	}
	return snap
}

// TryBegin attempts to claim the session's busy flag. It returns false
// if another oracle-backed operation is already in flight.
func (s *Store) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// End releases the busy flag.
func (s *Store) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// Busy reports whether an operation is in flight.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
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
