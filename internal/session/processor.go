package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/foundermode/internal/services"
	"github.com/jwebster45206/foundermode/internal/storage"
	"github.com/jwebster45206/foundermode/pkg/sim"
)

var (
	// ErrSessionNotFound means no session exists for the id, in memory or storage.
	ErrSessionNotFound = errors.New("session not found")

	// ErrBusy means another oracle-backed operation is in flight for the session.
	ErrBusy = errors.New("operation already in progress")

	// ErrGameOver means the game has concluded and only restart is allowed.
	ErrGameOver = errors.New("game is over")

	// ErrAgentNotFound means the referenced agent is not on the team.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrCardNotInHand means the referenced card is not in the current hand.
	ErrCardNotInHand = errors.New("card not in hand")
)

// mediaTimeout bounds fire-and-forget media generation. Video polling can
// legitimately take minutes.
const mediaTimeout = 5 * time.Minute

// Manager orchestrates all game sessions: it owns the session stores,
// routes commands through the oracle, folds results with sim.Resolve, and
// persists snapshots best-effort.
type Manager struct {
	oracle  services.Oracle
	storage storage.Storage
	catalog []sim.ActionCard
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Store

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewManager creates a session manager over the given oracle and storage.
func NewManager(oracle services.Oracle, store storage.Storage, catalog []sim.ActionCard, logger *slog.Logger) *Manager {
	return &Manager{
		oracle:   oracle,
		storage:  store,
		catalog:  catalog,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Store),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartGame creates a new session from a startup idea. Plan generation
// falls back to the default plan rather than failing the start. The first
// simulation turn runs automatically to populate objectives and the
// opening narrative; the company logo is generated in the background.
func (m *Manager) StartGame(ctx context.Context, idea string, lang sim.Language) (*sim.GameState, error) {
	plan, err := m.oracle.GeneratePlan(ctx, idea)
	if err != nil {
		m.logger.Warn("Business plan generation failed, using default plan", "error", err)
		plan = sim.DefaultBusinessPlan()
	}

	gs := sim.NewGameState(lang, m.catalog)
	gs.BusinessPlan = plan
	dealt := m.deal(gs.Deck)
	gs.Hand = dealt.Hand
	gs.Deck = dealt.Deck
	gs.AppendLog(sim.SourceSystem, fmt.Sprintf("Business Plan Generated: %s", plan.Name), sim.SentimentPositive)

	st := NewStore(gs, m.catalog)
	m.mu.Lock()
	m.sessions[gs.ID] = st
	m.mu.Unlock()

	go m.generateLogo(gs.ID, plan)

	if _, err := m.ExecuteTurn(ctx, gs.ID, "Initialize Operations", false); err != nil {
		m.logger.Error("Initial turn failed", "uuid", gs.ID, "error", err)
	}

	return st.State()
}

// ExecuteTurn runs one week of simulation. The oracle call happens outside
// the store lock; the fold is atomic via Replace. On oracle failure the
// turn fails cleanly: no counter advance, a single failure log.
func (m *Manager) ExecuteTurn(ctx context.Context, id uuid.UUID, command string, fromPlayer bool) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.TryBegin() {
		return nil, ErrBusy
	}
	defer st.End()

	return m.runTurn(ctx, st, id, command, fromPlayer)
}

// runTurn is the turn body. The caller holds the session's busy flag.
func (m *Manager) runTurn(ctx context.Context, st *Store, id uuid.UUID, command string, fromPlayer bool) (*sim.GameState, error) {
	prior, err := st.State()
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	if prior.Status != sim.StatusPlaying {
		return nil, ErrGameOver
	}

	if fromPlayer {
		prior.AppendLog(sim.SourceCEO, command, sim.SentimentNeutral)
	}

	dealt := m.deal(prior.Deck)

	result, simErr := m.oracle.SimulateTurn(ctx, prior.Snapshot(), command)

	var next *sim.GameState
	if simErr != nil {
		m.logger.Error("Turn simulation failed", "uuid", id, "turn", prior.Turn, "error", simErr)
		next = sim.ResolveFailure(prior)
	} else {
		next = sim.Resolve(prior, result, dealt)
	}

	st.Replace(next)
	m.persist(ctx, st)

	if simErr == nil && result.NewAgent != nil && len(next.Agents) > 0 {
		hired := next.Agents[len(next.Agents)-1]
		go m.generateAvatar(id, hired)
	}

	return st.State()
}

// PlayCard resolves an action card from the current hand as a turn. The
// card's effect directive is forwarded verbatim to the oracle. The hand
// check happens under the busy flag: a turn completing concurrently
// redeals the hand, so a check against an earlier read could pass a card
// that is no longer held.
func (m *Manager) PlayCard(ctx context.Context, id uuid.UUID, cardID string) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.TryBegin() {
		return nil, ErrBusy
	}
	defer st.End()

	prior, err := st.State()
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	card := prior.CardInHand(cardID)
	if card == nil {
		return nil, ErrCardNotInHand
	}

	command := fmt.Sprintf("[ACTION CARD PLAYED]: %s. Effect: %s", card.Title, card.EffectDirective)
	return m.runTurn(ctx, st, id, command, true)
}

// ChatWithAgent runs a 1:1 conversation with a team member. Chat is not a
// turn: no busy flag, no counter advance. A failed oracle call degrades to
// a neutral reply so chat never blocks the game.
func (m *Manager) ChatWithAgent(ctx context.Context, id uuid.UUID, agentID, message string) (*sim.ChatResult, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	prior, err := st.State()
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	agent := prior.Agent(agentID)
	if agent == nil {
		return nil, ErrAgentNotFound
	}

	result, chatErr := m.oracle.Chat(ctx, *agent, message)
	if chatErr != nil {
		m.logger.Warn("Agent chat failed, returning neutral reply", "uuid", id, "agent", agentID, "error", chatErr)
		result = sim.NeutralChatResult()
	}

	st.ApplyChatDelta(agentID, result.MoraleChange, result.SkillChange)
	m.persist(ctx, st)
	return result, nil
}

// AnalyzeMarket refreshes the competitor list for the session's target
// market. On failure the list is left unchanged and the failure is
// surfaced in the game log.
func (m *Manager) AnalyzeMarket(ctx context.Context, id uuid.UUID) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.TryBegin() {
		return nil, ErrBusy
	}
	defer st.End()

	prior, err := st.State()
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	if prior.Status != sim.StatusPlaying {
		return nil, ErrGameOver
	}

	target := "technology startups"
	if prior.BusinessPlan != nil && prior.BusinessPlan.TargetMarket != "" {
		target = prior.BusinessPlan.TargetMarket
	}

	competitors, scanErr := m.oracle.AnalyzeMarket(ctx, target)
	if scanErr != nil {
		m.logger.Error("Market analysis failed", "uuid", id, "error", scanErr)
		st.AppendLog(sim.SourceSystem, "Market Scan Failed.", sim.SentimentNegative)
	} else {
		st.ReplaceCompetitors(competitors)
		st.AppendLog(sim.SourceMarket,
			fmt.Sprintf("Market analysis complete. %d competitors identified in %s.", len(competitors), target),
			sim.SentimentNeutral)
	}

	m.persist(ctx, st)
	return st.State()
}

// GenerateAsset commissions a marketing image or video. Generation runs
// under the busy flag because video polling can take minutes; the outcome
// lands in the game log either way.
func (m *Manager) GenerateAsset(ctx context.Context, id uuid.UUID, assetType sim.AssetType, prompt string) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.TryBegin() {
		return nil, ErrBusy
	}
	defer st.End()

	st.AppendLog(sim.SourceCEO, fmt.Sprintf("Creative request: %s", prompt), sim.SentimentNeutral)

	var url string
	var genErr error
	switch assetType {
	case sim.AssetVideo:
		url, genErr = m.oracle.GenerateVideo(ctx, prompt)
	default:
		url, genErr = m.oracle.GenerateImage(ctx, prompt, services.AspectWide)
	}

	if genErr != nil {
		m.logger.Error("Asset generation failed", "uuid", id, "type", assetType, "error", genErr)
		st.AppendLog(sim.SourceAgent, "Design team couldn't deliver the asset. Try a different brief.", sim.SentimentNegative)
	} else {
		st.AppendAsset(sim.Asset{
			ID:        uuid.NewString(),
			Type:      assetType,
			URL:       url,
			Prompt:    prompt,
			CreatedAt: time.Now(),
		})
		st.AppendLog(sim.SourceAgent, "Design team delivered a new promotional asset.", sim.SentimentPositive)
	}

	m.persist(ctx, st)
	return st.State()
}

// Restart resets a session to a fresh initial state, preserving the
// session id and language.
func (m *Manager) Restart(ctx context.Context, id uuid.UUID) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	fresh := st.Restart()
	if err := m.storage.DeleteGameState(ctx, id); err != nil {
		m.logger.Warn("Failed to delete persisted gamestate on restart", "uuid", id, "error", err)
	}
	m.persist(ctx, st)
	return fresh, nil
}

// GetState returns a copy of the session's current state.
func (m *Manager) GetState(ctx context.Context, id uuid.UUID) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.State()
}

// Delete removes a session from memory and storage.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	return m.storage.DeleteGameState(ctx, id)
}

// Settings carries optional session settings updates; nil fields are
// left unchanged.
type Settings struct {
	Language          *sim.Language
	TutorialActive    *bool
	ActiveAgentChatID *string
}

// UpdateSettings applies a partial settings update.
func (m *Manager) UpdateSettings(ctx context.Context, id uuid.UUID, s Settings) (*sim.GameState, error) {
	st, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Language != nil {
		st.SetLanguage(*s.Language)
	}
	if s.TutorialActive != nil {
		st.SetTutorialActive(*s.TutorialActive)
	}
	if s.ActiveAgentChatID != nil {
		st.SetActiveChatAgent(*s.ActiveAgentChatID)
	}

	m.persist(ctx, st)
	return st.State()
}

// session returns the in-memory store for id, adopting it from storage
// if the process restarted since the session was created.
func (m *Manager) session(ctx context.Context, id uuid.UUID) (*Store, error) {
	m.mu.RLock()
	st, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return st, nil
	}

	gs, err := m.storage.LoadGameState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}
	if gs == nil {
		return nil, ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	st = NewStore(gs, m.catalog)
	m.sessions[id] = st
	m.logger.Info("Session adopted from storage", "uuid", id)
	return st, nil
}

func (m *Manager) deal(deck []sim.ActionCard) sim.Dealt {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	hand, remaining := sim.Deal(deck, m.catalog, sim.HandSize, m.rng)
	return sim.Dealt{Hand: hand, Deck: remaining}
}

// persist is best-effort: a storage failure is logged, never surfaced.
func (m *Manager) persist(ctx context.Context, st *Store) {
	gs, err := st.State()
	if err != nil {
		m.logger.Warn("Failed to snapshot gamestate for persistence", "error", err)
		return
	}
	if err := m.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		m.logger.Warn("Failed to persist gamestate", "uuid", gs.ID, "error", err)
	}
}

// generateLogo runs in the background after game start. A failure is
// logged and otherwise silent.
func (m *Manager) generateLogo(id uuid.UUID, plan *sim.BusinessPlan) {
	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Minimalist modern logo for a startup named %q. %s", plan.Name, plan.Mission)
	url, err := m.oracle.GenerateImage(ctx, prompt, services.AspectSquare)
	if err != nil {
		m.logger.Warn("Logo generation failed", "uuid", id, "error", err)
		return
	}

	st, err := m.session(ctx, id)
	if err != nil {
		return
	}
	st.AppendAsset(sim.Asset{
		ID:        uuid.NewString(),
		Type:      sim.AssetImage,
		URL:       url,
		Prompt:    prompt,
		CreatedAt: time.Now(),
	})
	m.persist(ctx, st)
}

// generateAvatar runs in the background after a hire. It races later
// turns deliberately; AttachAvatar no-ops if the agent was fired.
func (m *Manager) generateAvatar(id uuid.UUID, agent sim.Agent) {
	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Professional avatar portrait of %s, a startup %s. Flat vector style.", agent.Name, agent.Role)
	url, err := m.oracle.GenerateImage(ctx, prompt, services.AspectSquare)
	if err != nil {
		m.logger.Warn("Avatar generation failed", "uuid", id, "agent", agent.ID, "error", err)
		return
	}

	st, err := m.session(ctx, id)
	if err != nil {
		return
	}
	st.AttachAvatar(agent.ID, url)
	m.persist(ctx, st)
}
