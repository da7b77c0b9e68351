package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[uuid.UUID]*sim.GameState
	catalog    []sim.ActionCard

	pingError    error
	saveError    error
	loadError    error
	catalogError error

	SaveCalls   []uuid.UUID
	LoadCalls   []uuid.UUID
	DeleteCalls []uuid.UUID
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates: make(map[uuid.UUID]*sim.GameState),
		catalog:    sim.DefaultCatalog(),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on SaveGameState
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError configures the mock to fail on LoadGameState
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// SetCatalog overrides the catalog returned by GetCardCatalog
func (m *MockStorage) SetCatalog(cards []sim.ActionCard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = cards
}

// SetCatalogError configures the mock to fail on GetCardCatalog
func (m *MockStorage) SetCatalogError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveGameState mocks saving a gamestate
func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *sim.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, id)
	if m.saveError != nil {
		return m.saveError
	}
	snap, err := gs.DeepCopy()
	if err != nil {
		return err
	}
	m.gamestates[id] = snap
	return nil
}

// LoadGameState mocks loading a gamestate
func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*sim.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls = append(m.LoadCalls, id)
	if m.loadError != nil {
		return nil, m.loadError
	}
	gs, ok := m.gamestates[id]
	if !ok {
		return nil, nil
	}
	return gs.DeepCopy()
}

// DeleteGameState mocks deleting a gamestate
func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	delete(m.gamestates, id)
	return nil
}

// GetCardCatalog mocks catalog loading
func (m *MockStorage) GetCardCatalog(ctx context.Context) ([]sim.ActionCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.catalogError != nil {
		return nil, m.catalogError
	}
	cards := make([]sim.ActionCard, len(m.catalog))
	copy(cards, m.catalog)
	return cards, nil
}
