package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pawnchess/internal/core"
	"pawnchess/internal/game"
)

type memoryGame struct {
	game    game.Game
	history []game.HistoryEntry
}

// MemoryStore keeps games in process memory. Used when no database path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*memoryGame
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*memoryGame)}
}

func (m *MemoryStore) CreateGame(_ context.Context, g game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[g.ID]; exists {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	m.games[g.ID] = &memoryGame{game: g}
	return nil
}

func (m *MemoryStore) LoadGame(_ context.Context, gameID string) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.games[gameID]
	if !ok {
		return game.Game{}, fmt.Errorf("game %s: %w", gameID, core.ErrNotFound)
	}
	return stored.game, nil
}

// CommitMove applies tr under the store lock, so the board and the history entry
// become visible together
func (m *MemoryStore) CommitMove(_ context.Context, tr game.Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.games[tr.Game.ID]
	if !ok {
		return fmt.Errorf("game %s: %w", tr.Game.ID, core.ErrNotFound)
	}
	if stored.game.Version != tr.PreviousVersion {
		return fmt.Errorf("game %s at version %d: %w", tr.Game.ID, tr.PreviousVersion, ErrVersionConflict)
	}

	stored.game = tr.Game
	stored.history = append(stored.history, tr.Entry)
	return nil
}

func (m *MemoryStore) ListHistory(_ context.Context, gameID string) ([]game.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, core.ErrNotFound)
	}
	history := make([]game.HistoryEntry, len(stored.history))
	copy(history, stored.history)
	return history, nil
}

// ListGames returns every game, newest first
func (m *MemoryStore) ListGames(_ context.Context) ([]game.Game, error) {
	m.mu.RLock()
	games := make([]game.Game, 0, len(m.games))
	for _, stored := range m.games {
		games = append(games, stored.game)
	}
	m.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	return games, nil
}

func (m *MemoryStore) IsHealthy() bool {
	return true
}

func (m *MemoryStore) Close() error {
	return nil
}
