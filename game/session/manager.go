package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/store"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNilGame      = errors.New("game is nil")
)

// entry is a cached game. mu serializes writers of the same id.
type entry struct {
	mu             sync.Mutex
	game           *engine.Game
	lastAccessedAt time.Time
}

// Manager keeps loaded games in memory on top of a store.
type Manager struct {
	store store.Store
	games map[int64]*entry
	mu    sync.RWMutex
	now   func() time.Time
}

// NewManager creates a registry over an initialized store
func NewManager(s store.Store) *Manager {
	return &Manager{
		store: s,
		games: make(map[int64]*entry),
		now:   time.Now,
	}
}

// Store returns the backing store.
func (m *Manager) Store() store.Store {
	return m.store
}

// Create persists a new game and caches it
func (m *Manager) Create(ctx context.Context, game *engine.Game) (int64, error) {
	if game == nil {
		return 0, ErrNilGame
	}

	id, err := m.store.Create(ctx, game)
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	m.games[id] = &entry{game: game.Clone(), lastAccessedAt: m.now()}
	m.mu.Unlock()

	return id, nil
}

// load returns the cache entry for id, reading through to the store on a miss.
func (m *Manager) load(ctx context.Context, id int64) (*entry, error) {
	m.mu.RLock()
	e, ok := m.games[id]
	m.mu.RUnlock()
	if ok {
		return e, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := m.games[id]; ok {
		return e, nil
	}

	game, found, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", id, err)
	}
	if !found {
		return nil, ErrGameNotFound
	}

	e = &entry{game: game, lastAccessedAt: m.now()}
	m.games[id] = e
	return e, nil
}

// Get returns a copy of the game with the given id.
func (m *Manager) Get(ctx context.Context, id int64) (*engine.Game, error) {
	e, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccessedAt = m.now()
	return e.game.Clone(), nil
}

// List returns every stored game ordered by id.
func (m *Manager) List(ctx context.Context) ([]store.Entry, error) {
	entries, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return entries, nil
}

// Update applies fn to a copy of the game and writes the copy through to the
// store. The cached game is only replaced when both succeed. Updates of the
// same id never interleave.
func (m *Manager) Update(ctx context.Context, id int64, fn func(*engine.Game) error) (*engine.Game, error) {
	e, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.game.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	ok, err := m.store.Update(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update game %d: %w", id, err)
	}
	if !ok {
		m.evict(id, e)
		return nil, ErrGameNotFound
	}

	e.game = next
	e.lastAccessedAt = m.now()
	return next.Clone(), nil
}

// Delete removes the game from the store and the cache
func (m *Manager) Delete(ctx context.Context, id int64) error {
	ok, err := m.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}

	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()

	if !ok {
		return ErrGameNotFound
	}
	return nil
}

func (m *Manager) evict(id int64, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.games[id] == e {
		delete(m.games, id)
	}
}

// CleanupExpired drops cache entries idle for longer than maxAge. Rows stay
// in the store and are reloaded on the next access. Entries with an update in
// flight are skipped.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0

	for id, e := range m.games {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastAccessedAt.Before(cutoff) {
			delete(m.games, id)
			removed++
		}
		e.mu.Unlock()
	}

	return removed
}

// Count returns the number of cached games
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
