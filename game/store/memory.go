package store

import (
	"context"
	"sort"
	"sync"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

// MemoryStore keeps encoded rows in a map. Rows are stored as JSON so callers
// never share a *engine.Game with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[int64][]byte
	lastID int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64][]byte)}
}

func (s *MemoryStore) Init(context.Context) error { return nil }

func (s *MemoryStore) List(context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		game, err := DecodeGame(s.rows[id])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: id, Game: game})
	}
	return entries, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*engine.Game, bool, error) {
	s.mu.RLock()
	data, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	game, err := DecodeGame(data)
	if err != nil {
		return nil, false, err
	}
	return game, true, nil
}

func (s *MemoryStore) Create(_ context.Context, game *engine.Game) (int64, error) {
	data, err := EncodeGame(game)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.rows[s.lastID] = data
	return s.lastID, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, game *engine.Game) (bool, error) {
	data, err := EncodeGame(game)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	s.rows[id] = data
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *MemoryStore) Close() error { return nil }
