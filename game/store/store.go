package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

// ErrNotInitialized is returned by backends used before Init.
var ErrNotInitialized = errors.New("store not initialized")

// Entry is one stored game with its row id.
type Entry struct {
	ID   int64
	Game *engine.Game
}

// Store persists game snapshots as JSON rows keyed by a numeric id.
// Every write replaces the whole row.
type Store interface {
	Init(ctx context.Context) error
	// List returns every game ordered by id.
	List(ctx context.Context) ([]Entry, error)
	// Get reports false, with a nil error, when no row has the id.
	Get(ctx context.Context, id int64) (*engine.Game, bool, error)
	// Create inserts a new row and returns its id.
	Create(ctx context.Context, game *engine.Game) (int64, error)
	// Update replaces the row; it reports false when no row has the id.
	Update(ctx context.Context, id int64, game *engine.Game) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Close() error
}

// EncodeGame serializes a game into its row payload. A game DecodeGame
// would reject is never written.
func EncodeGame(game *engine.Game) ([]byte, error) {
	if game == nil {
		return nil, errors.New("game cannot be nil")
	}
	if err := game.Agent.Validate(); err != nil {
		return nil, fmt.Errorf("encode game: %w", err)
	}
	data, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("encode game: %w", err)
	}
	return data, nil
}

// DecodeGame parses a row payload and re-checks game invariants.
func DecodeGame(data []byte) (*engine.Game, error) {
	game, err := engine.ParseGame(data)
	if err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return game, nil
}
