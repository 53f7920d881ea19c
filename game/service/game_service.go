package service

import (
	"context"
	"errors"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/session"
	"github.com/wricardo/mcp-training/gridworld/game/store"
)

var (
	ErrGameNotFound   = session.ErrGameNotFound
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidRequest = errors.New("invalid request")
)

// DefaultConfigID always resolves: to default.json when present, else to
// the config manager's default scenario.
const DefaultConfigID = "default"

// GameService defines all game-related operations
type GameService interface {
	// Game Management
	CreateGame(ctx context.Context, req CreateGameRequest) (*GameInfo, error)
	GetGame(ctx context.Context, id int64) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	DeleteGame(ctx context.Context, id int64) error

	// Game Operations
	Move(ctx context.Context, id int64, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, id int64, directions []string) (*BulkMoveResult, error)
	Reset(ctx context.Context, id int64) (*GameInfo, error)

	// Game State
	GetStatus(ctx context.Context, id int64) (string, error)
	Solve(ctx context.Context, id int64) (*SolveResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configID string, config *engine.GameConfig) error
}

// GameRegistry defines game storage operations
type GameRegistry interface {
	Create(ctx context.Context, game *engine.Game) (int64, error)
	Get(ctx context.Context, id int64) (*engine.Game, error)
	List(ctx context.Context) ([]store.Entry, error)
	Update(ctx context.Context, id int64, fn func(*engine.Game) error) (*engine.Game, error)
	Delete(ctx context.Context, id int64) error
}

// ConfigManager handles scenario loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}
