package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

// errNoEffect aborts an update whose move changed nothing, so nothing is
// written back.
var errNoEffect = errors.New("no effect")

// Option configures the game service
type Option func(*gameServiceImpl)

// WithSeed seeds the random source used for generated grids.
func WithSeed(seed int64) Option {
	return func(s *gameServiceImpl) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithSolverOptions sets the options every Solve call runs with.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(s *gameServiceImpl) { s.solverOpts = opts }
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	games   GameRegistry
	configs ConfigManager

	solverOpts []solver.Option

	// mu guards rng, which is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGameService creates a new game service instance
func NewGameService(games GameRegistry, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		games:   games,
		configs: configs,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newGameInfo(id int64, game *engine.Game) *GameInfo {
	return &GameInfo{ID: id, Status: game.Status(), Game: game}
}

// CreateGame creates a random game or a game from a scenario
func (s *gameServiceImpl) CreateGame(ctx context.Context, req CreateGameRequest) (*GameInfo, error) {
	var (
		game *engine.Game
		err  error
	)

	switch {
	case req.Dimensions != nil && req.ConfigID != "":
		return nil, fmt.Errorf("%w: dimensions and config_id are mutually exclusive", ErrInvalidRequest)
	case req.Dimensions != nil:
		game, err = s.randomGame(*req.Dimensions, req.Seed)
	case req.ConfigID != "":
		game, err = s.configGame(req.ConfigID)
	default:
		return nil, fmt.Errorf("%w: dimensions or config_id is required", ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}

	id, err := s.games.Create(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Printf("Created game %d (%v grid)", id, game.Grid.Dims())
	return newGameInfo(id, game), nil
}

func (s *gameServiceImpl) randomGame(dims engine.Dimensions, seed *int64) (*engine.Game, error) {
	if err := validateDimensions(dims); err != nil {
		return nil, err
	}

	if seed != nil {
		return engine.NewRandomGame(dims, rand.New(rand.NewSource(*seed)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.NewRandomGame(dims, s.rng)
}

func validateDimensions(dims engine.Dimensions) error {
	for _, n := range []int{dims.Rows, dims.Cols} {
		if n < engine.MinGridDimension || n > engine.MaxGridDimension {
			return fmt.Errorf("%w: dimensions %v outside %d..%d", ErrInvalidRequest, dims, engine.MinGridDimension, engine.MaxGridDimension)
		}
	}
	return nil
}

func (s *gameServiceImpl) configGame(configID string) (*engine.Game, error) {
	config, err := s.configs.LoadConfig(configID)
	if errors.Is(err, ErrConfigNotFound) && configID == DefaultConfigID {
		config, err = s.configs.GetDefault(), nil
	}
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return nil, s.configNotFound(configID)
		}
		return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
	}
	return config.NewGame()
}

// configNotFound lists the available ids to help the caller.
func (s *gameServiceImpl) configNotFound(configID string) error {
	available, err := s.configs.ListConfigs()
	if err != nil || len(available) == 0 {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, configID)
	}
	ids := make([]string, 0, len(available))
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("%w: %s (available: %s)", ErrConfigNotFound, configID, strings.Join(ids, ", "))
}

// GetGame retrieves a game by id
func (s *gameServiceImpl) GetGame(ctx context.Context, id int64) (*GameInfo, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return newGameInfo(id, game), nil
}

// ListGames returns every stored game ordered by id
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	entries, err := s.games.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, newGameInfo(e.ID, e.Game))
	}
	return result, nil
}

// DeleteGame removes a game
func (s *gameServiceImpl) DeleteGame(ctx context.Context, id int64) error {
	return s.games.Delete(ctx, id)
}

func parseDirection(direction string) (engine.Direction, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return dir, nil
}

// applyMove moves the agent one step and describes the step. It returns
// false when the move had no effect.
func applyMove(game *engine.Game, dir engine.Direction, idx int) (*StepInfo, bool, error) {
	before := *game.Agent
	moved, err := game.Move(dir)
	if err != nil || !moved {
		return nil, false, err
	}

	terrain, err := game.TerrainUnderAgent()
	if err != nil {
		return nil, false, err
	}

	return &StepInfo{
		Idx:          idx,
		Dir:          string(dir),
		From:         before.Position,
		To:           game.Agent.Position,
		TileChar:     string(terrain.Code()),
		TileType:     terrain.Name(),
		HealthBefore: before.Health,
		HealthAfter:  game.Agent.Health,
		MovesBefore:  before.Moves,
		MovesAfter:   game.Agent.Moves,
		Success:      true,
	}, true, nil
}

func noEffectMessage(dir engine.Direction) string {
	return fmt.Sprintf("direction had no effect: %s", dir)
}

func gameOverMessage(status string) string {
	return fmt.Sprintf("game is over: %s", status)
}

func stepMessage(game *engine.Game, step *StepInfo) string {
	switch game.Status() {
	case engine.StatusWin:
		return "Reached the goal!"
	case engine.StatusLoss:
		return fmt.Sprintf("The agent died on %s at %v", step.TileType, step.To)
	}
	return fmt.Sprintf("Moved %s onto %s (health %d/%d, moves %d/%d)",
		engine.Direction(step.Dir).Name(), step.TileType,
		game.Agent.Health, game.Agent.MaxHealth, game.Agent.Moves, game.Agent.MaxMoves)
}

// Move executes a single move. Moves off the grid, or on a game that is
// already won or lost, report Success false and leave the game unchanged.
func (s *gameServiceImpl) Move(ctx context.Context, id int64, direction string) (*MoveResult, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}

	var result *MoveResult
	game, err := s.games.Update(ctx, id, func(g *engine.Game) error {
		if g.IsOver() {
			result = &MoveResult{Message: gameOverMessage(g.Status())}
			return errNoEffect
		}

		step, moved, err := applyMove(g, dir, 1)
		if err != nil {
			return err
		}
		if !moved {
			result = &MoveResult{Message: noEffectMessage(dir)}
			return errNoEffect
		}

		result = &MoveResult{Success: true, Step: step, Message: stepMessage(g, step)}
		return nil
	})

	if errors.Is(err, errNoEffect) {
		game, err = s.games.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	result.Game = game
	result.Status = game.Status()
	return result, nil
}

// BulkMove executes up to engine.MaxBulkMoves moves in one update, stopping at
// the first move that has no effect or ends the game.
func (s *gameServiceImpl) BulkMove(ctx context.Context, id int64, directions []string) (*BulkMoveResult, error) {
	if len(directions) == 0 {
		return nil, fmt.Errorf("%w: directions are required", ErrInvalidRequest)
	}

	dirs := make([]engine.Direction, 0, len(directions))
	for _, d := range directions {
		dir, err := parseDirection(d)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
	}

	result := &BulkMoveResult{
		RequestedMoves: len(dirs),
		Success:        true,
	}
	if len(dirs) > engine.MaxBulkMoves {
		dirs = dirs[:engine.MaxBulkMoves]
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
	}

	game, err := s.games.Update(ctx, id, func(g *engine.Game) error {
		result.StartPos = g.Agent.Position

		if g.IsOver() {
			result.Success = false
			result.StopReasonCode = "game_over"
			result.StoppedReason = gameOverMessage(g.Status())
			return errNoEffect
		}

		for i, dir := range dirs {
			step, moved, err := applyMove(g, dir, i+1)
			if err != nil {
				return err
			}
			if !moved {
				result.Success = false
				result.StoppedOnMove = i + 1
				result.StopReasonCode = "blocked_boundary"
				result.StoppedReason = noEffectMessage(dir)
				break
			}

			result.Steps = append(result.Steps, *step)
			result.MovesExecuted++
			result.Message = stepMessage(g, step)

			if g.IsOver() {
				result.StoppedOnMove = i + 1
				result.StopReasonCode = g.Status()
				result.StoppedReason = result.Message
				break
			}
		}

		if result.MovesExecuted == 0 {
			return errNoEffect
		}
		return nil
	})

	if errors.Is(err, errNoEffect) {
		game, err = s.games.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	result.Game = game
	result.Status = game.Status()
	result.EndPos = game.Agent.Position
	result.GameOver = game.IsOver()
	if result.Message == "" {
		result.Message = result.StoppedReason
	}
	for _, dir := range game.PossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, string(dir))
	}
	return result, nil
}

// Reset puts the agent back on the start with full vitals
func (s *gameServiceImpl) Reset(ctx context.Context, id int64) (*GameInfo, error) {
	game, err := s.games.Update(ctx, id, func(g *engine.Game) error {
		g.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newGameInfo(id, game), nil
}

// GetStatus returns "win", "loss" or "ongoing"
func (s *gameServiceImpl) GetStatus(ctx context.Context, id int64) (string, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return game.Status(), nil
}

// Solve runs the wellness solver from the game's start with full vitals,
// whatever the agent's current state.
func (s *gameServiceImpl) Solve(ctx context.Context, id int64) (*SolveResult, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	game.Reset()

	sv := solver.New(game, s.solverOpts...)
	rec, found := sv.Solve()

	result := &SolveResult{Found: found, Stats: sv.Stats()}
	if !found {
		return result, nil
	}

	result.Path = rec.Path
	result.Agent = rec.Agent
	result.Wellness = rec.Wellness()
	result.Utility = rec.UtilityScore(game.Goal)
	for _, dir := range rec.Directions() {
		result.Directions = append(result.Directions, string(dir))
	}
	return result, nil
}

// ListConfigs returns all available scenarios
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific scenario
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configID string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configID)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return nil, s.configNotFound(configID)
		}
		return nil, err
	}
	return config, nil
}

// SaveConfig validates a scenario and stores it under configID
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configID string, config *engine.GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is required", ErrInvalidRequest)
	}
	if configID == "" {
		configID = config.Name
	}
	if err := s.configs.SaveConfig(configID, config); err != nil {
		return err
	}
	log.Printf("Saved config %s", configID)
	return nil
}
