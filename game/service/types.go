package service

import (
	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

// CreateGameRequest selects either a random grid of the given dimensions or
// a scenario by config id. Seed pins the random grid.
type CreateGameRequest struct {
	Dimensions *engine.Dimensions `json:"dimensions,omitempty"`
	ConfigID   string             `json:"config_id,omitempty"`
	Seed       *int64             `json:"seed,omitempty"`
}

// GameInfo is a stored game with its id and derived status
type GameInfo struct {
	ID     int64        `json:"id"`
	Status string       `json:"status"`
	Game   *engine.Game `json:"game"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success bool         `json:"success"`
	Game    *engine.Game `json:"game"`
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Step    *StepInfo    `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int          `json:"moves_executed"`
	RequestedMoves int          `json:"requested_moves"`
	Success        bool         `json:"success"`
	Game           *engine.Game `json:"game"`
	Status         string       `json:"status"`
	StoppedReason  string       `json:"stopped_reason,omitempty"`
	StopReasonCode string       `json:"stop_reason_code,omitempty"` // blocked_boundary|win|loss|game_over
	StoppedOnMove  int          `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool         `json:"truncated,omitempty"`
	Limit          int          `json:"limit,omitempty"`

	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	Steps []StepInfo `json:"steps,omitempty"`

	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record of one executed move
type StepInfo struct {
	Idx          int             `json:"idx"`
	Dir          string          `json:"dir"`
	From         engine.Position `json:"from"`
	To           engine.Position `json:"to"`
	TileChar     string          `json:"tile_char"`
	TileType     string          `json:"tile_type"`
	HealthBefore int             `json:"health_before"`
	HealthAfter  int             `json:"health_after"`
	MovesBefore  int             `json:"moves_before"`
	MovesAfter   int             `json:"moves_after"`
	Success      bool            `json:"success"`
}

// SolveResult reports the best known way to the goal from the start.
type SolveResult struct {
	Found      bool              `json:"found"`
	Path       []engine.Position `json:"path,omitempty"`
	Directions []string          `json:"directions,omitempty"`
	Agent      *engine.Agent     `json:"agent,omitempty"`
	Wellness   float64           `json:"wellness"`
	Utility    float64           `json:"utility"`
	Stats      solver.Stats      `json:"stats"`
}

// ConfigInfo provides information about a scenario file
type ConfigInfo struct {
	Filename    string            `json:"filename"`
	ConfigID    string            `json:"config_id"` // The identifier to use for game creation
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Dimensions  engine.Dimensions `json:"dimensions"`
	Start       engine.Position   `json:"start_position"`
	Goal        engine.Position   `json:"goal_position"`
	MaxHealth   int               `json:"max_health"`
	MaxMoves    int               `json:"max_moves"`
}
