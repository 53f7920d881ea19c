package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Status values reported by Game.Status.
const (
	StatusWin     = "win"
	StatusLoss    = "loss"
	StatusOngoing = "ongoing"
)

// Game composes a grid, an agent, a cost table and the start/goal cells.
// A Game has no internal locking; callers serialize mutations.
type Game struct {
	Grid  *Grid    `json:"grid"`
	Agent *Agent   `json:"agent"`
	Costs *Costs   `json:"costs"`
	Start Position `json:"start_position"`
	Goal  Position `json:"goal_position"`
}

// NewGame validates the agent and that start and goal lie inside the grid.
func NewGame(grid *Grid, agent *Agent, costs *Costs, start, goal Position) (*Game, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: grid is required", ErrInvalidDimensions)
	}
	if agent == nil {
		return nil, fmt.Errorf("%w: agent is required", ErrInvalidAgent)
	}
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	if costs == nil {
		return nil, fmt.Errorf("%w: costs are required", ErrMissingTerrain)
	}
	if !IsValidAt(grid.Dims(), start) {
		return nil, fmt.Errorf("%w: start %v outside %v grid", ErrOutOfBounds, start, grid.Dims())
	}
	if !IsValidAt(grid.Dims(), goal) {
		return nil, fmt.Errorf("%w: goal %v outside %v grid", ErrOutOfBounds, goal, grid.Dims())
	}
	return &Game{Grid: grid, Agent: agent, Costs: costs, Start: start, Goal: goal}, nil
}

// NewRandomGame builds a game on a random grid drawn from rng, with the
// start in the top-left corner and the goal in the bottom-right one.
func NewRandomGame(dims Dimensions, rng *rand.Rand) (*Game, error) {
	grid, err := RandomGrid(dims, rng)
	if err != nil {
		return nil, err
	}
	start := Position{Row: 0, Col: 0}
	goal := Position{Row: dims.Rows - 1, Col: dims.Cols - 1}
	return NewGame(grid, NewAgent(start), StandardCosts(), start, goal)
}

// Move attempts to move the agent along dir. It returns false, with no
// mutation, when the destination is off the grid.
func (g *Game) Move(dir Direction) (bool, error) {
	return g.step(g.Agent, dir)
}

// SpeculativeMove applies the move transition to a copy of agent (the
// game's own agent when agent is nil) and returns the copy. Neither the game
// nor agent is mutated. It returns nil when the move is off the grid.
func (g *Game) SpeculativeMove(dir Direction, agent *Agent) (*Agent, error) {
	if agent == nil {
		agent = g.Agent
	}
	next := agent.Clone()
	ok, err := g.step(next, dir)
	if err != nil || !ok {
		return nil, err
	}
	return next, nil
}

// PossibleMoves lists the directions that stay on the grid from the agent's
// current position.
func (g *Game) PossibleMoves() []Direction {
	return ValidDirectionsFrom(g.Grid.Dims(), g.Agent.Position)
}

// IsWin reports whether the agent stands on the goal alive.
func (g *Game) IsWin() bool {
	return g.Agent.Position == g.Goal && g.Agent.IsAlive()
}

// IsLoss reports whether the agent is dead, wherever it stands.
func (g *Game) IsLoss() bool {
	return g.Agent.IsDead()
}

// Status returns StatusWin, StatusLoss or StatusOngoing.
func (g *Game) Status() string {
	switch {
	case g.IsWin():
		return StatusWin
	case g.IsLoss():
		return StatusLoss
	}
	return StatusOngoing
}

// IsOver reports whether the game is won or lost.
func (g *Game) IsOver() bool {
	return g.IsWin() || g.IsLoss()
}

// Reset returns the agent to the start with full vitals.
func (g *Game) Reset() {
	g.Agent.Refill(g.Start)
}

// TerrainUnderAgent returns the terrain at the agent's position.
func (g *Game) TerrainUnderAgent() (Terrain, error) {
	return g.Grid.At(g.Agent.Position)
}

// Clone returns a deep copy. The grid and cost table are immutable and are
// shared between copies.
func (g *Game) Clone() *Game {
	c := *g
	c.Agent = g.Agent.Clone()
	return &c
}

// UnmarshalJSON decodes a game snapshot and re-checks its invariants.
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	parsed, err := NewGame(v.Grid, v.Agent, v.Costs, v.Start, v.Goal)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

// ParseGame decodes a JSON game snapshot.
func ParseGame(data []byte) (*Game, error) {
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
