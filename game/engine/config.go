package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// AgentConfig holds the starting vitals of a scenario's agent.
type AgentConfig struct {
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Moves     int `json:"moves"`
	MaxMoves  int `json:"max_moves"`
}

// withDefaults starts omitted current vitals at their maxima.
func (a AgentConfig) withDefaults() AgentConfig {
	if a.Health == 0 {
		a.Health = a.MaxHealth
	}
	if a.Moves == 0 {
		a.Moves = a.MaxMoves
	}
	return a
}

// GameConfig describes a scenario: a fixed grid, start and goal, and
// optionally non-default agent vitals and costs.
type GameConfig struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Grid        []string     `json:"grid"`
	Agent       *AgentConfig `json:"agent,omitempty"`
	Costs       *Costs       `json:"costs,omitempty"`
	Start       Position     `json:"start_position"`
	Goal        Position     `json:"goal_position"`
}

// DefaultGameConfig returns the built-in 2x2 demo scenario.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Two by two demo: lava to the right, speeder below, mud on the goal",
		Grid:        []string{".*", "+#"},
		Start:       Position{Row: 0, Col: 0},
		Goal:        Position{Row: 1, Col: 1},
	}
}

// NewGame builds a fresh game from the scenario, agent at the start.
func (c *GameConfig) NewGame() (*Game, error) {
	grid, err := GridFromRows(c.Grid)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}

	agent := NewAgent(c.Start)
	if c.Agent != nil {
		v := c.Agent.withDefaults()
		agent, err = NewAgentWithVitals(c.Start, v.Health, v.MaxHealth, v.Moves, v.MaxMoves)
		if err != nil {
			return nil, err
		}
	}

	costs := c.Costs
	if costs == nil {
		costs = StandardCosts()
	}
	if err := costs.CheckDepleting(); err != nil {
		return nil, err
	}
	return NewGame(grid, agent, costs, c.Start, c.Goal)
}

// Dims returns the scenario grid dimensions without validating the rows.
func (c *GameConfig) Dims() Dimensions {
	if len(c.Grid) == 0 {
		return Dimensions{}
	}
	return Dimensions{Rows: len(c.Grid), Cols: len(c.Grid[0])}
}

// ValidateGameConfig checks that the scenario builds a valid game.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config name is required")
	}
	_, err := config.NewGame()
	return err
}

// LoadGameConfig reads and validates a scenario file.
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
