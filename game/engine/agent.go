package engine

import (
	"encoding/json"
	"fmt"
)

// Agent is the traveling entity: a position plus depletable health and moves.
type Agent struct {
	Position  Position `json:"position"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Moves     int      `json:"moves"`
	MaxMoves  int      `json:"max_moves"`
}

// NewAgent returns an agent at pos with full default vitals.
func NewAgent(pos Position) *Agent {
	return &Agent{
		Position:  pos,
		Health:    DefaultHealth,
		MaxHealth: DefaultHealth,
		Moves:     DefaultMoves,
		MaxMoves:  DefaultMoves,
	}
}

// NewAgentWithVitals returns a validated agent with explicit vitals.
func NewAgentWithVitals(pos Position, health, maxHealth, moves, maxMoves int) (*Agent, error) {
	a := &Agent{
		Position:  pos,
		Health:    health,
		MaxHealth: maxHealth,
		Moves:     moves,
		MaxMoves:  maxMoves,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the construction invariants. Health and moves may be zero
// or negative: that is a dead agent, not an invalid one.
func (a *Agent) Validate() error {
	switch {
	case a.MaxHealth <= 0:
		return fmt.Errorf("%w: non-positive max health: %d", ErrInvalidAgent, a.MaxHealth)
	case a.MaxMoves <= 0:
		return fmt.Errorf("%w: non-positive max moves: %d", ErrInvalidAgent, a.MaxMoves)
	case a.Health > a.MaxHealth:
		return fmt.Errorf("%w: health %d exceeds max %d", ErrInvalidAgent, a.Health, a.MaxHealth)
	case a.Moves > a.MaxMoves:
		return fmt.Errorf("%w: moves %d exceeds max %d", ErrInvalidAgent, a.Moves, a.MaxMoves)
	}
	return nil
}

func (a *Agent) IsHealthy() bool { return a.Health > 0 }
func (a *Agent) IsMotive() bool  { return a.Moves > 0 }

// IsAlive reports whether the agent is both healthy and motive.
func (a *Agent) IsAlive() bool {
	return a.IsHealthy() && a.IsMotive()
}

func (a *Agent) IsDead() bool {
	return !a.IsAlive()
}

// Clone returns an independent copy.
func (a *Agent) Clone() *Agent {
	c := *a
	return &c
}

// Refill restores full vitals at pos.
func (a *Agent) Refill(pos Position) {
	a.Position = pos
	a.Health = a.MaxHealth
	a.Moves = a.MaxMoves
}

func (a *Agent) String() string {
	return fmt.Sprintf("agent at %v health %d/%d moves %d/%d",
		a.Position, a.Health, a.MaxHealth, a.Moves, a.MaxMoves)
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	type plain Agent
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	parsed := Agent(v)
	if err := parsed.Validate(); err != nil {
		return err
	}
	*a = parsed
	return nil
}
