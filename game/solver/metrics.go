package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

// ErrInvalidMaximum is returned by Wellness when a maximum is not positive.
var ErrInvalidMaximum = errors.New("non-positive maximum")

// Wellness returns (health*moves)/(maxHealth*maxMoves), a value in [0,1]
// for valid vitals, or 0 once either vital is negative.
func Wellness(health, maxHealth, moves, maxMoves int) (float64, error) {
	if maxHealth <= 0 {
		return 0, fmt.Errorf("%w: max health %d", ErrInvalidMaximum, maxHealth)
	}
	if maxMoves <= 0 {
		return 0, fmt.Errorf("%w: max moves %d", ErrInvalidMaximum, maxMoves)
	}
	if health < 0 || moves < 0 {
		return 0, nil
	}
	return float64(health) * float64(moves) / (float64(maxHealth) * float64(maxMoves)), nil
}

// Distance returns 1 at the goal and 1/d elsewhere, d being the Euclidean
// distance. Distinct lattice points are at least 1 apart, so the result is
// always in (0,1].
func Distance(pos, goal engine.Position) float64 {
	d := math.Hypot(float64(pos.Row-goal.Row), float64(pos.Col-goal.Col))
	if pos == goal || d < 1e-9 {
		return 1.0
	}
	if d < 1.0 {
		panic(fmt.Sprintf("solver: lattice distance %v below 1 between %v and %v", d, pos, goal))
	}
	return 1.0 / d
}
