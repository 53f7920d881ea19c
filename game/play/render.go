package play

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

const (
	AgentMark = '@'
	PathMark  = 'o'
)

// Render draws the board with the agent, the start and goal, and the vitals.
func Render(game *engine.Game) string {
	return RenderPath(game, nil)
}

// RenderPath is Render with the cells of path marked.
func RenderPath(game *engine.Game, path []engine.Position) string {
	onPath := make(map[engine.Position]bool, len(path))
	for _, pos := range path {
		onPath[pos] = true
	}

	var b strings.Builder
	a := game.Agent
	fmt.Fprintf(&b, "Position: %v | Health: %d/%d | Moves: %d/%d | Status: %s\n\n",
		a.Position, a.Health, a.MaxHealth, a.Moves, a.MaxMoves, game.Status())

	cells := game.Grid.Cells()
	cols := game.Grid.NumCols()
	for i, t := range cells {
		pos := engine.Position{Row: i / cols, Col: i % cols}
		switch {
		case pos == a.Position:
			b.WriteByte(AgentMark)
		case onPath[pos]:
			b.WriteByte(PathMark)
		default:
			b.WriteByte(t.Code())
		}
		if pos.Col == cols-1 {
			b.WriteByte('\n')
		}
	}

	fmt.Fprintf(&b, "\nS %v  G %v\n", game.Start, game.Goal)
	b.WriteString("Legend: . blank  + speeder  * lava  # mud  @ agent")
	if len(path) > 0 {
		b.WriteString("  o path")
	}
	b.WriteByte('\n')
	return b.String()
}
