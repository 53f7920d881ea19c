package play

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

const prompt = "> "

const helpText = `Commands:
  u, up / d, down / l, left / r, right   move one cell
  solve                                  show the best path from here
  reset                                  back to the start with full vitals
  help                                   this text
  quit                                   leave the game
`

var moveWords = map[string]engine.Direction{
	"u": engine.Up, "up": engine.Up,
	"d": engine.Down, "down": engine.Down,
	"l": engine.Left, "left": engine.Left,
	"r": engine.Right, "right": engine.Right,
}

// printer remembers the first write error so the loop can check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Loop plays game interactively, reading one command per line from in and
// writing the board to out. It returns the final status when the game is won
// or lost, the player quits or in is exhausted. Solver options apply to the
// solve command.
func Loop(game *engine.Game, in io.Reader, out io.Writer, opts ...solver.Option) (string, error) {
	p := &printer{w: out}
	scanner := bufio.NewScanner(in)

	p.printf("%s\n%s", Render(game), prompt)

	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch line {
		case "":
		case "q", "quit", "exit":
			p.printf("Bye.\n")
			return game.Status(), p.err
		case "h", "help", "?":
			p.printf("%s", helpText)
		case "reset":
			game.Reset()
			p.printf("%s", Render(game))
		case "solve":
			p.printf("%s", hint(game, opts...))
		default:
			dir, ok := moveWords[line]
			if !ok {
				p.printf("unknown command: %s (try help)\n", line)
				break
			}
			moved, err := game.Move(dir)
			if err != nil {
				return game.Status(), err
			}
			if !moved {
				p.printf("direction had no effect: %s\n", dir)
				break
			}
			p.printf("%s", Render(game))
		}

		switch game.Status() {
		case engine.StatusWin:
			p.printf("You reached the goal!\n")
			return engine.StatusWin, p.err
		case engine.StatusLoss:
			p.printf("The agent is dead.\n")
			return engine.StatusLoss, p.err
		}

		if p.err != nil {
			return game.Status(), p.err
		}
		p.printf("%s", prompt)
	}

	if err := scanner.Err(); err != nil {
		return game.Status(), err
	}
	p.printf("\n")
	return game.Status(), p.err
}

// hint solves from the agent's current cell and vitals.
func hint(game *engine.Game, opts ...solver.Option) string {
	from := game.Clone()
	from.Start = from.Agent.Position

	rec, ok := solver.Solve(from, opts...)
	if !ok {
		return "Goal unreachable from here.\n"
	}

	dirs := rec.Directions()
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, string(d))
	}

	return fmt.Sprintf("Best path: %s (health %d/%d, moves %d/%d, wellness %.3f)\n%s",
		strings.Join(names, " "),
		rec.Agent.Health, rec.Agent.MaxHealth, rec.Agent.Moves, rec.Agent.MaxMoves,
		rec.Wellness(), RenderPath(game, rec.Path))
}
