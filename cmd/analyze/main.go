// Command analyze prints quick, human-readable reports about the scenario
// files in a configs directory. For each scenario it summarizes dimensions,
// agent vitals, the terrain histogram, start and goal, and whether the solver
// can bring the agent to the goal alive.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridworld/game/config"
	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "report on every scenario in a config directory",
		ArgsUsage: "[config-id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "frontier",
				Usage: "keep every non-dominated state per cell while solving",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var opts []solver.Option
			if cmd.Bool("frontier") {
				opts = append(opts, solver.WithFrontier())
			}
			return analyzeDir(cmd.Root().Writer, cmd.String("dir"), cmd.Args().Slice(), opts...)
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// analyzeDir reports on the scenarios named by ids, or on all of them.
func analyzeDir(w io.Writer, dir string, ids []string, opts ...solver.Option) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			ids = append(ids, info.ConfigID)
		}
	}

	for _, id := range ids {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", id)
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			fmt.Fprintf(w, "Error loading config: %v\n", err)
			continue
		}
		if err := analyzeConfig(w, cfg, opts...); err != nil {
			fmt.Fprintf(w, "Error building game: %v\n", err)
		}
	}
	return nil
}

func analyzeConfig(w io.Writer, cfg *engine.GameConfig, opts ...solver.Option) error {
	game, err := cfg.NewGame()
	if err != nil {
		return err
	}

	a := game.Agent
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Grid Size: %v\n", game.Grid.Dims())
	fmt.Fprintf(w, "Agent: health %d/%d, moves %d/%d\n", a.Health, a.MaxHealth, a.Moves, a.MaxMoves)
	fmt.Fprintf(w, "Start: %v  Goal: %v  (Manhattan distance %d)\n",
		game.Start, game.Goal, engine.ManhattanDistance(game.Start, game.Goal))

	hist := engine.TerrainHistogram(game.Grid)
	fmt.Fprint(w, "Terrain:")
	for _, t := range engine.Terrains() {
		fmt.Fprintf(w, " %s=%d", t.Name(), hist[t])
	}
	fmt.Fprintln(w)

	if a.Moves <= engine.ManhattanDistance(game.Start, game.Goal) && !hasSpeeder(hist) {
		fmt.Fprintf(w, "⚠️  WARNING: the goal is further than the agent's moves allow\n")
	}

	s := solver.New(game, opts...)
	rec, ok := s.Solve()
	stats := s.Stats()
	fmt.Fprintf(w, "Reached %d of %d cells alive\n", reachedCells(s.Table(), game.Grid.Dims()), game.Grid.Dims().Cells())
	if !ok {
		fmt.Fprintf(w, "⚠️  CRITICAL: goal unreachable (%d states popped)\n", stats.Popped)
		return nil
	}

	fmt.Fprintf(w, "✅ Solvable in %d moves, arriving with health %d/%d, moves %d/%d (wellness %.3f)\n",
		len(rec.Path)-1, rec.Agent.Health, rec.Agent.MaxHealth, rec.Agent.Moves, rec.Agent.MaxMoves, rec.Wellness())
	fmt.Fprintf(w, "   Search: %d popped, %d accepted, %d pruned, %d discarded\n",
		stats.Popped, stats.Accepted, stats.Pruned, stats.Discarded)
	return nil
}

// reachedCells counts the cells holding at least one living record.
func reachedCells(table solver.BestStates, dims engine.Dimensions) int {
	reached := 0
	for row := 0; row < dims.Rows; row++ {
		for col := 0; col < dims.Cols; col++ {
			if table.Best(engine.Position{Row: row, Col: col}) != nil {
				reached++
			}
		}
	}
	return reached
}

// hasSpeeder reports whether free moves can stretch the move budget.
func hasSpeeder(hist map[engine.Terrain]int) bool {
	return hist[engine.Speeder] > 0
}
