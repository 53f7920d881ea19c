package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridworld/game/config"
	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/play"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

// maxGenerateAttempts bounds the seed search of generate --solvable.
const maxGenerateAttempts = 1000

var errUnreachable = errors.New("goal unreachable")

func seedFrom(cmd *cli.Command) int64 {
	if seed := cmd.Int64("seed"); seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// gameFromFlags loads --config from the config directory, or builds a random
// grid from --rows, --cols and --seed.
func gameFromFlags(cmd *cli.Command) (*engine.Game, error) {
	if id := cmd.String("config"); id != "" {
		manager, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return nil, err
		}
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", id, err)
		}
		return cfg.NewGame()
	}

	dims := engine.Dimensions{Rows: cmd.Int("rows"), Cols: cmd.Int("cols")}
	return engine.NewRandomGame(dims, rand.New(rand.NewSource(seedFrom(cmd))))
}

func solverOptions(cmd *cli.Command) []solver.Option {
	var opts []solver.Option
	if cmd.Bool("frontier") {
		opts = append(opts, solver.WithFrontier())
	}
	return opts
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	game, err := gameFromFlags(cmd)
	if err != nil {
		return err
	}
	return printSolution(cmd.Root().Writer, game, solverOptions(cmd)...)
}

func printSolution(w io.Writer, game *engine.Game, opts ...solver.Option) error {
	s := solver.New(game, opts...)
	rec, ok := s.Solve()
	stats := s.Stats()

	if !ok {
		fmt.Fprint(w, play.Render(game))
		fmt.Fprintf(w, "\nSearch: %d popped, %d accepted, %d pruned\n", stats.Popped, stats.Accepted, stats.Pruned)
		return errUnreachable
	}

	dirs := make([]string, 0, len(rec.Path))
	for _, d := range rec.Directions() {
		dirs = append(dirs, string(d))
	}

	fmt.Fprint(w, play.RenderPath(game, rec.Path))
	fmt.Fprintf(w, "\nBest path (%d moves): %s\n", len(dirs), strings.Join(dirs, " "))
	fmt.Fprintf(w, "Arrives with health %d/%d, moves %d/%d\n",
		rec.Agent.Health, rec.Agent.MaxHealth, rec.Agent.Moves, rec.Agent.MaxMoves)
	fmt.Fprintf(w, "Wellness: %.3f | Utility: %.3f\n", rec.Wellness(), rec.UtilityScore(game.Goal))
	fmt.Fprintf(w, "Search: %d popped, %d accepted, %d pruned\n", stats.Popped, stats.Accepted, stats.Pruned)
	return nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	game, err := gameFromFlags(cmd)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if r := cmd.Root().Reader; r != nil {
		in = r
	}

	status, err := play.Loop(game, in, cmd.Root().Writer, solverOptions(cmd)...)
	if err != nil {
		return err
	}
	if status == engine.StatusLoss {
		return cli.Exit("", 1)
	}
	return nil
}

// generateConfig builds a random scenario. With solvable it retries
// successive seeds until the solver reaches the goal.
func generateConfig(dims engine.Dimensions, seed int64, solvable bool, opts ...solver.Option) (*engine.GameConfig, int64, error) {
	attempts := 1
	if solvable {
		attempts = maxGenerateAttempts
	}

	for i := 0; i < attempts; i++ {
		game, err := engine.NewRandomGame(dims, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, 0, err
		}
		if solvable {
			if _, ok := solver.Solve(game, opts...); !ok {
				seed++
				continue
			}
		}

		return &engine.GameConfig{
			Name:        fmt.Sprintf("random-%v-%d", dims, seed),
			Description: fmt.Sprintf("Random %v grid from seed %d", dims, seed),
			Grid:        game.Grid.Rows(),
			Start:       game.Start,
			Goal:        game.Goal,
		}, seed, nil
	}

	return nil, 0, fmt.Errorf("no solvable %v grid in %d seeds: %w", dims, attempts, errUnreachable)
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	dims := engine.Dimensions{Rows: cmd.Int("rows"), Cols: cmd.Int("cols")}

	cfg, _, err := generateConfig(dims, seedFrom(cmd), cmd.Bool("solvable"), solverOptions(cmd)...)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.Root().Writer, string(data))
		return nil
	}

	cfg.Name = name
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	if err := manager.SaveConfig(name, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Saved %s (%v) to %s\n", name, dims, cmd.String("config-dir"))
	return nil
}
