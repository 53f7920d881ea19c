// Command validate checks the scenario JSON files in a configs directory.
// It checks:
//   - JSON structure, including complete cost tables
//   - Grid consistency, size limits and terrain codes (. + * #)
//   - Start and goal inside the grid
//   - Agent vitals (positive maxima, values within them)
//   - Reachability: whether the solver brings the agent to the goal alive
//
// Unreachable goals are reported but only fail the run with --strict.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// Infos holds the summary lines printed for a valid file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Infos  []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single scenario file.
func validateConfig(filePath string, strict bool) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	}

	validateGrid(&result, &config)
	validateAgent(&result, config.Agent)

	if !result.Valid {
		return result
	}

	game, err := config.NewGame()
	if err != nil {
		result.fail("%v", err)
		return result
	}

	result.Infos = append(result.Infos,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Grid: %v", game.Grid.Dims()),
		fmt.Sprintf("✓ Start %v, goal %v", game.Start, game.Goal),
		fmt.Sprintf("✓ Agent: health %d/%d, moves %d/%d",
			game.Agent.Health, game.Agent.MaxHealth, game.Agent.Moves, game.Agent.MaxMoves),
	)

	rec, ok := solver.Solve(game)
	switch {
	case ok:
		result.Infos = append(result.Infos, fmt.Sprintf("✓ Goal reachable in %d moves (wellness %.3f)", len(rec.Path)-1, rec.Wellness()))
	case strict:
		result.fail("Goal %v is unreachable from %v", game.Goal, game.Start)
	default:
		result.Infos = append(result.Infos, "⚠ Goal unreachable")
	}

	return result
}

// validateGrid reports every malformed row and cell, not just the first.
func validateGrid(result *ValidationResult, config *engine.GameConfig) {
	if len(config.Grid) == 0 {
		result.fail("Grid is empty")
		return
	}

	width := len(config.Grid[0])
	rows := len(config.Grid)
	if rows > engine.MaxGridDimension || width < engine.MinGridDimension || width > engine.MaxGridDimension {
		result.fail("Grid %dx%d outside %d..%d", rows, width, engine.MinGridDimension, engine.MaxGridDimension)
	}

	for i, row := range config.Grid {
		if len(row) != width {
			result.fail("Inconsistent grid width at row %d: expected %d, got %d", i, width, len(row))
		}
		for j := 0; j < len(row); j++ {
			if _, err := engine.ParseTerrain(row[j]); err != nil {
				result.fail("Invalid character '%c' at position [%d,%d]", row[j], i, j)
			}
		}
	}

	dims := engine.Dimensions{Rows: rows, Cols: width}
	if !engine.IsValidAt(dims, config.Start) {
		result.fail("start_position %v outside the %v grid", config.Start, dims)
	}
	if !engine.IsValidAt(dims, config.Goal) {
		result.fail("goal_position %v outside the %v grid", config.Goal, dims)
	}
}

func validateAgent(result *ValidationResult, agent *engine.AgentConfig) {
	if agent == nil {
		return
	}
	if agent.MaxHealth <= 0 {
		result.fail("max_health must be positive, got %d", agent.MaxHealth)
	}
	if agent.MaxMoves <= 0 {
		result.fail("max_moves must be positive, got %d", agent.MaxMoves)
	}
	if agent.Health > agent.MaxHealth {
		result.fail("health (%d) cannot exceed max_health (%d)", agent.Health, agent.MaxHealth)
	}
	if agent.Moves > agent.MaxMoves {
		result.fail("moves (%d) cannot exceed max_moves (%d)", agent.Moves, agent.MaxMoves)
	}
}

// report prints one section per file and tells whether all were valid.
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Infos {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate every scenario file in a config directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat unreachable goals as errors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
			if err != nil {
				return fmt.Errorf("error finding config files: %w", err)
			}
			if len(files) == 0 {
				return cli.Exit(fmt.Sprintf("no config files in %s", cmd.String("dir")), 1)
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateConfig(file, cmd.Bool("strict")))
			}

			if !report(cmd.Root().Writer, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// main validates the scenario files and exits non-zero if any are invalid.
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
