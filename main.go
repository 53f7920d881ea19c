// Command gridworld serves the grid world game and runs it offline.
//
// Commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, the
//     WebSocket feed and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if
//     none is available
//  3. "solve", "play" and "generate" work on a single game without a server
//
// Flags can also be set from the environment or a .env file, and the server
// can optionally be exposed through an ngrok tunnel during development.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridworld/game/config"
	"github.com/wricardo/mcp-training/gridworld/game/service"
	"github.com/wricardo/mcp-training/gridworld/game/session"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
	"github.com/wricardo/mcp-training/gridworld/game/store"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Grid World Server"
)

const (
	cleanupInterval = time.Hour
	cacheMaxIdle    = 24 * time.Hour
)

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "store",
			Value:   "memory",
			Usage:   "game store backend: memory, file, sqlite or postgres",
			Sources: cli.EnvVars("STORE"),
		},
		&cli.StringFlag{
			Name:    "dsn",
			Usage:   "store location: directory (file), database path (sqlite) or connection string (postgres)",
			Sources: cli.EnvVars("DATABASE_URL", "STORE_DSN"),
		},
		&cli.Int64Flag{
			Name:    "seed",
			Usage:   "seed for random grids (0 picks one from the clock)",
			Sources: cli.EnvVars("SEED"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "expose the server through an ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

// gameFlags select the game for the offline commands. The random grid also
// honors the global --seed.
func gameFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "scenario id from the config directory",
		},
		&cli.IntFlag{
			Name:  "rows",
			Value: 10,
			Usage: "rows of a random grid",
		},
		&cli.IntFlag{
			Name:  "cols",
			Value: 10,
			Usage: "columns of a random grid",
		},
		&cli.BoolFlag{
			Name:  "frontier",
			Usage: "keep every non-dominated state per cell while solving",
		},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "gridworld",
		Usage:   AppName,
		Version: Version,
		Flags: append(serverFlags(),
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with API, WebSocket and MCP endpoint",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "run an MCP stdio server, with an internal HTTP API if none is listening",
				Action: runStdioMCP,
			},
			{
				Name:   "solve",
				Usage:  "solve one game and print the best path",
				Flags:  gameFlags(),
				Action: runSolve,
			},
			{
				Name:   "play",
				Usage:  "play one game in the terminal",
				Flags:  gameFlags(),
				Action: runPlay,
			},
			{
				Name:  "generate",
				Usage: "generate a random scenario file",
				Flags: append(gameFlags(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "scenario name; when set the scenario is saved into the config directory",
					},
					&cli.BoolFlag{
						Name:  "solvable",
						Usage: "retry seeds until the goal is reachable",
					},
				),
				Action: runGenerate,
			},
		},
	}
}

// main loads .env, then hands over to the command line.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// services is the wiring shared by serve and mcp.
type services struct {
	game    service.GameService
	games   *session.Manager
	configs *config.Manager
}

func (s *services) Close() error {
	return s.games.Store().Close()
}

// initializeServices wires the store, the session cache, the config manager
// and the game service.
func initializeServices(ctx context.Context, cmd *cli.Command) (*services, error) {
	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	backend, err := store.NewStore(cmd.String("store"), cmd.String("dsn"))
	if err != nil {
		return nil, err
	}
	if err := backend.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize %s store: %w", cmd.String("store"), err)
	}

	games := session.NewManager(backend)

	var opts []service.Option
	if seed := cmd.Int64("seed"); seed != 0 {
		opts = append(opts, service.WithSeed(seed))
	}
	if cmd.Bool("debug") {
		opts = append(opts, service.WithSolverOptions(solver.WithLogger(log.Default())))
	}

	log.Printf("Using %s store, configs from %s", cmd.String("store"), cmd.String("config-dir"))

	return &services{
		game:    service.NewGameService(games, configManager, opts...),
		games:   games,
		configs: configManager,
	}, nil
}

// configReloadRoutine drops the cached scenarios on every signal so edited
// files are picked up without a restart.
func configReloadRoutine(ctx context.Context, signals <-chan os.Signal, configs *config.Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			if err := configs.RefreshCache(); err != nil {
				log.Printf("Failed to reload configs: %v", err)
				continue
			}
			log.Printf("Reloaded configs on %v", sig)
		}
	}
}

// cacheCleanupRoutine periodically drops cached games that have not been
// accessed within the retention window. Stored rows are kept.
func cacheCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpired(cacheMaxIdle); removed > 0 {
				log.Printf("Cleaned up %d idle cached games", removed)
			}
		}
	}
}
