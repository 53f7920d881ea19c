// Package config provides scenario management for the Gridworld game.
//
// The config package handles:
//   - Loading scenarios from JSON files
//   - Scenario validation (the scenario must build a valid game)
//   - Default scenario management
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are stored as JSON files in the configs directory. Each scenario
// defines:
//   - The grid as rows of terrain codes (. blank, + speeder, * lava, # mud)
//   - Start and goal positions as [row, col]
//   - Optional agent vitals (defaults: health 200, moves 450)
//   - Optional cost table (defaults to the standard costs)
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenario, err := manager.LoadConfig("lava_moat")
//	if err != nil {
//		log.Fatal(err)
//	}
//	game, err := scenario.NewGame()
//
// A scenario id is its file name without the .json extension. When no
// default.json exists, the first valid scenario becomes the default, and an
// empty directory falls back to a built-in 2x2 demo.
package config
