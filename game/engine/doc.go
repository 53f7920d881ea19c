// Package engine provides the core state model for the Gridworld game.
//
// The engine package implements the game mechanics including:
//   - Terrain kinds and their textual codes
//   - Per-terrain health and move costs
//   - An immutable row-major terrain grid with a rows-of-strings codec
//   - Agent vitals (health, moves) and the alive/dead predicates
//   - Orthogonal move geometry and the move transition itself
//
// Core Types:
//
// Game composes a Grid, an Agent, a Costs table and the start/goal
// positions. Move mutates the agent; SpeculativeMove computes the same
// transition on a copy and never touches the game.
//
// Usage:
//
//	grid, err := engine.GridFromRows([]string{".*", "+#"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	start := engine.Position{Row: 0, Col: 0}
//	goal := engine.Position{Row: 1, Col: 1}
//	game, err := engine.NewGame(grid, engine.NewAgent(start), engine.StandardCosts(), start, goal)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	moved, err := game.Move(engine.Down)
//
// Game Rules:
//
// Stepping onto a cell applies that cell's terrain deltas to the agent's
// health and moves. Nothing is clamped: vitals can go negative, and the
// agent is dead once either one is no longer positive. The game is won when
// the agent stands on the goal alive, and lost whenever the agent is dead.
package engine
