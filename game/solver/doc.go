// Package solver finds the best way to reach the goal of a game without the
// agent dying.
//
// The solver package implements:
//   - Wellness and distance metrics over agent vitals and positions
//   - Records pairing an agent snapshot with the path that produced it
//   - Best-state tables (single slot per cell, or a per-cell frontier)
//   - A FIFO worklist traversal with dominance pruning and a seen-set
//
// Traversal:
//
// The state space is the set of (direction of arrival, position) edges. The
// worklist is seeded from the start's valid directions. Each popped edge is
// applied speculatively to its predecessor's agent; dead or off-grid results
// are discarded, results strictly dominated by the cell's occupant are
// pruned, and the rest are offered to the table. An edge expands at most
// once, so the worklist drains after at most 4 x rows x cols expansions.
//
// Usage:
//
//	s := solver.New(game)
//	best, ok := s.Solve()
//	if !ok {
//		log.Printf("goal unreachable")
//	}
//	log.Printf("path %v, wellness %.3f", best.Path, best.Wellness())
//
// Concurrency:
//
// A Solver builds a fresh table on every Solve and does not mutate the game.
// Solves over different games may run concurrently; a single Solver must not.
package solver
