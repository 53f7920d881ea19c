package solver

import (
	"log"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

// Stats counts what the last Solve did with the edges it saw.
type Stats struct {
	Popped    int `json:"popped"`
	Discarded int `json:"discarded"`
	Pruned    int `json:"pruned"`
	Accepted  int `json:"accepted"`
	Enqueued  int `json:"enqueued"`
}

// Option configures a Solver.
type Option func(*Solver)

// WithFrontier retains every non-dominated record per cell instead of one.
func WithFrontier() Option {
	return func(s *Solver) { s.frontier = true }
}

// WithPredecessorTieBreak makes equal-wellness candidates compare their path
// length with the predecessor's path instead of the occupant's. Because a
// candidate's path is always one longer than its predecessor's, ties never
// replace the occupant under this rule.
func WithPredecessorTieBreak() Option {
	return func(s *Solver) { s.predecessorTieBreak = true }
}

// WithLogger traces the traversal to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Solver) { s.logger = logger }
}

// Solver runs the wellness traversal over one game.
type Solver struct {
	game  *engine.Game
	table BestStates
	stats Stats

	frontier            bool
	predecessorTieBreak bool
	logger              *log.Logger
}

// New returns a solver for game. The game is read, never mutated.
func New(game *engine.Game, opts ...Option) *Solver {
	s := &Solver{game: game}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type edge struct {
	dir    engine.Direction
	target engine.Position
}

type workItem struct {
	edge
	pred *Record
}

func (s *Solver) newTable() BestStates {
	dims := s.game.Grid.Dims()
	if s.frontier {
		return NewFrontier(dims)
	}
	t := NewSingleSlot(dims)
	t.predecessorTieBreak = s.predecessorTieBreak
	return t
}

func (s *Solver) tracef(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Solve walks the game's state space from the start and returns the best
// record at the goal. It reports false when no living agent reaches the goal.
func (s *Solver) Solve() (*Record, bool) {
	dims := s.game.Grid.Dims()
	s.table = s.newTable()
	s.stats = Stats{}
	s.tracef("solve: dims %v, start %v, goal %v", dims, s.game.Start, s.game.Goal)

	startAgent := s.game.Agent.Clone()
	startAgent.Position = s.game.Start
	start := newStartRecord(startAgent)
	s.table.Offer(s.game.Start, start, nil)

	seen := make(map[edge]bool, 4*dims.Cells())
	var queue []workItem
	enqueue := func(from engine.Position, pred *Record) {
		for _, dir := range engine.ValidDirectionsFrom(dims, from) {
			next, _ := engine.Translate(from, dir)
			e := edge{dir: dir, target: next}
			if seen[e] {
				continue
			}
			queue = append(queue, workItem{edge: e, pred: pred})
			s.stats.Enqueued++
		}
	}
	enqueue(s.game.Start, start)

	for len(queue) > 0 {
		item := queue[0]
		queue[0] = workItem{}
		queue = queue[1:]
		s.stats.Popped++

		agent, err := s.game.SpeculativeMove(item.dir, item.pred.Agent)
		if err != nil {
			s.tracef("solve: discard %s->%v: %v", item.dir, item.target, err)
			s.stats.Discarded++
			continue
		}
		if agent == nil || agent.IsDead() {
			s.stats.Discarded++
			continue
		}

		candidate := item.pred.extend(agent, item.target)
		if s.table.Dominated(item.target, candidate) {
			s.stats.Pruned++
			continue
		}
		if s.table.Offer(item.target, candidate, item.pred) {
			s.stats.Accepted++
			s.tracef("solve: accept %v health %d moves %d wellness %.4f",
				candidate.Position(), agent.Health, agent.Moves, candidate.Wellness())
		}

		if seen[item.edge] {
			continue
		}
		seen[item.edge] = true
		enqueue(item.target, candidate)
	}

	s.tracef("solve: popped %d, discarded %d, pruned %d, accepted %d",
		s.stats.Popped, s.stats.Discarded, s.stats.Pruned, s.stats.Accepted)

	best := s.table.Best(s.game.Goal)
	return best, best != nil
}

// Stats returns the counters of the last Solve.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Table returns the table built by the last Solve, or nil before any solve.
func (s *Solver) Table() BestStates {
	return s.table
}

// Solve is a shorthand for New(game, opts...).Solve().
func Solve(game *engine.Game, opts ...Option) (*Record, bool) {
	return New(game, opts...).Solve()
}
