package solver

import "github.com/wricardo/mcp-training/gridworld/game/engine"

// Record pairs an agent snapshot with the ordered positions visited to reach
// it. Tables replace records wholesale and never mutate one in place.
type Record struct {
	Agent *engine.Agent     `json:"agent"`
	Path  []engine.Position `json:"path"`
}

func newStartRecord(agent *engine.Agent) *Record {
	return &Record{Agent: agent.Clone(), Path: []engine.Position{agent.Position}}
}

// extend returns a new record for agent standing on target, reached through r.
func (r *Record) extend(agent *engine.Agent, target engine.Position) *Record {
	path := make([]engine.Position, len(r.Path), len(r.Path)+1)
	copy(path, r.Path)
	return &Record{Agent: agent, Path: append(path, target)}
}

// Position returns where the recorded agent stands.
func (r *Record) Position() engine.Position {
	return r.Agent.Position
}

// Wellness returns the wellness metric of the recorded agent.
func (r *Record) Wellness() float64 {
	// Agent invariants keep both maxima positive.
	w, _ := Wellness(r.Agent.Health, r.Agent.MaxHealth, r.Agent.Moves, r.Agent.MaxMoves)
	return w
}

// Proximity returns the distance metric from the recorded agent to goal.
func (r *Record) Proximity(goal engine.Position) float64 {
	return Distance(r.Position(), goal)
}

// UtilityScore weighs wellness and proximity equally. Traversal ranking does
// not consult it.
func (r *Record) UtilityScore(goal engine.Position) float64 {
	return 0.5*r.Wellness() + 0.5*r.Proximity(goal)
}

// Dominates reports whether r has strictly more health and strictly more
// moves than other.
func (r *Record) Dominates(other *Record) bool {
	return r.Agent.Health > other.Agent.Health && r.Agent.Moves > other.Agent.Moves
}

// Directions converts the path into the moves that replay it.
func (r *Record) Directions() []engine.Direction {
	dirs := make([]engine.Direction, 0, len(r.Path))
	for i := 1; i < len(r.Path); i++ {
		from, to := r.Path[i-1], r.Path[i]
		for _, dir := range engine.Directions {
			if next, _ := engine.Translate(from, dir); next == to {
				dirs = append(dirs, dir)
				break
			}
		}
	}
	return dirs
}
