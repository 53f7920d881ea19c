package solver

import "github.com/wricardo/mcp-training/gridworld/game/engine"

// BestStates holds, per grid cell, the best records found so far during one
// solve. The traversal only talks to this interface, so the retention policy
// can change without touching the loop.
type BestStates interface {
	// At returns every record retained at pos, best first.
	At(pos engine.Position) []*Record
	// Best returns the preferred record at pos, or nil when none was accepted.
	Best(pos engine.Position) *Record
	// Dominated reports whether a retained record at pos strictly dominates rec.
	Dominated(pos engine.Position, rec *Record) bool
	// Offer proposes rec, reached through pred, for pos. It reports whether
	// rec was retained.
	Offer(pos engine.Position, rec, pred *Record) bool
}

// SingleSlot keeps one record per cell. A candidate replaces the occupant
// when the cell is empty, when it has strictly higher wellness, or when
// wellness ties and its path is strictly shorter.
type SingleSlot struct {
	dims  engine.Dimensions
	cells []*Record

	// compare tied paths against the predecessor instead of the occupant
	predecessorTieBreak bool
}

// NewSingleSlot returns an empty single-slot table for dims.
func NewSingleSlot(dims engine.Dimensions) *SingleSlot {
	return &SingleSlot{dims: dims, cells: make([]*Record, dims.Cells())}
}

func (t *SingleSlot) index(pos engine.Position) int {
	return pos.Row*t.dims.Cols + pos.Col
}

func (t *SingleSlot) At(pos engine.Position) []*Record {
	if rec := t.cells[t.index(pos)]; rec != nil {
		return []*Record{rec}
	}
	return nil
}

func (t *SingleSlot) Best(pos engine.Position) *Record {
	return t.cells[t.index(pos)]
}

func (t *SingleSlot) Dominated(pos engine.Position, rec *Record) bool {
	current := t.cells[t.index(pos)]
	return current != nil && current.Dominates(rec)
}

func (t *SingleSlot) Offer(pos engine.Position, rec, pred *Record) bool {
	i := t.index(pos)
	current := t.cells[i]
	if current == nil {
		t.cells[i] = rec
		return true
	}

	w, cw := rec.Wellness(), current.Wellness()
	if w > cw {
		t.cells[i] = rec
		return true
	}
	ref := len(current.Path)
	if t.predecessorTieBreak && pred != nil {
		ref = len(pred.Path)
	}
	if w == cw && len(rec.Path) < ref {
		t.cells[i] = rec
		return true
	}
	return false
}
