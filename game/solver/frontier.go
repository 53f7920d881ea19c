package solver

import "github.com/wricardo/mcp-training/gridworld/game/engine"

// Frontier keeps, per cell, every record that no other retained record
// strictly dominates. Best picks by wellness, then shorter path, then
// insertion order.
type Frontier struct {
	dims  engine.Dimensions
	cells [][]*Record
}

// NewFrontier returns an empty frontier table for dims.
func NewFrontier(dims engine.Dimensions) *Frontier {
	return &Frontier{dims: dims, cells: make([][]*Record, dims.Cells())}
}

func (f *Frontier) index(pos engine.Position) int {
	return pos.Row*f.dims.Cols + pos.Col
}

func (f *Frontier) At(pos engine.Position) []*Record {
	held := f.cells[f.index(pos)]
	if len(held) == 0 {
		return nil
	}
	out := make([]*Record, 0, len(held))
	best := f.Best(pos)
	out = append(out, best)
	for _, rec := range held {
		if rec != best {
			out = append(out, rec)
		}
	}
	return out
}

func (f *Frontier) Best(pos engine.Position) *Record {
	var best *Record
	for _, rec := range f.cells[f.index(pos)] {
		if best == nil || better(rec, best) {
			best = rec
		}
	}
	return best
}

func better(a, b *Record) bool {
	wa, wb := a.Wellness(), b.Wellness()
	if wa != wb {
		return wa > wb
	}
	return len(a.Path) < len(b.Path)
}

func (f *Frontier) Dominated(pos engine.Position, rec *Record) bool {
	for _, held := range f.cells[f.index(pos)] {
		if held.Dominates(rec) {
			return true
		}
	}
	return false
}

// Offer retains rec unless it is dominated or an equal-vitals record with a
// path no longer than rec's is already held. Records rec dominates are
// dropped.
func (f *Frontier) Offer(pos engine.Position, rec, _ *Record) bool {
	i := f.index(pos)
	held := f.cells[i]
	for _, h := range held {
		if h.Dominates(rec) {
			return false
		}
		if sameVitals(h, rec) && len(h.Path) <= len(rec.Path) {
			return false
		}
	}

	kept := held[:0]
	for _, h := range held {
		if rec.Dominates(h) || (sameVitals(h, rec) && len(rec.Path) < len(h.Path)) {
			continue
		}
		kept = append(kept, h)
	}
	f.cells[i] = append(kept, rec)
	return true
}

func sameVitals(a, b *Record) bool {
	return a.Agent.Health == b.Agent.Health && a.Agent.Moves == b.Agent.Moves
}
