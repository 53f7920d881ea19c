package engine

import "fmt"

// Neighbors returns the four orthogonal positions (up, down, left, right)
// without any bounds check.
func Neighbors(pos Position) []Position {
	return []Position{
		{Row: pos.Row - 1, Col: pos.Col},
		{Row: pos.Row + 1, Col: pos.Col},
		{Row: pos.Row, Col: pos.Col - 1},
		{Row: pos.Row, Col: pos.Col + 1},
	}
}

// Neighborhood returns the in-bounds neighbors of pos.
func Neighborhood(dims Dimensions, pos Position) []Position {
	hood := make([]Position, 0, 4)
	for _, n := range Neighbors(pos) {
		if IsValidAt(dims, n) {
			hood = append(hood, n)
		}
	}
	return hood
}

// IsValidAt reports whether pos lies inside dims.
func IsValidAt(dims Dimensions, pos Position) bool {
	return pos.Row >= 0 && pos.Row < dims.Rows && pos.Col >= 0 && pos.Col < dims.Cols
}

// Translate shifts pos one step along dir.
func Translate(pos Position, dir Direction) (Position, error) {
	switch dir {
	case Up:
		return Position{Row: pos.Row - 1, Col: pos.Col}, nil
	case Down:
		return Position{Row: pos.Row + 1, Col: pos.Col}, nil
	case Left:
		return Position{Row: pos.Row, Col: pos.Col - 1}, nil
	case Right:
		return Position{Row: pos.Row, Col: pos.Col + 1}, nil
	}
	return pos, fmt.Errorf("%w: %q", ErrInvalidDirection, string(dir))
}

// ValidDirectionsFrom returns, in Up, Down, Left, Right order, the directions
// that keep an agent at pos on the grid.
func ValidDirectionsFrom(dims Dimensions, pos Position) []Direction {
	valid := make([]Direction, 0, 4)
	for _, dir := range Directions {
		next, _ := Translate(pos, dir)
		if IsValidAt(dims, next) {
			valid = append(valid, dir)
		}
	}
	return valid
}

// step applies the transition for dir to agent in place. It reports false,
// leaving agent untouched, when the destination is off the grid.
func (g *Game) step(agent *Agent, dir Direction) (bool, error) {
	dest, err := Translate(agent.Position, dir)
	if err != nil {
		return false, err
	}
	inHood := false
	for _, n := range Neighborhood(g.Grid.Dims(), agent.Position) {
		if n == dest {
			inHood = true
			break
		}
	}
	if !inHood {
		return false, nil
	}

	terrain, err := g.Grid.At(dest)
	if err != nil {
		return false, err
	}
	health, err := g.Costs.HealthCostOf(terrain)
	if err != nil {
		return false, err
	}
	moves, err := g.Costs.MoveCostOf(terrain)
	if err != nil {
		return false, err
	}

	agent.Health += health
	agent.Moves += moves
	agent.Position = dest
	return true, nil
}
