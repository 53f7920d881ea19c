package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultHealth = 200
	DefaultMoves  = 450

	// Validation constants
	MinGridDimension = 1
	MaxGridDimension = 100
	MaxBulkMoves     = 100
)

// Position is a (row, column) pair. Rows grow downward, columns rightward.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// MarshalJSON encodes a position as [row, col].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// UnmarshalJSON decodes a [row, col] pair.
func (p *Position) UnmarshalJSON(data []byte) error {
	row, col, err := decodePair(data)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	p.Row, p.Col = row, col
	return nil
}

// Dimensions holds the row and column counts of a grid.
type Dimensions struct {
	Rows int
	Cols int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Rows, d.Cols)
}

// Cells returns rows * cols.
func (d Dimensions) Cells() int {
	return d.Rows * d.Cols
}

// MarshalJSON encodes dimensions as [rows, cols].
func (d Dimensions) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{d.Rows, d.Cols})
}

// UnmarshalJSON decodes a [rows, cols] pair.
func (d *Dimensions) UnmarshalJSON(data []byte) error {
	rows, cols, err := decodePair(data)
	if err != nil {
		return fmt.Errorf("dimensions: %w", err)
	}
	d.Rows, d.Cols = rows, cols
	return nil
}

func decodePair(data []byte) (int, int, error) {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, 0, err
	}
	if len(v) != 2 {
		return 0, 0, fmt.Errorf("expected 2 values, got %d", len(v))
	}
	return v[0], v[1], nil
}

// Direction is one of the four cardinal moves.
type Direction string

const (
	Up    Direction = "U"
	Down  Direction = "D"
	Left  Direction = "L"
	Right Direction = "R"
)

// Directions lists every direction in the order traversals consider them.
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection accepts any string starting with u, d, l or r
// (case-insensitive), so "U", "up" and "Right" all parse.
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDirection)
	}
	d := Direction(strings.ToUpper(s[:1]))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Name returns the lowercase long form ("up", "down", ...).
func (d Direction) Name() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return string(d)
}
