package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
)

// Grid is an immutable row-major array of terrains.
type Grid struct {
	dims  Dimensions
	cells []Terrain
}

// NewGrid builds a grid from dimensions and a row-major cell sequence.
func NewGrid(dims Dimensions, cells []Terrain) (*Grid, error) {
	if dims.Cells() != len(cells) {
		return nil, fmt.Errorf("%w: dimensions=%v, len=%d", ErrCellCount, dims, len(cells))
	}
	if dims.Rows < MinGridDimension {
		return nil, fmt.Errorf("%w: non-positive row dim: %d", ErrInvalidDimensions, dims.Rows)
	}
	if dims.Cols < MinGridDimension {
		return nil, fmt.Errorf("%w: non-positive col dim: %d", ErrInvalidDimensions, dims.Cols)
	}
	for i, t := range cells {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: cell %d holds %d", ErrUnknownTerrain, i, uint8(t))
		}
	}
	return &Grid{dims: dims, cells: append([]Terrain(nil), cells...)}, nil
}

// GridFromRows parses one string per row, one terrain code per character.
func GridFromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: non-positive row count: 0", ErrInvalidDimensions)
	}
	cols := len(rows[0])
	cells := make([]Terrain, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: inconsistent row len: row %d has %d, want %d", ErrInvalidDimensions, i, len(row), cols)
		}
		for j := 0; j < len(row); j++ {
			t, err := ParseTerrain(row[j])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			cells = append(cells, t)
		}
	}
	return NewGrid(Dimensions{Rows: len(rows), Cols: cols}, cells)
}

// ParseGrid splits s on whitespace and parses each field as a row.
func ParseGrid(s string) (*Grid, error) {
	return GridFromRows(strings.Fields(s))
}

// RandomGrid fills a grid with terrains drawn uniformly from rng.
func RandomGrid(dims Dimensions, rng *rand.Rand) (*Grid, error) {
	if rng == nil {
		return nil, ErrNilRandomSource
	}
	if dims.Rows < MinGridDimension || dims.Cols < MinGridDimension {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimensions, dims)
	}
	cells := make([]Terrain, dims.Cells())
	for i := range cells {
		cells[i] = terrains[rng.Intn(len(terrains))]
	}
	return NewGrid(dims, cells)
}

// Dims returns the grid dimensions.
func (g *Grid) Dims() Dimensions {
	return g.dims
}

func (g *Grid) NumCols() int { return g.dims.Cols }

// At returns the terrain at pos.
func (g *Grid) At(pos Position) (Terrain, error) {
	if pos.Row < 0 || pos.Row >= g.dims.Rows {
		return 0, fmt.Errorf("%w: row index %d not in [0,%d)", ErrOutOfBounds, pos.Row, g.dims.Rows)
	}
	if pos.Col < 0 || pos.Col >= g.dims.Cols {
		return 0, fmt.Errorf("%w: col index %d not in [0,%d)", ErrOutOfBounds, pos.Col, g.dims.Cols)
	}
	return g.cells[pos.Row*g.dims.Cols+pos.Col], nil
}

// Cells returns a copy of the row-major cell sequence.
func (g *Grid) Cells() []Terrain {
	return append([]Terrain(nil), g.cells...)
}

// Rows renders the grid as one string of terrain codes per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.dims.Rows)
	var b strings.Builder
	for r := 0; r < g.dims.Rows; r++ {
		b.Reset()
		for _, t := range g.cells[r*g.dims.Cols : (r+1)*g.dims.Cols] {
			b.WriteByte(t.Code())
		}
		rows[r] = b.String()
	}
	return rows
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.dims != other.dims {
		return false
	}
	for i, t := range g.cells {
		if other.cells[i] != t {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the grid as its rows of terrain codes.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	parsed, err := GridFromRows(rows)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
