package engine

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"U", Up, false},
		{"up", Up, false},
		{"d", Down, false},
		{"Left", Left, false},
		{" r ", Right, false},
		{"", "", true},
		{"x", "", true},
		{"north", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDirection) {
					t.Errorf("Expected ErrInvalidDirection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPositionJSON(t *testing.T) {
	data, err := json.Marshal(Position{Row: 2, Col: 5})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[2,5]" {
		t.Errorf("Expected [2,5], got %s", data)
	}

	var p Position
	if err := json.Unmarshal([]byte("[4,1]"), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p != (Position{Row: 4, Col: 1}) {
		t.Errorf("Expected (4,1), got %v", p)
	}

	if err := json.Unmarshal([]byte("[1,2,3]"), &p); err == nil {
		t.Error("Expected error for three-element position")
	}
}

func TestTerrainCodes(t *testing.T) {
	for _, terrain := range Terrains() {
		parsed, err := ParseTerrain(terrain.Code())
		if err != nil {
			t.Fatalf("ParseTerrain(%q) failed: %v", terrain.Code(), err)
		}
		if parsed != terrain {
			t.Errorf("Expected %v, got %v", terrain, parsed)
		}

		byName, err := TerrainByName(terrain.Name())
		if err != nil {
			t.Fatalf("TerrainByName(%q) failed: %v", terrain.Name(), err)
		}
		if byName != terrain {
			t.Errorf("Expected %v, got %v", terrain, byName)
		}
	}

	if _, err := ParseTerrain('x'); !errors.Is(err, ErrUnknownTerrain) {
		t.Errorf("Expected ErrUnknownTerrain, got %v", err)
	}
	if Terrain(9).Valid() {
		t.Error("Expected Terrain(9) to be invalid")
	}
}

func TestNewCostsMissingTerrains(t *testing.T) {
	health := map[Terrain]int{Blank: 0, Speeder: -5}
	moves := StandardCosts().MoveCosts()

	_, err := NewCosts(health, moves)
	if !errors.Is(err, ErrMissingTerrain) {
		t.Fatalf("Expected ErrMissingTerrain, got %v", err)
	}
	want := "missing terrain costs: missing health terrains: lava, mud"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	_, err = NewCosts(StandardCosts().HealthCosts(), map[Terrain]int{})
	if !errors.Is(err, ErrMissingTerrain) {
		t.Errorf("Expected ErrMissingTerrain for empty move table, got %v", err)
	}
}

func TestStandardCosts(t *testing.T) {
	costs := StandardCosts()
	tests := []struct {
		terrain Terrain
		health  int
		moves   int
	}{
		{Blank, 0, -1},
		{Speeder, -5, 0},
		{Lava, -50, -10},
		{Mud, -10, -5},
	}

	for _, tt := range tests {
		t.Run(tt.terrain.Name(), func(t *testing.T) {
			h, err := costs.HealthCostOf(tt.terrain)
			if err != nil {
				t.Fatalf("HealthCostOf failed: %v", err)
			}
			m, err := costs.MoveCostOf(tt.terrain)
			if err != nil {
				t.Fatalf("MoveCostOf failed: %v", err)
			}
			if h != tt.health || m != tt.moves {
				t.Errorf("Expected (%d,%d), got (%d,%d)", tt.health, tt.moves, h, m)
			}
		})
	}

	if _, err := costs.HealthCostOf(Terrain(42)); !errors.Is(err, ErrUnknownTerrain) {
		t.Errorf("Expected ErrUnknownTerrain, got %v", err)
	}
}

func TestCostsJSON(t *testing.T) {
	data, err := json.Marshal(StandardCosts())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal into map failed: %v", err)
	}
	want := map[string]map[string]int{
		"health_costs": {"blank": 0, "speeder": -5, "lava": -50, "mud": -10},
		"move_costs":   {"blank": -1, "speeder": 0, "lava": -10, "mud": -5},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("Costs JSON mismatch (-want +got):\n%s", diff)
	}

	var costs Costs
	if err := json.Unmarshal(data, &costs); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !costs.Equal(StandardCosts()) {
		t.Error("Expected round-tripped costs to equal standard costs")
	}

	bad := []byte(`{"health_costs":{"blank":0},"move_costs":{"blank":0}}`)
	if err := json.Unmarshal(bad, &costs); !errors.Is(err, ErrMissingTerrain) {
		t.Errorf("Expected ErrMissingTerrain, got %v", err)
	}
}

func TestGridRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"single cell", []string{"."}},
		{"two by two", []string{".*", "+#"}},
		{"wide", []string{"..++**##"}},
		{"tall", []string{".", "+", "*", "#"}},
		{"mixed", []string{"#.+*", "*+.#", "..##"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := GridFromRows(tt.rows)
			if err != nil {
				t.Fatalf("GridFromRows failed: %v", err)
			}
			if diff := cmp.Diff(tt.rows, grid.Rows()); diff != "" {
				t.Errorf("Rows mismatch (-want +got):\n%s", diff)
			}

			again, err := GridFromRows(grid.Rows())
			if err != nil {
				t.Fatalf("Reparse failed: %v", err)
			}
			if !again.Equal(grid) {
				t.Error("Expected reparsed grid to equal the original")
			}

			rebuilt, err := NewGrid(grid.Dims(), grid.Cells())
			if err != nil {
				t.Fatalf("NewGrid failed: %v", err)
			}
			if !rebuilt.Equal(grid) {
				t.Error("Expected grid rebuilt from cells to equal the original")
			}
		})
	}
}

func TestGridValidation(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*Grid, error)
		wantErr error
	}{
		{
			name:    "no rows",
			build:   func() (*Grid, error) { return GridFromRows(nil) },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "ragged rows",
			build:   func() (*Grid, error) { return GridFromRows([]string{"..", "."}) },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "empty row",
			build:   func() (*Grid, error) { return GridFromRows([]string{""}) },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "unknown code",
			build:   func() (*Grid, error) { return GridFromRows([]string{".x"}) },
			wantErr: ErrUnknownTerrain,
		},
		{
			name:    "cell count mismatch",
			build:   func() (*Grid, error) { return NewGrid(Dimensions{Rows: 2, Cols: 2}, []Terrain{Blank}) },
			wantErr: ErrCellCount,
		},
		{
			name:    "zero rows",
			build:   func() (*Grid, error) { return NewGrid(Dimensions{Rows: 0, Cols: 3}, nil) },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "negative dims",
			build:   func() (*Grid, error) { return NewGrid(Dimensions{Rows: -1, Cols: -1}, []Terrain{Blank}) },
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "fabricated terrain",
			build:   func() (*Grid, error) { return NewGrid(Dimensions{Rows: 1, Cols: 1}, []Terrain{Terrain(7)}) },
			wantErr: ErrUnknownTerrain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGridAt(t *testing.T) {
	grid, err := ParseGrid(".* +#")
	if err != nil {
		t.Fatalf("ParseGrid failed: %v", err)
	}

	want := map[Position]Terrain{
		{Row: 0, Col: 0}: Blank,
		{Row: 0, Col: 1}: Lava,
		{Row: 1, Col: 0}: Speeder,
		{Row: 1, Col: 1}: Mud,
	}
	for pos, terrain := range want {
		got, err := grid.At(pos)
		if err != nil {
			t.Fatalf("At(%v) failed: %v", pos, err)
		}
		if got != terrain {
			t.Errorf("At(%v): expected %v, got %v", pos, terrain, got)
		}
	}

	for _, pos := range []Position{{Row: -1, Col: 0}, {Row: 2, Col: 0}, {Row: 0, Col: 2}, {Row: 0, Col: -1}} {
		if _, err := grid.At(pos); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%v): expected ErrOutOfBounds, got %v", pos, err)
		}
	}
}

func TestRandomGridDeterministic(t *testing.T) {
	dims := Dimensions{Rows: 6, Cols: 9}
	a, err := RandomGrid(dims, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("RandomGrid failed: %v", err)
	}
	b, err := RandomGrid(dims, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("RandomGrid failed: %v", err)
	}
	if !a.Equal(b) {
		t.Error("Expected equal grids from equal seeds")
	}
	if a.Dims() != dims {
		t.Errorf("Expected dims %v, got %v", dims, a.Dims())
	}

	if _, err := RandomGrid(dims, nil); !errors.Is(err, ErrNilRandomSource) {
		t.Errorf("Expected ErrNilRandomSource, got %v", err)
	}
}

func TestAgentValidation(t *testing.T) {
	pos := Position{}
	tests := []struct {
		name                                string
		health, maxHealth, moves, maxMoves int
		wantErr                             bool
	}{
		{"full", 10, 10, 5, 5, false},
		{"dead but valid", -3, 10, 0, 5, false},
		{"zero max health", 0, 0, 5, 5, true},
		{"zero max moves", 1, 1, 0, 0, true},
		{"health above max", 11, 10, 5, 5, true},
		{"moves above max", 10, 10, 6, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAgentWithVitals(pos, tt.health, tt.maxHealth, tt.moves, tt.maxMoves)
			if tt.wantErr && !errors.Is(err, ErrInvalidAgent) {
				t.Errorf("Expected ErrInvalidAgent, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestAgentPredicates(t *testing.T) {
	agent := NewAgent(Position{})
	if !agent.IsAlive() || agent.IsDead() {
		t.Fatal("Expected default agent to be alive")
	}

	agent.Health = 0
	if agent.IsAlive() || !agent.IsDead() || agent.IsHealthy() {
		t.Error("Expected agent with zero health to be dead")
	}

	agent = NewAgent(Position{})
	agent.Moves = -1
	if agent.IsAlive() || !agent.IsDead() || agent.IsMotive() {
		t.Error("Expected agent with negative moves to be dead")
	}
}
