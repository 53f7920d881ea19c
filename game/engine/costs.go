package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Costs maps each terrain to the health and move deltas applied when an
// agent steps onto it. Health and move costs are kept apart from Terrain so
// other games can plug in non-standard strategies.
type Costs struct {
	health map[Terrain]int
	moves  map[Terrain]int
}

// NewCosts copies the given maps and checks that every terrain has both a
// health and a move delta.
func NewCosts(health, moves map[Terrain]int) (*Costs, error) {
	if missing := missingTerrains(health); missing != "" {
		return nil, fmt.Errorf("%w: missing health terrains: %s", ErrMissingTerrain, missing)
	}
	if missing := missingTerrains(moves); missing != "" {
		return nil, fmt.Errorf("%w: missing move terrains: %s", ErrMissingTerrain, missing)
	}
	return &Costs{health: copyCosts(health), moves: copyCosts(moves)}, nil
}

// StandardCosts returns the default table: Speeder never costs moves, Lava is
// the most expensive on both axes.
func StandardCosts() *Costs {
	return &Costs{
		health: map[Terrain]int{
			Blank:   0,
			Speeder: -5,
			Lava:    -50,
			Mud:     -10,
		},
		moves: map[Terrain]int{
			Blank:   -1,
			Speeder: 0,
			Lava:    -10,
			Mud:     -5,
		},
	}
}

// CheckDepleting fails when any delta is positive. Scenario agents start
// at their maxima, so a positive delta would push a vital above its maximum.
func (c *Costs) CheckDepleting() error {
	for _, t := range terrains {
		if c.health[t] > 0 {
			return fmt.Errorf("%w: health delta %+d on %s", ErrPositiveCost, c.health[t], t.Name())
		}
		if c.moves[t] > 0 {
			return fmt.Errorf("%w: move delta %+d on %s", ErrPositiveCost, c.moves[t], t.Name())
		}
	}
	return nil
}

// HealthCostOf returns the health delta for terrain t.
func (c *Costs) HealthCostOf(t Terrain) (int, error) {
	cost, ok := c.health[t]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownTerrain, t)
	}
	return cost, nil
}

// MoveCostOf returns the move delta for terrain t.
func (c *Costs) MoveCostOf(t Terrain) (int, error) {
	cost, ok := c.moves[t]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownTerrain, t)
	}
	return cost, nil
}

// HealthCosts returns a copy of the health table.
func (c *Costs) HealthCosts() map[Terrain]int {
	return copyCosts(c.health)
}

// MoveCosts returns a copy of the move table.
func (c *Costs) MoveCosts() map[Terrain]int {
	return copyCosts(c.moves)
}

// Equal reports whether both tables hold the same deltas.
func (c *Costs) Equal(other *Costs) bool {
	if c == nil || other == nil {
		return c == other
	}
	return sameCosts(c.health, other.health) && sameCosts(c.moves, other.moves)
}

type costsJSON struct {
	HealthCosts map[Terrain]int `json:"health_costs"`
	MoveCosts   map[Terrain]int `json:"move_costs"`
}

func (c *Costs) MarshalJSON() ([]byte, error) {
	return json.Marshal(costsJSON{HealthCosts: c.health, MoveCosts: c.moves})
}

func (c *Costs) UnmarshalJSON(data []byte) error {
	var v costsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("costs: %w", err)
	}
	parsed, err := NewCosts(v.HealthCosts, v.MoveCosts)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func missingTerrains(m map[Terrain]int) string {
	var missing []string
	for _, t := range terrains {
		if _, ok := m[t]; !ok {
			missing = append(missing, t.Name())
		}
	}
	sort.Strings(missing)
	return strings.Join(missing, ", ")
}

func copyCosts(m map[Terrain]int) map[Terrain]int {
	out := make(map[Terrain]int, len(m))
	for t, v := range m {
		out[t] = v
	}
	return out
}

func sameCosts(a, b map[Terrain]int) bool {
	if len(a) != len(b) {
		return false
	}
	for t, v := range a {
		if w, ok := b[t]; !ok || w != v {
			return false
		}
	}
	return true
}
