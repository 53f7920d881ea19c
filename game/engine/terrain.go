package engine

import "fmt"

// Terrain describes the kind of ground in a grid cell. Values are dense
// small integers so a grid can store one byte per cell.
type Terrain uint8

const (
	Blank Terrain = iota
	Speeder
	Lava
	Mud
)

var terrains = []Terrain{Blank, Speeder, Lava, Mud}

// Terrains returns every terrain kind in code order.
func Terrains() []Terrain {
	return append([]Terrain(nil), terrains...)
}

// Valid reports whether t is a known terrain kind.
func (t Terrain) Valid() bool {
	return t <= Mud
}

// Code returns the single-character textual code used in grid rows.
func (t Terrain) Code() byte {
	switch t {
	case Blank:
		return '.'
	case Speeder:
		return '+'
	case Lava:
		return '*'
	case Mud:
		return '#'
	}
	return '?'
}

func (t Terrain) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Terrain(%d)", uint8(t))
	}
	return string(t.Code())
}

// Name returns the lowercase name used as a key in cost tables.
func (t Terrain) Name() string {
	switch t {
	case Blank:
		return "blank"
	case Speeder:
		return "speeder"
	case Lava:
		return "lava"
	case Mud:
		return "mud"
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// ParseTerrain maps a textual code back to its terrain.
func ParseTerrain(c byte) (Terrain, error) {
	switch c {
	case '.':
		return Blank, nil
	case '+':
		return Speeder, nil
	case '*':
		return Lava, nil
	case '#':
		return Mud, nil
	}
	return 0, fmt.Errorf("%w: code %q", ErrUnknownTerrain, c)
}

// TerrainByName maps a lowercase name back to its terrain.
func TerrainByName(name string) (Terrain, error) {
	for _, t := range terrains {
		if t.Name() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: name %q", ErrUnknownTerrain, name)
}

// MarshalText encodes the terrain by name, which also makes terrain-keyed
// maps serialize with readable keys.
func (t Terrain) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTerrain, uint8(t))
	}
	return []byte(t.Name()), nil
}

func (t *Terrain) UnmarshalText(text []byte) error {
	parsed, err := TerrainByName(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
