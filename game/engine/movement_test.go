package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNeighborhood(t *testing.T) {
	dims := Dimensions{Rows: 3, Cols: 3}
	tests := []struct {
		name string
		pos  Position
		want []Position
	}{
		{
			name: "top-left corner",
			pos:  Position{Row: 0, Col: 0},
			want: []Position{{Row: 1, Col: 0}, {Row: 0, Col: 1}},
		},
		{
			name: "center",
			pos:  Position{Row: 1, Col: 1},
			want: []Position{{Row: 0, Col: 1}, {Row: 2, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2}},
		},
		{
			name: "bottom-right corner",
			pos:  Position{Row: 2, Col: 2},
			want: []Position{{Row: 1, Col: 2}, {Row: 2, Col: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Neighborhood(dims, tt.pos)); diff != "" {
				t.Errorf("Neighborhood mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := len(Neighbors(Position{})); got != 4 {
		t.Errorf("Expected 4 unchecked neighbors, got %d", got)
	}
}

func TestTranslate(t *testing.T) {
	origin := Position{Row: 5, Col: 5}
	tests := []struct {
		dir  Direction
		want Position
	}{
		{Up, Position{Row: 4, Col: 5}},
		{Down, Position{Row: 6, Col: 5}},
		{Left, Position{Row: 5, Col: 4}},
		{Right, Position{Row: 5, Col: 6}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			got, err := Translate(origin, tt.dir)
			if err != nil {
				t.Fatalf("Translate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := Translate(origin, Direction("Q")); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

func TestValidDirectionsFrom(t *testing.T) {
	dims := Dimensions{Rows: 2, Cols: 3}
	tests := []struct {
		pos  Position
		want []Direction
	}{
		{Position{Row: 0, Col: 0}, []Direction{Down, Right}},
		{Position{Row: 0, Col: 1}, []Direction{Down, Left, Right}},
		{Position{Row: 1, Col: 2}, []Direction{Up, Left}},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ValidDirectionsFrom(dims, tt.pos)); diff != "" {
				t.Errorf("Directions mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := ValidDirectionsFrom(Dimensions{Rows: 1, Cols: 1}, Position{}); len(got) != 0 {
		t.Errorf("Expected no directions on a 1x1 grid, got %v", got)
	}
}

func TestIsValidAt(t *testing.T) {
	dims := Dimensions{Rows: 2, Cols: 2}
	if !IsValidAt(dims, Position{Row: 1, Col: 1}) {
		t.Error("Expected (1,1) to be valid")
	}
	for _, pos := range []Position{{Row: 2, Col: 0}, {Row: 0, Col: 2}, {Row: -1, Col: 0}} {
		if IsValidAt(dims, pos) {
			t.Errorf("Expected %v to be invalid", pos)
		}
	}
}
