package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_config.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeTemp(t, `{
		"name": "Test Config",
		"description": "Test configuration",
		"grid": [".+", "*#"],
		"agent": {"health": 100, "max_health": 100, "moves": 20, "max_moves": 20},
		"start_position": [0, 0],
		"goal_position": [1, 1]
	}`)

	result := validateConfig(path, true)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}

	infos := strings.Join(result.Infos, "\n")
	for _, want := range []string{"✓ Grid: 2x2", "✓ Agent: health 100/100, moves 20/20", "✓ Goal reachable in 2 moves"} {
		if !strings.Contains(infos, want) {
			t.Errorf("Expected %q in infos, got:\n%s", want, infos)
		}
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		expected []string
	}{
		{
			name:     "invalid json",
			config:   `{"name": `,
			expected: []string{"Invalid JSON"},
		},
		{
			name:     "empty grid",
			config:   `{"name": "x", "grid": []}`,
			expected: []string{"Grid is empty"},
		},
		{
			name:     "ragged grid and bad code",
			config:   `{"name": "x", "grid": ["..", ".R", "."], "goal_position": [1, 1]}`,
			expected: []string{"Inconsistent grid width at row 2", "Invalid character 'R' at position [1,1]"},
		},
		{
			name:     "goal outside",
			config:   `{"name": "x", "grid": [".."], "goal_position": [3, 0]}`,
			expected: []string{"goal_position (3,0) outside the 1x2 grid"},
		},
		{
			name:     "bad vitals",
			config:   `{"name": "x", "grid": [".."], "agent": {"health": 50, "max_health": 10, "moves": 5, "max_moves": 0}, "goal_position": [0, 1]}`,
			expected: []string{"max_moves must be positive", "health (50) cannot exceed max_health (10)"},
		},
		{
			name:     "missing name",
			config:   `{"grid": [".."], "goal_position": [0, 1]}`,
			expected: []string{"name is required"},
		},
		{
			name:     "healing terrain",
			config:   `{"name": "x", "grid": [".."], "costs": {"health_costs": {"blank": 5, "speeder": -5, "lava": -50, "mud": -10}, "move_costs": {"blank": -1, "speeder": 0, "lava": -10, "mud": -5}}, "goal_position": [0, 1]}`,
			expected: []string{"cost delta would refill a vital: health delta +5 on blank"},
		},
		{
			name:     "incomplete costs",
			config:   `{"name": "x", "grid": [".."], "costs": {"health_costs": {"blank": 0}, "move_costs": {"blank": -1}}, "goal_position": [0, 1]}`,
			expected: []string{"Invalid JSON"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writeTemp(t, tt.config), false)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			errs := strings.Join(result.Errors, "\n")
			for _, want := range tt.expected {
				if !strings.Contains(errs, want) {
					t.Errorf("Expected %q in errors, got:\n%s", want, errs)
				}
			}
		})
	}
}

func TestValidateConfig_Unreachable(t *testing.T) {
	path := writeTemp(t, `{
		"name": "wall",
		"grid": [".*."],
		"agent": {"health": 40, "max_health": 40, "moves": 50, "max_moves": 50},
		"goal_position": [0, 2]
	}`)

	lenient := validateConfig(path, false)
	if !lenient.Valid {
		t.Fatalf("Expected valid config without --strict, got errors: %v", lenient.Errors)
	}
	if !strings.Contains(strings.Join(lenient.Infos, "\n"), "⚠ Goal unreachable") {
		t.Errorf("Expected unreachable warning, got: %v", lenient.Infos)
	}

	strict := validateConfig(path, true)
	if strict.Valid {
		t.Error("Expected --strict to reject an unreachable goal")
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "missing.json"), false)
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
	if result.File != "missing.json" {
		t.Errorf("Expected file name missing.json, got %s", result.File)
	}
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	ok := report(&out, []ValidationResult{
		{File: "a.json", Valid: true, Infos: []string{"✓ Name: a"}},
		{File: "b.json", Valid: false, Errors: []string{"Grid is empty"}},
	})

	if ok {
		t.Error("Expected report to flag the invalid file")
	}
	for _, want := range []string{"a.json\n✅ VALID\n  ✓ Name: a", "b.json\n❌ INVALID\n  ❌ Grid is empty", "Some configurations have errors"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in report, got:\n%s", want, out.String())
		}
	}
}

func TestCommand_ProjectConfigs(t *testing.T) {
	dir := filepath.Join("..", "..", "configs")
	if _, err := os.Stat(dir); err != nil {
		t.Skip("Skipping test - configs directory not found")
	}

	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	if err := cmd.Run(context.Background(), []string{"validate", "--dir", dir}); err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out.String())
	}

	if !strings.Contains(out.String(), "All configurations are valid!") {
		t.Errorf("Expected every project config to be valid, got:\n%s", out.String())
	}
}
