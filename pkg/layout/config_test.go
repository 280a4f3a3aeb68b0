package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/strata/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
layering = "longest-path"
break_cycles = true

[decross]
operator = "agg"
passes = 4
median = true

[coord]
vertical = [2.0, 0.5]
curve = [0.0, 1.0]
component = 0.05
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Layering != "longest-path" || !cfg.BreakCycles {
		t.Errorf("top-level fields = %+v", cfg)
	}
	if cfg.Decross.Operator != "agg" || cfg.Decross.Passes != 4 || !cfg.Decross.Median {
		t.Errorf("decross fields = %+v", cfg.Decross)
	}
	if cfg.Coord.Component != 0.05 || len(cfg.Coord.Vertical) != 2 {
		t.Errorf("coord fields = %+v", cfg.Coord)
	}

	if _, err := cfg.Pipeline(nil); err != nil {
		t.Errorf("Pipeline() error = %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("LoadConfig() error = %v, want CONFIGURATION_ERROR", err)
	}
}

func TestLoadConfig_BadTOML(t *testing.T) {
	path := writeConfig(t, "layering = [unclosed")
	_, err := LoadConfig(path)
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("LoadConfig() error = %v, want CONFIGURATION_ERROR", err)
	}
}

func TestConfig_Pipeline_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown layering", Config{Layering: "magic"}},
		{"unknown operator", Config{Decross: DecrossConfig{Operator: "random"}}},
		{"vertical pair too short", Config{Coord: CoordConfig{Vertical: []float64{1}}}},
		{"curve pair too long", Config{Coord: CoordConfig{Curve: []float64{1, 2, 3}}}},
		{"negative vertical weight", Config{Coord: CoordConfig{Vertical: []float64{-1, 0}}}},
		{"negative component weight", Config{Coord: CoordConfig{Component: -0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Pipeline(nil)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Pipeline() error = %v, want CONFIGURATION_ERROR", err)
			}
		})
	}
}

func TestConfig_Pipeline_Defaults(t *testing.T) {
	p, err := Config{}.Pipeline(nil)
	if err != nil {
		t.Fatalf("Pipeline() error = %v", err)
	}
	if p.Layering == nil || p.Decross == nil || p.Coord == nil {
		t.Error("defaults left stages nil")
	}
}
