package layout

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/layout/coord"
	"github.com/matzehuels/strata/pkg/layout/decross"
	"github.com/matzehuels/strata/pkg/layout/layering"
)

// Config selects and tunes the layout stages from a TOML file. Zero values
// fall back to the stage defaults, so a partial file is fine.
type Config struct {
	// Layering selects the layer assignment method: "simplex" (default) or
	// "longest-path".
	Layering string `toml:"layering"`

	// BreakCycles removes back edges instead of rejecting cyclic input.
	BreakCycles bool `toml:"break_cycles"`

	Decross DecrossConfig `toml:"decross"`
	Coord   CoordConfig   `toml:"coord"`
}

// DecrossConfig tunes the decrossing stage.
type DecrossConfig struct {
	// Operator selects the two-layer operator: "opt" (default) or "agg".
	Operator string `toml:"operator"`

	// Passes is the number of down+up sweep rounds. Zero selects 2.
	Passes int `toml:"passes"`

	// Large permits free layers up to the large threshold with the "opt"
	// operator.
	Large bool `toml:"large"`

	// Dist enables the edge-length tie-break of the "opt" operator.
	Dist bool `toml:"dist"`

	// Median aggregates by median instead of mean with the "agg" operator.
	Median bool `toml:"median"`
}

// CoordConfig tunes the coordinate stage. Nil weight pairs keep the
// operator defaults.
type CoordConfig struct {
	// Vertical is the (real, dummy) verticality weight pair.
	Vertical []float64 `toml:"vertical"`

	// Curve is the (real, dummy) curvature weight pair.
	Curve []float64 `toml:"curve"`

	// Component is the component-closeness weight. Zero keeps the default.
	Component float64 `toml:"component"`
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "reading config %s", path)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "parsing config %s", path)
	}
	return cfg, nil
}

// Pipeline builds a Pipeline from the config. Unknown stage names and
// invalid weights are rejected with a configuration error.
func (c Config) Pipeline(size coord.SizeFunc) (Pipeline, error) {
	p := Default(size)
	p.BreakCycles = c.BreakCycles

	switch c.Layering {
	case "", "simplex":
		p.Layering = layering.NewSimplex()
	case "longest-path":
		p.Layering = layering.LongestPath{}
	default:
		return Pipeline{}, errors.New(errors.ErrCodeConfiguration,
			"unknown layering method %q (must be simplex or longest-path)", c.Layering)
	}

	var op decross.Operator
	switch c.Decross.Operator {
	case "", "opt":
		op = decross.Opt{Large: c.Decross.Large, Dist: c.Decross.Dist}
	case "agg":
		op = decross.Agg{Median: c.Decross.Median}
	default:
		return Pipeline{}, errors.New(errors.ErrCodeConfiguration,
			"unknown decross operator %q (must be opt or agg)", c.Decross.Operator)
	}
	p.Decross = decross.TwoLayer{Op: op, Passes: c.Decross.Passes}

	q := coord.NewQuad()
	var err error
	if v := c.Coord.Vertical; v != nil {
		if len(v) != 2 {
			return Pipeline{}, errors.New(errors.ErrCodeConfiguration,
				"vertical must be a (real, dummy) pair, got %d values", len(v))
		}
		if q, err = q.WithVertical(v[0], v[1]); err != nil {
			return Pipeline{}, err
		}
	}
	if v := c.Coord.Curve; v != nil {
		if len(v) != 2 {
			return Pipeline{}, errors.New(errors.ErrCodeConfiguration,
				"curve must be a (real, dummy) pair, got %d values", len(v))
		}
		if q, err = q.WithCurve(v[0], v[1]); err != nil {
			return Pipeline{}, err
		}
	}
	if c.Coord.Component != 0 {
		if q, err = q.WithComponent(c.Coord.Component); err != nil {
			return Pipeline{}, err
		}
	}
	p.Coord = q

	return p, nil
}
