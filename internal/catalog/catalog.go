// Package catalog holds the static per-body fact and scale tables the
// simulation is built from. A default solar system is embedded; files in
// YAML or JSON can replace it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"orrery-renderer/internal/body"
)

//go:embed solar_system.yaml
var defaultYAML []byte

var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrUnknownParent = errors.New("unknown parent body")
	ErrUnknownBody   = errors.New("unknown body")
	ErrBadRadius     = errors.New("radius must be positive")
)

// Body is one row of the body table.
type Body struct {
	ID                string  `yaml:"id" json:"id"`
	Name              string  `yaml:"name" json:"name"`
	Parent            string  `yaml:"parent" json:"parent"`
	Radius            float64 `yaml:"radius" json:"radius"`
	OrbitRadius       float64 `yaml:"orbit_radius" json:"orbit_radius"`
	AxialTilt         float64 `yaml:"axial_tilt" json:"axial_tilt"`
	SpinPeriod        float64 `yaml:"spin_period" json:"spin_period"`
	SpinMaxPeriod     float64 `yaml:"spin_max_period" json:"spin_max_period"`
	OrbitPeriod       float64 `yaml:"orbit_period" json:"orbit_period"`
	OrbitMaxPeriod    float64 `yaml:"orbit_max_period" json:"orbit_max_period"`
	Retrograde        bool    `yaml:"retrograde" json:"retrograde"`
	InitialOrbitAngle float64 `yaml:"initial_orbit_angle" json:"initial_orbit_angle"`

	Color    string `yaml:"color" json:"color"`
	Texture  string `yaml:"texture" json:"texture"`
	Emissive bool   `yaml:"emissive" json:"emissive"`

	// Initial UI state. Nil means the default.
	SpinEnabled   *bool    `yaml:"spin_enabled" json:"spin_enabled"`
	OrbitEnabled  *bool    `yaml:"orbit_enabled" json:"orbit_enabled"`
	SpinFraction  *float64 `yaml:"spin_fraction" json:"spin_fraction"`
	OrbitFraction *float64 `yaml:"orbit_fraction" json:"orbit_fraction"`
	OrbitLine     *float64 `yaml:"orbit_line" json:"orbit_line"`
}

// Location is one row of the surface location table.
type Location struct {
	ID   string  `yaml:"id" json:"id"`
	Name string  `yaml:"name" json:"name"`
	Body string  `yaml:"body" json:"body"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
	Alt  float64 `yaml:"alt" json:"alt"`
}

// Catalog is the complete static configuration.
type Catalog struct {
	Bodies    []Body     `yaml:"bodies" json:"bodies"`
	Locations []Location `yaml:"locations" json:"locations"`
}

// Default returns the embedded solar system.
func Default() (*Catalog, error) {
	c, err := Parse(defaultYAML, ".yaml")
	if err != nil {
		return nil, fmt.Errorf("catalog: embedded table: %w", err)
	}
	return c, nil
}

// Load reads a catalog file; the extension picks YAML or JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog. ext is a file extension such as
// ".json"; anything else is treated as YAML.
func Parse(data []byte, ext string) (*Catalog, error) {
	var c Catalog
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ids, radii and references. Parents must be listed before
// their satellites.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Bodies))
	for _, b := range c.Bodies {
		if b.ID == "" {
			return fmt.Errorf("body with empty id")
		}
		if seen[b.ID] {
			return fmt.Errorf("body %q: %w", b.ID, ErrDuplicateID)
		}
		if b.Radius <= 0 {
			return fmt.Errorf("body %q: %w", b.ID, ErrBadRadius)
		}
		if b.Parent != "" && !seen[b.Parent] {
			return fmt.Errorf("body %q: parent %q: %w", b.ID, b.Parent, ErrUnknownParent)
		}
		seen[b.ID] = true
	}
	locs := make(map[string]bool, len(c.Locations))
	for _, l := range c.Locations {
		if l.ID == "" {
			return fmt.Errorf("location with empty id")
		}
		if locs[l.ID] {
			return fmt.Errorf("location %q: %w", l.ID, ErrDuplicateID)
		}
		if !seen[l.Body] {
			return fmt.Errorf("location %q: body %q: %w", l.ID, l.Body, ErrUnknownBody)
		}
		locs[l.ID] = true
	}
	return nil
}

// Warnings lists configuration problems that are tolerated but leave a body
// visually inert, such as a zero period on a body that should move.
func (c *Catalog) Warnings() []string {
	var out []string
	for _, b := range c.Bodies {
		if b.SpinPeriod == 0 {
			out = append(out, fmt.Sprintf("body %q: zero spin period, spin disabled", b.ID))
		}
		if b.OrbitRadius > 0 && b.OrbitPeriod == 0 {
			out = append(out, fmt.Sprintf("body %q: zero orbit period, orbit disabled", b.ID))
		}
	}
	return out
}

// Spec converts a table row to a body spec. Bodies spin and orbit at the
// nominal slider position with a faint orbit line unless the row says
// otherwise.
func (b Body) Spec() body.Spec {
	return body.Spec{
		ID:                  b.ID,
		Parent:              b.Parent,
		Radius:              b.Radius,
		AxialTiltDegrees:    b.AxialTilt,
		OrbitRadius:         b.OrbitRadius,
		SpinPeriod:          b.SpinPeriod,
		SpinMaxPeriod:       b.SpinMaxPeriod,
		OrbitPeriod:         b.OrbitPeriod,
		OrbitMaxPeriod:      b.OrbitMaxPeriod,
		Retrograde:          b.Retrograde,
		InitialOrbitAngle:   b.InitialOrbitAngle,
		SpinEnabled:         boolOr(b.SpinEnabled, true),
		OrbitEnabled:        boolOr(b.OrbitEnabled, true),
		SpinFraction:        floatOr(b.SpinFraction, body.SliderNominal),
		OrbitFraction:       floatOr(b.OrbitFraction, body.SliderNominal),
		OrbitLineVisibility: floatOr(b.OrbitLine, 0.35),
	}
}

// RGB parses the hex colour, falling back to a neutral grey.
func (b Body) RGB() color.NRGBA {
	s := strings.TrimPrefix(strings.TrimSpace(b.Color), "#")
	if len(s) != 6 {
		return color.NRGBA{160, 160, 170, 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{160, 160, 170, 255}
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// Body looks up a body row by id.
func (c *Catalog) Body(id string) (Body, bool) {
	for _, b := range c.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return Body{}, false
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
