package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"orrery-renderer/internal/camera"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir     string `json:"base_dir" yaml:"base_dir"`
	CatalogFile string `json:"catalog" yaml:"catalog"`
	TextureDir  string `json:"texture_dir" yaml:"texture_dir"`
	ScriptFile  string `json:"script" yaml:"script"`
	OutputDir   string `json:"output_dir" yaml:"output_dir"`
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`

	// Render settings
	Width        int `json:"width" yaml:"width"`
	Height       int `json:"height" yaml:"height"`
	Supersample  int `json:"supersample" yaml:"supersample"`
	WebPQuality  int `json:"webp_quality" yaml:"webp_quality"`
	Workers      int `json:"workers" yaml:"workers"`
	Frames       int `json:"frames" yaml:"frames"`
	CaptureEvery int `json:"capture_every" yaml:"capture_every"`
	FPS          int `json:"fps" yaml:"fps"`

	// Camera
	FOV          float64 `json:"fov" yaml:"fov"`
	Margin       float64 `json:"margin" yaml:"margin"`
	MinElevation float64 `json:"min_elevation" yaml:"min_elevation"`
	MaxElevation float64 `json:"max_elevation" yaml:"max_elevation"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// Load reads a JSON or YAML config file and returns Config. The extension
// picks the format. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	OutputDir string
	Script    string
	Catalog   string
	Width     int
	Height    int
	Frames    int
	Quality   int
	Workers   int
	LogLevel  string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Script != "" {
		c.ScriptFile = flags.Script
	}
	if flags.Catalog != "" {
		c.CatalogFile = flags.Catalog
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// Resolve relative paths against base dir. Empty optional paths stay
	// empty: no catalog means the embedded one, no texture dir means flat
	// colours.
	c.CatalogFile = c.under(c.CatalogFile)
	c.TextureDir = c.under(c.TextureDir)
	c.ScriptFile = c.under(c.ScriptFile)
	c.MetricsFile = c.under(c.MetricsFile)
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "renders")
	} else {
		c.OutputDir = c.under(c.OutputDir)
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 360
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Frames <= 0 {
		c.Frames = 600
	}
	if c.CaptureEvery <= 0 {
		c.CaptureEvery = 10
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = 45
	}
	c.Margin = camera.ClampMargin(c.Margin)
	if c.MinElevation <= 0 || c.MaxElevation <= 0 || c.MinElevation > c.MaxElevation {
		c.MinElevation, c.MaxElevation = 0.0005, 0.5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Aspect is Width/Height.
func (c Config) Aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

func (c Config) under(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
