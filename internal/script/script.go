// Package script replays operator input: frame-stamped commands that map one
// to one onto the body and view setters.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownCommand is returned when a script names a command that does
// not exist.
var ErrUnknownCommand = errors.New("unknown command")

// Command names.
const (
	Spin         = "spin"
	SpinRate     = "spin_rate"
	Orbit        = "orbit"
	OrbitRate    = "orbit_rate"
	OrbitLine    = "orbit_line"
	Activate     = "activate"
	Deactivate   = "deactivate"
	Horizontal   = "horizontal"
	Vertical     = "vertical"
	VerticalDrag = "vertical_drag"
	Elevation    = "elevation"
	FrameTop     = "frame_top"
	FrameSide    = "frame_side"
	FrameBody    = "frame_body"
	OrbitDrag    = "orbit_drag"
	Zoom         = "zoom"
)

var known = map[string]bool{
	Spin: true, SpinRate: true, Orbit: true, OrbitRate: true, OrbitLine: true,
	Activate: true, Deactivate: true, Horizontal: true, Vertical: true,
	VerticalDrag: true, Elevation: true, FrameTop: true, FrameSide: true,
	FrameBody: true, OrbitDrag: true, Zoom: true,
}

// Command is one scripted input. Angles are in degrees.
type Command struct {
	At       int     `yaml:"at" json:"at"`
	Do       string  `yaml:"do" json:"do"`
	Body     string  `yaml:"body,omitempty" json:"body,omitempty"`
	Location string  `yaml:"location,omitempty" json:"location,omitempty"`
	Value    float64 `yaml:"value,omitempty" json:"value,omitempty"`
	On       *bool   `yaml:"on,omitempty" json:"on,omitempty"`
	DX       float64 `yaml:"dx,omitempty" json:"dx,omitempty"`
	DY       float64 `yaml:"dy,omitempty" json:"dy,omitempty"`
}

// Enabled reads On, defaulting to true.
func (c Command) Enabled() bool {
	return c.On == nil || *c.On
}

func (c Command) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%d %s", c.At, c.Do)
	if c.Body != "" {
		fmt.Fprintf(&b, " body=%s", c.Body)
	}
	if c.Location != "" {
		fmt.Fprintf(&b, " location=%s", c.Location)
	}
	return b.String()
}

// Script is an ordered list of commands.
type Script struct {
	Name     string    `yaml:"name" json:"name"`
	Commands []Command `yaml:"commands" json:"commands"`
}

// Load reads a script file; the extension picks YAML or JSON.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	s, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script and sorts it by frame. Commands on
// the same frame keep their file order.
func Parse(data []byte, ext string) (*Script, error) {
	var s Script
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	for i, c := range s.Commands {
		if !known[c.Do] {
			return nil, fmt.Errorf("command %d %q: %w", i, c.Do, ErrUnknownCommand)
		}
		if c.At < 0 {
			return nil, fmt.Errorf("command %d %q: negative frame %d", i, c.Do, c.At)
		}
	}
	sort.SliceStable(s.Commands, func(i, j int) bool { return s.Commands[i].At < s.Commands[j].At })
	return &s, nil
}

// Last is the frame of the final command, or -1 for an empty script.
func (s *Script) Last() int {
	if s == nil || len(s.Commands) == 0 {
		return -1
	}
	return s.Commands[len(s.Commands)-1].At
}
