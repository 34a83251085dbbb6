package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Manifest describes a finished run.
type Manifest struct {
	Name   string          `json:"name,omitempty"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	FPS    int             `json:"fps"`
	Frames []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one written frame.
type ManifestEntry struct {
	Frame int64  `json:"frame"`
	Mode  string `json:"mode"`
	Image string `json:"image"`
}

// NewManifest lists the successful results.
func NewManifest(name string, width, height, fps int, results []Result) Manifest {
	m := Manifest{Name: name, Width: width, Height: height, FPS: fps, Frames: []ManifestEntry{}}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Frame: r.Frame,
			Mode:  r.Mode,
			Image: filepath.ToSlash(r.Image),
		})
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
