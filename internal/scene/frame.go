package scene

import (
	"image/color"

	"orrery-renderer/internal/camera"
	"orrery-renderer/internal/mathutil"
)

// Ring is an orbit path: a circle in the XZ plane of Basis, centred on the
// parent body.
type Ring struct {
	Center  mathutil.Vec3
	Basis   mathutil.Mat3
	Radius  float64
	Opacity float64
}

// BodyView is one body as it should be drawn.
type BodyView struct {
	ID       string
	Center   mathutil.Vec3
	Rotation mathutil.Mat3 // object to world, spin included
	Radius   float64
	Color    color.NRGBA
	Texture  string
	Emissive bool
	Orbit    *Ring // nil for bodies that do not orbit
}

// Marker is a surface location in world space.
type Marker struct {
	ID       string
	BodyID   string
	Position mathutil.Vec3
}

// Frame is an immutable snapshot of everything a renderer needs.
type Frame struct {
	Index   int64
	Mode    string
	Camera  camera.Camera
	Bodies  []BodyView
	Markers []Marker
	Lights  []mathutil.Vec3 // world positions of emissive bodies
}

// Body returns the view of id.
func (f *Frame) Body(id string) (BodyView, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyView{}, false
}
