package camera

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// VerticalLimit bounds the look-up/look-down angle short of the local zenith
// and nadir so the horizon basis never flips.
const VerticalLimit = math.Pi/2 - 0.1

// LookDistance is how far ahead of the eye the target is placed.
const LookDistance = 1000.0

// Elevation bounds, as a fraction of the body radius.
const (
	DefaultMinElevation = 0.0005
	DefaultMaxElevation = 0.5
	DefaultElevation    = 0.002
)

// Anchor is a live surface point on a body.
type Anchor interface {
	WorldPosition() mathutil.Vec3
	BodyCenter() mathutil.Vec3
	// NorthPole is the body's current pole direction in world space.
	NorthPole() mathutil.Vec3
	BodyRadius() float64
}

// Basis is the local compass at a surface point.
type Basis struct {
	Up    mathutil.Vec3
	North mathutil.Vec3 // body pole direction, not tangent to the surface
	East  mathutil.Vec3
	South mathutil.Vec3
}

// ComputeBasis derives up/east/south at position on a body centred at center
// whose pole points along north. In the right-handed Y-up world east is
// pole × up; south = east × up then faces away from the pole. The operand
// order is the reverse of the usual cross(up, pole) written for left-handed
// frames, which would face the zero horizontal angle north here. At the poles
// themselves, where east is undefined, the orbit-plane forward axis stands in
// for the pole.
func ComputeBasis(position, center, north mathutil.Vec3) Basis {
	up := position.Sub(center).Normalize()
	if up.IsZero() {
		up = mathutil.WorldUp
	}
	pole := north.Normalize()
	east := pole.Cross(up).Normalize()
	if east.IsZero() {
		east = mathutil.OrbitForward.Cross(up).Normalize()
		if east.IsZero() {
			east = mathutil.AxisX.Cross(up).Normalize()
		}
	}
	south := east.Cross(up).Normalize()
	return Basis{Up: up, North: pole, East: east, South: south}
}

// Settings are the operator-controlled view parameters of one location.
type Settings struct {
	Horizontal float64 // radians about up, 0 faces south
	Vertical   float64 // radians, positive looks up
	Elevation  float64 // fraction of body radius above the surface
}

// ComputePose places the camera above position and orients it per s.
func ComputePose(position, center, north mathutil.Vec3, radius float64, s Settings) Pose {
	b := ComputeBasis(position, center, north)

	view := mathutil.RotateAroundAxis(b.South, b.Up, s.Horizontal)
	// Re-derive east from the rotated view rather than rotating the old east.
	east := b.Up.Cross(view).Normalize()
	// A right-handed turn about east tips the view downward, hence the sign.
	view = mathutil.RotateAroundAxis(view, east, -s.Vertical).Normalize()

	eye := position.Add(b.Up.Scale(s.Elevation * radius))
	return Pose{
		Position: eye,
		Target:   eye.Add(view.Scale(LookDistance)),
		Up:       b.Up,
	}
}

// ClampVertical limits a vertical angle to ±VerticalLimit.
func ClampVertical(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mathutil.Clamp(v, -VerticalLimit, VerticalLimit)
}

// LocationCamera holds per-location settings and the active location.
// Settings survive deactivation, so returning to a location restores its
// last angles and elevation.
type LocationCamera struct {
	minElevation float64
	maxElevation float64

	settings map[string]*Settings
	active   string
	hRange   [2]float64
}

// NewLocationCamera uses the given elevation bounds; non-positive or inverted
// bounds fall back to the defaults.
func NewLocationCamera(minElevation, maxElevation float64) *LocationCamera {
	if minElevation <= 0 || maxElevation <= 0 || minElevation > maxElevation {
		minElevation, maxElevation = DefaultMinElevation, DefaultMaxElevation
	}
	return &LocationCamera{
		minElevation: minElevation,
		maxElevation: maxElevation,
		settings:     make(map[string]*Settings),
	}
}

// Activate makes id the active location, creating default settings on first
// use. The horizontal range is re-centred on the stored angle.
func (lc *LocationCamera) Activate(id string) {
	s, ok := lc.settings[id]
	if !ok {
		s = &Settings{Elevation: mathutil.Clamp(DefaultElevation, lc.minElevation, lc.maxElevation)}
		lc.settings[id] = s
	}
	lc.active = id
	// The horizontal range is centred on the stored angle at each activation.
	lc.hRange = [2]float64{s.Horizontal - math.Pi, s.Horizontal + math.Pi}
}

// Deactivate clears the active location. Safe to call when inactive.
func (lc *LocationCamera) Deactivate() {
	lc.active = ""
}

// Active returns the active location id.
func (lc *LocationCamera) Active() (string, bool) {
	return lc.active, lc.active != ""
}

// Settings returns a copy of the stored settings for id.
func (lc *LocationCamera) Settings(id string) (Settings, bool) {
	s, ok := lc.settings[id]
	if !ok {
		return Settings{}, false
	}
	return *s, true
}

// HorizontalRange is the slider range computed at the last activation.
func (lc *LocationCamera) HorizontalRange() (lo, hi float64) {
	return lc.hRange[0], lc.hRange[1]
}

func (lc *LocationCamera) current() *Settings {
	if lc.active == "" {
		return nil
	}
	return lc.settings[lc.active]
}

// SetHorizontalAngle stores a clamped horizontal angle for the active location.
func (lc *LocationCamera) SetHorizontalAngle(a float64) {
	s := lc.current()
	if s == nil || math.IsNaN(a) {
		return
	}
	s.Horizontal = mathutil.Clamp(a, lc.hRange[0], lc.hRange[1])
}

// SetVerticalAngle stores a clamped vertical angle for the active location.
func (lc *LocationCamera) SetVerticalAngle(a float64) {
	if s := lc.current(); s != nil {
		s.Vertical = ClampVertical(a)
	}
}

// AdjustVerticalAngle adds delta without clamping. The next Update uses the
// raw value once and then stores it clamped.
func (lc *LocationCamera) AdjustVerticalAngle(delta float64) {
	if s := lc.current(); s != nil && !math.IsNaN(delta) && !math.IsInf(delta, 0) {
		s.Vertical += delta
	}
}

// SetElevationFraction stores a clamped elevation for the active location.
func (lc *LocationCamera) SetElevationFraction(f float64) {
	if s := lc.current(); s != nil && !math.IsNaN(f) {
		s.Elevation = mathutil.Clamp(f, lc.minElevation, lc.maxElevation)
	}
}

// Update computes the pose for the active location. It is a no-op returning
// ok=false when nothing is active or the anchor is missing.
func (lc *LocationCamera) Update(a Anchor) (Pose, bool) {
	s := lc.current()
	if s == nil || a == nil {
		return Pose{}, false
	}
	p := ComputePose(a.WorldPosition(), a.BodyCenter(), a.NorthPole(), a.BodyRadius(), *s)
	s.Vertical = ClampVertical(s.Vertical)
	return p, true
}
