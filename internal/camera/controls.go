package camera

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// Controls are the externally owned navigation controls. Location view
// suspends them and restores them afterwards.
type Controls interface {
	SetEnabled(on bool)
	Enabled() bool
	Rotate(dAzimuth, dElevation float64)
	Zoom(factor float64)
	// SyncFrom adopts a pose chosen elsewhere (framing shots).
	SyncFrom(p Pose)
	Pose() Pose
}

// OrbitControls orbit a target at a radius using azimuth/elevation
// spherical coordinates.
type OrbitControls struct {
	enabled bool

	target    mathutil.Vec3
	radius    float64
	azimuth   float64
	elevation float64

	minRadius    float64
	maxRadius    float64
	maxElevation float64
}

var _ Controls = (*OrbitControls)(nil)

// NewOrbitControls returns enabled controls; radius bounds are clamped to at
// least a tiny positive value.
func NewOrbitControls(minRadius, maxRadius float64) *OrbitControls {
	if minRadius <= 0 {
		minRadius = 1e-3
	}
	if maxRadius < minRadius {
		maxRadius = minRadius
	}
	oc := &OrbitControls{
		enabled:      true,
		radius:       minRadius,
		minRadius:    minRadius,
		maxRadius:    maxRadius,
		maxElevation: math.Pi/2 - 0.05,
	}
	return oc
}

func (oc *OrbitControls) SetEnabled(on bool) { oc.enabled = on }
func (oc *OrbitControls) Enabled() bool      { return oc.enabled }

// Rotate is ignored while disabled.
func (oc *OrbitControls) Rotate(dAzimuth, dElevation float64) {
	if !oc.enabled || math.IsNaN(dAzimuth) || math.IsNaN(dElevation) {
		return
	}
	oc.azimuth += dAzimuth
	oc.elevation = mathutil.Clamp(oc.elevation+dElevation, -oc.maxElevation, oc.maxElevation)
}

// Zoom scales the radius; factors below 1 move closer. Ignored while disabled.
func (oc *OrbitControls) Zoom(factor float64) {
	if !oc.enabled || factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	oc.radius = mathutil.Clamp(oc.radius*factor, oc.minRadius, oc.maxRadius)
}

// SyncFrom derives spherical coordinates from p, clamping elevation away
// from the poles.
func (oc *OrbitControls) SyncFrom(p Pose) {
	oc.target = p.Target
	off := p.Position.Sub(p.Target)
	r := off.Len()
	if r < 1e-12 {
		return
	}
	oc.radius = mathutil.Clamp(r, oc.minRadius, oc.maxRadius)
	oc.elevation = mathutil.Clamp(math.Asin(mathutil.Clamp(off[1]/r, -1, 1)), -oc.maxElevation, oc.maxElevation)
	oc.azimuth = math.Atan2(off[0], off[2])
}

// Pose places the camera on the sphere around the target.
func (oc *OrbitControls) Pose() Pose {
	ce, se := math.Cos(oc.elevation), math.Sin(oc.elevation)
	ca, sa := math.Cos(oc.azimuth), math.Sin(oc.azimuth)
	pos := oc.target.Add(mathutil.Vec3{
		oc.radius * ce * sa,
		oc.radius * se,
		oc.radius * ce * ca,
	})
	return Pose{Position: pos, Target: oc.target, Up: mathutil.WorldUp}
}

// Radius returns the current orbit radius.
func (oc *OrbitControls) Radius() float64 { return oc.radius }
