package mathutil

import "math"

// World axes. Y is up; orbits lie in the XZ plane.
var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}

	// WorldUp is the canonical north-pole axis of an untilted body.
	WorldUp = AxisY

	// OrbitForward is the orbit-plane axis that axial tilt rotates about.
	OrbitForward = AxisZ
)

// TwoPi is a full revolution in radians.
const TwoPi = 2 * math.Pi

// AngleDist returns the shortest angular distance between two angles in radians (0..π).
func AngleDist(a, b float64) float64 {
	d := math.Mod(a-b, TwoPi)
	if d < 0 {
		d += TwoPi
	}
	if d > math.Pi {
		return TwoPi - d
	}
	return d
}
