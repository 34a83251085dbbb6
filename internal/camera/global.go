package camera

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// Framing margin: DefaultMargin leaves some space around the framed radius,
// and any configured margin is held within [MinMargin, MaxMargin].
const (
	DefaultMargin = 1.15
	MinMargin     = 1.1
	MaxMargin     = 1.2
)

// ClampMargin bounds a framing margin. Zero or NaN selects DefaultMargin.
func ClampMargin(m float64) float64 {
	if m <= 0 || math.IsNaN(m) {
		return DefaultMargin
	}
	return mathutil.Clamp(m, MinMargin, MaxMargin)
}

// farFactor scales the framing distance into the far clip plane.
const farFactor = 2.0

// Framing is a global camera placement plus its clip planes.
type Framing struct {
	Pose Pose
	Near float64
	Far  float64
}

// FrameDistance is how far from the centre a camera with the given vertical
// field of view must sit for a sphere of the given radius to fit. When the
// aspect ratio makes width the limiting dimension the horizontal half-angle
// is used instead.
func FrameDistance(radius, fovDeg, aspect, margin float64) float64 {
	if radius <= 0 || math.IsNaN(radius) {
		radius = 1
	}
	if fovDeg <= 0 || fovDeg >= 180 {
		fovDeg = DefaultFOV
	}
	margin = ClampMargin(margin)
	half := mathutil.Deg2Rad(fovDeg) / 2
	if aspect > 0 && aspect < 1 {
		half = math.Atan(math.Tan(half) * aspect)
	}
	return radius / math.Tan(half) * margin
}

func clipFor(d, radius float64) (near, far float64) {
	far = (d + radius) * farFactor
	near = math.Max(d*1e-4, 1e-3)
	return near, far
}

// TopFraming looks straight down on the orbit plane.
func TopFraming(radius, fovDeg, aspect, margin float64) Framing {
	d := FrameDistance(radius, fovDeg, aspect, margin)
	near, far := clipFor(d, radius)
	return Framing{
		Pose: Pose{
			Position: mathutil.Vec3{0, d, 0},
			Target:   mathutil.Vec3{},
			Up:       mathutil.AxisZ.Neg(),
		},
		Near: near,
		Far:  far,
	}
}

// SideFraming looks along the orbit plane from +Z.
func SideFraming(radius, fovDeg, aspect, margin float64) Framing {
	d := FrameDistance(radius, fovDeg, aspect, margin)
	near, far := clipFor(d, radius)
	return Framing{
		Pose: Pose{
			Position: mathutil.Vec3{0, 0, d},
			Target:   mathutil.Vec3{},
			Up:       mathutil.WorldUp,
		},
		Near: near,
		Far:  far,
	}
}

// BodyFraming frames a single body from +Z of its centre.
func BodyFraming(center mathutil.Vec3, radius, fovDeg, aspect, margin float64) Framing {
	d := FrameDistance(radius, fovDeg, aspect, margin)
	near, far := clipFor(d, radius)
	return Framing{
		Pose: Pose{
			Position: center.Add(mathutil.Vec3{0, 0, d}),
			Target:   center,
			Up:       mathutil.WorldUp,
		},
		Near: near,
		Far:  far,
	}
}
