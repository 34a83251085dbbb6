// Package body models an orbiting, spinning, tilted celestial body.
//
// The transform chain of a body is
//
//	orbit(RotY orbitAngle) · position(T orbitRadius) · frame(RotY frameAngle) · tilt(RotZ tilt) · spin(RotY spinAngle)
//
// frameAngle is counter-rotated by every orbit step, so the tilt axis keeps
// its world direction wherever the body is on its orbit.
package body

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// Spec is the static configuration of a body.
type Spec struct {
	ID     string
	Parent string // empty for bodies orbiting the system centre

	Radius           float64
	AxialTiltDegrees float64
	OrbitRadius      float64

	// Periods in seconds per revolution at the nominal slider position and at
	// full slider. Zero disables that motion.
	SpinPeriod     float64
	SpinMaxPeriod  float64
	OrbitPeriod    float64
	OrbitMaxPeriod float64

	Retrograde bool

	InitialOrbitAngle float64

	// Initial UI state.
	SpinEnabled         bool
	OrbitEnabled        bool
	SpinFraction        float64
	OrbitFraction       float64
	OrbitLineVisibility float64
}

// Body is mutated only by its own Tick and the setter surface.
type Body struct {
	spec Spec

	orbitAngle float64
	frameAngle float64
	spinAngle  float64

	spinRate  float64
	orbitRate float64
	spinSign  float64

	spinEnabled  bool
	orbitEnabled bool

	spinFraction  float64
	orbitFraction float64
	lineOpacity   float64
}

// New builds a body from its spec. Initial slider fractions are applied
// through the rate curve.
func New(s Spec) *Body {
	b := &Body{
		spec:       s,
		orbitAngle: sanitize(s.InitialOrbitAngle),
		spinSign:   1,
	}
	if s.Retrograde {
		b.spinSign = -1
	}
	// Pre-counter-rotate so the tilt direction does not depend on the start angle.
	b.frameAngle = -b.orbitAngle

	b.SetSpinEnabled(s.SpinEnabled)
	b.SetSpinRateFraction(s.SpinFraction)
	b.SetOrbitEnabled(s.OrbitEnabled)
	b.SetOrbitRateFraction(s.OrbitFraction)
	b.SetOrbitLineVisibility(s.OrbitLineVisibility)
	return b
}

// Tick advances the body by frames reference frames.
func (b *Body) Tick(frames float64) {
	if frames <= 0 || math.IsNaN(frames) || math.IsInf(frames, 0) {
		return
	}
	if b.orbitEnabled && b.orbitRate != 0 && b.Orbits() {
		old := b.orbitAngle
		b.orbitAngle = old + b.orbitRate*frames
		delta := b.orbitAngle - old
		b.frameAngle -= delta
	}
	if b.spinEnabled && b.spinRate != 0 {
		b.spinAngle += b.spinSign * b.spinRate * frames
	}
}

// Orbits reports whether the body can revolve at all. The central star
// (orbit radius 0) never does.
func (b *Body) Orbits() bool {
	return b.spec.OrbitRadius > 0
}

func (b *Body) SetSpinEnabled(on bool) {
	b.spinEnabled = on
}

// SetSpinRateFraction applies a slider value in [0,100]. The enabled flag is
// tracked separately.
func (b *Body) SetSpinRateFraction(v float64) {
	b.spinFraction = mathutil.Clamp(sanitize(v), SliderMin, SliderMax)
	b.spinRate = RateForFraction(b.spinFraction, b.spec.SpinPeriod, b.spec.SpinMaxPeriod)
}

// SetOrbitEnabled is a no-op for bodies that cannot orbit.
func (b *Body) SetOrbitEnabled(on bool) {
	if !b.Orbits() {
		b.orbitEnabled = false
		return
	}
	b.orbitEnabled = on
}

// SetOrbitRateFraction is a no-op for bodies that cannot orbit.
func (b *Body) SetOrbitRateFraction(v float64) {
	if !b.Orbits() {
		return
	}
	b.orbitFraction = mathutil.Clamp(sanitize(v), SliderMin, SliderMax)
	b.orbitRate = RateForFraction(b.orbitFraction, b.spec.OrbitPeriod, b.spec.OrbitMaxPeriod)
}

// SetOrbitLineVisibility sets the orbit ring opacity, clamped to [0,1].
func (b *Body) SetOrbitLineVisibility(v float64) {
	b.lineOpacity = mathutil.Clamp(sanitize(v), 0, 1)
}

func (b *Body) ID() string           { return b.spec.ID }
func (b *Body) Parent() string       { return b.spec.Parent }
func (b *Body) Spec() Spec           { return b.spec }
func (b *Body) Radius() float64      { return b.spec.Radius }
func (b *Body) OrbitRadius() float64 { return b.spec.OrbitRadius }

func (b *Body) OrbitAngle() float64 { return b.orbitAngle }
func (b *Body) SpinAngle() float64  { return b.spinAngle }

// FrameAngle is the accumulated counter-rotation of the tilt-carrying frame.
func (b *Body) FrameAngle() float64 { return b.frameAngle }

// SpinFrameAngle is the net spin-frame angle: own rotation minus the orbit
// correction.
func (b *Body) SpinFrameAngle() float64 { return b.frameAngle + b.spinAngle }

func (b *Body) SpinRate() float64            { return b.spinRate }
func (b *Body) OrbitRate() float64           { return b.orbitRate }
func (b *Body) SpinEnabled() bool            { return b.spinEnabled }
func (b *Body) OrbitEnabled() bool           { return b.orbitEnabled }
func (b *Body) SpinFraction() float64        { return b.spinFraction }
func (b *Body) OrbitFraction() float64       { return b.orbitFraction }
func (b *Body) OrbitLineVisibility() float64 { return b.lineOpacity }

// TiltRadians is the fixed axial tilt.
func (b *Body) TiltRadians() float64 {
	return mathutil.Deg2Rad(sanitize(b.spec.AxialTiltDegrees))
}

// OrbitLocal rotates the orbit frame about the parent centre.
func (b *Body) OrbitLocal() mathutil.Mat4 {
	return mathutil.Mat4Rotate(mathutil.RotY(b.orbitAngle))
}

// PositionLocal places the body on its orbit circle.
func (b *Body) PositionLocal() mathutil.Mat4 {
	return mathutil.Mat4Translate(mathutil.Vec3{b.spec.OrbitRadius, 0, 0})
}

// FrameLocal is the counter-rotating frame. Satellites are parented here.
func (b *Body) FrameLocal() mathutil.Mat4 {
	return mathutil.Mat4Rotate(mathutil.RotY(b.frameAngle))
}

// TiltLocal is the fixed tilt about the orbit-plane forward axis.
func (b *Body) TiltLocal() mathutil.Mat4 {
	return mathutil.Mat4Rotate(mathutil.RotZ(b.TiltRadians()))
}

// SpinLocal is the body's own rotation about its tilted axis.
func (b *Body) SpinLocal() mathutil.Mat4 {
	return mathutil.Mat4Rotate(mathutil.RotY(b.spinAngle))
}

// NorthPole returns the tilt axis expressed in the parent frame of the orbit
// node: orbit rotation then frame and tilt rotations applied to the canonical
// up axis.
func (b *Body) NorthPole() mathutil.Vec3 {
	r := mathutil.Mat3Mul(mathutil.RotY(b.orbitAngle), mathutil.Mat3Mul(mathutil.RotY(b.frameAngle), mathutil.RotZ(b.TiltRadians())))
	return r.MulVec3(mathutil.WorldUp).Normalize()
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
