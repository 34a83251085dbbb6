// Package camera computes camera poses for whole-system framing shots and for
// ground-level views anchored to a point on a rotating, tilted, orbiting body.
package camera

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// Pose is a world-space camera placement. It is recomputed every tick and
// never persisted.
type Pose struct {
	Position mathutil.Vec3
	Target   mathutil.Vec3
	Up       mathutil.Vec3
}

// Forward is the unit look direction.
func (p Pose) Forward() mathutil.Vec3 {
	return p.Target.Sub(p.Position).Normalize()
}

// Camera is the shared perspective camera the renderer consumes.
type Camera struct {
	Pose
	FOV    float64 // vertical, degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64
}

// DefaultFOV matches the browser scene's perspective camera.
const DefaultFOV = 45.0

// View is a camera basis ready for projecting many points.
type View struct {
	eye     mathutil.Vec3
	right   mathutil.Vec3
	up      mathutil.Vec3
	forward mathutil.Vec3
	tanY    float64
	tanX    float64
	near    float64
	far     float64
}

// View builds the projection basis. A pose whose up vector is parallel to
// the look direction falls back to a perpendicular world axis.
func (c Camera) View() View {
	fwd := c.Forward()
	if fwd.IsZero() {
		fwd = mathutil.AxisZ.Neg()
	}
	right := fwd.Cross(c.Up).Normalize()
	if right.IsZero() {
		right = fwd.Cross(mathutil.AxisZ).Normalize()
		if right.IsZero() {
			right = fwd.Cross(mathutil.AxisX).Normalize()
		}
	}
	up := right.Cross(fwd)

	fov := c.FOV
	if fov <= 0 || fov >= 180 {
		fov = DefaultFOV
	}
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	tanY := math.Tan(mathutil.Deg2Rad(fov) / 2)
	return View{
		eye:     c.Position,
		right:   right,
		up:      up,
		forward: fwd,
		tanY:    tanY,
		tanX:    tanY * aspect,
		near:    c.Near,
		far:     c.Far,
	}
}

// Depth is the distance of p along the view direction.
func (v View) Depth(p mathutil.Vec3) float64 {
	return p.Sub(v.eye).Dot(v.forward)
}

// InRange reports whether a view depth lies between the clip planes. A zero
// far plane disables far clipping.
func (v View) InRange(depth float64) bool {
	if depth < v.near || depth <= 0 {
		return false
	}
	return v.far <= 0 || depth <= v.far
}

// Project maps a world point to pixel coordinates in a width×height target
// (origin top-left) and returns its view depth. ok is false when the point
// lies outside the clip range.
func (v View) Project(p mathutil.Vec3, width, height int) (x, y, depth float64, ok bool) {
	d := p.Sub(v.eye)
	depth = d.Dot(v.forward)
	if !v.InRange(depth) {
		return 0, 0, depth, false
	}
	ndcX := d.Dot(v.right) / (depth * v.tanX)
	ndcY := d.Dot(v.up) / (depth * v.tanY)
	x = (ndcX + 1) * 0.5 * float64(width)
	y = (1 - ndcY) * 0.5 * float64(height)
	return x, y, depth, true
}

// Forward returns the view direction of the basis.
func (v View) Forward() mathutil.Vec3 { return v.forward }

// Eye returns the camera position.
func (v View) Eye() mathutil.Vec3 { return v.eye }

// ToView expresses a world point in camera space: X right, Y up, Z the
// view depth.
func (v View) ToView(p mathutil.Vec3) mathutil.Vec3 {
	d := p.Sub(v.eye)
	return mathutil.Vec3{d.Dot(v.right), d.Dot(v.up), d.Dot(v.forward)}
}

// ProjectView maps a camera-space point with positive depth to pixel
// coordinates. The caller clips against Near first.
func (v View) ProjectView(c mathutil.Vec3, width, height int) (x, y float64) {
	ndcX := c[0] / (c[2] * v.tanX)
	ndcY := c[1] / (c[2] * v.tanY)
	return (ndcX + 1) * 0.5 * float64(width), (1 - ndcY) * 0.5 * float64(height)
}

// Near and Far return the clip distances.
func (v View) Near() float64 { return v.near }
func (v View) Far() float64  { return v.far }
