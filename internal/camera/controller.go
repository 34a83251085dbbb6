package camera

import (
	"context"
	"math"

	"orrery-renderer/internal/logging"
	"orrery-renderer/internal/mathutil"
)

// Scene is what the view controller reads from the simulation.
type Scene interface {
	// Anchor resolves a location id to its live surface point.
	Anchor(locationID string) (Anchor, bool)
	// SystemRadius is the largest orbit radius plus the radius of that body.
	SystemRadius() float64
	// BodyFrame returns a body's world centre and radius.
	BodyFrame(bodyID string) (center mathutil.Vec3, radius float64, ok bool)
}

// Deferrer runs fn on the next scheduler turn.
type Deferrer interface {
	Defer(fn func())
}

// GlobalKind distinguishes whole-system shots.
type GlobalKind int

const (
	GlobalTop GlobalKind = iota
	GlobalSide
	GlobalBody
	GlobalFree // moved by the navigation controls
)

func (k GlobalKind) String() string {
	switch k {
	case GlobalTop:
		return "top"
	case GlobalSide:
		return "side"
	case GlobalBody:
		return "body"
	default:
		return "free"
	}
}

// Mode is either Global or Location.
type Mode interface {
	Name() string
	isMode()
}

// Global is a fixed whole-system or single-body shot.
type Global struct {
	Kind   GlobalKind
	BodyID string
	Pose   Pose
	Near   float64
	Far    float64
}

// Location tracks a surface point.
type Location struct {
	LocationID string
}

func (Global) isMode()   {}
func (Location) isMode() {}

func (g Global) Name() string { return "global:" + g.Kind.String() }
func (Location) Name() string { return "location" }

// Options configure a ViewController.
type Options struct {
	FOV          float64
	Aspect       float64
	Margin       float64
	MinElevation float64
	MaxElevation float64

	Controls Controls
	Deferrer Deferrer
	Logger   logging.Logger

	// OnModeChange is called after every mode switch.
	OnModeChange func(from, to Mode)
}

// ViewController owns the shared camera and arbitrates between global shots
// and the location-anchored camera. Exactly one mode is active.
type ViewController struct {
	scene    Scene
	cam      Camera
	margin   float64
	mode     Mode
	loc      *LocationCamera
	previous *Global

	controls Controls
	deferrer Deferrer
	log      logging.Logger
	onChange func(from, to Mode)
}

// NewViewController starts in the top view.
func NewViewController(scene Scene, opts Options) *ViewController {
	fov := opts.FOV
	if fov <= 0 || fov >= 180 {
		fov = DefaultFOV
	}
	aspect := opts.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	vc := &ViewController{
		scene:    scene,
		cam:      Camera{FOV: fov, Aspect: aspect},
		margin:   opts.Margin,
		loc:      NewLocationCamera(opts.MinElevation, opts.MaxElevation),
		controls: opts.Controls,
		deferrer: opts.Deferrer,
		log:      logging.OrNoop(opts.Logger).With(logging.String("component", "view")),
		onChange: opts.OnModeChange,
	}
	vc.applyGlobal(vc.topShot())
	vc.syncControls()
	return vc
}

// Camera returns the current camera.
func (vc *ViewController) Camera() Camera { return vc.cam }

// Mode returns the active mode.
func (vc *ViewController) Mode() Mode { return vc.mode }

// LocationCamera exposes the per-location state.
func (vc *ViewController) LocationCamera() *LocationCamera { return vc.loc }

// Controls returns the navigation controls, which may be nil.
func (vc *ViewController) Controls() Controls { return vc.controls }

// Activate switches to the location-anchored camera for id. Unknown ids are
// a silent no-op returning false.
func (vc *ViewController) Activate(id string) bool {
	if vc.scene == nil {
		return false
	}
	anchor, ok := vc.scene.Anchor(id)
	if !ok {
		vc.log.Debug(context.Background(), "activate ignored: unknown location", logging.String("location", id))
		return false
	}
	if g, isGlobal := vc.mode.(Global); isGlobal {
		saved := g
		saved.Pose = vc.cam.Pose
		saved.Near, saved.Far = vc.cam.Near, vc.cam.Far
		vc.previous = &saved
		if vc.controls != nil {
			vc.controls.SetEnabled(false)
		}
	}
	vc.loc.Activate(id)
	vc.cam.Near = math.Max(anchor.BodyRadius()*1e-5, 1e-4)
	vc.cam.Far = (vc.scene.SystemRadius() + anchor.BodyRadius()) * 4
	vc.setMode(Location{LocationID: id})
	vc.Update()
	return true
}

// Deactivate leaves location view and restores the global camera that was
// active before. It is idempotent.
//
// The controls are re-enabled on the next scheduler turn: enabling them in
// the same turn sometimes let the input event that triggered the exit reach
// the controls and jolt the restored camera. Kept until that is re-verified.
func (vc *ViewController) Deactivate() {
	if _, ok := vc.mode.(Location); !ok {
		return
	}
	vc.loc.Deactivate()
	restore := vc.topShot()
	if vc.previous != nil {
		restore = *vc.previous
		vc.previous = nil
	}
	vc.applyGlobal(restore)

	if vc.controls == nil {
		return
	}
	enable := func() {
		if _, global := vc.mode.(Global); global {
			vc.controls.SetEnabled(true)
		}
	}
	if vc.deferrer != nil {
		vc.deferrer.Defer(enable)
		return
	}
	enable()
}

// FrameTop frames the whole system from above.
func (vc *ViewController) FrameTop() {
	vc.Deactivate()
	vc.applyGlobal(vc.topShot())
	vc.syncControls()
}

// FrameSide frames the whole system edge-on.
func (vc *ViewController) FrameSide() {
	vc.Deactivate()
	f := SideFraming(vc.systemRadius(), vc.cam.FOV, vc.cam.Aspect, vc.margin)
	vc.applyGlobal(Global{Kind: GlobalSide, Pose: f.Pose, Near: f.Near, Far: f.Far})
	vc.syncControls()
}

// FrameBody frames a single body at its current position. Unknown ids are a
// silent no-op returning false; the current view is kept.
func (vc *ViewController) FrameBody(bodyID string) bool {
	if vc.scene == nil {
		return false
	}
	center, radius, ok := vc.scene.BodyFrame(bodyID)
	if !ok {
		vc.log.Debug(context.Background(), "frame ignored: unknown body", logging.String("body", bodyID))
		return false
	}
	vc.Deactivate()
	f := BodyFraming(center, radius, vc.cam.FOV, vc.cam.Aspect, vc.margin)
	vc.applyGlobal(Global{Kind: GlobalBody, BodyID: bodyID, Pose: f.Pose, Near: f.Near, Far: f.Far})
	vc.syncControls()
	return true
}

// Orbit feeds a drag into the navigation controls. Ignored in location view
// or while the controls are disabled.
func (vc *ViewController) Orbit(dAzimuth, dElevation float64) {
	vc.steer(func(c Controls) { c.Rotate(dAzimuth, dElevation) })
}

// Zoom feeds a wheel step into the navigation controls.
func (vc *ViewController) Zoom(factor float64) {
	vc.steer(func(c Controls) { c.Zoom(factor) })
}

func (vc *ViewController) steer(fn func(Controls)) {
	g, ok := vc.mode.(Global)
	if !ok || vc.controls == nil || !vc.controls.Enabled() {
		return
	}
	fn(vc.controls)
	g.Kind = GlobalFree
	g.BodyID = ""
	g.Pose = vc.controls.Pose()
	vc.applyGlobal(g)
}

// Location-view setters. All are no-ops when no location is active.

func (vc *ViewController) SetHorizontalAngle(a float64)   { vc.loc.SetHorizontalAngle(a) }
func (vc *ViewController) SetVerticalAngle(a float64)     { vc.loc.SetVerticalAngle(a) }
func (vc *ViewController) AdjustVerticalAngle(d float64)  { vc.loc.AdjustVerticalAngle(d) }
func (vc *ViewController) SetElevationFraction(f float64) { vc.loc.SetElevationFraction(f) }

// Update recomputes the pose of the location camera from the live body
// transforms. In global mode the pose is static and Update does nothing.
// A location whose anchor has disappeared keeps the last good pose.
func (vc *ViewController) Update() {
	m, ok := vc.mode.(Location)
	if !ok || vc.scene == nil {
		return
	}
	anchor, ok := vc.scene.Anchor(m.LocationID)
	if !ok {
		return
	}
	if p, ok := vc.loc.Update(anchor); ok {
		vc.cam.Pose = p
	}
}

func (vc *ViewController) systemRadius() float64 {
	if vc.scene == nil {
		return 1
	}
	return vc.scene.SystemRadius()
}

func (vc *ViewController) topShot() Global {
	f := TopFraming(vc.systemRadius(), vc.cam.FOV, vc.cam.Aspect, vc.margin)
	return Global{Kind: GlobalTop, Pose: f.Pose, Near: f.Near, Far: f.Far}
}

func (vc *ViewController) applyGlobal(g Global) {
	vc.cam.Pose = g.Pose
	vc.cam.Near = g.Near
	vc.cam.Far = g.Far
	vc.setMode(g)
}

func (vc *ViewController) syncControls() {
	if vc.controls != nil {
		vc.controls.SyncFrom(vc.cam.Pose)
	}
}

func (vc *ViewController) setMode(m Mode) {
	prev := vc.mode
	vc.mode = m
	if prev != nil && prev.Name() == m.Name() {
		return
	}
	from := "none"
	if prev != nil {
		from = prev.Name()
	}
	vc.log.Debug(context.Background(), "view mode", logging.String("from", from), logging.String("to", m.Name()))
	if vc.onChange != nil {
		vc.onChange(prev, m)
	}
}
