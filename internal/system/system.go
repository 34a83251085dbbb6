// Package system assembles bodies, surface locations and the view controller
// into one simulation that advances a frame at a time.
package system

import (
	"context"
	"fmt"
	"math"
	"time"

	"orrery-renderer/internal/body"
	"orrery-renderer/internal/camera"
	"orrery-renderer/internal/catalog"
	"orrery-renderer/internal/logging"
	"orrery-renderer/internal/mathutil"
	"orrery-renderer/internal/scene"
	"orrery-renderer/internal/surface"
)

// Observer receives simulation events. The metrics registry implements it.
type Observer interface {
	ObserveTick(frames float64)
	ObserveModeChange(from, to string)
}

// Options configure a System. Zero values pick defaults.
type Options struct {
	FOV          float64
	Aspect       float64
	Margin       float64
	MinElevation float64
	MaxElevation float64

	// Controls drives free navigation in global view. Nil installs orbit
	// controls sized to the system.
	Controls camera.Controls
	Logger   logging.Logger
	Observer Observer
}

type node struct {
	body *body.Body
	row  catalog.Body

	orbit, position, frame, tilt, spin int
}

type site struct {
	loc  *surface.Location
	body *node
	node int
}

// System is the whole simulated scene. It is not safe for concurrent use;
// drive it from one goroutine.
type System struct {
	log   logging.Logger
	obs   Observer
	graph *scene.Graph
	queue Queue
	view  *camera.ViewController

	order  []*node
	bodies map[string]*node
	sites  []*site
	byLoc  map[string]*site
	radius float64

	ticks   int64
	elapsed float64
}

// New builds a system from a catalog. A nil catalog loads the embedded one.
func New(cat *catalog.Catalog, opts Options) (*System, error) {
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, err
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}
	log := logging.OrNoop(opts.Logger).With(logging.String("component", "system"))
	for _, w := range cat.Warnings() {
		log.Warn(context.Background(), "catalog", logging.String("warning", w))
	}

	s := &System{
		log:    log,
		obs:    opts.Observer,
		graph:  scene.NewGraph(),
		bodies: make(map[string]*node, len(cat.Bodies)),
		byLoc:  make(map[string]*site, len(cat.Locations)),
	}
	for _, row := range cat.Bodies {
		if err := s.addBody(row); err != nil {
			return nil, err
		}
	}
	for _, l := range cat.Locations {
		if err := s.addLocation(l); err != nil {
			return nil, err
		}
	}
	s.radius = s.measure()
	s.sync()

	controls := opts.Controls
	if controls == nil {
		controls = camera.NewOrbitControls(s.radius*0.01, s.radius*20)
	}
	s.view = camera.NewViewController(s, camera.Options{
		FOV:          opts.FOV,
		Aspect:       opts.Aspect,
		Margin:       opts.Margin,
		MinElevation: opts.MinElevation,
		MaxElevation: opts.MaxElevation,
		Controls:     controls,
		Deferrer:     &s.queue,
		Logger:       opts.Logger,
		OnModeChange: s.modeChanged,
	})
	log.Info(context.Background(), "system ready",
		logging.Int("bodies", len(s.order)),
		logging.Int("locations", len(s.sites)),
		logging.Float("radius", s.radius))
	return s, nil
}

func (s *System) addBody(row catalog.Body) error {
	parent := scene.Root
	if row.Parent != "" {
		p, ok := s.bodies[row.Parent]
		if !ok {
			return fmt.Errorf("system: body %q: parent %q: %w", row.ID, row.Parent, catalog.ErrUnknownParent)
		}
		parent = p.frame
	}
	n := &node{body: body.New(row.Spec()), row: row}
	var err error
	add := func(suffix string, parent int) int {
		if err != nil {
			return scene.Root
		}
		var i int
		i, err = s.graph.Add(row.ID+"/"+suffix, parent)
		return i
	}
	n.orbit = add("orbit", parent)
	n.position = add("position", n.orbit)
	n.frame = add("frame", n.position)
	n.tilt = add("tilt", n.frame)
	n.spin = add("spin", n.tilt)
	if err != nil {
		return fmt.Errorf("system: body %q: %w", row.ID, err)
	}
	s.order = append(s.order, n)
	s.bodies[row.ID] = n
	return nil
}

func (s *System) addLocation(l catalog.Location) error {
	n, ok := s.bodies[l.Body]
	if !ok {
		return fmt.Errorf("system: location %q: %w", l.ID, catalog.ErrUnknownBody)
	}
	loc := surface.New(l.ID, l.Name, l.Body, l.Lat, l.Lon, l.Alt, n.body.Radius())
	i, err := s.graph.Add("location/"+l.ID, n.spin)
	if err != nil {
		return fmt.Errorf("system: location %q: %w", l.ID, err)
	}
	s.graph.SetLocal(i, mathutil.Mat4Translate(loc.LocalOffset()))
	st := &site{loc: loc, body: n, node: i}
	s.sites = append(s.sites, st)
	s.byLoc[l.ID] = st
	return nil
}

// measure returns the largest distance any body surface reaches from the
// origin along its chain of orbit radii.
func (s *System) measure() float64 {
	reach := make(map[string]float64, len(s.order))
	r := 0.0
	for _, n := range s.order {
		base := 0.0
		if p := n.body.Parent(); p != "" {
			base = reach[p]
		}
		reach[n.body.ID()] = base + n.body.OrbitRadius()
		r = math.Max(r, base+n.body.OrbitRadius()+n.body.Radius())
	}
	if r <= 0 {
		return 1
	}
	return r
}

func (s *System) sync() {
	for _, n := range s.order {
		s.graph.SetLocal(n.orbit, n.body.OrbitLocal())
		s.graph.SetLocal(n.position, n.body.PositionLocal())
		s.graph.SetLocal(n.frame, n.body.FrameLocal())
		s.graph.SetLocal(n.tilt, n.body.TiltLocal())
		s.graph.SetLocal(n.spin, n.body.SpinLocal())
	}
	s.graph.Update()
}

func (s *System) modeChanged(from, to camera.Mode) {
	name := "none"
	if from != nil {
		name = from.Name()
	}
	if s.obs != nil {
		s.obs.ObserveModeChange(name, to.Name())
	}
}

// Tick advances the simulation by wall-clock time dt.
func (s *System) Tick(dt time.Duration) {
	s.TickFrames(body.FramesFor(dt))
}

// TickFrames advances by a number of reference frames. Work deferred during
// the previous tick runs first, then bodies move, then the camera follows.
func (s *System) TickFrames(frames float64) {
	s.queue.Run()
	for _, n := range s.order {
		n.body.Tick(frames)
	}
	s.sync()
	s.view.Update()
	s.ticks++
	if frames > 0 && !math.IsInf(frames, 0) {
		s.elapsed += frames
	}
	if s.obs != nil {
		s.obs.ObserveTick(frames)
	}
}

// Defer schedules fn for the start of the next tick.
func (s *System) Defer(fn func()) { s.queue.Defer(fn) }

// Ticks counts calls to Tick.
func (s *System) Ticks() int64 { return s.ticks }

// ElapsedFrames is the simulated time in reference frames.
func (s *System) ElapsedFrames() float64 { return s.elapsed }

// View returns the view controller.
func (s *System) View() *camera.ViewController { return s.view }

// Body looks up a body by id.
func (s *System) Body(id string) (*body.Body, bool) {
	n, ok := s.bodies[id]
	if !ok {
		return nil, false
	}
	return n.body, true
}

// Bodies returns bodies in catalog order.
func (s *System) Bodies() []*body.Body {
	out := make([]*body.Body, len(s.order))
	for i, n := range s.order {
		out[i] = n.body
	}
	return out
}

// Location looks up a surface location by id.
func (s *System) Location(id string) (*surface.Location, bool) {
	st, ok := s.byLoc[id]
	if !ok {
		return nil, false
	}
	return st.loc, true
}

// Locations returns locations in catalog order.
func (s *System) Locations() []*surface.Location {
	out := make([]*surface.Location, len(s.sites))
	for i, st := range s.sites {
		out[i] = st.loc
	}
	return out
}

// BodyCenter is a body's current world position.
func (s *System) BodyCenter(id string) (mathutil.Vec3, bool) {
	n, ok := s.bodies[id]
	if !ok {
		return mathutil.Vec3{}, false
	}
	return s.graph.World(n.spin).Translation(), true
}

// NorthPole is a body's world-space rotation axis.
func (s *System) NorthPole(id string) (mathutil.Vec3, bool) {
	n, ok := s.bodies[id]
	if !ok {
		return mathutil.Vec3{}, false
	}
	return s.pole(n), true
}

func (s *System) pole(n *node) mathutil.Vec3 {
	return s.graph.World(n.tilt).Rotation().MulVec3(mathutil.WorldUp).Normalize()
}

// SystemRadius implements camera.Scene.
func (s *System) SystemRadius() float64 { return s.radius }

// BodyFrame implements camera.Scene.
func (s *System) BodyFrame(id string) (mathutil.Vec3, float64, bool) {
	n, ok := s.bodies[id]
	if !ok {
		return mathutil.Vec3{}, 0, false
	}
	return s.graph.World(n.spin).Translation(), n.body.Radius(), true
}

// Anchor implements camera.Scene.
func (s *System) Anchor(id string) (camera.Anchor, bool) {
	st, ok := s.byLoc[id]
	if !ok {
		return nil, false
	}
	return anchor{s: s, site: st}, true
}

// anchor reads live transforms on every call, so it stays valid across ticks.
type anchor struct {
	s    *System
	site *site
}

func (a anchor) WorldPosition() mathutil.Vec3 {
	return a.s.graph.World(a.site.node).Translation()
}

func (a anchor) BodyCenter() mathutil.Vec3 {
	return a.s.graph.World(a.site.body.spin).Translation()
}

func (a anchor) NorthPole() mathutil.Vec3 { return a.s.pole(a.site.body) }

func (a anchor) BodyRadius() float64 { return a.site.body.body.Radius() }
