package system

import (
	"errors"
	"math"
	"testing"
	"time"

	"orrery-renderer/internal/camera"
	"orrery-renderer/internal/catalog"
	"orrery-renderer/internal/mathutil"
)

type recorder struct {
	ticks int
	modes []string
}

func (r *recorder) ObserveTick(float64)            { r.ticks++ }
func (r *recorder) ObserveModeChange(_, to string) { r.modes = append(r.modes, to) }

func smallCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Bodies: []catalog.Body{
			{ID: "sun", Radius: 10, Emissive: true},
			{ID: "earth", Radius: 5, OrbitRadius: 100, AxialTilt: 25, SpinPeriod: 10, SpinMaxPeriod: 1, OrbitPeriod: 120, OrbitMaxPeriod: 10},
			{ID: "moon", Parent: "earth", Radius: 1, OrbitRadius: 20, SpinPeriod: 27, OrbitPeriod: 9, OrbitMaxPeriod: 1},
		},
		Locations: []catalog.Location{
			{ID: "spot", Body: "earth", Lat: 0, Lon: 0},
			{ID: "pole", Body: "earth", Lat: 90, Lon: 0},
		},
	}
}

func newSystem(t *testing.T, opts Options) *System {
	t.Helper()
	s, err := New(smallCatalog(), opts)
	if err != nil {
		t.Fatalf("new system: %v", err)
	}
	return s
}

func TestDefaultSystem(t *testing.T) {
	s, err := New(nil, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := s.SystemRadius(); got != 661500 {
		t.Fatalf("system radius = %v", got)
	}
	if _, ok := s.Body("earth"); !ok {
		t.Fatal("earth missing")
	}
	if _, ok := s.Location("budapest"); !ok {
		t.Fatal("budapest missing")
	}
}

func TestUnknownParentRejected(t *testing.T) {
	cat := &catalog.Catalog{Bodies: []catalog.Body{{ID: "moon", Parent: "earth", Radius: 1}}}
	if _, err := New(cat, Options{}); !errors.Is(err, catalog.ErrUnknownParent) {
		t.Fatalf("err = %v", err)
	}
}

func TestSystemRadiusFollowsSatelliteChain(t *testing.T) {
	s := newSystem(t, Options{})
	if got := s.SystemRadius(); got != 121 {
		t.Fatalf("system radius = %v, want 121", got)
	}
}

func TestHierarchyDistances(t *testing.T) {
	s := newSystem(t, Options{})
	for i := 0; i < 300; i++ {
		s.TickFrames(1)
	}
	earth, _ := s.BodyCenter("earth")
	moon, _ := s.BodyCenter("moon")
	if d := earth.Len(); math.Abs(d-100) > 1e-9 {
		t.Fatalf("earth orbit distance = %v", d)
	}
	if d := moon.Sub(earth).Len(); math.Abs(d-20) > 1e-9 {
		t.Fatalf("moon distance from earth = %v", d)
	}
	a, ok := s.Anchor("spot")
	if !ok {
		t.Fatal("spot anchor missing")
	}
	if d := a.WorldPosition().Sub(earth).Len(); math.Abs(d-5) > 1e-9 {
		t.Fatalf("location not on surface: %v", d)
	}
	if a.BodyCenter() != earth {
		t.Fatalf("anchor centre %v, want %v", a.BodyCenter(), earth)
	}
}

func TestPolesInvariantInWorld(t *testing.T) {
	s := newSystem(t, Options{})
	earth0, _ := s.NorthPole("earth")
	moon0, _ := s.NorthPole("moon")
	for i := 0; i < 2000; i++ {
		s.TickFrames(1)
	}
	earth1, _ := s.NorthPole("earth")
	moon1, _ := s.NorthPole("moon")
	if !earth1.ApproxEqual(earth0, 1e-9) {
		t.Fatalf("earth pole drifted %v -> %v", earth0, earth1)
	}
	if !moon1.ApproxEqual(moon0, 1e-9) {
		t.Fatalf("moon pole drifted %v -> %v", moon0, moon1)
	}
	tilt := math.Acos(earth0.Dot(mathutil.WorldUp))
	if math.Abs(tilt-mathutil.Deg2Rad(25)) > 1e-9 {
		t.Fatalf("earth tilt = %v", mathutil.Rad2Deg(tilt))
	}
}

func TestPoleLocationSitsOnAxis(t *testing.T) {
	s := newSystem(t, Options{})
	s.TickFrames(40)
	a, _ := s.Anchor("pole")
	dir := a.WorldPosition().Sub(a.BodyCenter()).Normalize()
	if !dir.ApproxEqual(a.NorthPole(), 1e-9) {
		t.Fatalf("pole location %v not on axis %v", dir, a.NorthPole())
	}
}

func TestLocationViewTracksSurface(t *testing.T) {
	s := newSystem(t, Options{})
	if !s.View().Activate("spot") {
		t.Fatal("activate failed")
	}
	for i := 0; i < 25; i++ {
		s.TickFrames(1)
		a, _ := s.Anchor("spot")
		up := a.WorldPosition().Sub(a.BodyCenter()).Normalize()
		want := a.WorldPosition().Add(up.Scale(camera.DefaultElevation * 5))
		cam := s.View().Camera()
		if !cam.Position.ApproxEqual(want, 1e-9) {
			t.Fatalf("tick %d: eye %v, want %v", i, cam.Position, want)
		}
		if !cam.Up.ApproxEqual(up, 1e-9) {
			t.Fatalf("tick %d: up %v, want %v", i, cam.Up, up)
		}
	}
}

func TestControlsReenabledOnNextTick(t *testing.T) {
	controls := camera.NewOrbitControls(1, 1e4)
	s := newSystem(t, Options{Controls: controls})
	s.View().Activate("spot")
	if controls.Enabled() {
		t.Fatal("controls enabled in location view")
	}
	s.View().Deactivate()
	if controls.Enabled() {
		t.Fatal("controls re-enabled in the same turn")
	}
	s.TickFrames(1)
	if !controls.Enabled() {
		t.Fatal("controls not re-enabled on the next tick")
	}
}

func TestReactivateBeforeDeferredEnable(t *testing.T) {
	controls := camera.NewOrbitControls(1, 1e4)
	s := newSystem(t, Options{Controls: controls})
	s.View().Activate("spot")
	s.View().Deactivate()
	s.View().Activate("pole")
	s.TickFrames(1)
	if controls.Enabled() {
		t.Fatal("stale deferred enable reached controls in location view")
	}
}

func TestUnknownIDsAreNoops(t *testing.T) {
	s := newSystem(t, Options{})
	before := s.View().Camera()
	if s.View().Activate("atlantis") {
		t.Fatal("unknown location activated")
	}
	if s.View().FrameBody("vulcan") {
		t.Fatal("unknown body framed")
	}
	if s.View().Camera() != before {
		t.Fatal("camera changed on unknown id")
	}
	if _, ok := s.Body("vulcan"); ok {
		t.Fatal("unknown body resolved")
	}
}

func TestObserverAndTick(t *testing.T) {
	rec := &recorder{}
	s := newSystem(t, Options{Observer: rec})
	s.Tick(time.Second)
	s.Tick(500 * time.Millisecond)
	if rec.ticks != 2 || s.Ticks() != 2 {
		t.Fatalf("ticks = %d/%d", rec.ticks, s.Ticks())
	}
	if got := s.ElapsedFrames(); math.Abs(got-90) > 1e-9 {
		t.Fatalf("elapsed frames = %v, want 90", got)
	}
	s.View().Activate("spot")
	s.View().FrameSide()
	want := []string{"global:top", "location", "global:top", "global:side"}
	if len(rec.modes) != len(want) {
		t.Fatalf("modes = %v, want %v", rec.modes, want)
	}
	for i := range want {
		if rec.modes[i] != want[i] {
			t.Fatalf("modes = %v, want %v", rec.modes, want)
		}
	}
}

func TestCapture(t *testing.T) {
	s := newSystem(t, Options{})
	s.TickFrames(10)
	f := s.Capture()
	if f.Index != 1 || f.Mode != "global:top" {
		t.Fatalf("frame header = %d %q", f.Index, f.Mode)
	}
	if len(f.Bodies) != 3 || len(f.Lights) != 1 || len(f.Markers) != 2 {
		t.Fatalf("frame counts = %d bodies %d lights %d markers", len(f.Bodies), len(f.Lights), len(f.Markers))
	}
	sun, _ := f.Body("sun")
	if sun.Orbit != nil {
		t.Fatal("sun has an orbit ring")
	}
	earth, _ := f.Body("earth")
	moon, _ := f.Body("moon")
	if moon.Orbit == nil || !moon.Orbit.Center.ApproxEqual(earth.Center, 1e-9) || moon.Orbit.Radius != 20 {
		t.Fatalf("moon ring = %+v", moon.Orbit)
	}
	if earth.Orbit.Opacity != 0.35 {
		t.Fatalf("earth ring opacity = %v", earth.Orbit.Opacity)
	}
}

func TestQueueDefersNestedWork(t *testing.T) {
	var q Queue
	var order []int
	q.Defer(func() {
		order = append(order, 1)
		q.Defer(func() { order = append(order, 2) })
	})
	if n := q.Run(); n != 1 || len(order) != 1 {
		t.Fatalf("first run ran %d, order %v", n, order)
	}
	if q.Len() != 1 {
		t.Fatalf("nested work not queued")
	}
	q.Run()
	if len(order) != 2 || order[1] != 2 {
		t.Fatalf("order = %v", order)
	}
}
