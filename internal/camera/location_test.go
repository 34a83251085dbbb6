package camera

import (
	"math"
	"testing"

	"orrery-renderer/internal/mathutil"
)

type fakeAnchor struct {
	pos, center, north mathutil.Vec3
	radius             float64
}

func (a fakeAnchor) WorldPosition() mathutil.Vec3 { return a.pos }
func (a fakeAnchor) BodyCenter() mathutil.Vec3    { return a.center }
func (a fakeAnchor) NorthPole() mathutil.Vec3     { return a.north }
func (a fakeAnchor) BodyRadius() float64          { return a.radius }

func equatorAnchor() fakeAnchor {
	return fakeAnchor{
		pos:    mathutil.Vec3{1000, 0, 0},
		center: mathutil.Vec3{},
		north:  mathutil.WorldUp,
		radius: 1000,
	}
}

func TestBasisOrthonormal(t *testing.T) {
	north := mathutil.RotZ(mathutil.Deg2Rad(25)).MulVec3(mathutil.WorldUp)
	center := mathutil.Vec3{114000, 0, 0}
	pos := center.Add(mathutil.Vec3{100, 3000, -4000})
	b := ComputeBasis(pos, center, north)

	for name, v := range map[string]mathutil.Vec3{"up": b.Up, "east": b.East, "south": b.South} {
		if math.Abs(v.Len()-1) > 1e-12 {
			t.Fatalf("%s not unit: %v", name, v.Len())
		}
	}
	if math.Abs(b.Up.Dot(b.East)) > 1e-12 || math.Abs(b.Up.Dot(b.South)) > 1e-12 || math.Abs(b.East.Dot(b.South)) > 1e-12 {
		t.Fatalf("basis not orthogonal: %+v", b)
	}
	if b.South.Dot(north) >= 0 {
		t.Fatal("south must point away from the pole")
	}
}

func TestBasisAtEquator(t *testing.T) {
	b := ComputeBasis(mathutil.Vec3{1, 0, 0}, mathutil.Vec3{}, mathutil.WorldUp)
	if !b.Up.ApproxEqual(mathutil.AxisX, 1e-12) {
		t.Fatalf("up = %v", b.Up)
	}
	if !b.South.ApproxEqual(mathutil.Vec3{0, -1, 0}, 1e-12) {
		t.Fatalf("south = %v", b.South)
	}
	if !b.East.ApproxEqual(mathutil.Vec3{0, 0, -1}, 1e-12) {
		t.Fatalf("east = %v", b.East)
	}
}

func TestBasisAtPoleIsFinite(t *testing.T) {
	b := ComputeBasis(mathutil.Vec3{0, 5, 0}, mathutil.Vec3{}, mathutil.WorldUp)
	if b.East.IsZero() || b.South.IsZero() || !b.East.IsFinite() || !b.South.IsFinite() {
		t.Fatalf("degenerate basis at the pole: %+v", b)
	}
}

func TestComputePoseDefaultLooksSouthLevel(t *testing.T) {
	a := equatorAnchor()
	p := ComputePose(a.pos, a.center, a.north, a.radius, Settings{Elevation: 0.01})

	if want := (mathutil.Vec3{1010, 0, 0}); !p.Position.ApproxEqual(want, 1e-9) {
		t.Fatalf("position = %v, want %v", p.Position, want)
	}
	if !p.Forward().ApproxEqual(mathutil.Vec3{0, -1, 0}, 1e-12) {
		t.Fatalf("forward = %v, want south", p.Forward())
	}
	if !p.Up.ApproxEqual(mathutil.AxisX, 1e-12) {
		t.Fatalf("camera up = %v, want local up", p.Up)
	}
	if d := p.Target.Sub(p.Position).Len(); math.Abs(d-LookDistance) > 1e-9 {
		t.Fatalf("target distance = %v", d)
	}
}

func TestComputePoseAngles(t *testing.T) {
	a := equatorAnchor()

	east := ComputePose(a.pos, a.center, a.north, a.radius, Settings{Horizontal: math.Pi / 2})
	b := ComputeBasis(a.pos, a.center, a.north)
	if !east.Forward().ApproxEqual(mathutil.RotateAroundAxis(b.South, b.Up, math.Pi/2), 1e-12) {
		t.Fatalf("horizontal rotation wrong: %v", east.Forward())
	}
	if math.Abs(east.Forward().Dot(b.Up)) > 1e-12 {
		t.Fatal("horizontal-only view must stay level")
	}

	up := ComputePose(a.pos, a.center, a.north, a.radius, Settings{Vertical: 0.5})
	if got := up.Forward().Dot(b.Up); math.Abs(got-math.Sin(0.5)) > 1e-12 {
		t.Fatalf("positive vertical should look up by sin(0.5), got %v", got)
	}
	down := ComputePose(a.pos, a.center, a.north, a.radius, Settings{Vertical: -0.5, Horizontal: 2})
	if got := down.Forward().Dot(b.Up); math.Abs(got+math.Sin(0.5)) > 1e-12 {
		t.Fatalf("negative vertical should look down, got %v", got)
	}
}

func TestClampIdempotence(t *testing.T) {
	lc := NewLocationCamera(0, 0)
	lc.Activate("a")
	for _, v := range []float64{2, -2, 100, math.Inf(1), math.Inf(-1)} {
		lc.SetVerticalAngle(v)
		once, _ := lc.Settings("a")
		for i := 0; i < 5; i++ {
			lc.SetVerticalAngle(v)
		}
		many, _ := lc.Settings("a")
		if once.Vertical != many.Vertical {
			t.Fatalf("clamp not idempotent for %v: %v vs %v", v, once.Vertical, many.Vertical)
		}
		if math.Abs(many.Vertical) != VerticalLimit {
			t.Fatalf("clamped value = %v, want ±%v", many.Vertical, VerticalLimit)
		}
	}
}

func TestAdjustVerticalClampedAfterUse(t *testing.T) {
	lc := NewLocationCamera(0, 0)
	lc.Activate("a")
	lc.AdjustVerticalAngle(3)
	if s, _ := lc.Settings("a"); s.Vertical != 3 {
		t.Fatalf("raw adjustment not stored: %v", s.Vertical)
	}
	if _, ok := lc.Update(equatorAnchor()); !ok {
		t.Fatal("update failed")
	}
	if s, _ := lc.Settings("a"); s.Vertical != VerticalLimit {
		t.Fatalf("stored vertical after update = %v, want %v", s.Vertical, VerticalLimit)
	}
}

func TestSettingsPersistPerLocation(t *testing.T) {
	lc := NewLocationCamera(0, 0)
	lc.Activate("A")
	lc.SetHorizontalAngle(1.0)
	lc.Activate("B")
	lc.SetHorizontalAngle(2.0)
	lc.Activate("A")
	s, _ := lc.Settings("A")
	if s.Horizontal != 1.0 {
		t.Fatalf("A horizontal = %v, want 1.0", s.Horizontal)
	}
	lc.Deactivate()
	lc.Activate("B")
	if s, _ := lc.Settings("B"); s.Horizontal != 2.0 {
		t.Fatalf("B horizontal = %v, want 2.0", s.Horizontal)
	}
}

func TestHorizontalRangeRecentred(t *testing.T) {
	lc := NewLocationCamera(0, 0)
	lc.Activate("A")
	lc.SetHorizontalAngle(3)
	lc.SetHorizontalAngle(5) // beyond π from the activation angle 0
	if s, _ := lc.Settings("A"); s.Horizontal != math.Pi {
		t.Fatalf("horizontal = %v, want clamp at π", s.Horizontal)
	}
	lc.Activate("A")
	lo, hi := lc.HorizontalRange()
	if lo != 0 || hi != 2*math.Pi {
		t.Fatalf("range = [%v, %v], want [0, 2π]", lo, hi)
	}
	lc.SetHorizontalAngle(5)
	if s, _ := lc.Settings("A"); s.Horizontal != 5 {
		t.Fatalf("horizontal = %v, want 5", s.Horizontal)
	}
}

func TestElevationClamped(t *testing.T) {
	lc := NewLocationCamera(0.01, 0.2)
	lc.Activate("A")
	lc.SetElevationFraction(5)
	if s, _ := lc.Settings("A"); s.Elevation != 0.2 {
		t.Fatalf("elevation = %v", s.Elevation)
	}
	lc.SetElevationFraction(-1)
	if s, _ := lc.Settings("A"); s.Elevation != 0.01 {
		t.Fatalf("elevation = %v", s.Elevation)
	}
}

func TestSettersWithoutActiveLocationAreNoops(t *testing.T) {
	lc := NewLocationCamera(0, 0)
	lc.SetHorizontalAngle(1)
	lc.SetVerticalAngle(1)
	lc.SetElevationFraction(0.1)
	lc.AdjustVerticalAngle(1)
	if _, ok := lc.Update(equatorAnchor()); ok {
		t.Fatal("update without active location should report ok=false")
	}
	lc.Activate("A")
	if _, ok := lc.Update(nil); ok {
		t.Fatal("update with nil anchor should report ok=false")
	}
}
