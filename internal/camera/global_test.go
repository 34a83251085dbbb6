package camera

import (
	"math"
	"testing"

	"orrery-renderer/internal/mathutil"
)

func TestFrameDistanceFormula(t *testing.T) {
	r, fov := 1000.0, 60.0
	want := r / math.Tan(mathutil.Deg2Rad(fov)/2) * 1.2
	if got := FrameDistance(r, fov, 16.0/9.0, 1.2); math.Abs(got-want) > 1e-9 {
		t.Fatalf("landscape distance = %v, want %v", got, want)
	}
}

func TestFrameDistancePortraitUsesWidth(t *testing.T) {
	r, fov, aspect := 1000.0, 60.0, 0.5
	half := math.Atan(math.Tan(mathutil.Deg2Rad(fov)/2) * aspect)
	want := r / math.Tan(half) * DefaultMargin
	got := FrameDistance(r, fov, aspect, 0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("portrait distance = %v, want %v", got, want)
	}
	if got <= FrameDistance(r, fov, 1, 0) {
		t.Fatal("portrait framing must back off further than square framing")
	}
}

func TestFramingsFitAndClip(t *testing.T) {
	const r = 5000.0
	for name, f := range map[string]Framing{
		"top":  TopFraming(r, 45, 1, 0),
		"side": SideFraming(r, 45, 1, 0),
		"body": BodyFraming(mathutil.Vec3{100, 0, 50}, r, 45, 1, 0),
	} {
		d := f.Pose.Position.Sub(f.Pose.Target).Len()
		if d <= r {
			t.Fatalf("%s: camera inside framed radius (%v)", name, d)
		}
		if f.Far < d+r {
			t.Fatalf("%s: far plane %v clips the framed sphere (needs %v)", name, f.Far, d+r)
		}
		if f.Near <= 0 || f.Near >= d-r {
			t.Fatalf("%s: near plane %v out of range", name, f.Near)
		}
		if math.Abs(f.Pose.Up.Dot(f.Pose.Forward())) > 1e-12 {
			t.Fatalf("%s: up not perpendicular to view", name)
		}
	}
}

func TestFarScalesWithRadius(t *testing.T) {
	small := TopFraming(100, 45, 1, 0)
	large := TopFraming(10000, 45, 1, 0)
	if ratio := large.Far / small.Far; math.Abs(ratio-100) > 1e-9 {
		t.Fatalf("far ratio = %v, want 100", ratio)
	}
}

func TestProjectCentreAndClip(t *testing.T) {
	cam := Camera{
		Pose:   Pose{Position: mathutil.Vec3{0, 0, 10}, Target: mathutil.Vec3{}, Up: mathutil.WorldUp},
		FOV:    90,
		Aspect: 2,
		Near:   0.1,
		Far:    100,
	}
	v := cam.View()
	x, y, depth, ok := v.Project(mathutil.Vec3{}, 200, 100)
	if !ok || math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 || math.Abs(depth-10) > 1e-12 {
		t.Fatalf("centre projected to (%v,%v,%v,%v)", x, y, depth, ok)
	}
	// tan(45°)=1: a point at depth 10 and height 10 is the top edge.
	if _, y, _, _ := v.Project(mathutil.Vec3{0, 10, 0}, 200, 100); math.Abs(y) > 1e-9 {
		t.Fatalf("top edge y = %v", y)
	}
	if _, _, _, ok := v.Project(mathutil.Vec3{0, 0, 20}, 200, 100); ok {
		t.Fatal("point behind the camera must be clipped")
	}
	if _, _, _, ok := v.Project(mathutil.Vec3{0, 0, -200}, 200, 100); ok {
		t.Fatal("point beyond far must be clipped")
	}
}

func TestViewDegenerateUp(t *testing.T) {
	cam := Camera{Pose: Pose{Position: mathutil.Vec3{0, 10, 0}, Up: mathutil.WorldUp}, FOV: 45, Aspect: 1, Near: 0.1}
	if _, _, _, ok := cam.View().Project(mathutil.Vec3{}, 10, 10); !ok {
		t.Fatal("origin should be visible from above even with a parallel up vector")
	}
}

func TestOrbitControls(t *testing.T) {
	oc := NewOrbitControls(1, 1000)
	oc.SyncFrom(Pose{Position: mathutil.Vec3{0, 0, 100}, Target: mathutil.Vec3{}})
	if !oc.Pose().Position.ApproxEqual(mathutil.Vec3{0, 0, 100}, 1e-9) {
		t.Fatalf("synced pose = %v", oc.Pose().Position)
	}
	oc.Rotate(math.Pi/2, 0)
	if !oc.Pose().Position.ApproxEqual(mathutil.Vec3{100, 0, 0}, 1e-9) {
		t.Fatalf("rotated pose = %v", oc.Pose().Position)
	}
	oc.Zoom(0.5)
	if oc.Radius() != 50 {
		t.Fatalf("radius = %v", oc.Radius())
	}
	oc.Zoom(1e9)
	if oc.Radius() != 1000 {
		t.Fatalf("radius not clamped: %v", oc.Radius())
	}
	oc.SetEnabled(false)
	before := oc.Pose()
	oc.Rotate(1, 1)
	oc.Zoom(0.1)
	if oc.Pose() != before {
		t.Fatal("disabled controls must ignore input")
	}
}

func TestFrameDistanceClampsMargin(t *testing.T) {
	if FrameDistance(100, 45, 1, 5) != FrameDistance(100, 45, 1, MaxMargin) {
		t.Fatal("oversized margin not clamped")
	}
	if FrameDistance(100, 45, 1, 0.5) != FrameDistance(100, 45, 1, MinMargin) {
		t.Fatal("undersized margin not clamped")
	}
}
