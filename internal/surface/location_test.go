package surface

import (
	"math"
	"testing"

	"orrery-renderer/internal/mathutil"
)

func TestBudapestOnSurface(t *testing.T) {
	off := ComputeLocalOffset(47.5, 19.0, 0, 6000)
	if got := off.Len(); math.Abs(got-6000) > 1e-9 {
		t.Fatalf("|offset| = %v, want 6000", got)
	}
	// Positive (east) longitude ends up on the negative Z side.
	wantZ := -6000 * math.Cos(mathutil.Deg2Rad(47.5)) * math.Sin(mathutil.Deg2Rad(19))
	if math.Abs(off[2]-wantZ) > 1e-9 {
		t.Fatalf("z = %v, want %v", off[2], wantZ)
	}
	if off[2] >= 0 {
		t.Fatal("east longitude must map to negative z")
	}
	if wantY := 6000 * math.Sin(mathutil.Deg2Rad(47.5)); math.Abs(off[1]-wantY) > 1e-9 {
		t.Fatalf("y = %v, want %v", off[1], wantY)
	}
}

func TestAltitudeAddsToRadius(t *testing.T) {
	off := ComputeLocalOffset(-10, 200, 50, 1000)
	if got := off.Len(); math.Abs(got-1050) > 1e-9 {
		t.Fatalf("|offset| = %v, want 1050", got)
	}
}

func TestPoles(t *testing.T) {
	north := ComputeLocalOffset(90, 123, 0, 10)
	if !north.ApproxEqual(mathutil.Vec3{0, 10, 0}, 1e-9) {
		t.Fatalf("north pole = %v", north)
	}
	south := ComputeLocalOffset(-90, 0, 0, 10)
	if !south.ApproxEqual(mathutil.Vec3{0, -10, 0}, 1e-9) {
		t.Fatalf("south pole = %v", south)
	}
}

func TestTextureUVInvertsOffset(t *testing.T) {
	tests := []struct{ lat, lon float64 }{
		{0, 0}, {47.5, 19}, {-33.9, 151.2}, {10, -120}, {60, 179},
	}
	for _, tc := range tests {
		u, v := TextureUV(ComputeLocalOffset(tc.lat, tc.lon, 0, 1))
		wantU := 0.5 + tc.lon/360
		wantV := 0.5 - tc.lat/180
		if math.Abs(u-wantU) > 1e-9 || math.Abs(v-wantV) > 1e-9 {
			t.Fatalf("(%v,%v): uv = (%v,%v), want (%v,%v)", tc.lat, tc.lon, u, v, wantU, wantV)
		}
	}
}

func TestNewStoresOffset(t *testing.T) {
	l := New("bud", "Budapest", "earth", 47.5, 19, 0, 6000)
	if l.LocalOffset() != ComputeLocalOffset(47.5, 19, 0, 6000) {
		t.Fatal("stored offset differs from computed offset")
	}
}
