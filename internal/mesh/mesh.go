// Package mesh generates the unit geometry bodies and orbit paths are drawn
// with.
package mesh

import (
	"math"

	"orrery-renderer/internal/mathutil"
	"orrery-renderer/internal/surface"
)

// Mesh is an indexed triangle list. Vertex attributes share indices.
type Mesh struct {
	Verts   []mathutil.Vec3
	Normals []mathutil.Vec3
	UVs     [][2]float32
	Tris    [][3]int
}

// Default tessellation.
const (
	DefaultSegments = 64
	DefaultRings    = 32
)

// Sphere builds a unit UV sphere with Y through the poles. Vertices use the
// same geographic convention as surface locations, so a texel at (u, v)
// sits under the location whose TextureUV is (u, v). The seam column is
// duplicated so u runs 0..1 without wrapping inside a triangle.
func Sphere(segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	m := &Mesh{}
	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		lat := 90 - 180*v
		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			lon := 360*u - 180
			p := surface.ComputeLocalOffset(lat, lon, 0, 1)
			if r == 0 || r == rings {
				// Pin poles exactly; cos(±90°) leaves a tiny residue.
				p = mathutil.Vec3{0, p[1], 0}.Normalize()
			}
			m.Verts = append(m.Verts, p)
			m.Normals = append(m.Normals, p)
			m.UVs = append(m.UVs, [2]float32{float32(u), float32(v)})
		}
	}
	row := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*row + s
			b := a + 1
			c := a + row
			d := c + 1
			// Counter-clockwise seen from outside. Pole rows collapse to a
			// point, so their degenerate halves are skipped.
			if r != 0 {
				m.Tris = append(m.Tris, [3]int{a, c, b})
			}
			if r != rings-1 {
				m.Tris = append(m.Tris, [3]int{b, c, d})
			}
		}
	}
	return m
}

// Ring returns n+1 points on the unit circle in the XZ plane, closing back
// on the first point. Orbit angle 0 is +X.
func Ring(n int) []mathutil.Vec3 {
	if n < 3 {
		n = 3
	}
	pts := make([]mathutil.Vec3, n+1)
	for i := 0; i <= n; i++ {
		a := mathutil.TwoPi * float64(i%n) / float64(n)
		// RotY(a) applied to +X.
		pts[i] = mathutil.Vec3{math.Cos(a), 0, -math.Sin(a)}
	}
	return pts
}
