package raster

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected vertex. InvZ is 1/view depth; U, V and Shade are
// interpolated perspective-correctly.
type Vertex struct {
	X, Y  float64
	InvZ  float64
	U, V  float64
	Shade float64
}

// RasterizeTriangle fills a triangle with z-buffering, optional texture,
// per-vertex shading and ACES tone mapping. Triangles are double-sided;
// culling is the caller's job.
//
// This is the HOT PATH: no allocation in the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, tex *image.NRGBA, base color.NRGBA, lc *LightConfig) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Attributes divided by depth interpolate linearly in screen space.
	z0, z1, z2 := v[0].InvZ, v[1].InvZ, v[2].InvZ
	u0, u1, u2 := v[0].U*z0, v[1].U*z1, v[2].U*z2
	t0, t1, t2 := v[0].V*z0, v[1].V*z1, v[2].V*z2
	s0, s1, s2 := v[0].Shade*z0, v[1].Shade*z1, v[2].Shade*z2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] || z <= 0 {
				continue
			}
			invz := 1.0 / z

			cr, cg, cb, ca := base.R, base.G, base.B, base.A
			if tex != nil {
				u := (w0*u0 + w1*u1 + w2*u2) * invz
				tv := (w0*t0 + w1*t1 + w2*t2) * invz
				cr, cg, cb, ca = SampleTexture(tex, u, tv)
			}
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			shade := (w0*s0 + w1*s1 + w2*s2) * invz
			r, g, b := lc.Tone(cr, cg, cb, shade)

			p := zIdx * 4
			fb.Color[p] = r
			fb.Color[p+1] = g
			fb.Color[p+2] = b
			fb.Color[p+3] = 255
		}
	}
}
