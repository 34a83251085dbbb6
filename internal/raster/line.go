package raster

import (
	"image/color"
	"math"
)

// DrawLine blends a one-pixel line from a to b with opacity alpha. It tests
// against the z-buffer but does not write it, so lines never hide bodies
// and overlapping lines stay visible.
func DrawLine(fb *FrameBuffer, a, b Vertex, c color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps < 1 {
		steps = 1
	}
	// Lines entirely off one side of the screen.
	if (a.X < 0 && b.X < 0) || (a.Y < 0 && b.Y < 0) ||
		(a.X >= float64(fb.Width) && b.X >= float64(fb.Width)) ||
		(a.Y >= float64(fb.Height) && b.Y >= float64(fb.Height)) {
		return
	}
	// Cap work for segments projected from just in front of the near plane.
	if limit := 4 * (fb.Width + fb.Height); steps > limit {
		steps = limit
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.X + dx*t)
		y := int(a.Y + dy*t)
		if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
			continue
		}
		z := a.InvZ + (b.InvZ-a.InvZ)*t
		idx := y*fb.Width + x
		if z <= fb.ZBuf[idx] {
			continue
		}
		fb.blend(idx, c, alpha)
	}
}

// DrawDot fills a square of side size centred on v, depth tested against
// the z-buffer with a relative bias so surface markers beat their own
// surface.
func DrawDot(fb *FrameBuffer, v Vertex, size int, c color.NRGBA) {
	if size < 1 {
		size = 1
	}
	half := size / 2
	cx, cy := int(v.X), int(v.Y)
	for y := cy - half; y < cy-half+size; y++ {
		for x := cx - half; x < cx-half+size; x++ {
			if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
				continue
			}
			idx := y*fb.Width + x
			if v.InvZ*1.01 <= fb.ZBuf[idx] {
				continue
			}
			fb.blend(idx, c, float64(c.A)/255)
		}
	}
}
