package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// ZBuf stores inverse view depth, so larger is closer.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // 1/depth per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a buffer filled with bg and an empty z-buffer.
func NewFrameBuffer(w, h int, bg color.NRGBA) *FrameBuffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   make([]float64, n),
	}
	fb.Clear(bg)
	return fb
}

// Clear resets colour to bg and depth to empty.
func (fb *FrameBuffer) Clear(bg color.NRGBA) {
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
		p := i * 4
		fb.Color[p] = bg.R
		fb.Color[p+1] = bg.G
		fb.Color[p+2] = bg.B
		fb.Color[p+3] = bg.A
	}
}

// Image copies the colour buffer into a new image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// blend mixes c over the pixel at idx with coverage a in [0,1].
func (fb *FrameBuffer) blend(idx int, c color.NRGBA, a float64) {
	if a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}
	p := idx * 4
	fb.Color[p] = clamp255(float64(fb.Color[p])*(1-a) + float64(c.R)*a)
	fb.Color[p+1] = clamp255(float64(fb.Color[p+1])*(1-a) + float64(c.G)*a)
	fb.Color[p+2] = clamp255(float64(fb.Color[p+2])*(1-a) + float64(c.B)*a)
	if fb.Color[p+3] < c.A {
		fb.Color[p+3] = clamp255(float64(fb.Color[p+3])*(1-a) + float64(c.A)*a)
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
