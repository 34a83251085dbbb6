package raster

import "image"

// SampleTexture performs bilinear filtering on an equirectangular map:
// u wraps around the seam, v clamps at the poles.
// Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	u -= float64(int(u))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	if fx < 0 {
		fx += float64(w)
	}
	if fy < 0 {
		fy = 0
	}
	x0 := int(fx) % w
	y0 := int(fy)
	if y0 >= h {
		y0 = h - 1
	}
	x1 := (x0 + 1) % w
	y1 := y0 + 1
	if y1 >= h {
		y1 = h - 1
	}
	dx := fx - float64(int(fx))
	dy := fy - float64(int(fy))

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	mix := func(o int) uint8 {
		return uint8(float64(pix[i00+o])*w00 + float64(pix[i10+o])*w10 + float64(pix[i01+o])*w01 + float64(pix[i11+o])*w11 + 0.5)
	}
	return mix(0), mix(1), mix(2), mix(3)
}
