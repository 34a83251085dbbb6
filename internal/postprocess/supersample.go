package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to w×h with Catmull-Rom filtering.
// Scaling runs on premultiplied pixels so translucent orbit lines keep their
// colour at the edges.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() <= w && b.Dy() <= h) {
		return img
	}

	// image.RGBA is premultiplied; drawing into it converts.
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, b, draw.Src, nil)

	return unpremultiply(scaled)
}

// unpremultiply converts back to straight alpha. Catmull-Rom can ring past
// alpha near hard edges, so channels are clamped.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		a := uint32(src.Pix[i+3])
		out.Pix[i+3] = uint8(a)
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := (uint32(src.Pix[i+c])*255 + a/2) / a
			if v > 255 {
				v = 255
			}
			out.Pix[i+c] = uint8(v)
		}
	}
	return out
}
