package raster

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// LightConfig holds the lighting and tone-mapping parameters.
type LightConfig struct {
	Ambient  float64 // night side floor
	Direct   float64 // Lambert term for the star
	Emissive float64 // flat shade of self-lit bodies
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig is a single point light with a faint night side.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		Ambient:  0.04,
		Direct:   1.35,
		Emissive: 1.6,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade is the lighting scalar for a surface normal facing a light along
// toLight. Both vectors must be unit length.
func (lc *LightConfig) Shade(normal, toLight mathutil.Vec3) float64 {
	ndl := normal.Dot(toLight)
	if ndl < 0 {
		ndl = 0
	}
	return lc.Ambient + ndl*lc.Direct
}

// Tone converts an sRGB texel lit by shade to display sRGB.
func (lc *LightConfig) Tone(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	tr := ACESTonemap(srgbToLinear[r] * k)
	tg := ACESTonemap(srgbToLinear[g] * k)
	tb := ACESTonemap(srgbToLinear[b] * k)
	return clamp255(math.Pow(tr, lc.InvGamma) * 255),
		clamp255(math.Pow(tg, lc.InvGamma) * 255),
		clamp255(math.Pow(tb, lc.InvGamma) * 255)
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
