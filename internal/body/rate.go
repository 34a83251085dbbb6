package body

import (
	"math"
	"time"

	"orrery-renderer/internal/mathutil"
)

// ReferenceFPS is the frame rate one tick corresponds to. Rates are radians per
// reference frame; elapsed time is converted with FramesFor.
const ReferenceFPS = 60.0

// Slider bounds of the speed controls. SliderNominal maps to the body's real
// (scaled) period.
const (
	SliderMin     = 0.0
	SliderNominal = 50.0
	SliderMax     = 100.0
)

// FramesFor converts elapsed time to reference frames.
func FramesFor(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return d.Seconds() * ReferenceFPS
}

// AngularSpeed is the per-frame angle that completes one revolution in period
// seconds. Zero or non-finite periods yield 0 so a misconfigured body stays still.
// The sign of period is ignored; direction is a per-body constant.
func AngularSpeed(period float64) float64 {
	if period == 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return 0
	}
	return mathutil.TwoPi / (math.Abs(period) * ReferenceFPS)
}

// RateForFraction maps a slider value v in [0,100] to an angular rate.
//
//	v = 0        → 0
//	0 < v ≤ 50   → AngularSpeed(period) * v/50
//	50 < v ≤ 100 → AngularSpeed(p) with p linear from period to maxPeriod
//
// maxPeriod is the period at full slider and must not exceed period; values
// that do (or are not positive) pin the upper segment at the nominal rate.
func RateForFraction(v, period, maxPeriod float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = mathutil.Clamp(v, SliderMin, SliderMax)
	if v == 0 {
		return 0
	}
	base := AngularSpeed(period)
	if v <= SliderNominal {
		return base * (v / SliderNominal)
	}
	if base == 0 {
		return 0
	}
	p := math.Abs(period)
	maxP := math.Abs(maxPeriod)
	if maxPeriod <= 0 || maxP > p || math.IsInf(maxPeriod, 0) {
		maxP = p
	}
	t := (v - SliderNominal) / (SliderMax - SliderNominal)
	return AngularSpeed(p + (maxP-p)*t)
}
