// Package surface maps latitude/longitude/altitude anchors onto a body.
package surface

import (
	"math"

	"orrery-renderer/internal/mathutil"
)

// Location is a fixed point on a body surface. It is immutable once created.
type Location struct {
	ID        string
	Name      string
	BodyID    string
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Altitude  float64 // added to the body radius

	offset mathutil.Vec3
}

// New computes the body-local offset for the location.
func New(id, name, bodyID string, lat, lon, alt, bodyRadius float64) *Location {
	return &Location{
		ID:        id,
		Name:      name,
		BodyID:    bodyID,
		Latitude:  lat,
		Longitude: lon,
		Altitude:  alt,
		offset:    ComputeLocalOffset(lat, lon, alt, bodyRadius),
	}
}

// LocalOffset is the offset from the body centre in body-local, pre-spin
// coordinates.
func (l *Location) LocalOffset() mathutil.Vec3 {
	return l.offset
}

// ComputeLocalOffset converts geographic coordinates to a body-local vector
// with Y through the north pole.
//
// Longitude is negated before conversion so that east longitudes land where
// the equirectangular texture puts them (u grows eastward, local Z points
// west). This is a fixed convention: callers pass raw east-positive
// longitudes and must not negate them again.
func ComputeLocalOffset(lat, lon, alt, radius float64) mathutil.Vec3 {
	r := radius + alt
	phi := mathutil.Deg2Rad(lat)
	lambda := mathutil.Deg2Rad(-lon)
	cosPhi := math.Cos(phi)
	return mathutil.Vec3{
		r * cosPhi * math.Cos(lambda),
		r * math.Sin(phi),
		r * cosPhi * math.Sin(lambda),
	}
}

// TextureUV returns the equirectangular texture coordinate for a body-local
// direction, the inverse of ComputeLocalOffset. u=0.5 is longitude 0.
func TextureUV(local mathutil.Vec3) (u, v float64) {
	d := local.Normalize()
	if d.IsZero() {
		return 0.5, 0.5
	}
	lat := math.Asin(mathutil.Clamp(d[1], -1, 1))
	lon := -math.Atan2(d[2], d[0])
	u = 0.5 + lon/mathutil.TwoPi
	v = 0.5 - lat/math.Pi
	return u, v
}
