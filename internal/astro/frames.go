// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"errors"
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// ErrZeroVector is returned when a direction is requested for a zero-length vector.
var ErrZeroVector = errors.New("astro: zero-length vector has no direction")

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// NormSquared returns the squared magnitude of the vector.
func (v Vec3) NormSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return radToDeg(math.Asin(v.Z / r))
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	lon := radToDeg(math.Atan2(v.Y, v.X))
	if lon < 0 {
		lon += 360
	}
	return lon
}

// Obliquity is the Earth's axial tilt (J2000 epoch) in radians.
const obliquityRad = 23.439291 * math.Pi / 180

// EquatorialToEcliptic converts equatorial XYZ to ecliptic XYZ.
// Input is in any units (km, AU, etc); output is in the same units.
func EquatorialToEcliptic(eq Vec3) Vec3 {
	// Rotation matrix around X-axis by obliquity
	cosE := math.Cos(obliquityRad)
	sinE := math.Sin(obliquityRad)

	return Vec3{
		X: eq.X,
		Y: eq.Y*cosE + eq.Z*sinE,
		Z: -eq.Y*sinE + eq.Z*cosE,
	}
}

// EclipticToEquatorial converts ecliptic XYZ to equatorial XYZ.
func EclipticToEquatorial(ecl Vec3) Vec3 {
	cosE := math.Cos(obliquityRad)
	sinE := math.Sin(obliquityRad)

	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// SphericalToVec3 converts a longitude/latitude pair in degrees to a unit vector.
func SphericalToVec3(lonDeg, latDeg float64) Vec3 {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	return Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}
