package astro

import "math"

// Direction is a unit vector in the ecliptic frame pointing from the observer
// towards an object.
type Direction struct {
	v Vec3
}

// Canonical ecliptic axes.
var (
	DirectionX = Direction{Vec3{X: 1}}
	DirectionY = Direction{Vec3{Y: 1}}
	DirectionZ = Direction{Vec3{Z: 1}}
)

// NewDirection normalizes v. It fails for vectors too short to carry a direction.
func NewDirection(v Vec3) (Direction, error) {
	n := v.Norm()
	if n < 1e-12 {
		return Direction{}, ErrZeroVector
	}
	return Direction{v.Scale(1 / n)}, nil
}

// DirectionFromEquatorial builds an ecliptic direction from J2000 right
// ascension and declination in degrees.
func DirectionFromEquatorial(raDeg, decDeg float64) Direction {
	return Direction{EquatorialToEcliptic(SphericalToVec3(raDeg, decDeg))}
}

// DirectionFromEcliptic builds a direction from ecliptic longitude and latitude.
func DirectionFromEcliptic(lonDeg, latDeg float64) Direction {
	return Direction{SphericalToVec3(lonDeg, latDeg)}
}

// Vec returns the unit vector.
func (d Direction) Vec() Vec3 {
	return d.v
}

// IsZero reports whether d is the zero value.
func (d Direction) IsZero() bool {
	return d.v == Vec3{}
}

// Equatorial returns right ascension and declination in degrees (J2000).
func (d Direction) Equatorial() (raDeg, decDeg float64) {
	eq := EclipticToEquatorial(d.v)
	raDeg = radToDeg(math.Atan2(eq.Y, eq.X))
	if raDeg < 0 {
		raDeg += 360
	}
	decDeg = radToDeg(math.Asin(clamp(eq.Z, -1, 1)))
	return raDeg, decDeg
}

// Ecliptic returns ecliptic longitude and latitude in degrees.
func (d Direction) Ecliptic() (lonDeg, latDeg float64) {
	return EclipticLongitude(d.v), EclipticLatitude(d.v)
}

// AngleTo returns the angle between two directions in degrees.
func (d Direction) AngleTo(o Direction) float64 {
	return radToDeg(math.Acos(clamp(d.v.Dot(o.v), -1, 1)))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
