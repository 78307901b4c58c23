package astro

import (
	"math"
	"time"
)

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac,
// accurate to about 0.01 degrees.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	jd := julianDate(t)

	// Julian centuries from J2000.0
	T := (jd - 2451545.0) / 36525.0

	// Mean longitude and mean anomaly (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// Apparent longitude, corrected for aberration and nutation
	omega := 125.04 - 1934.136*T
	sunLon := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	eps := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps += 0.00256 * math.Cos(degToRad(omega))

	sunLonRad := degToRad(sunLon)
	epsRad := degToRad(eps)

	raDeg = radToDeg(math.Atan2(math.Cos(epsRad)*math.Sin(sunLonRad), math.Cos(sunLonRad)))
	if raDeg < 0 {
		raDeg += 360
	}
	decDeg = radToDeg(math.Asin(math.Sin(epsRad) * math.Sin(sunLonRad)))

	return raDeg, decDeg
}

// SunElevation returns the Sun's elevation above the observer's horizon in degrees.
func SunElevation(obs Observer, t time.Time) float64 {
	ra, dec := SunPosition(t)
	return CurrentElevation(obs, ra, dec, t)
}

// Twilight is the sky brightness phase set by the Sun's elevation.
type Twilight int

const (
	Daylight             Twilight = iota // Sun above the horizon
	CivilTwilight                        // 0 to -6 degrees
	NauticalTwilight                     // -6 to -12 degrees
	AstronomicalTwilight                 // -12 to -18 degrees
	Night                                // below -18 degrees
)

// TwilightFor classifies a solar elevation.
func TwilightFor(sunElDeg float64) Twilight {
	switch {
	case sunElDeg > 0:
		return Daylight
	case sunElDeg > -6:
		return CivilTwilight
	case sunElDeg > -12:
		return NauticalTwilight
	case sunElDeg > -18:
		return AstronomicalTwilight
	default:
		return Night
	}
}

// TwilightAt returns the twilight phase for an observer at a given time.
func TwilightAt(obs Observer, t time.Time) Twilight {
	return TwilightFor(SunElevation(obs, t))
}

// LimitingMagnitude is the faintest apparent magnitude visible to the
// naked eye during the phase.
func (tw Twilight) LimitingMagnitude() float64 {
	switch tw {
	case Daylight:
		return -4
	case CivilTwilight:
		return 1
	case NauticalTwilight:
		return 3.5
	case AstronomicalTwilight:
		return 5.5
	default:
		return NakedEyeLimitMagnitude
	}
}

func (tw Twilight) String() string {
	switch tw {
	case Daylight:
		return "Daylight"
	case CivilTwilight:
		return "Civil twilight"
	case NauticalTwilight:
		return "Nautical twilight"
	case AstronomicalTwilight:
		return "Astronomical twilight"
	default:
		return "Night"
	}
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
