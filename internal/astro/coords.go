// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"
)

const (
	unixEpochJD   = 2440587.5
	j2000JD       = 2451545.0
	secondsPerDay = 86400.0
)

// SkyCoord is a point on the sky in equatorial (J2000) and horizontal
// coordinates.
type SkyCoord struct {
	RAdeg  float64 // [0, 360)
	DecDeg float64 // [-90, 90]

	AzDeg float64 // 0 north, 90 east
	ElDeg float64 // 0 horizon, 90 zenith

	DistanceLy float64 // 0 when unknown
}

// Observer is a site on the ground.
type Observer struct {
	LatDeg float64 // north positive
	LonDeg float64 // east positive
	Name   string
}

// EquatorialToHorizontal fills in azimuth and elevation of eq as seen by obs
// at t. Equatorial coordinates and distance are carried over unchanged.
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)
	ha := degToRad(localSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	sinLat, cosLat := math.Sincos(lat)
	sinDec, cosDec := math.Sincos(dec)
	sinHA, cosHA := math.Sincos(ha)

	el := math.Asin(clamp(sinDec*sinLat+cosDec*cosLat*cosHA, -1, 1))
	az := math.Atan2(-cosDec*sinHA, sinDec*cosLat-cosDec*sinLat*cosHA)

	out := eq
	out.AzDeg = wrapDegrees(radToDeg(az))
	out.ElDeg = radToDeg(el)
	return out
}

// DirectionToHorizontal places an ecliptic direction in the observer's sky.
func DirectionToHorizontal(dir Direction, distanceLy float64, obs Observer, t time.Time) SkyCoord {
	ra, dec := dir.Equatorial()
	return EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec, DistanceLy: distanceLy}, obs, t)
}

// localSiderealTime is the mean sidereal time at longitude lonDeg, in degrees.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return wrapDegrees(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime uses the IAU 1982 expression, in degrees.
func greenwichMeanSiderealTime(t time.Time) float64 {
	d := julianDate(t) - j2000JD
	c := d / 36525
	return wrapDegrees(280.46061837 + 360.98564736629*d + 0.000387933*c*c - c*c*c/38710000)
}

func julianDate(t time.Time) float64 {
	return unixEpochJD + (float64(t.Unix())+float64(t.Nanosecond())/1e9)/secondsPerDay
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
