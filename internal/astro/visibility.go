package astro

import (
	"math"
	"time"
)

// Culmination returns the elevation in degrees of a fixed star at its upper
// transit across the observer's meridian.
func Culmination(obs Observer, decDeg float64) float64 {
	return 90 - math.Abs(obs.LatDeg-decDeg)
}

// Circumpolar reports whether a star at decDeg never sets for the observer.
func Circumpolar(obs Observer, decDeg float64) bool {
	if obs.LatDeg >= 0 {
		return decDeg > 90-obs.LatDeg
	}
	return decDeg < -90-obs.LatDeg
}

// NeverRises reports whether a star at decDeg stays below the observer's horizon.
func NeverRises(obs Observer, decDeg float64) bool {
	return Culmination(obs, decDeg) <= 0
}

// CurrentElevation computes the current elevation of an object at a given time.
func CurrentElevation(obs Observer, raDeg, decDeg float64, t time.Time) float64 {
	coord := SkyCoord{RAdeg: raDeg, DecDeg: decDeg}
	horiz := EquatorialToHorizontal(coord, obs, t)
	return horiz.ElDeg
}

// ElevationTier categorizes elevation for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}

func (t ElevationTier) String() string {
	switch t {
	case ElevationLow:
		return "low"
	case ElevationMedium:
		return "mid"
	case ElevationHigh:
		return "high"
	default:
		return "down"
	}
}
