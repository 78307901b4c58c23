package astro

import "math"

// Length and luminosity reference values used throughout the star models.
const (
	MetersPerLightYear = 9.4607304725808e15
	MetersPerParsec    = 3.0856775814913673e16
	MetersPerAU        = AU * 1000

	SolarRadiusCm = 6.957e10
	SolarRadiusM  = SolarRadiusCm / 100

	// SunAbsoluteMagnitude is the visual absolute magnitude of the Sun.
	SunAbsoluteMagnitude = 4.83

	// SunTemperatureK is the effective temperature of the Sun.
	SunTemperatureK = 5772.0

	// illuminanceAtMagnitudeZero is the illuminance of a magnitude 0 source in lux.
	illuminanceAtMagnitudeZero = 2.6e-6

	// NakedEyeLimitMagnitude is the faintest apparent magnitude visible without aid.
	NakedEyeLimitMagnitude = 6.5
)

// DimmestIlluminance is the faintest illuminance (lux) a star may have and
// still be kept by the population generator. It corresponds to an apparent
// magnitude of 6.5.
const DimmestIlluminance = 6.5309e-9

// LightYearsToMeters converts light years to meters.
func LightYearsToMeters(ly float64) float64 {
	return ly * MetersPerLightYear
}

// MetersToLightYears converts meters to light years.
func MetersToLightYears(m float64) float64 {
	return m / MetersPerLightYear
}

// LuminosityToAbsoluteMagnitude converts a luminosity in solar units to an
// absolute magnitude.
func LuminosityToAbsoluteMagnitude(solarLuminosities float64) float64 {
	return SunAbsoluteMagnitude - 2.5*math.Log10(solarLuminosities)
}

// AbsoluteMagnitudeToLuminosity converts an absolute magnitude to a
// luminosity in solar units.
func AbsoluteMagnitudeToLuminosity(absMag float64) float64 {
	return math.Pow(10, (SunAbsoluteMagnitude-absMag)/2.5)
}

// ApparentMagnitude returns the apparent magnitude of a source with the given
// absolute magnitude seen from distanceM meters away.
func ApparentMagnitude(absMag, distanceM float64) float64 {
	return absMag + 5*math.Log10(distanceM/(10*MetersPerParsec))
}

// MagnitudeToIlluminance converts an apparent magnitude to lux.
func MagnitudeToIlluminance(mag float64) float64 {
	return illuminanceAtMagnitudeZero * math.Pow(10, -0.4*mag)
}

// IlluminanceToMagnitude converts lux to an apparent magnitude.
func IlluminanceToMagnitude(lux float64) float64 {
	return -2.5 * math.Log10(lux/illuminanceAtMagnitudeZero)
}

// Illuminance returns the illuminance in lux produced by a source of the given
// solar luminosity at distanceLy light years. A source at zero distance is
// infinitely bright.
func Illuminance(solarLuminosities, distanceLy float64) float64 {
	if distanceLy <= 0 {
		return math.Inf(1)
	}
	if solarLuminosities <= 0 {
		return 0
	}
	absMag := LuminosityToAbsoluteMagnitude(solarLuminosities)
	return MagnitudeToIlluminance(ApparentMagnitude(absMag, LightYearsToMeters(distanceLy)))
}

// StefanBoltzmannLuminosity returns the luminosity in solar units of a
// blackbody with the given radius (solar radii) and temperature.
func StefanBoltzmannLuminosity(radiusSolar, temperatureK float64) float64 {
	t := temperatureK / SunTemperatureK
	return radiusSolar * radiusSolar * t * t * t * t
}
