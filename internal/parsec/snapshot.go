package parsec

import (
	"math"

	"github.com/litescript/ls-stellar/internal/astro"
)

// Snapshot is one tabulated point of a track.
type Snapshot struct {
	Mass  float64 // Solar masses
	Age   float64 // Years
	LogL  float64 // log10(L / L_sun)
	LogTe float64 // log10(T_eff / K)
	LogR  float64 // log10(R / cm)
}

// LuminositySolar returns the luminosity in solar units.
func (s Snapshot) LuminositySolar() float64 {
	return math.Pow(10, s.LogL)
}

// TemperatureK returns the effective temperature in kelvin.
func (s Snapshot) TemperatureK() float64 {
	return math.Pow(10, s.LogTe)
}

// RadiusCm returns the radius in centimetres.
func (s Snapshot) RadiusCm() float64 {
	return math.Pow(10, s.LogR)
}

// RadiusSolar returns the radius in solar radii.
func (s Snapshot) RadiusSolar() float64 {
	return s.RadiusCm() / astro.SolarRadiusCm
}

// AbsoluteMagnitude returns the absolute visual magnitude.
func (s Snapshot) AbsoluteMagnitude() float64 {
	return astro.LuminosityToAbsoluteMagnitude(s.LuminositySolar())
}

// Illuminance returns the illuminance in lux seen from distanceLy light years.
func (s Snapshot) Illuminance(distanceLy float64) float64 {
	return astro.Illuminance(s.LuminositySolar(), distanceLy)
}

// ApparentMagnitude returns the apparent magnitude seen from distanceLy light years.
func (s Snapshot) ApparentMagnitude(distanceLy float64) float64 {
	return astro.ApparentMagnitude(s.AbsoluteMagnitude(), astro.LightYearsToMeters(distanceLy))
}
