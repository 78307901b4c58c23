// Package evolution extrapolates a star's physical properties over simulated
// time: linear drift while the star lives, and its fate after it dies.
package evolution

import "math"

const (
	// evolutionTimescaleYears is the drift below which a living star is
	// considered unchanged.
	evolutionTimescaleYears = 1000.0

	// deathTimescaleYears is the window around death that always counts as a change.
	deathTimescaleYears = 1.0
)

// Sample is one set of property values of a star. Nil means unknown.
type Sample struct {
	Mass        *float64 // Solar masses
	Radius      *float64 // Solar radii
	Luminosity  *float64 // Solar luminosities
	Temperature float64  // Kelvin
}

// Lifestage holds linear per-year rates of change.
type Lifestage struct {
	MassPerYear        float64
	RadiusPerYear      float64
	LuminosityPerYear  float64
	TemperaturePerYear float64
}

// NewLifestage derives rates from two samples of the same star taken years
// apart. A channel unknown in either sample gets a zero rate.
func NewLifestage(now, then Sample, years float64) Lifestage {
	return Lifestage{
		MassPerYear:        rate(now.Mass, then.Mass, years),
		RadiusPerYear:      rate(now.Radius, then.Radius, years),
		LuminosityPerYear:  rate(now.Luminosity, then.Luminosity, years),
		TemperaturePerYear: (now.Temperature - then.Temperature) / years,
	}
}

func rate(now, then *float64, years float64) float64 {
	if now == nil || then == nil {
		return 0
	}
	return (*now - *then) / years
}

// Evolution describes how a star changes with time since the epoch of its
// base values. The zero value is None.
type Evolution struct {
	lifestage *Lifestage
	age       *float64
	lifetime  float64
	fate      Fate
}

// None is the evolution of a star nothing is known about.
var None = Evolution{fate: WhiteDwarf}

// New creates an evolution. A nil age means the star never dies.
func New(lifestage *Lifestage, ageYears *float64, lifetimeYears float64, fate Fate) Evolution {
	e := Evolution{lifetime: lifetimeYears, fate: fate}
	if lifestage != nil {
		ls := *lifestage
		e.lifestage = &ls
	}
	if ageYears != nil {
		a := *ageYears
		e.age = &a
	}
	return e
}

// Age returns the age at the epoch in years, if known.
func (e Evolution) Age() (float64, bool) {
	if e.age == nil {
		return 0, false
	}
	return *e.age, true
}

// Lifetime returns the total expected lifetime in years.
func (e Evolution) Lifetime() float64 { return e.lifetime }

// Fate returns the terminal outcome.
func (e Evolution) Fate() Fate { return e.fate }

// Lifestage returns the drift rates, if any.
func (e Evolution) Lifestage() (Lifestage, bool) {
	if e.lifestage == nil {
		return Lifestage{}, false
	}
	return *e.lifestage, true
}

// MassPerYear is the mass drift in solar masses per year, 0 without drift rates.
func (e Evolution) MassPerYear() float64 { return e.rates().MassPerYear }

// RadiusPerYear is the radius drift in solar radii per year, 0 without drift rates.
func (e Evolution) RadiusPerYear() float64 { return e.rates().RadiusPerYear }

// LuminosityPerYear is the luminosity drift in solar luminosities per year,
// 0 without drift rates.
func (e Evolution) LuminosityPerYear() float64 { return e.rates().LuminosityPerYear }

// TemperaturePerYear is the temperature drift in kelvin per year, 0 without drift rates.
func (e Evolution) TemperaturePerYear() float64 { return e.rates().TemperaturePerYear }

func (e Evolution) rates() Lifestage {
	if e.lifestage == nil {
		return Lifestage{}
	}
	return *e.lifestage
}

// TimeUntilDeath returns lifetime - age - yearsSinceEpoch. It is negative
// after death and unavailable when the age is unknown.
func (e Evolution) TimeUntilDeath(yearsSinceEpoch float64) (float64, bool) {
	if e.age == nil {
		return 0, false
	}
	return e.lifetime - *e.age - yearsSinceEpoch, true
}

// yearsSinceDeath reports how long the star has been dead at t, if it has.
func (e Evolution) yearsSinceDeath(t float64) (float64, bool) {
	ttd, ok := e.TimeUntilDeath(t)
	if !ok || ttd >= 0 {
		return 0, false
	}
	return -ttd, true
}

// ApplyToMass returns the mass at t years after the epoch given the base mass.
func (e Evolution) ApplyToMass(massSolar, t float64) float64 {
	if dead, ok := e.yearsSinceDeath(t); ok {
		return e.fate.Mass(massSolar, dead)
	}
	return massSolar + e.rates().MassPerYear*t
}

// ApplyToRadius returns the radius at t years after the epoch.
func (e Evolution) ApplyToRadius(radiusSolar, t float64) float64 {
	if dead, ok := e.yearsSinceDeath(t); ok {
		return e.fate.Radius(radiusSolar, dead)
	}
	return radiusSolar + e.rates().RadiusPerYear*t
}

// ApplyToLuminosity returns the luminosity at t years after the epoch.
func (e Evolution) ApplyToLuminosity(luminositySolar, t float64) float64 {
	if dead, ok := e.yearsSinceDeath(t); ok {
		return e.fate.Luminosity(luminositySolar, dead)
	}
	return luminositySolar + e.rates().LuminosityPerYear*t
}

// ApplyToTemperature returns the temperature at t years after the epoch.
func (e Evolution) ApplyToTemperature(temperatureK, t float64) float64 {
	if dead, ok := e.yearsSinceDeath(t); ok {
		return e.fate.Temperature(temperatureK, dead)
	}
	return temperatureK + e.rates().TemperaturePerYear*t
}

// HasChanged reports whether a cached appearance computed at then is stale
// at now: death falls within a year of now, or the star drifts and more
// than a thousand years separate the two.
func (e Evolution) HasChanged(then, now float64) bool {
	if ttd, ok := e.TimeUntilDeath(now); ok && math.Abs(ttd) < deathTimescaleYears {
		return true
	}
	return e.lifestage != nil && math.Abs(then-now) > evolutionTimescaleYears
}
