// Package stars holds star records built from evolutionary tracks or from
// real catalog entries, and what they look like at a given simulation time.
package stars

import (
	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/evolution"
	"github.com/litescript/ls-stellar/internal/parsec"
)

// Star is one star as seen from the observer at the epoch.
// Position fields may be updated in place after generation.
type Star struct {
	Name            string
	MassSolar       float64
	AgeYears        *float64
	LuminositySolar float64
	TemperatureK    float64
	Color           astro.Color
	RadiusSolar     *float64
	DistanceLy      float64
	Direction       astro.Direction
	Evolution       evolution.Evolution
}

// FromTrajectory builds the star of a track at ageYears placed distanceLy
// away. It reports false when the star is too faint to be seen from there.
// The trajectory must not be empty.
func FromTrajectory(traj parsec.Trajectory, ageYears, distanceLy float64) (Star, bool) {
	i := traj.ClosestSnapshotIndex(ageYears)
	snap := traj[i]
	if snap.Illuminance(distanceLy) < astro.DimmestIlluminance {
		return Star{}, false
	}

	age := snap.Age
	radius := snap.RadiusSolar()
	temp := snap.TemperatureK()

	var lifestage *evolution.Lifestage
	if i > 0 {
		prev := traj[i-1]
		if years := snap.Age - prev.Age; years > 0 {
			ls := evolution.NewLifestage(sampleOf(snap), sampleOf(prev), years)
			lifestage = &ls
		}
	}

	return Star{
		MassSolar:       snap.Mass,
		AgeYears:        &age,
		LuminositySolar: snap.LuminositySolar(),
		TemperatureK:    temp,
		Color:           astro.ColorFromTemperature(temp),
		RadiusSolar:     &radius,
		DistanceLy:      distanceLy,
		Direction:       astro.DirectionZ,
		Evolution: evolution.New(lifestage, &age, traj.LifeExpectancyYears(),
			evolution.FateForMass(traj[0].Mass)),
	}, true
}

func sampleOf(s parsec.Snapshot) evolution.Sample {
	mass, radius, lum := s.Mass, s.RadiusSolar(), s.LuminositySolar()
	return evolution.Sample{
		Mass:        &mass,
		Radius:      &radius,
		Luminosity:  &lum,
		Temperature: s.TemperatureK(),
	}
}

// FromReal builds a star from a reference catalog entry. Real stars carry no
// drift; only their fate is known.
func FromReal(r astro.ReferenceStar) Star {
	s := Star{
		Name:            r.Name,
		MassSolar:       r.MassSolar,
		LuminositySolar: r.LuminositySolar(),
		TemperatureK:    r.TemperatureK,
		Color:           astro.ColorFromTemperature(r.TemperatureK),
		DistanceLy:      r.DistanceLy,
		Direction:       r.Direction(),
		Evolution:       evolution.None,
	}
	if r.AgeYears > 0 {
		age := r.AgeYears
		s.AgeYears = &age
	}
	if r.RadiusSolar > 0 {
		radius := r.RadiusSolar
		s.RadiusSolar = &radius
	}
	return s
}

// Properties are the physical values of a star at some simulation time.
type Properties struct {
	MassSolar       float64
	RadiusSolar     *float64
	LuminositySolar float64
	TemperatureK    float64
}

// At returns the evolved properties yearsSinceEpoch after the epoch.
func (s Star) At(yearsSinceEpoch float64) Properties {
	e := s.Evolution
	p := Properties{
		MassSolar:       e.ApplyToMass(s.MassSolar, yearsSinceEpoch),
		LuminositySolar: e.ApplyToLuminosity(s.LuminositySolar, yearsSinceEpoch),
		TemperatureK:    e.ApplyToTemperature(s.TemperatureK, yearsSinceEpoch),
	}
	if s.RadiusSolar != nil {
		r := e.ApplyToRadius(*s.RadiusSolar, yearsSinceEpoch)
		p.RadiusSolar = &r
	}
	return p
}

// AbsoluteMagnitude returns the absolute visual magnitude at the epoch.
func (s Star) AbsoluteMagnitude() float64 {
	return astro.LuminosityToAbsoluteMagnitude(s.LuminositySolar)
}

// Illuminance returns the illuminance in lux at the epoch.
func (s Star) Illuminance() float64 {
	return astro.Illuminance(s.LuminositySolar, s.DistanceLy)
}

// SimilarWithinOrderOfMagnitude reports whether two descriptions of a star
// agree to within a factor of ten in mass, radius, temperature and age and
// to within one magnitude in brightness. Unknown values are not compared.
func SimilarWithinOrderOfMagnitude(a, b Star) bool {
	if !withinFactor(a.MassSolar, b.MassSolar, 10) {
		return false
	}
	if a.RadiusSolar != nil && b.RadiusSolar != nil && !withinFactor(*a.RadiusSolar, *b.RadiusSolar, 10) {
		return false
	}
	if d := a.AbsoluteMagnitude() - b.AbsoluteMagnitude(); d > 1 || d < -1 {
		return false
	}
	if !withinFactor(a.TemperatureK, b.TemperatureK, 10) {
		return false
	}
	if a.AgeYears != nil && b.AgeYears != nil && !withinFactor(*a.AgeYears, *b.AgeYears, 10) {
		return false
	}
	return true
}

func withinFactor(a, b, factor float64) bool {
	if a == 0 || b == 0 {
		return a == b
	}
	r := a / b
	return r >= 1/factor && r <= factor
}
