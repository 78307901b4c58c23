package stars

import (
	"github.com/litescript/ls-stellar/internal/astro"
)

// directionToleranceDeg is how far apart two directions may be and still count as the same.
const directionToleranceDeg = 0.03

// Appearance is what an observer sees of a star.
type Appearance struct {
	Name        string
	Illuminance float64 // lux
	Color       astro.Color
	Direction   astro.Direction
}

// ApparentMagnitude returns the apparent magnitude of the appearance.
func (a Appearance) ApparentMagnitude() float64 {
	return astro.IlluminanceToMagnitude(a.Illuminance)
}

// Visible reports whether the appearance is bright enough for the naked eye.
func (a Appearance) Visible() bool {
	return a.Illuminance >= astro.DimmestIlluminance
}

// Appearance returns how the star looks yearsSinceEpoch after the epoch.
func (s Star) Appearance(yearsSinceEpoch float64) Appearance {
	p := s.At(yearsSinceEpoch)
	color := s.Color
	if yearsSinceEpoch != 0 {
		color = astro.ColorFromTemperature(p.TemperatureK)
	}
	return Appearance{
		Name:        s.Name,
		Illuminance: astro.Illuminance(p.LuminositySolar, s.DistanceLy),
		Color:       color,
		Direction:   s.Direction,
	}
}

// ApparentlyTheSame reports whether two appearances sit at the same spot of
// the sky with brightness within a factor of ten.
func ApparentlyTheSame(a, b Appearance) bool {
	if a.Direction.AngleTo(b.Direction) > directionToleranceDeg {
		return false
	}
	if b.Illuminance == 0 {
		return a.Illuminance == 0
	}
	ratio := a.Illuminance / b.Illuminance
	return ratio >= 0.1 && ratio <= 10
}
