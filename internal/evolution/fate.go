package evolution

import (
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-stellar/internal/astro"
)

// Fate is the terminal outcome of a star.
type Fate int

const (
	WhiteDwarf Fate = iota
	TypeIISupernova
)

// supernovaMinMassSolar is the initial mass from which a star ends in a
// core-collapse supernova.
const supernovaMinMassSolar = 8.0

const (
	chandrasekharMassSolar = 1.44
	whiteDwarfRadiusSolar  = 0.0126
	whiteDwarfInitialTempK = 1e5
	whiteDwarfMinTempK     = 3000.0

	neutronStarMassSolar   = 1.4
	neutronStarRadiusSolar = 10e3 / astro.SolarRadiusM
	neutronStarTempK       = 1e6
	supernovaPeakLum       = 1e9
	supernovaPlateauYears  = 0.3
	supernovaDecayYears    = 0.3
	supernovaPhotosphereK  = 6000.0
	remnantLuminosity      = 1e-6
)

// FateForMass returns the fate of a star of the given initial mass.
func FateForMass(initialMassSolar float64) Fate {
	if initialMassSolar < supernovaMinMassSolar {
		return WhiteDwarf
	}
	return TypeIISupernova
}

func (f Fate) String() string {
	switch f {
	case WhiteDwarf:
		return "white dwarf"
	case TypeIISupernova:
		return "type II supernova"
	default:
		return fmt.Sprintf("Fate(%d)", int(f))
	}
}

// ParseFate parses the output of Fate.String. Underscores and case are ignored.
func ParseFate(s string) (Fate, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
	switch norm {
	case "white dwarf", "whitedwarf":
		return WhiteDwarf, nil
	case "type ii supernova", "typeiisupernova", "supernova":
		return TypeIISupernova, nil
	}
	return WhiteDwarf, fmt.Errorf("unknown fate %q", s)
}

// Mass returns the remnant mass yearsSinceDeath after death of a star that
// had massSolar when it died.
func (f Fate) Mass(massSolar, yearsSinceDeath float64) float64 {
	switch f {
	case TypeIISupernova:
		return neutronStarMassSolar
	default:
		return math.Min(0.109*massSolar+0.394, chandrasekharMassSolar)
	}
}

// Radius returns the remnant radius in solar radii.
func (f Fate) Radius(radiusSolar, yearsSinceDeath float64) float64 {
	switch f {
	case TypeIISupernova:
		return neutronStarRadiusSolar
	default:
		return whiteDwarfRadiusSolar
	}
}

// Luminosity returns the luminosity in solar units.
func (f Fate) Luminosity(luminositySolar, yearsSinceDeath float64) float64 {
	switch f {
	case TypeIISupernova:
		if yearsSinceDeath <= supernovaPlateauYears {
			return supernovaPeakLum
		}
		decayed := supernovaPeakLum * math.Exp(-(yearsSinceDeath-supernovaPlateauYears)/supernovaDecayYears)
		return math.Max(decayed, remnantLuminosity)
	default:
		return astro.StefanBoltzmannLuminosity(whiteDwarfRadiusSolar, f.Temperature(0, yearsSinceDeath))
	}
}

// Temperature returns the temperature in kelvin.
func (f Fate) Temperature(temperatureK, yearsSinceDeath float64) float64 {
	switch f {
	case TypeIISupernova:
		if yearsSinceDeath <= supernovaPlateauYears {
			return supernovaPhotosphereK
		}
		return neutronStarTempK
	default:
		t := whiteDwarfInitialTempK * math.Pow(1+yearsSinceDeath/1e6, -0.4)
		return math.Max(t, whiteDwarfMinTempK)
	}
}
