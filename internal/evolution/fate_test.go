package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFateForMass(t *testing.T) {
	tests := []struct {
		mass float64
		want Fate
	}{
		{0.1, WhiteDwarf},
		{1.0, WhiteDwarf},
		{7.99, WhiteDwarf},
		{8.0, TypeIISupernova},
		{20, TypeIISupernova},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FateForMass(tt.mass), "FateForMass(%v)", tt.mass)
	}
}

func TestParseFate(t *testing.T) {
	for _, f := range []Fate{WhiteDwarf, TypeIISupernova} {
		got, err := ParseFate(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFate("WHITE_DWARF")
	require.NoError(t, err)
	assert.Equal(t, WhiteDwarf, got)

	_, err = ParseFate("black hole")
	assert.Error(t, err)
	assert.Equal(t, "Fate(7)", Fate(7).String())
}

func TestWhiteDwarf(t *testing.T) {
	assert.InDelta(t, 0.503, WhiteDwarf.Mass(1, 0), 1e-9)
	assert.Equal(t, chandrasekharMassSolar, WhiteDwarf.Mass(50, 0))
	assert.Equal(t, whiteDwarfRadiusSolar, WhiteDwarf.Radius(100, 0))

	assert.Equal(t, whiteDwarfInitialTempK, WhiteDwarf.Temperature(5000, 0))
	prev := WhiteDwarf.Temperature(0, 0)
	for _, years := range []float64{1e3, 1e6, 1e8, 1e10} {
		cur := WhiteDwarf.Temperature(0, years)
		assert.Less(t, cur, prev, "cooling at %v years", years)
		prev = cur
	}
	assert.Equal(t, whiteDwarfMinTempK, WhiteDwarf.Temperature(0, 1e20))

	assert.Greater(t, WhiteDwarf.Luminosity(1, 0), WhiteDwarf.Luminosity(1, 1e9))
}

func TestTypeIISupernova(t *testing.T) {
	assert.Equal(t, neutronStarMassSolar, TypeIISupernova.Mass(20, 0))
	assert.InDelta(t, 1.437e-5, TypeIISupernova.Radius(20, 0), 1e-7)

	assert.Equal(t, supernovaPeakLum, TypeIISupernova.Luminosity(1e5, 0.1))
	assert.Equal(t, supernovaPeakLum, TypeIISupernova.Luminosity(1e5, supernovaPlateauYears))
	assert.Less(t, TypeIISupernova.Luminosity(1e5, 1), supernovaPeakLum)
	assert.Equal(t, remnantLuminosity, TypeIISupernova.Luminosity(1e5, 1e3))

	assert.Equal(t, supernovaPhotosphereK, TypeIISupernova.Temperature(3000, 0.1))
	assert.Equal(t, neutronStarTempK, TypeIISupernova.Temperature(3000, 10))
}
