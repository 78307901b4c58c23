package stars

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/evolution"
	"github.com/litescript/ls-stellar/internal/parsec"
)

func sunTrack() parsec.Trajectory {
	logR := math.Log10(astro.SolarRadiusCm)
	return parsec.Trajectory{
		{Mass: 1.0, Age: 0, LogL: -0.16, LogTe: 3.748, LogR: logR - 0.06},
		{Mass: 1.0, Age: 4.6e9, LogL: 0, LogTe: math.Log10(astro.SunTemperatureK), LogR: logR},
		{Mass: 0.75, Age: 1.2e10, LogL: 3.2, LogTe: 3.53, LogR: logR + 2},
	}
}

func TestFromTrajectory(t *testing.T) {
	s, ok := FromTrajectory(sunTrack(), 4.5e9, 10)
	require.True(t, ok)

	assert.Equal(t, 1.0, s.MassSolar)
	require.NotNil(t, s.AgeYears)
	assert.Equal(t, 4.6e9, *s.AgeYears)
	assert.InDelta(t, 1.0, s.LuminositySolar, 1e-12)
	assert.InDelta(t, astro.SunTemperatureK, s.TemperatureK, 1e-9)
	require.NotNil(t, s.RadiusSolar)
	assert.InDelta(t, 1.0, *s.RadiusSolar, 1e-12)
	assert.Equal(t, 10.0, s.DistanceLy)
	assert.Equal(t, astro.ColorFromTemperature(s.TemperatureK), s.Color)

	e := s.Evolution
	assert.Equal(t, 1.2e10, e.Lifetime())
	assert.Equal(t, evolution.WhiteDwarf, e.Fate())
	ls, ok := e.Lifestage()
	require.True(t, ok)
	assert.InDelta(t, (1-math.Pow(10, -0.16))/4.6e9, ls.LuminosityPerYear, 1e-20)
}

func TestFromTrajectory_FirstSnapshotHasNoDrift(t *testing.T) {
	s, ok := FromTrajectory(sunTrack(), 0, 1)
	require.True(t, ok)
	_, ok = s.Evolution.Lifestage()
	assert.False(t, ok)
}

func TestFromTrajectory_TooFaint(t *testing.T) {
	// The Sun drops below magnitude 6.5 at about 70 light years.
	_, ok := FromTrajectory(sunTrack(), 4.6e9, 200)
	assert.False(t, ok)

	_, ok = FromTrajectory(sunTrack(), 4.6e9, 0)
	assert.True(t, ok, "a star at the observer is always visible")
}

func TestFromTrajectory_MassiveStarExplodes(t *testing.T) {
	traj := parsec.Trajectory{
		{Mass: 20, Age: 0, LogL: 4.7, LogTe: 4.53, LogR: 11.71},
		{Mass: 18, Age: 1e7, LogL: 5.1, LogTe: 3.6, LogR: 13.2},
	}
	s, ok := FromTrajectory(traj, 1e7, 100)
	require.True(t, ok)
	assert.Equal(t, evolution.TypeIISupernova, s.Evolution.Fate())
}

func TestStar_At(t *testing.T) {
	s, ok := FromTrajectory(sunTrack(), 4.6e9, 10)
	require.True(t, ok)

	now := s.At(0)
	assert.Equal(t, s.MassSolar, now.MassSolar)
	assert.Equal(t, s.LuminositySolar, now.LuminositySolar)
	assert.Equal(t, s.TemperatureK, now.TemperatureK)
	require.NotNil(t, now.RadiusSolar)
	assert.Equal(t, *s.RadiusSolar, *now.RadiusSolar)

	later := s.At(1e9)
	assert.Greater(t, later.LuminositySolar, now.LuminositySolar)

	dead := s.At(1e10)
	assert.Equal(t, evolution.WhiteDwarf.Mass(s.MassSolar, 1e10-7.4e9), dead.MassSolar)
}

func TestFromReal(t *testing.T) {
	s := FromReal(astro.DefaultStarCatalog().Stars[0])

	assert.Equal(t, "Sirius", s.Name)
	require.NotNil(t, s.AgeYears)
	require.NotNil(t, s.RadiusSolar)
	assert.Equal(t, 8.6, s.DistanceLy)
	assert.InDelta(t, -1.46, astro.IlluminanceToMagnitude(s.Illuminance()), 0.2)

	// Real stars never change.
	assert.Equal(t, s.LuminositySolar, s.At(1e12).LuminositySolar)

	noAge := FromReal(astro.ReferenceStar{Name: "x", TemperatureK: 5000, AbsMag: 1})
	assert.Nil(t, noAge.AgeYears)
	assert.Nil(t, noAge.RadiusSolar)
	assert.Nil(t, noAge.At(1).RadiusSolar)
}

func TestSimilarWithinOrderOfMagnitude(t *testing.T) {
	sun := FromReal(astro.Sun)
	assert.True(t, SimilarWithinOrderOfMagnitude(sun, sun))

	modelled, ok := FromTrajectory(sunTrack(), astro.Sun.AgeYears, 1)
	require.True(t, ok)
	assert.True(t, SimilarWithinOrderOfMagnitude(modelled, sun))

	heavy := sun
	heavy.MassSolar = 20
	assert.False(t, SimilarWithinOrderOfMagnitude(heavy, sun))

	bright := sun
	bright.LuminositySolar = 10
	assert.False(t, SimilarWithinOrderOfMagnitude(bright, sun))

	young := sun
	age := 1e8
	young.AgeYears = &age
	assert.False(t, SimilarWithinOrderOfMagnitude(young, sun))

	young.AgeYears = nil
	assert.True(t, SimilarWithinOrderOfMagnitude(young, sun))
}

func TestCatalogReproducesSun(t *testing.T) {
	cat, err := parsec.Load("../parsec/testdata/Z0.01")
	require.NoError(t, err)

	snap, ok := cat.ParamsForMassAndAge(astro.Sun.MassSolar, astro.Sun.AgeYears)
	require.True(t, ok)
	traj := parsec.Trajectory{snap}
	modelled, ok := FromTrajectory(traj, snap.Age, 1)
	require.True(t, ok)
	assert.True(t, SimilarWithinOrderOfMagnitude(modelled, FromReal(astro.Sun)))
}
