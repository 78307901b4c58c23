package stars

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/evolution"
)

// At the pole every star's elevation equals its declination.
var pole = astro.Observer{LatDeg: 90, Name: "North Pole"}

func skyStar(name string, lum, decDeg float64) Star {
	age := 1e9
	return Star{
		Name:            name,
		MassSolar:       1,
		AgeYears:        &age,
		LuminositySolar: lum,
		TemperatureK:    astro.SunTemperatureK,
		Color:           astro.ColorFromTemperature(astro.SunTemperatureK),
		DistanceLy:      10,
		Direction:       astro.DirectionFromEquatorial(45, decDeg),
		Evolution:       evolution.New(nil, &age, 1e10, evolution.WhiteDwarf),
	}
}

func TestWriteMiniSky(t *testing.T) {
	pop := []Star{
		skyStar("Vesper", 100, 60),
		skyStar("", 1, 20),
		skyStar("Below", 100, -30),
	}

	var buf bytes.Buffer
	WriteMiniSky(&buf, pop, 0, DefaultMiniSkyConfig(pole, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	out := buf.String()

	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┘")
	assert.Contains(t, out, "Vesper")
	assert.Contains(t, out, "#2", "unnamed stars get their position")
	assert.NotContains(t, out, "Below")
	assert.Contains(t, out, "El 60°")

	// Vesper is listed before the dimmer star
	assert.Less(t, strings.Index(out, "Vesper"), strings.Index(out, "#2"))
}

func TestWriteMiniSky_LegendLimit(t *testing.T) {
	var pop []Star
	for i := 0; i < 8; i++ {
		pop = append(pop, skyStar("", 10, 45))
	}
	cfg := DefaultMiniSkyConfig(pole, time.Now())
	cfg.Legend = 3

	var buf bytes.Buffer
	WriteMiniSky(&buf, pop, 0, cfg)
	assert.Contains(t, buf.String(), "... and 5 more")
}

func TestWriteMiniSky_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteMiniSky(&buf, nil, 0, DefaultMiniSkyConfig(pole, time.Now()))
	assert.Contains(t, buf.String(), "No visible stars above the horizon")
}

func TestCompassRuler(t *testing.T) {
	r := compassRuler(8)
	assert.Equal(t, " N E S W  ", r)
}
