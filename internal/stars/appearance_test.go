package stars

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-stellar/internal/astro"
)

func testAppearance() Appearance {
	return Appearance{
		Name:        "Schnuffelpuff",
		Illuminance: 1,
		Color:       astro.DefaultStarColor,
		Direction:   astro.DirectionX,
	}
}

func TestApparentlyTheSame(t *testing.T) {
	a := testAppearance()
	assert.True(t, ApparentlyTheSame(a, a))

	moved := a
	moved.Direction = astro.DirectionY
	assert.False(t, ApparentlyTheSame(a, moved))

	brighter := a
	brighter.Illuminance = 100
	assert.False(t, ApparentlyTheSame(a, brighter))

	slightly := a
	slightly.Illuminance = 5
	slightly.Direction = astro.DirectionFromEcliptic(0.01, 0)
	assert.True(t, ApparentlyTheSame(a, slightly))
}

func TestStar_Appearance(t *testing.T) {
	s := FromReal(astro.DefaultStarCatalog().Stars[0])
	app := s.Appearance(0)

	assert.Equal(t, "Sirius", app.Name)
	assert.Equal(t, s.Color, app.Color)
	assert.Equal(t, s.Direction, app.Direction)
	assert.True(t, app.Visible())
	assert.InDelta(t, s.Illuminance(), app.Illuminance, 1e-18)
}

func TestStar_AppearanceAfterDeath(t *testing.T) {
	s, ok := FromTrajectory(sunTrack(), 4.6e9, 10)
	require.True(t, ok)

	dead := s.Appearance(1e10)
	assert.NotEqual(t, s.Color, dead.Color, "the remnant has a different temperature")
	assert.Less(t, dead.Illuminance, s.Appearance(0).Illuminance)
}

func TestExportPopulation(t *testing.T) {
	pop := []Star{
		FromReal(astro.DefaultStarCatalog().Stars[1]), // Canopus
		FromReal(astro.DefaultStarCatalog().Stars[0]), // Sirius
	}
	generatedAt := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	export := ExportPopulation(pop, 1000, 0, generatedAt)

	require.Len(t, export.Stars, 2)
	assert.Equal(t, "Canopus", export.Stars[0].Name)
	assert.InDelta(t, 95.988, export.Stars[0].RAdeg, 1e-6)
	assert.InDelta(t, -52.696, export.Stars[0].DecDeg, 1e-6)

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf))

	var decoded PopulationExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, generatedAt, decoded.GeneratedAt)
	assert.Equal(t, "Sirius", decoded.Stars[1].Name)
	assert.Equal(t, "white dwarf", decoded.Stars[1].Fate)
	assert.Contains(t, buf.String(), `"color": "#`)
}

func TestWriteSummaryTable(t *testing.T) {
	pop := []Star{
		FromReal(astro.DefaultStarCatalog().Stars[1]),
		FromReal(astro.DefaultStarCatalog().Stars[0]),
	}
	var buf bytes.Buffer
	WriteSummaryTable(&buf, pop, 1000, 0, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	out := buf.String()

	assert.Contains(t, out, "Visible stars within 1.00 kly")
	assert.Less(t, strings.Index(out, "Sirius"), strings.Index(out, "Canopus"), "brightest first")
	assert.Contains(t, out, "Total: 2 visible stars")

	buf.Reset()
	WriteSummaryTable(&buf, nil, 10, 0, time.Now())
	assert.Contains(t, buf.String(), "No visible stars")
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatDistance(0), "0 ly"},
		{FormatDistance(4.37), "4.37 ly"},
		{FormatDistance(42.9), "42.9 ly"},
		{FormatDistance(773), "773 ly"},
		{FormatDistance(2500), "2.50 kly"},
		{FormatYears(0), "0 yr"},
		{FormatYears(500), "500 yr"},
		{FormatYears(4.6e9), "4.60 Gyr"},
		{FormatYears(2.42e8), "242 Myr"},
		{FormatYears(-1500), "-1.50 kyr"},
		{truncateStr("Rigil Kentaurus A", 16), "Rigil Kentauru.."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
