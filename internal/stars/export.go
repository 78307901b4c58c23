package stars

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PopulationExport is the JSON-serializable representation of a population.
type PopulationExport struct {
	GeneratedAt   time.Time    `json:"generated_at"`
	MaxDistanceLy float64      `json:"max_distance_ly"`
	YearsSince    float64      `json:"years_since_epoch"`
	Stars         []StarExport `json:"stars"`
}

// StarExport is a JSON-friendly star with derived fields.
type StarExport struct {
	Name              string   `json:"name,omitempty"`
	MassSolar         float64  `json:"mass_solar"`
	AgeYears          *float64 `json:"age_years,omitempty"`
	LifetimeYears     float64  `json:"lifetime_years,omitempty"`
	Fate              string   `json:"fate"`
	LuminositySolar   float64  `json:"luminosity_solar"`
	TemperatureK      float64  `json:"temperature_k"`
	RadiusSolar       *float64 `json:"radius_solar,omitempty"`
	Color             string   `json:"color"`
	DistanceLy        float64  `json:"distance_ly"`
	RAdeg             float64  `json:"ra_deg"`
	DecDeg            float64  `json:"dec_deg"`
	ApparentMagnitude float64  `json:"apparent_magnitude"`
}

// ExportStar converts a star, evolved to yearsSinceEpoch, to its exportable form.
func ExportStar(s Star, yearsSinceEpoch float64) StarExport {
	p := s.At(yearsSinceEpoch)
	app := s.Appearance(yearsSinceEpoch)
	ra, dec := s.Direction.Equatorial()
	return StarExport{
		Name:              s.Name,
		MassSolar:         p.MassSolar,
		AgeYears:          s.AgeYears,
		LifetimeYears:     s.Evolution.Lifetime(),
		Fate:              s.Evolution.Fate().String(),
		LuminositySolar:   p.LuminositySolar,
		TemperatureK:      p.TemperatureK,
		RadiusSolar:       p.RadiusSolar,
		Color:             app.Color.Hex(),
		DistanceLy:        s.DistanceLy,
		RAdeg:             ra,
		DecDeg:            dec,
		ApparentMagnitude: app.ApparentMagnitude(),
	}
}

// ExportPopulation converts a population to an exportable format.
func ExportPopulation(population []Star, maxDistanceLy, yearsSinceEpoch float64, generatedAt time.Time) *PopulationExport {
	export := &PopulationExport{
		GeneratedAt:   generatedAt,
		MaxDistanceLy: maxDistanceLy,
		YearsSince:    yearsSinceEpoch,
		Stars:         make([]StarExport, 0, len(population)),
	}
	for _, s := range population {
		export.Stars = append(export.Stars, ExportStar(s, yearsSinceEpoch))
	}
	return export
}

// WriteJSON writes the population as JSON to the given writer.
func (p *PopulationExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Name        string
	Mass        string
	Age         string
	Temperature string
	Distance    string
	Magnitude   float64
	Fate        string
}

// GenerateSummaryRows creates summary rows, brightest first.
func GenerateSummaryRows(population []Star, yearsSinceEpoch float64) []SummaryRow {
	exports := make([]StarExport, 0, len(population))
	for _, s := range population {
		exports = append(exports, ExportStar(s, yearsSinceEpoch))
	}
	sort.SliceStable(exports, func(i, j int) bool {
		return exports[i].ApparentMagnitude < exports[j].ApparentMagnitude
	})

	rows := make([]SummaryRow, 0, len(exports))
	for i, e := range exports {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		age := "N/A"
		if e.AgeYears != nil {
			age = FormatYears(*e.AgeYears)
		}
		rows = append(rows, SummaryRow{
			Name:        name,
			Mass:        formatWithUnit(e.MassSolar, "M☉"),
			Age:         age,
			Temperature: formatWithUnit(e.TemperatureK, "K"),
			Distance:    FormatDistance(e.DistanceLy),
			Magnitude:   e.ApparentMagnitude,
			Fate:        e.Fate,
		})
	}
	return rows
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, population []Star, maxDistanceLy, yearsSinceEpoch float64, timestamp time.Time) {
	rows := GenerateSummaryRows(population, yearsSinceEpoch)

	fmt.Fprintf(w, "Visible stars within %s @ %s (+%s)\n",
		FormatDistance(maxDistanceLy), timestamp.Format(time.RFC3339), FormatYears(yearsSinceEpoch))
	fmt.Fprintln(w, strings.Repeat("─", 80))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No visible stars")
		return
	}

	fmt.Fprintf(w, "%-16s %-10s %-10s %-10s %-10s %6s  %-18s\n",
		"Star", "Mass", "Age", "Temp", "Distance", "Mag", "Fate")
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, r := range rows {
		fmt.Fprintf(w, "%-16s %-10s %-10s %-10s %-10s %6.2f  %-18s\n",
			truncateStr(r.Name, 16),
			r.Mass,
			r.Age,
			r.Temperature,
			r.Distance,
			r.Magnitude,
			r.Fate,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d visible stars\n", len(rows))
}

// FormatDistance returns a human-readable distance string.
func FormatDistance(ly float64) string {
	switch {
	case ly <= 0:
		return "0 ly"
	case ly < 1e3:
		return formatWithUnit(ly, "ly")
	case ly < 1e6:
		return formatWithUnit(ly/1e3, "kly")
	default:
		return formatWithUnit(ly/1e6, "Mly")
	}
}

// FormatYears returns a human-readable duration in years.
func FormatYears(years float64) string {
	switch {
	case years == 0:
		return "0 yr"
	case years < 0:
		return "-" + FormatYears(-years)
	case years < 1e3:
		return formatWithUnit(years, "yr")
	case years < 1e6:
		return formatWithUnit(years/1e3, "kyr")
	case years < 1e9:
		return formatWithUnit(years/1e6, "Myr")
	default:
		return formatWithUnit(years/1e9, "Gyr")
	}
}

func formatWithUnit(value float64, unit string) string {
	if value < 10 {
		return strconv.FormatFloat(value, 'f', 2, 64) + " " + unit
	} else if value < 100 {
		return strconv.FormatFloat(value, 'f', 1, 64) + " " + unit
	}
	return strconv.FormatFloat(value, 'f', 0, 64) + " " + unit
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
