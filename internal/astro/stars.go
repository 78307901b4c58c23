package astro

// ReferenceStar is a real, named star with measured physical properties.
// Zero values mark unknown quantities.
type ReferenceStar struct {
	Name   string  // Common name (e.g., "Sirius", "Vega")
	RAdeg  float64 // Right Ascension in degrees (J2000)
	DecDeg float64 // Declination in degrees (J2000)
	Mag    float64 // Apparent visual magnitude (lower = brighter)
	AbsMag float64 // Absolute visual magnitude

	MassSolar    float64
	RadiusSolar  float64
	TemperatureK float64
	AgeYears     float64
	DistanceLy   float64
}

// LuminositySolar returns the luminosity implied by the absolute magnitude.
func (s ReferenceStar) LuminositySolar() float64 {
	return AbsoluteMagnitudeToLuminosity(s.AbsMag)
}

// Direction returns the ecliptic direction of the star.
func (s ReferenceStar) Direction() Direction {
	return DirectionFromEquatorial(s.RAdeg, s.DecDeg)
}

// Sun is the reference data for the Sun as seen from Earth.
var Sun = ReferenceStar{
	Name:         "Sun",
	Mag:          -26.74,
	AbsMag:       SunAbsoluteMagnitude,
	MassSolar:    1,
	RadiusSolar:  1,
	TemperatureK: SunTemperatureK,
	AgeYears:     4.6e9,
	DistanceLy:   MetersPerAU / MetersPerLightYear,
}

// StarCatalog holds a collection of reference stars.
type StarCatalog struct {
	Stars []ReferenceStar
}

// DefaultStarCatalog returns bright stars with well-measured physical data,
// ordered by apparent magnitude (brightest first).
// Coordinates are J2000 epoch.
func DefaultStarCatalog() StarCatalog {
	return StarCatalog{
		Stars: defaultStars,
	}
}

var defaultStars = []ReferenceStar{
	{Name: "Sirius", RAdeg: 101.287, DecDeg: -16.716, Mag: -1.46, AbsMag: 1.42,
		MassSolar: 2.063, RadiusSolar: 1.711, TemperatureK: 9940, AgeYears: 0.242e9, DistanceLy: 8.6},
	{Name: "Canopus", RAdeg: 95.988, DecDeg: -52.696, Mag: -0.74, AbsMag: -5.53,
		MassSolar: 8.0, RadiusSolar: 71, TemperatureK: 7400, AgeYears: 0.025e9, DistanceLy: 310},
	{Name: "Rigil Kentaurus", RAdeg: 219.902, DecDeg: -60.834, Mag: 0.01, AbsMag: 4.38,
		MassSolar: 1.1, RadiusSolar: 1.2234, TemperatureK: 5790, AgeYears: 5.3e9, DistanceLy: 4.37},
	{Name: "Arcturus", RAdeg: 213.915, DecDeg: 19.182, Mag: -0.05, AbsMag: -0.30,
		MassSolar: 1.08, RadiusSolar: 25.4, TemperatureK: 4286, AgeYears: 7.1e9, DistanceLy: 36.7},
	{Name: "Vega", RAdeg: 279.235, DecDeg: 38.784, Mag: 0.03, AbsMag: 0.58,
		MassSolar: 2.135, RadiusSolar: 2.36, TemperatureK: 9602, AgeYears: 0.455e9, DistanceLy: 25.04},
	{Name: "Capella", RAdeg: 79.172, DecDeg: 45.998, Mag: 0.08, AbsMag: -0.48,
		MassSolar: 2.57, RadiusSolar: 11.98, TemperatureK: 4970, AgeYears: 0.59e9, DistanceLy: 42.9},
	{Name: "Rigel", RAdeg: 78.634, DecDeg: -8.202, Mag: 0.13, AbsMag: -6.69,
		MassSolar: 21, RadiusSolar: 78.9, TemperatureK: 12100, AgeYears: 0.008e9, DistanceLy: 773},
	{Name: "Procyon", RAdeg: 114.826, DecDeg: 5.225, Mag: 0.34, AbsMag: 2.66,
		MassSolar: 1.499, RadiusSolar: 2.048, TemperatureK: 6530, AgeYears: 1.87e9, DistanceLy: 11.46},
	{Name: "Betelgeuse", RAdeg: 88.793, DecDeg: 7.407, Mag: 0.50, AbsMag: -5.6,
		MassSolar: 16.5, RadiusSolar: 887, TemperatureK: 3600, AgeYears: 0.008e9, DistanceLy: 548},
	{Name: "Altair", RAdeg: 297.696, DecDeg: 8.868, Mag: 0.76, AbsMag: 2.22,
		MassSolar: 1.86, RadiusSolar: 1.63, TemperatureK: 7700, AgeYears: 0.1e9, DistanceLy: 16.73},
	{Name: "Aldebaran", RAdeg: 68.980, DecDeg: 16.509, Mag: 0.85, AbsMag: -0.64,
		MassSolar: 1.16, RadiusSolar: 44.2, TemperatureK: 3910, AgeYears: 6.4e9, DistanceLy: 65.3},
	{Name: "Spica", RAdeg: 201.298, DecDeg: -11.161, Mag: 0.97, AbsMag: -3.55,
		MassSolar: 11.43, RadiusSolar: 7.47, TemperatureK: 25300, AgeYears: 0.0125e9, DistanceLy: 250},
	{Name: "Polaris", RAdeg: 37.954, DecDeg: 89.264, Mag: 1.98, AbsMag: -3.6,
		MassSolar: 5.4, RadiusSolar: 37.5, TemperatureK: 6015, AgeYears: 0.07e9, DistanceLy: 433},
}
