package astro

import (
	"fmt"
	"math"
)

// Color is an sRGB display color.
type Color struct {
	R, G, B uint8
}

// DefaultStarColor is used for stars of unknown temperature.
var DefaultStarColor = Color{R: 255, G: 255, B: 255}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorFromTemperature approximates the display color of a blackbody at the
// given temperature. The fit is valid between 1000 K and 40000 K; inputs
// outside that range are clamped.
func ColorFromTemperature(kelvin float64) Color {
	if kelvin <= 0 || math.IsNaN(kelvin) {
		return DefaultStarColor
	}
	t := clamp(kelvin, 1000, 40000) / 100

	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return Color{R: channel(r), G: channel(g), B: channel(b)}
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 255)))
}

// SpectralClasses lists the Morgan-Keenan classes from hottest to coolest.
var SpectralClasses = []string{"O", "B", "A", "F", "G", "K", "M"}

// SpectralClass returns the Morgan-Keenan class letter for an effective
// temperature.
func SpectralClass(kelvin float64) string {
	switch {
	case kelvin >= 30000:
		return "O"
	case kelvin >= 10000:
		return "B"
	case kelvin >= 7500:
		return "A"
	case kelvin >= 6000:
		return "F"
	case kelvin >= 5200:
		return "G"
	case kelvin >= 3700:
		return "K"
	default:
		return "M"
	}
}
