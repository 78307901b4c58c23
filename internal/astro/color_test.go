package astro

import "testing"

func TestColorFromTemperature(t *testing.T) {
	tests := []struct {
		name   string
		kelvin float64
		check  func(Color) bool
		desc   string
	}{
		{"red dwarf", 3000, func(c Color) bool { return c.R == 255 && c.B < c.G }, "red dominant"},
		{"sun", SunTemperatureK, func(c Color) bool { return c.R == 255 && c.G > 200 && c.B > 180 }, "near white"},
		{"blue giant", 30000, func(c Color) bool { return c.B == 255 && c.R < c.B }, "blue dominant"},
		{"unknown", 0, func(c Color) bool { return c == DefaultStarColor }, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorFromTemperature(tt.kelvin)
			if !tt.check(got) {
				t.Errorf("ColorFromTemperature(%v) = %v, want %s", tt.kelvin, got, tt.desc)
			}
		})
	}
}

func TestColorFromTemperature_ClampsOutOfRange(t *testing.T) {
	if ColorFromTemperature(100) != ColorFromTemperature(1000) {
		t.Error("temperatures below 1000 K should clamp")
	}
	if ColorFromTemperature(1e6) != ColorFromTemperature(40000) {
		t.Error("temperatures above 40000 K should clamp")
	}
}

func TestColorHex(t *testing.T) {
	c := Color{R: 255, G: 16, B: 0}
	if got := c.Hex(); got != "#ff1000" {
		t.Errorf("Hex() = %q, want #ff1000", got)
	}
}

func TestSpectralClass(t *testing.T) {
	tests := []struct {
		kelvin float64
		want   string
	}{
		{40000, "O"},
		{9940, "A"}, // Sirius
		{5772, "G"}, // Sun
		{3500, "M"}, // Betelgeuse
		{12000, "B"},
		{6500, "F"},
		{4300, "K"},
	}
	for _, tt := range tests {
		if got := SpectralClass(tt.kelvin); got != tt.want {
			t.Errorf("SpectralClass(%v) = %s, want %s", tt.kelvin, got, tt.want)
		}
	}
}
