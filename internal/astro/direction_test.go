package astro

import (
	"errors"
	"math"
	"testing"
)

func TestNewDirection(t *testing.T) {
	d, err := NewDirection(Vec3{3, 0, 4})
	if err != nil {
		t.Fatalf("NewDirection() error = %v", err)
	}
	if math.Abs(d.Vec().Norm()-1) > 1e-12 {
		t.Errorf("Norm = %v, want 1", d.Vec().Norm())
	}
	if math.Abs(d.Vec().X-0.6) > 1e-12 || math.Abs(d.Vec().Z-0.8) > 1e-12 {
		t.Errorf("Vec = %v, want {0.6 0 0.8}", d.Vec())
	}
}

func TestNewDirection_ZeroVector(t *testing.T) {
	_, err := NewDirection(Vec3{})
	if !errors.Is(err, ErrZeroVector) {
		t.Errorf("NewDirection(zero) error = %v, want ErrZeroVector", err)
	}
}

func TestDirection_EquatorialRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		ra, dec float64
	}{
		{"Sirius", 101.287, -16.716},
		{"Polaris", 37.954, 89.264},
		{"Vega", 279.235, 38.784},
		{"Canopus", 95.988, -52.696},
		{"vernal equinox", 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := DirectionFromEquatorial(tt.ra, tt.dec).Equatorial()
			if math.Abs(ra-tt.ra) > 1e-9 {
				t.Errorf("RA = %v, want %v", ra, tt.ra)
			}
			if math.Abs(dec-tt.dec) > 1e-9 {
				t.Errorf("Dec = %v, want %v", dec, tt.dec)
			}
		})
	}
}

func TestDirection_NorthCelestialPoleIsTiltedFromEclipticPole(t *testing.T) {
	pole := DirectionFromEquatorial(0, 90)
	got := pole.AngleTo(DirectionZ)
	want := radToDeg(obliquityRad)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("angle between celestial and ecliptic poles = %v, want %v", got, want)
	}
}

func TestDirection_AngleTo(t *testing.T) {
	tests := []struct {
		name string
		a, b Direction
		want float64
	}{
		{"same", DirectionX, DirectionX, 0},
		{"orthogonal", DirectionX, DirectionY, 90},
		{"opposite", DirectionZ, Direction{Vec3{Z: -1}}, 180},
		{"ecliptic 30 deg", DirectionFromEcliptic(10, 0), DirectionFromEcliptic(40, 0), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.AngleTo(tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AngleTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirection_Ecliptic(t *testing.T) {
	lon, lat := DirectionFromEcliptic(200, -30).Ecliptic()
	if math.Abs(lon-200) > 1e-9 || math.Abs(lat+30) > 1e-9 {
		t.Errorf("Ecliptic() = (%v, %v), want (200, -30)", lon, lat)
	}
}
