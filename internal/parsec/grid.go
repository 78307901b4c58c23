// Package parsec loads and indexes PARSEC stellar evolutionary tracks.
//
// The tracks are tabulated per nominal stellar mass. Each file is assigned to
// the nearest slot of a fixed mass grid, so the catalog can be queried by any
// mass and age.
package parsec

// Metallicity is the default track set.
const Metallicity = "Z0.01"

// Column positions in the tabulated track files.
const (
	colMass  = 1
	colAge   = 2
	colLogL  = 3
	colLogTe = 4
	colLogR  = 5

	minColumns = colLogR + 1
)

// SortedMasses is the mass grid in solar masses. Strictly increasing.
var SortedMasses = [...]float64{
	0.09, 0.10, 0.12, 0.14, 0.16, 0.20, 0.25, 0.30, 0.35, 0.40,
	0.45, 0.50, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80, 0.85, 0.90,
	0.95, 1.00, 1.05, 1.10, 1.15, 1.20, 1.25, 1.30, 1.35, 1.40,
	1.45, 1.50, 1.55, 1.60, 1.65, 1.70, 1.75, 1.80, 1.85, 1.90,
	1.95, 2.00, 2.05, 2.10, 2.15, 2.20, 2.25, 2.30, 2.40, 2.60,
	2.80, 3.00, 3.20, 3.40, 3.60, 3.80, 4.00, 4.20, 4.40, 4.60,
	4.80, 5.00, 5.20, 5.40, 5.60, 5.80, 6.00, 6.20, 6.40, 7.00,
	8.00, 9.00, 10.0, 12.0, 14.0, 16.0, 18.0, 20.0, 24.0, 28.0,
	30.0, 35.0, 40.0, 45.0, 50.0, 55.0, 60.0, 65.0, 70.0, 75.0,
	80.0, 90.0, 95.0, 100.0, 120.0, 130.0, 200.0, 250.0, 300.0, 350.0,
}

// GridSize is the number of mass slots.
const GridSize = len(SortedMasses)

// ClosestMassIndex returns the grid index whose mass is nearest to mass.
// Between two bracketing neighbours the numerically closer one wins; an exact
// midpoint goes to the heavier neighbour.
func ClosestMassIndex(mass float64) int {
	lo, hi := 0, GridSize-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if mass > SortedMasses[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	if abs(mass-SortedMasses[lo]) < abs(mass-SortedMasses[hi]) {
		return lo
	}
	return hi
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
