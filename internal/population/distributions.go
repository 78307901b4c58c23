package population

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/parsec"
)

// kroupaWeight is the broken power law initial mass function m^-alpha.
func kroupaWeight(massSolar float64) float64 {
	var alpha float64
	switch {
	case massSolar <= 0.08:
		alpha = 0.3
	case massSolar <= 0.5:
		alpha = 1.3
	case massSolar <= 1:
		alpha = 2.3
	default:
		alpha = 2.7
	}
	return math.Pow(massSolar, -alpha)
}

// massDistribution samples grid slots weighted by the mass function.
// Slots without track data are never drawn.
type massDistribution struct {
	slots      []int
	cumulative []float64
}

func newMassDistribution(cat *parsec.Catalog) (massDistribution, error) {
	var d massDistribution
	total := 0.0
	for _, i := range cat.Populated() {
		total += kroupaWeight(parsec.SortedMasses[i])
		d.slots = append(d.slots, i)
		d.cumulative = append(d.cumulative, total)
	}
	if len(d.slots) == 0 {
		return d, fmt.Errorf("no populated mass slots: %w", parsec.ErrDataUnavailable)
	}
	return d, nil
}

func (d massDistribution) sample(r *rand.Rand) int {
	u := r.Float64() * d.cumulative[len(d.cumulative)-1]
	k := sort.Search(len(d.cumulative), func(i int) bool { return d.cumulative[i] > u })
	if k == len(d.slots) {
		k--
	}
	return d.slots[k]
}

// distributions are built once per generation call and shared read-only by
// all workers.
type distributions struct {
	mass      massDistribution
	maxAge    float64
	maxDistLy float64
}

func newDistributions(cat *parsec.Catalog, maxAgeYears, maxDistanceLy float64) (*distributions, error) {
	mass, err := newMassDistribution(cat)
	if err != nil {
		return nil, err
	}
	return &distributions{mass: mass, maxAge: maxAgeYears, maxDistLy: maxDistanceLy}, nil
}

// age is uniform in [0, maxAge).
func (d *distributions) age(r *rand.Rand) float64 {
	return r.Float64() * d.maxAge
}

// distance scales with the cube root of a uniform variate so that stars fill
// the sphere with uniform volume density.
func (d *distributions) distance(r *rand.Rand) float64 {
	return d.maxDistLy * math.Cbrt(r.Float64())
}

// randomDirection picks a point in the unit ball by rejection and normalizes it.
func randomDirection(r *rand.Rand) astro.Direction {
	for {
		v := astro.Vec3{
			X: 2*r.Float64() - 1,
			Y: 2*r.Float64() - 1,
			Z: 2*r.Float64() - 1,
		}
		if v.NormSquared() > 1 {
			continue
		}
		if dir, err := astro.NewDirection(v); err == nil {
			return dir
		}
	}
}

// ExpectedCount returns the number of stars in a sphere of radius
// maxDistanceLy at the given number density, truncated. Counts that do not
// fit in an int are clamped to math.MaxInt.
func ExpectedCount(starsPerCubicLy, maxDistanceLy float64) int {
	n := starsPerCubicLy * 4 / 3 * math.Pi * maxDistanceLy * maxDistanceLy * maxDistanceLy
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}
