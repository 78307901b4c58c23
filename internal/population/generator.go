// Package population generates random stellar populations around an
// observer and keeps the stars bright enough to be seen with the naked eye.
package population

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/logging"
	"github.com/litescript/ls-stellar/internal/parsec"
	"github.com/litescript/ls-stellar/internal/stars"
)

const (
	// DefaultStarsPerCubicLy is the local stellar number density.
	DefaultStarsPerCubicLy = 2.9e-3

	// DefaultThinDiskAgeYears is the age of the Milky Way thin disk.
	DefaultThinDiskAgeYears = 8.8e9

	// DefaultMaxChunkSize caps the draws held in memory at once.
	DefaultMaxChunkSize = 10_000_000

	// cancelCheckInterval is how many draws a worker makes between context checks.
	cancelCheckInterval = 4096
)

// ErrInvalidDistance is returned for negative or non-finite distances.
var ErrInvalidDistance = errors.New("max distance must be finite and non-negative")

// CatalogSource hands out the shared track catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*parsec.Catalog, error)
}

// Config tunes the generator.
type Config struct {
	StarsPerCubicLy  float64
	ThinDiskAgeYears float64
	MaxChunkSize     int
	Workers          int
	Seed             uint64 // 0 picks a random seed per call, see LastSeed
}

// DefaultConfig returns the standard generator settings.
func DefaultConfig() Config {
	return Config{
		StarsPerCubicLy:  DefaultStarsPerCubicLy,
		ThinDiskAgeYears: DefaultThinDiskAgeYears,
		MaxChunkSize:     DefaultMaxChunkSize,
		Workers:          runtime.NumCPU(),
	}
}

// Progress reports how far a population run has come.
type Progress struct {
	Drawn int
	Total int
	Kept  int
}

// Fraction returns the completed share in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Drawn) / float64(p.Total)
}

// ProgressFunc is called after each chunk.
type ProgressFunc func(Progress)

// Generator samples random stars against a shared catalog.
// It is safe for concurrent use.
type Generator struct {
	source CatalogSource
	cfg    Config
	logger *logging.Logger

	mu       sync.Mutex
	progress ProgressFunc
	lastSeed uint64

	draws    metric.Int64Counter
	accepted metric.Int64Counter
}

// New creates a generator. Zero config fields take their defaults.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(source CatalogSource, cfg Config, logger *logging.Logger) (*Generator, error) {
	def := DefaultConfig()
	if cfg.StarsPerCubicLy <= 0 {
		cfg.StarsPerCubicLy = def.StarsPerCubicLy
	}
	if cfg.ThinDiskAgeYears <= 0 {
		cfg.ThinDiskAgeYears = def.ThinDiskAgeYears
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = def.MaxChunkSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if logger == nil {
		logger = logging.Discard()
	}

	g := &Generator{source: source, cfg: cfg, logger: logger}

	m := meter()
	var err error
	g.draws, err = m.Int64Counter(
		"population.draws",
		metric.WithDescription("Total random stars drawn"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating draws counter: %w", err)
	}
	g.accepted, err = m.Int64Counter(
		"population.accepted",
		metric.WithDescription("Total random stars bright enough to keep"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating accepted counter: %w", err)
	}

	return g, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// LastSeed returns the seed used by the most recent generation call, or 0
// before the first one. Feeding it back as Config.Seed replays that call.
func (g *Generator) LastSeed() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSeed
}

// OnProgress registers a callback invoked after every chunk.
func (g *Generator) OnProgress(fn ProgressFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.progress = fn
}

func (g *Generator) reportProgress(p Progress) {
	g.mu.Lock()
	fn := g.progress
	g.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

// seeder hands out independent seeds for per-worker random sources.
type seeder struct {
	r *rand.Rand
}

func (g *Generator) newSeeder() *seeder {
	seed := g.cfg.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	g.mu.Lock()
	g.lastSeed = seed
	g.mu.Unlock()
	return &seeder{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seeder) next() *rand.Rand {
	return rand.New(rand.NewPCG(s.r.Uint64(), s.r.Uint64()))
}

// GeneratePopulation draws the expected number of stars within
// maxDistanceLy and returns the visible ones. The catalog is loaded before
// any sampling; its failure aborts the run. Output order is unspecified.
func (g *Generator) GeneratePopulation(ctx context.Context, maxDistanceLy float64) ([]stars.Star, error) {
	if maxDistanceLy < 0 || math.IsNaN(maxDistanceLy) || math.IsInf(maxDistanceLy, 0) {
		return nil, ErrInvalidDistance
	}
	total := ExpectedCount(g.cfg.StarsPerCubicLy, maxDistanceLy)
	if total == math.MaxInt {
		return nil, fmt.Errorf("%w: %g ly holds too many stars to draw", ErrInvalidDistance, maxDistanceLy)
	}

	cat, err := g.source.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	dists, err := newDistributions(cat, g.cfg.ThinDiskAgeYears, maxDistanceLy)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Generating %d stars within %.1f ly (%d workers)", total, maxDistanceLy, g.cfg.Workers)

	start := time.Now()
	seeds := g.newSeeder()
	var out []stars.Star
	for drawn := 0; drawn < total; {
		n := min(g.cfg.MaxChunkSize, total-drawn)
		chunk, err := g.generateChunk(ctx, cat, dists, n, seeds)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		drawn += n

		p := Progress{Drawn: drawn, Total: total, Kept: len(out)}
		g.logger.Debug("Generated %d of %d stars (%.0f%%) and kept %d",
			p.Drawn, p.Total, p.Fraction()*100, p.Kept)
		g.reportProgress(p)
	}

	g.logger.Info("Kept %d of %d stars in %v", len(out), total, time.Since(start).Round(time.Millisecond))
	return out, nil
}

// generateChunk fans n draws out over the configured workers.
func (g *Generator) generateChunk(ctx context.Context, cat *parsec.Catalog, dists *distributions, n int, seeds *seeder) ([]stars.Star, error) {
	workers := min(g.cfg.Workers, n)
	if workers == 0 {
		return nil, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	results := make([][]stars.Star, workers)
	for w := 0; w < workers; w++ {
		count := n / workers
		if w < n%workers {
			count++
		}
		r := seeds.next()
		eg.Go(func() error {
			kept, err := g.drawMany(ctx, r, cat, dists, count)
			results[w] = kept
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []stars.Star
	for _, kept := range results {
		out = append(out, kept...)
	}
	return out, nil
}

func (g *Generator) drawMany(ctx context.Context, r *rand.Rand, cat *parsec.Catalog, dists *distributions, count int) ([]stars.Star, error) {
	var kept []stars.Star
	for i := 0; i < count; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if s, ok := drawVisible(r, cat, dists); ok {
			kept = append(kept, s)
		}
	}

	attrs := metric.WithAttributes(attribute.String("mode", "population"))
	g.draws.Add(ctx, int64(count), attrs)
	g.accepted.Add(ctx, int64(len(kept)), attrs)
	return kept, nil
}

// GenerateOne draws until a visible star turns up. Without a max distance
// the star is sampled one meter away and placed at the observer.
//
// There is no retry cap: a configuration in which nothing is ever visible
// only ends when ctx is done.
func (g *Generator) GenerateOne(ctx context.Context, maxDistanceLy *float64) (stars.Star, error) {
	maxDist := astro.MetersToLightYears(1)
	if maxDistanceLy != nil {
		maxDist = *maxDistanceLy
	}
	if maxDist < 0 || math.IsNaN(maxDist) || math.IsInf(maxDist, 0) {
		return stars.Star{}, ErrInvalidDistance
	}

	cat, err := g.source.Catalog(ctx)
	if err != nil {
		return stars.Star{}, fmt.Errorf("load catalog: %w", err)
	}
	dists, err := newDistributions(cat, g.cfg.ThinDiskAgeYears, maxDist)
	if err != nil {
		return stars.Star{}, err
	}

	r := g.newSeeder().next()
	attrs := metric.WithAttributes(attribute.String("mode", "single"))
	for attempts := int64(1); ; attempts++ {
		if attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				g.draws.Add(ctx, attempts, attrs)
				return stars.Star{}, err
			}
		}
		s, ok := drawVisible(r, cat, dists)
		if !ok {
			continue
		}
		g.draws.Add(ctx, attempts, attrs)
		g.accepted.Add(ctx, 1, attrs)
		if maxDistanceLy == nil {
			s.DistanceLy = 0
		}
		return s, nil
	}
}

// drawVisible makes one draw and reports whether the star is visible.
func drawVisible(r *rand.Rand, cat *parsec.Catalog, dists *distributions) (stars.Star, bool) {
	slot := dists.mass.sample(r)
	age := dists.age(r)
	dist := dists.distance(r)

	s, ok := stars.FromTrajectory(cat.Trajectory(slot), age, dist)
	if !ok {
		return stars.Star{}, false
	}
	s.Direction = randomDirection(r)
	return s, true
}
