package population

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-stellar/internal/parsec"
)

type fakeSource struct {
	mu    sync.Mutex
	cat   *parsec.Catalog
	err   error
	calls int
}

func (f *fakeSource) Catalog(ctx context.Context) (*parsec.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cat, f.err
}

func fixtureSource(t *testing.T) *fakeSource {
	t.Helper()
	cat, err := parsec.Load("../parsec/testdata/Z0.01")
	require.NoError(t, err)
	return &fakeSource{cat: cat}
}

func newGenerator(t *testing.T, src CatalogSource, cfg Config) *Generator {
	t.Helper()
	g, err := New(src, cfg, nil)
	require.NoError(t, err)
	return g
}

func TestNew_Defaults(t *testing.T) {
	g := newGenerator(t, &fakeSource{}, Config{})
	cfg := g.Config()

	assert.Equal(t, DefaultStarsPerCubicLy, cfg.StarsPerCubicLy)
	assert.Equal(t, DefaultThinDiskAgeYears, cfg.ThinDiskAgeYears)
	assert.Equal(t, DefaultMaxChunkSize, cfg.MaxChunkSize)
	assert.Greater(t, cfg.Workers, 0)
}

func TestGeneratePopulation_WithinMaxDistance(t *testing.T) {
	const maxDistance = 30.0
	g := newGenerator(t, fixtureSource(t), Config{Workers: 4})

	pop, err := g.GeneratePopulation(context.Background(), maxDistance)
	require.NoError(t, err)
	require.NotEmpty(t, pop)
	assert.LessOrEqual(t, len(pop), ExpectedCount(DefaultStarsPerCubicLy, maxDistance))

	for _, s := range pop {
		assert.Less(t, s.DistanceLy, maxDistance*1.01)
		assert.False(t, s.Direction.IsZero())
		assert.InDelta(t, 1, s.Direction.Vec().Norm(), 1e-9)
		require.NotNil(t, s.AgeYears)
	}
}

func TestGeneratePopulation_SeedIsReproducible(t *testing.T) {
	cfg := Config{Workers: 3, Seed: 42, MaxChunkSize: 100}

	a, err := newGenerator(t, fixtureSource(t), cfg).GeneratePopulation(context.Background(), 30)
	require.NoError(t, err)
	b, err := newGenerator(t, fixtureSource(t), cfg).GeneratePopulation(context.Background(), 30)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].DistanceLy, b[i].DistanceLy)
		assert.Equal(t, a[i].MassSolar, b[i].MassSolar)
		assert.Equal(t, a[i].Direction, b[i].Direction)
	}
}

func TestGeneratePopulation_RandomSeedCanBeReplayed(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{Workers: 3, MaxChunkSize: 100})
	assert.Zero(t, g.LastSeed())

	a, err := g.GeneratePopulation(context.Background(), 30)
	require.NoError(t, err)
	seed := g.LastSeed()
	require.NotZero(t, seed)
	assert.Zero(t, g.Config().Seed)

	replay := newGenerator(t, fixtureSource(t), Config{Workers: 3, MaxChunkSize: 100, Seed: seed})
	b, err := replay.GeneratePopulation(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, seed, replay.LastSeed())

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].DistanceLy, b[i].DistanceLy)
		assert.Equal(t, a[i].MassSolar, b[i].MassSolar)
	}
}

func TestGeneratePopulation_ReportsProgressPerChunk(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{Workers: 2, MaxChunkSize: 50})

	var reports []Progress
	g.OnProgress(func(p Progress) { reports = append(reports, p) })

	pop, err := g.GeneratePopulation(context.Background(), 30)
	require.NoError(t, err)

	total := ExpectedCount(DefaultStarsPerCubicLy, 30)
	require.Len(t, reports, (total+49)/50)
	last := reports[len(reports)-1]
	assert.Equal(t, total, last.Drawn)
	assert.Equal(t, total, last.Total)
	assert.Equal(t, len(pop), last.Kept)
	assert.Equal(t, 1.0, last.Fraction())
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i].Drawn, reports[i-1].Drawn)
	}
}

func TestGeneratePopulation_ZeroDistance(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{})
	pop, err := g.GeneratePopulation(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, pop)
}

func TestGeneratePopulation_CatalogErrorAbortsBeforeSampling(t *testing.T) {
	src := &fakeSource{err: parsec.ErrDataUnavailable}
	g := newGenerator(t, src, Config{})

	called := false
	g.OnProgress(func(Progress) { called = true })

	_, err := g.GeneratePopulation(context.Background(), 100)
	assert.ErrorIs(t, err, parsec.ErrDataUnavailable)
	assert.False(t, called)
	assert.Equal(t, 1, src.calls)

	_, err = g.GenerateOne(context.Background(), nil)
	assert.ErrorIs(t, err, parsec.ErrDataUnavailable)
}

func TestGeneratePopulation_EmptyCatalog(t *testing.T) {
	g := newGenerator(t, &fakeSource{cat: parsec.NewCatalog(nil)}, Config{})
	_, err := g.GeneratePopulation(context.Background(), 10)
	assert.ErrorIs(t, err, parsec.ErrDataUnavailable)
}

func TestGeneratePopulation_InvalidDistance(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{})
	_, err := g.GeneratePopulation(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidDistance)

	neg := -5.0
	_, err = g.GenerateOne(context.Background(), &neg)
	assert.ErrorIs(t, err, ErrInvalidDistance)
}

func TestGeneratePopulation_TooManyStars(t *testing.T) {
	src := &fakeSource{cat: parsec.NewCatalog(nil)}
	g := newGenerator(t, src, Config{})
	_, err := g.GeneratePopulation(context.Background(), 1e8)
	assert.ErrorIs(t, err, ErrInvalidDistance)
	assert.Zero(t, src.calls, "catalog should not be loaded")
}

func TestGeneratePopulation_Canceled(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{Workers: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GeneratePopulation(ctx, 30)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestGenerateOne_NoDistanceIsAtObserver(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{})

	for i := 0; i < 20; i++ {
		s, err := g.GenerateOne(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, s.DistanceLy)
		assert.Greater(t, s.LuminositySolar, 0.0)
	}
}

func TestGenerateOne_WithinDistance(t *testing.T) {
	g := newGenerator(t, fixtureSource(t), Config{Seed: 7})
	maxDistance := 1000.0

	s, err := g.GenerateOne(context.Background(), &maxDistance)
	require.NoError(t, err)
	assert.LessOrEqual(t, s.DistanceLy, maxDistance)
	assert.Greater(t, s.DistanceLy, 0.0)
}

func TestGenerateOne_NothingVisibleHonoursContext(t *testing.T) {
	// A single dim red dwarf track can never be seen from 10 000 ly.
	cat := parsec.NewCatalog(map[int]parsec.Trajectory{
		1: {{Mass: 0.1, Age: 0, LogL: -3, LogTe: 3.47, LogR: 10}},
	})
	g := newGenerator(t, &fakeSource{cat: cat}, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	maxDistance := 1e4
	_, err := g.GenerateOne(ctx, &maxDistance)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
