package store

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/evolution"
	"github.com/litescript/ls-stellar/internal/parsec"
	"github.com/litescript/ls-stellar/internal/population"
	"github.com/litescript/ls-stellar/internal/stars"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fixtureStars(t *testing.T) []stars.Star {
	t.Helper()
	cat, err := parsec.Load("../parsec/testdata/Z0.01")
	require.NoError(t, err)

	sun, ok := stars.FromTrajectory(cat.Trajectory(21), 4.6e9, 0.001)
	require.True(t, ok)
	sun.Direction = astro.DirectionFromEquatorial(120, -30)

	giant, ok := stars.FromTrajectory(cat.Trajectory(77), 5e6, 50)
	require.True(t, ok)

	sirius := stars.FromReal(astro.DefaultStarCatalog().Stars[0])
	return []stars.Star{sun, giant, sirius}
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"", "sqlite"},
		{"runs.db", "sqlite"},
		{MemoryDSN, "sqlite"},
		{"postgres://user:pw@localhost:5432/stellar", "postgres"},
		{"postgresql://localhost/stellar", "postgres"},
	}
	for _, tt := range tests {
		if got := dialectorFor(tt.dsn).Name(); got != tt.want {
			t.Errorf("dialectorFor(%q) = %s, want %s", tt.dsn, got, tt.want)
		}
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	in := fixtureStars(t)

	cfg := population.Config{StarsPerCubicLy: 2.9e-3, ThinDiskAgeYears: 8.8e9, MaxChunkSize: 100, Workers: 4, Seed: math.MaxUint64}
	saved, err := s.SaveRun(ctx, RunInput{MaxDistanceLy: 100, Drawn: 12147, Config: cfg, Stars: in})
	require.NoError(t, err)
	require.Len(t, saved.ID, 36)
	assert.Equal(t, 3, saved.Kept)

	loaded, err := s.LoadRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, loaded.MaxDistanceLy)
	assert.Equal(t, 12147, loaded.Drawn)
	require.Len(t, loaded.Stars, 3)

	params, err := loaded.Settings()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), params.Seed)
	assert.Equal(t, 4, params.Workers)

	out, err := loaded.Population()
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i := range in {
		want, got := in[i], out[i]
		assert.Equal(t, want.Name, got.Name)
		assert.InDelta(t, want.MassSolar, got.MassSolar, 1e-12)
		assert.InDelta(t, want.LuminositySolar, got.LuminositySolar, 1e-9)
		assert.InDelta(t, want.DistanceLy, got.DistanceLy, 1e-12)
		assert.InDelta(t, 0, want.Direction.AngleTo(got.Direction), 1e-6)
		assert.Equal(t, want.Evolution.Fate(), got.Evolution.Fate())
		assert.Equal(t, want.Evolution.Lifetime(), got.Evolution.Lifetime())

		_, wantLs := want.Evolution.Lifestage()
		_, gotLs := got.Evolution.Lifestage()
		assert.Equal(t, wantLs, gotLs)

		// The rebuilt star evolves like the original.
		const t1 = 1e6
		assert.InDelta(t, want.At(t1).LuminositySolar, got.At(t1).LuminositySolar, 1e-6*want.LuminositySolar)
	}

	require.NotNil(t, out[0].AgeYears)
	assert.Equal(t, *in[0].AgeYears, *out[0].AgeYears)

	_, known := out[2].Evolution.Age()
	assert.False(t, known, "reference stars never die")
}

func TestSaveRun_Empty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, RunInput{MaxDistanceLy: 1})
	require.NoError(t, err)

	loaded, err := s.LoadRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Stars)
	assert.Equal(t, 0, loaded.Kept)
}

func TestLoadRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadRun(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ids := map[string]bool{}
	for i := 0; i < 3; i++ {
		run, err := s.SaveRun(ctx, RunInput{MaxDistanceLy: float64(10 * (i + 1)), Stars: fixtureStars(t)[:1]})
		require.NoError(t, err)
		ids[run.ID] = true
	}

	all, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, r := range all {
		assert.True(t, ids[r.ID])
		assert.Empty(t, r.Stars, "listing does not load stars")
	}

	limited, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, RunInput{MaxDistanceLy: 5, Stars: fixtureStars(t)})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(ctx, run.ID))
	_, err = s.LoadRun(ctx, run.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	var count int64
	require.NoError(t, s.db.Model(&StarRecord{}).Where("run_id = ?", run.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, s.DeleteRun(ctx, run.ID), ErrRunNotFound)
}

func TestStarRecord_BadFate(t *testing.T) {
	rec := StarRecord{Fate: "black hole", DirZ: 1}
	_, err := rec.Star()
	assert.Error(t, err)

	rec = StarRecord{Fate: evolution.WhiteDwarf.String()}
	_, err = rec.Star()
	assert.ErrorIs(t, err, astro.ErrZeroVector)
}
