package parsec

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_BuildsOnce(t *testing.T) {
	var calls atomic.Int32
	p := NewProvider(func(ctx context.Context) (*Catalog, error) {
		calls.Add(1)
		return Load(fixtureDir)
	})

	var wg sync.WaitGroup
	results := make([]*Catalog, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := p.Catalog(context.Background())
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestProvider_CachesError(t *testing.T) {
	var calls atomic.Int32
	p := NewProvider(func(ctx context.Context) (*Catalog, error) {
		calls.Add(1)
		return nil, ErrDataUnavailable
	})

	for i := 0; i < 3; i++ {
		_, err := p.Catalog(context.Background())
		assert.ErrorIs(t, err, ErrDataUnavailable)
	}
	assert.Equal(t, int32(1), calls.Load())

	p.Reset()
	_, err := p.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProvider_PanicPoisons(t *testing.T) {
	fail := true
	p := NewProvider(func(ctx context.Context) (*Catalog, error) {
		if fail {
			panic("disk on fire")
		}
		return NewCatalog(nil), nil
	})

	_, err := p.Catalog(context.Background())
	require.ErrorIs(t, err, ErrConcurrencyPoisoned)
	assert.Contains(t, err.Error(), "disk on fire")

	_, err = p.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrConcurrencyPoisoned)

	fail = false
	p.Reset()
	c, err := p.Catalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestProvider_ContextErrorNotCached(t *testing.T) {
	var calls atomic.Int32
	p := NewProvider(func(ctx context.Context) (*Catalog, error) {
		calls.Add(1)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewCatalog(nil), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Catalog(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = p.Catalog(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProvider_NilCatalogIsUnavailable(t *testing.T) {
	p := NewProvider(func(ctx context.Context) (*Catalog, error) { return nil, nil })
	_, err := p.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestNewDirProvider(t *testing.T) {
	p := NewDirProvider("testdata", "Z0.01", nil, nil)
	c, err := p.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Populated(), 5)

	p = NewDirProvider(t.TempDir(), "Z0.01", nil, nil)
	_, err = p.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}
