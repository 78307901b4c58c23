package parsec

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/litescript/ls-stellar/internal/logging"
)

// LoadFunc builds a catalog.
type LoadFunc func(ctx context.Context) (*Catalog, error)

type buildResult struct {
	catalog *Catalog
	err     error
}

// Provider builds a catalog once and hands the same immutable catalog to
// every caller. A failed build is cached and returned to all later callers
// until Reset is called.
type Provider struct {
	load LoadFunc

	mu     sync.Mutex
	result atomic.Pointer[buildResult]
}

// NewProvider creates a provider around load. Nothing is built until the
// first call to Catalog.
func NewProvider(load LoadFunc) *Provider {
	return &Provider{load: load}
}

// NewDirProvider creates a provider that loads the tracks for metallicity
// from dataDir, downloading them first with fetcher when fetcher is non-nil.
func NewDirProvider(dataDir, metallicity string, fetcher *Fetcher, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.Discard()
	}
	return NewProvider(func(ctx context.Context) (*Catalog, error) {
		start := time.Now()
		trackDir := filepath.Join(dataDir, metallicity)
		if fetcher != nil {
			logger.Debug("Ensuring %s tracks in %s", metallicity, dataDir)
			dir, err := fetcher.EnsureFiles(ctx, dataDir, metallicity)
			if err != nil {
				return nil, err
			}
			trackDir = dir
		}

		c, err := Load(trackDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded %d/%d track slots from %s in %v",
			len(c.Populated()), GridSize, trackDir, time.Since(start).Round(time.Millisecond))
		return c, nil
	})
}

// Catalog returns the shared catalog, building it on first use.
// Context errors from an interrupted build are not cached.
func (p *Provider) Catalog(ctx context.Context) (*Catalog, error) {
	if r := p.result.Load(); r != nil {
		return r.catalog, r.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if r := p.result.Load(); r != nil {
		return r.catalog, r.err
	}

	r := p.build(ctx)
	if r.err != nil && (errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded)) {
		return nil, r.err
	}
	p.result.Store(r)
	return r.catalog, r.err
}

func (p *Provider) build(ctx context.Context) (r *buildResult) {
	defer func() {
		if v := recover(); v != nil {
			r = &buildResult{err: fmt.Errorf("%w: %v", ErrConcurrencyPoisoned, v)}
		}
	}()

	c, err := p.load(ctx)
	if err == nil && c == nil {
		err = ErrDataUnavailable
	}
	return &buildResult{catalog: c, err: err}
}

// Reset drops the cached catalog or error so the next call rebuilds.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result.Store(nil)
}
