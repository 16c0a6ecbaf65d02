package marine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/signalsfoundry/drift-simulator/core"
	"github.com/signalsfoundry/drift-simulator/internal/logging"
	"github.com/signalsfoundry/drift-simulator/model"
)

// FallbackFunc is notified whenever a product falls back to default values.
// Wired to the data-fallback metric counter.
type FallbackFunc func(product string)

// Provider resolves environmental datasets through the cache, falling back
// to the remote service on a miss.
type Provider struct {
	client     *Client
	cache      *DatasetCache
	onFallback FallbackFunc
	log        logging.Logger
}

func NewProvider(client *Client, cache *DatasetCache, onFallback FallbackFunc, log logging.Logger) *Provider {
	if log == nil {
		log = logging.Noop()
	}
	return &Provider{client: client, cache: cache, onFallback: onFallback, log: log}
}

// Configured reports whether the remote service can be reached at all.
func (p *Provider) Configured() bool {
	return p.client != nil && p.client.Configured()
}

// Products returns the configured product identifiers.
func (p *Provider) Products() (currents, wind string) {
	if p.client == nil {
		return "", ""
	}
	return p.client.CurrentsProduct(), p.client.WindProduct()
}

// CacheSize reports the number of live in-memory cache entries.
func (p *Provider) CacheSize() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}

// CurrentsDataset resolves the ocean-currents subset for the box and window.
func (p *Provider) CurrentsDataset(ctx context.Context, bounds Bounds, start, end time.Time) (*Dataset, error) {
	return p.dataset(ctx, p.client.CurrentsProduct(), bounds, start, end, p.client.FetchCurrents)
}

// WindDataset resolves the surface-wind subset for the box and window.
func (p *Provider) WindDataset(ctx context.Context, bounds Bounds, start, end time.Time) (*Dataset, error) {
	return p.dataset(ctx, p.client.WindProduct(), bounds, start, end, p.client.FetchWind)
}

type fetchFunc func(ctx context.Context, bounds Bounds, start, end time.Time) (*Dataset, error)

func (p *Provider) dataset(ctx context.Context, product string, bounds Bounds, start, end time.Time, fetch fetchFunc) (*Dataset, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("marine service not configured")
	}

	key := DatasetKey(product, bounds, start, end)
	if p.cache != nil {
		if ds, ok := p.cache.Get(ctx, key); ok {
			return ds, nil
		}
	}

	ds, err := fetch(ctx, bounds, start, end)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Put(ctx, key, ds)
	}
	return ds, nil
}

// Sampler adapts resolved datasets to the simulator's sampling interface.
// Either dataset may be nil; missing data degrades to the default current
// and wind rather than failing the run.
func (p *Provider) Sampler(currents, wind *Dataset) *Sampler {
	return &Sampler{
		currents:   currents,
		wind:       wind,
		onFallback: p.onFallback,
		log:        p.log,
	}
}

// Sampler implements core.EnvironmentSampler over gridded datasets. It
// broadcasts the area-mean velocity of the nearest time slice across the
// whole ensemble.
type Sampler struct {
	currents   *Dataset
	wind       *Dataset
	onFallback FallbackFunc
	log        logging.Logger
	degraded   atomic.Bool
}

// NewSampler builds a standalone sampler, used when no provider exists.
func NewSampler(currents, wind *Dataset, onFallback FallbackFunc, log logging.Logger) *Sampler {
	if log == nil {
		log = logging.Noop()
	}
	return &Sampler{currents: currents, wind: wind, onFallback: onFallback, log: log}
}

var _ core.EnvironmentSampler = (*Sampler)(nil)

// Degraded reports whether any sample fell back to default forcing.
// Checked after a run to flag partially degraded data in the response.
func (s *Sampler) Degraded() bool {
	return s.degraded.Load()
}

// Sample never returns an error; products without usable data fall back to
// defaults and report through the fallback hook. Only when both products
// are absent does it return empty slices, letting the simulator substitute
// its own fallback forcing.
func (s *Sampler) Sample(ctx context.Context, t time.Time, positions []model.Coordinate) ([]model.EnvironmentSample, []model.EnvironmentSample, error) {
	current, currentOK := s.currents.MeanAt(t)
	if !currentOK {
		current = core.FallbackCurrent()
		s.fallback("currents")
	}

	wind, windOK := s.wind.MeanAt(t)
	if !windOK {
		wind = core.FallbackWind()
		s.fallback("wind")
	}

	if !currentOK && !windOK {
		// Signals degraded data to the simulator.
		return nil, nil, nil
	}
	return []model.EnvironmentSample{current}, []model.EnvironmentSample{wind}, nil
}

func (s *Sampler) fallback(product string) {
	s.degraded.Store(true)
	if s.onFallback != nil {
		s.onFallback(product)
	}
}
