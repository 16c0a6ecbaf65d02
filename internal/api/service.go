// Package api exposes the drift simulator over HTTP: the calculation
// endpoints, object-type catalog, environmental-data probes, and health.
package api

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/drift-simulator/core"
	"github.com/signalsfoundry/drift-simulator/internal/events"
	"github.com/signalsfoundry/drift-simulator/internal/logging"
	"github.com/signalsfoundry/drift-simulator/internal/marine"
	"github.com/signalsfoundry/drift-simulator/internal/observability"
	"github.com/signalsfoundry/drift-simulator/model"
)

const (
	confidenceLevel = 0.80

	// previewParticles keeps the preview endpoint fast enough for
	// interactive use.
	previewParticles = 200

	// Dataset subsets cover the furthest plausible drift: roughly 1 m/s
	// sustained, with margin for the initial spread.
	driftMarginKmPerHour = 4.0
	minSubsetRadiusKm    = 25.0
)

// Service wires the simulator core to its data sources and side channels.
type Service struct {
	provider  *marine.Provider
	land      core.LandMask
	workers   int
	collector *observability.DriftCollector
	events    *events.Publisher
	log       logging.Logger

	// now is swappable in tests.
	now func() time.Time
}

// ServiceConfig carries the dependencies of a Service. Provider, Collector
// and Events may be nil; the service degrades to fallback forcing, no
// metrics and no events respectively.
type ServiceConfig struct {
	Provider  *marine.Provider
	LandMask  core.LandMask
	Workers   int
	Collector *observability.DriftCollector
	Events    *events.Publisher
	Logger    logging.Logger
}

func NewService(cfg ServiceConfig) *Service {
	log := cfg.Logger
	if log == nil {
		log = logging.Noop()
	}
	land := cfg.LandMask
	if land == nil {
		land = core.OpenWater
	}
	return &Service{
		provider:  cfg.Provider,
		land:      land,
		workers:   cfg.Workers,
		collector: cfg.Collector,
		events:    cfg.Events,
		log:       log,
		now:       time.Now,
	}
}

// runDrift executes one calculation. preview skips the marine fetch and
// event publication and caps the ensemble size.
func (s *Service) runDrift(ctx context.Context, req DriftRequest, preview bool) *DriftResponse {
	if preview && req.NumParticles > previewParticles {
		req.NumParticles = previewParticles
	}

	sampler, fetchFailed := s.resolveSampler(ctx, req, preview)

	sim := core.NewSimulator(sampler,
		core.WithLandMask(s.land),
		core.WithWorkers(s.workers),
		core.WithLogger(s.log),
	)
	result := sim.Run(ctx, core.RunParams{
		Start:           req.LKP,
		StartTime:       req.IncidentTime,
		ProjectionHours: req.ProjectionHours,
		Category:        req.ObjectType,
		NumParticles:    req.NumParticles,
		Confidence:      confidenceLevel,
		Seed:            req.Seed,
	})

	degraded := result.DegradedData || sampler.Degraded() || fetchFailed

	resp := &DriftResponse{
		RunID:              uuid.NewString(),
		SearchArea:         result.SearchPolygon.GeoJSON(),
		PriorityZone:       result.PriorityPolygon.GeoJSON(),
		EstimatedDriftKm:   result.MeanDriftKm,
		ConfidenceLevel:    confidenceLevel,
		CalculationSeconds: result.Duration.Seconds(),
		StrandedParticles:  result.StrandedCount,
		DataDegraded:       degraded,
		Seed:               result.Seed,
		Particles: ParticleSummary{
			Total:           req.NumParticles,
			ProjectionHours: req.ProjectionHours,
			ObjectType:      string(req.ObjectType),
		},
	}

	if s.collector != nil {
		s.collector.RecordRun(string(req.ObjectType), degraded, result.Duration,
			req.NumParticles, result.StrandedCount)
	}
	if !preview {
		s.publishRunCompleted(ctx, req, resp)
	}
	return resp
}

// resolveSampler fetches the environmental subsets for the run, falling back
// to default forcing when the marine service is unavailable. The second
// return reports whether a configured fetch failed.
func (s *Service) resolveSampler(ctx context.Context, req DriftRequest, preview bool) (*marine.Sampler, bool) {
	onFallback := s.dataFallbackHook()

	if preview || s.provider == nil || !s.provider.Configured() {
		return marine.NewSampler(nil, nil, onFallback, s.log), false
	}

	radiusKm := req.ProjectionHours * driftMarginKmPerHour
	if radiusKm < minSubsetRadiusKm {
		radiusKm = minSubsetRadiusKm
	}
	minLat, maxLat, minLon, maxLon := core.BoundingBox(req.LKP.Lat, req.LKP.Lon, radiusKm)
	bounds := marine.Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}

	start := req.IncidentTime
	end := start.Add(time.Duration(req.ProjectionHours * float64(time.Hour)))

	fetchFailed := false
	currents, err := s.provider.CurrentsDataset(ctx, bounds, start, end)
	if err != nil {
		s.log.Warn(ctx, "currents dataset unavailable", logging.Any("error", err))
		fetchFailed = true
	}
	wind, err := s.provider.WindDataset(ctx, bounds, start, end)
	if err != nil {
		s.log.Warn(ctx, "wind dataset unavailable", logging.Any("error", err))
		fetchFailed = true
	}
	return s.provider.Sampler(currents, wind), fetchFailed
}

func (s *Service) dataFallbackHook() marine.FallbackFunc {
	if s.collector == nil {
		return nil
	}
	return s.collector.RecordDataFallback
}

func (s *Service) publishRunCompleted(ctx context.Context, req DriftRequest, resp *DriftResponse) {
	if !s.events.Enabled() {
		return
	}
	ev := events.RunCompleted{
		RunID:           resp.RunID,
		ObjectType:      string(req.ObjectType),
		ProjectionHours: req.ProjectionHours,
		NumParticles:    req.NumParticles,
		MeanDriftKm:     resp.EstimatedDriftKm,
		StrandedCount:   resp.StrandedParticles,
		DataDegraded:    resp.DataDegraded,
		DurationSeconds: resp.CalculationSeconds,
		CompletedAt:     s.now().UTC(),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.events.PublishRunCompleted(pubCtx, ev); err != nil {
		s.log.Warn(ctx, "run event not published",
			logging.String("run_id", resp.RunID), logging.Any("error", err))
	}
}

// objectTypeCatalog converts the coefficient table to its wire form, keyed
// by category. The leeway range is expressed in percent for operators.
func objectTypeCatalog() map[string]ObjectTypeInfo {
	catalog := make(map[string]ObjectTypeInfo)
	for _, coeff := range core.LeewayCoefficients() {
		catalog[string(coeff.Category)] = ObjectTypeInfo{
			Name:               coeff.Name,
			LeewayPercentMin:   coeff.LeewayFractionMin * 100,
			LeewayPercentMax:   coeff.LeewayFractionMax * 100,
			DivergenceAngleDeg: coeff.DivergenceAngleDeg,
			Description:        coeff.Description,
		}
	}
	return catalog
}

type datasetFunc func(context.Context, marine.Bounds, time.Time, time.Time) (*marine.Dataset, error)

// probeCurrents summarizes the ocean-currents forcing around a point.
func (s *Service) probeCurrents(ctx context.Context, lat, lon, hours float64) ProductSample {
	product := "currents"
	var fetch datasetFunc
	if s.provider != nil && s.provider.Configured() {
		product, _ = s.provider.Products()
		fetch = s.provider.CurrentsDataset
	}
	return s.productSample(ctx, product, fetch, lat, lon, hours, core.FallbackCurrent())
}

// probeWind summarizes the surface-wind forcing around a point.
func (s *Service) probeWind(ctx context.Context, lat, lon, hours float64) ProductSample {
	product := "wind"
	var fetch datasetFunc
	if s.provider != nil && s.provider.Configured() {
		_, product = s.provider.Products()
		fetch = s.provider.WindDataset
	}
	return s.productSample(ctx, product, fetch, lat, lon, hours, core.FallbackWind())
}

// productSample probes one product around a point for the data endpoints.
// A nil fetch reports the fallback forcing.
func (s *Service) productSample(ctx context.Context, product string, fetch datasetFunc, lat, lon, hours float64, fallback model.EnvironmentSample) ProductSample {
	sample := ProductSample{Product: product}

	if fetch != nil {
		minLat, maxLat, minLon, maxLon := core.BoundingBox(lat, lon, minSubsetRadiusKm)
		bounds := marine.Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
		start := s.now().UTC()
		end := start.Add(time.Duration(hours * float64(time.Hour)))

		ds, err := fetch(ctx, bounds, start, end)
		if err == nil {
			if mean, ok := ds.MeanAt(start); ok {
				sample.Available = true
				sample.U = mean.U
				sample.V = mean.V
				sample.SpeedMS = speed(mean)
				return sample
			}
		} else {
			s.log.Warn(ctx, "product probe failed",
				logging.String("product", product), logging.Any("error", err))
		}
	}

	sample.Fallback = true
	sample.U = fallback.U
	sample.V = fallback.V
	sample.SpeedMS = speed(fallback)
	return sample
}

func speed(s model.EnvironmentSample) float64 {
	return math.Hypot(s.U, s.V)
}
