package core

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/signalsfoundry/drift-simulator/internal/logging"
	"github.com/signalsfoundry/drift-simulator/model"
)

// initialSpreadDeg is the Gaussian spread applied to the particle seeds in
// both axes (~100 m), representing uncertainty in the initial fix rather
// than drift.
const initialSpreadDeg = 0.001

// DefaultNumParticles is the ensemble size used when the caller does not set
// one.
const DefaultNumParticles = 1000

// RunParams describes one simulation run. Coordinate, horizon, and particle
// bounds are enforced at the API boundary; the core assumes pre-validated
// input and only fills defaults for optional fields.
type RunParams struct {
	Start           model.Coordinate
	StartTime       time.Time
	ProjectionHours float64
	Category        model.ObjectCategory
	NumParticles    int
	TimeStepHours   float64 // default 1.0
	Confidence      float64 // default 0.80
	Seed            uint64  // 0 picks a random seed
}

// SimulationResult is the immutable outcome of one run. The particle
// ensemble itself does not survive the call.
type SimulationResult struct {
	FinalPositions  []model.Coordinate
	SearchPolygon   model.Polygon
	PriorityPolygon model.Polygon
	MeanDriftKm     float64
	StrandedCount   int
	Duration        time.Duration

	// DegradedData is set when at least one environmental sample failed and
	// the documented fallback forcing was substituted. Never fatal.
	DegradedData bool

	// Seed is the seed the run actually used, for reproducing it.
	Seed uint64
}

// Simulator runs Monte Carlo drift propagation. It holds no cross-run
// mutable state; one instance may serve concurrent runs.
type Simulator struct {
	sampler EnvironmentSampler
	land    LandMask
	noise   LeewayNoise
	workers int
	log     logging.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLandMask installs a stranding predicate. Without one, stranding never
// triggers.
func WithLandMask(mask LandMask) Option {
	return func(s *Simulator) {
		if mask != nil {
			s.land = mask
		}
	}
}

// WithWorkers caps the per-step update parallelism.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithNoise overrides the stochastic forcing noise.
func WithNoise(noise LeewayNoise) Option {
	return func(s *Simulator) { s.noise = noise }
}

// WithLogger attaches a logger for run progress and degraded-data warnings.
func WithLogger(log logging.Logger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSimulator constructs a simulator around an environmental sampler.
func NewSimulator(sampler EnvironmentSampler, opts ...Option) *Simulator {
	s := &Simulator{
		sampler: sampler,
		land:    OpenWater,
		noise:   DefaultLeewayNoise(),
		workers: runtime.NumCPU(),
		log:     logging.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// particle is one trajectory hypothesis. Each particle carries its own
// deterministically derived random stream so per-step updates can run in
// parallel without draw-order races.
type particle struct {
	lat, lon float64
	stranded bool
	rng      *rand.Rand
}

// Run propagates the ensemble and synthesizes the result geometry. Sampling
// failures never abort the run; the fallback forcing is substituted and the
// result is flagged as degraded.
func (s *Simulator) Run(ctx context.Context, params RunParams) *SimulationResult {
	wallStart := time.Now()

	if params.NumParticles <= 0 {
		params.NumParticles = DefaultNumParticles
	}
	if params.TimeStepHours <= 0 {
		params.TimeStepHours = 1.0
	}
	if params.Confidence <= 0 || params.Confidence > 1 {
		params.Confidence = 0.80
	}
	seed := params.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s.log.Info(ctx, "starting monte carlo simulation",
		logging.Int("particles", params.NumParticles),
		logging.Any("projection_hours", params.ProjectionHours),
		logging.String("category", string(params.Category)),
	)

	particles := make([]particle, params.NumParticles)
	for i := range particles {
		rng := rand.New(rand.NewPCG(seed, uint64(i)+1))
		particles[i] = particle{
			lat: params.Start.Lat + rng.NormFloat64()*initialSpreadDeg,
			lon: params.Start.Lon + rng.NormFloat64()*initialSpreadDeg,
			rng: rng,
		}
	}

	steps := int(params.ProjectionHours / params.TimeStepHours)
	clock := params.StartTime
	degraded := false

	positions := make([]model.Coordinate, len(particles))
	for step := 0; step < steps; step++ {
		for i, p := range particles {
			positions[i] = model.Coordinate{Lat: p.lat, Lon: p.lon}
		}

		currents, winds, err := s.sampler.Sample(ctx, clock, positions)
		if err != nil || len(currents) == 0 || len(winds) == 0 {
			if !degraded {
				s.log.Warn(ctx, "environmental sampling failed, using fallback forcing",
					logging.Int("step", step),
					logging.Any("error", err),
				)
			}
			degraded = true
			currents = []model.EnvironmentSample{FallbackCurrent()}
			winds = []model.EnvironmentSample{FallbackWind()}
		}

		s.advance(particles, currents, winds, params)

		clock = clock.Add(time.Duration(params.TimeStepHours * float64(time.Hour)))
	}

	final := make([]model.Coordinate, len(particles))
	stranded := 0
	for i, p := range particles {
		final[i] = model.Coordinate{Lat: p.lat, Lon: p.lon}
		if p.stranded {
			stranded++
		}
	}

	var meanDrift float64
	for _, p := range final {
		meanDrift += HaversineKm(params.Start.Lat, params.Start.Lon, p.Lat, p.Lon)
	}
	meanDrift /= float64(len(final))

	result := &SimulationResult{
		FinalPositions:  final,
		SearchPolygon:   ConvexHull(final),
		PriorityPolygon: ConfidenceCircle(final, params.Confidence),
		MeanDriftKm:     meanDrift,
		StrandedCount:   stranded,
		Duration:        time.Since(wallStart),
		DegradedData:    degraded,
		Seed:            seed,
	}

	s.log.Info(ctx, "simulation completed",
		logging.Any("duration_seconds", result.Duration.Seconds()),
		logging.Any("mean_drift_km", result.MeanDriftKm),
		logging.Int("stranded", result.StrandedCount),
	)

	return result
}

// advance updates every free particle by one time step. Updates fork across
// a bounded worker pool and join before returning: the next step's
// environmental sample depends on the positions finalized here.
func (s *Simulator) advance(particles []particle, currents, winds []model.EnvironmentSample, params RunParams) {
	workers := s.workers
	if workers > len(particles) {
		workers = len(particles)
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (len(particles) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(particles) {
			hi = len(particles)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				p := &particles[i]
				if p.stranded {
					continue
				}

				cur := sampleAt(currents, i)
				wind := sampleAt(winds, i)

				u, v := SampleLeewayVelocity(p.rng, cur.U, cur.V, wind.U, wind.V, params.Category, s.noise)
				dLon, dLat := VelocityToDegreesPerHour(u, v, p.lat)

				nextLat := p.lat + dLat*params.TimeStepHours
				nextLon := p.lon + dLon*params.TimeStepHours

				if s.land.IsLand(nextLat, nextLon) {
					// Freeze at the last water position.
					p.stranded = true
					continue
				}
				p.lat = nextLat
				p.lon = nextLon
			}
		}(lo, hi)
	}
	wg.Wait()
}

// sampleAt resolves a per-particle sample from either a broadcast
// single-element slice or a full per-position slice.
func sampleAt(samples []model.EnvironmentSample, i int) model.EnvironmentSample {
	if len(samples) == 1 {
		return samples[0]
	}
	if i < len(samples) {
		return samples[i]
	}
	return samples[len(samples)-1]
}
