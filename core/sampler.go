package core

import (
	"context"
	"time"

	"github.com/signalsfoundry/drift-simulator/model"
)

// DefaultWindSpeedMS is the moderate wind assumed when no wind dataset is
// available, split into equal orthogonal components by the fallback.
const DefaultWindSpeedMS = 5.0

// EnvironmentSampler supplies current and wind vectors for a batch of
// particle positions at a simulated time. Implementations may return one
// sample per position, or a single-element slice broadcast across all
// positions; the simulator accepts both. Implementations are expected to
// recover from missing data internally (see FallbackCurrent/FallbackWind),
// but the simulator also tolerates an error return without aborting a run.
type EnvironmentSampler interface {
	Sample(ctx context.Context, t time.Time, positions []model.Coordinate) (currents, winds []model.EnvironmentSample, err error)
}

// FallbackCurrent is the current assumed when no dataset can be resolved.
func FallbackCurrent() model.EnvironmentSample {
	return model.EnvironmentSample{}
}

// FallbackWind is the wind assumed when no dataset can be resolved: half the
// default speed on each axis.
func FallbackWind() model.EnvironmentSample {
	return model.EnvironmentSample{U: DefaultWindSpeedMS * 0.5, V: DefaultWindSpeedMS * 0.5}
}

// StaticSampler returns the same current and wind vectors for every position
// and time. Used for offline previews and tests.
type StaticSampler struct {
	Current model.EnvironmentSample
	Wind    model.EnvironmentSample
}

// Sample broadcasts the fixed vectors as single-element slices.
func (s StaticSampler) Sample(ctx context.Context, t time.Time, positions []model.Coordinate) ([]model.EnvironmentSample, []model.EnvironmentSample, error) {
	return []model.EnvironmentSample{s.Current}, []model.EnvironmentSample{s.Wind}, nil
}
