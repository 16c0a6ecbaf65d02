package marine

import (
	"fmt"
	"time"

	"github.com/signalsfoundry/drift-simulator/model"
)

// Bounds is a geographic bounding box for dataset subsets.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Dataset is a gridded subset of one environmental product over a bounding
// box and time window. Values[i] holds the grid cells of the slice at
// Times[i]; cells on land are omitted by the upstream service, so slices
// may differ in length.
type Dataset struct {
	Product string      `json:"product"`
	Bounds  Bounds      `json:"bounds"`
	Times   []time.Time `json:"times"`
	U       [][]float64 `json:"u"`
	V       [][]float64 `json:"v"`
}

// Validate checks the structural invariants of a decoded dataset.
func (d *Dataset) Validate() error {
	if len(d.Times) == 0 {
		return fmt.Errorf("dataset %q has no time slices", d.Product)
	}
	if len(d.U) != len(d.Times) || len(d.V) != len(d.Times) {
		return fmt.Errorf("dataset %q: %d time slices but %d/%d value slices",
			d.Product, len(d.Times), len(d.U), len(d.V))
	}
	return nil
}

// MeanAt returns the area-mean velocity of the time slice nearest to t.
// The spatial mean stands in for true per-position interpolation; the
// simulator broadcasts it across the whole ensemble. Returns false when the
// nearest slice holds no water cells.
func (d *Dataset) MeanAt(t time.Time) (model.EnvironmentSample, bool) {
	if d == nil || len(d.Times) == 0 {
		return model.EnvironmentSample{}, false
	}

	idx := nearestTimeIndex(d.Times, t)
	u := d.U[idx]
	v := d.V[idx]
	if len(u) == 0 || len(v) == 0 {
		return model.EnvironmentSample{}, false
	}

	var sumU, sumV float64
	for _, val := range u {
		sumU += val
	}
	for _, val := range v {
		sumV += val
	}
	return model.EnvironmentSample{
		U: sumU / float64(len(u)),
		V: sumV / float64(len(v)),
	}, true
}

// nearestTimeIndex picks the slice whose timestamp is closest to t.
func nearestTimeIndex(times []time.Time, t time.Time) int {
	best := 0
	bestDelta := absDuration(times[0].Sub(t))
	for i := 1; i < len(times); i++ {
		if delta := absDuration(times[i].Sub(t)); delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
