package marine

import (
	"math"
	"testing"
	"time"
)

func testDataset() *Dataset {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &Dataset{
		Product: "global-ocean-currents-6h",
		Times:   []time.Time{base, base.Add(6 * time.Hour), base.Add(12 * time.Hour)},
		U: [][]float64{
			{0.1, 0.3},
			{1.0, 2.0, 3.0},
			{},
		},
		V: [][]float64{
			{-0.1, -0.3},
			{0.5, 0.5, 0.5},
			{},
		},
	}
}

func TestMeanAtNearestSlice(t *testing.T) {
	ds := testDataset()

	// 7h after base is closer to the 6h slice than the 12h slice.
	sample, ok := ds.MeanAt(ds.Times[0].Add(7 * time.Hour))
	if !ok {
		t.Fatal("expected a sample")
	}
	if math.Abs(sample.U-2.0) > 1e-12 {
		t.Errorf("mean U = %v, want 2.0", sample.U)
	}
	if math.Abs(sample.V-0.5) > 1e-12 {
		t.Errorf("mean V = %v, want 0.5", sample.V)
	}
}

func TestMeanAtExactTime(t *testing.T) {
	ds := testDataset()
	sample, ok := ds.MeanAt(ds.Times[0])
	if !ok {
		t.Fatal("expected a sample")
	}
	if math.Abs(sample.U-0.2) > 1e-12 {
		t.Errorf("mean U = %v, want 0.2", sample.U)
	}
}

func TestMeanAtEmptySlice(t *testing.T) {
	ds := testDataset()
	if _, ok := ds.MeanAt(ds.Times[2]); ok {
		t.Error("slice with no water cells should not produce a sample")
	}
}

func TestMeanAtNilDataset(t *testing.T) {
	var ds *Dataset
	if _, ok := ds.MeanAt(time.Now()); ok {
		t.Error("nil dataset should not produce a sample")
	}
}

func TestDatasetValidate(t *testing.T) {
	ds := testDataset()
	if err := ds.Validate(); err != nil {
		t.Errorf("valid dataset rejected: %v", err)
	}

	ds.U = ds.U[:2]
	if err := ds.Validate(); err == nil {
		t.Error("mismatched slice counts should be rejected")
	}

	empty := &Dataset{Product: "p"}
	if err := empty.Validate(); err == nil {
		t.Error("dataset without time slices should be rejected")
	}
}
