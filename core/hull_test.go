package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/drift-simulator/model"
)

func TestConvexHull_SquareWithInteriorPoint(t *testing.T) {
	positions := []model.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
		{Lat: 0.5, Lon: 0.5}, // interior, must not appear on the hull
	}

	hull := ConvexHull(positions)
	if !hull.Closed() {
		t.Fatalf("hull ring not closed: %v", hull.Ring)
	}
	// 4 corners + closing vertex.
	if len(hull.Ring) != 5 {
		t.Fatalf("hull has %d ring points, want 5", len(hull.Ring))
	}

	inputs := make(map[model.LonLat]bool)
	for _, p := range positions {
		inputs[model.LonLat{p.Lon, p.Lat}] = true
	}
	for _, v := range hull.Ring {
		if !inputs[v] {
			t.Errorf("hull vertex %v is not one of the input positions", v)
		}
		if v == (model.LonLat{0.5, 0.5}) {
			t.Errorf("interior point leaked onto the hull")
		}
	}
}

func TestConvexHull_DegenerateInputs(t *testing.T) {
	cases := []struct {
		name      string
		positions []model.Coordinate
	}{
		{"empty", nil},
		{"single", []model.Coordinate{{Lat: 1, Lon: 2}}},
		{"two points", []model.Coordinate{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}}},
		{"duplicates", []model.Coordinate{{Lat: 1, Lon: 2}, {Lat: 1, Lon: 2}, {Lat: 1, Lon: 2}}},
		{"collinear", []model.Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
	}

	for _, c := range cases {
		hull := ConvexHull(c.positions)
		if len(hull.Ring) != 0 {
			t.Errorf("%s: hull ring = %v, want empty for degenerate input", c.name, hull.Ring)
		}
		// Degenerate hulls must still serialize to a valid polygon shape.
		gj := hull.GeoJSON()
		if gj.Type != "Polygon" || len(gj.Coordinates) != 1 {
			t.Errorf("%s: GeoJSON = %+v, want Polygon with one (empty) ring", c.name, gj)
		}
	}
}

func TestConfidenceCircle_CoversRequestedFraction(t *testing.T) {
	// A cross of points at increasing distance from the centre: the 80%
	// radius must exclude the farthest points.
	var positions []model.Coordinate
	for i := 1; i <= 25; i++ {
		d := float64(i) * 0.01
		positions = append(positions,
			model.Coordinate{Lat: d, Lon: 0},
			model.Coordinate{Lat: -d, Lon: 0},
			model.Coordinate{Lat: 0, Lon: d},
			model.Coordinate{Lat: 0, Lon: -d},
		)
	}

	circle := ConfidenceCircle(positions, 0.80)
	if len(circle.Ring) != 32 {
		t.Fatalf("circle ring has %d points, want 32", len(circle.Ring))
	}
	if circle.Ring[0] != circle.Ring[len(circle.Ring)-1] {
		t.Fatalf("circle ring not closed")
	}

	// Ring radius around the centroid (0, 0).
	radius := math.Hypot(circle.Ring[0][0], circle.Ring[0][1])

	inside := 0
	for _, p := range positions {
		if math.Hypot(p.Lon, p.Lat) <= radius+1e-12 {
			inside++
		}
	}
	frac := float64(inside) / float64(len(positions))
	if frac < 0.75 || frac > 0.90 {
		t.Errorf("circle covers %.2f of positions, want ~0.80", frac)
	}
}

func TestConfidenceCircle_ZeroSpread(t *testing.T) {
	positions := make([]model.Coordinate, 100)
	for i := range positions {
		positions[i] = model.Coordinate{Lat: 38.7, Lon: -9.6}
	}

	circle := ConfidenceCircle(positions, 0.80)
	if len(circle.Ring) != 32 {
		t.Fatalf("circle ring has %d points, want 32", len(circle.Ring))
	}
	for _, v := range circle.Ring {
		if math.Abs(v[0]+9.6) > 1e-9 || math.Abs(v[1]-38.7) > 1e-9 {
			t.Fatalf("zero-variance circle vertex %v strayed from the centroid", v)
		}
	}
}

func TestConfidenceCircle_Empty(t *testing.T) {
	circle := ConfidenceCircle(nil, 0.80)
	if len(circle.Ring) != 0 {
		t.Errorf("empty input produced ring %v", circle.Ring)
	}
}
