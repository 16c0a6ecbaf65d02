package core

import (
	"math"
	"testing"
)

func TestHaversineKm_IdenticalPoints(t *testing.T) {
	points := [][2]float64{{0, 0}, {38.7, -9.6}, {-45, 170}, {89.9, -180}}
	for _, p := range points {
		if d := HaversineKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("HaversineKm(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	ab := HaversineKm(38.72, -9.14, 41.15, -8.61)
	ba := HaversineKm(41.15, -8.61, 38.72, -9.14)
	if ab != ba {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Lisbon to Porto is roughly 274 km.
	d := HaversineKm(38.7223, -9.1393, 41.1579, -8.6291)
	if d < 250 || d > 300 {
		t.Errorf("Lisbon-Porto distance = %v km, want ~274", d)
	}
}

func TestBoundingBox_Equator(t *testing.T) {
	minLat, maxLat, minLon, maxLon := BoundingBox(0, 0, 111)
	if math.Abs(minLat+1) > 0.01 || math.Abs(maxLat-1) > 0.01 {
		t.Errorf("latitude bounds = (%v, %v), want ~(-1, 1)", minLat, maxLat)
	}
	// At the equator the longitude scale equals the latitude scale.
	if math.Abs(minLon+1) > 0.01 || math.Abs(maxLon-1) > 0.01 {
		t.Errorf("longitude bounds = (%v, %v), want ~(-1, 1)", minLon, maxLon)
	}
}

func TestBoundingBox_NearPoleStaysFinite(t *testing.T) {
	for _, lat := range []float64{89.999, 90, -90} {
		minLat, maxLat, minLon, maxLon := BoundingBox(lat, 0, 50)
		for _, v := range []float64{minLat, maxLat, minLon, maxLon} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("BoundingBox at lat %v produced %v", lat, v)
			}
		}
		// The degenerate longitude scale must fall back to the latitude scale.
		if maxLon-minLon > 10 {
			t.Errorf("longitude span at lat %v = %v, want bounded", lat, maxLon-minLon)
		}
	}
}

func TestVelocityToDegreesPerHour_Northward(t *testing.T) {
	// 1 m/s north is 3.6 km/h, ~0.0324 deg/hr of latitude anywhere.
	dLon, dLat := VelocityToDegreesPerHour(0, 1, 45)
	if dLon != 0 {
		t.Errorf("dLon = %v, want 0 for purely northward velocity", dLon)
	}
	if math.Abs(dLat-0.0324) > 0.001 {
		t.Errorf("dLat = %v, want ~0.0324", dLat)
	}
}

func TestVelocityToDegreesPerHour_LongitudeScalesWithLatitude(t *testing.T) {
	dLonEq, _ := VelocityToDegreesPerHour(1, 0, 0)
	dLon60, _ := VelocityToDegreesPerHour(1, 0, 60)
	// cos(60°) = 0.5, so the same eastward speed covers twice the degrees.
	if math.Abs(dLon60/dLonEq-2) > 0.01 {
		t.Errorf("dLon ratio at 60° vs equator = %v, want ~2", dLon60/dLonEq)
	}
}

func TestVelocityToDegreesPerHour_AtPole(t *testing.T) {
	dLon, dLat := VelocityToDegreesPerHour(5, 5, 90)
	if dLon != 0 {
		t.Errorf("dLon at pole = %v, want 0", dLon)
	}
	if math.IsNaN(dLat) || math.IsInf(dLat, 0) {
		t.Errorf("dLat at pole = %v", dLat)
	}
}

func TestValidCoordinate(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.001, 0, false},
		{0, -180.001, false},
		{-91, 200, false},
	}
	for _, c := range cases {
		if got := ValidCoordinate(c.lat, c.lon); got != c.want {
			t.Errorf("ValidCoordinate(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
