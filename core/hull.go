package core

import (
	"math"
	"sort"

	"github.com/signalsfoundry/drift-simulator/model"
)

// confidenceRingPoints is the vertex count of the rendered confidence circle.
const confidenceRingPoints = 32

// ConvexHull returns the convex hull of the positions as a closed polygon
// ring in (lon, lat) order, via the monotone chain algorithm. Fewer than
// three distinct points are degenerate: the result is a valid polygon with
// an empty ring rather than an error.
func ConvexHull(positions []model.Coordinate) model.Polygon {
	points := make([]model.LonLat, 0, len(positions))
	seen := make(map[model.LonLat]struct{}, len(positions))
	for _, p := range positions {
		pt := model.LonLat{p.Lon, p.Lat}
		if _, dup := seen[pt]; dup {
			continue
		}
		seen[pt] = struct{}{}
		points = append(points, pt)
	}
	if len(points) < 3 {
		return model.Polygon{}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i][0] != points[j][0] {
			return points[i][0] < points[j][0]
		}
		return points[i][1] < points[j][1]
	})

	lower := chain(points)
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	upper := chain(points)

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		// All points collinear.
		return model.Polygon{}
	}

	// Close the ring.
	hull = append(hull, hull[0])
	return model.Polygon{Ring: hull}
}

// chain builds one half-hull over points already sorted along the sweep.
func chain(points []model.LonLat) []model.LonLat {
	var out []model.LonLat
	for _, p := range points {
		for len(out) >= 2 && cross(out[len(out)-2], out[len(out)-1], p) <= 0 {
			out = out[:len(out)-1]
		}
		out = append(out, p)
	}
	return out
}

func cross(o, a, b model.LonLat) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// ConfidenceCircle approximates the region holding the given fraction of the
// positions: a circle centred on the particle centroid whose radius is the
// confidence percentile of degree-space distances from the centroid,
// rendered as a closed 32-point ring. This deliberately trades a rigorous
// confidence ellipse for a fast heuristic; downstream consumers treat it as
// an 80%-coverage zone, not a certified bound.
func ConfidenceCircle(positions []model.Coordinate, confidence float64) model.Polygon {
	if len(positions) == 0 {
		return model.Polygon{}
	}
	if confidence <= 0 || confidence > 1 {
		confidence = 0.80
	}

	var centerLat, centerLon float64
	for _, p := range positions {
		centerLat += p.Lat
		centerLon += p.Lon
	}
	centerLat /= float64(len(positions))
	centerLon /= float64(len(positions))

	distances := make([]float64, len(positions))
	for i, p := range positions {
		dLat := p.Lat - centerLat
		dLon := p.Lon - centerLon
		distances[i] = math.Sqrt(dLat*dLat + dLon*dLon)
	}
	sort.Float64s(distances)

	idx := int(float64(len(distances)) * confidence)
	if idx >= len(distances) {
		idx = len(distances) - 1
	}
	radius := distances[idx]

	// 31 distinct vertices plus an explicit closing vertex = 32 ring points.
	ring := make([]model.LonLat, 0, confidenceRingPoints)
	for i := 0; i < confidenceRingPoints-1; i++ {
		angle := 2 * math.Pi * float64(i) / float64(confidenceRingPoints-1)
		ring = append(ring, model.LonLat{
			centerLon + radius*math.Cos(angle),
			centerLat + radius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])

	return model.Polygon{Ring: ring}
}
