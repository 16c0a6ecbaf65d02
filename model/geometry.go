package model

// LonLat is a polygon vertex as a (longitude, latitude) pair, matching the
// GeoJSON coordinate order.
type LonLat [2]float64

// Polygon is a single-ring polygon with vertices in (lon, lat) order.
// An empty ring is valid and represents a degenerate geometry (fewer than
// three distinct input points).
type Polygon struct {
	Ring []LonLat
}

// Closed reports whether the ring has at least four vertices and the first
// vertex repeats as the last one.
func (p Polygon) Closed() bool {
	n := len(p.Ring)
	return n >= 4 && p.Ring[0] == p.Ring[n-1]
}

// GeoJSONPolygon is the wire shape of a polygon:
// {"type":"Polygon","coordinates":[[[lon,lat],...]]}.
type GeoJSONPolygon struct {
	Type        string     `json:"type"`
	Coordinates [][]LonLat `json:"coordinates"`
}

// GeoJSON converts the polygon to its GeoJSON wire shape. The conversion is
// explicit and happens only at the serialization boundary; the core carries
// the typed Polygon.
func (p Polygon) GeoJSON() GeoJSONPolygon {
	ring := p.Ring
	if ring == nil {
		ring = []LonLat{}
	}
	return GeoJSONPolygon{
		Type:        "Polygon",
		Coordinates: [][]LonLat{ring},
	}
}
