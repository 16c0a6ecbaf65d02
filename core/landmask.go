package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/drift-simulator/model"
)

// LandMask decides whether a position lies on land. Particles that cross
// into land are frozen in place and counted as stranded. The precision of
// stranding is bounded by the shoreline data behind the mask, so the mask is
// an injected capability rather than a built-in.
type LandMask interface {
	IsLand(lat, lon float64) bool
}

// LandFunc adapts a plain function to the LandMask interface.
type LandFunc func(lat, lon float64) bool

func (f LandFunc) IsLand(lat, lon float64) bool { return f(lat, lon) }

// OpenWater is a mask with no land at all; stranding never triggers.
var OpenWater LandMask = LandFunc(func(lat, lon float64) bool { return false })

// PolygonLandMask tests positions against a set of coastline polygons using
// ray casting. Rings are in (lon, lat) vertex order and need not be closed.
type PolygonLandMask struct {
	rings [][]model.LonLat
}

// NewPolygonLandMask builds a mask from coastline rings, skipping rings with
// fewer than three vertices.
func NewPolygonLandMask(rings ...[]model.LonLat) *PolygonLandMask {
	mask := &PolygonLandMask{}
	for _, ring := range rings {
		if len(ring) >= 3 {
			mask.rings = append(mask.rings, ring)
		}
	}
	return mask
}

// IsLand reports whether the point falls inside any coastline ring.
func (m *PolygonLandMask) IsLand(lat, lon float64) bool {
	for _, ring := range m.rings {
		if pointInRing(lon, lat, ring) {
			return true
		}
	}
	return false
}

// Rings returns the number of coastline rings loaded into the mask.
func (m *PolygonLandMask) Rings() int { return len(m.rings) }

// coastlineFile is the on-disk shape of a coastline mask: named polygons,
// each a single ring of [lon, lat] vertices.
type coastlineFile struct {
	Polygons []struct {
		Name string         `json:"name"`
		Ring []model.LonLat `json:"ring"`
	} `json:"polygons"`
}

// LoadPolygonLandMask reads coastline rings from JSON.
func LoadPolygonLandMask(r io.Reader) (*PolygonLandMask, error) {
	var file coastlineFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse coastline file: %w", err)
	}

	rings := make([][]model.LonLat, 0, len(file.Polygons))
	for _, p := range file.Polygons {
		if len(p.Ring) < 3 {
			return nil, fmt.Errorf("coastline polygon %q has %d vertices, need at least 3", p.Name, len(p.Ring))
		}
		rings = append(rings, p.Ring)
	}
	return NewPolygonLandMask(rings...), nil
}

// pointInRing is a standard even-odd ray cast in (lon, lat) space.
func pointInRing(x, y float64, ring []model.LonLat) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
