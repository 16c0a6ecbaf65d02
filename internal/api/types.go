package api

import (
	"time"

	"github.com/signalsfoundry/drift-simulator/core"
	"github.com/signalsfoundry/drift-simulator/model"
)

// DriftRequest is the body of the calculate and preview endpoints.
type DriftRequest struct {
	LKP             model.Coordinate     `json:"lkp"`
	IncidentTime    time.Time            `json:"incident_time"`
	ProjectionHours float64              `json:"projection_hours"`
	ObjectType      model.ObjectCategory `json:"object_type"`
	NumParticles    int                  `json:"num_particles"`

	// Seed reproduces a previous run when non-zero.
	Seed uint64 `json:"seed,omitempty"`
}

func (r *DriftRequest) applyDefaults(now time.Time) {
	if r.IncidentTime.IsZero() {
		r.IncidentTime = now
	}
	if r.ProjectionHours == 0 {
		r.ProjectionHours = 24
	}
	if r.ObjectType == "" {
		r.ObjectType = model.PersonInWaterVertical
	}
	if r.NumParticles == 0 {
		r.NumParticles = core.DefaultNumParticles
	}
}

// ParticleSummary echoes back the ensemble settings a run used.
type ParticleSummary struct {
	Total           int     `json:"total"`
	ProjectionHours float64 `json:"projection_hours"`
	ObjectType      string  `json:"object_type"`
}

// DriftResponse is the result of one drift calculation.
type DriftResponse struct {
	RunID              string               `json:"run_id"`
	SearchArea         model.GeoJSONPolygon `json:"search_area"`
	PriorityZone       model.GeoJSONPolygon `json:"priority_zone"`
	EstimatedDriftKm   float64              `json:"estimated_drift_km"`
	ConfidenceLevel    float64              `json:"confidence_level"`
	CalculationSeconds float64              `json:"calculation_seconds"`
	StrandedParticles  int                  `json:"stranded_particles"`
	DataDegraded       bool                 `json:"data_degraded"`
	Seed               uint64               `json:"seed"`
	Particles          ParticleSummary      `json:"particles"`
}

// ObjectTypeInfo describes one drift-object category for operators.
type ObjectTypeInfo struct {
	Name               string  `json:"name"`
	LeewayPercentMin   float64 `json:"leeway_percent_min"`
	LeewayPercentMax   float64 `json:"leeway_percent_max"`
	DivergenceAngleDeg float64 `json:"divergence_angle_deg"`
	Description        string  `json:"description"`
}

// DataStatus reports the health of the environmental-data pipeline.
type DataStatus struct {
	MarineConfigured bool   `json:"marine_configured"`
	CacheEntries     int    `json:"cache_entries"`
	EventsEnabled    bool   `json:"events_enabled"`
	CurrentsProduct  string `json:"currents_product,omitempty"`
	WindProduct      string `json:"wind_product,omitempty"`
}

// ProductSample summarizes the area-mean forcing of one product around a point.
type ProductSample struct {
	Product   string  `json:"product"`
	Available bool    `json:"available"`
	U         float64 `json:"u"`
	V         float64 `json:"v"`
	SpeedMS   float64 `json:"speed_ms"`
	Fallback  bool    `json:"fallback"`
}

type errorResponse struct {
	Error string `json:"error"`
}
