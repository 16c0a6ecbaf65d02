package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/signalsfoundry/drift-simulator/core"
	"github.com/signalsfoundry/drift-simulator/internal/logging"
	"github.com/signalsfoundry/drift-simulator/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

// HandleCalculate runs a full drift calculation and returns the search
// geometry.
func (s *Service) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	s.handleDrift(w, r, false)
}

// HandlePreview runs a reduced calculation with default forcing, for
// interactive map feedback before committing to a full run.
func (s *Service) HandlePreview(w http.ResponseWriter, r *http.Request) {
	s.handleDrift(w, r, true)
}

func (s *Service) handleDrift(w http.ResponseWriter, r *http.Request, preview bool) {
	var req DriftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	req.applyDefaults(s.now().UTC())
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := observability.StartChildSpan(r.Context(), "drift.run",
		attribute.String("object_type", string(req.ObjectType)),
		attribute.Int("num_particles", req.NumParticles),
		attribute.Bool("preview", preview),
	)
	defer span.End()

	resp := s.runDrift(ctx, req, preview)

	s.log.Info(ctx, "drift calculation served",
		logging.String("run_id", resp.RunID),
		logging.String("object_type", string(req.ObjectType)),
		logging.Float64("mean_drift_km", resp.EstimatedDriftKm),
		logging.Int("stranded", resp.StrandedParticles),
		logging.Any("degraded", resp.DataDegraded),
	)
	writeJSON(w, http.StatusOK, resp)
}

// HandleObjectTypes lists the supported drift-object categories and their
// leeway characteristics.
func (s *Service) HandleObjectTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, objectTypeCatalog())
}

// HandleHealth is the liveness probe.
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "drift-api",
	})
}

// HandleDataStatus reports whether live environmental data is reachable.
func (s *Service) HandleDataStatus(w http.ResponseWriter, r *http.Request) {
	status := DataStatus{
		EventsEnabled: s.events.Enabled(),
	}
	if s.provider != nil {
		status.MarineConfigured = s.provider.Configured()
		status.CacheEntries = s.provider.CacheSize()
	}
	if s.provider != nil && s.provider.Configured() {
		status.CurrentsProduct, status.WindProduct = s.provider.Products()
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleCurrents probes the ocean-currents product around a point.
func (s *Service) HandleCurrents(w http.ResponseWriter, r *http.Request) {
	s.handleProductProbe(w, r, "currents")
}

// HandleWind probes the surface-wind product around a point.
func (s *Service) HandleWind(w http.ResponseWriter, r *http.Request) {
	s.handleProductProbe(w, r, "wind")
}

func (s *Service) handleProductProbe(w http.ResponseWriter, r *http.Request, kind string) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat query parameter required")
		return
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon query parameter required")
		return
	}
	if !core.ValidCoordinate(lat, lon) {
		writeError(w, http.StatusBadRequest, ErrInvalidCoordinate.Error())
		return
	}
	hours, err := queryFloat(r, "hours")
	if err != nil {
		hours = 24
	}
	if hours < minProjectionHours || hours > maxProjectionHours {
		writeError(w, http.StatusBadRequest, ErrInvalidHours.Error())
		return
	}

	var sample ProductSample
	if kind == "currents" {
		sample = s.probeCurrents(r.Context(), lat, lon, hours)
	} else {
		sample = s.probeWind(r.Context(), lat, lon, hours)
	}
	writeJSON(w, http.StatusOK, sample)
}

func queryFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.New("missing " + key)
	}
	return strconv.ParseFloat(raw, 64)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
