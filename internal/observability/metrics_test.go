package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddlewareRecordsRequestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	router := mux.NewRouter()
	router.Use(collector.Middleware())
	router.HandleFunc("/api/drift/calculate", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drift/calculate", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("handler returned %d", rec.Code)
	}

	got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/drift/calculate", "POST", "200"))
	if got != 1 {
		t.Fatalf("drift_http_requests_total = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "drift_http_request_duration_seconds", map[string]string{
		"route":  "/api/drift/calculate",
		"method": "POST",
	}); count != 1 {
		t.Fatalf("drift_http_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestMiddlewareRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	router := mux.NewRouter()
	router.Use(collector.Middleware())
	router.HandleFunc("/api/drift/calculate", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drift/calculate", nil))

	got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/drift/calculate", "POST", "400"))
	if got != 1 {
		t.Fatalf("drift_http_requests_total{code=400} = %v, want 1", got)
	}
}

func TestRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	collector.RecordRun("life_raft", false, 750*time.Millisecond, 1000, 0)
	collector.RecordRun("life_raft", true, 200*time.Millisecond, 500, 12)

	if got := testutil.ToFloat64(collector.SimulationRuns.WithLabelValues("life_raft", "ok")); got != 1 {
		t.Errorf("runs{outcome=ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.SimulationRuns.WithLabelValues("life_raft", "degraded")); got != 1 {
		t.Errorf("runs{outcome=degraded} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.StrandedParticles); got != 12 {
		t.Errorf("stranded total = %v, want 12", got)
	}
	if count := histogramSampleCount(t, reg, "drift_simulation_duration_seconds", map[string]string{
		"category": "life_raft",
	}); count != 2 {
		t.Errorf("simulation duration sample_count = %d, want 2", count)
	}
}

func TestRecordDataFallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}

	collector.RecordDataFallback("wind")
	collector.RecordDataFallback("wind")
	collector.RecordDataFallback("currents")

	if got := testutil.ToFloat64(collector.DataFallbacks.WithLabelValues("wind")); got != 2 {
		t.Errorf("fallbacks{product=wind} = %v, want 2", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewDriftCollector(reg)
	if err != nil {
		t.Fatalf("NewDriftCollector: %v", err)
	}
	collector.RecordRun("debris", false, time.Second, 1000, 0)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "drift_simulation_runs_total") {
		t.Errorf("metrics output missing drift_simulation_runs_total")
	}
}

func TestNewDriftCollectorIdempotentRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewDriftCollector(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewDriftCollector(reg); err != nil {
		t.Fatalf("second registration against the same registry: %v", err)
	}
}

// histogramSampleCount digs a histogram sample count out of a gathered
// metric family for the given label set.
func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			if !labelsMatch(m.GetLabel(), labels) {
				continue
			}
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}
