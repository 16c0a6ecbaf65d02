package marine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetchCurrents(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(testDataset())
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:         srv.URL,
		APIToken:        "secret",
		CurrentsProduct: "global-ocean-currents-6h",
	}, nil)

	bounds := Bounds{MinLat: 42.0, MaxLat: 44.0, MinLon: -10.0, MaxLon: -8.0}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ds, err := client.FetchCurrents(context.Background(), bounds, start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("FetchCurrents: %v", err)
	}

	if gotPath != "/v1/datasets/global-ocean-currents-6h" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotQuery["min_lat"] != "42.0000" || gotQuery["max_lon"] != "-8.0000" {
		t.Errorf("bounds query = %v", gotQuery)
	}
	if len(ds.Times) != 3 {
		t.Errorf("decoded %d time slices, want 3", len(ds.Times))
	}
	if ds.Bounds != bounds {
		t.Errorf("dataset bounds = %+v, want %+v", ds.Bounds, bounds)
	}
}

func TestClientFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream outage", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, WindProduct: "global-ocean-wind-1h"}, nil)
	_, err := client.FetchWind(context.Background(), Bounds{}, time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestClientUnconfigured(t *testing.T) {
	client := NewClient(ClientConfig{}, nil)
	if client.Configured() {
		t.Error("client without base URL should report unconfigured")
	}
	if _, err := client.FetchCurrents(context.Background(), Bounds{}, time.Now(), time.Now()); err == nil {
		t.Error("unconfigured fetch should fail")
	}
}

func TestClientRejectsInvalidDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&Dataset{Product: "p"})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, CurrentsProduct: "p"}, nil)
	if _, err := client.FetchCurrents(context.Background(), Bounds{}, time.Now(), time.Now()); err == nil {
		t.Error("dataset without time slices should be rejected")
	}
}
