package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/signalsfoundry/drift-simulator/internal/logging"
	"github.com/signalsfoundry/drift-simulator/internal/observability"
)

// Server hosts the drift API over HTTP.
type Server struct {
	http *http.Server
	log  logging.Logger
}

// NewServer builds the router and middleware chain around a Service.
// collector may be nil to skip HTTP metrics.
func NewServer(addr string, svc *Service, collector *observability.DriftCollector, log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware())
	if collector != nil {
		r.Use(collector.Middleware())
	}
	r.Use(observability.TracingMiddleware())

	r.HandleFunc("/health", svc.HandleHealth).Methods(http.MethodGet)

	drift := r.PathPrefix("/api/drift").Subrouter()
	drift.HandleFunc("/calculate", svc.HandleCalculate).Methods(http.MethodPost)
	drift.HandleFunc("/preview", svc.HandlePreview).Methods(http.MethodPost)
	drift.HandleFunc("/object-types", svc.HandleObjectTypes).Methods(http.MethodGet)

	data := r.PathPrefix("/api/data").Subrouter()
	data.HandleFunc("/status", svc.HandleDataStatus).Methods(http.MethodGet)
	data.HandleFunc("/currents", svc.HandleCurrents).Methods(http.MethodGet)
	data.HandleFunc("/wind", svc.HandleWind).Methods(http.MethodGet)

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      2 * time.Minute,
			IdleTimeout:       time.Minute,
		},
		log: log,
	}
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler { return s.http.Handler }

// Start serves until the listener fails. Blocks.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info(ctx, "http server listening", logging.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
