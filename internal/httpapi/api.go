// Package httpapi exposes the restaurant directory over HTTP with JSON
// bodies, matching the wire surface of the original deployment.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/config"
	"github.com/tablerank/tablerank/internal/stats"
)

// API holds the HTTP handlers for the directory service.
type API struct {
	svc    *tablerank.Service
	cfg    config.Config
	logger *zap.Logger
	stats  stats.Collector
}

// New creates the HTTP API around a service.
// If logger or collector are nil, no-op implementations are used.
func New(svc *tablerank.Service, cfg config.Config, logger *zap.Logger, collector stats.Collector) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &API{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		stats:  collector,
	}
}

// Router builds the route table. Facet routes are registered before the
// single-restaurant route so "cuisine" and "region" are never captured as
// restaurant names.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.instrument)

	r.HandleFunc("/", a.handleIndex).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/restaurants", a.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/restaurants/rating", a.handleRate).Methods(http.MethodPost)
	r.HandleFunc("/restaurants/cuisine/{cuisine}", a.handleTopByCuisine).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/region/{region}/cuisine/{cuisine}", a.handleTopByRegionAndCuisine).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/region/{region}", a.handleTopByRegion).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/{name}", a.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/{name}", a.handleDelete).Methods(http.MethodDelete)

	return r
}

// instrument records request durations.
func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.stats.ObserveHistogram(stats.MetricHTTPDuration, time.Since(start).Seconds())
	})
}

// statusResponse is the success/failure envelope used by mutating routes.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encoding response", zap.Error(err))
	}
}

func (a *API) writeFailure(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, statusResponse{Success: false, Message: message})
}

// writeError maps service errors to HTTP statuses: conflict 409, not found
// 404, anything else a 500 dependency failure.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tablerank.ErrAlreadyExists):
		a.writeFailure(w, http.StatusConflict, "Restaurant already exists")
	case errors.Is(err, tablerank.ErrNotFound):
		a.writeFailure(w, http.StatusNotFound, "Restaurant not found")
	default:
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		a.writeFailure(w, http.StatusInternalServerError, "Dependency error: "+err.Error())
	}
}
