// Package metrics defines the Prometheus collectors exported on /metrics.
// They live in their own package so repositories and HTTP middleware can
// record into them without importing each other.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RepositoryOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_repository_operations_total",
		Help: "Repository operations by entity, operation and outcome",
	}, []string{"entity", "op", "outcome"})

	RepositoryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_repository_operation_seconds",
		Help:    "Latency of repository operations including store round trips",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"entity", "op"})

	CatalogCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_catalog_cache_total",
		Help: "Catalog cache lookups by catalog and result (hit, miss)",
	}, []string{"catalog", "result"})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_events_published_total",
		Help: "Change events handed to the broker, by result",
	}, []string{"result"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})
)

// ObserveOperation records one repository call.
func ObserveOperation(entity, op, outcome string, d time.Duration) {
	RepositoryOps.WithLabelValues(entity, op, outcome).Inc()
	RepositoryLatency.WithLabelValues(entity, op).Observe(d.Seconds())
}

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route string, code int) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Register adds every collector to reg (the default registerer when nil).
// Collectors that are already registered are skipped.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{RepositoryOps, RepositoryLatency, CatalogCache, EventsPublished, HTTPRequests} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
