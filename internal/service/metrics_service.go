package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheLatency prometheus.Observer
	cacheWrite   prometheus.Observer
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter

	matchComputations       prometheus.Counter
	matchDuration           prometheus.Histogram
	availabilityEvaluations prometheus.Counter
	paymentSettlements      *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	matchComputations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "match_computations_total",
		Help: "Total pairwise compatibility computations",
	})

	matchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_request_duration_seconds",
		Help:    "Duration of full match-ranking requests",
		Buckets: prometheus.DefBuckets,
	})

	availabilityEvaluations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_evaluations_total",
		Help: "Total availability engine evaluations",
	})

	paymentSettlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_settlements_total",
		Help: "Total mocked payment settlements by outcome",
	}, []string{"outcome"})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheHits, cacheMisses,
		matchComputations, matchDuration,
		availabilityEvaluations, paymentSettlements,
	)

	return &MetricsService{
		registry:                registry,
		handler:                 promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:         requestDuration,
		requestTotal:            requestTotal,
		cacheLatency:            cacheLatency,
		cacheWrite:              cacheWrite,
		cacheHits:               cacheHits,
		cacheMisses:             cacheMisses,
		matchComputations:       matchComputations,
		matchDuration:           matchDuration,
		availabilityEvaluations: availabilityEvaluations,
		paymentSettlements:      paymentSettlements,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// RecordHTTPRequest observes a finished HTTP request.
func (s *MetricsService) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	s.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordCacheOperation observes a cache lookup outcome.
func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	s.cacheLatency.Observe(duration.Seconds())
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// ObserveCacheWrite observes a cache set latency.
func (s *MetricsService) ObserveCacheWrite(duration time.Duration) {
	s.cacheWrite.Observe(duration.Seconds())
}

// RecordMatchComputation counts one pairwise scoring run.
func (s *MetricsService) RecordMatchComputation() {
	s.matchComputations.Inc()
}

// ObserveMatchRequest observes a full match-ranking request.
func (s *MetricsService) ObserveMatchRequest(duration time.Duration) {
	s.matchDuration.Observe(duration.Seconds())
}

// RecordAvailabilityEvaluation counts one availability engine run.
func (s *MetricsService) RecordAvailabilityEvaluation() {
	s.availabilityEvaluations.Inc()
}

// RecordPaymentSettlement counts a settlement outcome ("settled" or "declined").
func (s *MetricsService) RecordPaymentSettlement(outcome string) {
	s.paymentSettlements.WithLabelValues(outcome).Inc()
}
