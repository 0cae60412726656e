// Package metrics prometheus collectors of the engine. every method is safe on a nil *Metrics so
// components can run without a registry (tests, preprocessing).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var durationBucketsMs = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 30000}

type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDurationMs   *prometheus.HistogramVec
	OverpassAttempts *prometheus.CounterVec
	OverpassFailures *prometheus.CounterVec
	OverpassDuration *prometheus.HistogramVec
	Routes           *prometheus.CounterVec
	DangerScore      prometheus.Histogram
	GeocodeCache     *prometheus.CounterVec
	GraphCache       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightwalk_http_requests_total",
			Help: "Total http requests by method, route pattern and status",
		}, []string{"method", "path", "status"}),
		HTTPDurationMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nightwalk_http_request_duration_ms",
			Help:    "Http request duration in milliseconds",
			Buckets: durationBucketsMs,
		}, []string{"method", "path"}),
		OverpassAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightwalk_overpass_attempts_total",
			Help: "Overpass queries sent, by mirror",
		}, []string{"mirror"}),
		OverpassFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightwalk_overpass_failures_total",
			Help: "Overpass queries failed (transport error or non 200), by mirror",
		}, []string{"mirror"}),
		OverpassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nightwalk_overpass_duration_ms",
			Help:    "Overpass query duration in milliseconds",
			Buckets: durationBucketsMs,
		}, []string{"mirror"}),
		Routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightwalk_routes_total",
			Help: "Route computations by mode and outcome",
		}, []string{"mode", "outcome"}),
		DangerScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nightwalk_route_danger_score",
			Help:    "Danger score of computed routes with non zero length",
			Buckets: []float64{1, 1.5, 2, 3, 5, 8, 11, 15},
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightwalk_geocode_cache_total",
			Help: "Geocode lookups by cache result (hit, redis_hit, miss)",
		}, []string{"result"}),
		GraphCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightwalk_graph_cache_total",
			Help: "Graph cache lookups by result (hit, miss)",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.HTTPRequests, m.HTTPDurationMs,
		m.OverpassAttempts, m.OverpassFailures, m.OverpassDuration,
		m.Routes, m.DangerScore,
		m.GeocodeCache, m.GraphCache,
	)
	return m
}

func (m *Metrics) ObserveHTTP(method, path string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDurationMs.WithLabelValues(method, path).Observe(float64(dur.Milliseconds()))
}

func (m *Metrics) ObserveOverpass(mirror string, dur time.Duration, err error) {
	if m == nil {
		return
	}
	m.OverpassAttempts.WithLabelValues(mirror).Inc()
	m.OverpassDuration.WithLabelValues(mirror).Observe(float64(dur.Milliseconds()))
	if err != nil {
		m.OverpassFailures.WithLabelValues(mirror).Inc()
	}
}

// ObserveRoute outcome is "ok" or an error class. a +Inf danger score is not observed.
func (m *Metrics) ObserveRoute(mode, outcome string, dangerScore float64, zeroLength bool) {
	if m == nil {
		return
	}
	m.Routes.WithLabelValues(mode, outcome).Inc()
	if outcome == "ok" && !zeroLength {
		m.DangerScore.Observe(dangerScore)
	}
}

func (m *Metrics) GeocodeCacheResult(result string) {
	if m == nil {
		return
	}
	m.GeocodeCache.WithLabelValues(result).Inc()
}

func (m *Metrics) GraphCacheResult(result string) {
	if m == nil {
		return
	}
	m.GraphCache.WithLabelValues(result).Inc()
}
