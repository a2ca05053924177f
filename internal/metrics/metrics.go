// Package metrics provides Prometheus metrics for the subway status service.
package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application. Every recording
// method is safe to call on a nil *Metrics.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream feed metrics
	FeedFetchesTotal       *prometheus.CounterVec
	FeedFetchDuration      *prometheus.HistogramVec
	FeedEntitiesTotal      *prometheus.CounterVec
	AlertPlaceholdersTotal *prometheus.CounterVec

	// Station index metrics
	StationsLoaded     prometheus.Gauge
	StationRowsSkipped prometheus.Gauge

	logger *slog.Logger
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subway_status_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subway_status_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	feedFetchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subway_status_feed_fetches_total",
			Help: "Upstream feed retrievals by feed and outcome",
		},
		[]string{"feed", "outcome"},
	)

	feedFetchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subway_status_feed_fetch_duration_seconds",
			Help:    "Time spent fetching and decoding an upstream feed",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"feed"},
	)

	feedEntitiesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subway_status_feed_entities_total",
			Help: "Decoded feed entities by kind",
		},
		[]string{"feed", "kind"},
	)

	alertPlaceholdersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subway_status_alert_placeholders_total",
			Help: "Alerts replaced by the parsing-error placeholder",
		},
		[]string{"feed"},
	)

	stationsLoaded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subway_status_stations_loaded",
		Help: "Number of stations in the station index",
	})

	stationRowsSkipped := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subway_status_station_rows_skipped",
		Help: "Station rows rejected while building the station index",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		feedFetchesTotal,
		feedFetchDuration,
		feedEntitiesTotal,
		alertPlaceholdersTotal,
		stationsLoaded,
		stationRowsSkipped,
	)

	return &Metrics{
		Registry:               registry,
		HTTPRequestsTotal:      httpRequestsTotal,
		HTTPRequestDuration:    httpRequestDuration,
		FeedFetchesTotal:       feedFetchesTotal,
		FeedFetchDuration:      feedFetchDuration,
		FeedEntitiesTotal:      feedEntitiesTotal,
		AlertPlaceholdersTotal: alertPlaceholdersTotal,
		StationsLoaded:         stationsLoaded,
		StationRowsSkipped:     stationRowsSkipped,
		logger:                 logger,
	}
}

// ObserveFetch records one upstream retrieval.
func (m *Metrics) ObserveFetch(feed, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FeedFetchesTotal.WithLabelValues(feed, outcome).Inc()
	m.FeedFetchDuration.WithLabelValues(feed).Observe(d.Seconds())
}

// ObserveEntities records the composition of one decoded feed.
func (m *Metrics) ObserveEntities(feed string, tripUpdates, alerts, skipped, placeholders int) {
	if m == nil {
		return
	}
	m.FeedEntitiesTotal.WithLabelValues(feed, "trip_update").Add(float64(tripUpdates))
	m.FeedEntitiesTotal.WithLabelValues(feed, "alert").Add(float64(alerts))
	m.FeedEntitiesTotal.WithLabelValues(feed, "skipped").Add(float64(skipped))
	if placeholders > 0 {
		m.AlertPlaceholdersTotal.WithLabelValues(feed).Add(float64(placeholders))
	}
}

// SetStationIndex publishes the outcome of the startup station load.
func (m *Metrics) SetStationIndex(loaded, skipped int) {
	if m == nil {
		return
	}
	m.StationsLoaded.Set(float64(loaded))
	m.StationRowsSkipped.Set(float64(skipped))
	if m.logger != nil && loaded == 0 {
		m.logger.Warn("station index is empty; trip updates will not be enriched")
	}
}
