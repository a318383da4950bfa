// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flightcompare"

// Metrics holds all prometheus metrics. Each instance owns its registry so
// tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	CatalogQueries     *prometheus.CounterVec
	CatalogLatency     *prometheus.HistogramVec
	ContactSubmissions *prometheus.CounterVec
	AirportLookups     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CatalogQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_queries_total",
			Help:      "The total number of catalog GraphQL queries by query and outcome",
		}, []string{"query", "outcome"}),
		CatalogLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_query_duration_seconds",
			Help:      "Time taken by catalog GraphQL queries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		ContactSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "The total number of contact form submissions by relay status",
		}, []string{"status"}),
		AirportLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_lookups_total",
			Help:      "Airport reference lookups by the layer that answered",
		}, []string{"source"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCatalogQuery implements storefront.Observer.
func (m *Metrics) ObserveCatalogQuery(query, outcome string, elapsed time.Duration) {
	m.CatalogQueries.WithLabelValues(query, outcome).Inc()
	m.CatalogLatency.WithLabelValues(query).Observe(elapsed.Seconds())
}

// ObserveContact counts one contact submission.
func (m *Metrics) ObserveContact(status string) {
	m.ContactSubmissions.WithLabelValues(status).Inc()
}

// ObserveAirportLookup counts which layer answered an airport lookup:
// "memory", "cache" or "catalog".
func (m *Metrics) ObserveAirportLookup(source string) {
	m.AirportLookups.WithLabelValues(source).Inc()
}

// ObserveHTTPRequest implements middleware.RequestObserver.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
