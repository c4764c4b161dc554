package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the videohub service.
type Metrics struct {
	registry                 *prometheus.Registry
	requestsTotal            prometheus.Counter
	errorsTotal              prometheus.Counter
	requestDuration          prometheus.Histogram
	basketAddsTotal          prometheus.Counter
	basketRemovesTotal       prometheus.Counter
	basketFullTotal          prometheus.Counter
	basketOrphansTotal       prometheus.Counter
	homeSelectionsTotal      prometheus.Counter
	multiplayerSessionsTotal prometheus.Counter
	quadrantFailuresTotal    prometheus.Counter
	basketSize               prometheus.Gauge
	catalogSize              prometheus.Gauge
}

// New creates and registers Prometheus metrics for the service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_requests_total",
			Help: "Total number of HTTP requests received",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "videohub_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		}),
		basketAddsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_basket_adds_total",
			Help: "Total number of ids added to the basket",
		}),
		basketRemovesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_basket_removes_total",
			Help: "Total number of ids removed from the basket",
		}),
		basketFullTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_basket_full_rejections_total",
			Help: "Total number of adds rejected because the basket was full",
		}),
		basketOrphansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_basket_orphans_removed_total",
			Help: "Total number of basket ids dropped during catalog reconciliation",
		}),
		homeSelectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_home_selections_total",
			Help: "Total number of home page curations computed",
		}),
		multiplayerSessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_multiplayer_sessions_total",
			Help: "Total number of multiplayer sessions opened",
		}),
		quadrantFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "videohub_quadrant_failures_total",
			Help: "Total number of multiplayer quadrants that failed to resolve",
		}),
		basketSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "videohub_basket_size",
			Help: "Current number of ids in the basket",
		}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "videohub_catalog_size",
			Help: "Number of records in the current catalog snapshot",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.requestDuration,
		m.basketAddsTotal,
		m.basketRemovesTotal,
		m.basketFullTotal,
		m.basketOrphansTotal,
		m.homeSelectionsTotal,
		m.multiplayerSessionsTotal,
		m.quadrantFailuresTotal,
		m.basketSize,
		m.catalogSize,
	)

	return m
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ObserveRequestDuration records one request's latency.
func (m *Metrics) ObserveRequestDuration(seconds float64) {
	m.requestDuration.Observe(seconds)
}

// IncBasketAdds increments the basket add counter.
func (m *Metrics) IncBasketAdds() {
	m.basketAddsTotal.Inc()
}

// IncBasketRemoves increments the basket remove counter.
func (m *Metrics) IncBasketRemoves() {
	m.basketRemovesTotal.Inc()
}

// IncBasketFull increments the basket-full rejection counter.
func (m *Metrics) IncBasketFull() {
	m.basketFullTotal.Inc()
}

// AddBasketOrphans records n ids dropped by reconciliation.
func (m *Metrics) AddBasketOrphans(n int) {
	m.basketOrphansTotal.Add(float64(n))
}

// IncHomeSelections increments the home curation counter.
func (m *Metrics) IncHomeSelections() {
	m.homeSelectionsTotal.Inc()
}

// IncMultiplayerSessions increments the multiplayer session counter.
func (m *Metrics) IncMultiplayerSessions() {
	m.multiplayerSessionsTotal.Inc()
}

// IncQuadrantFailures increments the failed quadrant counter.
func (m *Metrics) IncQuadrantFailures() {
	m.quadrantFailuresTotal.Inc()
}

// SetBasketSize sets the basket size gauge.
func (m *Metrics) SetBasketSize(n int) {
	m.basketSize.Set(float64(n))
}

// SetCatalogSize sets the catalog size gauge.
func (m *Metrics) SetCatalogSize(n int) {
	m.catalogSize.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values
// (e.g. basket and catalog size).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
