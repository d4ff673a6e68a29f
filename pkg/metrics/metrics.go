package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-коллекторов сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	SourceFetchDuration *prometheus.HistogramVec
	SourceFetchFailures *prometheus.CounterVec

	BookingCommits *prometheus.CounterVec
	SlotsReturned  *prometheus.HistogramVec
}

// New регистрирует коллекторы в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует коллекторы в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		SourceFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "commitment_source_fetch_duration_seconds",
			Help:        "Busy interval fetch duration per source",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"source"}),

		SourceFetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "commitment_source_failures_total",
			Help:        "Total number of failed busy interval fetches per source",
			ConstLabels: constLabels,
		}, []string{"source"}),

		BookingCommits: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_commits_total",
			Help:        "Booking commit attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		SlotsReturned: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_slots_returned",
			Help:        "Number of available slots returned per request",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 5, 10, 20, 40, 80},
		}, []string{"endpoint"}),
	}
}

// RecordCommit учитывает исход фиксации бронирования. Безопасен для nil.
func (m *Metrics) RecordCommit(outcome string) {
	if m == nil {
		return
	}
	m.BookingCommits.WithLabelValues(outcome).Inc()
}

// ObserveSlots учитывает число доступных слотов в ответе. Безопасен для nil.
func (m *Metrics) ObserveSlots(endpoint string, n int) {
	if m == nil {
		return
	}
	m.SlotsReturned.WithLabelValues(endpoint).Observe(float64(n))
}
