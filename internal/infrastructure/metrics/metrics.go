package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion outcome labels
const (
	StatusSuccess         = "success"
	StatusValidationError = "validation_error"
	StatusRateError       = "rate_error"
	StatusBusy            = "busy"
)

// Metrics groups the widget's prometheus instrumentation
type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	CatalogLoadsTotal  *prometheus.CounterVec
}

// New registers the widget metrics with the given registerer. Passing nil
// uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ConversionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "widget_conversions_total",
			Help: "Conversion submissions by outcome",
		}, []string{"status"}),
		ConversionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "widget_conversion_duration_seconds",
			Help:    "Duration of successful conversion submissions",
			Buckets: prometheus.DefBuckets,
		}),
		CatalogLoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "widget_catalog_loads_total",
			Help: "Catalog load attempts by outcome",
		}, []string{"status"}),
	}
}

// ObserveConversion records one conversion outcome. Nil-safe so components
// can run without instrumentation in tests.
func (m *Metrics) ObserveConversion(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.ConversionDuration.Observe(d.Seconds())
	}
}

// ObserveCatalogLoad records one catalog load attempt
func (m *Metrics) ObserveCatalogLoad(status string) {
	if m == nil {
		return
	}
	m.CatalogLoadsTotal.WithLabelValues(status).Inc()
}
