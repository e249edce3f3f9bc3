package metrics

import (
	"net/http"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weekly_report"

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the report generation collectors
type Metrics struct {
	WeeksTotal       *prometheus.CounterVec
	DegradedSections *prometheus.CounterVec
	WeekDuration     prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		WeeksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weeks_total",
				Help:      "Total number of weekly reports attempted",
			},
			[]string{"status"},
		),

		DegradedSections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degraded_sections_total",
				Help:      "Total number of report sections that fell back to their default",
			},
			[]string{"section"},
		),

		WeekDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "week_duration_seconds",
				Help:      "Duration of a single weekly report generation",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),

		gatherer: reg,
	}
}

func (m *Metrics) SectionDegraded(section domain.Section) {
	m.DegradedSections.WithLabelValues(string(section)).Inc()
}

func (m *Metrics) WeekGenerated(success bool, elapsed time.Duration) {
	status := StatusSuccess
	if !success {
		status = StatusFailure
	}
	m.WeeksTotal.WithLabelValues(status).Inc()
	m.WeekDuration.Observe(elapsed.Seconds())
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
