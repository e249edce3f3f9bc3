package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestWeekGenerated(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WeekGenerated(true, 2*time.Second)
	m.WeekGenerated(true, time.Second)
	m.WeekGenerated(false, 500*time.Millisecond)

	weeks := findFamily(t, reg, "weekly_report_weeks_total")
	counts := map[string]float64{}
	for _, metric := range weeks.GetMetric() {
		counts[labelValue(metric, "status")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{StatusSuccess: 2, StatusFailure: 1}, counts)

	duration := findFamily(t, reg, "weekly_report_week_duration_seconds")
	require.Len(t, duration.GetMetric(), 1)
	assert.Equal(t, uint64(3), duration.GetMetric()[0].GetHistogram().GetSampleCount())
	assert.InDelta(t, 3.5, duration.GetMetric()[0].GetHistogram().GetSampleSum(), 1e-9)
}

func TestSectionDegraded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SectionDegraded(domain.SectionVdi)
	m.SectionDegraded(domain.SectionVdi)
	m.SectionDegraded(domain.SectionHvNodes)

	family := findFamily(t, reg, "weekly_report_degraded_sections_total")
	counts := map[string]float64{}
	for _, metric := range family.GetMetric() {
		counts[labelValue(metric, "section")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts[string(domain.SectionVdi)])
	assert.Equal(t, 1.0, counts[string(domain.SectionHvNodes)])
}

func TestNewWithoutRegistry(t *testing.T) {
	// Two instances must not collide on registration
	assert.NotPanics(t, func() {
		New(nil)
		New(nil)
	})
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.WeekGenerated(true, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `weekly_report_weeks_total{status="success"} 1`)
}
