package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promdto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric promdto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestMetricsServiceRecordGeneration(t *testing.T) {
	m := NewMetricsService()

	m.RecordGeneration("COMPLETE", 30, 0, 40*time.Millisecond)
	m.RecordGeneration("PARTIAL", 25, 5, 35*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m.generationTotal.WithLabelValues("COMPLETE")))
	assert.Equal(t, 1.0, counterValue(t, m.generationTotal.WithLabelValues("PARTIAL")))
	assert.Equal(t, 55.0, counterValue(t, m.assignedHours))
	assert.Equal(t, 5.0, counterValue(t, m.shortfallHours))
}

func TestMetricsServiceCacheCounters(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m.cacheHits))
	assert.Equal(t, 2.0, counterValue(t, m.cacheMisses))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetricsServiceNilReceiver(t *testing.T) {
	var m *MetricsService

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveCacheWrite(time.Millisecond)
		m.ObserveDBQuery("timetable_replace", time.Millisecond)
		m.RecordGeneration("EMPTY", 0, 3, time.Millisecond)
	})
	assert.Nil(t, m.Registry())
	assert.NotNil(t, m.Handler())
}
