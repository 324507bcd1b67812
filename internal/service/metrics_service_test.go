package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
)

func TestMetricsServiceObserveRun(t *testing.T) {
	m := NewMetricsService()

	m.ObserveRun(models.ScheduleResult{
		Scheduled: []models.ScheduledClass{{ClassID: "C1"}, {ClassID: "C2"}},
		Unscheduled: []models.UnscheduledClass{
			{ClassID: "C3", Reason: models.ReasonNoSlot},
			{ClassID: "C4", Reason: models.ReasonNoSlot},
			{ClassID: "C5", Reason: models.ReasonNoTeacher},
		},
	}, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.scheduled))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.unscheduled.WithLabelValues(string(models.ReasonNoSlot))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unscheduled.WithLabelValues(string(models.ReasonNoTeacher))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.unscheduled.WithLabelValues(string(models.ReasonNoEnrollment))))
	assert.Equal(t, 1, testutil.CollectAndCount(m.generationDuration))
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
	assert.InDelta(t, 2.0/3.0, testutil.ToFloat64(m.cacheHitRatio), 1e-9)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveRun(models.ScheduleResult{}, time.Second)
		m.ObserveRosterLoad("json", time.Second)
		m.RecordExport("csv")
		m.RecordCacheOperation(true, time.Second)
		m.ObserveCacheWrite(time.Second)
	})
	assert.NoError(t, m.WriteTextfile("unused.prom"))
}

func TestMetricsServiceWriteTextfile(t *testing.T) {
	m := NewMetricsService()
	m.ObserveRun(models.ScheduleResult{Scheduled: []models.ScheduledClass{{ClassID: "C1"}}}, time.Millisecond)
	m.RecordExport("pdf")

	path := filepath.Join(t.TempDir(), "timetable.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "timetable_runs_total 1")
	assert.Contains(t, content, "timetable_classes_scheduled_total 1")
	assert.Contains(t, content, `timetable_exports_written_total{format="pdf"} 1`)
	assert.Contains(t, content, `timetable_classes_unscheduled_total{reason="no-slot"} 0`)
}
