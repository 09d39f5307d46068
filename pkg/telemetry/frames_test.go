package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingWindow(t *testing.T) {
	w := newRollingWindow(3)
	assert.Equal(t, 0.0, w.average())

	w.push(10)
	w.push(20)
	assert.Equal(t, 15.0, w.average())
	assert.Equal(t, 2, w.len())

	w.push(30)
	w.push(40) // evicts 10
	assert.Equal(t, 3, w.len())
	assert.Equal(t, 30.0, w.average())
}

func TestFrameTracker(t *testing.T) {
	tr := NewFrameTracker()
	assert.Equal(t, ModeNormal, tr.Mode())
	assert.Equal(t, 0.0, tr.FPS())

	tr.RecordFrame()
	assert.Equal(t, uint64(1), tr.FrameCount())

	// Simulate a slow frame cadence by back-dating the last frame.
	tr.mu.Lock()
	tr.lastFrame = time.Now().Add(-50 * time.Millisecond)
	tr.mu.Unlock()
	tr.RecordFrame()

	if fps := tr.FPS(); fps <= 0 || fps > 60 {
		t.Errorf("FPS() = %v, want (0, 60]", fps)
	}
	assert.Greater(t, tr.AvgFrameTime(), time.Duration(0))
}

func TestPerformanceModeClassification(t *testing.T) {
	tr := NewFrameTracker()
	// Fill the window with 100ms frames (10 FPS).
	tr.mu.Lock()
	for i := 0; i < 20; i++ {
		tr.frameTimes.push(100)
	}
	tr.updateModeLocked()
	tr.mu.Unlock()

	assert.Equal(t, ModeMinimal, tr.Mode())
	assert.False(t, tr.Mode().AnimationsEnabled())
	assert.Equal(t, 25, tr.Mode().MaxVisibleItems())
}

func TestPerformanceModeStrings(t *testing.T) {
	assert.Equal(t, "normal", ModeNormal.String())
	assert.Equal(t, "reduced", ModeReduced.String())
	assert.Equal(t, "minimal", ModeMinimal.String())
}

func TestRecordEventTime(t *testing.T) {
	tr := NewFrameTracker()
	tr.RecordEventTime(4 * time.Millisecond)
	tr.RecordEventTime(8 * time.Millisecond)
	assert.InDelta(t, 6, float64(tr.AvgEventTime())/float64(time.Millisecond), 0.01)
}

func TestEngineMetrics(t *testing.T) {
	m := NewEngineMetrics()
	m.RecordRebuild(120, 250*time.Microsecond)
	m.RecordRebuild(130, 300*time.Microsecond)
	m.RecordRange(5, 17)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "slipstream_index_rebuilds_total 2")
	assert.Contains(t, body, "slipstream_timeline_items_total 130")
	assert.Contains(t, body, "slipstream_visible_items_total 12")
	assert.Contains(t, body, "slipstream_range_queries_total 1")
	if !strings.Contains(body, "slipstream_index_rebuild_seconds") {
		t.Error("histogram missing from exposition")
	}
}

func TestEngineMetricsIsolatedRegistries(t *testing.T) {
	// Two instances must not collide; constructing both would panic if
	// they shared the default registry.
	a := NewEngineMetrics()
	b := NewEngineMetrics()
	require.NotSame(t, a.Registry(), b.Registry())
}
