// Package telemetry tracks UI frame performance and exports engine
// instrumentation to Prometheus. Collectors are injected values, not
// package globals, so hosts and tests can run several in isolation.
package telemetry

import (
	"sync"
	"time"
)

// PerformanceMode classifies recent frame throughput for adaptive
// rendering.
type PerformanceMode int

const (
	// ModeNormal is full-quality rendering (60+ FPS).
	ModeNormal PerformanceMode = iota
	// ModeReduced disables animations (30-60 FPS).
	ModeReduced
	// ModeMinimal simplifies the UI (below 30 FPS).
	ModeMinimal
)

// String returns the mode name.
func (m PerformanceMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeReduced:
		return "reduced"
	default:
		return "minimal"
	}
}

// AnimationsEnabled reports whether the mode permits animations.
func (m PerformanceMode) AnimationsEnabled() bool {
	return m == ModeNormal
}

// MaxVisibleItems is the per-mode budget for realized timeline items;
// hosts shrink overscan when the budget tightens.
func (m PerformanceMode) MaxVisibleItems() int {
	switch m {
	case ModeNormal:
		return 100
	case ModeReduced:
		return 50
	default:
		return 25
	}
}

// rollingWindow keeps a bounded series with an incremental sum.
type rollingWindow struct {
	values []float64
	head   int
	filled bool
	sum    float64
}

func newRollingWindow(capacity int) *rollingWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &rollingWindow{values: make([]float64, capacity)}
}

func (w *rollingWindow) push(v float64) {
	if w.filled {
		w.sum -= w.values[w.head]
	}
	w.values[w.head] = v
	w.sum += v
	w.head++
	if w.head == len(w.values) {
		w.head = 0
		w.filled = true
	}
}

func (w *rollingWindow) len() int {
	if w.filled {
		return len(w.values)
	}
	return w.head
}

func (w *rollingWindow) average() float64 {
	n := w.len()
	if n == 0 {
		return 0
	}
	return w.sum / float64(n)
}

// FrameTracker measures frame cadence and event handling latency. It
// is safe for concurrent use; the UI goroutine records while other
// goroutines may read.
type FrameTracker struct {
	mu         sync.Mutex
	frameTimes *rollingWindow // milliseconds, one second at 60fps
	eventTimes *rollingWindow
	frameCount uint64
	lastFrame  time.Time
	mode       PerformanceMode
}

// NewFrameTracker creates a tracker with rolling windows sized for
// roughly one second of 60fps frames.
func NewFrameTracker() *FrameTracker {
	return &FrameTracker{
		frameTimes: newRollingWindow(60),
		eventTimes: newRollingWindow(100),
		mode:       ModeNormal,
	}
}

// RecordFrame marks a rendered frame and refreshes the performance
// mode from the rolling average.
func (t *FrameTracker) RecordFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frameCount++
	now := time.Now()
	if !t.lastFrame.IsZero() {
		frameMS := now.Sub(t.lastFrame).Seconds() * 1000
		t.frameTimes.push(frameMS)
		t.updateModeLocked()
	}
	t.lastFrame = now
}

// RecordEventTime records how long one input/stream event took to
// handle.
func (t *FrameTracker) RecordEventTime(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventTimes.push(d.Seconds() * 1000)
}

// FPS returns the rolling frames-per-second estimate.
func (t *FrameTracker) FPS() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	avg := t.frameTimes.average()
	if avg <= 0 {
		return 0
	}
	return 1000 / avg
}

// AvgFrameTime returns the rolling average frame time.
func (t *FrameTracker) AvgFrameTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.frameTimes.average() * float64(time.Millisecond))
}

// AvgEventTime returns the rolling average event handling time.
func (t *FrameTracker) AvgEventTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.eventTimes.average() * float64(time.Millisecond))
}

// FrameCount returns the total number of recorded frames.
func (t *FrameTracker) FrameCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frameCount
}

// Mode returns the current performance classification.
func (t *FrameTracker) Mode() PerformanceMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// updateModeLocked reclassifies from the rolling average FPS. The
// window smooths single-frame spikes so the mode doesn't flap.
func (t *FrameTracker) updateModeLocked() {
	avg := t.frameTimes.average()
	if avg <= 0 || t.frameTimes.len() < 10 {
		return
	}
	fps := 1000 / avg
	switch {
	case fps >= 55:
		t.mode = ModeNormal
	case fps >= 30:
		t.mode = ModeReduced
	default:
		t.mode = ModeMinimal
	}
}
