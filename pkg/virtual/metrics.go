package virtual

import "time"

// Sink receives engine instrumentation. It is injected rather than
// read from package state so the engine stays testable in isolation;
// implementations must be cheap since RecordRange fires on every
// resolved frame.
type Sink interface {
	// RecordRebuild is called after each cumulative-index rebuild with
	// the item count walked and the time it took.
	RecordRebuild(items int, elapsed time.Duration)
	// RecordRange is called after each visible-range resolution.
	RecordRange(start, end int)
}

// NopSink discards all instrumentation. It is the default sink.
type NopSink struct{}

func (NopSink) RecordRebuild(int, time.Duration) {}
func (NopSink) RecordRange(int, int)             {}
