// Package virtual implements a variable-height virtualization engine
// for scrollable timelines. It maintains per-item heights with a lazily
// rebuilt cumulative index so that position queries (visible range,
// item offset, total height) stay O(log n) per frame while items are
// appended and resized continuously.
//
// The engine is single-threaded by design: it is consulted once per UI
// update tick by exactly one owner. Callers mutating from another
// goroutine must marshal onto the owning goroutine first.
package virtual

// Config tunes virtualization behavior. Heights are in whatever unit
// the owner measures content in (pixels, terminal rows); the engine
// treats them as opaque magnitudes.
type Config struct {
	// Overscan is the default number of extra items resolved above and
	// below the visible window to reduce popping during fast scrolls.
	Overscan int
	// MinItemHeight and MaxItemHeight bound every stored height.
	MinItemHeight float32
	MaxItemHeight float32
	// DefaultItemHeight fills slots whose real height is not yet known.
	DefaultItemHeight float32
	// ScrollSpeed multiplies deltas passed to ScrollBy.
	ScrollSpeed float32
	// BottomTolerance is the slack under the maximum offset within
	// which IsAtBottom still reports true.
	BottomTolerance float32
	// FollowTolerance is the slack under the maximum offset beyond
	// which a manual scroll disengages auto-follow. Wider than
	// BottomTolerance so measurement jitter near the bottom does not
	// flip auto-follow every frame.
	FollowTolerance float32
}

// DefaultConfig returns the tuning used by the stream timeline.
func DefaultConfig() Config {
	return Config{
		Overscan:          3,
		MinItemHeight:     40,
		MaxItemHeight:     500,
		DefaultItemHeight: 80,
		ScrollSpeed:       40,
		BottomTolerance:   10,
		FollowTolerance:   50,
	}
}

// normalize repairs values the engine cannot operate with. The engine
// is total: bad configuration degrades to usable defaults instead of
// erroring.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.Overscan < 0 {
		c.Overscan = 0
	}
	if !(c.MinItemHeight > 0) { // also catches NaN
		c.MinItemHeight = d.MinItemHeight
	}
	if !(c.MaxItemHeight >= c.MinItemHeight) {
		c.MaxItemHeight = c.MinItemHeight
	}
	if !(c.DefaultItemHeight >= c.MinItemHeight) {
		c.DefaultItemHeight = c.MinItemHeight
	}
	if c.DefaultItemHeight > c.MaxItemHeight {
		c.DefaultItemHeight = c.MaxItemHeight
	}
	if !(c.ScrollSpeed > 0) {
		c.ScrollSpeed = d.ScrollSpeed
	}
	if !(c.BottomTolerance >= 0) {
		c.BottomTolerance = d.BottomTolerance
	}
	if !(c.FollowTolerance >= 0) {
		c.FollowTolerance = d.FollowTolerance
	}
	return c
}
