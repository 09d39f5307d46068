package virtual

import (
	"sort"
	"time"
)

// heightEpsilon filters floating-point noise out of height updates so a
// renderer re-reporting an unchanged measurement does not dirty the
// cumulative index.
const heightEpsilon = 0.5

// HeightUpdate pairs an item index with a newly measured height, for
// the batched setter.
type HeightUpdate struct {
	Index  int
	Height float32
}

// List is the virtualization engine state: per-item heights, the
// cumulative index derived from them, and the viewport/scroll state.
//
// All mutation entry points mark the height store dirty; all query
// entry points rebuild the cumulative index first if needed. The
// rebuild is O(n) but paid once per batch of mutations, not once per
// height change.
type List struct {
	cfg Config

	heights []float32
	// cum[i] is the sum of heights[0..=i]; rebuilt whenever dirty.
	cum         []float32
	totalHeight float32
	dirty       bool

	scrollOffset   float32
	viewportHeight float32
	autoFollow     bool

	metrics Sink
}

// NewList creates an empty list with the given configuration.
func NewList(cfg Config) *List {
	return &List{
		cfg:            cfg.normalize(),
		viewportHeight: 600,
		autoFollow:     true,
		metrics:        NopSink{},
	}
}

// SetMetrics installs a metrics sink. A nil sink restores the no-op.
func (l *List) SetMetrics(s Sink) {
	if s == nil {
		s = NopSink{}
	}
	l.metrics = s
}

// Config returns the active configuration.
func (l *List) Config() Config {
	return l.cfg
}

// Len returns the current item count.
func (l *List) Len() int {
	return len(l.heights)
}

// SetItemCount resizes the height store to n items, filling new slots
// with the default height. Unchanged counts are a no-op and do not
// dirty the index.
func (l *List) SetItemCount(n int) {
	if n < 0 {
		n = 0
	}
	if n == len(l.heights) {
		return
	}
	if n < len(l.heights) {
		l.heights = l.heights[:n]
	} else {
		for len(l.heights) < n {
			l.heights = append(l.heights, l.cfg.DefaultItemHeight)
		}
	}
	l.dirty = true
}

// SetItemHeight records a measured height for one item. The value is
// clamped to the configured bounds; out-of-range indices are ignored
// so a late measurement racing a removal is harmless.
func (l *List) SetItemHeight(index int, height float32) {
	if l.applyHeight(index, height) {
		l.dirty = true
	}
}

// SetItemHeights applies a batch of measurements, dirtying the index
// at most once.
func (l *List) SetItemHeights(updates []HeightUpdate) {
	changed := false
	for _, u := range updates {
		if l.applyHeight(u.Index, u.Height) {
			changed = true
		}
	}
	if changed {
		l.dirty = true
	}
}

func (l *List) applyHeight(index int, height float32) bool {
	if index < 0 || index >= len(l.heights) {
		return false
	}
	clamped := l.clampHeight(height)
	if diff := l.heights[index] - clamped; diff > heightEpsilon || diff < -heightEpsilon {
		l.heights[index] = clamped
		return true
	}
	return false
}

// clampHeight bounds a height to [min, max]. NaN compares false
// against everything, so it is caught explicitly and pinned to the
// minimum rather than poisoning the cumulative sums.
func (l *List) clampHeight(h float32) float32 {
	if h != h || h < l.cfg.MinItemHeight {
		return l.cfg.MinItemHeight
	}
	if h > l.cfg.MaxItemHeight {
		return l.cfg.MaxItemHeight
	}
	return h
}

// ItemHeight returns the stored height for index, or the configured
// default when index is out of range.
func (l *List) ItemHeight(index int) float32 {
	if index < 0 || index >= len(l.heights) {
		return l.cfg.DefaultItemHeight
	}
	return l.heights[index]
}

// TotalHeight returns the summed height of all items.
func (l *List) TotalHeight() float32 {
	l.ensureFresh()
	return l.totalHeight
}

// ItemOffset returns the top edge of the item at index. Indices past
// the end clamp to the total height.
func (l *List) ItemOffset(index int) float32 {
	l.ensureFresh()
	switch {
	case index <= 0:
		return 0
	case index <= len(l.cum):
		return l.cum[index-1]
	default:
		return l.totalHeight
	}
}

// Clear drops all items and scroll state, returning the list to its
// initial auto-following condition.
func (l *List) Clear() {
	l.heights = nil
	l.cum = nil
	l.totalHeight = 0
	l.scrollOffset = 0
	l.autoFollow = true
	l.dirty = false
}

// ensureFresh rebuilds the cumulative index when the height store has
// changed since last read. Every query path calls this before touching
// cum; no query may read cum directly.
func (l *List) ensureFresh() {
	if !l.dirty {
		return
	}
	start := time.Now()

	l.cum = l.cum[:0]
	var sum float32
	for _, h := range l.heights {
		sum += h
		l.cum = append(l.cum, sum)
	}
	l.totalHeight = sum
	l.dirty = false

	l.metrics.RecordRebuild(len(l.heights), time.Since(start))
}

// findItemAt returns the index of the item containing the given
// vertical offset: the smallest i with cum[i] >= offset, clamped into
// the valid index range.
func (l *List) findItemAt(offset float32) int {
	if len(l.cum) == 0 {
		return 0
	}
	idx := sort.Search(len(l.cum), func(i int) bool {
		return l.cum[i] >= offset
	})
	if max := len(l.cum) - 1; idx > max {
		idx = max
	}
	return idx
}
