package virtual

// Range describes the contiguous run of items that must be realized to
// cover the viewport: [Start, End), plus the top offset of Start so a
// renderer can position the first realized item without re-querying.
type Range struct {
	Start       int
	End         int
	StartOffset float32
}

// Len returns the number of items in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no items.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains reports whether index falls inside [Start, End).
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// VisibleRange resolves the minimal item range covering the current
// viewport plus overscan extra items on each side. Resolution is two
// binary searches over the cumulative index, so the per-frame cost is
// O(log n) when no heights changed.
func (l *List) VisibleRange(overscan int) Range {
	l.ensureFresh()

	if len(l.heights) == 0 {
		return Range{}
	}
	if overscan < 0 {
		overscan = 0
	}

	startIdx := l.findItemAt(l.scrollOffset)
	endIdx := l.findItemAt(l.scrollOffset + l.viewportHeight)

	start := startIdx - overscan
	if start < 0 {
		start = 0
	}
	end := endIdx + 1 + overscan
	if end > len(l.heights) {
		end = len(l.heights)
	}

	r := Range{Start: start, End: end, StartOffset: l.ItemOffset(start)}
	l.metrics.RecordRange(r.Start, r.End)
	return r
}
