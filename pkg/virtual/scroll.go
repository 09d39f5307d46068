package virtual

// SetViewportHeight records the viewport extent. It deliberately does
// not reclamp the scroll offset: a bare resize must not move the
// user's position. The next scroll mutation reclamps.
func (l *List) SetViewportHeight(h float32) {
	if h != h || h < 0 {
		h = 0
	}
	l.viewportHeight = h
}

// ViewportHeight returns the recorded viewport extent.
func (l *List) ViewportHeight() float32 {
	return l.viewportHeight
}

// ScrollOffset returns the current scroll position.
func (l *List) ScrollOffset() float32 {
	return l.scrollOffset
}

// maxScroll is the largest valid scroll offset. Callers must have
// refreshed the index first.
func (l *List) maxScroll() float32 {
	if m := l.totalHeight - l.viewportHeight; m > 0 {
		return m
	}
	return 0
}

// SetScrollOffset clamps offset into the valid range and stores it.
// Landing more than FollowTolerance above the bottom disengages
// auto-follow; only ScrollToBottom re-engages it.
func (l *List) SetScrollOffset(offset float32) {
	l.ensureFresh()
	max := l.maxScroll()
	if offset != offset || offset < 0 {
		offset = 0
	} else if offset > max {
		offset = max
	}
	l.scrollOffset = offset

	if l.scrollOffset < max-l.cfg.FollowTolerance {
		l.autoFollow = false
	}
}

// ScrollBy scrolls relative to the current position, scaled by the
// configured scroll speed.
func (l *List) ScrollBy(delta float32) {
	l.SetScrollOffset(l.scrollOffset + delta*l.cfg.ScrollSpeed)
}

// ScrollToBottom pins the viewport to the end of the content and
// engages auto-follow. This is the only transition into auto-follow.
func (l *List) ScrollToBottom() {
	l.ensureFresh()
	l.scrollOffset = l.maxScroll()
	l.autoFollow = true
}

// ScrollToItem scrolls just enough to bring the item at index fully
// into view: up to its top edge when it is above the viewport, down to
// its bottom edge when below, otherwise nothing. Indices past the end
// are ignored.
func (l *List) ScrollToItem(index int) {
	l.ensureFresh()
	if index < 0 || index >= len(l.heights) {
		return
	}

	itemTop := l.ItemOffset(index)
	itemBottom := itemTop + l.heights[index]

	if itemTop < l.scrollOffset {
		l.scrollOffset = itemTop
	} else if itemBottom > l.scrollOffset+l.viewportHeight {
		l.scrollOffset = itemBottom - l.viewportHeight
	}
}

// AutoFollow reports whether the viewport is tracking newly appended
// content. The owner consults this after appends and re-invokes
// ScrollToBottom while it holds.
func (l *List) AutoFollow() bool {
	return l.autoFollow
}

// IsAtBottom reports whether the viewport sits within BottomTolerance
// of the maximum scroll offset.
func (l *List) IsAtBottom() bool {
	l.ensureFresh()
	return l.scrollOffset >= l.maxScroll()-l.cfg.BottomTolerance
}

// IsAtTop reports whether the viewport is at the start of the content.
func (l *List) IsAtTop() bool {
	return l.scrollOffset <= 0
}
