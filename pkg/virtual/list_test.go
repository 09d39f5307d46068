package virtual

import (
	"math"
	"testing"
	"time"
)

func uniformConfig(height float32) Config {
	cfg := DefaultConfig()
	cfg.MinItemHeight = 1
	cfg.DefaultItemHeight = height
	return cfg
}

func TestSetItemCount(t *testing.T) {
	t.Run("grow fills with default", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(3)

		if l.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", l.Len())
		}
		for i := 0; i < 3; i++ {
			if h := l.ItemHeight(i); h != 80 {
				t.Errorf("ItemHeight(%d) = %v, want 80", i, h)
			}
		}
	})

	t.Run("shrink keeps prefix", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(5)
		l.SetItemHeight(1, 120)
		l.SetItemCount(2)

		if l.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", l.Len())
		}
		if h := l.ItemHeight(1); h != 120 {
			t.Errorf("ItemHeight(1) = %v, want 120", h)
		}
	})

	t.Run("unchanged count does not dirty", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(4)
		l.TotalHeight() // force rebuild
		l.SetItemCount(4)

		if l.dirty {
			t.Error("unchanged count should not mark the index dirty")
		}
	})

	t.Run("count invariant holds across mixed mutations", func(t *testing.T) {
		l := NewList(DefaultConfig())
		counts := []int{3, 10, 10, 7, 0, 12}
		for _, n := range counts {
			l.SetItemCount(n)
			l.SetItemHeight(0, 90)
			l.SetItemHeight(n+5, 90)
			if l.Len() != n {
				t.Fatalf("Len() = %d after SetItemCount(%d)", l.Len(), n)
			}
		}
	})
}

func TestSetItemHeight(t *testing.T) {
	t.Run("clamps to configured bounds", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(2)
		l.SetItemHeight(0, 10)   // below min 40
		l.SetItemHeight(1, 9999) // above max 500

		if h := l.ItemHeight(0); h != 40 {
			t.Errorf("ItemHeight(0) = %v, want 40", h)
		}
		if h := l.ItemHeight(1); h != 500 {
			t.Errorf("ItemHeight(1) = %v, want 500", h)
		}
	})

	t.Run("NaN pins to minimum", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(1)
		l.SetItemHeight(0, float32(math.NaN()))

		if h := l.ItemHeight(0); h != 40 {
			t.Errorf("ItemHeight(0) = %v, want 40", h)
		}
		if total := l.TotalHeight(); total != 40 {
			t.Errorf("TotalHeight() = %v, want 40", total)
		}
	})

	t.Run("negative clamps to minimum", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(1)
		l.SetItemHeight(0, -25)

		if h := l.ItemHeight(0); h != 40 {
			t.Errorf("ItemHeight(0) = %v, want 40", h)
		}
	})

	t.Run("out of range ignored", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(2)
		l.TotalHeight()

		l.SetItemHeight(-1, 100)
		l.SetItemHeight(2, 100)
		l.SetItemHeight(50, 100)

		if l.dirty {
			t.Error("out-of-range sets should not dirty the index")
		}
	})

	t.Run("sub-epsilon change does not dirty", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(1)
		l.SetItemHeight(0, 100)
		l.TotalHeight()

		l.SetItemHeight(0, 100.2)
		if l.dirty {
			t.Error("change within epsilon should not dirty the index")
		}
	})

	t.Run("batched setter dirties once", func(t *testing.T) {
		l := NewList(DefaultConfig())
		l.SetItemCount(4)
		l.TotalHeight()

		l.SetItemHeights([]HeightUpdate{
			{Index: 0, Height: 100},
			{Index: 7, Height: 100}, // ignored
			{Index: 3, Height: 200},
		})

		if !l.dirty {
			t.Fatal("batch with real changes should dirty the index")
		}
		if got := l.TotalHeight(); got != 100+80+80+200 {
			t.Errorf("TotalHeight() = %v, want 460", got)
		}
	})
}

func TestItemOffset(t *testing.T) {
	t.Run("variable heights", func(t *testing.T) {
		l := NewList(uniformConfig(80))
		l.SetItemCount(5)
		l.SetItemHeights([]HeightUpdate{
			{0, 50}, {1, 100}, {2, 75}, {3, 50}, {4, 125},
		})

		wantOffsets := []float32{0, 50, 150, 225, 275}
		for i, want := range wantOffsets {
			if got := l.ItemOffset(i); got != want {
				t.Errorf("ItemOffset(%d) = %v, want %v", i, got, want)
			}
		}
		if got := l.TotalHeight(); got != 400 {
			t.Errorf("TotalHeight() = %v, want 400", got)
		}
	})

	t.Run("past end clamps to total", func(t *testing.T) {
		l := NewList(uniformConfig(50))
		l.SetItemCount(4)

		if got := l.ItemOffset(4); got != 200 {
			t.Errorf("ItemOffset(4) = %v, want 200", got)
		}
		if got := l.ItemOffset(100); got != 200 {
			t.Errorf("ItemOffset(100) = %v, want 200", got)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		l := NewList(DefaultConfig())
		if got := l.ItemOffset(0); got != 0 {
			t.Errorf("ItemOffset(0) = %v, want 0", got)
		}
		if got := l.TotalHeight(); got != 0 {
			t.Errorf("TotalHeight() = %v, want 0", got)
		}
	})
}

func TestCumulativeMonotonicity(t *testing.T) {
	l := NewList(uniformConfig(10))
	l.SetItemCount(50)
	for i := 0; i < 50; i++ {
		l.SetItemHeight(i, float32(1+(i*37)%90))
	}
	l.TotalHeight()

	for i := 1; i < len(l.cum); i++ {
		if l.cum[i] < l.cum[i-1] {
			t.Fatalf("cum[%d]=%v < cum[%d]=%v", i, l.cum[i], i-1, l.cum[i-1])
		}
	}
}

func TestIdempotentQueries(t *testing.T) {
	l := NewList(uniformConfig(10))
	l.SetItemCount(30)
	for i := 0; i < 30; i++ {
		l.SetItemHeight(i, float32(5+i))
	}
	l.SetViewportHeight(100)
	l.SetScrollOffset(123)

	first := l.VisibleRange(2)
	second := l.VisibleRange(2)
	if first != second {
		t.Errorf("back-to-back VisibleRange differ: %+v vs %+v", first, second)
	}
	if a, b := l.TotalHeight(), l.TotalHeight(); a != b {
		t.Errorf("back-to-back TotalHeight differ: %v vs %v", a, b)
	}
	if a, b := l.ItemOffset(17), l.ItemOffset(17); a != b {
		t.Errorf("back-to-back ItemOffset differ: %v vs %v", a, b)
	}
}

func TestClear(t *testing.T) {
	l := NewList(uniformConfig(100))
	l.SetItemCount(10)
	l.SetViewportHeight(500)
	l.SetScrollOffset(300)

	l.Clear()

	if l.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", l.Len())
	}
	if l.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() = %v after Clear, want 0", l.ScrollOffset())
	}
	if !l.AutoFollow() {
		t.Error("Clear should restore auto-follow")
	}
	if got := l.VisibleRange(3); got != (Range{}) {
		t.Errorf("VisibleRange on cleared list = %+v, want zero", got)
	}
}

type countingSink struct {
	rebuilds  int
	lastItems int
	ranges    int
}

func (s *countingSink) RecordRebuild(items int, _ time.Duration) {
	s.rebuilds++
	s.lastItems = items
}

func (s *countingSink) RecordRange(int, int) {
	s.ranges++
}

func TestMetricsSink(t *testing.T) {
	sink := &countingSink{}
	l := NewList(uniformConfig(10))
	l.SetMetrics(sink)
	l.SetItemCount(5)

	l.TotalHeight()
	l.TotalHeight() // fresh, no second rebuild
	l.VisibleRange(1)

	if sink.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", sink.rebuilds)
	}
	if sink.lastItems != 5 {
		t.Errorf("lastItems = %d, want 5", sink.lastItems)
	}
	if sink.ranges != 1 {
		t.Errorf("ranges = %d, want 1", sink.ranges)
	}
}
