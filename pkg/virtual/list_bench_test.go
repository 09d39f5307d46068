package virtual

import (
	"fmt"
	"testing"
)

func benchList(n int) *List {
	l := NewList(DefaultConfig())
	l.SetViewportHeight(800)
	l.SetItemCount(n)
	updates := make([]HeightUpdate, n)
	for i := 0; i < n; i++ {
		updates[i] = HeightUpdate{Index: i, Height: float32(40 + (i*53)%400)}
	}
	l.SetItemHeights(updates)
	l.TotalHeight()
	return l
}

func BenchmarkVisibleRange(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("items_%d", n), func(b *testing.B) {
			l := benchList(n)
			l.ScrollToBottom()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = l.VisibleRange(3)
			}
		})
	}
}

func BenchmarkRebuild(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("items_%d", n), func(b *testing.B) {
			l := benchList(n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.SetItemHeight(i%n, float32(40+(i*7)%400))
				_ = l.TotalHeight()
			}
		})
	}
}

func BenchmarkScrollSweep(b *testing.B) {
	l := benchList(10000)
	max := l.TotalHeight() - l.ViewportHeight()
	step := max / 97
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.SetScrollOffset(float32(i%97) * step)
		_ = l.VisibleRange(3)
	}
}

func BenchmarkAppendFollow(b *testing.B) {
	l := NewList(DefaultConfig())
	l.SetViewportHeight(800)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.SetItemCount(i + 1)
		l.SetItemHeight(i, float32(40+(i*53)%400))
		if l.AutoFollow() {
			l.ScrollToBottom()
		}
	}
}
