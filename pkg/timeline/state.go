package timeline

import "github.com/odvcencio/slipstream/pkg/virtual"

// State is the timeline content owner: the ordered item collection,
// its id-to-position index, the selection cursor, and the owned
// virtualization engine. It is single-threaded like the engine it
// wraps; callers marshal cross-goroutine mutations onto the owning
// goroutine.
type State struct {
	items    []*Item
	index    map[string]int
	selected string

	list *virtual.List

	// estimator overrides the built-in content height heuristics; the
	// renderer knows its own units (rows, pixels) better than we do.
	estimator func(*Item) float32
}

// NewState creates an empty timeline backed by an engine with the
// given configuration.
func NewState(cfg virtual.Config) *State {
	return &State{
		index: make(map[string]int),
		list:  virtual.NewList(cfg),
	}
}

// SetEstimator installs a custom initial-height heuristic and
// re-reports every item's height under it. A nil estimator restores
// the content types' built-in estimates.
func (s *State) SetEstimator(fn func(*Item) float32) {
	s.estimator = fn
	if len(s.items) == 0 {
		return
	}
	updates := make([]virtual.HeightUpdate, len(s.items))
	for i, it := range s.items {
		updates[i] = virtual.HeightUpdate{Index: i, Height: s.estimate(it)}
	}
	s.list.SetItemHeights(updates)
}

func (s *State) estimate(it *Item) float32 {
	if s.estimator != nil {
		return s.estimator(it)
	}
	return it.EstimatedHeight()
}

// List exposes the owned engine for viewport wiring (scroll input,
// visible-range resolution, measured-height reporting by index).
func (s *State) List() *virtual.List {
	return s.list
}

// Len returns the item count.
func (s *State) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the timeline has no items.
func (s *State) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns the full ordered item slice. Callers must not reorder
// it; the id index tracks positions.
func (s *State) Items() []*Item {
	return s.items
}

// Push appends an item. While auto-follow is engaged the viewport
// re-pins to the bottom so streaming content stays in view.
func (s *State) Push(item *Item) {
	if item == nil {
		return
	}
	s.index[item.ID] = len(s.items)
	s.items = append(s.items, item)

	s.list.SetItemCount(len(s.items))
	s.syncHeight(len(s.items) - 1)

	if s.list.AutoFollow() {
		s.list.ScrollToBottom()
	}
}

// Extend appends multiple items.
func (s *State) Extend(items ...*Item) {
	for _, it := range items {
		s.Push(it)
	}
}

// Get returns the item with the given ID.
func (s *State) Get(id string) (*Item, bool) {
	idx, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[idx], true
}

// Update replaces an item's content and re-reports its height.
func (s *State) Update(id string, content Content) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	s.items[idx].Content = content
	s.syncHeight(idx)
	return true
}

// ToggleExpanded flips an item's expansion state, which changes its
// height contribution.
func (s *State) ToggleExpanded(id string) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	s.items[idx].Expanded = !s.items[idx].Expanded
	s.syncHeight(idx)
	return true
}

// UpdateToolStatus updates the tool call with the given call ID (not
// item ID). Failed statuses record the message as the call's error.
func (s *State) UpdateToolStatus(callID string, status ToolStatus, progress int, message string) bool {
	for idx, it := range s.items {
		tc, ok := it.Content.(ToolCall)
		if !ok || tc.CallID != callID {
			continue
		}
		tc.Status = status
		tc.Progress = progress
		if message != "" && status == ToolFailed {
			tc.Error = message
		}
		it.Content = tc
		s.syncHeight(idx)
		return true
	}
	return false
}

// UpdateToolResult records a tool call's result, marking it completed
// or failed.
func (s *State) UpdateToolResult(callID string, result any, errMsg string) bool {
	for idx, it := range s.items {
		tc, ok := it.Content.(ToolCall)
		if !ok || tc.CallID != callID {
			continue
		}
		tc.Result = result
		tc.Error = errMsg
		if errMsg != "" {
			tc.Status = ToolFailed
		} else {
			tc.Status = ToolCompleted
		}
		it.Content = tc
		s.syncHeight(idx)
		return true
	}
	return false
}

// Remove deletes the item with the given ID. Positions of later items
// shift down; the id index and engine are kept consistent in the same
// operation. A removed selection falls back to the item that took its
// position, or the new last item.
func (s *State) Remove(id string) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.index, id)
	for i := idx; i < len(s.items); i++ {
		s.index[s.items[i].ID] = i
	}

	s.list.SetItemCount(len(s.items))
	if len(s.items) > idx {
		updates := make([]virtual.HeightUpdate, 0, len(s.items)-idx)
		for i := idx; i < len(s.items); i++ {
			updates = append(updates, virtual.HeightUpdate{Index: i, Height: s.estimate(s.items[i])})
		}
		s.list.SetItemHeights(updates)
	}

	if s.selected == id {
		switch {
		case idx < len(s.items):
			s.selected = s.items[idx].ID
		case len(s.items) > 0:
			s.selected = s.items[len(s.items)-1].ID
		default:
			s.selected = ""
		}
	}
	return true
}

// Clear drops all items, selection, and scroll state.
func (s *State) Clear() {
	s.items = nil
	s.index = make(map[string]int)
	s.selected = ""
	s.list.Clear()
}

// SetItemHeight records a renderer-measured height for the item with
// the given ID, superseding its estimate.
func (s *State) SetItemHeight(id string, height float32) {
	if idx, ok := s.index[id]; ok {
		s.list.SetItemHeight(idx, height)
	}
}

// Select sets the selection cursor; an empty ID clears it.
func (s *State) Select(id string) {
	if id == "" {
		s.selected = ""
		return
	}
	if _, ok := s.index[id]; ok {
		s.selected = id
	}
}

// Selected returns the selected item's ID, or "" when nothing is
// selected.
func (s *State) Selected() string {
	return s.selected
}

// SelectedIndex returns the selected item's position, or -1.
func (s *State) SelectedIndex() int {
	if s.selected == "" {
		return -1
	}
	idx, ok := s.index[s.selected]
	if !ok {
		return -1
	}
	return idx
}

// SelectNext moves the cursor forward in insertion order. With nothing
// selected it seeds the first item; at the last item it stays put.
func (s *State) SelectNext() {
	if len(s.items) == 0 {
		return
	}
	idx := s.SelectedIndex()
	switch {
	case idx < 0:
		s.selected = s.items[0].ID
	case idx+1 < len(s.items):
		s.selected = s.items[idx+1].ID
	}
}

// SelectPrevious moves the cursor backward. With nothing selected it
// seeds the last item; at the first item it stays put.
func (s *State) SelectPrevious() {
	if len(s.items) == 0 {
		return
	}
	idx := s.SelectedIndex()
	switch {
	case idx < 0:
		s.selected = s.items[len(s.items)-1].ID
	case idx > 0:
		s.selected = s.items[idx-1].ID
	}
}

// ScrollToSelected brings the selected item into view.
func (s *State) ScrollToSelected() {
	if idx := s.SelectedIndex(); idx >= 0 {
		s.list.ScrollToItem(idx)
	}
}

// Visible resolves the realized window: the items in the engine's
// visible range plus overscan, and the range itself.
func (s *State) Visible(overscan int) ([]*Item, virtual.Range) {
	r := s.list.VisibleRange(overscan)
	if r.IsEmpty() {
		return nil, r
	}
	return s.items[r.Start:r.End], r
}

// syncHeight pushes one item's current estimate into the engine.
func (s *State) syncHeight(idx int) {
	s.list.SetItemHeight(idx, s.estimate(s.items[idx]))
}
