package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slipstream/pkg/telemetry"
	"github.com/odvcencio/slipstream/pkg/timeline"
)

// palette holds the per-kind styles for one theme.
type palette struct {
	base      tcell.Style
	user      tcell.Style
	agent     tcell.Style
	reasoning tcell.Style
	tool      tcell.Style
	toolFail  tcell.Style
	plan      tcell.Style
	approval  tcell.Style
	status    tcell.Style
	divider   tcell.Style
	selected  tcell.Style
	statusBar tcell.Style
	scrollbar tcell.Style
}

func newPalette(theme string) palette {
	if theme == "light" {
		base := tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
		return palette{
			base:      base,
			user:      base.Foreground(tcell.ColorDarkBlue).Bold(true),
			agent:     base.Foreground(tcell.ColorBlack),
			reasoning: base.Foreground(tcell.ColorGray).Italic(true),
			tool:      base.Foreground(tcell.ColorDarkGreen),
			toolFail:  base.Foreground(tcell.ColorDarkRed),
			plan:      base.Foreground(tcell.ColorDarkMagenta),
			approval:  base.Foreground(tcell.ColorDarkGoldenrod).Bold(true),
			status:    base.Foreground(tcell.ColorGray),
			divider:   base.Foreground(tcell.ColorLightGray),
			selected:  base.Reverse(true),
			statusBar: base.Reverse(true),
			scrollbar: base.Foreground(tcell.ColorGray),
		}
	}
	base := tcell.StyleDefault
	return palette{
		base:      base,
		user:      base.Foreground(tcell.ColorAqua).Bold(true),
		agent:     base.Foreground(tcell.ColorWhite),
		reasoning: base.Foreground(tcell.ColorGray).Italic(true),
		tool:      base.Foreground(tcell.ColorGreen),
		toolFail:  base.Foreground(tcell.ColorRed),
		plan:      base.Foreground(tcell.ColorFuchsia),
		approval:  base.Foreground(tcell.ColorYellow).Bold(true),
		status:    base.Foreground(tcell.ColorGray),
		divider:   base.Foreground(tcell.ColorDarkGray),
		selected:  base.Reverse(true),
		statusBar: base.Reverse(true),
		scrollbar: base.Foreground(tcell.ColorGray),
	}
}

func (p palette) forContent(c timeline.Content) tcell.Style {
	switch v := c.(type) {
	case timeline.UserMessage:
		return p.user
	case timeline.AgentMessage:
		return p.agent
	case timeline.Reasoning:
		return p.reasoning
	case timeline.ToolCall:
		if v.Status == timeline.ToolFailed {
			return p.toolFail
		}
		return p.tool
	case timeline.Plan:
		return p.plan
	case timeline.Approval:
		return p.approval
	case timeline.StatusUpdate:
		return p.status
	case timeline.Divider:
		return p.divider
	default:
		return p.base
	}
}

// view renders the timeline into a tcell screen. Measured heights are
// reported back to the state after each render so the index converges
// on real row counts instead of estimates.
type view struct {
	screen   tcell.Screen
	state    *timeline.State
	frames   *telemetry.FrameTracker
	pal      palette
	overscan int
	wrapCols int
	showBar  bool
}

func newView(screen tcell.Screen, state *timeline.State, frames *telemetry.FrameTracker, theme string, overscan, wrapCols int, showBar bool) *view {
	return &view{
		screen:   screen,
		state:    state,
		frames:   frames,
		pal:      newPalette(theme),
		overscan: overscan,
		wrapCols: wrapCols,
		showBar:  showBar,
	}
}

func (v *view) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width <= 0 || height <= 1 {
		v.screen.Show()
		return
	}

	contentWidth := width
	if v.showBar {
		contentWidth--
	}
	viewportRows := height - 1

	list := v.state.List()
	list.SetViewportHeight(float32(viewportRows))

	cols := v.wrapCols
	if cols <= 0 || cols > contentWidth {
		cols = contentWidth
	}

	items, r := v.state.Visible(v.overscan)
	y := int(r.StartOffset - list.ScrollOffset())
	selected := v.state.Selected()
	for _, it := range items {
		lines := renderItem(it, cols)
		v.state.SetItemHeight(it.ID, float32(len(lines)))

		style := v.pal.forContent(it.Content)
		for _, line := range lines {
			if y >= 0 && y < viewportRows {
				lineStyle := style
				if it.ID == selected {
					lineStyle = v.pal.selected
				}
				drawText(v.screen, 0, y, contentWidth, lineStyle, line)
			}
			y++
		}
	}

	if v.showBar {
		v.drawScrollbar(contentWidth, viewportRows)
	}
	v.drawStatusBar(width, height-1)

	v.screen.Show()
	v.frames.RecordFrame()
}

func (v *view) drawScrollbar(x, rows int) {
	list := v.state.List()
	total := list.TotalHeight()
	if total <= list.ViewportHeight() || rows <= 0 {
		return
	}
	thumbLen := int(float32(rows) * list.ViewportHeight() / total)
	if thumbLen < 1 {
		thumbLen = 1
	}
	maxTop := rows - thumbLen
	top := int(float32(maxTop) * list.ScrollOffset() / (total - list.ViewportHeight()))
	for y := 0; y < rows; y++ {
		ch := '│'
		if y >= top && y < top+thumbLen {
			ch = '█'
		}
		v.screen.SetContent(x, y, ch, nil, v.pal.scrollbar)
	}
}

func (v *view) drawStatusBar(width, y int) {
	list := v.state.List()
	follow := "follow off"
	if list.AutoFollow() {
		follow = "follow on"
	}
	left := fmt.Sprintf(" %d items | %s | %.0f fps | %s",
		v.state.Len(), follow, v.frames.FPS(), v.frames.Mode())
	right := "j/k select  enter expand  x remove  G follow  q quit "
	bar := left + strings.Repeat(" ", max(1, width-runewidth.StringWidth(left)-runewidth.StringWidth(right))) + right
	drawText(v.screen, 0, y, width, v.pal.statusBar, bar)
}

// drawText writes one line, clipping by display width and advancing
// correctly over wide runes.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > x+maxWidth {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col += w
	}
}

// renderItem produces the display lines for an item at the given wrap
// width. The returned line count is the item's measured height.
func renderItem(it *timeline.Item, cols int) []string {
	switch c := it.Content.(type) {
	case timeline.UserMessage:
		return wrapPrefixed("> ", c.Text, cols)
	case timeline.AgentMessage:
		lines := wrapText(c.Text, cols)
		if c.Streaming {
			lines = append(lines, "...")
		}
		return lines
	case timeline.Reasoning:
		if !it.Expanded {
			summary := c.Summary
			if summary == "" {
				summary = "thinking"
			}
			return []string{fmt.Sprintf("∴ %s (%s)", summary, c.Duration.Round(time.Second))}
		}
		return wrapPrefixed("∴ ", c.Text, cols)
	case timeline.ToolCall:
		return renderToolCall(c, it.Expanded, cols)
	case timeline.Plan:
		return renderPlan(c)
	case timeline.Approval:
		lines := []string{"? " + c.Title}
		lines = append(lines, wrapText(c.Description, cols)...)
		var actions []string
		for _, a := range c.Actions {
			actions = append(actions, fmt.Sprintf("[%s]", a.Label))
		}
		if len(actions) > 0 {
			lines = append(lines, strings.Join(actions, " "))
		}
		return lines
	case timeline.StatusUpdate:
		line := "· " + c.Message
		if c.Progress >= 0 {
			line += fmt.Sprintf(" (%d%%)", c.Progress)
		}
		return []string{line}
	case timeline.Divider:
		return []string{strings.Repeat("─", max(1, cols))}
	default:
		return []string{string(it.Content.Kind())}
	}
}

func renderToolCall(c timeline.ToolCall, expanded bool, cols int) []string {
	marker := "⚙"
	if c.Status == timeline.ToolCompleted {
		marker = "✓"
	} else if c.Status == timeline.ToolFailed {
		marker = "✗"
	}
	head := fmt.Sprintf("%s %s %s", marker, c.Tool, strings.ToLower(c.Status.Label()))
	if c.Progress >= 0 && !c.Status.IsTerminal() {
		head += fmt.Sprintf(" %d%%", c.Progress)
	}
	lines := []string{head}
	if !expanded {
		return lines
	}
	for _, k := range sortedKeys(c.Params) {
		lines = append(lines, fmt.Sprintf("  %s: %v", k, c.Params[k]))
	}
	if c.Error != "" {
		lines = append(lines, wrapPrefixed("  error: ", c.Error, cols)...)
	} else if c.Result != nil {
		lines = append(lines, wrapPrefixed("  → ", fmt.Sprint(c.Result), cols)...)
	}
	return lines
}

func renderPlan(c timeline.Plan) []string {
	lines := []string{fmt.Sprintf("☰ %s (%d%%)", c.Title, c.CompletionPercent())}
	for _, step := range c.Steps {
		mark := "○"
		switch step.Status {
		case timeline.StepCompleted:
			mark = "●"
		case timeline.StepInProgress:
			mark = "◐"
		case timeline.StepFailed:
			mark = "✗"
		case timeline.StepSkipped:
			mark = "⊘"
		}
		lines = append(lines, fmt.Sprintf("  %s %s", mark, step.Description))
	}
	return lines
}

// wrapText breaks text into lines no wider than cols display columns,
// preferring word boundaries. Hard newlines are respected.
func wrapText(text string, cols int) []string {
	if cols < 1 {
		cols = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		line := ""
		lineW := 0
		for _, word := range strings.Fields(para) {
			w := runewidth.StringWidth(word)
			switch {
			case lineW == 0:
				line, lineW = word, w
			case lineW+1+w <= cols:
				line += " " + word
				lineW += 1 + w
			default:
				out = append(out, line)
				line, lineW = word, w
			}
			// Break words that are wider than the viewport on their own.
			for lineW > cols {
				cut := runewidth.Truncate(line, cols, "")
				if cut == "" {
					break
				}
				out = append(out, cut)
				line = line[len(cut):]
				lineW = runewidth.StringWidth(line)
			}
		}
		if lineW > 0 {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func wrapPrefixed(prefix, text string, cols int) []string {
	pw := runewidth.StringWidth(prefix)
	inner := wrapText(text, max(1, cols-pw))
	out := make([]string, len(inner))
	indent := strings.Repeat(" ", pw)
	for i, line := range inner {
		if i == 0 {
			out[i] = prefix + line
		} else {
			out[i] = indent + line
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
