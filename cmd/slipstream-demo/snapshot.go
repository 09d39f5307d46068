package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/odvcencio/slipstream/pkg/config"
	"github.com/odvcencio/slipstream/pkg/timeline"
)

// snapshotStyles carries the lipgloss styles for the non-interactive
// renderer. Adaptive colors pick the right variant for the detected
// terminal background.
type snapshotStyles struct {
	user      lipgloss.Style
	agent     lipgloss.Style
	reasoning lipgloss.Style
	tool      lipgloss.Style
	toolFail  lipgloss.Style
	plan      lipgloss.Style
	status    lipgloss.Style
	dim       lipgloss.Style
	header    lipgloss.Style
}

func newSnapshotStyles() snapshotStyles {
	// lipgloss consults the profile internally for AdaptiveColor.
	_ = termenv.ColorProfile()

	return snapshotStyles{
		user: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Bold(true),
		agent: lipgloss.NewStyle(),
		reasoning: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
			Italic(true),
		tool: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		toolFail: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}),
		plan: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#7D26CD", Dark: "#CC99FF"}),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}),
		header: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

func (s snapshotStyles) forContent(c timeline.Content) lipgloss.Style {
	switch v := c.(type) {
	case timeline.UserMessage:
		return s.user
	case timeline.Reasoning:
		return s.reasoning
	case timeline.ToolCall:
		if v.Status == timeline.ToolFailed {
			return s.toolFail
		}
		return s.tool
	case timeline.Plan:
		return s.plan
	case timeline.StatusUpdate:
		return s.status
	case timeline.Divider:
		return s.dim
	default:
		return s.agent
	}
}

// runSnapshot builds a fixed synthetic session, renders it once to out,
// and prints the engine's geometry for the configured viewport. Useful
// for sanity-checking layout in terminals where the interactive screen
// is unavailable.
func runSnapshot(out io.Writer, cfg *config.Config, count int) error {
	state := timeline.NewState(cfg.Virtual.Engine())
	cols := cfg.UI.WrapColumns
	state.SetEstimator(func(it *timeline.Item) float32 {
		return float32(len(renderItem(it, cols)))
	})

	seedSession(state, count)

	styles := newSnapshotStyles()
	fmt.Fprintln(out, styles.header.Render("slipstream snapshot"))
	fmt.Fprintln(out)

	list := state.List()
	viewport := float32(24)
	list.SetViewportHeight(viewport)
	list.ScrollToBottom()

	items, r := state.Visible(cfg.Virtual.Overscan)
	for _, it := range items {
		style := styles.forContent(it.Content)
		offset := list.ItemOffset(indexOf(state, it.ID))
		prefix := styles.dim.Render(fmt.Sprintf("%6.0f │ ", offset))
		for _, line := range renderItem(it, cols) {
			fmt.Fprintln(out, prefix+style.Render(line))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.dim.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(out, "items:        %d\n", state.Len())
	fmt.Fprintf(out, "total height: %.0f rows\n", list.TotalHeight())
	fmt.Fprintf(out, "viewport:     %.0f rows at offset %.0f\n", viewport, list.ScrollOffset())
	fmt.Fprintf(out, "visible:      [%d, %d) with overscan %d\n", r.Start, r.End, cfg.Virtual.Overscan)
	fmt.Fprintf(out, "at bottom:    %v, following: %v\n", list.IsAtBottom(), list.AutoFollow())
	return nil
}

// seedSession pushes a deterministic mix of every content kind.
func seedSession(state *timeline.State, count int) {
	gen := &generator{}
	for i := 0; state.Len() < count; i++ {
		state.Push(timeline.NewItem(timeline.NewItemID(), timeline.UserMessage{
			Text:   userPrompts[i%len(userPrompts)],
			Sender: "you",
		}))
		state.Push(timeline.NewItem(timeline.NewItemID(), timeline.Reasoning{
			Text: reasoningTexts[i%len(reasoningTexts)],
		}))

		tool := toolPlans[i%len(toolPlans)]
		callID := timeline.NewItemID()
		state.Push(timeline.NewItem(timeline.NewItemID(), timeline.ToolCall{
			CallID: callID,
			Tool:   tool.tool,
			Params: tool.params,
			Status: timeline.ToolRunning,
		}))
		state.UpdateToolResult(callID, tool.result, "")

		if i%4 == 3 {
			state.Push(timeline.NewItem(timeline.NewItemID(), gen.makePlan(i)))
		}
		state.Push(timeline.NewItem(timeline.NewItemID(), timeline.AgentMessage{
			Text:      agentReplies[i%len(agentReplies)],
			AgentName: "slipstream",
		}))
		state.Push(timeline.NewItem(timeline.NewItemID(), timeline.Divider{}))
	}
}

func indexOf(state *timeline.State, id string) int {
	for i, it := range state.Items() {
		if it.ID == id {
			return i
		}
	}
	return -1
}
