package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/slipstream/pkg/config"
	"github.com/odvcencio/slipstream/pkg/timeline"
)

// itemEvent carries a freshly generated timeline item onto the UI thread.
type itemEvent struct {
	when time.Time
	item *timeline.Item
}

func (e *itemEvent) When() time.Time { return e.when }

// toolEvent carries a lifecycle update for a previously posted tool call.
type toolEvent struct {
	when     time.Time
	callID   string
	status   timeline.ToolStatus
	progress int
	result   any
	errMsg   string
}

func (e *toolEvent) When() time.Time { return e.when }

// reloadEvent carries a reloaded configuration from the file watcher.
type reloadEvent struct {
	when time.Time
	cfg  *config.Config
}

func (e *reloadEvent) When() time.Time { return e.when }

var userPrompts = []string{
	"Can you refactor the session store to use a connection pool?",
	"Why is the scroll position jumping when new output arrives?",
	"Add retry with backoff to the upload path.",
	"The tests in pkg/index are flaky, can you take a look?",
	"Summarize what changed in the last three commits.",
}

var agentReplies = []string{
	"Looking at the session store now. The current implementation opens a new connection per request, which explains the latency you're seeing under load.\n\nI'll switch it to a pooled client and keep the existing interface so callers don't change.",
	"The jump happens because the viewport height is applied before the new heights are reported. Deferring the clamp to the next scroll mutation fixes it without a layout pass.",
	"Done. Retries use exponential backoff with jitter, capped at five attempts. Transient network errors are retried, 4xx responses are not.",
	"The flake is a time-dependent assertion. I replaced the sleep with a channel wait and the suite passed 200 consecutive runs locally.",
}

var reasoningTexts = []string{
	"The user wants pooling. The store is constructed in one place, so swapping the client there keeps the change contained. Need to check whether any caller relies on per-request connection state.",
	"Scroll offset is clamped against a stale total height. Either reclamp on every height update, which is O(1) but chatty, or defer to the next mutation. Deferring matches how the rest of the pipeline batches work.",
}

var toolPlans = []struct {
	tool   string
	params map[string]any
	result string
}{
	{"read_file", map[string]any{"path": "pkg/store/session.go"}, "312 lines"},
	{"grep", map[string]any{"pattern": "NewClient", "glob": "**/*.go"}, "14 matches in 6 files"},
	{"edit_file", map[string]any{"path": "pkg/store/session.go"}, "applied 3 hunks"},
	{"run_tests", map[string]any{"package": "./pkg/store/..."}, "ok  pkg/store  1.24s"},
	{"bash", map[string]any{"command": "git log --oneline -3"}, "3 commits"},
}

var statusLines = []string{
	"Indexing workspace...",
	"Context window at 42%, compacting older turns",
	"Rate limited, retrying in 2s",
}

// generator produces a synthetic agent session: user turns, reasoning,
// tool calls that progress through their lifecycle, plans, and status
// noise, posted to the screen so the UI thread owns all state.
type generator struct {
	screen   tcell.Screen
	interval time.Duration
	rng      *rand.Rand
}

func newGenerator(screen tcell.Screen, interval time.Duration) *generator {
	return &generator{
		screen:   screen,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *generator) run(ctx context.Context) {
	g.postItem(timeline.StatusUpdate{Message: "Session started", Progress: -1})

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	turn := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		g.emitTurn(ctx, turn)
		turn++
	}
}

// emitTurn plays out one conversational turn with small delays between
// the pieces so the timeline fills the way a live session would.
func (g *generator) emitTurn(ctx context.Context, turn int) {
	g.postItem(timeline.UserMessage{
		Text:   userPrompts[turn%len(userPrompts)],
		Sender: "you",
	})

	if g.rng.Intn(2) == 0 {
		g.sleep(ctx, g.interval/4)
		g.postItem(timeline.Reasoning{
			Text:     reasoningTexts[g.rng.Intn(len(reasoningTexts))],
			Duration: time.Duration(1+g.rng.Intn(8)) * time.Second,
		})
	}

	calls := 1 + g.rng.Intn(3)
	for i := 0; i < calls; i++ {
		tool := toolPlans[g.rng.Intn(len(toolPlans))]
		callID := timeline.NewItemID()
		g.sleep(ctx, g.interval/4)
		g.postItem(timeline.ToolCall{
			CallID:   callID,
			Tool:     tool.tool,
			Params:   tool.params,
			Status:   timeline.ToolPending,
			Progress: -1,
		})

		g.sleep(ctx, g.interval/4)
		g.post(&toolEvent{when: time.Now(), callID: callID, status: timeline.ToolRunning, progress: -1})

		g.sleep(ctx, g.interval/2)
		if g.rng.Intn(10) == 0 {
			g.post(&toolEvent{when: time.Now(), callID: callID, status: timeline.ToolFailed, errMsg: "exit status 1"})
		} else {
			g.post(&toolEvent{when: time.Now(), callID: callID, status: timeline.ToolCompleted, result: tool.result})
		}
	}

	if turn%4 == 3 {
		g.sleep(ctx, g.interval/4)
		g.postItem(g.makePlan(turn))
	}

	if g.rng.Intn(3) == 0 {
		g.postItem(timeline.StatusUpdate{
			Message:  statusLines[g.rng.Intn(len(statusLines))],
			Progress: -1,
		})
	}

	g.sleep(ctx, g.interval/2)
	g.postItem(timeline.AgentMessage{
		Text:      agentReplies[turn%len(agentReplies)],
		AgentName: "slipstream",
	})
	g.postItem(timeline.Divider{})
}

func (g *generator) makePlan(turn int) timeline.Plan {
	return timeline.Plan{
		Title: fmt.Sprintf("Plan for turn %d", turn+1),
		Steps: []timeline.PlanStep{
			{Description: "Locate the affected code paths", Status: timeline.StepCompleted},
			{Description: "Apply the change behind the existing interface", Status: timeline.StepCompleted},
			{Description: "Extend the test suite", Status: timeline.StepInProgress},
			{Description: "Run the full pipeline", Status: timeline.StepPending},
		},
	}
}

func (g *generator) postItem(content timeline.Content) {
	g.post(&itemEvent{when: time.Now(), item: timeline.NewItem(timeline.NewItemID(), content)})
}

func (g *generator) post(ev tcell.Event) {
	// PostEvent fails only when the queue is full; dropping a synthetic
	// event is harmless.
	_ = g.screen.PostEvent(ev)
}

func (g *generator) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
