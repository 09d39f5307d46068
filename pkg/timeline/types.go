// Package timeline owns the ordered collection of stream items behind
// a virtualized view: stable IDs, content payloads, selection, and the
// height estimates fed into the virtualization engine.
package timeline

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/oklog/ulid/v2"
)

// Kind identifies a content payload type.
type Kind string

const (
	KindUserMessage  Kind = "user_message"
	KindAgentMessage Kind = "agent_message"
	KindReasoning    Kind = "reasoning"
	KindToolCall     Kind = "tool_call"
	KindPlan         Kind = "plan"
	KindApproval     Kind = "approval"
	KindStatus       Kind = "status"
	KindDivider      Kind = "divider"
)

// Content is the payload of a timeline item. EstimatedHeight is the
// item's layout contribution before real measurement arrives; the
// engine refines it in place once a renderer reports actual sizes.
type Content interface {
	Kind() Kind
	EstimatedHeight(expanded bool) float32
}

// Item is one addressable unit of timeline content.
type Item struct {
	ID        string
	Timestamp time.Time
	Content   Content
	Expanded  bool
}

// NewItem creates an item with the given stable ID.
func NewItem(id string, content Content) *Item {
	return &Item{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Content:   content,
	}
}

// NewItemID mints a sortable unique item ID.
func NewItemID() string {
	return ulid.Make().String()
}

// EstimatedHeight returns the item's current height estimate.
func (it *Item) EstimatedHeight() float32 {
	if it.Content == nil {
		return 0
	}
	return it.Content.EstimatedHeight(it.Expanded)
}

// estimateLines approximates how many wrapped lines text occupies at
// the given column budget, using display width so wide runes count
// properly.
func estimateLines(text string, cols int) float32 {
	if cols <= 0 {
		cols = 60
	}
	if text == "" {
		return 1
	}
	var lines float32
	for _, line := range strings.Split(text, "\n") {
		w := runewidth.StringWidth(line)
		n := (w + cols - 1) / cols
		if n < 1 {
			n = 1
		}
		lines += float32(n)
	}
	return lines
}

// UserMessage is a message from the human driving the session.
type UserMessage struct {
	Text     string
	Sender   string
	Metadata map[string]string
}

func (UserMessage) Kind() Kind { return KindUserMessage }

func (m UserMessage) EstimatedHeight(bool) float32 {
	return 60 + estimateLines(m.Text, 60)*20
}

// AgentMessage is a (possibly still streaming) agent response.
type AgentMessage struct {
	Text       string
	AgentID    string
	AgentName  string
	Streaming  bool
	Confidence float32
}

func (AgentMessage) Kind() Kind { return KindAgentMessage }

func (m AgentMessage) EstimatedHeight(bool) float32 {
	// Agent responses run longer than user messages; the base covers
	// the header and footer chrome.
	return 80 + estimateLines(m.Text, 60)*20
}

// Reasoning is a collapsible chain-of-thought block.
type Reasoning struct {
	Text     string
	Summary  string
	Duration time.Duration
}

func (Reasoning) Kind() Kind { return KindReasoning }

func (r Reasoning) EstimatedHeight(expanded bool) float32 {
	if !expanded {
		return 48
	}
	return 48 + estimateLines(r.Text, 60)*20
}

// ToolStatus tracks a tool call through its lifecycle.
type ToolStatus string

const (
	ToolPending   ToolStatus = "pending"
	ToolRunning   ToolStatus = "running"
	ToolCompleted ToolStatus = "completed"
	ToolFailed    ToolStatus = "failed"
	ToolCancelled ToolStatus = "cancelled"
)

// IsTerminal reports whether the status is final.
func (s ToolStatus) IsTerminal() bool {
	return s == ToolCompleted || s == ToolFailed || s == ToolCancelled
}

// Label returns a display string for the status.
func (s ToolStatus) Label() string {
	switch s {
	case ToolPending:
		return "Pending"
	case ToolRunning:
		return "Running"
	case ToolCompleted:
		return "Completed"
	case ToolFailed:
		return "Failed"
	case ToolCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ToolCall is a tool invocation card with parameters, status, and an
// eventual result.
type ToolCall struct {
	CallID   string
	Tool     string
	Params   map[string]any
	Status   ToolStatus
	Result   any
	Error    string
	Duration time.Duration
	// Progress is a 0-100 percentage; negative means unknown.
	Progress int
}

func (ToolCall) Kind() Kind { return KindToolCall }

func (tc ToolCall) EstimatedHeight(expanded bool) float32 {
	h := float32(100) // header + status row + collapsed params
	if expanded {
		h += 80
	}
	return h
}

// StepStatus is the state of a single plan step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepSkipped    StepStatus = "skipped"
	StepFailed     StepStatus = "failed"
)

// PlanStep is one entry in a plan checklist.
type PlanStep struct {
	ID          string
	Description string
	Status      StepStatus
}

// Plan is a task checklist with completion tracking.
type Plan struct {
	Title    string
	Steps    []PlanStep
	Editable bool
}

func (Plan) Kind() Kind { return KindPlan }

func (p Plan) EstimatedHeight(bool) float32 {
	return 60 + float32(len(p.Steps))*32
}

// CompletionPercent returns how much of the plan is done, 0-100.
func (p Plan) CompletionPercent() int {
	if len(p.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range p.Steps {
		if s.Status == StepCompleted {
			done++
		}
	}
	return done * 100 / len(p.Steps)
}

// ApprovalAction is one choice offered by an approval gate.
type ApprovalAction struct {
	ID    string
	Label string
}

// Approval is a gate asking the user to approve or reject an action.
type Approval struct {
	Title       string
	Description string
	Content     string
	ContentType string
	Actions     []ApprovalAction
}

func (Approval) Kind() Kind { return KindApproval }

func (Approval) EstimatedHeight(bool) float32 { return 120 }

// StatusUpdate is a compact progress line.
type StatusUpdate struct {
	Message string
	// Progress is a 0-100 percentage; negative means indeterminate.
	Progress int
}

func (StatusUpdate) Kind() Kind { return KindStatus }

func (StatusUpdate) EstimatedHeight(bool) float32 { return 40 }

// Divider is a visual separator between timeline sections.
type Divider struct{}

func (Divider) Kind() Kind { return KindDivider }

func (Divider) EstimatedHeight(bool) float32 { return 24 }
