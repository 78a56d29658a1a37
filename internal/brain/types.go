package brain

import (
	"context"

	"github.com/stephen-netu/brain-bridge/internal/mcp"
)

// ContextFileName is the document written at the repository root on
// every successful run. The path is fixed; the review agent is told to
// read it by name.
const ContextFileName = "BRAIN_QODO_CONTEXT.md"

// EventType classifies the PR lifecycle event that triggered the host.
type EventType string

const (
	EventOpened      EventType = "opened"
	EventReopened    EventType = "reopened"
	EventSynchronize EventType = "synchronize"
	EventPush        EventType = "push"
	EventComment     EventType = "comment"
)

// AutoTrigger reports whether the event qualifies for automatic context
// preparation. Comment-triggered commands never do.
func (e EventType) AutoTrigger() bool {
	switch e {
	case EventOpened, EventReopened, EventSynchronize, EventPush:
		return true
	default:
		return false
	}
}

// ChangeSet is the list of repo-relative changed file paths,
// deduplicated with insertion order preserved.
type ChangeSet []string

// NewChangeSet deduplicates paths while preserving first-seen order.
// Empty entries are dropped.
func NewChangeSet(paths []string) ChangeSet {
	seen := make(map[string]struct{}, len(paths))
	out := make(ChangeSet, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Limits caps each section of the aggregated context.
type Limits struct {
	MaxModules int
	MaxRisks   int
	MaxJobs    int
}

// Module is the bounded view of one affected module.
type Module struct {
	Name            string
	ContractSummary string
	Risks           []string
}

// Context is the bounded, render-ready view of a knowledge-service
// response.
type Context struct {
	CIJobs  []mcp.CIJob
	Modules []Module
}

// Status is the outcome of one bridge invocation.
type Status string

const (
	// StatusOK means the document was written and instructions returned.
	StatusOK Status = "ok"
	// StatusDisabled means the bridge did not run: disabled by
	// configuration or handed a non-qualifying event.
	StatusDisabled Status = "disabled"
	// StatusDegraded means the bridge ran but failed; the host proceeds
	// as if the bridge were disabled.
	StatusDegraded Status = "degraded"
)

// Result is what the host receives from Prepare. ExtraInstructions is
// empty unless Status is ok.
type Result struct {
	Status            Status
	ExtraInstructions string
	ContextPath       string
}

// Querier is the capability the orchestrator needs from the MCP layer.
type Querier interface {
	QueryContext(ctx context.Context, req mcp.ContextRequest) (*mcp.ContextResponse, error)
}

// ChatQuerier backs the interactive status and next-actions queries.
type ChatQuerier interface {
	CallTool(ctx context.Context, tool string, args map[string]any) (map[string]any, error)
}
