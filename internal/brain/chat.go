package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Chat-style queries answer "what's the repo state?" and "what should I
// fix next?" outside the PR pipeline. Like Prepare, they absorb every
// failure: the worst outcome is a ChatResult with status unavailable.

// ChatResult is the rendered answer to an interactive query.
type ChatResult struct {
	Status      string
	Headline    string
	SummaryText string
}

const chatStatusOK = "ok"
const chatStatusUnavailable = "unavailable"

type sliceHealth struct {
	Slice            string `json:"slice"`
	ValidationStatus string `json:"validation_status"`
	RiskCount        int    `json:"risk_count"`
	TopRiskSeverity  any    `json:"top_risk_severity"`
}

type riskEntry struct {
	ID                string  `json:"id"`
	Priority          string  `json:"priority"`
	Severity          float64 `json:"severity"`
	RecommendedAction string  `json:"recommended_action"`
	Estimate          string  `json:"estimate"`
}

type actionEntry struct {
	Priority string `json:"priority"`
	RiskID   string `json:"risk_id"`
	Slice    string `json:"slice"`
	Summary  string `json:"summary"`
	Estimate string `json:"estimate"`
}

type ciDrift struct {
	DegradedCount int      `json:"degraded_count"`
	JobsWithDrift []string `json:"jobs_with_drift"`
}

type qualityGate struct {
	State      string   `json:"state"`
	FailedJobs []string `json:"failed_jobs"`
}

type statusOverview struct {
	OverallStatus string        `json:"overall_status"`
	BySlice       []sliceHealth `json:"by_slice"`
	TopRisks      []riskEntry   `json:"top_risks"`
	CIDrift       *ciDrift      `json:"ci_drift"`
	QualityGate   *qualityGate  `json:"quality_gate"`
	TopActions    []actionEntry `json:"top_actions"`
}

type nextActions struct {
	Actions     []actionEntry `json:"actions"`
	Reasoning   []string      `json:"reasoning"`
	SliceFilter string        `json:"slice_filter"`
}

// StatusQuery fetches and renders a codebase health overview.
func (b *Bridge) StatusQuery(ctx context.Context) ChatResult {
	if b.cfg == nil || !b.cfg.Brain.MCPEnable {
		return ChatResult{
			Status:      chatStatusUnavailable,
			Headline:    "Brain MCP is not enabled",
			SummaryText: "Brain MCP integration is disabled. Enable with `brain.mcp_enable=true`.",
		}
	}
	if b.chat == nil {
		return ChatResult{
			Status:      chatStatusUnavailable,
			Headline:    "Brain MCP client not configured",
			SummaryText: "Could not connect to Brain MCP.",
		}
	}

	raw, err := b.chat.CallTool(ctx, "get_status_overview", map[string]any{
		"top_n_risks": b.cfg.Brain.MCPMaxRisks,
	})
	if err != nil {
		b.log.Warn("status query failed", "error", err.Error())
		return ChatResult{
			Status:      chatStatusUnavailable,
			Headline:    "Brain query failed",
			SummaryText: fmt.Sprintf("Error: %v", err),
		}
	}

	var overview statusOverview
	if err := decodeToolMap(raw, &overview); err != nil {
		b.log.Warn("status overview undecodable", "error", err.Error())
		return ChatResult{
			Status:      chatStatusUnavailable,
			Headline:    "Brain MCP returned no data",
			SummaryText: "Brain query failed.",
		}
	}

	return ChatResult{
		Status:      chatStatusOK,
		Headline:    overview.headline(),
		SummaryText: overview.markdown(),
	}
}

// NextActionsQuery fetches and renders ranked remediation actions.
// sliceFilter narrows the scope when non-empty.
func (b *Bridge) NextActionsQuery(ctx context.Context, sliceFilter string, maxActions int) ChatResult {
	if b.cfg == nil || !b.cfg.Brain.MCPEnable {
		return ChatResult{
			Status:      chatStatusUnavailable,
			SummaryText: "Brain MCP is not enabled.",
		}
	}
	if b.chat == nil {
		return ChatResult{
			Status:      chatStatusUnavailable,
			SummaryText: "Could not connect to Brain MCP.",
		}
	}

	args := map[string]any{"max_actions": maxActions}
	if sliceFilter != "" {
		args["slice_filter"] = sliceFilter
	}

	raw, err := b.chat.CallTool(ctx, "get_next_actions", args)
	if err != nil {
		b.log.Warn("next-actions query failed", "error", err.Error())
		return ChatResult{
			Status:      chatStatusUnavailable,
			SummaryText: fmt.Sprintf("Error: %v", err),
		}
	}

	var next nextActions
	if err := decodeToolMap(raw, &next); err != nil {
		b.log.Warn("next actions undecodable", "error", err.Error())
		return ChatResult{
			Status:      chatStatusUnavailable,
			SummaryText: "Brain query failed.",
		}
	}

	return ChatResult{
		Status:      chatStatusOK,
		SummaryText: next.markdown(),
	}
}

// decodeToolMap round-trips a loosely typed tool result into a typed
// view. Unknown fields are dropped, absent ones stay zero.
func decodeToolMap(raw map[string]any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (o statusOverview) headline() string {
	overall := strings.ToUpper(orUnknown(o.OverallStatus))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Brain status: %s", overall)
	if o.QualityGate != nil {
		switch o.QualityGate.State {
		case "failed":
			sb.WriteString(" | quality gate FAILING")
		case "success":
			sb.WriteString(" | quality gate passing")
		}
	}

	var failing []string
	for _, s := range o.BySlice {
		if s.ValidationStatus != "passed" && s.ValidationStatus != "success" {
			failing = append(failing, s.Slice)
		}
	}
	if len(failing) > 0 {
		fmt.Fprintf(&sb, ", %d slice(s) failing validation (%s)", len(failing), strings.Join(failing, ", "))
	}
	return sb.String()
}

func (o statusOverview) markdown() string {
	var sb strings.Builder
	sb.WriteString("# Codebase Health Overview\n\n")
	fmt.Fprintf(&sb, "**Overall Status**: %s\n\n", strings.ToUpper(orUnknown(o.OverallStatus)))

	if o.QualityGate != nil {
		fmt.Fprintf(&sb, "**Quality Gate (main)**: %s\n", orUnknown(o.QualityGate.State))
		if len(o.QualityGate.FailedJobs) > 0 {
			fmt.Fprintf(&sb, "- Failed jobs: %s\n", strings.Join(o.QualityGate.FailedJobs, ", "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Health by Slice\n\n")
	for _, s := range o.BySlice {
		severity := "N/A"
		if s.TopRiskSeverity != nil {
			severity = fmt.Sprintf("%v", s.TopRiskSeverity)
		}
		fmt.Fprintf(&sb, "- **%s**: %s | %d risk(s) | max severity: %s\n",
			orUnknown(s.Slice), orUnknown(s.ValidationStatus), s.RiskCount, severity)
	}
	sb.WriteString("\n")

	sb.WriteString("## Top Risks (by severity)\n\n")
	if len(o.TopRisks) > 0 {
		for i, r := range o.TopRisks {
			fmt.Fprintf(&sb, "%d. **%s** [%s] (severity=%g): %s",
				i+1, orDefault(r.Priority, "P2"), orUnknown(r.ID), r.Severity, r.RecommendedAction)
			if r.Estimate != "" {
				fmt.Fprintf(&sb, " (est: %s)", r.Estimate)
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No critical risks identified.\n")
	}
	sb.WriteString("\n")

	if o.CIDrift != nil && o.CIDrift.DegradedCount > 0 {
		sb.WriteString("## CI Drift\n\n")
		fmt.Fprintf(&sb, "%d job(s) with failures or performance degradation:\n", o.CIDrift.DegradedCount)
		for _, job := range o.CIDrift.JobsWithDrift {
			fmt.Fprintf(&sb, "- %s\n", job)
		}
		sb.WriteString("\n")
	}

	if len(o.TopActions) > 0 {
		sb.WriteString("## Top Actions\n\n")
		for _, a := range o.TopActions {
			fmt.Fprintf(&sb, "- **%s** [%s]: %s", orDefault(a.Priority, "P2"), orUnknown(a.RiskID), a.Summary)
			if a.Estimate != "" {
				fmt.Fprintf(&sb, " (est: %s)", a.Estimate)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (n nextActions) markdown() string {
	var sb strings.Builder
	sb.WriteString("# Recommended Next Actions\n\n")

	if n.SliceFilter != "" {
		fmt.Fprintf(&sb, "_Filtered to slice: %s_\n\n", n.SliceFilter)
	}

	if len(n.Reasoning) > 0 {
		sb.WriteString("**Ranking logic**:\n")
		for _, line := range n.Reasoning {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
		sb.WriteString("\n")
	}

	if len(n.Actions) == 0 {
		sb.WriteString("No open actions found.\n")
		return sb.String()
	}

	sb.WriteString("## Actions (ranked)\n\n")
	for i, a := range n.Actions {
		fmt.Fprintf(&sb, "%d. **%s** [%s]", i+1, orDefault(a.Priority, "P2"), orUnknown(a.RiskID))
		if a.Slice != "" {
			fmt.Fprintf(&sb, " (%s)", a.Slice)
		}
		fmt.Fprintf(&sb, ": %s", a.Summary)
		if a.Estimate != "" {
			fmt.Fprintf(&sb, " (est: %s)", a.Estimate)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func orUnknown(s string) string {
	return orDefault(s, "unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
