package brain

import "github.com/stephen-netu/brain-bridge/internal/mcp"

// Aggregate bounds a raw response to the configured limits. Sections
// are prefix-truncated in received order; no sorting, no deduplication.
// A nil response yields an empty context.
func Aggregate(resp *mcp.ContextResponse, limits Limits) Context {
	if resp == nil {
		return Context{}
	}

	out := Context{
		CIJobs:  append([]mcp.CIJob(nil), prefix(resp.CIJobs, limits.MaxJobs)...),
		Modules: make([]Module, 0, min(len(resp.Modules), max(limits.MaxModules, 0))),
	}

	for _, m := range prefix(resp.Modules, limits.MaxModules) {
		out.Modules = append(out.Modules, Module{
			Name:            m.Name,
			ContractSummary: m.ContractSummary,
			Risks:           append([]string(nil), prefix(m.Risks, limits.MaxRisks)...),
		})
	}
	return out
}

func prefix[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
