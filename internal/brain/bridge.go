// Package brain prepares knowledge-service context for a PR review.
// The orchestrator runs one linear pipeline per invocation: gate on
// configuration and event type, query the service, bound the response,
// render the context document, write it atomically, and hand back an
// instruction fragment for the host's prompt pipeline.
//
// The bridge is best-effort. Every failure is absorbed here and logged;
// the host's review flow proceeds exactly as if the bridge were
// disabled.
package brain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/stephen-netu/brain-bridge/internal/config"
	"github.com/stephen-netu/brain-bridge/internal/errors"
	"github.com/stephen-netu/brain-bridge/internal/logging"
	"github.com/stephen-netu/brain-bridge/internal/mcp"
)

// Bridge orchestrates context preparation. Construct with New.
type Bridge struct {
	cfg     *config.Config
	querier Querier
	chat    ChatQuerier
	fs      afero.Fs
	log     *logging.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithFs overrides the filesystem the document is written to.
func WithFs(fs afero.Fs) Option {
	return func(b *Bridge) {
		b.fs = fs
	}
}

// WithLogger sets the bridge logger.
func WithLogger(log *logging.Logger) Option {
	return func(b *Bridge) {
		b.log = log
	}
}

// WithChatQuerier sets the querier backing the interactive status and
// next-actions queries. Without it, a querier that also implements
// ChatQuerier is used.
func WithChatQuerier(cq ChatQuerier) Option {
	return func(b *Bridge) {
		b.chat = cq
	}
}

// New returns a Bridge using the given configuration and querier.
func New(cfg *config.Config, querier Querier, opts ...Option) *Bridge {
	b := &Bridge{
		cfg:     cfg,
		querier: querier,
		fs:      afero.NewOsFs(),
		log:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.chat == nil {
		if cq, ok := querier.(ChatQuerier); ok {
			b.chat = cq
		}
	}
	return b
}

// Prepare runs the full pipeline for one PR event. It never returns an
// error: failures degrade the result and are visible only in logs.
func (b *Bridge) Prepare(ctx context.Context, event EventType, repoRoot string, changedFiles []string) Result {
	if b.cfg == nil {
		b.log.Error("bridge configuration unavailable")
		return Result{Status: StatusDegraded}
	}
	if !b.cfg.Brain.MCPEnable {
		b.log.Debug("bridge disabled by configuration")
		return Result{Status: StatusDisabled}
	}
	if !event.AutoTrigger() {
		b.log.Debug("event does not auto-trigger", "event", string(event))
		return Result{Status: StatusDisabled}
	}

	changed := NewChangeSet(changedFiles)
	log := b.log.WithEvent(string(event)).With("files", len(changed))

	resp, err := b.querier.QueryContext(ctx, mcp.ContextRequest{
		Slice:        b.cfg.Brain.MCPDefaultSlice,
		ChangedFiles: changed,
		Root:         b.cfg.Brain.MCPRoot,
	})
	if err != nil {
		log.Warn("context query failed", "error", err.Error(), "retryable", errors.IsRetryable(err))
		return Result{Status: StatusDegraded}
	}

	bounded := Aggregate(resp, Limits{
		MaxModules: b.cfg.Brain.MCPMaxModules,
		MaxRisks:   b.cfg.Brain.MCPMaxRisks,
		MaxJobs:    b.cfg.Brain.MCPMaxJobs,
	})

	doc, err := Render(bounded, changed)
	if err != nil {
		log.Error("document render failed", "error", err.Error())
		return Result{Status: StatusDegraded}
	}

	path := filepath.Join(repoRoot, ContextFileName)
	if err := writeDocument(b.fs, path, doc); err != nil {
		log.Error("document write failed", "error", err.Error(), "path", path)
		return Result{Status: StatusDegraded}
	}

	log.Info("context document written",
		"path", path,
		"modules", len(bounded.Modules),
		"ci_jobs", len(bounded.CIJobs))

	return Result{
		Status:            StatusOK,
		ExtraInstructions: instructionBlock(bounded),
		ContextPath:       path,
	}
}

// instructionBlock builds the fragment the host appends to its
// extra-instructions field. It references the document by name and
// must stay safe to embed verbatim in the host's prompt template.
func instructionBlock(bounded Context) string {
	modules := make([]string, 0, len(bounded.Modules))
	risks := 0
	for _, m := range bounded.Modules {
		modules = append(modules, m.Name)
		risks += len(m.Risks)
	}

	moduleList := "None"
	if len(modules) > 0 {
		moduleList = strings.Join(modules, ", ")
	}

	lines := []string{
		"Brain MCP context for this PR is available in " + ContextFileName + ".",
		fmt.Sprintf("- Affected modules: %s", moduleList),
		fmt.Sprintf("- CI jobs reported: %d", len(bounded.CIJobs)),
		fmt.Sprintf("- Known risks in scope: %d", risks),
		"",
		"Reviewer, you MUST:",
		"- Read " + ContextFileName + " before drawing conclusions.",
		"- Prioritize issues that affect the modules and risks listed there.",
		"- Explicitly mention if you rely on this Brain snapshot.",
	}
	return strings.Join(lines, "\n")
}
