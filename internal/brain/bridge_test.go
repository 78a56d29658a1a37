package brain

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/stephen-netu/brain-bridge/internal/config"
	"github.com/stephen-netu/brain-bridge/internal/errors"
	"github.com/stephen-netu/brain-bridge/internal/mcp"
)

type fakeQuerier struct {
	resp  *mcp.ContextResponse
	err   error
	calls int
	last  mcp.ContextRequest
}

func (f *fakeQuerier) QueryContext(_ context.Context, req mcp.ContextRequest) (*mcp.ContextResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func enabledConfig() *config.Config {
	cfg := config.Default()
	cfg.Brain.MCPEnable = true
	cfg.Brain.MCPBin = "/usr/local/bin/brain-mcp"
	cfg.Brain.MCPRoot = "/srv/brain"
	return cfg
}

func scenarioResponse() *mcp.ContextResponse {
	return &mcp.ContextResponse{
		CIJobs: []mcp.CIJob{{Name: "build", Status: "pass"}},
		Modules: []mcp.ModuleReport{{
			Name:            "core",
			ContractSummary: "Owns the request lifecycle",
			Risks:           []string{"r1", "r2"},
		}},
	}
}

func TestPrepareDisabled(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	fs := afero.NewMemMapFs()
	b := New(config.Default(), querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventOpened, "/repo", []string{"a.py"})

	if result.Status != StatusDisabled {
		t.Errorf("Status = %q, want %q", result.Status, StatusDisabled)
	}
	if result.ExtraInstructions != "" {
		t.Error("disabled bridge should return no instructions")
	}
	if querier.calls != 0 {
		t.Errorf("querier invoked %d times, want 0", querier.calls)
	}
	if exists, _ := afero.Exists(fs, "/repo/"+ContextFileName); exists {
		t.Error("disabled bridge should not write a document")
	}
}

func TestPrepareMissingConfig(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	fs := afero.NewMemMapFs()
	b := New(nil, querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventOpened, "/repo", []string{"a.py"})

	if result.Status != StatusDegraded {
		t.Errorf("Status = %q, want %q", result.Status, StatusDegraded)
	}
	if result.ExtraInstructions != "" {
		t.Error("missing config should yield no instructions")
	}
	if querier.calls != 0 {
		t.Errorf("querier invoked %d times, want 0", querier.calls)
	}
	if exists, _ := afero.Exists(fs, "/repo/"+ContextFileName); exists {
		t.Error("missing config should not write a document")
	}
}

func TestPrepareCommentEvent(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	fs := afero.NewMemMapFs()
	b := New(enabledConfig(), querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventComment, "/repo", []string{"a.py"})

	if result.Status != StatusDisabled {
		t.Errorf("Status = %q, want %q", result.Status, StatusDisabled)
	}
	if querier.calls != 0 {
		t.Errorf("querier invoked %d times, want 0", querier.calls)
	}
}

func TestPrepareWritesDocument(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	fs := afero.NewMemMapFs()
	b := New(enabledConfig(), querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventOpened, "/repo", []string{"a.py", "b.py"})

	if result.Status != StatusOK {
		t.Fatalf("Status = %q, want %q", result.Status, StatusOK)
	}
	if result.ContextPath != "/repo/"+ContextFileName {
		t.Errorf("ContextPath = %q", result.ContextPath)
	}
	if querier.calls != 1 {
		t.Errorf("querier invoked %d times, want 1", querier.calls)
	}
	if querier.last.Slice != "runtime" {
		t.Errorf("query slice = %q, want %q", querier.last.Slice, "runtime")
	}
	if querier.last.Root != "/srv/brain" {
		t.Errorf("query root = %q, want %q", querier.last.Root, "/srv/brain")
	}

	doc, err := afero.ReadFile(fs, result.ContextPath)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	text := string(doc)
	for _, want := range []string{"- `a.py`", "- `b.py`", "| build | pass |", "### core", "- r1", "- r2"} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q:\n%s", want, text)
		}
	}

	if !strings.Contains(result.ExtraInstructions, ContextFileName) {
		t.Errorf("instructions should reference %s:\n%s", ContextFileName, result.ExtraInstructions)
	}
	if !strings.Contains(result.ExtraInstructions, "core") {
		t.Errorf("instructions should name affected modules:\n%s", result.ExtraInstructions)
	}
}

func TestPrepareRespectsRiskLimit(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	fs := afero.NewMemMapFs()
	cfg := enabledConfig()
	cfg.Brain.MCPMaxRisks = 1
	b := New(cfg, querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventSynchronize, "/repo", []string{"a.py", "b.py"})
	if result.Status != StatusOK {
		t.Fatalf("Status = %q, want %q", result.Status, StatusOK)
	}

	doc, err := afero.ReadFile(fs, result.ContextPath)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	text := string(doc)
	if !strings.Contains(text, "- r1") {
		t.Errorf("document should keep the first risk:\n%s", text)
	}
	if strings.Contains(text, "- r2") {
		t.Errorf("document should drop risks beyond the limit:\n%s", text)
	}
}

func TestPrepareQueryFailure(t *testing.T) {
	cause := errors.NewQueryError("get_pr_context", errors.ErrTimeout)
	querier := &fakeQuerier{err: cause}
	fs := afero.NewMemMapFs()
	b := New(enabledConfig(), querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventOpened, "/repo", []string{"a.py"})

	if result.Status != StatusDegraded {
		t.Errorf("Status = %q, want %q", result.Status, StatusDegraded)
	}
	if result.ExtraInstructions != "" {
		t.Error("failed query should yield no instructions")
	}
	if exists, _ := afero.Exists(fs, "/repo/"+ContextFileName); exists {
		t.Error("failed query should not write a document")
	}
}

func TestPrepareWriteFailure(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	b := New(enabledConfig(), querier, WithFs(fs))

	result := b.Prepare(context.Background(), EventOpened, "/repo", []string{"a.py"})

	if result.Status != StatusDegraded {
		t.Errorf("Status = %q, want %q", result.Status, StatusDegraded)
	}
	if result.ExtraInstructions != "" {
		t.Error("write failure should yield no instructions")
	}
}

func TestPrepareDeduplicatesChangedFiles(t *testing.T) {
	querier := &fakeQuerier{resp: scenarioResponse()}
	b := New(enabledConfig(), querier, WithFs(afero.NewMemMapFs()))

	b.Prepare(context.Background(), EventPush, "/repo", []string{"a.py", "a.py", "b.py"})

	if got := len(querier.last.ChangedFiles); got != 2 {
		t.Errorf("query carried %d changed files, want 2: %v", got, querier.last.ChangedFiles)
	}
}
