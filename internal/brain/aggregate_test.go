package brain

import (
	"fmt"
	"testing"

	"github.com/stephen-netu/brain-bridge/internal/mcp"
)

func makeResponse(jobs, modules, risksPerModule int) *mcp.ContextResponse {
	resp := &mcp.ContextResponse{}
	for i := 0; i < jobs; i++ {
		resp.CIJobs = append(resp.CIJobs, mcp.CIJob{
			Name:   fmt.Sprintf("job-%d", i),
			Status: "passed",
		})
	}
	for i := 0; i < modules; i++ {
		mod := mcp.ModuleReport{
			Name:            fmt.Sprintf("module-%d", i),
			ContractSummary: "summary",
		}
		for j := 0; j < risksPerModule; j++ {
			mod.Risks = append(mod.Risks, fmt.Sprintf("risk-%d-%d", i, j))
		}
		resp.Modules = append(resp.Modules, mod)
	}
	return resp
}

func TestAggregateTruncation(t *testing.T) {
	tests := []struct {
		name        string
		jobs        int
		modules     int
		risks       int
		limits      Limits
		wantJobs    int
		wantModules int
		wantRisks   int
	}{
		{
			name: "under limits untouched",
			jobs: 2, modules: 1, risks: 2,
			limits:   Limits{MaxModules: 5, MaxRisks: 8, MaxJobs: 6},
			wantJobs: 2, wantModules: 1, wantRisks: 2,
		},
		{
			name: "over limits truncated",
			jobs: 10, modules: 8, risks: 12,
			limits:   Limits{MaxModules: 5, MaxRisks: 8, MaxJobs: 6},
			wantJobs: 6, wantModules: 5, wantRisks: 8,
		},
		{
			name: "zero limits empty everything",
			jobs: 3, modules: 3, risks: 3,
			limits:   Limits{MaxModules: 0, MaxRisks: 0, MaxJobs: 0},
			wantJobs: 0, wantModules: 0, wantRisks: 0,
		},
		{
			name: "negative limits treated as zero",
			jobs: 3, modules: 3, risks: 3,
			limits:   Limits{MaxModules: -1, MaxRisks: -1, MaxJobs: -1},
			wantJobs: 0, wantModules: 0, wantRisks: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(makeResponse(tt.jobs, tt.modules, tt.risks), tt.limits)

			if len(got.CIJobs) != tt.wantJobs {
				t.Errorf("got %d CI jobs, want %d", len(got.CIJobs), tt.wantJobs)
			}
			if len(got.Modules) != tt.wantModules {
				t.Errorf("got %d modules, want %d", len(got.Modules), tt.wantModules)
			}
			for i, m := range got.Modules {
				if len(m.Risks) != tt.wantRisks {
					t.Errorf("module %d: got %d risks, want %d", i, len(m.Risks), tt.wantRisks)
				}
			}
		})
	}
}

func TestAggregatePreservesOrder(t *testing.T) {
	got := Aggregate(makeResponse(8, 7, 10), Limits{MaxModules: 3, MaxRisks: 2, MaxJobs: 4})

	for i, job := range got.CIJobs {
		if want := fmt.Sprintf("job-%d", i); job.Name != want {
			t.Errorf("CIJobs[%d] = %q, want %q", i, job.Name, want)
		}
	}
	for i, mod := range got.Modules {
		if want := fmt.Sprintf("module-%d", i); mod.Name != want {
			t.Errorf("Modules[%d] = %q, want %q", i, mod.Name, want)
		}
		for j, risk := range mod.Risks {
			if want := fmt.Sprintf("risk-%d-%d", i, j); risk != want {
				t.Errorf("Modules[%d].Risks[%d] = %q, want %q", i, j, risk, want)
			}
		}
	}
}

func TestAggregateNilResponse(t *testing.T) {
	got := Aggregate(nil, Limits{MaxModules: 5, MaxRisks: 8, MaxJobs: 6})
	if len(got.CIJobs) != 0 || len(got.Modules) != 0 {
		t.Errorf("nil response should aggregate to empty context, got %+v", got)
	}
}

func TestNewChangeSet(t *testing.T) {
	got := NewChangeSet([]string{"a.go", "b.go", "a.go", "", "c.go", "b.go"})
	want := ChangeSet{"a.go", "b.go", "c.go"}
	if len(got) != len(want) {
		t.Fatalf("NewChangeSet() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NewChangeSet()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEventTypeAutoTrigger(t *testing.T) {
	tests := []struct {
		event EventType
		want  bool
	}{
		{EventOpened, true},
		{EventReopened, true},
		{EventSynchronize, true},
		{EventPush, true},
		{EventComment, false},
		{EventType("review_requested"), false},
		{EventType(""), false},
	}
	for _, tt := range tests {
		if got := tt.event.AutoTrigger(); got != tt.want {
			t.Errorf("%q.AutoTrigger() = %v, want %v", tt.event, got, tt.want)
		}
	}
}
