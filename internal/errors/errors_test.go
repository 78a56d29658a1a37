package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestQueryErrorWrapsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{"unavailable", ErrUnavailable},
		{"timeout", ErrTimeout},
		{"protocol", ErrProtocol},
		{"remote", ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewQueryError("get_pr_context", tt.sentinel)

			if !Is(err, tt.sentinel) {
				t.Errorf("Is(err, %v) = false, want true", tt.sentinel)
			}
			if !IsQueryFailure(err) {
				t.Error("IsQueryFailure() = false, want true")
			}

			var qe *QueryError
			if !As(err, &qe) {
				t.Fatal("As(err, *QueryError) = false, want true")
			}
			if qe.Tool != "get_pr_context" {
				t.Errorf("Tool = %q, want %q", qe.Tool, "get_pr_context")
			}
		})
	}
}

func TestQueryErrorContext(t *testing.T) {
	err := NewQueryError("get_pr_context", ErrTimeout).
		WithBin("/usr/local/bin/brain-mcp").
		WithTimeout(20 * time.Second)

	msg := err.Error()
	if !strings.Contains(msg, "bin=/usr/local/bin/brain-mcp") {
		t.Errorf("Error() = %q, want bin context included", msg)
	}
	if !strings.Contains(msg, "timeout=20s") {
		t.Errorf("Error() = %q, want timeout context included", msg)
	}
}

func TestQueryErrorWithDetail(t *testing.T) {
	err := NewQueryError("get_pr_context", ErrProtocol).WithDetail("missing content field")

	if !Is(err, ErrProtocol) {
		t.Error("detail wrapping must preserve the sentinel")
	}
	if !strings.Contains(err.Error(), "missing content field") {
		t.Errorf("Error() = %q, want detail included", err.Error())
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("must be positive").
		WithField("brain.mcp_timeout_seconds").
		WithValue(-1.5)

	if !Is(err, ErrInvalidConfig) {
		t.Error("Is(err, ErrInvalidConfig) = false, want true")
	}
	if IsQueryFailure(err) {
		t.Error("IsQueryFailure() = true for a config error, want false")
	}

	msg := err.Error()
	if !strings.Contains(msg, "key=brain.mcp_timeout_seconds") {
		t.Errorf("Error() = %q, want field context", msg)
	}
	if !strings.Contains(msg, "value=-1.5") {
		t.Errorf("Error() = %q, want value context", msg)
	}
}

func TestWriteError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewWriteError("/repo/BRAIN_QODO_CONTEXT.md", cause)

	if !Is(err, ErrWriteFailed) {
		t.Error("Is(err, ErrWriteFailed) = false, want true")
	}
	if !strings.Contains(err.Error(), "path=/repo/BRAIN_QODO_CONTEXT.md") {
		t.Errorf("Error() = %q, want path context", err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout query", NewQueryError("t", ErrTimeout), true},
		{"unavailable query", NewQueryError("t", ErrUnavailable), true},
		{"protocol query", NewQueryError("t", ErrProtocol), false},
		{"remote query", NewQueryError("t", ErrRemote), false},
		{"config", NewConfigError("bad"), false},
		{"bare timeout sentinel", ErrTimeout, true},
		{"plain error", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"disabled", ErrBridgeDisabled, SeverityInfo},
		{"query", NewQueryError("t", ErrRemote), SeverityWarning},
		{"unknown", New("boom"), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(NewQueryError("get_pr_context", ErrRemote), "bridge query")
	if !Is(err, ErrRemote) {
		t.Error("Wrap must preserve the wrapped sentinel")
	}

	if Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}
