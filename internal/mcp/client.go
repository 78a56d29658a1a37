// Package mcp speaks JSON-RPC 2.0 over newline-delimited stdio to a
// spawned knowledge-service binary. Each query runs a full session:
// spawn, initialize handshake, one tools/call, shutdown. The server
// process never outlives the call.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/stephen-netu/brain-bridge/internal/errors"
	"github.com/stephen-netu/brain-bridge/internal/logging"
)

const (
	protocolVersion = "2024-11-05"
	clientName      = "brain-bridge"
	clientVersion   = "1.0.0"

	// contextTool is the tool invoked for PR context queries.
	contextTool = "get_pr_context"

	// maxSkippedLines bounds the scan past non-JSON output (startup
	// banners, stray prints) before giving up on a response.
	maxSkippedLines = 100
)

// Client spawns the knowledge-service binary and queries it. The zero
// value is not usable; construct with NewClient.
type Client struct {
	bin     string
	root    string
	timeout time.Duration
	log     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-query deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger for protocol traces.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient returns a client for the given server binary. root, when
// non-empty, is exported to the server as BRAIN_ROOT.
func NewClient(bin, root string, opts ...Option) *Client {
	c := &Client{
		bin:     bin,
		root:    root,
		timeout: 20 * time.Second,
		log:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryContext asks the knowledge service for PR context. Failures are
// returned as a QueryError wrapping one of the query sentinels.
func (c *Client) QueryContext(ctx context.Context, req ContextRequest) (*ContextResponse, error) {
	args := map[string]any{
		"slice":         req.Slice,
		"changed_files": req.ChangedFiles,
	}
	if req.Root != "" {
		args["root"] = req.Root
	}

	text, err := c.call(ctx, contextTool, args)
	if err != nil {
		return nil, c.queryError(contextTool, err)
	}

	var resp ContextResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		cause := fmt.Errorf("%w: tool result is not valid JSON: %v", errors.ErrProtocol, err)
		return nil, c.queryError(contextTool, cause)
	}
	return &resp, nil
}

// CallTool invokes an arbitrary tool and decodes its text result as a
// JSON object. Non-JSON text is returned under a raw_text key, matching
// servers that reply with plain prose.
func (c *Client) CallTool(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	text, err := c.call(ctx, tool, args)
	if err != nil {
		return nil, c.queryError(tool, err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return map[string]any{"raw_text": text}, nil
	}
	return result, nil
}

func (c *Client) queryError(tool string, cause error) error {
	return errors.NewQueryError(tool, cause).WithBin(c.bin).WithTimeout(c.timeout)
}

// call runs one full session: spawn, handshake, tools/call, teardown.
// It returns the text of the first content item.
func (c *Client) call(ctx context.Context, tool string, args map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	s, err := c.spawn(ctx)
	if err != nil {
		return "", err
	}
	defer s.close()

	if err := s.initialize(ctx); err != nil {
		return "", err
	}

	resp, err := s.roundTrip(ctx, "tools/call", map[string]any{
		"name":      tool,
		"arguments": args,
	})
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s (code %d)", errors.ErrRemote, resp.Error.Message, resp.Error.Code)
	}

	var result toolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return "", fmt.Errorf("%w: malformed tool result: %v", errors.ErrProtocol, err)
	}
	if result.IsError {
		detail := "tool reported an error"
		if len(result.Content) > 0 && result.Content[0].Text != "" {
			detail = result.Content[0].Text
		}
		return "", fmt.Errorf("%w: %s", errors.ErrRemote, detail)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("%w: tool result has no content", errors.ErrProtocol)
	}
	return result.Content[0].Text, nil
}

// session is one spawned server process with its stdio pipes.
type session struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	reader     *bufio.Reader
	log        *logging.Logger
	nextID     int
	stderrDone chan struct{}
}

func (c *Client) spawn(ctx context.Context) (*session, error) {
	cmd := exec.CommandContext(ctx, c.bin)
	cmd.Env = os.Environ()
	if c.root != "" {
		cmd.Env = append(cmd.Env, "BRAIN_ROOT="+c.root)
	}
	configureProcAttrs(cmd)
	cmd.WaitDelay = 5 * time.Second

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", errors.ErrUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", errors.ErrUnavailable, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", errors.ErrUnavailable, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start %s: %v", errors.ErrUnavailable, c.bin, err)
	}
	c.log.Debug("server started", "bin", c.bin, "pid", cmd.Process.Pid)

	s := &session{
		cmd:        cmd,
		stdin:      stdin,
		reader:     bufio.NewReader(stdout),
		log:        c.log,
		stderrDone: make(chan struct{}),
	}
	go s.drainStderr(stderr)
	return s, nil
}

func (s *session) drainStderr(r io.Reader) {
	defer close(s.stderrDone)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.log.Debug("server stderr", "line", scanner.Text())
	}
}

// initialize performs the MCP handshake: an initialize request followed
// by the initialized notification.
func (s *session) initialize(ctx context.Context) error {
	resp, err := s.roundTrip(ctx, "initialize", map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    clientName,
			"version": clientVersion,
		},
	})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: initialize rejected: %s", errors.ErrRemote, resp.Error.Message)
	}

	return s.notify("notifications/initialized")
}

func (s *session) notify(method string) error {
	return s.write(jsonRPCRequest{JSONRPC: "2.0", Method: method})
}

// roundTrip sends a request and reads until its response arrives,
// skipping blank and non-JSON lines and responses to other ids.
func (s *session) roundTrip(ctx context.Context, method string, params map[string]any) (*jsonRPCResponse, error) {
	s.nextID++
	id := s.nextID
	req := jsonRPCRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	if err := s.write(req); err != nil {
		return nil, err
	}

	for skipped := 0; skipped < maxSkippedLines; skipped++ {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("%w: no response to %s", errors.ErrTimeout, method)
			}
			return nil, fmt.Errorf("%w: server closed stream during %s: %v", errors.ErrUnavailable, method, err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var resp jsonRPCResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			s.log.Debug("skipping non-JSON line", "line", line)
			continue
		}
		if resp.ID != id {
			continue
		}
		return &resp, nil
	}
	return nil, fmt.Errorf("%w: no response to %s within %d lines", errors.ErrProtocol, method, maxSkippedLines)
}

func (s *session) write(req jsonRPCRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", errors.ErrProtocol, req.Method, err)
	}
	data = append(data, '\n')
	if _, err := s.stdin.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %v", errors.ErrUnavailable, req.Method, err)
	}
	return nil
}

// close tears the session down: kill the process group, join the
// stderr reader, then reap. Wait closes the pipes, so the reader must
// be done before it runs.
func (s *session) close() {
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Cancel()
	}
	<-s.stderrDone
	_ = s.cmd.Wait()
}
