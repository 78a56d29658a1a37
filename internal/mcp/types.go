package mcp

import "encoding/json"

// Wire types for JSON-RPC 2.0 over newline-delimited stdio.

type jsonRPCRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int            `json:"id,omitempty"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// toolResult is the MCP tools/call result envelope.
type toolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ContextRequest is the payload sent to the get_pr_context tool.
type ContextRequest struct {
	Slice        string   `json:"slice"`
	ChangedFiles []string `json:"changed_files"`
	Root         string   `json:"root,omitempty"`
}

// CIJob is one continuous-integration job with its observed status.
type CIJob struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ModuleReport is the knowledge service's view of one affected module.
type ModuleReport struct {
	Name            string   `json:"name"`
	ContractSummary string   `json:"contract_summary"`
	Risks           []string `json:"risks"`
}

// ContextResponse is the decoded get_pr_context result.
type ContextResponse struct {
	CIJobs  []CIJob        `json:"ci_jobs"`
	Modules []ModuleReport `json:"modules"`
}
