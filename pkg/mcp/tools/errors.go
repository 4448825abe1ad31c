package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/querylab/kgraph/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the agent
// as a tool result, ensuring error details are visible rather than
// being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable errors the agent can see and work around
// (unknown table, no join path). System failures should still return
// Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewErrorResultWithDetails creates an error result with additional context
// the agent can use to correct its request.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// graphErrorResult maps knowledge-graph sentinel errors onto structured
// error results. It returns nil for errors that are not agent-recoverable;
// those propagate as Go errors.
func graphErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperrors.ErrNotInitialized):
		return NewErrorResult("not_initialized", "knowledge graph is still initializing, retry shortly")
	case errors.Is(err, apperrors.ErrTableNotFound):
		return NewErrorResult("table_not_found", err.Error())
	case errors.Is(err, apperrors.ErrColumnNotFound):
		return NewErrorResult("column_not_found", err.Error())
	case errors.Is(err, apperrors.ErrNoJoinPath):
		return NewErrorResult("no_join_path", err.Error())
	case errors.Is(err, apperrors.ErrNoSuggestion):
		return NewErrorResult("no_suggestion", err.Error())
	}
	return nil
}
