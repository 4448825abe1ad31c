package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// trimString removes leading and trailing whitespace from a string.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// getStringSlice extracts an optional string-array argument. Missing or
// malformed values yield nil; non-string elements are skipped.
func getStringSlice(req mcp.CallToolRequest, key string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			if s = trimString(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// newJSONResult marshals v and wraps it as a text tool result.
func newJSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
