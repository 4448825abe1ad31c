// Package tools provides the agent-facing MCP tools over the schema
// knowledge graph.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/services"
)

// KnowledgeToolDeps contains dependencies for the knowledge-graph tools.
type KnowledgeToolDeps struct {
	Graph  services.KnowledgeGraphService
	Logger *zap.Logger
}

// RegisterKnowledgeTools registers the table and column inspection tools.
func RegisterKnowledgeTools(s *server.MCPServer, deps *KnowledgeToolDeps) {
	registerGetTableInfoTool(s, deps)
	registerGetColumnValuesTool(s, deps)
}

// registerGetTableInfoTool adds the get_table_info tool.
func registerGetTableInfoTool(s *server.MCPServer, deps *KnowledgeToolDeps) {
	tool := mcp.NewTool(
		"get_table_info",
		mcp.WithDescription(
			"Get detailed information about a table: columns, primary keys, "+
				"foreign-key relationships in both directions, sample rows, and "+
				"per-column statistics. Use this before writing SQL against an "+
				"unfamiliar table. Example: get_table_info(table='airports')",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Table name to inspect (e.g., 'airports')"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := req.RequireString("table")
		if err != nil {
			return nil, err
		}
		table = trimString(table)
		if table == "" {
			return NewErrorResult("invalid_parameters", "parameter 'table' cannot be empty"), nil
		}

		info, err := deps.Graph.GetTableInfo(table)
		if err != nil {
			if result := graphErrorResult(err); result != nil {
				return result, nil
			}
			return nil, err
		}

		return newJSONResult(info)
	})
}

// registerGetColumnValuesTool adds the get_column_values tool.
func registerGetColumnValuesTool(s *server.MCPServer, deps *KnowledgeToolDeps) {
	tool := mcp.NewTool(
		"get_column_values",
		mcp.WithDescription(
			"Get up to ten distinct sampled values for a column plus its "+
				"statistics (distinct count, min/max, most common values). "+
				"Useful for learning value formats before writing WHERE clauses. "+
				"Example: get_column_values(table='airports', column='NAME')",
		),
		mcp.WithString(
			"table",
			mcp.Required(),
			mcp.Description("Table the column belongs to"),
		),
		mcp.WithString(
			"column",
			mcp.Required(),
			mcp.Description("Column to fetch sample values for"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := req.RequireString("table")
		if err != nil {
			return nil, err
		}
		column, err := req.RequireString("column")
		if err != nil {
			return nil, err
		}
		table, column = trimString(table), trimString(column)
		if table == "" || column == "" {
			return NewErrorResult("invalid_parameters", "parameters 'table' and 'column' cannot be empty"), nil
		}

		values, err := deps.Graph.GetColumnValues(table, column)
		if err != nil {
			if result := graphErrorResult(err); result != nil {
				return result, nil
			}
			return nil, err
		}

		return newJSONResult(values)
	})
}
