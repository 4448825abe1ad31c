package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterJoinTools registers the join-path and SQL-suggestion tools.
func RegisterJoinTools(s *server.MCPServer, deps *KnowledgeToolDeps) {
	registerFindJoinPathTool(s, deps)
	registerGetQuerySuggestionTool(s, deps)
	registerSuggestSQLQueryTool(s, deps)
}

// registerFindJoinPathTool adds the find_join_path tool.
func registerFindJoinPathTool(s *server.MCPServer, deps *KnowledgeToolDeps) {
	tool := mcp.NewTool(
		"find_join_path",
		mcp.WithDescription(
			"Find a foreign-key join path between two tables. Returns an "+
				"ordered list of join steps, each naming the two tables and the "+
				"column pair linking them. Steps follow the stored edge "+
				"direction, so the first step may start at either table. "+
				"Example: find_join_path(from_table='wan', to_table='airports')",
		),
		mcp.WithString(
			"from_table",
			mcp.Required(),
			mcp.Description("Table the query starts from"),
		),
		mcp.WithString(
			"to_table",
			mcp.Required(),
			mcp.Description("Table to reach"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from, err := req.RequireString("from_table")
		if err != nil {
			return nil, err
		}
		to, err := req.RequireString("to_table")
		if err != nil {
			return nil, err
		}
		from, to = trimString(from), trimString(to)
		if from == "" || to == "" {
			return NewErrorResult("invalid_parameters", "parameters 'from_table' and 'to_table' cannot be empty"), nil
		}

		path, err := deps.Graph.FindJoinPath(from, to)
		if err != nil {
			if result := graphErrorResult(err); result != nil {
				return result, nil
			}
			return nil, err
		}

		return newJSONResult(map[string]any{
			"from_table": from,
			"to_table":   to,
			"path":       path,
		})
	})
}

// registerGetQuerySuggestionTool adds the get_query_suggestion tool.
func registerGetQuerySuggestionTool(s *server.MCPServer, deps *KnowledgeToolDeps) {
	tool := mcp.NewTool(
		"get_query_suggestion",
		mcp.WithDescription(
			"Synthesize a join plan over two or more tables: the order to "+
				"introduce them, the join steps (possibly routing through "+
				"intermediate tables), and each requested table's columns. "+
				"Example: get_query_suggestion(tables=['orders', 'users', 'products'])",
		),
		mcp.WithArray(
			"tables",
			mcp.Required(),
			mcp.Description("Two or more table names to join"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tables := getStringSlice(req, "tables")
		if len(tables) < 2 {
			return NewErrorResultWithDetails(
				"invalid_parameters",
				"parameter 'tables' must list at least two table names",
				map[string]any{"received": tables},
			), nil
		}

		suggestion, err := deps.Graph.GetQuerySuggestion(tables)
		if err != nil {
			if result := graphErrorResult(err); result != nil {
				return result, nil
			}
			return nil, err
		}

		return newJSONResult(suggestion)
	})
}

// registerSuggestSQLQueryTool adds the suggest_sql_query tool.
func registerSuggestSQLQueryTool(s *server.MCPServer, deps *KnowledgeToolDeps) {
	tool := mcp.NewTool(
		"suggest_sql_query",
		mcp.WithDescription(
			"Generate a runnable SELECT skeleton joining the requested tables "+
				"along their foreign keys. Without 'columns' the select list "+
				"covers every column of every requested table; intermediate "+
				"routing tables appear only in the JOIN chain. "+
				"Example: suggest_sql_query(tables=['wan', 'airports'], columns=['airports.NAME'])",
		),
		mcp.WithArray(
			"tables",
			mcp.Required(),
			mcp.Description("Tables the query must cover"),
		),
		mcp.WithArray(
			"columns",
			mcp.Description("Optional table-qualified columns for the SELECT list"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tables := getStringSlice(req, "tables")
		if len(tables) == 0 {
			return NewErrorResult("invalid_parameters", "parameter 'tables' must list at least one table name"), nil
		}
		columns := getStringSlice(req, "columns")

		query, err := deps.Graph.SuggestSQLQuery(tables, columns)
		if err != nil {
			if result := graphErrorResult(err); result != nil {
				return result, nil
			}
			return nil, fmt.Errorf("suggest query: %w", err)
		}

		return newJSONResult(map[string]any{
			"tables": tables,
			"query":  query,
		})
	})
}
