package graph

import (
	"fmt"
	"strings"
)

// QuerySuggestion describes how to join a set of tables: the order to
// introduce them, the join steps, and each requested table's columns.
type QuerySuggestion struct {
	JoinOrder    []string            `json:"join_order"`
	Joins        []JoinStep          `json:"joins"`
	TableColumns map[string][]string `json:"table_columns"`
}

// SuggestJoins synthesizes a join plan over the requested tables, or nil
// when fewer than two tables are given, a table is unknown, or no
// connecting paths exist.
//
// Tables are added greedily: each round prefers the remaining table with
// the shortest path from the most recently added one, falling back to a
// path from any already joined table. Paths may traverse intermediate
// tables that were not requested.
func (g *Graph) SuggestJoins(tables []string, maxDepth int) *QuerySuggestion {
	if len(tables) < 2 {
		return nil
	}
	for _, table := range tables {
		if !g.HasTable(table) {
			return nil
		}
	}

	if len(tables) == 2 {
		return g.suggestPair(tables, maxDepth)
	}

	joinOrder := []string{tables[0]}
	remaining := append([]string(nil), tables[1:]...)
	var joins []JoinStep

	for len(remaining) > 0 {
		current := joinOrder[len(joinOrder)-1]

		bestIdx := -1
		var bestPath []JoinStep
		for i, candidate := range remaining {
			path := g.FindJoinPath(current, candidate, maxDepth)
			if path == nil {
				continue
			}
			if bestIdx < 0 || len(path) < len(bestPath) {
				bestIdx = i
				bestPath = path
			}
		}

		if bestIdx < 0 {
			bestIdx, bestPath = g.pathFromAnyJoined(joinOrder, remaining, maxDepth)
		}
		if bestIdx < 0 {
			return nil
		}

		joinOrder = append(joinOrder, remaining[bestIdx])
		joins = append(joins, bestPath...)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return &QuerySuggestion{
		JoinOrder:    joinOrder,
		Joins:        joins,
		TableColumns: g.tableColumns(tables),
	}
}

// suggestPair handles the two-table case with a single path lookup. The
// join order follows the path's orientation, not the request order.
func (g *Graph) suggestPair(tables []string, maxDepth int) *QuerySuggestion {
	path := g.FindJoinPath(tables[0], tables[1], maxDepth)
	if path == nil {
		return nil
	}

	joinOrder := []string{tables[0], tables[1]}
	if path[0].FromTable != tables[0] {
		joinOrder = []string{tables[1], tables[0]}
	}

	return &QuerySuggestion{
		JoinOrder:    joinOrder,
		Joins:        path,
		TableColumns: g.tableColumns(tables),
	}
}

// pathFromAnyJoined scans every (joined, remaining) pair and returns the
// first connected candidate's index in remaining plus its path.
func (g *Graph) pathFromAnyJoined(joined, remaining []string, maxDepth int) (int, []JoinStep) {
	for _, source := range joined {
		for i, candidate := range remaining {
			if path := g.FindJoinPath(source, candidate, maxDepth); path != nil {
				return i, path
			}
		}
	}
	return -1, nil
}

func (g *Graph) tableColumns(tables []string) map[string][]string {
	columns := make(map[string][]string, len(tables))
	for _, table := range tables {
		if node, ok := g.Node(table); ok {
			columns[table] = node.ColumnNames()
		}
	}
	return columns
}

// SuggestSQL renders a runnable SELECT skeleton for the requested tables.
// When columns is empty the select list covers every column of every
// requested table, prefixed with its table name. Intermediate tables on
// the route appear in the JOIN chain so the query stays valid, but they
// never leak into the SELECT list. Returns "" when no suggestion exists.
func (g *Graph) SuggestSQL(tables, columns []string, maxDepth int) string {
	if len(tables) == 0 {
		return ""
	}

	suggestion := g.SuggestJoins(tables, maxDepth)
	if suggestion == nil {
		return ""
	}

	selectColumns := columns
	if len(selectColumns) == 0 {
		for _, table := range tables {
			for _, col := range suggestion.TableColumns[table] {
				selectColumns = append(selectColumns, fmt.Sprintf("%s.%s", table, col))
			}
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selectColumns, ", "))
	b.WriteString("\nFROM ")
	b.WriteString(suggestion.JoinOrder[0])

	// Each hop introduces whichever side of the step is not yet in the
	// query. Steps connecting two already-introduced tables are dropped
	// rather than joined twice. Native-orientation steps can have the
	// new table on the From side.
	introduced := map[string]bool{suggestion.JoinOrder[0]: true}
	for _, join := range suggestion.Joins {
		var newTable string
		switch {
		case !introduced[join.ToTable]:
			newTable = join.ToTable
		case !introduced[join.FromTable]:
			newTable = join.FromTable
		default:
			continue
		}
		introduced[newTable] = true
		fmt.Fprintf(&b, "\nJOIN %s ON %s.%s = %s.%s",
			newTable,
			join.FromTable, join.FromColumn,
			join.ToTable, join.ToColumn)
	}

	return b.String()
}
