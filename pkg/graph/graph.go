// Package graph holds the in-memory schema knowledge graph: table nodes
// carrying column metadata and sampled data, connected by directed
// foreign-key edges. Query algorithms over the graph are pure and never
// touch the datasource.
package graph

import (
	"sort"

	"github.com/querylab/kgraph/pkg/adapters/datasource"
)

// RelationReferences is the only relation kind edges currently carry.
const RelationReferences = "references"

// TableNode is one table in the graph, with everything the planner needs
// to describe it without a live database connection.
type TableNode struct {
	Type        string                  `json:"type"`
	Columns     []datasource.Column     `json:"columns"`
	PrimaryKeys []string                `json:"primary_keys"`
	SampleData  *datasource.TableSample `json:"sample_data"`
}

// HasSampleData reports whether the node carries at least one sampled row.
func (n *TableNode) HasSampleData() bool {
	return n != nil && n.SampleData != nil && len(n.SampleData.Rows) > 0
}

// ColumnNames returns the node's column names in declaration order.
func (n *TableNode) ColumnNames() []string {
	names := make([]string, 0, len(n.Columns))
	for _, col := range n.Columns {
		names = append(names, col.Name)
	}
	return names
}

// Edge is a directed foreign-key reference between two tables. At most one
// edge exists per ordered (From, To) pair.
type Edge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Relation   string `json:"relation"`
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
}

// Graph is the schema knowledge graph. It is not safe for concurrent
// mutation; once built it is read-only and safe for concurrent queries.
type Graph struct {
	nodes map[string]*TableNode
	// out maps from-table -> to-table -> edge; in is the reverse index.
	out map[string]map[string]*Edge
	in  map[string]map[string]*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*TableNode),
		out:   make(map[string]map[string]*Edge),
		in:    make(map[string]map[string]*Edge),
	}
}

// AddTableNode inserts or replaces a table node.
func (g *Graph) AddTableNode(name string, node *TableNode) {
	if node.Type == "" {
		node.Type = "table"
	}
	g.nodes[name] = node
}

// AddReferenceEdge inserts a directed foreign-key edge. A second edge for
// the same ordered table pair replaces the first.
func (g *Graph) AddReferenceEdge(from, to, fromColumn, toColumn string) {
	edge := &Edge{
		From:       from,
		To:         to,
		Relation:   RelationReferences,
		FromColumn: fromColumn,
		ToColumn:   toColumn,
	}

	if g.out[from] == nil {
		g.out[from] = make(map[string]*Edge)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[string]*Edge)
	}
	g.out[from][to] = edge
	g.in[to][from] = edge
}

// HasTable reports whether a table node exists.
func (g *Graph) HasTable(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns a table node by name.
func (g *Graph) Node(name string) (*TableNode, bool) {
	node, ok := g.nodes[name]
	return node, ok
}

// Tables returns all table names in sorted order.
func (g *Graph) Tables() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeCount returns the number of table nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.out {
		count += len(targets)
	}
	return count
}

// edge returns the directed edge from -> to, if present.
func (g *Graph) edge(from, to string) (*Edge, bool) {
	e, ok := g.out[from][to]
	return e, ok
}

// OutEdges returns edges leaving a table, sorted by target name.
func (g *Graph) OutEdges(table string) []*Edge {
	return sortedEdges(g.out[table])
}

// InEdges returns edges arriving at a table, sorted by source name.
func (g *Graph) InEdges(table string) []*Edge {
	return sortedEdges(g.in[table])
}

// Edges returns every edge, sorted by (from, to) for stable output.
func (g *Graph) Edges() []*Edge {
	var edges []*Edge
	for _, targets := range g.out {
		for _, e := range targets {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// successors returns forward-neighbor names in sorted order. Sorted
// iteration keeps path search deterministic when lengths tie.
func (g *Graph) successors(table string) []string {
	return sortedKeys(g.out[table])
}

func sortedEdges(m map[string]*Edge) []*Edge {
	edges := make([]*Edge, 0, len(m))
	for _, key := range sortedKeys(m) {
		edges = append(edges, m[key])
	}
	return edges
}

func sortedKeys(m map[string]*Edge) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
