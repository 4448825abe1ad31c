package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/adapters/datasource"
	"github.com/querylab/kgraph/pkg/apperrors"
	"github.com/querylab/kgraph/pkg/config"
	"github.com/querylab/kgraph/pkg/graph"
	"github.com/querylab/kgraph/pkg/jsonutil"
)

// Relationship is one foreign-key link touching a table, as reported by
// GetTableInfo. Outgoing links carry TargetTable, incoming ones
// SourceTable.
type Relationship struct {
	TargetTable  string `json:"target_table,omitempty"`
	SourceTable  string `json:"source_table,omitempty"`
	RelationType string `json:"relation_type"`
	FromColumn   string `json:"from_column"`
	ToColumn     string `json:"to_column"`
}

// TableInfo is the full planner view of one table.
type TableInfo struct {
	Table            string                            `json:"table"`
	Columns          []datasource.Column               `json:"columns"`
	PrimaryKeys      []string                          `json:"primary_keys"`
	Relationships    []Relationship                    `json:"relationships"`
	SampleRows       []map[string]any                  `json:"sample_rows"`
	ColumnStatistics map[string]datasource.ColumnStats `json:"column_statistics"`
}

// ColumnValues holds deduplicated sample values and statistics for one
// column.
type ColumnValues struct {
	Column       string                 `json:"column"`
	SampleValues []any                  `json:"sample_values"`
	Statistics   datasource.ColumnStats `json:"statistics"`
}

// GraphStats summarizes graph readiness for health reporting.
type GraphStats struct {
	Initialized bool   `json:"initialized"`
	Tables      int    `json:"tables"`
	Edges       int    `json:"edges"`
	Source      string `json:"source,omitempty"`
}

// KnowledgeGraphService builds the schema knowledge graph once and then
// answers planner queries over it.
type KnowledgeGraphService interface {
	// Initialize reloads a valid snapshot or builds the graph from the
	// database, then persists it. It must complete before any planner
	// query. Calling it again after success is a no-op.
	Initialize(ctx context.Context) error

	// IsInitialized reports readiness.
	IsInitialized() bool

	// GetTableInfo returns a table's columns, keys, relationships,
	// display-formatted sample rows, and column statistics.
	GetTableInfo(table string) (*TableInfo, error)

	// GetColumnValues returns up to ten distinct non-null sampled values
	// for a column plus its statistics.
	GetColumnValues(table, column string) (*ColumnValues, error)

	// FindJoinPath returns an ordered join chain between two tables.
	FindJoinPath(from, to string) ([]graph.JoinStep, error)

	// GetQuerySuggestion synthesizes a join plan over two or more tables.
	GetQuerySuggestion(tables []string) (*graph.QuerySuggestion, error)

	// SuggestSQLQuery renders a SELECT skeleton joining the requested
	// tables.
	SuggestSQLQuery(tables, columns []string) (string, error)

	// Stats reports readiness and graph size.
	Stats() GraphStats
}

type knowledgeGraphService struct {
	connector datasource.Connector
	cache     SnapshotCache
	cfg       *config.GraphConfig
	logger    *zap.Logger

	mu          sync.Mutex
	initialized atomic.Bool
	graph       *graph.Graph
	source      string
}

// NewKnowledgeGraph creates the service. Initialize must be called before
// planner queries.
func NewKnowledgeGraph(
	connector datasource.Connector,
	cache SnapshotCache,
	cfg *config.GraphConfig,
	logger *zap.Logger,
) KnowledgeGraphService {
	return &knowledgeGraphService{
		connector: connector,
		cache:     cache,
		cfg:       cfg,
		logger:    logger.Named("knowledge-graph"),
	}
}

var _ KnowledgeGraphService = (*knowledgeGraphService)(nil)

func (s *knowledgeGraphService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized.Load() {
		return nil
	}

	if timeout := s.cfg.BuildTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if snapshot, ok := s.cache.Load(s.cfg.DatabasePath); ok {
		s.graph = graph.FromSnapshot(snapshot)
		s.source = "snapshot"
		s.initialized.Store(true)
		s.logger.Info("Knowledge graph reloaded from snapshot",
			zap.String("path", s.cache.Path()),
			zap.Int("tables", s.graph.NodeCount()),
			zap.Int("edges", s.graph.EdgeCount()))
		return nil
	}

	start := time.Now()
	g, err := s.build(ctx)
	if err != nil {
		return fmt.Errorf("build knowledge graph: %w", err)
	}

	// A persist failure costs a rebuild next startup, nothing more.
	if err := s.cache.Store(g.Snapshot(s.cfg.DatabasePath)); err != nil {
		s.logger.Warn("Failed to persist graph snapshot", zap.Error(err))
	}

	s.graph = g
	s.source = "build"
	s.initialized.Store(true)
	s.logger.Info("Knowledge graph built",
		zap.Int("tables", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// build introspects and samples every table over one scoped connection.
func (s *knowledgeGraphService) build(ctx context.Context) (*graph.Graph, error) {
	conn, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect datasource: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Warn("Failed to close build connection", zap.Error(err))
		}
	}()

	tables, err := conn.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	g := graph.New()
	for _, table := range tables {
		schema, err := conn.DescribeTable(ctx, table)
		if err != nil {
			// One broken table degrades the graph, it does not abort
			// the build.
			s.logger.Warn("Skipping table, introspection failed",
				zap.String("table", table),
				zap.Error(err))
			continue
		}

		sample, err := conn.SampleTable(ctx, table, s.cfg.SampleRowLimit)
		if err != nil {
			s.logger.Warn("Sampling failed, table kept without sample data",
				zap.String("table", table),
				zap.Error(err))
			sample = &datasource.TableSample{
				Rows:  []map[string]any{},
				Stats: map[string]datasource.ColumnStats{},
			}
		}

		g.AddTableNode(table, &graph.TableNode{
			Columns:     schema.Columns,
			PrimaryKeys: schema.PrimaryKeys,
			SampleData:  sample,
		})

		for _, fk := range schema.ForeignKeys {
			g.AddReferenceEdge(table, fk.ReferencedTable, fk.Column, fk.ReferencedColumn)
		}
	}

	return g, nil
}

func (s *knowledgeGraphService) IsInitialized() bool {
	return s.initialized.Load()
}

func (s *knowledgeGraphService) Stats() GraphStats {
	if !s.initialized.Load() {
		return GraphStats{}
	}
	return GraphStats{
		Initialized: true,
		Tables:      s.graph.NodeCount(),
		Edges:       s.graph.EdgeCount(),
		Source:      s.source,
	}
}

// ready returns the graph or ErrNotInitialized.
func (s *knowledgeGraphService) ready() (*graph.Graph, error) {
	if !s.initialized.Load() {
		return nil, apperrors.ErrNotInitialized
	}
	return s.graph, nil
}

func (s *knowledgeGraphService) GetTableInfo(table string) (*TableInfo, error) {
	g, err := s.ready()
	if err != nil {
		return nil, err
	}

	node, ok := g.Node(table)
	if !ok {
		return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
	}

	info := &TableInfo{
		Table:         table,
		Columns:       node.Columns,
		PrimaryKeys:   node.PrimaryKeys,
		Relationships: []Relationship{},
	}

	for _, e := range g.OutEdges(table) {
		info.Relationships = append(info.Relationships, Relationship{
			TargetTable:  e.To,
			RelationType: e.Relation,
			FromColumn:   e.FromColumn,
			ToColumn:     e.ToColumn,
		})
	}
	for _, e := range g.InEdges(table) {
		info.Relationships = append(info.Relationships, Relationship{
			SourceTable:  e.From,
			RelationType: e.Relation,
			FromColumn:   e.FromColumn,
			ToColumn:     e.ToColumn,
		})
	}

	if node.SampleData != nil {
		info.SampleRows = displaySampleRows(node.SampleData.Rows)
		info.ColumnStatistics = node.SampleData.Stats
	}

	return info, nil
}

func (s *knowledgeGraphService) GetColumnValues(table, column string) (*ColumnValues, error) {
	g, err := s.ready()
	if err != nil {
		return nil, err
	}

	node, ok := g.Node(table)
	if !ok {
		return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
	}

	found := false
	for _, col := range node.Columns {
		if col.Name == column {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("column %q of table %q: %w", column, table, apperrors.ErrColumnNotFound)
	}

	result := &ColumnValues{
		Column:       column,
		SampleValues: []any{},
	}
	if node.SampleData == nil {
		return result, nil
	}

	result.Statistics = node.SampleData.Stats[column]

	const maxSampleValues = 10
	seen := make(map[string]bool)
	for _, row := range node.SampleData.Rows {
		value, present := row[column]
		if !present || value == nil {
			continue
		}
		key := jsonutil.DisplayString(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		result.SampleValues = append(result.SampleValues, value)
		if len(result.SampleValues) >= maxSampleValues {
			break
		}
	}

	return result, nil
}

func (s *knowledgeGraphService) FindJoinPath(from, to string) ([]graph.JoinStep, error) {
	g, err := s.ready()
	if err != nil {
		return nil, err
	}

	for _, table := range []string{from, to} {
		if !g.HasTable(table) {
			return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
		}
	}

	path := g.FindJoinPath(from, to, s.cfg.MaxJoinDepth)
	if path == nil {
		return nil, fmt.Errorf("%s to %s: %w", from, to, apperrors.ErrNoJoinPath)
	}
	return path, nil
}

func (s *knowledgeGraphService) GetQuerySuggestion(tables []string) (*graph.QuerySuggestion, error) {
	g, err := s.ready()
	if err != nil {
		return nil, err
	}

	for _, table := range tables {
		if !g.HasTable(table) {
			return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
		}
	}

	suggestion := g.SuggestJoins(tables, s.cfg.MaxJoinDepth)
	if suggestion == nil {
		return nil, apperrors.ErrNoSuggestion
	}
	return suggestion, nil
}

func (s *knowledgeGraphService) SuggestSQLQuery(tables, columns []string) (string, error) {
	g, err := s.ready()
	if err != nil {
		return "", err
	}

	for _, table := range tables {
		if !g.HasTable(table) {
			return "", fmt.Errorf("table %q: %w", table, apperrors.ErrTableNotFound)
		}
	}

	query := g.SuggestSQL(tables, columns, s.cfg.MaxJoinDepth)
	if query == "" {
		return "", apperrors.ErrNoSuggestion
	}
	return query, nil
}

// displaySampleRows reshapes sampled rows for human-readable output. SQL
// NULL renders as the string "NULL" and composite values as JSON text;
// scalars pass through unchanged.
func displaySampleRows(rows []map[string]any) []map[string]any {
	formatted := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		display := make(map[string]any, len(row))
		for col, value := range row {
			switch value.(type) {
			case nil, []any, map[string]any:
				display[col] = jsonutil.DisplayString(value)
			default:
				display[col] = value
			}
		}
		formatted = append(formatted, display)
	}
	return formatted
}
