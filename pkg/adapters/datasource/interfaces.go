package datasource

import "context"

// SchemaReader extracts relational schema information.
// Used for the introspection phase of a knowledge-graph build.
type SchemaReader interface {
	// ListTables returns the names of all user tables in the database.
	ListTables(ctx context.Context) ([]string, error)

	// DescribeTable returns column definitions, the primary-key column set,
	// and the foreign-key list for one table.
	DescribeTable(ctx context.Context, table string) (*TableSchema, error)
}

// RowSampler fetches bounded row samples and per-column statistics.
// Implementations must not mutate data; sampling is read-only.
type RowSampler interface {
	// SampleTable returns up to limit rows plus column statistics for a
	// table. A table-level failure yields an empty sample, not an error;
	// per-column statistics failures omit that column's stats entry.
	SampleTable(ctx context.Context, table string, limit int) (*TableSample, error)
}

// Connection is a live datasource connection used during a build.
// The build routine owns it exclusively and must close it when done.
type Connection interface {
	SchemaReader
	RowSampler

	// Close releases the database connection.
	Close() error
}

// Connector opens connections to a datasource. Acquisition is scoped to one
// build pass; the returned Connection must be released by the caller.
type Connector interface {
	Connect(ctx context.Context) (Connection, error)
}

// TableSchema describes one table's structure.
type TableSchema struct {
	Columns     []Column     `json:"columns"`
	PrimaryKeys []string     `json:"primary_keys"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

// Column represents a database column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ForeignKey represents a foreign key relationship.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// TableSample holds a bounded row sample plus per-column statistics.
// Row values are normalized to the canonical serialization-safe domain
// (see pkg/jsonutil); SQL NULL is represented as a Go nil, never as a
// sentinel string.
type TableSample struct {
	Rows  []map[string]any       `json:"rows"`
	Stats map[string]ColumnStats `json:"stats"`
}

// ColumnStats contains sampled statistics for a column.
type ColumnStats struct {
	DistinctCount int64 `json:"distinct_count"`
	MinValue      any   `json:"min_value"`
	MaxValue      any   `json:"max_value"`
	// CommonValues is populated only when DistinctCount is below the
	// configured low-cardinality threshold, ordered by descending count.
	CommonValues []ValueCount `json:"common_values"`
}

// ValueCount is one entry of a most-common-values distribution.
type ValueCount struct {
	Value any   `json:"value"`
	Count int64 `json:"count"`
}
