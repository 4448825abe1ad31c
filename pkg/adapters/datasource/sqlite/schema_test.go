package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/adapters/datasource"
)

// setupAdapterTest opens an in-memory database, applies the given DDL and
// seed statements, and returns a connected adapter.
func setupAdapterTest(t *testing.T, statements ...string) *Adapter {
	t.Helper()

	connector := &Connector{Path: ":memory:", Logger: zap.NewNop()}

	conn, err := connector.Connect(context.Background())
	require.NoError(t, err, "connect in-memory database")

	adapter := conn.(*Adapter)
	t.Cleanup(func() {
		_ = adapter.Close()
	})

	for _, stmt := range statements {
		_, err := adapter.db.Exec(stmt)
		require.NoError(t, err, "exec setup statement: %s", stmt)
	}

	return adapter
}

func TestListTables(t *testing.T) {
	adapter := setupAdapterTest(t,
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER)`,
		`CREATE TABLE audit_log (id INTEGER PRIMARY KEY)`,
	)

	tables, err := adapter.ListTables(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"audit_log", "orders", "users"}, tables)
}

func TestListTables_EmptyDatabase(t *testing.T) {
	adapter := setupAdapterTest(t)

	tables, err := adapter.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestListTables_ExcludesInternalTables(t *testing.T) {
	// AUTOINCREMENT forces creation of sqlite_sequence.
	adapter := setupAdapterTest(t,
		`CREATE TABLE events (id INTEGER PRIMARY KEY AUTOINCREMENT, kind TEXT)`,
		`INSERT INTO events (kind) VALUES ('login')`,
	)

	tables, err := adapter.ListTables(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"events"}, tables)
}

func TestDescribeTable(t *testing.T) {
	adapter := setupAdapterTest(t,
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL,
			created_at TIMESTAMP
		)`,
	)

	schema, err := adapter.DescribeTable(context.Background(), "users")
	require.NoError(t, err)

	assert.Equal(t, []datasource.Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "email", Type: "TEXT"},
		{Name: "created_at", Type: "TIMESTAMP"},
	}, schema.Columns)
	assert.Equal(t, []string{"id"}, schema.PrimaryKeys)
	assert.Empty(t, schema.ForeignKeys)
}

func TestDescribeTable_CompositePrimaryKey(t *testing.T) {
	adapter := setupAdapterTest(t,
		`CREATE TABLE memberships (
			user_id INTEGER,
			group_id INTEGER,
			role TEXT,
			PRIMARY KEY (user_id, group_id)
		)`,
	)

	schema, err := adapter.DescribeTable(context.Background(), "memberships")
	require.NoError(t, err)

	assert.Equal(t, []string{"user_id", "group_id"}, schema.PrimaryKeys)
}

func TestDescribeTable_ForeignKeys(t *testing.T) {
	adapter := setupAdapterTest(t,
		`CREATE TABLE users (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE teams (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			team_id INTEGER REFERENCES teams(id)
		)`,
	)

	schema, err := adapter.DescribeTable(context.Background(), "orders")
	require.NoError(t, err)

	assert.ElementsMatch(t, []datasource.ForeignKey{
		{Column: "user_id", ReferencedTable: "users", ReferencedColumn: "id"},
		{Column: "team_id", ReferencedTable: "teams", ReferencedColumn: "id"},
	}, schema.ForeignKeys)
}

func TestDescribeTable_NotFound(t *testing.T) {
	adapter := setupAdapterTest(t,
		`CREATE TABLE users (id INTEGER PRIMARY KEY)`,
	)

	_, err := adapter.DescribeTable(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDescribeTable_QuotedIdentifier(t *testing.T) {
	adapter := setupAdapterTest(t,
		`CREATE TABLE "order items" (id INTEGER PRIMARY KEY, sku TEXT)`,
	)

	schema, err := adapter.DescribeTable(context.Background(), "order items")
	require.NoError(t, err)
	assert.Len(t, schema.Columns, 2)
}
