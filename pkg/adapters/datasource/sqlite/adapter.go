// Package sqlite implements the datasource interfaces for SQLite databases.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/adapters/datasource"
)

// Connector opens read-only connections to a SQLite database file.
type Connector struct {
	// Path is the database file path. ":memory:" is accepted for tests.
	Path   string
	Logger *zap.Logger

	// CommonValueThreshold overrides the distinct-count ceiling for value
	// distributions. Zero keeps the default.
	CommonValueThreshold int64
}

// Connect opens the database and verifies it is reachable.
// The returned Adapter owns the connection and must be closed by the caller.
func (c *Connector) Connect(ctx context.Context) (datasource.Connection, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", c.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", c.Path, err)
	}

	// Every pooled connection to :memory: would open a distinct database,
	// so pin the pool to a single connection.
	if c.Path == ":memory:" || strings.HasPrefix(c.Path, "file::memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", c.Path, err)
	}

	return &Adapter{db: db, logger: logger, commonValueThreshold: c.CommonValueThreshold}, nil
}

// Adapter provides schema introspection and row sampling over one SQLite
// connection. It implements datasource.Connection.
type Adapter struct {
	db     *sql.DB
	logger *zap.Logger

	commonValueThreshold int64
}

// Close releases the database connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// quoteIdentifier safely quotes a SQL identifier (table or column name)
// using SQLite double-quote rules.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Ensure Adapter satisfies the datasource contracts at compile time.
var (
	_ datasource.Connection = (*Adapter)(nil)
	_ datasource.Connector  = (*Connector)(nil)
)
