package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/querylab/kgraph/pkg/adapters/datasource"
)

// ListTables returns all user tables, excluding SQLite's internal tables.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	const query = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DescribeTable returns column definitions, primary keys, and foreign keys
// for one table using PRAGMA introspection.
func (a *Adapter) DescribeTable(ctx context.Context, table string) (*datasource.TableSchema, error) {
	columns, primaryKeys, err := a.tableColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("describe columns of %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q does not exist", table)
	}

	foreignKeys, err := a.foreignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("describe foreign keys of %s: %w", table, err)
	}

	return &datasource.TableSchema{
		Columns:     columns,
		PrimaryKeys: primaryKeys,
		ForeignKeys: foreignKeys,
	}, nil
}

// tableColumns reads PRAGMA table_info. The pk column of the pragma output is
// the 1-based position of the column within the primary key, zero otherwise.
func (a *Adapter) tableColumns(ctx context.Context, table string) ([]datasource.Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(table))

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []datasource.Column
	var primaryKeys []string

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pkOrder int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pkOrder); err != nil {
			return nil, nil, err
		}

		columns = append(columns, datasource.Column{Name: name, Type: colType})
		if pkOrder > 0 {
			primaryKeys = append(primaryKeys, name)
		}
	}

	return columns, primaryKeys, rows.Err()
}

// foreignKeys reads PRAGMA foreign_key_list.
func (a *Adapter) foreignKeys(ctx context.Context, table string) ([]datasource.ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(table))

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []datasource.ForeignKey
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		// The "to" column is NULL when the FK references the target's
		// implicit primary key.
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		referencedColumn := toCol.String
		if !toCol.Valid {
			referencedColumn = fromCol
		}

		fks = append(fks, datasource.ForeignKey{
			Column:           fromCol,
			ReferencedTable:  targetTable,
			ReferencedColumn: referencedColumn,
		})
	}

	return fks, rows.Err()
}
