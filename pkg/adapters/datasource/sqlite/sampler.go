package sqlite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/querylab/kgraph/pkg/adapters/datasource"
	"github.com/querylab/kgraph/pkg/jsonutil"
)

const (
	// defaultCommonValueThreshold is the distinct-count ceiling below which a
	// column is treated as low-cardinality and gets a value distribution.
	defaultCommonValueThreshold = 20

	// commonValueLimit caps the most-common-values distribution per column.
	commonValueLimit = 5
)

// SetCommonValueThreshold overrides the low-cardinality threshold.
// Values <= 0 restore the default.
func (a *Adapter) SetCommonValueThreshold(threshold int64) {
	a.commonValueThreshold = threshold
}

func (a *Adapter) threshold() int64 {
	if a.commonValueThreshold > 0 {
		return a.commonValueThreshold
	}
	return defaultCommonValueThreshold
}

// SampleTable returns up to limit rows plus per-column statistics.
//
// A failure of the bounded select yields an empty sample rather than an
// error so a single unreadable table degrades, not aborts, a graph build.
// A per-column statistics failure omits that column's stats entry and
// sampling continues with the remaining columns.
func (a *Adapter) SampleTable(ctx context.Context, table string, limit int) (*datasource.TableSample, error) {
	sample := &datasource.TableSample{
		Rows:  []map[string]any{},
		Stats: map[string]datasource.ColumnStats{},
	}

	rows, columns, err := a.sampleRows(ctx, table, limit)
	if err != nil {
		a.logger.Warn("Table sampling failed, continuing with empty sample",
			zap.String("table", table),
			zap.Error(err))
		return sample, nil
	}
	sample.Rows = rows

	for _, column := range columns {
		stats, err := a.columnStats(ctx, table, column)
		if err != nil {
			a.logger.Warn("Column statistics failed, omitting entry",
				zap.String("table", table),
				zap.String("column", column),
				zap.Error(err))
			continue
		}
		sample.Stats[column] = *stats
	}

	return sample, nil
}

// sampleRows executes the unordered bounded select and converts the result
// set into normalized row mappings. SQL NULL becomes a Go nil.
func (a *Adapter) sampleRows(ctx context.Context, table string, limit int) ([]map[string]any, []string, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdentifier(table), limit)

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("sample columns of %s: %w", table, err)
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, fmt.Errorf("scan sample row of %s: %w", table, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = jsonutil.Normalize(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate sample rows of %s: %w", table, err)
	}
	if result == nil {
		result = []map[string]any{}
	}

	return result, columns, nil
}

// columnStats computes distinct count, min/max, and (for low-cardinality
// columns) the most common values with their frequencies.
func (a *Adapter) columnStats(ctx context.Context, table, column string) (*datasource.ColumnStats, error) {
	tableRef := quoteIdentifier(table)
	colRef := quoteIdentifier(column)

	stats := &datasource.ColumnStats{}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s", colRef, tableRef)
	if err := a.db.QueryRowContext(ctx, countQuery).Scan(&stats.DistinctCount); err != nil {
		return nil, fmt.Errorf("distinct count: %w", err)
	}

	minmaxQuery := fmt.Sprintf("SELECT MIN(%s), MAX(%s) FROM %s", colRef, colRef, tableRef)
	var minVal, maxVal any
	if err := a.db.QueryRowContext(ctx, minmaxQuery).Scan(&minVal, &maxVal); err != nil {
		return nil, fmt.Errorf("min/max: %w", err)
	}
	stats.MinValue = jsonutil.Normalize(minVal)
	stats.MaxValue = jsonutil.Normalize(maxVal)

	if stats.DistinctCount < a.threshold() {
		common, err := a.commonValues(ctx, tableRef, colRef)
		if err != nil {
			return nil, fmt.Errorf("common values: %w", err)
		}
		stats.CommonValues = common
	}

	return stats, nil
}

// commonValues returns the top value/frequency pairs for a column, ordered by
// descending frequency. NULLs are excluded from the distribution.
func (a *Adapter) commonValues(ctx context.Context, tableRef, colRef string) ([]datasource.ValueCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) as count
		FROM %s
		WHERE %s IS NOT NULL
		GROUP BY %s
		ORDER BY count DESC
		LIMIT %d
	`, colRef, tableRef, colRef, colRef, commonValueLimit)

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []datasource.ValueCount
	for rows.Next() {
		var value any
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		result = append(result, datasource.ValueCount{
			Value: jsonutil.Normalize(value),
			Count: count,
		})
	}

	return result, rows.Err()
}
