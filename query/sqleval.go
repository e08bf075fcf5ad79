package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/nickyhof/GridDB/core"
)

// SQLEvaluator evaluates queries by loading the row set into a temporary
// table of a SQL database and running the predicate there. Every cell is
// stored as its text form, so matching is text equality.
type SQLEvaluator struct {
	driver string
	db     *sql.DB
	seq    atomic.Int64
}

func openSQLEvaluator(driver, dsn string) (*SQLEvaluator, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return &SQLEvaluator{driver: driver, db: db}, nil
}

// Driver returns the database/sql driver name.
func (e *SQLEvaluator) Driver() string {
	return e.driver
}

// Close releases the underlying database.
func (e *SQLEvaluator) Close() error {
	return e.db.Close()
}

func (e *SQLEvaluator) Evaluate(q Query, rows []core.Row) ([]core.Row, error) {
	if len(rows) == 0 {
		return []core.Row{}, nil
	}

	ctx := context.Background()
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	width := q.Where.maxIndex() + 1
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	table := fmt.Sprintf("grid_%d", e.seq.Add(1))
	columns := make([]string, 0, width+1)
	columns = append(columns, `"ord" BIGINT`)
	for i := 0; i < width; i++ {
		columns = append(columns, columnName(i)+" VARCHAR")
	}

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE TEMP TABLE %s (%s)", table, strings.Join(columns, ", "))); err != nil {
		return nil, fmt.Errorf("failed to create row set: %w", err)
	}
	defer conn.ExecContext(ctx, "DROP TABLE "+table)

	if err := loadRows(ctx, conn, table, width, rows); err != nil {
		return nil, err
	}

	where, args := q.Where.SQL()
	stmt := fmt.Sprintf(`SELECT "ord" FROM %s WHERE %s ORDER BY "ord"`, table, where)
	if q.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	result, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", q, err)
	}
	defer result.Close()

	matched := []core.Row{}
	for result.Next() {
		var ord int64
		if err := result.Scan(&ord); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		matched = append(matched, rows[ord])
	}
	return matched, result.Err()
}

func loadRows(ctx context.Context, conn *sql.Conn, table string, width int, rows []core.Row) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin load: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", width+1), ", ")
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare load: %w", err)
	}
	defer insert.Close()

	values := make([]any, width+1)
	for ord, row := range rows {
		values[0] = int64(ord)
		for i := 0; i < width; i++ {
			var cell any
			if i < len(row) {
				cell = row[i]
			}
			values[i+1] = core.FormatCell(cell)
		}
		if _, err := insert.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to load row %d: %w", ord, err)
		}
	}

	return tx.Commit()
}
