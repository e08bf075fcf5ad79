package op

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/query"
)

// Session is a selected table: its schema and the data rows read at
// selection time. Reads use that snapshot; writes go to the live grid and
// are not reflected in the snapshot until the table is selected again.
type Session struct {
	table core.Table
	grid  core.GridHandle
	rows  []core.Row
	store GridStore
	opts  Options
	log   *slog.Logger
}

func (s *Session) Table() core.Table {
	return s.table
}

func (s *Session) Columns() []string {
	return append([]string(nil), s.table.Columns...)
}

// Len returns the number of cached rows.
func (s *Session) Len() int {
	return len(s.rows)
}

// Rows iterates over the cached raw rows.
func (s *Session) Rows() iter.Seq2[int, core.Row] {
	return func(yield func(int, core.Row) bool) {
		for i, row := range s.rows {
			if !yield(i, row.Clone()) {
				return
			}
		}
	}
}

func (s *Session) debug(msg string) {
	if s.opts.Debug {
		s.log.Debug(msg)
	}
}

func (s *Session) objects(rows []core.Row) []core.Object {
	objects := make([]core.Object, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, core.ToObject(row, s.table.Columns))
	}
	return objects
}

// FindAll returns every cached row in grid order.
func (s *Session) FindAll() ([]core.Object, error) {
	return Measure(s.opts.instrument(), "findAll", func() ([]core.Object, error) {
		return s.objects(s.rows), nil
	})
}

// FindOne returns the first cached row matching criteria, or nil.
func (s *Session) FindOne(criteria core.Criteria) (core.Object, error) {
	return Measure(s.opts.instrument(), "findOne", func() (core.Object, error) {
		matched, err := s.evaluate(criteria, 1)
		if err != nil || len(matched) == 0 {
			return nil, err
		}
		return core.ToObject(matched[0], s.table.Columns), nil
	})
}

// FindWhere returns every cached row matching criteria in grid order.
func (s *Session) FindWhere(criteria core.Criteria) ([]core.Object, error) {
	return Measure(s.opts.instrument(), "findWhere", func() ([]core.Object, error) {
		matched, err := s.evaluate(criteria, 0)
		if err != nil {
			return nil, err
		}
		return s.objects(matched), nil
	})
}

// evaluate translates criteria against the schema, failing on unknown
// columns before any row is looked at, and runs the query.
func (s *Session) evaluate(criteria core.Criteria, limit int) ([]core.Row, error) {
	where, err := query.Translate(criteria, s.table.Columns)
	if err != nil {
		return nil, err
	}

	q := query.Query{Where: where, Limit: limit}
	s.debug(q.String())

	matched, err := s.opts.Evaluator.Evaluate(q, s.rows)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", q, err)
	}
	return matched, nil
}

// Insert appends data as a new row with an id from the id policy and
// returns data with the assigned Id. The snapshot is not updated.
func (s *Session) Insert(data core.Object) (core.Object, error) {
	return Measure(s.opts.instrument(), "insert", func() (core.Object, error) {
		grid, err := s.store.ReadAll(s.grid)
		if err != nil {
			return nil, err
		}

		id := s.opts.IDs.NextID(grid)
		row := core.ToRow(data, s.table.Columns)
		row[0] = id

		if err := s.store.AppendRow(s.grid, row); err != nil {
			return nil, err
		}
		s.debug(fmt.Sprintf("Inserted row with Id: %d", id))

		inserted := make(core.Object, len(data)+1)
		for k, v := range data {
			inserted[k] = v
		}
		inserted[core.IdColumn] = id
		return inserted, nil
	})
}

// Update sets the columns named in data on every live row matching
// criteria and writes the grid back once. Id is never changed. Criteria on
// unknown columns match nothing.
func (s *Session) Update(criteria core.Criteria, data core.Object) (int, error) {
	return Measure(s.opts.instrument(), "update", func() (int, error) {
		grid, err := s.store.ReadAll(s.grid)
		if err != nil {
			return 0, err
		}
		if len(grid) == 0 {
			return 0, nil
		}

		where := query.Lenient(criteria, s.table.Columns)
		updated := 0
		for i := 1; i < len(grid); i++ {
			if !where.Match(grid[i]) {
				continue
			}
			grid[i] = s.apply(grid[i], data)
			updated++
		}

		if err := s.store.WriteAll(s.grid, grid); err != nil {
			return 0, err
		}
		s.debug(fmt.Sprintf("Updated %d rows", updated))
		return updated, nil
	})
}

func (s *Session) apply(row core.Row, data core.Object) core.Row {
	for i, col := range s.table.Columns {
		v, ok := data[col]
		if !ok || col == core.IdColumn {
			continue
		}
		for len(row) <= i {
			row = append(row, "")
		}
		row[i] = v
	}
	return row
}

// Delete removes every live row matching criteria, then clears the grid
// and writes back the header and the kept rows in order. Nothing is written
// when no row matches.
func (s *Session) Delete(criteria core.Criteria) (int, error) {
	return Measure(s.opts.instrument(), "delete", func() (int, error) {
		grid, err := s.store.ReadAll(s.grid)
		if err != nil {
			return 0, err
		}

		where := query.Lenient(criteria, s.table.Columns)
		kept := []core.Row{core.HeaderRow(s.table.Columns)}
		deleted := 0
		for i := 1; i < len(grid); i++ {
			if where.Match(grid[i]) {
				deleted++
				continue
			}
			kept = append(kept, grid[i])
		}

		if deleted == 0 {
			return 0, nil
		}
		if err := s.replace(kept, fmt.Sprintf("Deleting %d rows from %s", deleted, s.table.Name)); err != nil {
			return 0, err
		}
		s.debug(fmt.Sprintf("Deleted %d rows", deleted))
		return deleted, nil
	})
}

func (s *Session) replace(rows []core.Row, message string) error {
	if r, ok := s.store.(GridReplacer); ok {
		return r.Replace(s.grid, rows, message)
	}
	if err := s.store.Clear(s.grid); err != nil {
		return err
	}
	return s.store.WriteAll(s.grid, rows)
}

// Load replaces every data row of the grid with rows, keeping their ids,
// in a single write. Rows are padded or cut to the schema width.
func (s *Session) Load(rows []core.Row) (int, error) {
	return Measure(s.opts.instrument(), "load", func() (int, error) {
		grid := make([]core.Row, 0, len(rows)+1)
		grid = append(grid, core.HeaderRow(s.table.Columns))
		for _, row := range rows {
			fitted := make(core.Row, len(s.table.Columns))
			for i := range fitted {
				fitted[i] = ""
				if i < len(row) {
					fitted[i] = row[i]
				}
			}
			grid = append(grid, fitted)
		}

		if err := s.store.WriteAll(s.grid, grid); err != nil {
			return 0, err
		}
		s.debug(fmt.Sprintf("Loaded %d rows", len(rows)))
		return len(rows), nil
	})
}
