package db

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/nickyhof/GridDB/core"
)

// Export writes the table as CSV, header first, to a local path, file://
// or s3:// location.
func (engine *Engine) Export(ctx context.Context, table, location string) (QueryResult, error) {
	startTime := time.Now()
	if location == "" {
		return QueryResult{}, fmt.Errorf("export: url is required")
	}

	session, err := engine.Registry.SelectTable(table)
	if err != nil {
		return QueryResult{}, err
	}

	target, err := parseLocation(location)
	if err != nil {
		return QueryResult{}, err
	}
	w, err := target.create(ctx, engine.S3)
	if err != nil {
		return QueryResult{}, err
	}

	n, err := writeCSV(w, session.Columns(), session.Rows())
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return QueryResult{}, fmt.Errorf("export of %s to %s: %w", table, location, err)
	}

	return QueryResult{
		Transaction:      engine.LatestTransaction(),
		Table:            table,
		Columns:          session.Columns(),
		Rows:             []core.Object{},
		RecordsRead:      n,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func writeCSV(w io.Writer, columns []string, rows iter.Seq2[int, core.Row]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return 0, err
	}

	n := 0
	for _, row := range rows {
		record := make([]string, len(columns))
		for i := range record {
			if i < len(row) {
				record[i] = core.FormatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return n, err
		}
		n++
	}

	cw.Flush()
	return n, cw.Error()
}

// Import creates table from a CSV whose header row starts with Id. Cells
// that parse as integers, floats or booleans are stored as such; ids are
// kept as they are in the file.
func (engine *Engine) Import(ctx context.Context, table, location string) (CommitResult, error) {
	startTime := time.Now()
	if location == "" {
		return CommitResult{}, fmt.Errorf("import: url is required")
	}

	source, err := parseLocation(location)
	if err != nil {
		return CommitResult{}, err
	}
	r, err := source.open(ctx, engine.S3)
	if err != nil {
		return CommitResult{}, err
	}
	defer r.Close()

	columns, rows, err := readCSV(r)
	if err != nil {
		return CommitResult{}, fmt.Errorf("import of %s from %s: %w", table, location, err)
	}

	if _, err := engine.Registry.CreateTable(table, columns); err != nil {
		return CommitResult{}, err
	}
	session, err := engine.Registry.SelectTable(table)
	if err != nil {
		return CommitResult{}, err
	}
	n, err := session.Load(rows)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.LatestTransaction(),
		Table:            table,
		TablesCreated:    1,
		RecordsWritten:   n,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func readCSV(r io.Reader) ([]string, []core.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	columns, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("empty CSV")
	}
	if err != nil {
		return nil, nil, err
	}
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}

	var rows []core.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return columns, rows, nil
		}
		if err != nil {
			return nil, nil, err
		}

		row := make(core.Row, len(record))
		for i, cell := range record {
			row[i] = core.ParseCell(cell)
		}
		rows = append(rows, row)
	}
}
