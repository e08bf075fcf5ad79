package query

import (
	"fmt"

	"github.com/nickyhof/GridDB/core"
)

// Evaluator runs a query against rows and returns the matches in their
// original relative order. It must not depend on any state besides rows.
type Evaluator interface {
	Evaluate(q Query, rows []core.Row) ([]core.Row, error)
}

// Interpreter evaluates queries in-process.
type Interpreter struct{}

func (Interpreter) Evaluate(q Query, rows []core.Row) ([]core.Row, error) {
	matched := []core.Row{}
	for _, row := range rows {
		if !q.Where.Match(row) {
			continue
		}
		matched = append(matched, row)
		if q.Limit > 0 && len(matched) >= q.Limit {
			break
		}
	}
	return matched, nil
}

// Open returns the evaluator registered under name: "interp" (or ""),
// "sqlite" or "duckdb". The returned close function releases any database
// the evaluator holds.
func Open(name string) (Evaluator, func() error, error) {
	var (
		e   *SQLEvaluator
		err error
	)
	switch name {
	case "", "interp":
		return Interpreter{}, func() error { return nil }, nil
	case "sqlite":
		e, err = NewSQLite()
	case "duckdb":
		e, err = NewDuckDB()
	default:
		return nil, nil, fmt.Errorf("unknown evaluator %q", name)
	}
	if err != nil {
		return nil, nil, err
	}
	return e, e.Close, nil
}
