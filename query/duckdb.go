package query

import (
	_ "github.com/duckdb/duckdb-go/v2"
)

// NewDuckDB opens an in-memory DuckDB database for query evaluation.
func NewDuckDB() (*SQLEvaluator, error) {
	return openSQLEvaluator("duckdb", "")
}
