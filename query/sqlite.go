package query

import (
	_ "modernc.org/sqlite"
)

// NewSQLite opens an in-memory SQLite database for query evaluation.
func NewSQLite() (*SQLEvaluator, error) {
	return openSQLEvaluator("sqlite", ":memory:")
}
