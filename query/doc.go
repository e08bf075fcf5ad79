// Package query translates criteria into predicates and evaluates them
// over row sets.
//
// A Predicate is a conjunction of tagged conditions (column index, column
// name, operator, value). It is built once from a criteria object and can be
// matched in-process or rendered as text for a SQL evaluator:
//
//	pred, err := query.Translate(core.Criteria{"Name": "A"}, columns)
//	if err != nil {
//	    // *core.ColumnNotFoundError
//	}
//	pred.String() // [1] = 'A'
//
// # Evaluators
//
// An Evaluator runs a Query against a set of rows and returns the matching
// rows in their original order. Three implementations are provided:
//   - Interpreter: in-process, loose equality (1 equals "1" and "1.0")
//   - DuckDB: loads the rows into a temporary DuckDB table
//   - SQLite: same as DuckDB on the pure-Go SQLite driver
//
// The SQL evaluators compare text forms, so "1.0" and 1 do not match there.
package query
