package core

import "fmt"

// DuplicateTableError is returned when creating a table whose name is taken.
type DuplicateTableError struct {
	Table string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}

// TableNotFoundError is returned when operating on an unknown or dropped table.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.Table)
}

// SchemaError is returned when a header row violates the schema invariants.
type SchemaError struct {
	Table  string
	Found  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid schema for table %q: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("first column of table %q must be %q, found %q", e.Table, IdColumn, e.Found)
}

// ColumnNotFoundError is returned when criteria reference a column the
// schema does not have.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}
