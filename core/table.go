package core

// IdColumn is the name every table schema must start with.
const IdColumn = "Id"

type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// GridHandle identifies the grid backing a table.
type GridHandle struct {
	Name string `json:"name"`
}

// ColumnIndex returns the position of column in the schema, or -1.
func (table Table) ColumnIndex(column string) int {
	return IndexOf(table.Columns, column)
}

// Validate checks the schema invariants: at least one column, the first
// column is IdColumn and names are distinct and non-empty.
func (table Table) Validate() error {
	if len(table.Columns) == 0 {
		return &SchemaError{Table: table.Name, Reason: "no columns"}
	}
	if table.Columns[0] != IdColumn {
		return &SchemaError{Table: table.Name, Found: table.Columns[0]}
	}

	seen := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		if col == "" {
			return &SchemaError{Table: table.Name, Reason: "empty column name"}
		}
		if seen[col] {
			return &SchemaError{Table: table.Name, Reason: "duplicate column " + col}
		}
		seen[col] = true
	}
	return nil
}

// IndexOf returns the position of column in columns, or -1.
func IndexOf(columns []string, column string) int {
	for i, col := range columns {
		if col == column {
			return i
		}
	}
	return -1
}
