package core

// Row is a positional row aligned with a table's columns.
type Row []any

// Object maps column names to cell values.
type Object map[string]any

// Criteria maps column names to expected cell values. All entries must match.
type Criteria map[string]any

// ToObject zips row with columns. Cells missing from a short row become nil,
// cells beyond the schema are dropped.
func ToObject(row Row, columns []string) Object {
	obj := make(Object, len(columns))
	for i, col := range columns {
		if i < len(row) {
			obj[col] = row[i]
		} else {
			obj[col] = nil
		}
	}
	return obj
}

// ToRow builds a positional row from obj. Missing keys become empty strings
// and the identifier cell is always left empty: ids are assigned by the
// session, never taken from caller data.
func ToRow(obj Object, columns []string) Row {
	row := make(Row, len(columns))
	for i, col := range columns {
		if col == IdColumn {
			row[i] = ""
			continue
		}
		if v, ok := obj[col]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	return row
}

// Clone returns a shallow copy of row.
func (row Row) Clone() Row {
	cp := make(Row, len(row))
	copy(cp, row)
	return cp
}

// Strings formats every cell of row with FormatCell.
func (row Row) Strings() []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = FormatCell(cell)
	}
	return out
}

// Columns reads a header row as a list of column names.
func (row Row) Columns() []string {
	return row.Strings()
}

// HeaderRow converts column names to a grid header row.
func HeaderRow(columns []string) Row {
	row := make(Row, len(columns))
	for i, col := range columns {
		row[i] = col
	}
	return row
}
