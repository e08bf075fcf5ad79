// Package core provides core types used throughout GridDB.
//
// The package defines the table model (Table, Row, Object, Criteria),
// the row codec that converts between positional rows and keyed objects,
// cell formatting and comparison rules, and the error taxonomy shared by
// every layer.
//
// # Identity
//
// Identity identifies the author of grid mutations (Git commit author):
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Tables
//
// A table is an ordered list of column names. The first column is always
// the identifier column "Id":
//
//	table := core.Table{
//	    Name:    "users",
//	    Columns: []string{"Id", "Name", "Age"},
//	}
//
// # Rows and objects
//
// Grids store positional rows. The codec maps them to keyed objects using
// the table's columns:
//
//	obj := core.ToObject(core.Row{1, "Alice", 30}, table.Columns)
//	// obj == core.Object{"Id": 1, "Name": "Alice", "Age": 30}
//
//	row := core.ToRow(core.Object{"Name": "Bob"}, table.Columns)
//	// row == core.Row{"", "Bob", ""}
package core
