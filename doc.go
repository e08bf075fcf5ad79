// Package GridDB provides a Git-backed row store of named grids.
//
// Every table is a grid: a header row whose first column is Id, followed by
// data rows. Each mutation is written as a Git commit, so every table keeps
// its full history and can be restored to any earlier transaction.
//
// # Quick Start
//
// Create an in-memory database:
//
//	instance, _ := GridDB.OpenMemory()
//	engine := instance.Engine(core.Identity{Name: "App", Email: "app@example.com"}, op.Options{})
//
//	engine.Execute(db.Command{Action: db.ActionCreate, Table: "users", Columns: []string{"Id", "Name", "Age"}})
//	engine.Execute(db.Command{Action: db.ActionInsert, Table: "users", Data: core.Object{"Name": "Alice", "Age": 30}})
//
//	result, _ := engine.Execute(db.Command{Action: db.ActionFindWhere, Table: "users", Criteria: core.Criteria{"Age": 30}})
//	result.Display()
//
// # Commands
//
// The engine accepts create, drop, tables, describe, findAll, findOne,
// findWhere, insert, update, delete, import, export, history and restore.
// Criteria are column/value pairs combined with AND; an empty criteria
// matches every row.
package GridDB
