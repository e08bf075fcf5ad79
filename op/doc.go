// Package op implements tables on top of a GridStore.
//
// A Registry creates, drops and selects tables. Selecting returns a Session
// holding the schema and a snapshot of the data rows:
//
//	registry := op.NewRegistry(store, op.Options{})
//	registry.CreateTable("people", []string{"Id", "Name", "Age"})
//
//	people, err := registry.SelectTable("people")
//	ada, err := people.Insert(core.Object{"Name": "Ada", "Age": 36})
//	n, err := people.Update(core.Criteria{"Name": "Ada"}, core.Object{"Age": 37})
//	n, err = people.Delete(core.Criteria{"Age": 37})
//
// FindAll, FindOne and FindWhere read the snapshot. Insert, Update and
// Delete read and write the live grid, so a session has to be selected
// again to see its own writes.
//
// # Identifiers
//
// Ids come from Options.IDs. RowCountIDs, the default, uses the grid row
// count including the header; MaxIDs uses the largest id plus one.
//
// # Timing
//
// With Options.Debug every session operation logs
// "<operation> executed in <ms> ms" through Options.Log.
package op
