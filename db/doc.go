// Package db is the command surface of GridDB.
//
// An Engine executes Commands against the tables of a git-backed grid
// store and returns either a QueryResult or a CommitResult, both carrying
// the execution time.
//
//	engine := db.NewEngine(persistence, identity, op.Options{})
//	engine.Execute(db.Command{Action: db.ActionCreate, Table: "people", Columns: []string{"Id", "Name"}})
//	result, err := engine.Execute(db.Command{
//	    Action:   db.ActionFindWhere,
//	    Table:    "people",
//	    Criteria: core.Criteria{"Name": "Ada"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display()
//
// Every command selects its table afresh, so reads always see earlier
// writes.
//
// # Import and Export
//
// Tables move in and out as CSV. Locations may be local paths, file://,
// http(s):// (import only) or s3://bucket/key URLs; S3 credentials come
// from Engine.S3 or the AWS default chain.
package db
