package GridDB

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
	"github.com/nickyhof/GridDB/op"
)

// TestFunc is the signature for test functions that work with any persistence
type TestFunc func(t *testing.T, engine *db.Engine)

var testIdentity = core.Identity{Name: "test", Email: "test@test.com"}

// runWithBothPersistence runs a test function with both memory and file persistence
func runWithBothPersistence(t *testing.T, testFunc TestFunc) {
	t.Run("Memory", func(t *testing.T) {
		instance, err := OpenMemory()
		if err != nil {
			t.Fatalf("Failed to initialize memory persistence: %v", err)
		}
		testFunc(t, instance.Engine(testIdentity, op.Options{}))
	})

	t.Run("File", func(t *testing.T) {
		instance, err := OpenFile(t.TempDir(), nil)
		if err != nil {
			t.Fatalf("Failed to initialize file persistence: %v", err)
		}
		testFunc(t, instance.Engine(testIdentity, op.Options{}))
	})
}

func mustExecute(t *testing.T, engine *db.Engine, cmd db.Command) db.Result {
	t.Helper()
	result, err := engine.Execute(cmd)
	if err != nil {
		t.Fatalf("Failed to execute %s: %v", cmd.Action, err)
	}
	return result
}

// TestIntegrationWorkflow walks a table through its whole lifecycle
func TestIntegrationWorkflow(t *testing.T) {
	runWithBothPersistence(t, func(t *testing.T, engine *db.Engine) {
		result := mustExecute(t, engine, db.Command{Action: db.ActionCreate, Table: "T", Columns: []string{"Id", "Name", "Age"}})
		if result.(db.CommitResult).TablesCreated != 1 {
			t.Error("Expected 1 table created")
		}

		result = mustExecute(t, engine, db.Command{Action: db.ActionInsert, Table: "T", Data: core.Object{"Name": "A", "Age": 1}})
		if inserted := result.(db.CommitResult).Inserted; !reflect.DeepEqual(inserted, core.Object{"Id": 1, "Name": "A", "Age": 1}) {
			t.Errorf("Unexpected insert result: %v", inserted)
		}
		result = mustExecute(t, engine, db.Command{Action: db.ActionInsert, Table: "T", Data: core.Object{"Name": "B", "Age": 2}})
		if id := result.(db.CommitResult).Inserted["Id"]; id != 2 {
			t.Errorf("Expected Id 2, got %v", id)
		}

		result = mustExecute(t, engine, db.Command{Action: db.ActionFindWhere, Table: "T", Criteria: core.Criteria{"Age": 1}})
		if rows := result.(db.QueryResult).Rows; !reflect.DeepEqual(rows, []core.Object{{"Id": 1, "Name": "A", "Age": 1}}) {
			t.Errorf("Unexpected findWhere result: %v", rows)
		}

		result = mustExecute(t, engine, db.Command{Action: db.ActionUpdate, Table: "T", Criteria: core.Criteria{"Name": "A"}, Data: core.Object{"Age": 9}})
		if n := result.(db.CommitResult).RecordsWritten; n != 1 {
			t.Errorf("Expected 1 updated row, got %d", n)
		}

		result = mustExecute(t, engine, db.Command{Action: db.ActionDelete, Table: "T", Criteria: core.Criteria{"Name": "B"}})
		if n := result.(db.CommitResult).RecordsDeleted; n != 1 {
			t.Errorf("Expected 1 deleted row, got %d", n)
		}

		result = mustExecute(t, engine, db.Command{Action: db.ActionFindAll, Table: "T"})
		if rows := result.(db.QueryResult).Rows; !reflect.DeepEqual(rows, []core.Object{{"Id": 1, "Name": "A", "Age": 9}}) {
			t.Errorf("Unexpected findAll result: %v", rows)
		}

		mustExecute(t, engine, db.Command{Action: db.ActionDrop, Table: "T"})
		_, err := engine.Execute(db.Command{Action: db.ActionFindAll, Table: "T"})
		var notFound *core.TableNotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("Expected TableNotFoundError after drop, got %v", err)
		}
	})
}

func TestIntegrationErrorHandling(t *testing.T) {
	runWithBothPersistence(t, func(t *testing.T, engine *db.Engine) {
		mustExecute(t, engine, db.Command{Action: db.ActionCreate, Table: "T", Columns: []string{"Id", "Name"}})

		_, err := engine.Execute(db.Command{Action: db.ActionCreate, Table: "T", Columns: []string{"Id", "Name"}})
		var duplicate *core.DuplicateTableError
		if !errors.As(err, &duplicate) {
			t.Errorf("Expected DuplicateTableError, got %v", err)
		}

		_, err = engine.Execute(db.Command{Action: db.ActionCreate, Table: "U", Columns: []string{"Name", "Id"}})
		var schema *core.SchemaError
		if !errors.As(err, &schema) {
			t.Errorf("Expected SchemaError, got %v", err)
		}

		_, err = engine.Execute(db.Command{Action: db.ActionFindWhere, Table: "T", Criteria: core.Criteria{"Nope": 1}})
		var column *core.ColumnNotFoundError
		if !errors.As(err, &column) {
			t.Errorf("Expected ColumnNotFoundError, got %v", err)
		}

		_, err = engine.Execute(db.Command{Action: "select"})
		if err == nil {
			t.Error("Expected error for unsupported action")
		}
	})
}

func TestIntegrationHistoryAndRestore(t *testing.T) {
	runWithBothPersistence(t, func(t *testing.T, engine *db.Engine) {
		mustExecute(t, engine, db.Command{Action: db.ActionCreate, Table: "T", Columns: []string{"Id", "Name"}})
		result := mustExecute(t, engine, db.Command{Action: db.ActionInsert, Table: "T", Data: core.Object{"Name": "A"}})
		checkpoint := result.(db.CommitResult).Transaction.Id
		mustExecute(t, engine, db.Command{Action: db.ActionDelete, Table: "T"})

		result = mustExecute(t, engine, db.Command{Action: db.ActionFindAll, Table: "T"})
		if n := result.(db.QueryResult).RecordsRead; n != 0 {
			t.Fatalf("Expected empty table, got %d rows", n)
		}

		mustExecute(t, engine, db.Command{Action: db.ActionRestore, Table: "T", Transaction: checkpoint})
		result = mustExecute(t, engine, db.Command{Action: db.ActionFindAll, Table: "T"})
		if rows := result.(db.QueryResult).Rows; !reflect.DeepEqual(rows, []core.Object{{"Id": 1, "Name": "A"}}) {
			t.Errorf("Unexpected rows after restore: %v", rows)
		}

		result = mustExecute(t, engine, db.Command{Action: db.ActionHistory, Table: "T"})
		// create, header, insert, delete, restore
		if n := result.(db.QueryResult).RecordsRead; n != 5 {
			t.Errorf("Expected 5 history entries, got %d", n)
		}
	})
}

func TestIntegrationTransferRoundTrip(t *testing.T) {
	runWithBothPersistence(t, func(t *testing.T, engine *db.Engine) {
		mustExecute(t, engine, db.Command{Action: db.ActionCreate, Table: "T", Columns: []string{"Id", "Name"}})
		mustExecute(t, engine, db.Command{Action: db.ActionInsert, Table: "T", Data: core.Object{"Name": "A"}})

		path := t.TempDir() + "/t.csv"
		mustExecute(t, engine, db.Command{Action: db.ActionExport, Table: "T", URL: path})
		mustExecute(t, engine, db.Command{Action: db.ActionImport, Table: "Copy", URL: path})

		result := mustExecute(t, engine, db.Command{Action: db.ActionFindAll, Table: "Copy"})
		if rows := result.(db.QueryResult).Rows; !reflect.DeepEqual(rows, []core.Object{{"Id": 1, "Name": "A"}}) {
			t.Errorf("Unexpected imported rows: %v", rows)
		}
	})
}

// TestFilePersistenceReopen tests that data persists after reopening the database
func TestFilePersistenceReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "griddb-persist-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	instance1, err := OpenFile(tmpDir, nil)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	engine1 := instance1.Engine(testIdentity, op.Options{})
	mustExecute(t, engine1, db.Command{Action: db.ActionCreate, Table: "data", Columns: []string{"Id", "val"}})
	mustExecute(t, engine1, db.Command{Action: db.ActionInsert, Table: "data", Data: core.Object{"val": "hello"}})
	mustExecute(t, engine1, db.Command{Action: db.ActionInsert, Table: "data", Data: core.Object{"val": "world"}})

	instance2, err := OpenFile(tmpDir, nil)
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	engine2 := instance2.Engine(testIdentity, op.Options{})
	result := mustExecute(t, engine2, db.Command{Action: db.ActionFindAll, Table: "data"})

	qr := result.(db.QueryResult)
	if len(qr.Rows) != 2 {
		t.Errorf("Expected 2 persisted rows, got %d", len(qr.Rows))
	}
	if qr.Rows[1]["Id"] != 2 || qr.Rows[1]["val"] != "world" {
		t.Errorf("Unexpected second row: %v", qr.Rows[1])
	}
}
