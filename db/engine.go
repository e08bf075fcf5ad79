package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/op"
	"github.com/nickyhof/GridDB/ps"
)

type Action string

const (
	ActionCreate    Action = "create"
	ActionDrop      Action = "drop"
	ActionTables    Action = "tables"
	ActionDescribe  Action = "describe"
	ActionFindAll   Action = "findAll"
	ActionFindOne   Action = "findOne"
	ActionFindWhere Action = "findWhere"
	ActionInsert    Action = "insert"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionImport    Action = "import"
	ActionExport    Action = "export"
	ActionHistory   Action = "history"
	ActionRestore   Action = "restore"
)

// Command is one request against the engine. Which fields are read depends
// on Action.
type Command struct {
	Action      Action        `json:"action"`
	Table       string        `json:"table,omitempty"`
	Columns     []string      `json:"columns,omitempty"`
	Criteria    core.Criteria `json:"criteria,omitempty"`
	Data        core.Object   `json:"data,omitempty"`
	URL         string        `json:"url,omitempty"`
	Transaction string        `json:"transaction,omitempty"`
}

type Engine struct {
	*ps.Persistence
	Identity core.Identity
	Registry *op.Registry
	S3       S3Options

	store *ps.GridStore
}

// NewEngine binds a registry to persistence. Commits are authored by
// identity.
func NewEngine(persistence *ps.Persistence, identity core.Identity, opts op.Options) *Engine {
	store := ps.NewGridStore(persistence, identity)
	return &Engine{
		Persistence: persistence,
		Identity:    identity,
		Registry:    op.NewRegistry(store, opts),
		store:       store,
	}
}

func (engine *Engine) Execute(cmd Command) (Result, error) {
	return engine.ExecuteContext(context.Background(), cmd)
}

// ExecuteContext runs cmd. The context only bounds remote transfers of
// import and export.
func (engine *Engine) ExecuteContext(ctx context.Context, cmd Command) (Result, error) {
	switch cmd.Action {
	case ActionCreate:
		return engine.executeCreate(cmd)
	case ActionDrop:
		return engine.executeDrop(cmd)
	case ActionTables:
		return engine.executeTables()
	case ActionDescribe:
		return engine.executeDescribe(cmd)
	case ActionFindAll, ActionFindOne, ActionFindWhere:
		return engine.executeFind(cmd)
	case ActionInsert:
		return engine.executeInsert(cmd)
	case ActionUpdate:
		return engine.executeUpdate(cmd)
	case ActionDelete:
		return engine.executeDelete(cmd)
	case ActionImport:
		return engine.Import(ctx, cmd.Table, cmd.URL)
	case ActionExport:
		return engine.Export(ctx, cmd.Table, cmd.URL)
	case ActionHistory:
		return engine.executeHistory(cmd)
	case ActionRestore:
		return engine.executeRestore(cmd)
	default:
		return nil, fmt.Errorf("unsupported action: %q", cmd.Action)
	}
}

func requireTable(cmd Command) error {
	if cmd.Table == "" {
		return fmt.Errorf("%s: table is required", cmd.Action)
	}
	return nil
}

func (engine *Engine) executeCreate(cmd Command) (CommitResult, error) {
	startTime := time.Now()
	if err := requireTable(cmd); err != nil {
		return CommitResult{}, err
	}

	if _, err := engine.Registry.CreateTable(cmd.Table, cmd.Columns); err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeDrop(cmd Command) (CommitResult, error) {
	startTime := time.Now()
	if err := requireTable(cmd); err != nil {
		return CommitResult{}, err
	}

	if err := engine.Registry.DropTable(cmd.Table); err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		TablesDeleted:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeTables() (QueryResult, error) {
	startTime := time.Now()

	names, err := engine.Registry.Tables()
	if err != nil {
		return QueryResult{}, err
	}

	rows := make([]core.Object, len(names))
	for i, name := range names {
		rows[i] = core.Object{"name": name}
	}

	return QueryResult{
		Transaction:      engine.LatestTransaction(),
		Columns:          []string{"name"},
		Rows:             rows,
		RecordsRead:      len(rows),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeDescribe(cmd Command) (QueryResult, error) {
	startTime := time.Now()

	table, err := engine.Registry.Describe(cmd.Table)
	if err != nil {
		return QueryResult{}, err
	}

	rows := make([]core.Object, len(table.Columns))
	for i, col := range table.Columns {
		rows[i] = core.Object{"position": i, "column": col}
	}

	return QueryResult{
		Transaction:      engine.LatestTransaction(),
		Table:            table.Name,
		Columns:          []string{"position", "column"},
		Rows:             rows,
		RecordsRead:      len(rows),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeFind(cmd Command) (QueryResult, error) {
	startTime := time.Now()

	session, err := engine.Registry.SelectTable(cmd.Table)
	if err != nil {
		return QueryResult{}, err
	}

	var rows []core.Object
	switch cmd.Action {
	case ActionFindAll:
		rows, err = session.FindAll()
	case ActionFindWhere:
		rows, err = session.FindWhere(cmd.Criteria)
	default:
		var one core.Object
		one, err = session.FindOne(cmd.Criteria)
		if one != nil {
			rows = []core.Object{one}
		}
	}
	if err != nil {
		return QueryResult{}, err
	}
	if rows == nil {
		rows = []core.Object{}
	}

	return QueryResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		Columns:          session.Columns(),
		Rows:             rows,
		RecordsRead:      len(rows),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeInsert(cmd Command) (CommitResult, error) {
	startTime := time.Now()

	session, err := engine.Registry.SelectTable(cmd.Table)
	if err != nil {
		return CommitResult{}, err
	}
	inserted, err := session.Insert(cmd.Data)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		RecordsWritten:   1,
		Inserted:         inserted,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeUpdate(cmd Command) (CommitResult, error) {
	startTime := time.Now()

	session, err := engine.Registry.SelectTable(cmd.Table)
	if err != nil {
		return CommitResult{}, err
	}
	updated, err := session.Update(cmd.Criteria, cmd.Data)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		RecordsWritten:   updated,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeDelete(cmd Command) (CommitResult, error) {
	startTime := time.Now()

	session, err := engine.Registry.SelectTable(cmd.Table)
	if err != nil {
		return CommitResult{}, err
	}
	deleted, err := session.Delete(cmd.Criteria)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		RecordsDeleted:   deleted,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeHistory(cmd Command) (QueryResult, error) {
	startTime := time.Now()

	var (
		txns []ps.Transaction
		err  error
	)
	if cmd.Table == "" {
		txns, err = engine.TransactionsSince(time.Time{})
	} else {
		txns, err = engine.GridHistory(cmd.Table)
	}
	if err != nil {
		return QueryResult{}, err
	}

	rows := make([]core.Object, len(txns))
	for i, txn := range txns {
		rows[i] = core.Object{
			"transaction": txn.Id,
			"when":        txn.When.Format(time.RFC3339),
			"author":      txn.Author,
			"message":     strings.TrimSpace(txn.Message),
		}
	}

	return QueryResult{
		Transaction:      engine.LatestTransaction(),
		Table:            cmd.Table,
		Columns:          []string{"transaction", "when", "author", "message"},
		Rows:             rows,
		RecordsRead:      len(rows),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}

func (engine *Engine) executeRestore(cmd Command) (CommitResult, error) {
	startTime := time.Now()
	if err := requireTable(cmd); err != nil {
		return CommitResult{}, err
	}
	if cmd.Transaction == "" {
		return CommitResult{}, fmt.Errorf("restore: transaction is required")
	}

	txn, err := engine.store.RestoreGrid(cmd.Table, ps.Transaction{Id: cmd.Transaction})
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		Table:            cmd.Table,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
	}, nil
}
