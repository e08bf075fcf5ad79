package op

import (
	"fmt"

	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/logging"
)

// Registry binds table names to grids of a GridStore.
type Registry struct {
	store GridStore
	opts  Options
}

func NewRegistry(store GridStore, opts Options) *Registry {
	return &Registry{
		store: store,
		opts:  opts.withDefaults(),
	}
}

// Options returns the effective options, defaults applied.
func (r *Registry) Options() Options {
	return r.opts
}

func (r *Registry) debug(table, msg string) {
	if r.opts.Debug {
		logging.WithTable(table).Debug(msg)
	}
}

// CreateTable creates a grid for name and writes columns as its header.
func (r *Registry) CreateTable(name string, columns []string) (core.Table, error) {
	table := core.Table{Name: name, Columns: append([]string(nil), columns...)}
	if err := table.Validate(); err != nil {
		return core.Table{}, err
	}

	exists, err := r.Exists(name)
	if err != nil {
		return core.Table{}, err
	}
	if exists {
		return core.Table{}, &core.DuplicateTableError{Table: name}
	}

	grid, err := r.store.CreateGrid(name)
	if err != nil {
		return core.Table{}, err
	}
	if err := r.store.AppendRow(grid, core.HeaderRow(table.Columns)); err != nil {
		return core.Table{}, fmt.Errorf("failed to write header of %s: %w", name, err)
	}

	r.debug(name, "Created table: "+name)
	return table, nil
}

// DropTable deletes the grid bound to name.
func (r *Registry) DropTable(name string) error {
	grid, ok, err := r.store.GetGrid(name)
	if err != nil {
		return err
	}
	if !ok {
		return &core.TableNotFoundError{Table: name}
	}

	if err := r.store.DeleteGrid(grid); err != nil {
		return err
	}

	r.debug(name, "Dropped table: "+name)
	return nil
}

// Exists reports whether a table named name exists in the store.
func (r *Registry) Exists(name string) (bool, error) {
	names, err := r.store.ListTableNames()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Tables lists the table names of the store.
func (r *Registry) Tables() ([]string, error) {
	return r.store.ListTableNames()
}

// Describe returns the schema read from the table's header row.
func (r *Registry) Describe(name string) (core.Table, error) {
	_, table, _, err := r.load(name)
	return table, err
}

func (r *Registry) load(name string) (core.GridHandle, core.Table, []core.Row, error) {
	grid, ok, err := r.store.GetGrid(name)
	if err != nil {
		return core.GridHandle{}, core.Table{}, nil, err
	}
	if !ok {
		return core.GridHandle{}, core.Table{}, nil, &core.TableNotFoundError{Table: name}
	}

	rows, err := r.store.ReadAll(grid)
	if err != nil {
		return core.GridHandle{}, core.Table{}, nil, err
	}
	if len(rows) == 0 {
		return core.GridHandle{}, core.Table{}, nil, &core.SchemaError{Table: name, Reason: "missing header row"}
	}

	table := core.Table{Name: name, Columns: rows[0].Columns()}
	if err := table.Validate(); err != nil {
		return core.GridHandle{}, core.Table{}, nil, err
	}
	return grid, table, rows[1:], nil
}

// SelectTable reads the table's grid and returns a session holding its
// schema and a snapshot of its data rows.
func (r *Registry) SelectTable(name string) (*Session, error) {
	grid, table, rows, err := r.load(name)
	if err != nil {
		return nil, err
	}

	r.debug(name, "Switched to table: "+name)
	return &Session{
		table: table,
		grid:  grid,
		rows:  rows,
		store: r.store,
		opts:  r.opts,
		log:   logging.WithTable(name),
	}, nil
}
