package op

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nickyhof/GridDB/core"
)

// memStore is an in-memory GridStore that records the calls made on it.
type memStore struct {
	grids map[string][]core.Row
	calls []string
}

func newMemStore() *memStore {
	return &memStore{grids: make(map[string][]core.Row)}
}

func (m *memStore) record(call string, grid string) {
	m.calls = append(m.calls, call+" "+grid)
}

func (m *memStore) count(call string) int {
	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, call+" ") {
			n++
		}
	}
	return n
}

func (m *memStore) ListTableNames() ([]string, error) {
	names := make([]string, 0, len(m.grids))
	for name := range m.grids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStore) CreateGrid(name string) (core.GridHandle, error) {
	m.record("CreateGrid", name)
	if _, ok := m.grids[name]; ok {
		return core.GridHandle{}, &core.DuplicateTableError{Table: name}
	}
	m.grids[name] = []core.Row{}
	return core.GridHandle{Name: name}, nil
}

func (m *memStore) DeleteGrid(grid core.GridHandle) error {
	m.record("DeleteGrid", grid.Name)
	if _, ok := m.grids[grid.Name]; !ok {
		return fmt.Errorf("no grid %s", grid.Name)
	}
	delete(m.grids, grid.Name)
	return nil
}

func (m *memStore) GetGrid(name string) (core.GridHandle, bool, error) {
	_, ok := m.grids[name]
	return core.GridHandle{Name: name}, ok, nil
}

func (m *memStore) rows(grid core.GridHandle) ([]core.Row, error) {
	rows, ok := m.grids[grid.Name]
	if !ok {
		return nil, fmt.Errorf("no grid %s", grid.Name)
	}
	return rows, nil
}

func (m *memStore) ReadAll(grid core.GridHandle) ([]core.Row, error) {
	m.record("ReadAll", grid.Name)
	rows, err := m.rows(grid)
	if err != nil {
		return nil, err
	}
	out := make([]core.Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out, nil
}

func (m *memStore) AppendRow(grid core.GridHandle, row core.Row) error {
	m.record("AppendRow", grid.Name)
	rows, err := m.rows(grid)
	if err != nil {
		return err
	}
	m.grids[grid.Name] = append(rows, row.Clone())
	return nil
}

func (m *memStore) WriteAll(grid core.GridHandle, rows []core.Row) error {
	m.record("WriteAll", grid.Name)
	if _, err := m.rows(grid); err != nil {
		return err
	}
	out := make([]core.Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	m.grids[grid.Name] = out
	return nil
}

func (m *memStore) Clear(grid core.GridHandle) error {
	m.record("Clear", grid.Name)
	if _, err := m.rows(grid); err != nil {
		return err
	}
	m.grids[grid.Name] = []core.Row{}
	return nil
}
