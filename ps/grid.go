package ps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/nickyhof/GridDB/core"
)

const (
	gridDir    = "grids"
	gridSuffix = ".grid"
)

var ErrInvalidGridName = errors.New("invalid grid name")

func gridPath(name string) string {
	return path.Join(gridDir, name+gridSuffix)
}

// GridStore keeps every grid as a blob of JSON lines, one array per row,
// under grids/<name>.grid. Each mutation is a commit authored by identity.
type GridStore struct {
	persistence *Persistence
	identity    core.Identity
}

func NewGridStore(persistence *Persistence, identity core.Identity) *GridStore {
	return &GridStore{
		persistence: persistence,
		identity:    identity,
	}
}

// Persistence returns the repository the store commits to.
func (s *GridStore) Persistence() *Persistence {
	return s.persistence
}

func validGridName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\\n") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidGridName, name)
	}
	return nil
}

// ListTableNames returns the names of all grids in sorted order.
func (s *GridStore) ListTableNames() ([]string, error) {
	s.persistence.RLock()
	defer s.persistence.RUnlock()

	return s.listNames()
}

func (s *GridStore) listNames() ([]string, error) {
	entries, err := s.persistence.List(gridDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir || !strings.HasSuffix(entry.Name, gridSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name, gridSuffix))
	}
	sort.Strings(names)
	return names, nil
}

func (s *GridStore) exists(name string) (bool, error) {
	names, err := s.listNames()
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(names, name)
	return i < len(names) && names[i] == name, nil
}

// CreateGrid creates an empty grid.
func (s *GridStore) CreateGrid(name string) (core.GridHandle, error) {
	if err := validGridName(name); err != nil {
		return core.GridHandle{}, err
	}

	s.persistence.Lock()
	defer s.persistence.Unlock()

	found, err := s.exists(name)
	if err != nil {
		return core.GridHandle{}, err
	}
	if found {
		return core.GridHandle{}, &core.DuplicateTableError{Table: name}
	}

	if _, err := s.persistence.Put(gridPath(name), nil, s.identity, "Creating grid "+name); err != nil {
		return core.GridHandle{}, fmt.Errorf("failed to create grid %s: %w", name, err)
	}
	return core.GridHandle{Name: name}, nil
}

// DeleteGrid removes the grid and its contents.
func (s *GridStore) DeleteGrid(handle core.GridHandle) error {
	s.persistence.Lock()
	defer s.persistence.Unlock()

	found, err := s.exists(handle.Name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrGridNotFound, handle.Name)
	}

	if _, err := s.persistence.Remove([]string{gridPath(handle.Name)}, s.identity, "Dropping grid "+handle.Name); err != nil {
		return fmt.Errorf("failed to delete grid %s: %w", handle.Name, err)
	}
	return nil
}

// GetGrid looks up a grid by name. The bool is false when it does not exist.
func (s *GridStore) GetGrid(name string) (core.GridHandle, bool, error) {
	if validGridName(name) != nil {
		return core.GridHandle{}, false, nil
	}

	s.persistence.RLock()
	defer s.persistence.RUnlock()

	found, err := s.exists(name)
	if err != nil || !found {
		return core.GridHandle{}, false, err
	}
	return core.GridHandle{Name: name}, true, nil
}

// ReadAll returns every row of the grid, header first.
func (s *GridStore) ReadAll(handle core.GridHandle) ([]core.Row, error) {
	s.persistence.RLock()
	defer s.persistence.RUnlock()

	data, err := s.read(handle)
	if err != nil {
		return nil, err
	}
	return DecodeRows(data)
}

func (s *GridStore) read(handle core.GridHandle) ([]byte, error) {
	data, err := s.persistence.Get(gridPath(handle.Name))
	if errors.Is(err, ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGridNotFound, handle.Name)
	}
	return data, err
}

// AppendRow adds row at the end of the grid.
func (s *GridStore) AppendRow(handle core.GridHandle, row core.Row) error {
	s.persistence.Lock()
	defer s.persistence.Unlock()

	data, err := s.read(handle)
	if err != nil {
		return err
	}
	line, err := EncodeRows([]core.Row{row})
	if err != nil {
		return err
	}

	_, err = s.persistence.Put(gridPath(handle.Name), append(data, line...), s.identity, "Appending row to "+handle.Name)
	return err
}

// WriteAll replaces the grid contents, header included, with rows.
func (s *GridStore) WriteAll(handle core.GridHandle, rows []core.Row) error {
	data, err := EncodeRows(rows)
	if err != nil {
		return err
	}
	return s.write(handle, data, fmt.Sprintf("Writing %d rows to %s", len(rows), handle.Name))
}

// Clear empties the grid, header included.
func (s *GridStore) Clear(handle core.GridHandle) error {
	return s.write(handle, nil, "Clearing "+handle.Name)
}

// Replace clears the grid and writes rows, header included, as one commit.
func (s *GridStore) Replace(handle core.GridHandle, rows []core.Row, message string) error {
	data, err := EncodeRows(rows)
	if err != nil {
		return err
	}

	s.persistence.Lock()
	defer s.persistence.Unlock()

	if found, err := s.exists(handle.Name); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("%w: %s", ErrGridNotFound, handle.Name)
	}

	batch, err := s.persistence.BeginBatch()
	if err != nil {
		return err
	}
	batch.Put(gridPath(handle.Name), nil)
	batch.Put(gridPath(handle.Name), data)
	_, err = batch.Commit(s.identity, message)
	return err
}

func (s *GridStore) write(handle core.GridHandle, data []byte, message string) error {
	s.persistence.Lock()
	defer s.persistence.Unlock()

	found, err := s.exists(handle.Name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrGridNotFound, handle.Name)
	}

	_, err = s.persistence.Put(gridPath(handle.Name), data, s.identity, message)
	return err
}

// EncodeRows renders rows as JSON lines.
func EncodeRows(rows []core.Row) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, row := range rows {
		if row == nil {
			row = core.Row{}
		}
		if err := enc.Encode(row); err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeRows parses JSON lines written by EncodeRows. Integral numbers
// decode as int, other numbers as float64.
func DecodeRows(data []byte) ([]core.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	rows := []core.Row{}
	for {
		var cells []any
		err := dec.Decode(&cells)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", len(rows), err)
		}

		row := make(core.Row, len(cells))
		for i, cell := range cells {
			row[i] = core.NormalizeCell(cell)
		}
		rows = append(rows, row)
	}
}
