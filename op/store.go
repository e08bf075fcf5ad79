package op

import "github.com/nickyhof/GridDB/core"

// GridStore is the backing storage of a Registry. Row 0 of every grid is
// the header. ps.GridStore implements it on a git repository.
type GridStore interface {
	ListTableNames() ([]string, error)
	CreateGrid(name string) (core.GridHandle, error)
	DeleteGrid(grid core.GridHandle) error
	GetGrid(name string) (core.GridHandle, bool, error)
	ReadAll(grid core.GridHandle) ([]core.Row, error)
	AppendRow(grid core.GridHandle, row core.Row) error
	WriteAll(grid core.GridHandle, rows []core.Row) error
	Clear(grid core.GridHandle) error
}

// GridReplacer is implemented by stores that can clear a grid and write its
// new rows as a single change. Without it the Session calls Clear and then
// WriteAll.
type GridReplacer interface {
	Replace(grid core.GridHandle, rows []core.Row, message string) error
}
