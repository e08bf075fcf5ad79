package op

import (
	"github.com/nickyhof/GridDB/core"
)

// IDPolicy assigns the identifier of an inserted row from the grid as it
// is at insert time, header included.
type IDPolicy interface {
	NextID(grid []core.Row) int
}

// RowCountIDs uses the number of grid rows, header included, so the first
// inserted row gets 1. After a delete the next id can repeat one still in
// use.
type RowCountIDs struct{}

func (RowCountIDs) NextID(grid []core.Row) int {
	return len(grid)
}

// MaxIDs uses one more than the largest numeric identifier in the grid, so
// ids never collide with a live row.
type MaxIDs struct{}

func (MaxIDs) NextID(grid []core.Row) int {
	highest := 0
	for i, row := range grid {
		if i == 0 || len(row) == 0 {
			continue
		}
		id, ok := core.ParseCell(core.FormatCell(row[0])).(int)
		if ok && id > highest {
			highest = id
		}
	}
	return highest + 1
}

// ParseIDPolicy maps "rowcount" and "max" to a policy.
func ParseIDPolicy(name string) (IDPolicy, bool) {
	switch name {
	case "", "rowcount":
		return RowCountIDs{}, true
	case "max":
		return MaxIDs{}, true
	default:
		return nil, false
	}
}
