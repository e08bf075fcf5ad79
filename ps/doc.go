// Package ps provides the persistence layer for GridDB.
//
// Grids are stored in a Git repository through go-git. Each grid is a blob
// of JSON lines under grids/<name>.grid, the first line being the header
// row, and every mutation is a commit. Reads go straight to the object
// store, so memory repositories never materialize a worktree.
//
// # Memory Persistence
//
// For testing or ephemeral tables:
//
//	persistence, err := ps.NewMemoryPersistence()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Persistence
//
//	persistence, err := ps.NewFilePersistence("/path/to/data", nil)
//
// # Grid Store
//
//	store := ps.NewGridStore(persistence, core.Identity{Name: "me", Email: "me@example.com"})
//	grid, err := store.CreateGrid("people")
//	err = store.WriteAll(grid, []core.Row{{"Id", "Name"}, {1, "Ada"}})
//	rows, err := store.ReadAll(grid)
//
// # History
//
// GridHistory lists the commits that touched a grid and RestoreGrid writes
// a grid back as it was at one of them.
package ps
