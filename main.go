package GridDB

import (
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
	"github.com/nickyhof/GridDB/op"
	"github.com/nickyhof/GridDB/ps"
)

type Instance struct {
	Persistence *ps.Persistence
}

func Open(persistence *ps.Persistence) *Instance {
	return &Instance{
		Persistence: persistence,
	}
}

// OpenMemory opens an instance backed by an in-memory repository.
func OpenMemory() (*Instance, error) {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		return nil, err
	}
	return Open(persistence), nil
}

// OpenFile opens, initializes or clones the repository at baseDir. gitUrl
// may be nil.
func OpenFile(baseDir string, gitUrl *string) (*Instance, error) {
	persistence, err := ps.NewFilePersistence(baseDir, gitUrl)
	if err != nil {
		return nil, err
	}
	return Open(persistence), nil
}

// Engine returns an engine whose commits are authored by identity. Engines
// sharing an instance share its repository, not their table registries.
func (instance *Instance) Engine(identity core.Identity, opts op.Options) *db.Engine {
	return db.NewEngine(instance.Persistence, identity, opts)
}
