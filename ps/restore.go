package ps

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nickyhof/GridDB/core"
)

// RestoreGrid rewrites the named grid with its contents as of asof. The
// restore is a new commit; history is kept. A grid dropped since asof is
// recreated. A state without a header row is refused.
func (s *GridStore) RestoreGrid(name string, asof Transaction) (Transaction, error) {
	if asof.IsEmpty() {
		return Transaction{}, fmt.Errorf("restore of %s: empty transaction", name)
	}

	s.persistence.Lock()
	defer s.persistence.Unlock()

	data, err := s.persistence.GetAt(asof.Id, gridPath(name))
	if errors.Is(err, ErrFileNotFound) {
		return Transaction{}, fmt.Errorf("%w: %s at %s", ErrGridNotFound, name, asof.Id)
	}
	if err != nil {
		return Transaction{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Transaction{}, &core.SchemaError{Table: name, Reason: "no header row at " + asof.Id}
	}

	return s.persistence.Put(gridPath(name), data, s.identity, fmt.Sprintf("Restoring %s to %s", name, asof.Id))
}
