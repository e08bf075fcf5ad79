package ps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/nickyhof/GridDB/core"
)

var ErrEmptyBatch = errors.New("nothing staged")

type change struct {
	path   string
	data   []byte
	remove bool
}

// Batch stages writes and removals and commits them as one transaction.
// Changes apply in the order they were staged, so a later write to the same
// path wins. Callers hold the persistence lock across Commit.
type Batch struct {
	persistence *Persistence
	changes     []change
}

func (p *Persistence) BeginBatch() (*Batch, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}
	return &Batch{persistence: p}, nil
}

func (b *Batch) Put(path string, data []byte) {
	b.changes = append(b.changes, change{path: path, data: data})
}

func (b *Batch) Remove(path string) {
	b.changes = append(b.changes, change{path: path, remove: true})
}

// Len returns the number of staged changes.
func (b *Batch) Len() int {
	return len(b.changes)
}

// Rollback drops every staged change.
func (b *Batch) Rollback() {
	b.changes = nil
}

// Commit applies the staged changes to HEAD's tree and records the result
// in a single commit. When the tree does not change no commit is made and
// the Transaction is empty.
func (b *Batch) Commit(identity core.Identity, message string) (Transaction, error) {
	if len(b.changes) == 0 {
		return Transaction{}, ErrEmptyBatch
	}
	p := b.persistence

	var root plumbing.Hash
	if _, head := p.head(); head != nil {
		root = head.TreeHash
	}
	for _, c := range b.changes {
		file := plumbing.ZeroHash
		var err error
		if !c.remove {
			if file, err = p.store(blob(c.data)); err != nil {
				return Transaction{}, fmt.Errorf("failed to store blob for %s: %w", c.path, err)
			}
		}
		if root, err = p.splice(root, strings.Split(c.path, "/"), file); err != nil {
			return Transaction{}, fmt.Errorf("failed to update %s: %w", c.path, err)
		}
	}

	txn, err := p.commit(root, identity, message)
	if err != nil {
		return Transaction{}, err
	}
	b.changes = nil
	return txn, nil
}
