package ps

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/nickyhof/GridDB/core"
)

// ErrFileNotFound is returned when a path is absent from the HEAD tree.
var ErrFileNotFound = errors.New("file not found")

// store writes one encoded object straight into the object database.
func (p *Persistence) store(encode func(plumbing.EncodedObject) error) (plumbing.Hash, error) {
	obj := p.repo.Storer.NewEncodedObject()
	if err := encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return p.repo.Storer.SetEncodedObject(obj)
}

func blob(data []byte) func(plumbing.EncodedObject) error {
	return func(obj plumbing.EncodedObject) error {
		obj.SetType(plumbing.BlobObject)
		obj.SetSize(int64(len(data)))
		w, err := obj.Writer()
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	}
}

// dirKey orders tree entries the way git does: directories compare as if
// their name ended in a slash.
func dirKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

// writeTree stores entries as a tree. Nothing is stored for an empty set and
// ZeroHash is returned.
func (p *Persistence) writeTree(entries map[string]object.TreeEntry) (plumbing.Hash, error) {
	if len(entries) == 0 {
		return plumbing.ZeroHash, nil
	}
	sorted := make([]object.TreeEntry, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, e)
	}
	slices.SortFunc(sorted, func(a, b object.TreeEntry) int {
		return strings.Compare(dirKey(a), dirKey(b))
	})
	return p.store((&object.Tree{Entries: sorted}).Encode)
}

func (p *Persistence) treeEntries(hash plumbing.Hash) (map[string]object.TreeEntry, error) {
	entries := map[string]object.TreeEntry{}
	if hash == plumbing.ZeroHash {
		return entries, nil
	}
	tree, err := object.GetTree(p.repo.Storer, hash)
	if err != nil {
		return nil, err
	}
	for _, e := range tree.Entries {
		entries[e.Name] = e
	}
	return entries, nil
}

// splice returns root with the file at path replaced by file, or removed when
// file is ZeroHash. Directories that end up empty disappear.
func (p *Persistence) splice(root plumbing.Hash, path []string, file plumbing.Hash) (plumbing.Hash, error) {
	if len(path) == 0 || path[0] == "" {
		return plumbing.ZeroHash, errors.New("empty path")
	}
	entries, err := p.treeEntries(root)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	name, rest := path[0], path[1:]
	mode := filemode.Regular
	child := file
	if len(rest) > 0 {
		dir, found := entries[name]
		if !found || dir.Mode != filemode.Dir {
			if file == plumbing.ZeroHash {
				return root, nil
			}
			dir.Hash = plumbing.ZeroHash
		}
		if child, err = p.splice(dir.Hash, rest, file); err != nil {
			return plumbing.ZeroHash, err
		}
		mode = filemode.Dir
	}

	if child == plumbing.ZeroHash {
		delete(entries, name)
	} else {
		entries[name] = object.TreeEntry{Name: name, Mode: mode, Hash: child}
	}
	return p.writeTree(entries)
}

func (p *Persistence) head() (*plumbing.Reference, *object.Commit) {
	ref, err := p.repo.Head()
	if err != nil {
		return nil, nil
	}
	commit, err := p.repo.CommitObject(ref.Hash())
	if err != nil {
		return ref, nil
	}
	return ref, commit
}

// commit makes root the tree of a new commit on the checked-out branch. A
// root equal to HEAD's tree commits nothing and yields an empty Transaction.
func (p *Persistence) commit(root plumbing.Hash, identity core.Identity, message string) (Transaction, error) {
	var err error
	if root == plumbing.ZeroHash {
		if root, err = p.store((&object.Tree{}).Encode); err != nil {
			return Transaction{}, fmt.Errorf("failed to store empty tree: %w", err)
		}
	}

	ref, parent := p.head()
	if parent != nil && parent.TreeHash == root {
		return Transaction{}, nil
	}

	sig := object.Signature{Name: identity.Name, Email: identity.Email, When: time.Now()}
	c := &object.Commit{Author: sig, Committer: sig, Message: message, TreeHash: root}
	if parent != nil {
		c.ParentHashes = []plumbing.Hash{parent.Hash}
	}
	hash, err := p.store(c.Encode)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to store commit: %w", err)
	}

	branch := plumbing.Master
	if ref != nil && ref.Name().IsBranch() {
		branch = ref.Name()
	}
	if err := p.repo.Storer.SetReference(plumbing.NewHashReference(branch, hash)); err != nil {
		return Transaction{}, fmt.Errorf("failed to move %s: %w", branch.Short(), err)
	}
	if err := p.checkout(hash, root); err != nil {
		return Transaction{}, fmt.Errorf("failed to sync worktree: %w", err)
	}

	return Transaction{Id: hash.String(), When: sig.When, Author: identity.String(), Message: message}, nil
}

// checkout brings an on-disk worktree in line with commit. Memory
// repositories are read from the object store only.
func (p *Persistence) checkout(commit, root plumbing.Hash) error {
	if p.isMemoryMode {
		return nil
	}
	wt, err := p.repo.Worktree()
	if err != nil {
		return err
	}

	entries, err := p.treeEntries(root)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return wt.Reset(&git.ResetOptions{Mode: git.HardReset, Commit: commit})
	}

	// hard reset to an empty tree fails, clear by hand
	files, err := wt.Filesystem.ReadDir("/")
	if err != nil {
		return nil
	}
	for _, f := range files {
		if f.Name() != ".git" {
			wt.Filesystem.Remove(f.Name())
		}
	}
	return nil
}

func (p *Persistence) rootAt(commitId string) (*object.Tree, error) {
	var commit *object.Commit
	if commitId == "" {
		if _, commit = p.head(); commit == nil {
			return nil, ErrFileNotFound
		}
	} else {
		var err error
		if commit, err = p.repo.CommitObject(plumbing.NewHash(commitId)); err != nil {
			return nil, fmt.Errorf("commit %s: %w", commitId, err)
		}
	}
	return commit.Tree()
}

// Put commits data at path.
func (p *Persistence) Put(path string, data []byte, identity core.Identity, message string) (Transaction, error) {
	batch, err := p.BeginBatch()
	if err != nil {
		return Transaction{}, err
	}
	batch.Put(path, data)
	return batch.Commit(identity, message)
}

// Remove deletes paths in one commit.
func (p *Persistence) Remove(paths []string, identity core.Identity, message string) (Transaction, error) {
	batch, err := p.BeginBatch()
	if err != nil {
		return Transaction{}, err
	}
	if _, head := p.head(); head == nil {
		return Transaction{}, ErrFileNotFound
	}
	for _, path := range paths {
		batch.Remove(path)
	}
	return batch.Commit(identity, message)
}

// Get reads path from HEAD.
func (p *Persistence) Get(path string) ([]byte, error) {
	return p.GetAt("", path)
}

// GetAt reads path as of commitId, or HEAD when commitId is empty.
func (p *Persistence) GetAt(commitId, path string) ([]byte, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}
	root, err := p.rootAt(commitId)
	if err != nil {
		return nil, err
	}
	file, err := root.File(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return []byte(content), nil
}

type TreeEntry struct {
	Name  string
	IsDir bool
}

// List returns the entries of dir at HEAD. A missing directory lists empty.
func (p *Persistence) List(dir string) ([]TreeEntry, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}
	root, err := p.rootAt("")
	if errors.Is(err, ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if dir != "" && dir != "." {
		if root, err = root.Tree(dir); err != nil {
			return nil, nil
		}
	}

	list := make([]TreeEntry, len(root.Entries))
	for i, e := range root.Entries {
		list[i] = TreeEntry{Name: e.Name, IsDir: e.Mode == filemode.Dir}
	}
	return list, nil
}
