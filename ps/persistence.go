package ps

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
)

var (
	ErrNotInitialized = errors.New("persistence layer not initialized")
	ErrGridNotFound   = errors.New("grid not found")
)

// Persistence is a git repository holding grids. Writers take Lock, readers
// RLock; GridStore does this for every operation.
type Persistence struct {
	repo         *git.Repository
	mu           sync.RWMutex
	isMemoryMode bool
}

func (p *Persistence) IsInitialized() bool {
	return p != nil && p.repo != nil
}

func (p *Persistence) ensureInitialized() error {
	if !p.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

func (p *Persistence) RLock()   { p.mu.RLock() }
func (p *Persistence) RUnlock() { p.mu.RUnlock() }
func (p *Persistence) Lock()    { p.mu.Lock() }
func (p *Persistence) Unlock()  { p.mu.Unlock() }

// NewMemoryPersistence creates a repository held entirely in memory. Its
// worktree is never checked out.
func NewMemoryPersistence() (*Persistence, error) {
	repo, err := git.Init(memory.NewStorage(), git.WithWorkTree(memfs.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to init memory repository: %w", err)
	}
	return &Persistence{repo: repo, isMemoryMode: true}, nil
}

// NewFilePersistence opens the repository under baseDir, initializing it if
// there is none. When gitUrl is set the repository is cloned from it instead.
func NewFilePersistence(baseDir string, gitUrl *string) (*Persistence, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	wt := osfs.New(baseDir)
	dotGit, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}
	storer := filesystem.NewStorageWithOptions(dotGit, cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	repo, err := openRepository(storer, wt, gitUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository in %s: %w", baseDir, err)
	}
	return &Persistence{repo: repo}, nil
}

func openRepository(storer *filesystem.Storage, wt billy.Filesystem, gitUrl *string) (*git.Repository, error) {
	if gitUrl != nil {
		return git.Clone(storer, wt, &git.CloneOptions{URL: *gitUrl})
	}

	repo, err := git.Open(storer, wt)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return git.Init(storer, git.WithWorkTree(wt))
	}
	return repo, err
}
