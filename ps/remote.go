package ps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/go-git/go-git/v6/plumbing/transport/ssh"
)

// AuthType selects how Push and Pull authenticate.
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeToken AuthType = "token"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeBasic AuthType = "basic"
)

const defaultRemote = "origin"

// RemoteAuth holds credentials for a remote. A nil *RemoteAuth means none.
type RemoteAuth struct {
	Type       AuthType
	Token      string
	KeyPath    string // defaults to ~/.ssh/id_rsa
	Passphrase string
	Username   string
	Password   string
}

func (auth *RemoteAuth) method() (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}

	switch auth.Type {
	case AuthTypeNone, "":
		return nil, nil
	case AuthTypeToken:
		return &http.BasicAuth{Username: "git", Password: auth.Token}, nil
	case AuthTypeBasic:
		return &http.BasicAuth{Username: auth.Username, Password: auth.Password}, nil
	case AuthTypeSSH:
		keyPath := auth.KeyPath
		if keyPath == "" {
			home, _ := os.UserHomeDir()
			keyPath = filepath.Join(home, ".ssh", "id_rsa")
		}
		return ssh.NewPublicKeysFromFile("git", keyPath, auth.Passphrase)
	default:
		return nil, fmt.Errorf("unknown auth type: %s", auth.Type)
	}
}

// AddRemote registers url under name.
func (p *Persistence) AddRemote(name, url string) error {
	if err := p.ensureInitialized(); err != nil {
		return err
	}

	_, err := p.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("failed to add remote '%s': %w", name, err)
	}
	return nil
}

func (p *Persistence) remote(remoteName string, auth *RemoteAuth) (string, transport.AuthMethod, error) {
	if err := p.ensureInitialized(); err != nil {
		return "", nil, err
	}
	if remoteName == "" {
		remoteName = defaultRemote
	}
	method, err := auth.method()
	if err != nil {
		return "", nil, fmt.Errorf("failed to configure auth: %w", err)
	}
	return remoteName, method, nil
}

// Push sends the checked-out branch to remoteName, "origin" when empty.
func (p *Persistence) Push(remoteName string, auth *RemoteAuth) error {
	remoteName, method, err := p.remote(remoteName, auth)
	if err != nil {
		return err
	}

	p.RLock()
	defer p.RUnlock()

	head, err := p.repo.Head()
	if err != nil {
		return fmt.Errorf("nothing to push: %w", err)
	}
	spec := config.RefSpec(head.Name().String() + ":" + head.Name().String())

	err = p.repo.Push(&git.PushOptions{RemoteName: remoteName, RefSpecs: []config.RefSpec{spec}, Auth: method})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to push to '%s': %w", remoteName, err)
	}
	return nil
}

// Pull merges branch of remoteName into the checked-out branch. An empty
// branch pulls the remote HEAD.
func (p *Persistence) Pull(remoteName, branch string, auth *RemoteAuth) error {
	remoteName, method, err := p.remote(remoteName, auth)
	if err != nil {
		return err
	}

	p.Lock()
	defer p.Unlock()

	wt, err := p.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	opts := &git.PullOptions{RemoteName: remoteName, Auth: method}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	err = wt.Pull(opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to pull from '%s': %w", remoteName, err)
	}
	return nil
}
