package ps

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
)

// Transaction is one commit of the repository.
type Transaction struct {
	Id      string
	When    time.Time
	Author  string // "Name <email>" format
	Message string
}

func (transaction Transaction) String() string {
	return fmt.Sprintf("Transaction{Id: %s, When: %s, Author: %s}", transaction.Id, transaction.When, transaction.Author)
}

// IsEmpty reports whether the transaction carries no commit, as returned
// by writes that changed nothing.
func (transaction Transaction) IsEmpty() bool {
	return transaction.Id == ""
}

func fromCommit(c *object.Commit) Transaction {
	author := ""
	if c.Author.Name != "" || c.Author.Email != "" {
		author = fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)
	}
	return Transaction{
		Id:      c.Hash.String(),
		When:    c.Committer.When,
		Author:  author,
		Message: c.Message,
	}
}

// LatestTransaction returns the HEAD commit, or an empty Transaction on a
// fresh repository.
func (persistence *Persistence) LatestTransaction() Transaction {
	if !persistence.IsInitialized() {
		return Transaction{}
	}
	headRef, err := persistence.repo.Head()
	if err != nil || headRef == nil {
		return Transaction{}
	}

	commit, err := persistence.repo.CommitObject(headRef.Hash())
	if err != nil {
		return Transaction{}
	}
	return fromCommit(commit)
}

// TransactionsSince lists commits made at or after asof, newest first.
func (persistence *Persistence) TransactionsSince(asof time.Time) ([]Transaction, error) {
	return persistence.log(&git.LogOptions{Since: &asof})
}

// GridHistory lists the commits that touched the named grid, newest first.
func (persistence *Persistence) GridHistory(name string) ([]Transaction, error) {
	file := gridPath(name)
	return persistence.log(&git.LogOptions{FileName: &file})
}

func (persistence *Persistence) log(opts *git.LogOptions) ([]Transaction, error) {
	if err := persistence.ensureInitialized(); err != nil {
		return nil, err
	}
	if _, err := persistence.repo.Head(); err != nil {
		return nil, nil
	}

	persistence.RLock()
	defer persistence.RUnlock()

	cIter, err := persistence.repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer cIter.Close()

	var transactions []Transaction
	err = cIter.ForEach(func(c *object.Commit) error {
		transactions = append(transactions, fromCommit(c))
		return nil
	})
	return transactions, err
}
