package ps

import (
	"testing"
	"time"

	"github.com/nickyhof/GridDB/core"
)

func TestLatestTransaction(t *testing.T) {
	store := setupTestStore(t)
	persistence := store.Persistence()

	// Initially should be empty
	txn := persistence.LatestTransaction()
	if txn.Id != "" {
		t.Error("Expected empty transaction for fresh repo")
	}

	if _, err := store.CreateGrid("people"); err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}

	latest := persistence.LatestTransaction()
	if latest.Id == "" {
		t.Fatal("Expected a transaction after create")
	}
	if latest.Message != "Creating grid people" {
		t.Errorf("Unexpected message: %s", latest.Message)
	}
	if latest.Author != "test <test@test.com>" {
		t.Errorf("Unexpected author: %s", latest.Author)
	}
}

func TestTransactionsSince(t *testing.T) {
	store := setupTestStore(t)
	persistence := store.Persistence()

	txns, err := persistence.TransactionsSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("Expected no transactions, got %d", len(txns))
	}

	grid, _ := store.CreateGrid("people")
	store.AppendRow(grid, core.Row{"Id"})

	txns, err = persistence.TransactionsSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	if len(txns) != 2 {
		t.Errorf("Expected 2 transactions, got %d", len(txns))
	}
}

func TestGridHistory(t *testing.T) {
	store := setupTestStore(t)

	people, _ := store.CreateGrid("people")
	pets, _ := store.CreateGrid("pets")
	store.AppendRow(people, core.Row{"Id"})
	store.AppendRow(pets, core.Row{"Id"})
	store.AppendRow(people, core.Row{1})

	history, err := store.Persistence().GridHistory("people")
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 commits touching people, got %d", len(history))
	}
	if history[0].Message != "Appending row to people" {
		t.Errorf("Expected newest first, got %s", history[0].Message)
	}
	if history[2].Message != "Creating grid people" {
		t.Errorf("Expected creation last, got %s", history[2].Message)
	}
}
