// Package store persists the entitlement flag and the transactions that set it.
package store

import (
	"context"
	"time"
)

// Transaction kinds recorded by the entitlement gate.
const (
	KindPurchase = "purchase"
	KindRestore  = "restore"
)

// Transaction is one applied entitlement event.
type Transaction struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      string    `json:"kind" yaml:"kind"`
	AppliedAt time.Time `json:"applied_at" yaml:"applied_at"`
}

// Store defines the persistence interface for entitlement state.
type Store interface {
	// Flags
	GetFlag(ctx context.Context, name string) (bool, error)
	SetFlag(ctx context.Context, name string, value bool) error

	// Transactions
	RecordTransaction(ctx context.Context, txn Transaction) (bool, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
