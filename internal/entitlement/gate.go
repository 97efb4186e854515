// Package entitlement gates access to every location behind a persisted,
// grant-only flag.
package entitlement

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/coronalert/internal/store"
)

// FlagAllLocations is the persisted flag name.
const FlagAllLocations = "all_locations"

// Gate answers whether the user may see every location.
type Gate interface {
	IsEntitled(ctx context.Context) bool
	Grant(ctx context.Context, txnID string) error
}

// StoreGate is a Gate backed by a Store. Reads hit an in-memory copy of the
// flag; grants write through to the store.
type StoreGate struct {
	store    store.Store
	entitled atomic.Bool
	mu       sync.Mutex // serializes grants
	log      *zap.Logger
}

// New loads the persisted flag once and returns a ready gate.
func New(ctx context.Context, st store.Store) (*StoreGate, error) {
	v, err := st.GetFlag(ctx, FlagAllLocations)
	if err != nil {
		return nil, eris.Wrap(err, "entitlement: load flag")
	}
	g := &StoreGate{
		store: st,
		log:   zap.L().With(zap.String("component", "entitlement")),
	}
	g.entitled.Store(v)
	return g, nil
}

// IsEntitled implements Gate.
func (g *StoreGate) IsEntitled(_ context.Context) bool {
	return g.entitled.Load()
}

// Grant implements Gate. Each transaction ID is applied at most once; an empty
// ID is treated as a fresh purchase and assigned one.
func (g *StoreGate) Grant(ctx context.Context, txnID string) error {
	_, err := g.apply(ctx, txnID, store.KindPurchase)
	return err
}

// Restore re-applies previously completed transactions. It grants when at least
// one ID is given and reports how many were new to this store.
func (g *StoreGate) Restore(ctx context.Context, txnIDs ...string) (int, error) {
	applied := 0
	for _, id := range txnIDs {
		if id == "" {
			continue
		}
		isNew, err := g.apply(ctx, id, store.KindRestore)
		if err != nil {
			return applied, err
		}
		if isNew {
			applied++
		}
	}
	return applied, nil
}

// Transactions lists the transactions that have been applied.
func (g *StoreGate) Transactions(ctx context.Context) ([]store.Transaction, error) {
	return g.store.ListTransactions(ctx)
}

func (g *StoreGate) apply(ctx context.Context, txnID, kind string) (bool, error) {
	if txnID == "" {
		txnID = uuid.New().String()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	isNew, err := g.store.RecordTransaction(ctx, store.Transaction{
		ID:        txnID,
		Kind:      kind,
		AppliedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, eris.Wrap(err, "entitlement: record transaction")
	}
	if !isNew && g.entitled.Load() {
		g.log.Debug("transaction already applied", zap.String("txn_id", txnID))
		return false, nil
	}

	if err := g.store.SetFlag(ctx, FlagAllLocations, true); err != nil {
		return isNew, eris.Wrap(err, "entitlement: persist flag")
	}
	g.entitled.Store(true)
	g.log.Info("entitlement granted",
		zap.String("txn_id", txnID),
		zap.String("kind", kind),
		zap.Bool("new_transaction", isNew),
	)
	return isNew, nil
}
