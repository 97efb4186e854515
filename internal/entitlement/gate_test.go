package entitlement

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/coronalert/internal/store"
)

func newTestStore(t *testing.T, path string) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

var _ Gate = (*StoreGate)(nil)

func TestGate_StartsLocked(t *testing.T) {
	st := newTestStore(t, filepath.Join(t.TempDir(), "e.db"))

	g, err := New(context.Background(), st)
	require.NoError(t, err)
	assert.False(t, g.IsEntitled(context.Background()))
}

func TestGate_GrantPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "e.db")
	st := newTestStore(t, path)

	g, err := New(ctx, st)
	require.NoError(t, err)
	require.NoError(t, g.Grant(ctx, "txn-1"))
	assert.True(t, g.IsEntitled(ctx))

	reopened, err := New(ctx, newTestStore(t, path))
	require.NoError(t, err)
	assert.True(t, reopened.IsEntitled(ctx), "flag must survive a new gate instance")
}

func TestGate_GrantIdempotentPerTransaction(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, filepath.Join(t.TempDir(), "e.db"))
	g, err := New(ctx, st)
	require.NoError(t, err)

	require.NoError(t, g.Grant(ctx, "txn-1"))
	require.NoError(t, g.Grant(ctx, "txn-1"))
	require.NoError(t, g.Grant(ctx, "txn-2"))

	txns, err := g.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.True(t, g.IsEntitled(ctx))
}

func TestGate_GrantAssignsIDWhenEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, filepath.Join(t.TempDir(), "e.db"))
	g, err := New(ctx, st)
	require.NoError(t, err)

	require.NoError(t, g.Grant(ctx, ""))
	require.NoError(t, g.Grant(ctx, ""))

	txns, err := g.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.NotEqual(t, txns[0].ID, txns[1].ID)
	assert.Len(t, txns[0].ID, 36)
}

func TestGate_Restore(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, filepath.Join(t.TempDir(), "e.db"))
	g, err := New(ctx, st)
	require.NoError(t, err)

	n, err := g.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, g.IsEntitled(ctx), "restore with nothing to restore grants nothing")

	n, err = g.Restore(ctx, "txn-a", "", "txn-b", "txn-a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, g.IsEntitled(ctx))

	txns, err := g.Transactions(ctx)
	require.NoError(t, err)
	for _, txn := range txns {
		assert.Equal(t, store.KindRestore, txn.Kind)
	}
}

func TestGate_ConcurrentGrantsAndReads(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, filepath.Join(t.TempDir(), "e.db"))
	g, err := New(ctx, st)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Grant(ctx, "same-txn"))
		}()
		go func() {
			defer wg.Done()
			_ = g.IsEntitled(ctx)
		}()
	}
	wg.Wait()

	assert.True(t, g.IsEntitled(ctx))
	txns, err := g.Transactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetFlag(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) SetFlag(ctx context.Context, name string, value bool) error {
	return m.Called(ctx, name, value).Error(0)
}

func (m *mockStore) RecordTransaction(ctx context.Context, txn store.Transaction) (bool, error) {
	args := m.Called(ctx, txn)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ListTransactions(ctx context.Context) ([]store.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Transaction), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockStore) Close() error { return m.Called().Error(0) }

func TestGate_LoadError(t *testing.T) {
	ms := &mockStore{}
	ms.On("GetFlag", mock.Anything, FlagAllLocations).Return(false, errors.New("disk gone"))

	_, err := New(context.Background(), ms)
	assert.Error(t, err)
}

func TestGate_PersistFailureLeavesLocked(t *testing.T) {
	ctx := context.Background()
	ms := &mockStore{}
	ms.On("GetFlag", mock.Anything, FlagAllLocations).Return(false, nil)
	ms.On("RecordTransaction", mock.Anything, mock.Anything).Return(true, nil)
	ms.On("SetFlag", mock.Anything, FlagAllLocations, true).Return(errors.New("read-only"))

	g, err := New(ctx, ms)
	require.NoError(t, err)
	assert.Error(t, g.Grant(ctx, "txn-1"))
	assert.False(t, g.IsEntitled(ctx))
}
