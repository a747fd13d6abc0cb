package repository

// Test index:
//  1. TestSignStateRoundTrip writes and reads back maps of 0, 1 and 1000 entries on every backend.
//  2. TestLoadMalformedIsEmpty treats unparseable documents as first-run state.
//  3. TestLoadStoreError propagates backend failures.
//  4. TestOrderRepositoryAddDelete covers the order list write path.
//  5. TestSubscriptionRepositoryDedupe keeps one record per endpoint.
//  6. TestCompact drops entries of deleted orders.
//  7. TestListBadRecord* keep valid records readable next to a bad one.
//  8. TestWritePathsRefuseMalformedDocument never save over an unreadable list.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positionalerts/src/database"
	"positionalerts/src/model"
	"positionalerts/src/store"
)

const ns = "test"

type failingStore struct{ err error }

func (f failingStore) Load(context.Context, string, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Save(context.Context, string, string, []byte) error  { return f.err }

func backends(t *testing.T) map[string]store.Store {
	t.Helper()

	db, err := database.OpenSQLite(database.Config{
		SQLitePath:   filepath.Join(t.TempDir(), "kv.db"),
		GormLogLevel: 1,
	})
	require.NoError(t, err)
	gs := store.NewGormStore(db)
	t.Cleanup(func() { _ = gs.Close() })

	mr := miniredis.RunT(t)
	rs, err := store.NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	return map[string]store.Store{
		"memory": store.NewMemoryStore(),
		"sqlite": gs,
		"redis":  rs,
	}
}

func signStateOfSize(n int) model.SignState {
	state := make(model.SignState, n)
	for i := 0; i < n; i++ {
		state[fmt.Sprintf("order-%d", i)] = i%3 - 1
	}
	return state
}

func TestSignStateRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		for _, size := range []int{0, 1, 1000} {
			t.Run(fmt.Sprintf("%s/%d", name, size), func(t *testing.T) {
				repo := NewSignStateRepository(s, fmt.Sprintf("%s-%d", ns, size))
				want := signStateOfSize(size)

				require.NoError(t, repo.Save(context.Background(), want))
				got, err := repo.Load(context.Background())
				require.NoError(t, err)

				assert.Equal(t, want, got)
			})
		}
	}
}

func TestSignStateLoadFirstRun(t *testing.T) {
	repo := NewSignStateRepository(store.NewMemoryStore(), ns)
	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Save(ctx, ns, KeyOrders, []byte(`{not json`)))
	require.NoError(t, s.Save(ctx, ns, KeySignState, []byte(`{"a":1,"b":"up"}`)))
	require.NoError(t, s.Save(ctx, ns, KeySubscriptions, []byte(`"nope"`)))

	orders, err := NewOrderRepository(s, ns).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	state, err := NewSignStateRepository(s, ns).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state, "partially decoded maps must not leak")

	subs, err := NewSubscriptionRepository(s, ns).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestLoadStoreError(t *testing.T) {
	boom := errors.New("store unreachable")
	s := failingStore{err: boom}
	ctx := context.Background()

	_, err := NewOrderRepository(s, ns).Load(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = NewSubscriptionRepository(s, ns).Load(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = NewSignStateRepository(s, ns).Load(ctx)
	assert.ErrorIs(t, err, boom)

	err = NewSignStateRepository(s, ns).Save(ctx, model.SignState{"a": 1})
	assert.ErrorIs(t, err, boom)
}

func TestOrderRepositoryAddDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(store.NewMemoryStore(), ns)

	require.NoError(t, repo.Add(ctx, model.Order{ID: "a", Asset: "ETH", Quantity: 1, EntryPrice: 2000, Side: model.SideSell}))
	require.NoError(t, repo.Add(ctx, model.Order{ID: "b", Asset: "BTC", Quantity: 0.1, EntryPrice: 60000, Side: model.SideBuy}))

	orders, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, "b", orders[1].ID)

	deleted, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	orders, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "b", orders[0].ID)
}

func TestOrderRepositorySaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, NewOrderRepository(s, ns).Save(ctx, nil))

	raw, err := s.Load(ctx, ns, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func sub(t *testing.T, endpoint, auth string) model.Subscription {
	t.Helper()
	s, err := model.ParseSubscription([]byte(fmt.Sprintf(`{"endpoint":%q,"keys":{"p256dh":"k","auth":%q}}`, endpoint, auth)))
	require.NoError(t, err)
	return s
}

func TestSubscriptionRepositoryDedupe(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepository(store.NewMemoryStore(), ns)

	created, err := repo.Add(ctx, sub(t, "https://push/1", "one"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Add(ctx, sub(t, "https://push/2", "two"))
	require.NoError(t, err)
	assert.True(t, created)

	// re-subscribing the same browser replaces its keys
	created, err = repo.Add(ctx, sub(t, "https://push/1", "rotated"))
	require.NoError(t, err)
	assert.False(t, created)

	subs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "https://push/1", subs[0].Endpoint)
	assert.Contains(t, string(subs[0].Raw), "rotated")

	removed, err := repo.Remove(ctx, "https://push/2")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "https://push/2")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSubscriptionRepositorySaveDedupes(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepository(store.NewMemoryStore(), ns)

	require.NoError(t, repo.Save(ctx, []model.Subscription{
		sub(t, "https://push/1", "a"),
		sub(t, "https://push/1", "b"),
		{Endpoint: ""},
		sub(t, "https://push/2", "c"),
	}))

	subs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Contains(t, string(subs[0].Raw), `"a"`)
}

func TestCompact(t *testing.T) {
	state := model.SignState{"a": 1, "b": -1, "gone": 1, "also-gone": 0}
	orders := []model.Order{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	dropped := Compact(state, orders)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, model.SignState{"a": 1, "b": -1}, state)
}

const ordersWithBadRecord = `[` +
	`{"id":"a","timestamp":1,"asset":"ETH","quantity":1,"entryPrice":2000,"side":"SELL"},` +
	`{"id":"b","timestamp":2,"asset":"BTC","quantity":"0.5","entryPrice":60000,"side":"BUY"}` +
	`]`

func TestListBadRecordOrders(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Save(ctx, ns, KeyOrders, []byte(ordersWithBadRecord)))
	repo := NewOrderRepository(s, ns)

	orders, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].ID)

	require.NoError(t, repo.Add(ctx, model.Order{ID: "c", Asset: "SOL", Quantity: 3, EntryPrice: 150, Side: model.SideBuy}))

	orders, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, "c", orders[1].ID)

	raw, err := s.Load(ctx, ns, KeyOrders)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"quantity":"0.5"`, "undecodable record is kept for manual repair")

	deleted, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	raw, err = s.Load(ctx, ns, KeyOrders)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"b"`)
	assert.NotContains(t, string(raw), `"id":"a"`)
}

func TestListBadRecordSubscriptions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Save(ctx, ns, KeySubscriptions,
		[]byte(`[{"endpoint":"https://push/1","keys":{"p256dh":"k","auth":"a"}},{"endpoint":5}]`)))
	repo := NewSubscriptionRepository(s, ns)

	subs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push/1", subs[0].Endpoint)

	created, err := repo.Add(ctx, sub(t, "https://push/2", "two"))
	require.NoError(t, err)
	assert.True(t, created)

	removed, err := repo.Remove(ctx, "https://push/1")
	require.NoError(t, err)
	assert.True(t, removed)

	subs, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push/2", subs[0].Endpoint)

	raw, err := s.Load(ctx, ns, KeySubscriptions)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `{"endpoint":5}`)
}

func TestWritePathsRefuseMalformedDocument(t *testing.T) {
	ctx := context.Background()
	const broken = `{"orders":[`
	s := store.NewMemoryStore()
	require.NoError(t, s.Save(ctx, ns, KeyOrders, []byte(broken)))
	require.NoError(t, s.Save(ctx, ns, KeySubscriptions, []byte(broken)))

	orders := NewOrderRepository(s, ns)
	subs := NewSubscriptionRepository(s, ns)

	err := orders.Add(ctx, model.Order{ID: "c", Asset: "ETH", Quantity: 1, EntryPrice: 1})
	assert.ErrorIs(t, err, ErrMalformedDocument)
	_, err = orders.Delete(ctx, "c")
	assert.ErrorIs(t, err, ErrMalformedDocument)
	_, err = subs.Add(ctx, sub(t, "https://push/1", "one"))
	assert.ErrorIs(t, err, ErrMalformedDocument)
	_, err = subs.Remove(ctx, "https://push/1")
	assert.ErrorIs(t, err, ErrMalformedDocument)

	for _, key := range []string{KeyOrders, KeySubscriptions} {
		raw, err := s.Load(ctx, ns, key)
		require.NoError(t, err)
		assert.Equal(t, broken, string(raw), key)
	}
}
