package store

// Test index:
//  1. TestBackendsRoundTrip runs the same contract against memory, sqlite and miniredis.
//  2. TestGormStoreLoadMissing maps gorm.ErrRecordNotFound to an empty result.
//  3. TestGormStoreSaveUpserts checks the ON CONFLICT upsert statement.
//  4. TestGormStoreLoadError surfaces driver errors.
//  5. TestRedisStoreUnreachable fails fast when the server is down.
//  6. TestResolveBackend covers automatic backend selection.

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"positionalerts/src/database"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}
	return gdb, mock
}

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.OpenSQLite(database.Config{
		SQLitePath:   filepath.Join(t.TempDir(), "kv.db"),
		GormLogLevel: 1,
	})
	require.NoError(t, err)
	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMiniredisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBackendsRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t) },
		"redis":  func(t *testing.T) Store { return newMiniredisStore(t) },
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := build(t)

			got, err := s.Load(ctx, "ns", "orders")
			require.NoError(t, err)
			assert.Nil(t, got, "never-written key must load as nil")

			require.NoError(t, s.Save(ctx, "ns", "orders", []byte(`[{"id":"a"}]`)))
			got, err = s.Load(ctx, "ns", "orders")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"a"}]`, string(got))

			// full replacement, no merge
			require.NoError(t, s.Save(ctx, "ns", "orders", []byte(`[]`)))
			got, err = s.Load(ctx, "ns", "orders")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			// namespaces are isolated
			got, err = s.Load(ctx, "other", "orders")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestGormStoreLoadMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "kv_entries" WHERE namespace = $1 AND entry_key = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"namespace", "entry_key", "value", "updated_at"}))

	got, err := s.Load(context.Background(), "ns", "subscriptions")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreSaveUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "kv_entries"`) + `.+` +
		regexp.QuoteMeta(`ON CONFLICT ("namespace","entry_key") DO UPDATE SET`)).
		WithArgs("ns", "signs", `{"a":1}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Save(context.Background(), "ns", "signs", []byte(`{"a":1}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreLoadError(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "kv_entries"`)).
		WillReturnError(errors.New("connection refused"))

	_, err := s.Load(context.Background(), "ns", "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), "redis://"+addr)
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), "::not a url")
	assert.Error(t, err)
}

func TestRedisStoreKeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), "cryptotracker", "signs", []byte(`{}`)))
	v, err := mr.Get("cryptotracker:signs")
	require.NoError(t, err)
	assert.Equal(t, `{}`, v)
}

func TestResolveBackend(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		dbCfg   database.Config
		want    string
		wantErr bool
	}{
		{name: "explicit", cfg: Config{Backend: BackendMemory}, want: BackendMemory},
		{name: "redis url", cfg: Config{RedisURL: "redis://x"}, dbCfg: database.Config{DatabaseURL: "postgres://x"}, want: BackendRedis},
		{name: "database url", dbCfg: database.Config{DatabaseURL: "postgres://x"}, want: BackendPostgres},
		{name: "dev fallback", cfg: Config{AppEnv: "development"}, want: BackendSQLite},
		{name: "production without backend", cfg: Config{AppEnv: "production"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveBackend(tc.cfg, tc.dbCfg)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "etcd"}, database.Config{})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
