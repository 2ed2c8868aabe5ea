package storage

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-tableview/pkg/types"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)
	bunStore, err := NewBunStore(BunStoreConfig{DB: db})
	require.NoError(t, err)

	stores := map[string]types.Store{
		"memory": NewMemoryStore(),
		"bun":    bunStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Get(ctx, "table-t1-view")
			require.NoError(t, err)
			require.False(t, found)

			value := map[string]any{
				"useDefault":     false,
				"customSettings": map[string]any{"sortBy": "name", "visibleColumns": []any{"a", "b"}},
			}
			require.NoError(t, store.Set(ctx, "table-t1-view", value))
			value["useDefault"] = true

			got, found, err := store.Get(ctx, "table-t1-view")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, false, got["useDefault"], "stored values are detached from the caller")
			custom := got["customSettings"].(map[string]any)
			require.Equal(t, "name", custom["sortBy"])
			require.Equal(t, []any{"a", "b"}, custom["visibleColumns"])

			require.NoError(t, store.Set(ctx, "table-t1-view", map[string]any{"useDefault": true}))
			got, _, err = store.Get(ctx, "table-t1-view")
			require.NoError(t, err)
			require.Equal(t, map[string]any{"useDefault": true}, got)

			require.NoError(t, store.Delete(ctx, "table-t1-view"))
			require.NoError(t, store.Delete(ctx, "table-t1-view"))
			_, found, err = store.Get(ctx, "table-t1-view")
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestBunStore_VersionBumpsOnWrite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)
	clock := &fixedClock{now: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	store, err := NewBunStore(BunStoreConfig{DB: db, Clock: clock})
	require.NoError(t, err)

	version, err := store.Version(ctx, "table-pinning-t1")
	require.NoError(t, err)
	require.Zero(t, version)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Set(ctx, "table-pinning-t1", map[string]any{"n": i}))
	}
	version, err = store.Version(ctx, "table-pinning-t1")
	require.NoError(t, err)
	require.Equal(t, 3, version)

	record, err := store.GetByID(ctx, KeyID("table-pinning-t1").String())
	require.NoError(t, err)
	require.Equal(t, "table-pinning-t1", record.Key)
	require.True(t, clock.now.Equal(record.CreatedAt))
	require.Equal(t, KeyID("table-pinning-t1"), KeyID(" table-pinning-t1 "))
	require.NotEqual(t, KeyID("table-pinning-t1"), KeyID("table-pinning-t2"))

	require.Error(t, store.Set(ctx, " ", map[string]any{}))
}

func TestBunStore_CacheWrapsRepository(t *testing.T) {
	db := newTestDB(t)
	applyDDL(t, db)

	store, err := NewBunStore(BunStoreConfig{Repository: NewStateRepository(db)}, WithCache())
	require.NoError(t, err)
	_, ok := store.stateRepository.(*repositorycache.CachedRepository[*StateRecord])
	require.True(t, ok)

	cacheService, err := cache.NewCacheService(cache.DefaultConfig())
	require.NoError(t, err)
	cached := repositorycache.New(NewStateRepository(db), cacheService, cache.NewDefaultKeySerializer())
	store, err = NewBunStore(BunStoreConfig{Repository: cached}, WithCache(cache.DefaultConfig()))
	require.NoError(t, err)
	stored, ok := store.stateRepository.(*repositorycache.CachedRepository[*StateRecord])
	require.True(t, ok)
	require.Same(t, cached, stored)
}

func TestBunStore_CachedReadsAndInvalidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	spy := &spyStateRepository{Repository: NewStateRepository(db)}
	store, err := NewBunStore(BunStoreConfig{Repository: spy}, WithCache())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "table-t1-view", map[string]any{"useDefault": true}))

	spy.getCalls = 0
	_, _, err = store.Get(ctx, "table-t1-view")
	require.NoError(t, err)
	_, _, err = store.Get(ctx, "table-t1-view")
	require.NoError(t, err)
	require.Equal(t, 1, spy.getCalls)

	require.NoError(t, store.Set(ctx, "table-t1-view", map[string]any{"useDefault": false}))
	spy.getCalls = 0
	got, _, err := store.Get(ctx, "table-t1-view")
	require.NoError(t, err)
	require.Equal(t, false, got["useDefault"])
	require.Equal(t, 1, spy.getCalls)
}

func TestBunStore_KeyPrefixSeparatesOwners(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	alice, err := NewBunStore(BunStoreConfig{DB: db}, WithKeyPrefix("alice"))
	require.NoError(t, err)
	bob, err := NewBunStore(BunStoreConfig{DB: db}, WithKeyPrefix(" bob "), WithCache())
	require.NoError(t, err)

	require.NoError(t, alice.Set(ctx, "table-pinning-t1", map[string]any{"owner": "alice"}))
	_, found, err := bob.Get(ctx, "table-pinning-t1")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, bob.Set(ctx, "table-pinning-t1", map[string]any{"owner": "bob"}))
	got, found, err := alice.Get(ctx, "table-pinning-t1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "alice", got["owner"])

	record, err := alice.GetByID(ctx, KeyID("alice:table-pinning-t1").String())
	require.NoError(t, err)
	require.Equal(t, "alice:table-pinning-t1", record.Key)

	require.NoError(t, bob.Delete(ctx, "table-pinning-t1"))
	_, found, err = alice.Get(ctx, "table-pinning-t1")
	require.NoError(t, err)
	require.True(t, found)
}

func TestNewBunStore_RequiresBackend(t *testing.T) {
	_, err := NewBunStore(BunStoreConfig{})
	require.Error(t, err)
}

type spyStateRepository struct {
	repository.Repository[*StateRecord]
	getCalls int
}

func (s *spyStateRepository) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*StateRecord, error) {
	s.getCalls++
	return s.Repository.GetByID(ctx, id, criteria...)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func newTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyDDL(t *testing.T, db *bun.DB) {
	content, err := os.ReadFile("../data/sql/migrations/sqlite/000001_tableview_state.up.sql")
	require.NoError(t, err)
	for _, stmt := range strings.Split(string(content), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}
