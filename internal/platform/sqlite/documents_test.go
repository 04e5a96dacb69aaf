package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
)

func setupStore(t *testing.T) *DocumentStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	store, err := NewDocumentStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDocumentStoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "products")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Put(ctx, "products", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, "products", []byte(`[{"id":"a"}]`)))
	got, err := store.Get(ctx, "products")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"a"}]`, string(got))

	var count int64
	require.NoError(t, store.db.Model(&Document{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestDocumentStorePutMany(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, kv.PutAll(ctx, store, map[string][]byte{
		"settings":   []byte(`{"currency":"TRY","lowStockThreshold":10}`),
		"categories": []byte(`["Genel"]`),
	}))
	got, err := store.Get(ctx, "categories")
	require.NoError(t, err)
	require.JSONEq(t, `["Genel"]`, string(got))
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "settings", []byte(`{}`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "settings")
	require.NoError(t, err)
	require.Equal(t, `{}`, string(got))
}
