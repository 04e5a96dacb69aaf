package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "products")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "products", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, "products", []byte(`[{"id":"1"}]`)))
	got, err := store.Get(ctx, "products")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, PutAll(ctx, store, map[string][]byte{
		"settings":   []byte(`{"currency":"TRY"}`),
		"categories": []byte(`["Genel"]`),
	}))
	got, err = store.Get(ctx, "categories")
	require.NoError(t, err)
	require.JSONEq(t, `["Genel"]`, string(got))
	require.NoError(t, store.Close())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte(`"a"`)
	require.NoError(t, store.Put(context.Background(), "k", value))
	value[1] = 'b'
	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, `"a"`, string(got))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, store)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.ElementsMatch(t, []string{"products.json", "settings.json", "categories.json"}, names)
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	err = store.Put(context.Background(), "../escape", []byte(`{}`))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}

type failingStore struct {
	MemoryStore
	calls int
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	f.calls++
	return errors.New("disk full")
}

func TestPutAllFallsBackToPut(t *testing.T) {
	store := &failingStore{MemoryStore: *NewMemoryStore()}
	err := PutAll(context.Background(), plainStore{store}, map[string][]byte{"a": nil})
	require.EqualError(t, err, "disk full")
	require.Equal(t, 1, store.calls)
}

// plainStore hides PutMany so PutAll takes the per-key path.
type plainStore struct{ s *failingStore }

func (p plainStore) Get(ctx context.Context, key string) ([]byte, error) { return p.s.Get(ctx, key) }
func (p plainStore) Put(ctx context.Context, key string, value []byte) error {
	return p.s.Put(ctx, key, value)
}
func (p plainStore) Close() error { return nil }
