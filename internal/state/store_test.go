package state

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
	"github.com/odyssey-erp/stockdesk/internal/observability"
	"github.com/odyssey-erp/stockdesk/internal/platform/kv"
)

var baseTime = time.Date(2025, 5, 6, 8, 0, 0, 0, time.UTC)

// recordingBackend counts writes per key and can be told to fail them.
type recordingBackend struct {
	*kv.MemoryStore
	mu     sync.Mutex
	writes map[string]int
	fail   error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{MemoryStore: kv.NewMemoryStore(), writes: map[string]int{}}
}

func (b *recordingBackend) Put(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	b.writes[key]++
	return b.MemoryStore.Put(ctx, key, value)
}

func (b *recordingBackend) PutMany(ctx context.Context, docs map[string][]byte) error {
	for key, value := range docs {
		if err := b.Put(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (b *recordingBackend) writeCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes[key]
}

type fixture struct {
	store   *Store
	backend *recordingBackend
	metrics *observability.Metrics
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{backend: newRecordingBackend(), metrics: observability.NewMetrics(), clock: baseTime}
	seq := 0
	store, err := Open(context.Background(), f.backend, Options{
		Metrics: f.metrics,
		Now:     func() time.Time { return f.clock },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
		Codes: products.NewCodeGenerator(rand.NewPCG(1, 1)),
	})
	require.NoError(t, err)
	f.store = store
	return f
}

func form(name, category string, stock int, buy, sell int64) products.ProductForm {
	return products.ProductForm{
		Name:      name,
		Category:  category,
		Stock:     stock,
		BuyPrice:  decimal.NewFromInt(buy),
		SellPrice: decimal.NewFromInt(sell),
	}
}

func TestOpenEmptyBackendStartsWithDefaults(t *testing.T) {
	f := newFixture(t)
	snap := f.store.Snapshot()
	require.Empty(t, snap.Products)
	require.Empty(t, snap.Transactions)
	require.Equal(t, settings.Defaults(), snap.Settings)
	require.Equal(t, categories.Defaults(), snap.Categories)
	require.Zero(t, f.backend.writeCount(KeySettings), "opening must not write")
}

func TestOpenLoadsPersistedDocuments(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, KeySettings, []byte(`{"currency":"USD","lowStockThreshold":2}`)))
	require.NoError(t, backend.Put(ctx, KeyCategories, []byte(`["Bahçe"]`)))
	require.NoError(t, backend.Put(ctx, KeyProducts, []byte(`[{"id":"x","name":"Hortum","category":"Bahçe","stock":1,"buyPrice":10,"sellPrice":15,"code":"PRD-HHHH","createdAt":"2025-01-01T00:00:00Z"}]`)))
	require.NoError(t, backend.Put(ctx, KeyTransactions, []byte(`null`)))

	store, err := Open(ctx, backend, Options{})
	require.NoError(t, err)
	snap := store.Snapshot()
	require.Equal(t, "USD", snap.Settings.Currency)
	require.Equal(t, categories.Set{"Bahçe"}, snap.Categories)
	require.Len(t, snap.Products, 1)
	require.Equal(t, "15", snap.Products[0].SellPrice.String())
	require.NotNil(t, snap.Transactions)
	require.Len(t, store.LowStock(), 1)
}

func TestOpenFailsOnCorruptDocument(t *testing.T) {
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(context.Background(), KeyProducts, []byte(`{not json`)))
	_, err := Open(context.Background(), backend, Options{})
	require.ErrorContains(t, err, "state: decode products")
}

func TestStateSurvivesReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.store.AddProduct(ctx, form("Kalem", "Kırtasiye", 5, 2, 3))
	require.NoError(t, err)
	_, err = f.store.ApplyStockOperation(ctx, p.Code, "OUT", 2)
	require.NoError(t, err)

	reopened, err := Open(ctx, f.backend, Options{})
	require.NoError(t, err)
	want, got := f.store.Totals(), reopened.Totals()
	require.Equal(t, want.InventoryValue.String(), got.InventoryValue.String())
	require.Equal(t, want.CashBalance.String(), got.CashBalance.String())
	require.Equal(t, want.TotalProfit.String(), got.TotalProfit.String())
	found, err := reopened.FindProduct(p.ID)
	require.NoError(t, err)
	require.Equal(t, 3, found.Stock)
	require.Len(t, reopened.Transactions(0), 1)
}

func TestUnchangedDocumentsAreNotRewritten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddProduct(ctx, form("Kalem", "Kırtasiye", 5, 2, 3))
	require.NoError(t, err)
	require.Equal(t, 1, f.backend.writeCount(KeyProducts))
	require.Zero(t, f.backend.writeCount(KeyTransactions))
	require.Zero(t, f.backend.writeCount(KeySettings))
	require.Zero(t, f.backend.writeCount(KeyCategories))

	added, err := f.store.AddCategory(ctx, "Kırtasiye")
	require.NoError(t, err)
	require.False(t, added)
	require.Zero(t, f.backend.writeCount(KeyCategories))
}

func TestFailedPersistLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.store.AddProduct(ctx, form("Kalem", "Kırtasiye", 5, 2, 3))
	require.NoError(t, err)
	before := f.store.Snapshot()

	f.backend.fail = errors.New("disk full")
	_, err = f.store.ApplyStockOperation(ctx, p.ID, "IN", 4)
	require.ErrorContains(t, err, "disk full")
	_, err = f.store.AddCategory(ctx, "Bahçe")
	require.Error(t, err)
	require.Error(t, f.store.Reset(ctx))

	require.Equal(t, before, f.store.Snapshot())

	f.backend.fail = nil
	res, err := f.store.ApplyStockOperation(ctx, p.ID, "IN", 4)
	require.NoError(t, err)
	require.Equal(t, 9, res.Product.Stock)
}

func TestStoredDocumentsUseNumericPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.store.AddProduct(ctx, products.ProductForm{
		Name: "Kalem", Category: "Kırtasiye", Stock: 5,
		BuyPrice: decimal.RequireFromString("2.5"), SellPrice: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	_, err = f.store.ApplyStockOperation(ctx, p.ID, inventory.DirectionOut, 2)
	require.NoError(t, err)

	raw, err := f.backend.Get(ctx, KeyProducts)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"buyPrice":2.5`)
	require.Contains(t, string(raw), `"sellPrice":4`)

	raw, err = f.backend.Get(ctx, KeyTransactions)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"total":8`)
	require.Contains(t, string(raw), `"profit":3`)

	reopened, err := Open(ctx, f.backend, Options{})
	require.NoError(t, err)
	got, err := reopened.FindProduct(p.ID)
	require.NoError(t, err)
	require.Equal(t, "2.5", got.BuyPrice.String())
}
