package state

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockdesk/internal/backup"
	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
)

func TestExportRestoreRoundTrip(t *testing.T) {
	src := newFixture(t)
	ctx := context.Background()
	p, err := src.store.AddProduct(ctx, form("Kalem", "Kırtasiye", 5, 2, 3))
	require.NoError(t, err)
	_, err = src.store.ApplyStockOperation(ctx, p.ID, inventory.DirectionOut, 2)
	require.NoError(t, err)
	_, err = src.store.UpdateSettings(ctx, settings.Settings{Currency: "EUR", LowStockThreshold: 4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, backup.Encode(&buf, src.store.Export(baseTime)))
	doc, err := backup.Decode(&buf)
	require.NoError(t, err)

	dst := newFixture(t)
	require.NoError(t, dst.store.Restore(ctx, doc))

	var again bytes.Buffer
	require.NoError(t, backup.Encode(&again, dst.store.Export(baseTime)))
	var first bytes.Buffer
	require.NoError(t, backup.Encode(&first, src.store.Export(baseTime)))
	require.JSONEq(t, first.String(), again.String())
}

func TestRestoreKeepsAbsentSettingsAndCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.UpdateSettings(ctx, settings.Settings{Currency: "GBP", LowStockThreshold: 2})
	require.NoError(t, err)

	err = f.store.Restore(ctx, backup.Document{
		Products:     []products.Product{{ID: "a", Name: "Vida", Category: "Hırdavat", Code: "PRD-AAAA"}},
		Transactions: []inventory.Transaction{},
	})
	require.NoError(t, err)
	require.Equal(t, "GBP", f.store.Settings().Currency)
	require.Equal(t, categories.Defaults(), f.store.Categories())
	require.Len(t, f.store.Products(products.Filter{}), 1)
}

func TestRestoreRejectsMissingArrays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.AddProduct(ctx, form("Kalem", "Kırtasiye", 5, 2, 3))
	require.NoError(t, err)
	before := f.store.Snapshot()

	err = f.store.Restore(ctx, backup.Document{Products: []products.Product{}})
	require.ErrorIs(t, err, backup.ErrInvalidFormat)
	require.Equal(t, before, f.store.Snapshot())
}

func TestImportDraftsAppendsAndFillsGaps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing, err := f.store.AddProduct(ctx, form("Kalem", "Kırtasiye", 5, 2, 3))
	require.NoError(t, err)

	n, err := f.store.ImportDrafts(ctx, []products.Draft{
		{Name: "Vida", Category: "Hırdavat", Stock: 10, BuyPrice: decimal.NewFromInt(1), SellPrice: decimal.NewFromInt(2), Code: "SKU-9"},
		{Name: "  ", Category: "Genel", Stock: 3},
		{Name: "Hortum", Stock: -4},
		{Name: "Tohum", Category: "Bahçe", Stock: 1},
	}, "xlsx")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	list := f.store.Products(products.Filter{})
	require.Len(t, list, 4)
	require.Equal(t, existing.ID, list[0].ID, "imports are appended")
	require.Equal(t, "SKU-9", list[1].Code)

	hortum := list[2]
	require.Equal(t, categories.Fallback, hortum.Category)
	require.True(t, products.IsGeneratedCode(hortum.Code), hortum.Code)
	require.Zero(t, hortum.Stock)
	require.True(t, hortum.BuyPrice.IsZero())

	require.True(t, f.store.Categories().Contains("Bahçe"))
	require.Empty(t, f.store.Transactions(0), "imports create no transactions")
}

func TestImportDraftsCustomFallback(t *testing.T) {
	store, err := Open(context.Background(), newRecordingBackend(), Options{FallbackCategory: "Diğer"})
	require.NoError(t, err)
	n, err := store.ImportDrafts(context.Background(), []products.Draft{{Name: "Ip"}}, "csv")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "Diğer", store.Products(products.Filter{})[0].Category)
	require.True(t, store.Categories().Contains("Diğer"))
}
