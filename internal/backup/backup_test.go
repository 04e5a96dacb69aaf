package backup

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockdesk/internal/inventory"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/categories"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/products"
	"github.com/odyssey-erp/stockdesk/internal/masterdata/settings"
	"github.com/odyssey-erp/stockdesk/internal/shared"
)

var exportedAt = time.Date(2025, 4, 2, 18, 0, 0, 0, time.UTC)

func sampleDocument() Document {
	s := settings.Settings{Currency: "EUR", LowStockThreshold: 3}
	return Document{
		Products: []products.Product{{
			ID: "p1", Name: "Kalem", Category: "Kırtasiye", Stock: 7,
			BuyPrice: decimal.NewFromInt(5), SellPrice: decimal.RequireFromString("8.5"),
			Code: "PRD-K7Q2", CreatedAt: exportedAt.Add(-48 * time.Hour),
		}},
		Transactions: []inventory.Transaction{{
			ID: "t1", ProductID: "p1", ProductName: "Kalem", Type: inventory.DirectionOut, Amount: 3,
			Price: decimal.RequireFromString("8.5"), Total: decimal.RequireFromString("25.5"),
			Profit: decimal.RequireFromString("10.5"), Date: exportedAt.Add(-time.Hour),
		}},
		Settings:   &s,
		Categories: categories.Set{"Genel", "Kırtasiye"},
		ExportDate: exportedAt,
		Version:    Version,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument()))
	require.True(t, strings.HasPrefix(buf.String(), "{\n  \"products\": ["), buf.String())

	doc, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, doc.Products, 1)
	require.Equal(t, "PRD-K7Q2", doc.Products[0].Code)
	require.Equal(t, "8.5", doc.Products[0].SellPrice.String())
	require.Equal(t, "10.5", doc.Transactions[0].Profit.String())
	require.Equal(t, inventory.DirectionOut, doc.Transactions[0].Type)
	require.Equal(t, settings.Settings{Currency: "EUR", LowStockThreshold: 3}, *doc.Settings)
	require.Equal(t, categories.Set{"Genel", "Kırtasiye"}, doc.Categories)
	require.True(t, exportedAt.Equal(doc.ExportDate))
	require.Equal(t, "1.0", doc.Version)

	var again bytes.Buffer
	require.NoError(t, Encode(&again, doc))
	require.JSONEq(t, buf.String(), again.String())
}

func TestEncodeWritesNumericPrices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument()))
	out := buf.String()
	require.Contains(t, out, `"buyPrice": 5,`)
	require.Contains(t, out, `"sellPrice": 8.5,`)
	require.Contains(t, out, `"total": 25.5,`)
	require.NotContains(t, out, `"8.5"`)
}

func TestDecodeFillsBlankSettings(t *testing.T) {
	cases := map[string]struct {
		in   string
		want settings.Settings
	}{
		"null threshold": {
			in:   `{"currency": "USD", "lowStockThreshold": null}`,
			want: settings.Settings{Currency: "USD", LowStockThreshold: settings.DefaultLowStockThreshold},
		},
		"missing threshold": {
			in:   `{"currency": "eur"}`,
			want: settings.Settings{Currency: "EUR", LowStockThreshold: settings.DefaultLowStockThreshold},
		},
		"blank currency": {
			in:   `{"currency": "", "lowStockThreshold": 4}`,
			want: settings.Settings{Currency: settings.DefaultCurrency, LowStockThreshold: 4},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Decode(strings.NewReader(`{"products": [], "transactions": [], "settings": ` + tc.in + `}`))
			require.NoError(t, err)
			require.NotNil(t, doc.Settings)
			require.Equal(t, tc.want, *doc.Settings)
		})
	}
}

func TestDecodeAcceptsNumericPrices(t *testing.T) {
	in := `{"products":[{"id":"1","name":"Vida","category":"Hırdavat","stock":40,"buyPrice":0.35,"sellPrice":1,"code":"PRD-AAAA","createdAt":"2024-11-02T10:00:00.000Z"}],
"transactions":[],"version":"1.0"}`
	doc, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, "0.35", doc.Products[0].BuyPrice.String())
	require.Nil(t, doc.Settings)
	require.Nil(t, doc.Categories)
}

func TestDecodeRejectsMissingArrays(t *testing.T) {
	cases := map[string]string{
		"not json":             `{"products": [`,
		"missing transactions": `{"products": []}`,
		"missing products":     `{"transactions": []}`,
		"null products":        `{"products": null, "transactions": []}`,
		"wrong type":           `{"products": {}, "transactions": []}`,
		"bad settings":         `{"products": [], "transactions": [], "settings": {"currency": "TRY", "lowStockThreshold": 0}}`,
		"unknown currency":     `{"products": [], "transactions": [], "settings": {"currency": "XYZ1", "lowStockThreshold": 5}}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			require.ErrorIs(t, err, ErrInvalidFormat)
			require.ErrorIs(t, err, shared.ErrFormat)
		})
	}
}

func TestDecodeEmptyArraysAreValid(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"products": [], "transactions": [], "categories": []}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Products)
	require.NotNil(t, doc.Transactions)
	require.NotNil(t, doc.Categories)
	require.Empty(t, doc.Categories)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "stok-takip-yedek-02-04-2025.json", Filename(exportedAt))
}
