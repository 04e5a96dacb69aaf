package products

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockdesk/internal/shared"
)

func TestCodeGeneratorShape(t *testing.T) {
	gen := NewCodeGenerator(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		code := gen.Next()
		require.True(t, strings.HasPrefix(code, CodePrefix), code)
		require.Len(t, code, len(CodePrefix)+4)
		require.True(t, IsGeneratedCode(code), code)
	}
	require.True(t, IsGeneratedCode(NewCodeGenerator(nil).Next()))
}

func TestCodeGeneratorUniqueSkipsTaken(t *testing.T) {
	seeded := NewCodeGenerator(rand.NewPCG(7, 7))
	first := seeded.Next()

	gen := NewCodeGenerator(rand.NewPCG(7, 7))
	code, err := gen.Unique(func(c string) bool { return c == first })
	require.NoError(t, err)
	require.NotEqual(t, first, code)

	_, err = gen.Unique(func(string) bool { return true })
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestIsGeneratedCode(t *testing.T) {
	require.False(t, IsGeneratedCode("PRD-abc1"))
	require.False(t, IsGeneratedCode("SKU-ABC1"))
	require.False(t, IsGeneratedCode("PRD-ABC12"))
}

func TestProductFormValidate(t *testing.T) {
	form := ProductForm{Name: "  M7 Vida ", Category: " Hırdavat", Stock: 3, BuyPrice: decimal.NewFromInt(2), SellPrice: decimal.NewFromInt(3)}
	require.NoError(t, form.Validate())
	require.Equal(t, "M7 Vida", form.Name)
	require.Equal(t, "Hırdavat", form.Category)

	bad := ProductForm{Name: " ", Stock: -1, BuyPrice: decimal.NewFromFloat(-0.5)}
	err := bad.Validate()
	require.ErrorIs(t, err, shared.ErrValidation)
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "category")
	require.Contains(t, fields, "stock")
	require.Contains(t, fields, "buyPrice")
	require.NotContains(t, fields, "sellPrice")

	huge := ProductForm{Name: "Vida", Category: "Hırdavat", Stock: MaxStock + 1}
	err = huge.Validate()
	require.ErrorIs(t, err, shared.ErrValidation)
	require.ErrorAs(t, err, &fields)
	require.Equal(t, "must be at most 1000000000", fields["stock"])

	full := ProductForm{Name: "Vida", Category: "Hırdavat", Stock: MaxStock}
	require.NoError(t, full.Validate())
}

func TestFormApplyKeepsIdentity(t *testing.T) {
	p := Product{ID: "id-1", Code: "PRD-AAAA", Name: "Old", Stock: 1}
	form := ProductForm{Name: "New", Category: "Genel", Stock: 9, BuyPrice: decimal.NewFromInt(1), SellPrice: decimal.NewFromInt(2)}
	got := form.Apply(p)
	require.Equal(t, "id-1", got.ID)
	require.Equal(t, "PRD-AAAA", got.Code)
	require.Equal(t, "New", got.Name)
	require.Equal(t, 9, got.Stock)
}

func TestFilter(t *testing.T) {
	items := []Product{
		{ID: "1", Name: "Kalem", Category: "Kırtasiye", Code: "PRD-K001", Stock: 2},
		{ID: "2", Name: "Vida", Category: "Hırdavat", Code: "PRD-V001", Stock: 50},
		{ID: "3", Name: "Kablo", Category: "Elektronik", Code: "PRD-E001", Stock: 8},
	}

	require.Len(t, Filter{}.Apply(items), 3)
	require.Equal(t, "2", Filter{Search: "vid"}.Apply(items)[0].ID)
	require.Equal(t, "3", Filter{Search: "e001"}.Apply(items)[0].ID)
	require.Len(t, Filter{Category: AllCategories}.Apply(items), 3)
	require.Equal(t, "1", Filter{Category: "Kırtasiye"}.Apply(items)[0].ID)

	low := Filter{LowStockBelow: 10}.Apply(items)
	require.Len(t, low, 2)
	require.Equal(t, "1", low[0].ID)
	require.Equal(t, "3", low[1].ID)
}

func TestProductMoney(t *testing.T) {
	p := Product{Stock: 4, BuyPrice: decimal.RequireFromString("2.5"), SellPrice: decimal.NewFromInt(4)}
	require.Equal(t, "10", p.StockValue().String())
	require.Equal(t, "1.5", p.UnitMargin().String())
}

func TestMatches(t *testing.T) {
	p := Product{ID: "b7e1", Code: "PRD-Q1Z9"}
	require.True(t, p.Matches("b7e1"))
	require.True(t, p.Matches("PRD-Q1Z9"))
	require.False(t, p.Matches(""))
	require.False(t, Product{}.Matches(""))
}
