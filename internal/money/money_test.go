package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatTurkish(t *testing.T) {
	f := NewFormatter("tr-TR")
	out := f.Format(decimal.RequireFromString("1234.5"), "TRY")
	require.True(t, strings.HasPrefix(out, "₺"), out)
	require.True(t, strings.HasSuffix(out, "1.234,50"), out)
}

func TestFormatEnglish(t *testing.T) {
	f := NewFormatter("en-US")
	out := f.Format(decimal.RequireFromString("1234.5"), "usd")
	require.True(t, strings.HasPrefix(out, "$"), out)
	require.True(t, strings.HasSuffix(out, "1,234.50"), out)
}

func TestFormatNegative(t *testing.T) {
	out := NewFormatter("en-US").Format(decimal.NewFromInt(-23), "EUR")
	require.True(t, strings.HasPrefix(out, "-€"), out)
	require.True(t, strings.HasSuffix(out, "23.00"), out)
}

func TestFormatUnknownCurrency(t *testing.T) {
	out := NewFormatter("en-US").Format(decimal.NewFromInt(5), "ABCD")
	require.Equal(t, "ABCD 5.00", out)
}

func TestInvalidLocaleFallsBack(t *testing.T) {
	f := NewFormatter("not a locale!")
	require.Equal(t, DefaultLocale, f.Locale().String())
	require.Equal(t, "12.345", f.Number(12345))
}
