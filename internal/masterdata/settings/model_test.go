package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockdesk/internal/shared"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      Settings
		wantErr string
	}{
		{name: "defaults", in: Defaults()},
		{name: "lowercase currency", in: Settings{Currency: " usd ", LowStockThreshold: 3}},
		{name: "unknown currency", in: Settings{Currency: "XYZ1", LowStockThreshold: 3}, wantErr: "currency"},
		{name: "zero threshold", in: Settings{Currency: "EUR", LowStockThreshold: 0}, wantErr: "lowStockThreshold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.in
			err := s.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, shared.ErrValidation)
			var fields shared.FieldErrors
			require.ErrorAs(t, err, &fields)
			require.Contains(t, fields, tc.wantErr)
		})
	}
}

func TestValidateUppercasesCurrency(t *testing.T) {
	s := Settings{Currency: "gbp", LowStockThreshold: 1}
	require.NoError(t, s.Validate())
	require.Equal(t, "GBP", s.Currency)
}

func TestIsLowStock(t *testing.T) {
	s := Settings{Currency: "TRY", LowStockThreshold: 5}
	require.True(t, s.IsLowStock(4))
	require.False(t, s.IsLowStock(5))
	require.True(t, Settings{}.IsLowStock(9))
}
