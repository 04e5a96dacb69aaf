package settings

import (
	"strings"

	"github.com/odyssey-erp/stockdesk/internal/masterdata/shared"
)

// Defaults applied on first start and after a reset.
const (
	DefaultCurrency          = "TRY"
	DefaultLowStockThreshold = 10
)

// Settings is the single global configuration record edited by the user.
type Settings struct {
	Currency          string `json:"currency" validate:"required,iso4217"`
	LowStockThreshold int    `json:"lowStockThreshold" validate:"gte=1"`
}

// Defaults returns the settings of a fresh installation.
func Defaults() Settings {
	return Settings{Currency: DefaultCurrency, LowStockThreshold: DefaultLowStockThreshold}
}

// Validate normalises the currency code and checks every field.
func (s *Settings) Validate() error {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	return shared.ValidateStruct(s)
}

// IsLowStock reports whether stock is under the alert threshold.
func (s Settings) IsLowStock(stock int) bool {
	threshold := s.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return stock < threshold
}
