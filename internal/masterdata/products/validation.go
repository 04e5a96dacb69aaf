package products

import (
	"github.com/odyssey-erp/stockdesk/internal/masterdata/shared"
)

// Validate trims text fields and checks the form.
func (f *ProductForm) Validate() error {
	f.normalize()
	return shared.ValidateStruct(f)
}
