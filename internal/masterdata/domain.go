package masterdata

import (
	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/shared"
)

// ListFilters narrows list results.
type ListFilters struct {
	Search string
}

// PartyInput creates or updates a customer or supplier. OpeningBalance only
// applies on create; afterwards balances move through payments and receipts.
type PartyInput struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Phone          string          `json:"phone" validate:"omitempty,max=20"`
	Address        string          `json:"address" validate:"omitempty,max=240"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// ProductInput creates or updates a product.
type ProductInput struct {
	Name     string          `json:"name" validate:"required,max=120"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Unit     string          `json:"unit" validate:"omitempty,max=20"`
	Category string          `json:"category" validate:"omitempty,max=60"`
}

// CustomerRateInput sets a customer's price for a product.
type CustomerRateInput struct {
	CustomerID    string          `json:"customerId" validate:"required"`
	ProductID     string          `json:"productId" validate:"required"`
	Rate          decimal.Decimal `json:"rate" validate:"gte=0"`
	EffectiveDate shared.Date     `json:"effectiveDate"`
}

// SupplierRateInput appends an entry to a supplier's rate history.
type SupplierRateInput struct {
	SupplierID    string          `json:"supplierId" validate:"required"`
	ProductID     string          `json:"productId" validate:"required"`
	Rate          decimal.Decimal `json:"rate" validate:"gte=0"`
	EffectiveDate shared.Date     `json:"effectiveDate" validate:"required"`
}
