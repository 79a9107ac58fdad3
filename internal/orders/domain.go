package orders

import (
	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/shared"
)

// ItemInput is one customer's quantity of one product.
type ItemInput struct {
	CustomerID string          `json:"customerId" validate:"required"`
	ProductID  string          `json:"productId" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// OrderInput creates or replaces an order batch.
type OrderInput struct {
	Date  shared.Date `json:"date" validate:"required"`
	Items []ItemInput `json:"items" validate:"required,min=1,dive"`
	Notes string      `json:"notes" validate:"omitempty,max=500"`
}

// ListFilters narrows ListOrders. Zero dates leave that side open.
type ListFilters struct {
	Start      shared.Date
	End        shared.Date
	CustomerID string
}
