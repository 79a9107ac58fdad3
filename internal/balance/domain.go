package balance

import (
	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// PaymentInput records money received from a customer.
type PaymentInput struct {
	CustomerID    string              `json:"customerId" validate:"required"`
	Amount        decimal.Decimal     `json:"amount" validate:"gt=0"`
	Date          shared.Date         `json:"date" validate:"required"`
	PaymentMethod store.PaymentMethod `json:"paymentMethod" validate:"oneof=cash bank upi other"`
	Notes         string              `json:"notes"`
}

// PaymentPatch changes a stored payment. Nil fields are left untouched.
type PaymentPatch struct {
	Amount        *decimal.Decimal     `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Date          *shared.Date         `json:"date,omitempty"`
	PaymentMethod *store.PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash bank upi other"`
	Notes         *string              `json:"notes,omitempty"`
}

// SupplierPaymentInput records money paid to a supplier.
type SupplierPaymentInput struct {
	SupplierID    string              `json:"supplierId" validate:"required"`
	Amount        decimal.Decimal     `json:"amount" validate:"gt=0"`
	Date          shared.Date         `json:"date" validate:"required"`
	PaymentMethod store.PaymentMethod `json:"paymentMethod" validate:"oneof=cash bank upi other"`
	Notes         string              `json:"notes"`
}

// StockItemInput is one received product line. A zero Rate is replaced by
// the supplier's current rate.
type StockItemInput struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	Rate      decimal.Decimal `json:"rate" validate:"gte=0"`
}

// StockEntryInput records goods received on credit.
type StockEntryInput struct {
	SupplierID string           `json:"supplierId" validate:"required"`
	Date       shared.Date      `json:"date" validate:"required"`
	Items      []StockItemInput `json:"items" validate:"required,min=1,dive"`
	Notes      string           `json:"notes"`
}
