package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/shared"
)

// PaymentMethod enumerates how money changed hands.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentBank  PaymentMethod = "bank"
	PaymentUPI   PaymentMethod = "upi"
	PaymentOther PaymentMethod = "other"
)

// Customer is a buyer of milk products. OutstandingBalance is positive when the
// customer owes money.
type Customer struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Phone              string           `json:"phone,omitempty"`
	Address            string           `json:"address,omitempty"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	LastPaymentDate    *shared.Date     `json:"lastPaymentDate,omitempty"`
	LastPaymentAmount  *decimal.Decimal `json:"lastPaymentAmount,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// Product is a sellable item with a default unit price.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Supplier delivers stock on credit.
type Supplier struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Phone              string           `json:"phone,omitempty"`
	Address            string           `json:"address,omitempty"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	LastPaymentDate    *shared.Date     `json:"lastPaymentDate,omitempty"`
	LastPaymentAmount  *decimal.Decimal `json:"lastPaymentAmount,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// OrderItem is one customer's quantity of one product within an order batch.
type OrderItem struct {
	CustomerID string          `json:"customerId"`
	ProductID  string          `json:"productId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Order is a day's order batch; items may belong to several customers.
type Order struct {
	ID    string      `json:"id"`
	Date  shared.Date `json:"date"`
	Items []OrderItem `json:"items"`
	Notes string      `json:"notes,omitempty"`
}

// HasCustomer reports whether any item belongs to the customer.
func (o Order) HasCustomer(customerID string) bool {
	for _, item := range o.Items {
		if item.CustomerID == customerID {
			return true
		}
	}
	return false
}

// Payment is money received from a customer.
type Payment struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          shared.Date     `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
}

// SupplierPayment is money paid to a supplier.
type SupplierPayment struct {
	ID            string          `json:"id"`
	SupplierID    string          `json:"supplierId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          shared.Date     `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
}

// CustomerProductRate overrides a product's price for one customer.
type CustomerProductRate struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	ProductID     string          `json:"productId"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate shared.Date     `json:"effectiveDate"`
}

// SupplierProductRate is one entry in a supplier's price history for a product.
type SupplierProductRate struct {
	ID            string          `json:"id"`
	SupplierID    string          `json:"supplierId"`
	ProductID     string          `json:"productId"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate shared.Date     `json:"effectiveDate"`
	IsActive      bool            `json:"isActive"`
}

// StockItem is one product line of goods received.
type StockItem struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
}

// StockEntry records goods received from a supplier on credit.
type StockEntry struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplierId"`
	Date        shared.Date     `json:"date"`
	Items       []StockItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Notes       string          `json:"notes,omitempty"`
}
