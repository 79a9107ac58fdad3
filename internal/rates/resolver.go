// Package rates resolves the effective unit price of a product for a
// customer (override, else product default) or a supplier (latest active
// entry in the rate history).
package rates

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/store"
)

// LookupCustomerRate returns the first override for the pair in collection
// order, else the product price. ok is false when neither exists.
// Override effective dates are not consulted.
func LookupCustomerRate(overrides []store.CustomerProductRate, products []store.Product, customerID, productID string) (decimal.Decimal, bool) {
	for _, r := range overrides {
		if r.CustomerID == customerID && r.ProductID == productID {
			return r.Rate, true
		}
	}
	for _, p := range products {
		if p.ID == productID {
			return p.Price, true
		}
	}
	return decimal.Zero, false
}

// CustomerRate is LookupCustomerRate with the legacy zero default for an
// unknown product.
func CustomerRate(overrides []store.CustomerProductRate, products []store.Product, customerID, productID string) decimal.Decimal {
	rate, _ := LookupCustomerRate(overrides, products, customerID, productID)
	return rate
}

// SupplierRateHistory returns every rate for the pair, active or not, newest
// effective date first. Entries sharing a date keep their collection order.
func SupplierRateHistory(all []store.SupplierProductRate, supplierID, productID string) []store.SupplierProductRate {
	var out []store.SupplierProductRate
	for _, r := range all {
		if r.SupplierID == supplierID && r.ProductID == productID {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out
}

// SupplierRate returns the rate of the newest active entry. ok is false when
// no active rate is configured, which is distinct from a zero rate.
func SupplierRate(all []store.SupplierProductRate, supplierID, productID string) (decimal.Decimal, bool) {
	var active []store.SupplierProductRate
	for _, r := range all {
		if r.SupplierID == supplierID && r.ProductID == productID && r.IsActive {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return decimal.Zero, false
	}
	sortNewestFirst(active)
	return active[0].Rate, true
}

func sortNewestFirst(rs []store.SupplierProductRate) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].EffectiveDate.After(rs[j].EffectiveDate)
	})
}

// Resolver binds the rate functions to one set of collections.
type Resolver struct {
	c *store.Collections
}

// NewResolver builds a Resolver over c. The caller must hold the store lock
// for as long as the Resolver is used.
func NewResolver(c *store.Collections) Resolver {
	return Resolver{c: c}
}

// Customer resolves with the legacy zero default.
func (r Resolver) Customer(customerID, productID string) decimal.Decimal {
	return CustomerRate(r.c.CustomerProductRates, r.c.Products, customerID, productID)
}

// CustomerStrict resolves without defaulting.
func (r Resolver) CustomerStrict(customerID, productID string) (decimal.Decimal, bool) {
	return LookupCustomerRate(r.c.CustomerProductRates, r.c.Products, customerID, productID)
}

// Supplier resolves the current supplier rate.
func (r Resolver) Supplier(supplierID, productID string) (decimal.Decimal, bool) {
	return SupplierRate(r.c.SupplierProductRates, supplierID, productID)
}

// SupplierHistory lists the supplier's rates for the product.
func (r Resolver) SupplierHistory(supplierID, productID string) []store.SupplierProductRate {
	return SupplierRateHistory(r.c.SupplierProductRates, supplierID, productID)
}
