// Package ledger rebuilds customer ledgers from order and payment history.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/rates"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// Options tunes reconstruction.
type Options struct {
	// StrictRates fails with shared.ErrRateUnavailable instead of pricing an
	// item whose product no longer exists at zero.
	StrictRates bool
}

func itemRate(c *store.Collections, opts Options, customerID, productID string) (decimal.Decimal, error) {
	if !opts.StrictRates {
		return rates.CustomerRate(c.CustomerProductRates, c.Products, customerID, productID), nil
	}
	rate, ok := rates.LookupCustomerRate(c.CustomerProductRates, c.Products, customerID, productID)
	if !ok {
		return decimal.Zero, fmt.Errorf("customer %s product %s: %w", customerID, productID, shared.ErrRateUnavailable)
	}
	return rate, nil
}

// OpeningBalance is everything billed to the customer before start minus
// everything the customer paid before start.
func OpeningBalance(c *store.Collections, customerID string, start shared.Date, opts Options) (decimal.Decimal, error) {
	billed := decimal.Zero
	for _, o := range c.Orders {
		if !o.Date.Before(start) {
			continue
		}
		for _, item := range o.Items {
			if item.CustomerID != customerID {
				continue
			}
			rate, err := itemRate(c, opts, customerID, item.ProductID)
			if err != nil {
				return decimal.Zero, err
			}
			billed = billed.Add(item.Quantity.Mul(rate))
		}
	}
	paid := decimal.Zero
	for _, p := range c.Payments {
		if p.CustomerID == customerID && p.Date.Before(start) {
			paid = paid.Add(p.Amount)
		}
	}
	return billed.Sub(paid), nil
}

// BuildReport reconstructs the customer's ledger for start..end inclusive.
// Activity is grouped per date and folded into the running balance in date
// order, so each entry's closing balance reflects every earlier date no
// matter how the source collections are ordered.
func BuildReport(c *store.Collections, customerID string, start, end shared.Date, opts Options) (*Report, error) {
	cust := c.Customer(customerID)
	if cust == nil {
		return nil, fmt.Errorf("customer %s: %w", customerID, shared.ErrNotFound)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", shared.ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", shared.ErrValidation, end, start)
	}

	opening, err := OpeningBalance(c, customerID, start, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{
		CustomerID:             customerID,
		CustomerName:           cust.Name,
		StartDate:              start,
		EndDate:                end,
		OpeningBalance:         opening,
		Entries:                []Entry{},
		TotalProductQuantities: map[string]decimal.Decimal{},
	}

	byDate := map[string]*Entry{}
	refs := map[string][]string{}
	var dates []shared.Date
	touch := func(d shared.Date) *Entry {
		key := d.String()
		if e, ok := byDate[key]; ok {
			return e
		}
		e := &Entry{Date: d, ProductQuantities: map[string]decimal.Decimal{}}
		byDate[key] = e
		dates = append(dates, d)
		return e
	}

	for _, o := range c.Orders {
		if !o.Date.Within(start, end) || !o.HasCustomer(customerID) {
			continue
		}
		e := touch(o.Date)
		if e.OrderID == "" {
			e.OrderID = o.ID
		}
		e.OrderIDs = append(e.OrderIDs, o.ID)
		for _, item := range o.Items {
			if item.CustomerID != customerID {
				continue
			}
			rate, err := itemRate(c, opts, customerID, item.ProductID)
			if err != nil {
				return nil, err
			}
			e.AmountBilled = e.AmountBilled.Add(item.Quantity.Mul(rate))
			e.TotalQuantity = e.TotalQuantity.Add(item.Quantity)
			e.ProductQuantities[item.ProductID] = e.ProductQuantities[item.ProductID].Add(item.Quantity)
			report.TotalProductQuantities[item.ProductID] = report.TotalProductQuantities[item.ProductID].Add(item.Quantity)
		}
	}

	for _, p := range c.Payments {
		if p.CustomerID != customerID || !p.Date.Within(start, end) {
			continue
		}
		e := touch(p.Date)
		if e.PaymentID == "" {
			e.PaymentID = p.ID
		}
		e.PaymentIDs = append(e.PaymentIDs, p.ID)
		e.PaymentReceived = e.PaymentReceived.Add(p.Amount)
		key := p.Date.String()
		refs[key] = append(refs[key], paymentReference(p))
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	running := opening
	for _, d := range dates {
		key := d.String()
		e := byDate[key]
		running = running.Add(e.AmountBilled).Sub(e.PaymentReceived)
		e.ClosingBalance = running
		e.Reference = strings.Join(refs[key], "; ")
		report.TotalAmountBilled = report.TotalAmountBilled.Add(e.AmountBilled)
		report.TotalPaymentReceived = report.TotalPaymentReceived.Add(e.PaymentReceived)
		report.Entries = append(report.Entries, *e)
	}
	report.ClosingBalance = running
	return report, nil
}

func paymentReference(p store.Payment) string {
	ref := strings.ToUpper(string(p.PaymentMethod))
	if p.Notes != "" {
		ref += " - " + p.Notes
	}
	return ref
}
