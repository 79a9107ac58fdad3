// Package balance keeps customer and supplier outstanding balances in step
// with payments and stock receipts.
package balance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/observability"
	"github.com/milkbook/milkbook/internal/rates"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// Service handles payment and stock receipt lifecycles.
type Service struct {
	store    *store.Store
	logger   *slog.Logger
	validate *validator.Validate
	metrics  *observability.Metrics
}

// NewService builds Service instance. metrics may be nil.
func NewService(st *store.Store, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger, validate: shared.NewValidator(), metrics: metrics}
}

func notePayment(lastDate **shared.Date, lastAmount **decimal.Decimal, date shared.Date, amount decimal.Decimal) {
	*lastDate = &date
	*lastAmount = &amount
}

// RecordPayment appends the payment and deducts it from the customer's
// outstanding balance.
func (s *Service) RecordPayment(ctx context.Context, input PaymentInput) (store.Payment, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Payment{}, err
	}
	payment := store.Payment{
		ID:            uuid.NewString(),
		CustomerID:    input.CustomerID,
		Amount:        input.Amount,
		Date:          input.Date,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		c.Payments = append(c.Payments, payment)
		cust := c.Customer(payment.CustomerID)
		if cust == nil {
			s.orphan("customer", payment.CustomerID, payment.ID)
			return nil
		}
		cust.OutstandingBalance = cust.OutstandingBalance.Sub(payment.Amount)
		notePayment(&cust.LastPaymentDate, &cust.LastPaymentAmount, payment.Date, payment.Amount)
		return nil
	}, store.KeyPayments, store.KeyCustomers)
	if err != nil {
		return store.Payment{}, err
	}
	s.metrics.ObserveBalanceEvent("customer", "record")
	return payment, nil
}

// UpdatePayment applies patch. A changed amount moves the customer's balance
// by the difference; a larger payment lowers the balance further.
func (s *Service) UpdatePayment(ctx context.Context, id string, patch PaymentPatch) error {
	if err := shared.ValidateStruct(s.validate, patch); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		i := c.PaymentIndex(id)
		if i < 0 {
			return fmt.Errorf("payment %s: %w", id, shared.ErrNotFound)
		}
		old := c.Payments[i]
		if patch.Amount != nil && !patch.Amount.Equal(old.Amount) {
			if cust := c.Customer(old.CustomerID); cust != nil {
				delta := patch.Amount.Sub(old.Amount)
				cust.OutstandingBalance = cust.OutstandingBalance.Sub(delta)
				date := old.Date
				if patch.Date != nil {
					date = *patch.Date
				}
				notePayment(&cust.LastPaymentDate, &cust.LastPaymentAmount, date, *patch.Amount)
			} else {
				s.orphan("customer", old.CustomerID, old.ID)
			}
		}
		updated := old
		if patch.Amount != nil {
			updated.Amount = *patch.Amount
		}
		if patch.Date != nil {
			updated.Date = *patch.Date
		}
		if patch.PaymentMethod != nil {
			updated.PaymentMethod = *patch.PaymentMethod
		}
		if patch.Notes != nil {
			updated.Notes = *patch.Notes
		}
		c.Payments[i] = updated
		return nil
	}, store.KeyPayments, store.KeyCustomers)
	if err != nil {
		return err
	}
	s.metrics.ObserveBalanceEvent("customer", "update")
	return nil
}

// DeletePayment restores the payment amount to the customer's balance and
// removes the record. Last-payment fields are left as they were.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(c *store.Collections) error {
		i := c.PaymentIndex(id)
		if i < 0 {
			return fmt.Errorf("payment %s: %w", id, shared.ErrNotFound)
		}
		payment := c.Payments[i]
		if cust := c.Customer(payment.CustomerID); cust != nil {
			cust.OutstandingBalance = cust.OutstandingBalance.Add(payment.Amount)
		} else {
			s.orphan("customer", payment.CustomerID, payment.ID)
		}
		c.Payments = append(c.Payments[:i], c.Payments[i+1:]...)
		return nil
	}, store.KeyPayments, store.KeyCustomers)
	if err != nil {
		return err
	}
	s.metrics.ObserveBalanceEvent("customer", "delete")
	return nil
}

// ListPayments returns payments in collection order, optionally for one customer.
func (s *Service) ListPayments(customerID string) []store.Payment {
	var out []store.Payment
	_ = s.store.View(func(c *store.Collections) error {
		for _, p := range c.Payments {
			if customerID == "" || p.CustomerID == customerID {
				out = append(out, p)
			}
		}
		return nil
	})
	return out
}

// RecordSupplierPayment appends the payment and deducts it from the amount
// owed to the supplier.
func (s *Service) RecordSupplierPayment(ctx context.Context, input SupplierPaymentInput) (store.SupplierPayment, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.SupplierPayment{}, err
	}
	payment := store.SupplierPayment{
		ID:            uuid.NewString(),
		SupplierID:    input.SupplierID,
		Amount:        input.Amount,
		Date:          input.Date,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		c.SupplierPayments = append(c.SupplierPayments, payment)
		sup := c.Supplier(payment.SupplierID)
		if sup == nil {
			s.orphan("supplier", payment.SupplierID, payment.ID)
			return nil
		}
		sup.OutstandingBalance = sup.OutstandingBalance.Sub(payment.Amount)
		notePayment(&sup.LastPaymentDate, &sup.LastPaymentAmount, payment.Date, payment.Amount)
		return nil
	}, store.KeySupplierPayments, store.KeySuppliers)
	if err != nil {
		return store.SupplierPayment{}, err
	}
	s.metrics.ObserveBalanceEvent("supplier", "record")
	return payment, nil
}

// UpdateSupplierPayment mirrors UpdatePayment for suppliers.
func (s *Service) UpdateSupplierPayment(ctx context.Context, id string, patch PaymentPatch) error {
	if err := shared.ValidateStruct(s.validate, patch); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		i := c.SupplierPaymentIndex(id)
		if i < 0 {
			return fmt.Errorf("supplier payment %s: %w", id, shared.ErrNotFound)
		}
		old := c.SupplierPayments[i]
		if patch.Amount != nil && !patch.Amount.Equal(old.Amount) {
			if sup := c.Supplier(old.SupplierID); sup != nil {
				sup.OutstandingBalance = sup.OutstandingBalance.Sub(patch.Amount.Sub(old.Amount))
				date := old.Date
				if patch.Date != nil {
					date = *patch.Date
				}
				notePayment(&sup.LastPaymentDate, &sup.LastPaymentAmount, date, *patch.Amount)
			} else {
				s.orphan("supplier", old.SupplierID, old.ID)
			}
		}
		updated := old
		if patch.Amount != nil {
			updated.Amount = *patch.Amount
		}
		if patch.Date != nil {
			updated.Date = *patch.Date
		}
		if patch.PaymentMethod != nil {
			updated.PaymentMethod = *patch.PaymentMethod
		}
		if patch.Notes != nil {
			updated.Notes = *patch.Notes
		}
		c.SupplierPayments[i] = updated
		return nil
	}, store.KeySupplierPayments, store.KeySuppliers)
	if err != nil {
		return err
	}
	s.metrics.ObserveBalanceEvent("supplier", "update")
	return nil
}

// DeleteSupplierPayment mirrors DeletePayment for suppliers.
func (s *Service) DeleteSupplierPayment(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(c *store.Collections) error {
		i := c.SupplierPaymentIndex(id)
		if i < 0 {
			return fmt.Errorf("supplier payment %s: %w", id, shared.ErrNotFound)
		}
		payment := c.SupplierPayments[i]
		if sup := c.Supplier(payment.SupplierID); sup != nil {
			sup.OutstandingBalance = sup.OutstandingBalance.Add(payment.Amount)
		} else {
			s.orphan("supplier", payment.SupplierID, payment.ID)
		}
		c.SupplierPayments = append(c.SupplierPayments[:i], c.SupplierPayments[i+1:]...)
		return nil
	}, store.KeySupplierPayments, store.KeySuppliers)
	if err != nil {
		return err
	}
	s.metrics.ObserveBalanceEvent("supplier", "delete")
	return nil
}

// ListSupplierPayments returns supplier payments, optionally for one supplier.
func (s *Service) ListSupplierPayments(supplierID string) []store.SupplierPayment {
	var out []store.SupplierPayment
	_ = s.store.View(func(c *store.Collections) error {
		for _, p := range c.SupplierPayments {
			if supplierID == "" || p.SupplierID == supplierID {
				out = append(out, p)
			}
		}
		return nil
	})
	return out
}

// RecordStockEntry stores goods received on credit and raises the supplier's
// outstanding balance by the entry total. Items without a rate are priced at
// the supplier's current rate.
func (s *Service) RecordStockEntry(ctx context.Context, input StockEntryInput) (store.StockEntry, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.StockEntry{}, err
	}
	entry := store.StockEntry{
		ID:         uuid.NewString(),
		SupplierID: input.SupplierID,
		Date:       input.Date,
		Notes:      input.Notes,
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		resolver := rates.NewResolver(c)
		total := decimal.Zero
		for _, item := range input.Items {
			rate := item.Rate
			if rate.IsZero() {
				current, ok := resolver.Supplier(input.SupplierID, item.ProductID)
				if !ok {
					return fmt.Errorf("supplier %s product %s: %w", input.SupplierID, item.ProductID, shared.ErrRateUnavailable)
				}
				rate = current
			}
			entry.Items = append(entry.Items, store.StockItem{ProductID: item.ProductID, Quantity: item.Quantity, Rate: rate})
			total = total.Add(item.Quantity.Mul(rate))
		}
		entry.TotalAmount = total
		c.StockEntries = append(c.StockEntries, entry)
		sup := c.Supplier(entry.SupplierID)
		if sup == nil {
			s.orphan("supplier", entry.SupplierID, entry.ID)
			return nil
		}
		sup.OutstandingBalance = sup.OutstandingBalance.Add(total)
		return nil
	}, store.KeyStockEntries, store.KeySuppliers)
	if err != nil {
		return store.StockEntry{}, err
	}
	s.metrics.ObserveBalanceEvent("supplier", "stock")
	return entry, nil
}

// ListStockEntries returns stock entries, optionally for one supplier.
func (s *Service) ListStockEntries(supplierID string) []store.StockEntry {
	var out []store.StockEntry
	_ = s.store.View(func(c *store.Collections) error {
		for _, e := range c.StockEntries {
			if supplierID == "" || e.SupplierID == supplierID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out
}

func (s *Service) orphan(party, partyID, recordID string) {
	s.logger.Debug("balance adjustment skipped: party not found",
		slog.String("party", party),
		slog.String("party_id", partyID),
		slog.String("record_id", recordID))
}
