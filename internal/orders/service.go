// Package orders records daily order batches. Orders feed ledger
// reconstruction only; they never move a stored outstanding balance.
package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// Service handles the order lifecycle.
type Service struct {
	store    *store.Store
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger, validate: shared.NewValidator()}
}

func toItems(in []ItemInput) []store.OrderItem {
	items := make([]store.OrderItem, len(in))
	for i, it := range in {
		items[i] = store.OrderItem{CustomerID: it.CustomerID, ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return items
}

// warnUnknown logs items that reference missing customers or products. The
// order is still accepted.
func (s *Service) warnUnknown(c *store.Collections, orderID string, items []store.OrderItem) {
	for _, it := range items {
		if c.Customer(it.CustomerID) == nil {
			s.logger.Debug("order item for unknown customer", slog.String("order_id", orderID), slog.String("customer_id", it.CustomerID))
		}
		if c.Product(it.ProductID) == nil {
			s.logger.Debug("order item for unknown product", slog.String("order_id", orderID), slog.String("product_id", it.ProductID))
		}
	}
}

// AddOrder appends a new order batch.
func (s *Service) AddOrder(ctx context.Context, input OrderInput) (store.Order, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Order{}, err
	}
	order := store.Order{
		ID:    uuid.NewString(),
		Date:  input.Date,
		Items: toItems(input.Items),
		Notes: input.Notes,
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		s.warnUnknown(c, order.ID, order.Items)
		c.Orders = append(c.Orders, order)
		return nil
	}, store.KeyOrders)
	return order, err
}

// GetOrder returns the order by id.
func (s *Service) GetOrder(id string) (store.Order, error) {
	var out store.Order
	err := s.store.View(func(c *store.Collections) error {
		i := c.OrderIndex(id)
		if i < 0 {
			return fmt.Errorf("order %s: %w", id, shared.ErrNotFound)
		}
		out = c.Orders[i]
		return nil
	})
	return out, err
}

// ListOrders returns matching orders in collection order.
func (s *Service) ListOrders(filters ListFilters) ([]store.Order, error) {
	if !filters.Start.IsZero() && !filters.End.IsZero() && filters.End.Before(filters.Start) {
		return nil, fmt.Errorf("%w: end %s before start %s", shared.ErrValidation, filters.End, filters.Start)
	}
	var out []store.Order
	_ = s.store.View(func(c *store.Collections) error {
		for _, o := range c.Orders {
			if !filters.Start.IsZero() && o.Date.Before(filters.Start) {
				continue
			}
			if !filters.End.IsZero() && o.Date.After(filters.End) {
				continue
			}
			if filters.CustomerID != "" && !o.HasCustomer(filters.CustomerID) {
				continue
			}
			out = append(out, o)
		}
		return nil
	})
	return out, nil
}

// UpdateOrder replaces the order's date, items and notes.
func (s *Service) UpdateOrder(ctx context.Context, id string, input OrderInput) (store.Order, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Order{}, err
	}
	var out store.Order
	err := s.store.Update(ctx, func(c *store.Collections) error {
		i := c.OrderIndex(id)
		if i < 0 {
			return fmt.Errorf("order %s: %w", id, shared.ErrNotFound)
		}
		o := &c.Orders[i]
		o.Date = input.Date
		o.Items = toItems(input.Items)
		o.Notes = input.Notes
		s.warnUnknown(c, o.ID, o.Items)
		out = *o
		return nil
	}, store.KeyOrders)
	return out, err
}

// DeleteOrder removes the order.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(c *store.Collections) error {
		i := c.OrderIndex(id)
		if i < 0 {
			return fmt.Errorf("order %s: %w", id, shared.ErrNotFound)
		}
		c.Orders = append(c.Orders[:i], c.Orders[i+1:]...)
		return nil
	}, store.KeyOrders)
}
