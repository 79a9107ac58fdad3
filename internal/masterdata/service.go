// Package masterdata manages customers, products, suppliers and their rates.
package masterdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/rates"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// Service implements master data operations over the store.
type Service struct {
	store    *store.Store
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger, validate: shared.NewValidator(), now: time.Now}
}

func matches(filters ListFilters, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(filters.Search))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, shared.ErrNotFound)
}

// Customer operations

func (s *Service) CreateCustomer(ctx context.Context, input PartyInput) (store.Customer, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Customer{}, err
	}
	customer := store.Customer{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(input.Name),
		Phone:              input.Phone,
		Address:            input.Address,
		OutstandingBalance: input.OpeningBalance,
		CreatedAt:          s.now().UTC(),
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		c.Customers = append(c.Customers, customer)
		return nil
	}, store.KeyCustomers)
	return customer, err
}

func (s *Service) ListCustomers(filters ListFilters) []store.Customer {
	var out []store.Customer
	_ = s.store.View(func(c *store.Collections) error {
		for _, cust := range c.Customers {
			if matches(filters, cust.Name, cust.Phone) {
				out = append(out, cust)
			}
		}
		return nil
	})
	return out
}

func (s *Service) GetCustomer(id string) (store.Customer, error) {
	var out store.Customer
	err := s.store.View(func(c *store.Collections) error {
		cust := c.Customer(id)
		if cust == nil {
			return notFound("customer", id)
		}
		out = *cust
		return nil
	})
	return out, err
}

// UpdateCustomer changes contact details. The balance is left alone.
func (s *Service) UpdateCustomer(ctx context.Context, id string, input PartyInput) (store.Customer, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Customer{}, err
	}
	var out store.Customer
	err := s.store.Update(ctx, func(c *store.Collections) error {
		cust := c.Customer(id)
		if cust == nil {
			return notFound("customer", id)
		}
		cust.Name = strings.TrimSpace(input.Name)
		cust.Phone = input.Phone
		cust.Address = input.Address
		out = *cust
		return nil
	}, store.KeyCustomers)
	return out, err
}

// DeleteCustomer removes the customer and its rate overrides. Orders and
// payments stay in history.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(c *store.Collections) error {
		i := c.CustomerIndex(id)
		if i < 0 {
			return notFound("customer", id)
		}
		c.Customers = append(c.Customers[:i], c.Customers[i+1:]...)
		kept := c.CustomerProductRates[:0]
		for _, r := range c.CustomerProductRates {
			if r.CustomerID != id {
				kept = append(kept, r)
			}
		}
		c.CustomerProductRates = kept
		return nil
	}, store.KeyCustomers, store.KeyCustomerProductRates)
}

// Product operations

func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (store.Product, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Product{}, err
	}
	product := store.Product{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		Price:    input.Price,
		Unit:     input.Unit,
		Category: input.Category,
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		c.Products = append(c.Products, product)
		return nil
	}, store.KeyProducts)
	return product, err
}

func (s *Service) ListProducts(filters ListFilters) []store.Product {
	var out []store.Product
	_ = s.store.View(func(c *store.Collections) error {
		for _, p := range c.Products {
			if matches(filters, p.Name, p.Category) {
				out = append(out, p)
			}
		}
		return nil
	})
	return out
}

func (s *Service) GetProduct(id string) (store.Product, error) {
	var out store.Product
	err := s.store.View(func(c *store.Collections) error {
		p := c.Product(id)
		if p == nil {
			return notFound("product", id)
		}
		out = *p
		return nil
	})
	return out, err
}

// UpdateProduct changes the product. A new price reaches every customer
// without an override, including in reconstructed history.
func (s *Service) UpdateProduct(ctx context.Context, id string, input ProductInput) (store.Product, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Product{}, err
	}
	var out store.Product
	err := s.store.Update(ctx, func(c *store.Collections) error {
		p := c.Product(id)
		if p == nil {
			return notFound("product", id)
		}
		if !p.Price.Equal(input.Price) {
			s.logger.Info("product price changed",
				slog.String("product_id", id),
				slog.String("from", p.Price.String()),
				slog.String("to", input.Price.String()))
		}
		p.Name = strings.TrimSpace(input.Name)
		p.Price = input.Price
		p.Unit = input.Unit
		p.Category = input.Category
		out = *p
		return nil
	}, store.KeyProducts)
	return out, err
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(c *store.Collections) error {
		for i := range c.Products {
			if c.Products[i].ID == id {
				c.Products = append(c.Products[:i], c.Products[i+1:]...)
				return nil
			}
		}
		return notFound("product", id)
	}, store.KeyProducts)
}

// Supplier operations

func (s *Service) CreateSupplier(ctx context.Context, input PartyInput) (store.Supplier, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Supplier{}, err
	}
	supplier := store.Supplier{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(input.Name),
		Phone:              input.Phone,
		Address:            input.Address,
		OutstandingBalance: input.OpeningBalance,
		CreatedAt:          s.now().UTC(),
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		c.Suppliers = append(c.Suppliers, supplier)
		return nil
	}, store.KeySuppliers)
	return supplier, err
}

func (s *Service) ListSuppliers(filters ListFilters) []store.Supplier {
	var out []store.Supplier
	_ = s.store.View(func(c *store.Collections) error {
		for _, sup := range c.Suppliers {
			if matches(filters, sup.Name, sup.Phone) {
				out = append(out, sup)
			}
		}
		return nil
	})
	return out
}

func (s *Service) GetSupplier(id string) (store.Supplier, error) {
	var out store.Supplier
	err := s.store.View(func(c *store.Collections) error {
		sup := c.Supplier(id)
		if sup == nil {
			return notFound("supplier", id)
		}
		out = *sup
		return nil
	})
	return out, err
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, input PartyInput) (store.Supplier, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.Supplier{}, err
	}
	var out store.Supplier
	err := s.store.Update(ctx, func(c *store.Collections) error {
		sup := c.Supplier(id)
		if sup == nil {
			return notFound("supplier", id)
		}
		sup.Name = strings.TrimSpace(input.Name)
		sup.Phone = input.Phone
		sup.Address = input.Address
		out = *sup
		return nil
	}, store.KeySuppliers)
	return out, err
}

// DeleteSupplier removes the supplier and its rate history.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(c *store.Collections) error {
		for i := range c.Suppliers {
			if c.Suppliers[i].ID != id {
				continue
			}
			c.Suppliers = append(c.Suppliers[:i], c.Suppliers[i+1:]...)
			kept := c.SupplierProductRates[:0]
			for _, r := range c.SupplierProductRates {
				if r.SupplierID != id {
					kept = append(kept, r)
				}
			}
			c.SupplierProductRates = kept
			return nil
		}
		return notFound("supplier", id)
	}, store.KeySuppliers, store.KeySupplierProductRates)
}

// Customer rate operations

// SetCustomerRate replaces the customer's override for the product in place,
// or appends one. Lookups only consult the first override per pair.
func (s *Service) SetCustomerRate(ctx context.Context, input CustomerRateInput) (store.CustomerProductRate, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.CustomerProductRate{}, err
	}
	if input.EffectiveDate.IsZero() {
		input.EffectiveDate = shared.DateOf(s.now())
	}
	var out store.CustomerProductRate
	err := s.store.Update(ctx, func(c *store.Collections) error {
		if c.Customer(input.CustomerID) == nil {
			return notFound("customer", input.CustomerID)
		}
		if c.Product(input.ProductID) == nil {
			return notFound("product", input.ProductID)
		}
		for i := range c.CustomerProductRates {
			r := &c.CustomerProductRates[i]
			if r.CustomerID == input.CustomerID && r.ProductID == input.ProductID {
				r.Rate = input.Rate
				r.EffectiveDate = input.EffectiveDate
				out = *r
				return nil
			}
		}
		out = store.CustomerProductRate{
			ID:            uuid.NewString(),
			CustomerID:    input.CustomerID,
			ProductID:     input.ProductID,
			Rate:          input.Rate,
			EffectiveDate: input.EffectiveDate,
		}
		c.CustomerProductRates = append(c.CustomerProductRates, out)
		return nil
	}, store.KeyCustomerProductRates)
	return out, err
}

func (s *Service) ListCustomerRates(customerID string) []store.CustomerProductRate {
	var out []store.CustomerProductRate
	_ = s.store.View(func(c *store.Collections) error {
		for _, r := range c.CustomerProductRates {
			if customerID == "" || r.CustomerID == customerID {
				out = append(out, r)
			}
		}
		return nil
	})
	return out
}

func (s *Service) DeleteCustomerRate(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(c *store.Collections) error {
		for i := range c.CustomerProductRates {
			if c.CustomerProductRates[i].ID == id {
				c.CustomerProductRates = append(c.CustomerProductRates[:i], c.CustomerProductRates[i+1:]...)
				return nil
			}
		}
		return notFound("customer rate", id)
	}, store.KeyCustomerProductRates)
}

// EffectiveRate is a resolved unit price.
type EffectiveRate struct {
	PartyID   string          `json:"partyId"`
	ProductID string          `json:"productId"`
	Rate      decimal.Decimal `json:"rate"`
	Found     bool            `json:"found"`
}

// CustomerRate resolves what the customer pays for the product today.
func (s *Service) CustomerRate(customerID, productID string) EffectiveRate {
	out := EffectiveRate{PartyID: customerID, ProductID: productID}
	_ = s.store.View(func(c *store.Collections) error {
		out.Rate, out.Found = rates.NewResolver(c).CustomerStrict(customerID, productID)
		return nil
	})
	return out
}

// Supplier rate operations

// AddSupplierRate appends an active entry to the supplier's history.
func (s *Service) AddSupplierRate(ctx context.Context, input SupplierRateInput) (store.SupplierProductRate, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return store.SupplierProductRate{}, err
	}
	rate := store.SupplierProductRate{
		ID:            uuid.NewString(),
		SupplierID:    input.SupplierID,
		ProductID:     input.ProductID,
		Rate:          input.Rate,
		EffectiveDate: input.EffectiveDate,
		IsActive:      true,
	}
	err := s.store.Update(ctx, func(c *store.Collections) error {
		if c.Supplier(input.SupplierID) == nil {
			return notFound("supplier", input.SupplierID)
		}
		if c.Product(input.ProductID) == nil {
			return notFound("product", input.ProductID)
		}
		c.SupplierProductRates = append(c.SupplierProductRates, rate)
		return nil
	}, store.KeySupplierProductRates)
	return rate, err
}

// ListSupplierRates returns the supplier's history for productID, newest
// first, or every entry for the supplier in collection order when productID
// is empty.
func (s *Service) ListSupplierRates(supplierID, productID string) []store.SupplierProductRate {
	var out []store.SupplierProductRate
	_ = s.store.View(func(c *store.Collections) error {
		if productID != "" {
			out = rates.NewResolver(c).SupplierHistory(supplierID, productID)
			return nil
		}
		for _, r := range c.SupplierProductRates {
			if r.SupplierID == supplierID {
				out = append(out, r)
			}
		}
		return nil
	})
	return out
}

// DeactivateSupplierRate keeps the entry in history but stops it from being
// the current rate.
func (s *Service) DeactivateSupplierRate(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(c *store.Collections) error {
		for i := range c.SupplierProductRates {
			if c.SupplierProductRates[i].ID == id {
				c.SupplierProductRates[i].IsActive = false
				return nil
			}
		}
		return notFound("supplier rate", id)
	}, store.KeySupplierProductRates)
}

// SupplierRate resolves the supplier's current rate for the product.
func (s *Service) SupplierRate(supplierID, productID string) EffectiveRate {
	out := EffectiveRate{PartyID: supplierID, ProductID: productID}
	_ = s.store.View(func(c *store.Collections) error {
		out.Rate, out.Found = rates.NewResolver(c).Supplier(supplierID, productID)
		return nil
	})
	return out
}
