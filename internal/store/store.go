package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Collection keys. Each collection is stored as one JSON array under
// the store prefix followed by its key.
const (
	KeyCustomers            = "customers"
	KeyProducts             = "products"
	KeyOrders               = "orders"
	KeyPayments             = "payments"
	KeyCustomerProductRates = "customerProductRates"
	KeySuppliers            = "suppliers"
	KeySupplierPayments     = "supplierPayments"
	KeySupplierProductRates = "supplierProductRates"
	KeyStockEntries         = "stockEntries"
)

// DefaultPrefix namespaces keys in shared backends such as Redis.
const DefaultPrefix = "milkbook:"

// AllKeys lists every collection key in load order.
var AllKeys = []string{
	KeyCustomers,
	KeyProducts,
	KeyOrders,
	KeyPayments,
	KeyCustomerProductRates,
	KeySuppliers,
	KeySupplierPayments,
	KeySupplierProductRates,
	KeyStockEntries,
}

// Collections is the full in-memory data set.
type Collections struct {
	Customers            []Customer
	Products             []Product
	Orders               []Order
	Payments             []Payment
	CustomerProductRates []CustomerProductRate
	Suppliers            []Supplier
	SupplierPayments     []SupplierPayment
	SupplierProductRates []SupplierProductRate
	StockEntries         []StockEntry
}

func (c *Collections) field(key string) (any, error) {
	switch key {
	case KeyCustomers:
		return &c.Customers, nil
	case KeyProducts:
		return &c.Products, nil
	case KeyOrders:
		return &c.Orders, nil
	case KeyPayments:
		return &c.Payments, nil
	case KeyCustomerProductRates:
		return &c.CustomerProductRates, nil
	case KeySuppliers:
		return &c.Suppliers, nil
	case KeySupplierPayments:
		return &c.SupplierPayments, nil
	case KeySupplierProductRates:
		return &c.SupplierProductRates, nil
	case KeyStockEntries:
		return &c.StockEntries, nil
	}
	return nil, fmt.Errorf("store: unknown collection %q", key)
}

// CustomerIndex returns the slice index of the customer or -1.
func (c *Collections) CustomerIndex(id string) int {
	for i := range c.Customers {
		if c.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

// Customer returns a pointer into the collection, or nil.
func (c *Collections) Customer(id string) *Customer {
	if i := c.CustomerIndex(id); i >= 0 {
		return &c.Customers[i]
	}
	return nil
}

// Product returns a pointer into the collection, or nil.
func (c *Collections) Product(id string) *Product {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// Supplier returns a pointer into the collection, or nil.
func (c *Collections) Supplier(id string) *Supplier {
	for i := range c.Suppliers {
		if c.Suppliers[i].ID == id {
			return &c.Suppliers[i]
		}
	}
	return nil
}

// PaymentIndex returns the slice index of the payment or -1.
func (c *Collections) PaymentIndex(id string) int {
	for i := range c.Payments {
		if c.Payments[i].ID == id {
			return i
		}
	}
	return -1
}

// SupplierPaymentIndex returns the slice index of the supplier payment or -1.
func (c *Collections) SupplierPaymentIndex(id string) int {
	for i := range c.SupplierPayments {
		if c.SupplierPayments[i].ID == id {
			return i
		}
	}
	return -1
}

// OrderIndex returns the slice index of the order or -1.
func (c *Collections) OrderIndex(id string) int {
	for i := range c.Orders {
		if c.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// Store owns the collections and mirrors them to a KV backend.
type Store struct {
	mu     sync.RWMutex
	kv     KV
	prefix string
	logger *slog.Logger
	data   Collections
}

// Option customises a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads every collection from kv. Missing keys yield empty collections.
func Open(ctx context.Context, kv KV, opts ...Option) (*Store, error) {
	s := &Store{kv: kv, prefix: DefaultPrefix, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	for _, key := range AllKeys {
		raw, ok, err := kv.Get(ctx, s.prefix+key)
		if err != nil {
			return nil, fmt.Errorf("store: load %s: %w", key, err)
		}
		if !ok || raw == "" {
			continue
		}
		target, err := s.data.field(key)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", key, err)
		}
	}
	return s, nil
}

// View runs fn with read access to the collections. fn must not retain
// references to the slices after it returns.
func (s *Store) View(fn func(*Collections) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.data)
}

// Update runs fn with write access and, when fn succeeds, writes each named
// collection back in full. Write failures are logged and do not fail the
// mutation; the in-memory state stays authoritative for the session.
func (s *Store) Update(ctx context.Context, fn func(*Collections) error, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.data); err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.persist(ctx, key); err != nil {
			s.logger.Warn("persist collection", slog.String("key", key), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, key string) error {
	source, err := s.data.field(key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if string(raw) == "null" {
		raw = []byte("[]")
	}
	return s.kv.Set(ctx, s.prefix+key, string(raw))
}
