package ledger

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

// Service answers ledger queries against the live store.
type Service struct {
	store  *store.Store
	logger *slog.Logger
	opts   Options
}

// NewService builds Service instance.
func NewService(st *store.Store, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger, opts: opts}
}

// OpeningBalance returns the customer's balance carried into start.
func (s *Service) OpeningBalance(customerID string, start shared.Date) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.store.View(func(c *store.Collections) error {
		if c.Customer(customerID) == nil {
			return fmt.Errorf("customer %s: %w", customerID, shared.ErrNotFound)
		}
		var err error
		out, err = OpeningBalance(c, customerID, start, s.opts)
		return err
	})
	return out, err
}

// GenerateReport builds the ledger for start..end inclusive.
func (s *Service) GenerateReport(customerID string, start, end shared.Date) (*Report, error) {
	var report *Report
	err := s.store.View(func(c *store.Collections) error {
		var err error
		report, err = BuildReport(c, customerID, start, end, s.opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("ledger built",
		slog.String("customer_id", customerID),
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("entries", len(report.Entries)))
	return report, nil
}

// Reconcile replays history through asOf and compares it with the customer's
// stored outstanding balance. Orders never touch the stored balance, so drift
// is expected whenever the customer has been billed.
func (s *Service) Reconcile(customerID string, asOf shared.Date) (Reconciliation, error) {
	var out Reconciliation
	err := s.store.View(func(c *store.Collections) error {
		cust := c.Customer(customerID)
		if cust == nil {
			return fmt.Errorf("customer %s: %w", customerID, shared.ErrNotFound)
		}
		replayed, err := OpeningBalance(c, customerID, asOf.AddDays(1), s.opts)
		if err != nil {
			return err
		}
		out = Reconciliation{
			CustomerID:    customerID,
			AsOf:          asOf,
			LiveBalance:   cust.OutstandingBalance,
			LedgerBalance: replayed,
			Drift:         cust.OutstandingBalance.Sub(replayed),
		}
		return nil
	})
	if err != nil {
		return Reconciliation{}, err
	}
	if !out.Drift.IsZero() {
		s.logger.Info("balance drift",
			slog.String("customer_id", customerID),
			slog.String("drift", out.Drift.String()))
	}
	return out, nil
}

// ProductNames maps product ids to display names.
func (s *Service) ProductNames() map[string]string {
	names := map[string]string{}
	_ = s.store.View(func(c *store.Collections) error {
		for _, p := range c.Products {
			names[p.ID] = p.Name
		}
		return nil
	})
	return names
}
