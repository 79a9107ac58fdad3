package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.NewMemoryKV())
	require.NoError(t, err)
	seed := scenario()
	seed.Customers[0].OutstandingBalance = dec("-150")
	require.NoError(t, st.Update(ctx, func(c *store.Collections) error {
		*c = *seed
		return nil
	}))
	return NewService(st, nil, opts)
}

func TestServiceGenerateReport(t *testing.T) {
	svc := newTestService(t, Options{})

	report, err := svc.GenerateReport("C", day("2024-05-01"), day("2024-05-06"))
	require.NoError(t, err)
	assertDec(t, "150", report.ClosingBalance)

	opening, err := svc.OpeningBalance("C", day("2024-05-04"))
	require.NoError(t, err)
	assertDec(t, "50", opening)

	_, err = svc.OpeningBalance("nobody", day("2024-05-04"))
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestServiceReconcile(t *testing.T) {
	svc := newTestService(t, Options{})

	rec, err := svc.Reconcile("C", day("2024-05-03"))
	require.NoError(t, err)
	assertDec(t, "-150", rec.LiveBalance)
	assertDec(t, "50", rec.LedgerBalance)
	assertDec(t, "-200", rec.Drift)

	_, err = svc.Reconcile("nobody", day("2024-05-03"))
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
