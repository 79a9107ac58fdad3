package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkbook/milkbook/internal/ledger"
	"github.com/milkbook/milkbook/internal/observability"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, opts ledger.Options) (http.Handler, *observability.Metrics) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.NewMemoryKV())
	require.NoError(t, err)
	dec := decimal.RequireFromString
	day := shared.MustParseDate
	require.NoError(t, st.Update(ctx, func(c *store.Collections) error {
		c.Customers = []store.Customer{{ID: "C", Name: "Ravi"}}
		c.Products = []store.Product{{ID: "milk", Name: "Milk", Price: dec("20")}}
		c.Orders = []store.Order{
			{ID: "o2", Date: day("2024-05-05"), Items: []store.OrderItem{{CustomerID: "C", ProductID: "milk", Quantity: dec("5")}}},
			{ID: "o1", Date: day("2024-05-02"), Items: []store.OrderItem{{CustomerID: "C", ProductID: "milk", Quantity: dec("10")}}},
			{ID: "o3", Date: day("2024-05-04"), Items: []store.OrderItem{{CustomerID: "C", ProductID: "ghee", Quantity: dec("1")}}},
		}
		c.Payments = []store.Payment{{ID: "p1", CustomerID: "C", Amount: dec("150"), Date: day("2024-05-03"), PaymentMethod: store.PaymentCash}}
		return nil
	}))

	metrics := observability.NewMetrics()
	h := NewHandler(newTestLogger(), ledger.NewService(st, newTestLogger(), opts), metrics)
	r := chi.NewRouter()
	r.Route("/api", h.MountRoutes)
	return r, metrics
}

func TestGetLedgerJSON(t *testing.T) {
	router, _ := newTestRouter(t, ledger.Options{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/customers/C/ledger?start=2024-05-01&end=2024-05-06", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		CustomerName   string `json:"customerName"`
		ClosingBalance string `json:"closingBalance"`
		Entries        []struct {
			Date           string `json:"date"`
			ClosingBalance string `json:"closingBalance"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Ravi", body.CustomerName)
	assert.Equal(t, "150", body.ClosingBalance)
	require.Len(t, body.Entries, 4)
	assert.Equal(t, "2024-05-02", body.Entries[0].Date)
	assert.Equal(t, "50", body.Entries[2].ClosingBalance)
}

func TestGetLedgerCSVExport(t *testing.T) {
	router, metrics := newTestRouter(t, ledger.Options{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/customers/C/ledger?start=2024-05-01&end=2024-05-06&format=csv", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "csv")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "ledger_C_2024-05-01_2024-05-06.csv")
	assert.Contains(t, rr.Body.String(), "Milk")

	mr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(mr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, mr.Body.String(), `milkbook_ledger_reports_total{format="csv"} 1`)
}

func TestGetLedgerErrors(t *testing.T) {
	router, _ := newTestRouter(t, ledger.Options{})
	cases := []struct {
		url    string
		status int
	}{
		{"/api/customers/C/ledger?end=2024-05-06", http.StatusBadRequest},
		{"/api/customers/C/ledger?start=2024-05-06&end=2024-05-01", http.StatusBadRequest},
		{"/api/customers/C/ledger?start=2024-05-01&end=2024-05-06&format=docx", http.StatusBadRequest},
		{"/api/customers/X/ledger?start=2024-05-01&end=2024-05-06", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.url, nil))
		assert.Equal(t, tc.status, rr.Code, tc.url)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "application/problem+json"), tc.url)
	}
}

func TestGetLedgerStrictRates(t *testing.T) {
	router, _ := newTestRouter(t, ledger.Options{StrictRates: true})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/customers/C/ledger?start=2024-05-01&end=2024-05-06", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestGetOpeningBalanceAndReconcile(t *testing.T) {
	router, _ := newTestRouter(t, ledger.Options{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/customers/C/opening-balance?date=2024-05-04", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"openingBalance":"50"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/customers/C/opening-balance", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/customers/C/reconcile?asOf=2024-05-03", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"drift":"-50"`)
}

func TestConcurrentBuildsShareWithinHandlerOnly(t *testing.T) {
	a := NewHandler(newTestLogger(), nil, nil)
	b := NewHandler(newTestLogger(), nil, nil)
	ctx := context.Background()
	key := "C|2024-05-01|2024-05-06"

	release := make(chan struct{})
	started := make(chan struct{})
	first := make(chan interface{}, 1)
	go func() {
		val, _, _ := a.buildShared(ctx, key, func() (interface{}, error) {
			close(started)
			<-release
			return "lenient", nil
		})
		first <- val
	}()
	<-started

	val, err, deduped := b.buildShared(ctx, key, func() (interface{}, error) {
		return "strict", nil
	})
	require.NoError(t, err)
	assert.False(t, deduped)
	assert.Equal(t, "strict", val)

	close(release)
	assert.Equal(t, "lenient", <-first)
}

func TestBuildSharedHonoursCancel(t *testing.T) {
	h := NewHandler(newTestLogger(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	release := make(chan struct{})
	defer close(release)

	_, err, _ := h.buildShared(ctx, "k", func() (interface{}, error) {
		<-release
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
