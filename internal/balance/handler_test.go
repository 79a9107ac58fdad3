package balance

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkbook/milkbook/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	svc, st, _ := newTestService(t, func(c *store.Collections) {
		c.Customers = append(c.Customers, store.Customer{ID: "C", Name: "Ravi", OutstandingBalance: dec("1000")})
		c.Suppliers = append(c.Suppliers, store.Supplier{ID: "S", Name: "Dairy Co-op", OutstandingBalance: dec("500")})
		c.Products = append(c.Products, store.Product{ID: "milk", Name: "Milk", Price: dec("52")})
		c.SupplierProductRates = append(c.SupplierProductRates, store.SupplierProductRate{ID: "r", SupplierID: "S", ProductID: "milk", Rate: dec("40"), IsActive: true})
	})
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/api", h.MountRoutes)
	return r, st
}

func do(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPaymentRoutes(t *testing.T) {
	router, st := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/payments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, router, http.MethodPost, "/api/payments", `{"customerId":"C","amount":300,"date":"2024-05-01","paymentMethod":"cash"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created store.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "2024-05-01", created.Date.String())
	assert.Equal(t, "700", customer(t, st, "C").OutstandingBalance.String())

	rr = do(t, router, http.MethodPatch, "/api/payments/"+created.ID, `{"amount":"500"}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
	assert.Equal(t, "500", customer(t, st, "C").OutstandingBalance.String())

	rr = do(t, router, http.MethodGet, "/api/payments?customerId=C", "")
	assert.Contains(t, rr.Body.String(), created.ID)

	rr = do(t, router, http.MethodDelete, "/api/payments/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "1000", customer(t, st, "C").OutstandingBalance.String())

	rr = do(t, router, http.MethodDelete, "/api/payments/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPaymentRoutesRejectBadInput(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/api/payments", `{"customerId":"C","amount":-5,"date":"2024-05-01","paymentMethod":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "amount")

	rr = do(t, router, http.MethodPost, "/api/payments", `{"customerId":"C","amount":5,"date":"01/05/2024","paymentMethod":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/payments", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSupplierRoutes(t *testing.T) {
	router, st := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/api/stock-entries", `{"supplierId":"S","date":"2024-05-01","items":[{"productId":"milk","quantity":"100"}]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var entry store.StockEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, "4000", entry.TotalAmount.String())

	rr = do(t, router, http.MethodPost, "/api/supplier-payments", `{"supplierId":"S","amount":"1500","date":"2024-05-02","paymentMethod":"bank"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var paid store.SupplierPayment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &paid))

	var balance string
	require.NoError(t, st.View(func(c *store.Collections) error {
		balance = c.Supplier("S").OutstandingBalance.String()
		return nil
	}))
	assert.Equal(t, "3000", balance)

	rr = do(t, router, http.MethodGet, "/api/stock-entries?supplierId=S", "")
	assert.Contains(t, rr.Body.String(), entry.ID)
	rr = do(t, router, http.MethodGet, "/api/supplier-payments?supplierId=S", "")
	assert.Contains(t, rr.Body.String(), paid.ID)

	rr = do(t, router, http.MethodPatch, "/api/supplier-payments/"+paid.ID, `{"amount":"1000"}`)
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, router, http.MethodDelete, "/api/supplier-payments/"+paid.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	require.NoError(t, st.View(func(c *store.Collections) error {
		balance = c.Supplier("S").OutstandingBalance.String()
		return nil
	}))
	assert.Equal(t, "4500", balance)
}
