package masterdata

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

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, _, _ := newTestService(t)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/api", h.MountRoutes)
	return r
}

func send(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, url, reader))
	return rr
}

func TestCustomerAndRateRoutes(t *testing.T) {
	router := newTestRouter(t)

	rr := send(t, router, http.MethodGet, "/api/customers", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = send(t, router, http.MethodPost, "/api/customers", `{"name":"Ravi","openingBalance":"120.50"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var customer store.Customer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customer))

	rr = send(t, router, http.MethodPost, "/api/products", `{"name":"Milk","price":52,"unit":"litre"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var product store.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))

	rr = send(t, router, http.MethodGet, "/api/customers/"+customer.ID+"/rates/"+product.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rate":"52"`)

	rr = send(t, router, http.MethodPut, "/api/customer-rates", `{"customerId":"`+customer.ID+`","productId":"`+product.ID+`","rate":"49.5","effectiveDate":"2024-05-01"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = send(t, router, http.MethodGet, "/api/customers/"+customer.ID+"/rates/"+product.ID, "")
	assert.Contains(t, rr.Body.String(), `"rate":"49.5"`)

	rr = send(t, router, http.MethodGet, "/api/customers/"+customer.ID+"/rates", "")
	assert.Contains(t, rr.Body.String(), `"effectiveDate":"2024-05-01"`)

	rr = send(t, router, http.MethodPut, "/api/customers/"+customer.ID, `{"name":"Ravi Kumar"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"outstandingBalance":"120.5"`)

	rr = send(t, router, http.MethodGet, "/api/customers/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = send(t, router, http.MethodPost, "/api/customers", `{"phone":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = send(t, router, http.MethodDelete, "/api/customers/"+customer.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestSupplierRateRoutes(t *testing.T) {
	router := newTestRouter(t)

	rr := send(t, router, http.MethodPost, "/api/suppliers", `{"name":"Co-op"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var supplier store.Supplier
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &supplier))

	rr = send(t, router, http.MethodPost, "/api/products", `{"name":"Milk","price":"52"}`)
	var product store.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))

	rr = send(t, router, http.MethodPost, "/api/supplier-rates", `{"supplierId":"`+supplier.ID+`","productId":"`+product.ID+`","rate":"41","effectiveDate":"2024-04-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rate store.SupplierProductRate
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rate))

	rr = send(t, router, http.MethodGet, "/api/suppliers/"+supplier.ID+"/rates/"+product.ID, "")
	assert.Contains(t, rr.Body.String(), `"found":true`)

	rr = send(t, router, http.MethodPost, "/api/supplier-rates/"+rate.ID+"/deactivate", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = send(t, router, http.MethodGet, "/api/suppliers/"+supplier.ID+"/rates/"+product.ID, "")
	assert.Contains(t, rr.Body.String(), `"found":false`)

	rr = send(t, router, http.MethodGet, "/api/suppliers/"+supplier.ID+"/rates?productId="+product.ID, "")
	assert.Contains(t, rr.Body.String(), `"isActive":false`)
}
