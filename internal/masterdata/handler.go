package masterdata

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/milkbook/milkbook/internal/platform/httpx"
)

// Handler exposes master data over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the master data handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers customer, product and supplier routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
		r.Get("/{id}/rates", h.listCustomerRates)
		r.Get("/{id}/rates/{productId}", h.getCustomerRate)
	})
	r.Route("/customer-rates", func(r chi.Router) {
		r.Put("/", h.setCustomerRate)
		r.Delete("/{id}", h.deleteCustomerRate)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.listSuppliers)
		r.Post("/", h.createSupplier)
		r.Get("/{id}", h.getSupplier)
		r.Put("/{id}", h.updateSupplier)
		r.Delete("/{id}", h.deleteSupplier)
		r.Get("/{id}/rates", h.listSupplierRates)
		r.Get("/{id}/rates/{productId}", h.getSupplierRate)
	})
	r.Route("/supplier-rates", func(r chi.Router) {
		r.Post("/", h.addSupplierRate)
		r.Post("/{id}/deactivate", h.deactivateSupplierRate)
	})
}

func filtersFrom(r *http.Request) ListFilters {
	return ListFilters{Search: r.URL.Query().Get("search")}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Warn(op+" failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListCustomers(filtersFrom(r))))
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var input PartyInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.service.CreateCustomer(r.Context(), input)
	if err != nil {
		h.fail(w, "create customer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.GetCustomer(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var input PartyInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.service.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, "update customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCustomerRates(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListCustomerRates(chi.URLParam(r, "id"))))
}

func (h *Handler) getCustomerRate(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.CustomerRate(chi.URLParam(r, "id"), chi.URLParam(r, "productId")))
}

func (h *Handler) setCustomerRate(w http.ResponseWriter, r *http.Request) {
	var input CustomerRateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rate, err := h.service.SetCustomerRate(r.Context(), input)
	if err != nil {
		h.fail(w, "set customer rate", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rate)
}

func (h *Handler) deleteCustomerRate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomerRate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete customer rate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListProducts(filtersFrom(r))))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListSuppliers(filtersFrom(r))))
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var input PartyInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	supplier, err := h.service.CreateSupplier(r.Context(), input)
	if err != nil {
		h.fail(w, "create supplier", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.GetSupplier(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var input PartyInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	supplier, err := h.service.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, "update supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSupplierRates(w http.ResponseWriter, r *http.Request) {
	rates := h.service.ListSupplierRates(chi.URLParam(r, "id"), r.URL.Query().Get("productId"))
	httpx.JSON(w, http.StatusOK, httpx.List(rates))
}

func (h *Handler) getSupplierRate(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.SupplierRate(chi.URLParam(r, "id"), chi.URLParam(r, "productId")))
}

func (h *Handler) addSupplierRate(w http.ResponseWriter, r *http.Request) {
	var input SupplierRateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rate, err := h.service.AddSupplierRate(r.Context(), input)
	if err != nil {
		h.fail(w, "add supplier rate", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rate)
}

func (h *Handler) deactivateSupplierRate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateSupplierRate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "deactivate supplier rate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
