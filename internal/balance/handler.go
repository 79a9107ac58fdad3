package balance

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/milkbook/milkbook/internal/platform/httpx"
)

// Handler exposes payments and stock receipts over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the balance handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers payment, supplier payment and stock entry routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Get("/", h.listPayments)
		r.Post("/", h.recordPayment)
		r.Patch("/{id}", h.updatePayment)
		r.Delete("/{id}", h.deletePayment)
	})
	r.Route("/supplier-payments", func(r chi.Router) {
		r.Get("/", h.listSupplierPayments)
		r.Post("/", h.recordSupplierPayment)
		r.Patch("/{id}", h.updateSupplierPayment)
		r.Delete("/{id}", h.deleteSupplierPayment)
	})
	r.Route("/stock-entries", func(r chi.Router) {
		r.Get("/", h.listStockEntries)
		r.Post("/", h.recordStockEntry)
	})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListPayments(r.URL.Query().Get("customerId"))))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var input PaymentInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	payment, err := h.service.RecordPayment(r.Context(), input)
	if err != nil {
		h.fail(w, "record payment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	var patch PaymentPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdatePayment(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		h.fail(w, "update payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSupplierPayments(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListSupplierPayments(r.URL.Query().Get("supplierId"))))
}

func (h *Handler) recordSupplierPayment(w http.ResponseWriter, r *http.Request) {
	var input SupplierPaymentInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	payment, err := h.service.RecordSupplierPayment(r.Context(), input)
	if err != nil {
		h.fail(w, "record supplier payment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) updateSupplierPayment(w http.ResponseWriter, r *http.Request) {
	var patch PaymentPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateSupplierPayment(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		h.fail(w, "update supplier payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteSupplierPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSupplierPayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete supplier payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listStockEntries(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.List(h.service.ListStockEntries(r.URL.Query().Get("supplierId"))))
}

func (h *Handler) recordStockEntry(w http.ResponseWriter, r *http.Request) {
	var input StockEntryInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, err := h.service.RecordStockEntry(r.Context(), input)
	if err != nil {
		h.fail(w, "record stock entry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Warn(op+" failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}
