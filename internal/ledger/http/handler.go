// Package http exposes customer ledgers over HTTP.
package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/milkbook/milkbook/internal/ledger"
	"github.com/milkbook/milkbook/internal/observability"
	"github.com/milkbook/milkbook/internal/platform/httpx"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/report"
)

// Handler wires ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service *ledger.Service
	metrics *observability.Metrics
	builds  singleflight.Group
}

// NewHandler constructs the ledger handler. metrics may be nil.
func NewHandler(logger *slog.Logger, service *ledger.Service, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers ledger routes under the customers resource.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers/{id}/ledger", h.getLedger)
	r.Get("/customers/{id}/opening-balance", h.getOpeningBalance)
	r.Get("/customers/{id}/reconcile", h.getReconcile)
}

func (h *Handler) getLedger(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	start, err := requiredDate(r, "start")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	end, err := requiredDate(r, "end")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	began := time.Now()
	key := strings.Join([]string{customerID, start.String(), end.String()}, "|")
	val, err, deduped := h.buildShared(r.Context(), key, func() (interface{}, error) {
		return h.service.GenerateReport(customerID, start, end)
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if deduped {
		h.logger.Debug("ledger build shared", slog.String("key", key))
	}
	doc := report.NewDocument(val.(*ledger.Report), h.service.ProductNames())

	if format == report.FormatJSON {
		h.metrics.ObserveLedgerReport(string(format), time.Since(began))
		httpx.JSON(w, http.StatusOK, doc.Report)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, doc); err != nil {
		h.logger.Error("render ledger", slog.String("format", string(format)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveLedgerReport(string(format), time.Since(began))
	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) getOpeningBalance(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	date, err := requiredDate(r, "date")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	balance, err := h.service.OpeningBalance(customerID, date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"customerId":     customerID,
		"date":           date,
		"openingBalance": balance.Round(ledger.MoneyPlaces),
	})
}

func (h *Handler) getReconcile(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	asOf, err := httpx.QueryDate(r, "asOf")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if asOf.IsZero() {
		asOf = shared.Today()
	}
	rec, err := h.service.Reconcile(customerID, asOf)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func requiredDate(r *http.Request, name string) (shared.Date, error) {
	d, err := httpx.QueryDate(r, name)
	if err != nil {
		return shared.Date{}, err
	}
	if d.IsZero() {
		return shared.Date{}, fmt.Errorf("%w: %s is required", shared.ErrValidation, name)
	}
	return d, nil
}
