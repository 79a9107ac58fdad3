// Package report renders customer ledgers as downloadable documents.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/ledger"
	"github.com/milkbook/milkbook/internal/shared"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts a case-insensitive format name. Empty means JSON.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrValidation, raw)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string { return "." + string(f) }

// Document is a rounded ledger plus display labels.
type Document struct {
	Report       *ledger.Report
	ProductNames map[string]string
}

// NewDocument rounds report for presentation.
func NewDocument(report *ledger.Report, productNames map[string]string) Document {
	if productNames == nil {
		productNames = map[string]string{}
	}
	return Document{Report: report.Rounded(), ProductNames: productNames}
}

func (d Document) productLabel(id string) string {
	if name := d.ProductNames[id]; name != "" {
		return name
	}
	return id
}

// Filename suggests a download name for the document.
func (d Document) Filename(f Format) string {
	return fmt.Sprintf("ledger_%s_%s_%s%s", d.Report.CustomerID, d.Report.StartDate, d.Report.EndDate, f.Extension())
}

func (d Document) header() []string {
	row := []string{"Date"}
	for _, id := range d.Report.ProductIDs() {
		row = append(row, d.productLabel(id))
	}
	return append(row, "Total Qty", "Billed", "Received", "Balance", "Reference")
}

func (d Document) rows() [][]string {
	r := d.Report
	products := r.ProductIDs()
	out := make([][]string, 0, len(r.Entries)+2)

	opening := []string{r.StartDate.String()}
	for range products {
		opening = append(opening, "")
	}
	opening = append(opening, "", "", "", money(r.OpeningBalance), "Opening balance")
	out = append(out, opening)

	for _, e := range r.Entries {
		row := []string{e.Date.String()}
		for _, id := range products {
			q, ok := e.ProductQuantities[id]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, q.String())
		}
		row = append(row, e.TotalQuantity.String(), money(e.AmountBilled), money(e.PaymentReceived), money(e.ClosingBalance), e.Reference)
		out = append(out, row)
	}

	totals := []string{"Total"}
	qty := decimal.Zero
	for _, id := range products {
		q := r.TotalProductQuantities[id]
		qty = qty.Add(q)
		totals = append(totals, q.String())
	}
	totals = append(totals, qty.String(), money(r.TotalAmountBilled), money(r.TotalPaymentReceived), money(r.ClosingBalance), "")
	return append(out, totals)
}

func money(d decimal.Decimal) string { return d.StringFixed(ledger.MoneyPlaces) }

// Write renders doc to w in format f. JSON is handled by the caller.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatPDF:
		return WritePDF(w, doc)
	default:
		return fmt.Errorf("%w: format %q is not a document format", shared.ErrValidation, f)
	}
}
