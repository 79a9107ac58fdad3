package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pdfPageWidth  = 277.0
	pdfDateWidth  = 24.0
	pdfRefWidth   = 60.0
	pdfLineHeight = 6.0
	pdfRefRunes   = 40
)

// WritePDF renders the ledger as a landscape A4 table.
func WritePDF(w io.Writer, doc Document) error {
	r := doc.Report
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 15)
	pdf.CellFormat(pdfPageWidth, 9, tr("Customer Ledger"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pdfPageWidth, 6, tr(fmt.Sprintf("%s (%s)", r.CustomerName, r.CustomerID)), "", 1, "C", false, 0, "")
	pdf.CellFormat(pdfPageWidth, 6, fmt.Sprintf("%s to %s", r.StartDate, r.EndDate), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	header := doc.header()
	widths := columnWidths(len(header))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	rows := doc.rows()
	for n, row := range rows {
		if n == len(rows)-1 {
			pdf.SetFont("Arial", "B", 9)
		}
		for i, v := range row {
			align := "R"
			if i == 0 || i == len(row)-1 {
				align = "L"
			}
			if i == len(row)-1 {
				v = clip(v, pdfRefRunes)
			}
			pdf.CellFormat(widths[i], pdfLineHeight, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// columnWidths gives date and reference fixed widths and shares the rest.
func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	widths[0] = pdfDateWidth
	widths[n-1] = pdfRefWidth
	mid := (pdfPageWidth - pdfDateWidth - pdfRefWidth) / float64(n-2)
	for i := 1; i < n-1; i++ {
		widths[i] = mid
	}
	return widths
}
