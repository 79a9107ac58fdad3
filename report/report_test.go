package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/milkbook/milkbook/internal/ledger"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/internal/store"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	day := shared.MustParseDate
	qty := decimal.RequireFromString
	c := &store.Collections{
		Customers: []store.Customer{{ID: "C", Name: "Ravi"}},
		Products:  []store.Product{{ID: "milk", Name: "Milk", Price: qty("20")}, {ID: "curd", Name: "Curd", Price: qty("33.333")}},
		Orders: []store.Order{
			{ID: "o1", Date: day("2024-05-02"), Items: []store.OrderItem{{CustomerID: "C", ProductID: "milk", Quantity: qty("10")}}},
			{ID: "o2", Date: day("2024-05-05"), Items: []store.OrderItem{{CustomerID: "C", ProductID: "curd", Quantity: qty("1")}}},
		},
		Payments: []store.Payment{{ID: "p1", CustomerID: "C", Amount: qty("150"), Date: day("2024-05-03"), PaymentMethod: store.PaymentCash, Notes: "counter, evening"}},
	}
	r, err := ledger.BuildReport(c, "C", day("2024-05-01"), day("2024-05-06"), ledger.Options{})
	require.NoError(t, err)
	return NewDocument(r, map[string]string{"milk": "Milk", "curd": "Curd"})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, "application/pdf", ContentType(FormatPDF))
	assert.Contains(t, ContentType(FormatCSV), "csv")
	assert.Contains(t, ContentType(FormatXLSX), "spreadsheetml")
}

func TestWriteCSV(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, doc))

	lines := strings.Split(buf.String(), "\r\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "# Customer: Ravi (C)", lines[0])
	assert.Equal(t, "# Period: 2024-05-01 to 2024-05-06", lines[1])

	body := strings.Join(lines[2:], "\n")
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, []string{"Date", "Curd", "Milk", "Total Qty", "Billed", "Received", "Balance", "Reference"}, records[0])
	assert.Equal(t, "Opening balance", records[1][7])
	assert.Equal(t, "0.00", records[1][6])
	assert.Equal(t, []string{"2024-05-02", "", "10", "10", "200.00", "0.00", "200.00", ""}, records[2])
	assert.Equal(t, "CASH - counter, evening", records[3][7])
	// 33.333 billed is presented at two places.
	assert.Equal(t, "33.33", records[4][4])
	assert.Equal(t, []string{"Total", "1", "10", "11", "233.33", "150.00", "83.33", ""}, records[5])
}

func TestWriteXLSX(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{xlsxSheet}, f.GetSheetList())
	v, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi (C)", v)
	v, err = f.GetCellValue(xlsxSheet, "G6")
	require.NoError(t, err)
	assert.Equal(t, "200.00", v)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPDF, sampleDocument(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestClipCutsOnRuneBoundary(t *testing.T) {
	assert.Equal(t, "CASH", clip("CASH", pdfRefRunes))

	note := "UPI - " + strings.Repeat("दूध", 20)
	got := clip(note, pdfRefRunes)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, pdfRefRunes, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestWritePDFLongUnicodeReference(t *testing.T) {
	doc := sampleDocument(t)
	doc.Report.Entries[1].Reference = "UPI - " + strings.Repeat("दूध", 20)
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteRejectsJSON(t *testing.T) {
	err := Write(&bytes.Buffer{}, FormatJSON, sampleDocument(t))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "ledger_C_2024-05-01_2024-05-06.pdf", sampleDocument(t).Filename(FormatPDF))
}
