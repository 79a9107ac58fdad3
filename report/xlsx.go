package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Ledger"

// WriteXLSX renders the ledger as a single-sheet workbook.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("xlsx: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx: drop default sheet: %w", err)
	}

	r := doc.Report
	if err := f.SetCellValue(xlsxSheet, "A1", fmt.Sprintf("%s (%s)", r.CustomerName, r.CustomerID)); err != nil {
		return err
	}
	if err := f.SetCellValue(xlsxSheet, "A2", fmt.Sprintf("%s to %s", r.StartDate, r.EndDate)); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}

	const firstRow = 4
	header := doc.header()
	if err := setRow(f, firstRow, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), firstRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, "A4", last, bold); err != nil {
		return err
	}

	for i, row := range doc.rows() {
		if err := setRow(f, firstRow+1+i, row); err != nil {
			return err
		}
	}

	endCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "A", endCol, 14); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, endCol, endCol, 30); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(xlsxSheet, cell, &vals)
}
