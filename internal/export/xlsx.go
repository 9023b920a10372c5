package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxColWidth = 18

// WriteXLSX writes tbl as a single-sheet workbook named after the table.
// Numeric cells stay numeric.
func WriteXLSX(w io.Writer, tbl Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := tbl.Name
	if sheet == "" {
		sheet = string(TypeFull)
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, h := range tbl.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, xlsxColWidth)
	}
	if len(tbl.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(tbl.Header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, bold)
	}

	for r, rec := range tbl.Rows {
		for c, v := range rec {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
