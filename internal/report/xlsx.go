package report

import (
	"github.com/xuri/excelize/v2"
)

// writeXLSX writes one sheet with the header in row 1 and every column sized
// to its longest cell plus two characters.
func writeXLSX(path, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		widths[i] = len(h)
	}
	for r, row := range rows {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if i < len(widths) {
				if n := len(cellString(v)); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
