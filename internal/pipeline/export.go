package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pricedb/internal/table"
)

// ExportTableToXLSX writes a merged view to an xlsx file, one header row
// followed by the table rows with their native cell types.
func ExportTableToXLSX(t *table.Table, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, name := range t.ColumnNames() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}

	rows := t.NumRows()
	for c, col := range t.Columns {
		for r := 0; r < rows; r++ {
			var v table.Cell
			if r < len(col.Cells) {
				v = col.Cells[r]
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			switch v.Kind {
			case table.KindNumber:
				_ = f.SetCellValue(sheet, cell, v.Number)
			case table.KindDate:
				_ = f.SetCellValue(sheet, cell, v.Date)
			case table.KindText:
				_ = f.SetCellValue(sheet, cell, v.Text)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
