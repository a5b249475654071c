// Package excel reconciles price updates into the macro-enabled spreadsheet
// store: it indexes the sheet's 4-row blocks by composite key and decides
// per update whether to overwrite an existing block, fill an empty one, or
// skip.
package excel

import (
	"pricedb/internal/table"
	"pricedb/internal/util"
)

// Layout pins where the 4-row blocks live on the worksheet. Rows and
// columns are 1-based as in the sheet itself.
type Layout struct {
	FirstDataRow int // first row of the first block
	PartCol      int // manufacturer order number
	SAPCol       int // internal SAP number
	ValueCol     int // the column holding the 4 observation values
}

func DefaultLayout() Layout {
	return Layout{FirstDataRow: 8, PartCol: 2, SAPCol: 3, ValueCol: 24}
}

// SheetReader is the read surface of a worksheet. The live implementation
// wraps excelize; tests use an in-memory grid.
type SheetReader interface {
	CellValue(row, col int) string
	MaxRow() int
}

// Key identifies one block: part id, secondary id, lot size and source, all
// normalized.
type Key struct {
	Part   string
	SAP    string
	Lot    string
	Source string
}

// BuildIndex scans the sheet in 4-row strides and maps each block's
// composite key to its starting row. The index is built fresh per session
// and after every write; it is never persisted.
func BuildIndex(r SheetReader, layout Layout) map[Key]int {
	index := map[Key]int{}
	maxRow := r.MaxRow()
	for row := layout.FirstDataRow; row <= maxRow; row += table.BlockSize {
		key := Key{
			Part:   util.NormalizeIdentifier(r.CellValue(row, layout.PartCol)),
			SAP:    util.NormalizeIdentifier(r.CellValue(row, layout.SAPCol)),
			Lot:    util.NormalizeQuantity(r.CellValue(row+2, layout.ValueCol)),
			Source: util.NormalizeSource(r.CellValue(row+3, layout.ValueCol)),
		}
		index[key] = row
	}
	return index
}
