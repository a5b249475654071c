package excel

import (
	"strings"

	"pricedb/internal"
	"pricedb/internal/table"
	"pricedb/internal/util"
)

type ActionKind int

const (
	// ActionSkip means no existing block and no empty slot: price updates
	// never fabricate part rows.
	ActionSkip ActionKind = iota
	// ActionOverwrite rewrites the indexed block in place.
	ActionOverwrite
	// ActionAppendNew fills a part's empty 4-row slot.
	ActionAppendNew
)

type Action struct {
	Kind ActionKind
	Row  int
}

// UpdateKey builds the composite key an incoming update is reconciled
// under.
func UpdateKey(partID, sapID string, block internal.PriceBlock) Key {
	return Key{
		Part:   util.NormalizeIdentifier(partID),
		SAP:    util.NormalizeIdentifier(sapID),
		Lot:    util.NormalizeQuantity(block[2]),
		Source: util.NormalizeSource(block[3]),
	}
}

// Reconcile decides where an update lands. An exact composite-key hit
// overwrites in place; otherwise the sheet is scanned forward for a block
// of the same part whose four value cells are all empty.
func Reconcile(index map[Key]int, r SheetReader, layout Layout, partID, sapID string, block internal.PriceBlock) Action {
	key := UpdateKey(partID, sapID, block)
	if row, ok := index[key]; ok {
		return Action{Kind: ActionOverwrite, Row: row}
	}

	maxRow := r.MaxRow()
	for row := layout.FirstDataRow; row <= maxRow; row += table.BlockSize {
		part := util.NormalizeIdentifier(r.CellValue(row, layout.PartCol))
		sap := util.NormalizeIdentifier(r.CellValue(row, layout.SAPCol))
		samePart := (key.Part != "" && part == key.Part) || (key.SAP != "" && sap == key.SAP)
		if !samePart {
			continue
		}
		if blockEmpty(r, layout, row) {
			return Action{Kind: ActionAppendNew, Row: row}
		}
	}
	return Action{Kind: ActionSkip}
}

func blockEmpty(r SheetReader, layout Layout, row int) bool {
	for i := 0; i < table.BlockSize; i++ {
		if strings.TrimSpace(r.CellValue(row+i, layout.ValueCol)) != "" {
			return false
		}
	}
	return true
}
