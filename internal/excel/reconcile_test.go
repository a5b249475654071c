package excel

import (
	"testing"

	"pricedb/internal"
)

// gridSheet is an in-memory worksheet: a map of [row][col] cell text.
type gridSheet struct {
	cells  map[int]map[int]string
	maxRow int
}

func newGridSheet() *gridSheet {
	return &gridSheet{cells: map[int]map[int]string{}}
}

func (g *gridSheet) set(row, col int, v string) {
	if g.cells[row] == nil {
		g.cells[row] = map[int]string{}
	}
	g.cells[row][col] = v
	if row > g.maxRow {
		g.maxRow = row
	}
}

func (g *gridSheet) CellValue(row, col int) string { return g.cells[row][col] }
func (g *gridSheet) MaxRow() int                   { return g.maxRow }

// setBlock writes one 4-row block starting at row: part and SAP ids on the
// first row, the four observation values down the value column.
func (g *gridSheet) setBlock(layout Layout, row int, part, sap string, values [4]string) {
	g.set(row, layout.PartCol, part)
	g.set(row, layout.SAPCol, sap)
	for i, v := range values {
		g.set(row+i, layout.ValueCol, v)
	}
	if row+3 > g.maxRow {
		g.maxRow = row + 3
	}
}

func TestBuildIndex(t *testing.T) {
	layout := DefaultLayout()
	g := newGridSheet()
	g.setBlock(layout, 8, "MX-150", "1000123.0", [4]string{"01.01.2024", "1,00 €", "500.0", "Mouser (-30%)"})
	g.setBlock(layout, 12, "MX-150", "1000123", [4]string{"", "", "", ""})

	index := BuildIndex(g, layout)

	key := Key{Part: "mx-150", SAP: "1000123", Lot: "500", Source: "mouser"}
	if row, ok := index[key]; !ok || row != 8 {
		t.Fatalf("index[%+v]=%d ok=%v", key, row, ok)
	}
	empty := Key{Part: "mx-150", SAP: "1000123"}
	if row, ok := index[empty]; !ok || row != 12 {
		t.Fatalf("empty block not indexed: row=%d ok=%v", row, ok)
	}
}

func TestReconcileOverwriteOnKeyHit(t *testing.T) {
	layout := DefaultLayout()
	g := newGridSheet()
	g.setBlock(layout, 8, "MX-150", "1000123", [4]string{"01.01.2024", "1,00 €", "500", "Mouser (-30%)"})

	index := BuildIndex(g, layout)
	block := internal.PriceBlock{"15.03.2025", "0,70 €", "500.0", "Mouser (-30%)"}
	action := Reconcile(index, g, layout, "mx-150", "1000123.0", block)

	if action.Kind != ActionOverwrite || action.Row != 8 {
		t.Fatalf("action=%+v", action)
	}
}

func TestReconcileAppendNewIntoEmptySlot(t *testing.T) {
	layout := DefaultLayout()
	g := newGridSheet()
	g.setBlock(layout, 8, "MX-150", "1000123", [4]string{"01.01.2024", "1,00 €", "500", "Mouser (-30%)"})
	g.setBlock(layout, 12, "MX-150", "1000123", [4]string{"", "", "", ""})

	index := BuildIndex(g, layout)
	// different lot, so no composite-key hit
	block := internal.PriceBlock{"15.03.2025", "0,70 €", "1000", "Mouser (-30%)"}
	action := Reconcile(index, g, layout, "MX-150", "1000123", block)

	if action.Kind != ActionAppendNew || action.Row != 12 {
		t.Fatalf("action=%+v", action)
	}
}

func TestReconcileSkipUnknownPart(t *testing.T) {
	layout := DefaultLayout()
	g := newGridSheet()
	g.setBlock(layout, 8, "MX-150", "1000123", [4]string{"01.01.2024", "1,00 €", "500", "Mouser (-30%)"})

	index := BuildIndex(g, layout)
	block := internal.PriceBlock{"15.03.2025", "0,70 €", "500", "Mouser (-30%)"}
	action := Reconcile(index, g, layout, "other-part", "9999", block)

	if action.Kind != ActionSkip {
		t.Fatalf("action=%+v", action)
	}
}

func TestReconcileSkipWhenNoEmptySlot(t *testing.T) {
	layout := DefaultLayout()
	g := newGridSheet()
	g.setBlock(layout, 8, "MX-150", "1000123", [4]string{"01.01.2024", "1,00 €", "500", "Mouser (-30%)"})

	index := BuildIndex(g, layout)
	block := internal.PriceBlock{"15.03.2025", "0,70 €", "1000", "Octopart (-30%)"}
	action := Reconcile(index, g, layout, "MX-150", "1000123", block)

	if action.Kind != ActionSkip {
		t.Fatalf("action=%+v", action)
	}
}

func TestReconcileMatchesBySAPWhenPartMissing(t *testing.T) {
	layout := DefaultLayout()
	g := newGridSheet()
	g.setBlock(layout, 8, "", "1000123", [4]string{"", "", "", ""})

	index := BuildIndex(g, layout)
	block := internal.PriceBlock{"15.03.2025", "0,70 €", "500", "Mouser (-30%)"}
	action := Reconcile(index, g, layout, "", "1000123", block)

	if action.Kind != ActionAppendNew || action.Row != 8 {
		t.Fatalf("action=%+v", action)
	}
}
