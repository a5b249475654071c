package table

import "testing"

func TestSliceRowsClipped(t *testing.T) {
	tb := New("A")
	col, _ := tb.Column("A")
	for i := 0; i < 6; i++ {
		col.Cells = append(col.Cells, Number(float64(i)))
	}
	block := tb.SliceRows(4, 8)
	if block.NumRows() != 2 {
		t.Fatalf("rows=%d", block.NumRows())
	}
	if block.Cell(0, "A").Number != 4 {
		t.Fatalf("unexpected first cell: %+v", block.Cell(0, "A"))
	}
}

func TestAppendTableAlignsColumns(t *testing.T) {
	a := New("X", "Y")
	a.SetCell(0, "X", Text("x0"))
	a.SetCell(0, "Y", Text("y0"))

	b := New("Y", "Z")
	b.SetCell(0, "Y", Text("y1"))
	b.SetCell(0, "Z", Text("z1"))

	a.AppendTable(b)

	if a.NumRows() != 2 || a.NumCols() != 3 {
		t.Fatalf("rows=%d cols=%d", a.NumRows(), a.NumCols())
	}
	if a.Cell(1, "Y").Text != "y1" {
		t.Fatalf("Y not aligned: %+v", a.Cell(1, "Y"))
	}
	if !a.Cell(1, "X").IsEmpty() || !a.Cell(0, "Z").IsEmpty() {
		t.Fatalf("missing cells must be empty")
	}
}

func TestCellRaw(t *testing.T) {
	if got := Number(123).Raw(); got != "123" {
		t.Fatalf("got %q", got)
	}
	if got := Number(2.5).Raw(); got != "2.5" {
		t.Fatalf("got %q", got)
	}
	if got := Text(" a ").Raw(); got != " a " {
		t.Fatalf("got %q", got)
	}
}
