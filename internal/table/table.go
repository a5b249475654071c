// Package table holds the in-memory tabular snapshot the search and merge
// operations work on. Cells are a tagged union because a single column may
// carry strings, numbers and dates interchangeably depending on how the
// source spreadsheet was filled in.
package table

import (
	"strconv"
	"strings"
	"time"
)

// BlockSize is the number of rows one price observation occupies:
// date, price, lot size, source label.
const BlockSize = 4

type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
}

func Empty() Cell           { return Cell{Kind: KindEmpty} }
func Text(s string) Cell    { return Cell{Kind: KindText, Text: s} }
func Number(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }

func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty || (c.Kind == KindText && strings.TrimSpace(c.Text) == "")
}

// Raw renders the cell the way the original spreadsheet value would print,
// without any display formatting.
func (c Cell) Raw() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindDate:
		return c.Date.Format("02.01.2006")
	default:
		return ""
	}
}

type Column struct {
	Name  string
	Cells []Cell
}

// Table is a column-ordered table. Column order is significant: the first
// two columns of the price database are the identifying columns and the
// remainder are per-source observation columns.
type Table struct {
	Columns []Column
}

func New(names ...string) *Table {
	t := &Table{Columns: make([]Column, 0, len(names))}
	for _, n := range names {
		t.Columns = append(t.Columns, Column{Name: n})
	}
	return t
}

func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	max := 0
	for _, c := range t.Columns {
		if len(c.Cells) > max {
			max = len(c.Cells)
		}
	}
	return max
}

func (t *Table) NumCols() int { return len(t.Columns) }

func (t *Table) ColumnNames() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Cell returns the value at (row, column name); Empty when out of range.
func (t *Table) Cell(row int, name string) Cell {
	col, ok := t.Column(name)
	if !ok || row < 0 || row >= len(col.Cells) {
		return Empty()
	}
	return col.Cells[row]
}

func (t *Table) SetCell(row int, name string, c Cell) {
	col, ok := t.Column(name)
	if !ok {
		t.Columns = append(t.Columns, Column{Name: name})
		col = &t.Columns[len(t.Columns)-1]
	}
	for len(col.Cells) <= row {
		col.Cells = append(col.Cells, Empty())
	}
	col.Cells[row] = c
}

// AddColumn appends a column; shorter cell slices are padded with Empty so
// all columns stay row-aligned.
func (t *Table) AddColumn(name string, cells []Cell) {
	rows := t.NumRows()
	if len(cells) > rows {
		rows = len(cells)
	}
	padded := make([]Cell, rows)
	copy(padded, cells)
	for i := len(cells); i < rows; i++ {
		padded[i] = Empty()
	}
	t.Columns = append(t.Columns, Column{Name: name, Cells: padded})
	t.padAll(rows)
}

func (t *Table) padAll(rows int) {
	for i := range t.Columns {
		for len(t.Columns[i].Cells) < rows {
			t.Columns[i].Cells = append(t.Columns[i].Cells, Empty())
		}
	}
}

// SliceRows copies rows [start, end) into a new table with the same columns.
func (t *Table) SliceRows(start, end int) *Table {
	if start < 0 {
		start = 0
	}
	if end > t.NumRows() {
		end = t.NumRows()
	}
	out := &Table{Columns: make([]Column, 0, len(t.Columns))}
	for _, c := range t.Columns {
		cells := make([]Cell, 0, end-start)
		for r := start; r < end; r++ {
			if r < len(c.Cells) {
				cells = append(cells, c.Cells[r])
			} else {
				cells = append(cells, Empty())
			}
		}
		out.Columns = append(out.Columns, Column{Name: c.Name, Cells: cells})
	}
	return out
}

// AppendTable concatenates other below t. Columns are matched by name;
// columns present on only one side are padded with Empty on the other, new
// columns keep their order of first appearance.
func (t *Table) AppendTable(other *Table) {
	base := t.NumRows()
	total := base + other.NumRows()
	for _, oc := range other.Columns {
		col, ok := t.Column(oc.Name)
		if !ok {
			t.Columns = append(t.Columns, Column{Name: oc.Name, Cells: make([]Cell, base)})
			col = &t.Columns[len(t.Columns)-1]
			for i := range col.Cells {
				col.Cells[i] = Empty()
			}
		}
		col.Cells = append(col.Cells, oc.Cells...)
	}
	t.padAll(total)
}

// Copy returns a deep copy; the merger works on a copy so the database
// snapshot stays untouched.
func (t *Table) Copy() *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Cell, len(c.Cells))
		copy(cells, c.Cells)
		out.Columns[i] = Column{Name: c.Name, Cells: cells}
	}
	return out
}
