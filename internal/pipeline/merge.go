// Package pipeline combines database blocks with vendor quotes into the
// comparison tables shown to the user, and drives bulk BOM runs.
package pipeline

import (
	"time"

	"pricedb/internal"
	"pricedb/internal/table"
	"pricedb/internal/util"
)

// MergeResult is one part's comparison table plus the row indices of every
// 4-row group flagged as outdated.
type MergeResult struct {
	Table     *table.Table
	StaleRows []int
}

func (m MergeResult) Empty() bool {
	return m.Table == nil || m.Table.NumRows() == 0
}

// Merge combines a matched database block (may be nil) with zero or more
// vendor quotes. The block's date and price rows are reformatted for
// display, each quote becomes one appended column, and the whole result is
// scanned for stale 4-row groups.
func Merge(block *table.Table, quotes []internal.Quote, now time.Time, maxAgeDays int) MergeResult {
	var t *table.Table
	if block != nil && block.NumRows() > 0 {
		t = block.Copy()
		formatBlockRows(t)
	} else if len(quotes) > 0 {
		t = &table.Table{}
	} else {
		return MergeResult{}
	}

	for _, q := range quotes {
		setQuoteColumn(t, q)
	}
	if t.NumRows() == 0 {
		return MergeResult{}
	}
	return MergeResult{Table: t, StaleRows: staleRows(t, now, maxAgeDays)}
}

// formatBlockRows reformats row 0 (date) and row 1 (price) of a database
// block for display. Lot size and source label need no reformatting.
func formatBlockRows(t *table.Table) {
	for i := range t.Columns {
		cells := t.Columns[i].Cells
		if len(cells) > 0 && !cells[0].IsEmpty() {
			cells[0] = table.Text(util.FormatDateCell(cells[0]))
		}
		if len(cells) > 1 && !cells[1].IsEmpty() {
			cells[1] = table.Text(util.FormatPriceText(cells[1].Raw()))
		}
	}
}

// setQuoteColumn writes a quote as a display-formatted column named after
// its source label, replacing an existing column of the same name.
func setQuoteColumn(t *table.Table, q internal.Quote) {
	name := q.Source
	if name == "" {
		name = "Online"
	}
	cells := [table.BlockSize]table.Cell{
		table.Text(q.Date.Format(util.DateLayout)),
		table.Text(util.FormatPriceText(q.Price)),
		table.Text(q.Lot),
		table.Text(q.Source),
	}
	for r, c := range cells {
		t.SetCell(r, name, c)
	}
}

// staleRows scans the table in fixed 4-row groups. A price observation is
// atomic: one stale date cell anywhere in a group flags all of the group's
// rows.
func staleRows(t *table.Table, now time.Time, maxAgeDays int) []int {
	rows := t.NumRows()
	var stale []int
	for start := 0; start < rows; start += table.BlockSize {
		end := start + table.BlockSize
		if end > rows {
			end = rows
		}
		if groupStale(t, start, end, now, maxAgeDays) {
			for r := start; r < end; r++ {
				stale = append(stale, r)
			}
		}
	}
	return stale
}

func groupStale(t *table.Table, start, end int, now time.Time, maxAgeDays int) bool {
	for _, col := range t.Columns {
		for r := start; r < end && r < len(col.Cells); r++ {
			if util.IsStale(col.Cells[r], now, maxAgeDays) {
				return true
			}
		}
	}
	return false
}
