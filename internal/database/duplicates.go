package database

import (
	"pricedb/internal/table"
	"pricedb/internal/util"
)

// Duplicate reports one identifier value that opens more than one 4-row
// block. The matcher always takes the first block, so later ones are dead
// data until the spreadsheet is cleaned up.
type Duplicate struct {
	Column string
	Value  string
	Rows   []int
}

// FindDuplicates scans the block-start rows of every key column for
// identifier values shared between blocks. Values are compared in their
// normalized form, so "1000123" and "1000123.0" count as the same number.
func (s *Snapshot) FindDuplicates(keys []KeyColumn) []Duplicate {
	var out []Duplicate
	total := s.Table.NumRows()
	for _, k := range keys {
		rowsByValue := map[string][]int{}
		var order []string
		for r := 0; r < total; r += table.BlockSize {
			cell := s.Table.Cell(r, k.Name)
			var norm string
			switch k.Norm {
			case NormIdentifier:
				norm = util.NormalizeIdentifier(cell.Raw())
			default:
				norm = util.NormalizeText(cell.Raw())
			}
			if norm == "" {
				continue
			}
			if _, seen := rowsByValue[norm]; !seen {
				order = append(order, norm)
			}
			rowsByValue[norm] = append(rowsByValue[norm], r)
		}
		for _, v := range order {
			if rows := rowsByValue[v]; len(rows) > 1 {
				out = append(out, Duplicate{Column: k.Name, Value: v, Rows: rows})
			}
		}
	}
	return out
}
