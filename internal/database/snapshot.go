// Package database holds the cached price database snapshot and the 4-row
// block matcher over it. The snapshot is read-only; refreshing it means a
// full re-import of the source spreadsheet.
package database

import (
	"strings"

	"pricedb/internal/table"
	"pricedb/internal/util"
)

// SAPColumn and OrderColumn are the two identifying columns every database
// export must carry.
const (
	SAPColumn   = "WN_SAP-Artikel-NR"
	OrderColumn = "WN_HerstellerBestellnummer_1"
)

type NormKind int

const (
	// NormIdentifier applies identifier normalization (float artifact
	// removal, lower-casing).
	NormIdentifier NormKind = iota
	// NormFreeText trims and treats the literal "nan" as empty.
	NormFreeText
)

// KeyColumn pairs a searchable column with the normalizer matching its
// nature. The matcher iterates the list, so callers are free to search any
// number of columns.
type KeyColumn struct {
	Name string
	Norm NormKind
}

// DefaultKeyColumns covers the two identifier schemes parts are known by:
// the internal SAP number and the manufacturer order number.
func DefaultKeyColumns() []KeyColumn {
	return []KeyColumn{
		{Name: SAPColumn, Norm: NormIdentifier},
		{Name: OrderColumn, Norm: NormFreeText},
	}
}

type Snapshot struct {
	Table *table.Table
}

// HasKeyColumns reports whether every given key column exists in the
// snapshot; a cache from an older export may lack them.
func (s *Snapshot) HasKeyColumns(keys []KeyColumn) bool {
	for _, k := range keys {
		if _, ok := s.Table.Column(k.Name); !ok {
			return false
		}
	}
	return true
}

// FindBlock locates the 4-row price block for a search key. A row matches
// when the key equals the normalized cell of any key column; the block is
// the four consecutive rows starting at the first match, clipped to the
// table end. Only the first match is taken: the data model guarantees one
// canonical block per part, duplicates are a data-quality anomaly handled
// elsewhere.
func (s *Snapshot) FindBlock(search string, keys []KeyColumn) (*table.Table, bool) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, false
	}

	rows := s.Table.NumRows()
	for r := 0; r < rows; r++ {
		for _, k := range keys {
			cell := s.Table.Cell(r, k.Name)
			var norm string
			switch k.Norm {
			case NormIdentifier:
				norm = util.NormalizeIdentifier(cell.Raw())
			default:
				norm = util.NormalizeText(cell.Raw())
			}
			if norm != "" && norm == search {
				return s.Table.SliceRows(r, r+table.BlockSize), true
			}
		}
	}
	return nil, false
}

// OrderNumber returns the manufacturer order number from a matched block's
// first row, used as the lookup key for online quote sources.
func OrderNumber(block *table.Table) string {
	return util.NormalizeText(block.Cell(0, OrderColumn).Raw())
}
