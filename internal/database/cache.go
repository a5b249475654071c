package database

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pricedb/internal/table"
)

// cacheDoc is the on-disk cache layout: column-major with an explicit row
// index, so column order survives the round trip.
type cacheDoc struct {
	Columns []string `json:"columns"`
	Index   []int    `json:"index"`
	Data    [][]any  `json:"data"`
}

// SaveCache serializes the snapshot table to path. Dates are stored as
// epoch milliseconds; LoadCache converts them back.
func SaveCache(path string, t *table.Table) error {
	doc := cacheDoc{
		Columns: t.ColumnNames(),
		Index:   make([]int, t.NumRows()),
		Data:    make([][]any, 0, t.NumCols()),
	}
	for i := range doc.Index {
		doc.Index[i] = i
	}
	rows := t.NumRows()
	for _, col := range t.Columns {
		vals := make([]any, rows)
		for r := 0; r < rows; r++ {
			var c table.Cell
			if r < len(col.Cells) {
				c = col.Cells[r]
			}
			switch c.Kind {
			case table.KindText:
				vals[r] = c.Text
			case table.KindNumber:
				vals[r] = c.Number
			case table.KindDate:
				vals[r] = float64(c.Date.UnixMilli())
			default:
				vals[r] = nil
			}
		}
		doc.Data = append(doc.Data, vals)
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

// LoadCache reads a cache file back into a table. Serialization turns dates
// into epoch-millisecond numbers; any numeric value above 1e12 sitting in
// the date row of a 4-row block is converted back to a date.
func LoadCache(path string) (*table.Table, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc cacheDoc
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("cache unreadable: %w", err)
	}
	if len(doc.Data) != len(doc.Columns) {
		return nil, fmt.Errorf("cache unreadable: %d columns, %d data series", len(doc.Columns), len(doc.Data))
	}

	t := &table.Table{}
	for i, name := range doc.Columns {
		cells := make([]table.Cell, len(doc.Data[i]))
		for r, v := range doc.Data[i] {
			cells[r] = decodeCell(v, r)
		}
		t.Columns = append(t.Columns, table.Column{Name: name, Cells: cells})
	}
	return t, nil
}

func decodeCell(v any, row int) table.Cell {
	switch val := v.(type) {
	case nil:
		return table.Empty()
	case string:
		return table.Text(val)
	case float64:
		if row%table.BlockSize == 0 && val > 1e12 {
			return table.Date(time.UnixMilli(int64(val)).UTC())
		}
		return table.Number(val)
	case bool:
		if val {
			return table.Text("true")
		}
		return table.Text("false")
	default:
		return table.Text(fmt.Sprintf("%v", val))
	}
}
