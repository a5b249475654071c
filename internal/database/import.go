package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pricedb/internal/table"
	"pricedb/internal/util"
)

// DefaultSheetName is the worksheet the database export lives on.
const DefaultSheetName = "DB_4erDS"

// DefaultHeaderRow is the zero-based index of the header row in the export.
const DefaultHeaderRow = 6

// noiseColumns are dropped after import; they carry connector geometry
// attributes irrelevant to pricing.
var noiseColumns = map[string]struct{}{
	"WN_PinClass":         {},
	"WN_PolCount_NUM":     {},
	"WN_Color":            {},
	"WN_Min_CrossSection": {},
	"WN_Max_CrossSection": {},
}

// MissingColumnsError reports which required identifying columns the source
// spreadsheet lacks. Import aborts and the existing cache stays untouched.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns missing from sheet: %s", strings.Join(e.Columns, ", "))
}

// ImportXLSX reads the source spreadsheet into a snapshot table. The header
// sits at headerRow (zero-based); blank-named and noise columns are dropped.
func ImportXLSX(path, sheet string, headerRow int) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("sheet %s has no header row at offset %d", sheet, headerRow)
	}

	headers := rows[headerRow]
	type colRef struct {
		name string
		idx  int
	}
	kept := make([]colRef, 0, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, noise := noiseColumns[name]; noise {
			continue
		}
		kept = append(kept, colRef{name: name, idx: i})
	}

	var missing []string
	for _, required := range []string{SAPColumn, OrderColumn} {
		found := false
		for _, c := range kept {
			if c.name == required {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	t := &table.Table{}
	data := rows[headerRow+1:]
	for _, c := range kept {
		cells := make([]table.Cell, 0, len(data))
		for _, row := range data {
			raw := ""
			if c.idx < len(row) {
				raw = row[c.idx]
			}
			cells = append(cells, importCell(c.name, raw))
		}
		t.Columns = append(t.Columns, table.Column{Name: c.name, Cells: cells})
	}
	return t, nil
}

func importCell(column, raw string) table.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return table.Empty()
	}
	// the SAP column is canonicalized at import so the float artifact never
	// reaches the cache
	if column == SAPColumn {
		norm := util.NormalizeIdentifier(s)
		if norm == "" {
			return table.Empty()
		}
		return table.Text(norm)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return table.Number(v)
	}
	return table.Text(s)
}
