// Package bom loads bills of material from xlsx or csv exports and pulls
// out the part identifiers a batch run iterates over. BOM exports vary in
// column naming, so the relevant columns are probed fuzzily.
package bom

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"pricedb/internal/util"
)

// BOM holds the raw rows of a loaded bill of material plus the detected
// identifier columns.
type BOM struct {
	Headers []string
	Rows    [][]string

	PartCol int // manufacturer order number column, -1 if absent
	SAPCol  int // SAP article number column, -1 if absent
}

// Load reads a BOM file, choosing the parser by extension. headerRow is
// 1-based; rows above it are discarded.
func Load(path string, headerRow int) (*BOM, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(path)
	case ".csv", ".txt":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported BOM format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return fromRows(rows, headerRow)
}

func fromRows(rows [][]string, headerRow int) (*BOM, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	if len(rows) < headerRow {
		return nil, fmt.Errorf("BOM has no header row (need row %d, got %d rows)", headerRow, len(rows))
	}

	b := &BOM{
		Headers: rows[headerRow-1],
		Rows:    rows[headerRow:],
	}
	b.PartCol = detectColumn(b.Headers, partColumnProbes)
	b.SAPCol = detectColumn(b.Headers, sapColumnProbes)
	if b.PartCol < 0 && b.SAPCol < 0 {
		return nil, fmt.Errorf("no part or SAP column found in headers %v", b.Headers)
	}
	return b, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = sniffDelimiter(string(data))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// sniffDelimiter picks the separator with the most hits on the first line.
// German exports commonly use semicolons or tabs.
func sniffDelimiter(data string) rune {
	line, _, _ := strings.Cut(data, "\n")
	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

// PartIDs returns the distinct, non-empty part identifiers in file order,
// preferring the manufacturer order number and falling back to the SAP
// number per row.
func (b *BOM) PartIDs() []string {
	var ids []string
	seen := map[string]bool{}
	for _, row := range b.Rows {
		id := b.cell(row, b.PartCol)
		if id == "" {
			id = b.cell(row, b.SAPCol)
		}
		id = util.NormalizeText(id)
		if id == "" || seen[strings.ToLower(id)] {
			continue
		}
		seen[strings.ToLower(id)] = true
		ids = append(ids, id)
	}
	return ids
}

func (b *BOM) cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
