package excel

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"pricedb/internal"
	"pricedb/internal/config"
	"pricedb/internal/util"
)

// MacroRunner triggers the workbook macro that re-sorts a freshly written
// observation. Running VBA is host-application automation, outside this
// process; the default runner is a no-op so updates still land when no
// automation bridge is configured.
type MacroRunner interface {
	Run(workbookPath, macro string) error
}

type NoopMacroRunner struct{}

func (NoopMacroRunner) Run(string, string) error { return nil }

type ProgressFunc func(done, total int)

// Updater writes reconciled price blocks into a macro-enabled workbook.
// It assumes exclusive single-writer access for the session; concurrent
// external writers are a caller responsibility.
type Updater struct {
	path      string
	sheet     string
	password  string
	macroName string
	macro     MacroRunner
	layout    Layout
}

func NewUpdater(path string, cfg config.Config, macro MacroRunner) *Updater {
	if macro == nil {
		macro = NoopMacroRunner{}
	}
	return &Updater{
		path:      path,
		sheet:     cfg.SheetName,
		password:  cfg.SheetPassword,
		macroName: cfg.MacroName,
		macro:     macro,
		layout: Layout{
			FirstDataRow: cfg.FirstDataRow,
			PartCol:      DefaultLayout().PartCol,
			SAPCol:       DefaultLayout().SAPCol,
			ValueCol:     cfg.WriteColumn,
		},
	}
}

type excelSheet struct {
	f     *excelize.File
	sheet string
}

func (s excelSheet) CellValue(row, col int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	v, err := s.f.GetCellValue(s.sheet, cell)
	if err != nil {
		return ""
	}
	return v
}

func (s excelSheet) MaxRow() int {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

// Run reconciles every entry's blocks into the workbook. A failed write is
// logged and skipped, the batch continues. The macro may reposition blocks,
// so the index is rebuilt after each successful write.
func (u *Updater) Run(entries []internal.UpdateEntry, progress ProgressFunc) (internal.UpdateSummary, error) {
	f, err := excelize.OpenFile(u.path)
	if err != nil {
		return internal.UpdateSummary{}, err
	}
	defer f.Close()

	if u.password != "" {
		if err := f.UnprotectSheet(u.sheet, u.password); err != nil {
			return internal.UpdateSummary{}, err
		}
	}

	reader := excelSheet{f: f, sheet: u.sheet}
	index := BuildIndex(reader, u.layout)

	var summary internal.UpdateSummary
	total := len(entries)
	for i, entry := range entries {
		for _, block := range entry.Blocks {
			action := Reconcile(index, reader, u.layout, entry.PartID, entry.SAPID, block)
			if action.Kind == ActionSkip {
				summary.Skipped++
				log.Info().Str("part", entry.PartID).Str("source", block[3]).Msg("no block to update, skipped")
				continue
			}

			if err := u.writeBlock(f, action.Row, block); err != nil {
				summary.Failed++
				log.Error().Err(err).Int("row", action.Row).Str("part", entry.PartID).Msg("block write failed")
				continue
			}
			switch action.Kind {
			case ActionOverwrite:
				summary.Written++
			case ActionAppendNew:
				summary.Appended++
			}
			index = BuildIndex(reader, u.layout)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if u.password != "" {
		err := f.ProtectSheet(u.sheet, &excelize.SheetProtectionOptions{
			Password:            u.password,
			AutoFilter:          true,
			EditObjects:         false,
			EditScenarios:       false,
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
		if err != nil {
			return summary, err
		}
	}
	if err := f.Save(); err != nil {
		return summary, err
	}
	return summary, nil
}

// writeBlock writes the four observation cells with their natural types so
// the workbook's recalculation picks them up; values that refuse coercion
// land as text.
func (u *Updater) writeBlock(f *excelize.File, row int, block internal.PriceBlock) error {
	set := func(offset int, value any) error {
		cell, err := excelize.CoordinatesToCellName(u.layout.ValueCol, row+offset)
		if err != nil {
			return err
		}
		return f.SetCellValue(u.sheet, cell, value)
	}

	var dateVal any = block[0]
	if t, ok := util.ParseDate(block[0]); ok {
		dateVal = t
	}
	var priceVal any = block[1]
	if d, ok := util.ParsePrice(block[1]); ok {
		priceVal = d.InexactFloat64()
	}
	var lotVal any = block[2]
	if n, err := strconv.Atoi(util.NormalizeQuantity(block[2])); err == nil {
		lotVal = n
	}

	if err := set(0, dateVal); err != nil {
		return err
	}
	if err := set(1, priceVal); err != nil {
		return err
	}
	if err := set(2, lotVal); err != nil {
		return err
	}
	if err := set(3, block[3]); err != nil {
		return err
	}

	if err := u.macro.Run(u.path, u.macroName); err != nil {
		return err
	}
	// save immediately so the macro's repositioning is durable before the
	// next reconciliation step reads the sheet again
	return f.Save()
}
