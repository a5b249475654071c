package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"pricedb/internal"
	"pricedb/internal/bom"
	"pricedb/internal/config"
	"pricedb/internal/database"
	"pricedb/internal/excel"
	"pricedb/internal/logging"
	"pricedb/internal/pipeline"
	"pricedb/internal/storage"
	"pricedb/internal/table"
	"pricedb/internal/util"
	"pricedb/internal/vendors"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "db:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "source xlsx/xlsm export")
		sheet := fs.String("sheet", cfg.SheetName, "worksheet name")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		t, err := database.ImportXLSX(*file, *sheet, cfg.HeaderRow)
		must(err)
		must(database.SaveCache(cfg.CachePath, t))
		fmt.Printf("import done rows=%d columns=%d cache=%s\n", t.NumRows(), t.NumCols(), cfg.CachePath)
	case "db:check":
		snap, err := loadSnapshot(cfg)
		must(err)
		dups := snap.FindDuplicates(database.DefaultKeyColumns())
		if len(dups) == 0 {
			fmt.Println("no duplicate identifiers found")
			return
		}
		for _, d := range dups {
			fmt.Printf("%s %q opens %d blocks (rows %v); only the first is ever matched\n",
				d.Column, d.Value, len(d.Rows), d.Rows)
		}
		fmt.Printf("%d duplicate identifiers found\n", len(dups))
		os.Exit(1)
	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		key := fs.String("key", "", "part id (SAP or manufacturer order number)")
		online := fs.Bool("online", false, "also fetch live vendor quotes")
		out := fs.String("out", "", "optional xlsx output path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*key) == "" {
			must(fmt.Errorf("--key is required"))
		}

		snap, err := loadSnapshot(cfg)
		must(err)
		block, found := findBlock(snap, *key)
		if !found {
			fmt.Printf("no database entry for %q\n", *key)
		}

		var quotes []internal.Quote
		if *online {
			fetchKey := *key
			if found {
				if order := database.OrderNumber(block); order != "" {
					fetchKey = order
				}
			}
			quotes = newFetchService(cfg).GetQuotes(context.Background(), fetchKey)
		}

		merged := pipeline.Merge(block, quotes, time.Now(), cfg.StaleMaxAgeDays)
		if merged.Empty() {
			fmt.Println("nothing to show")
			return
		}
		printTable(merged.Table, merged.StaleRows)
		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportTableToXLSX(merged.Table, *out))
			fmt.Printf("written to %s\n", *out)
		}
	case "bom:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "BOM file (xlsx/csv)")
		out := fs.String("out", "", "output xlsx path")
		online := fs.Bool("online", false, "also fetch live vendor quotes")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--file and --out are required"))
		}

		b, err := bom.Load(*file, cfg.BOMHeaderRow)
		must(err)
		parts := b.PartIDs()

		snap, err := loadSnapshot(cfg)
		must(err)
		lookup := func(part string) (*table.Table, bool) {
			return findBlock(snap, part)
		}
		var fetch pipeline.FetchFunc
		if *online {
			svc := newFetchService(cfg)
			fetch = svc.GetQuotes
		}
		progress := func(done, total int) {
			fmt.Printf("\rprocessing %d/%d", done, total)
		}

		result, stale, err := pipeline.RunBatch(context.Background(), parts, lookup, fetch, time.Now(), cfg.StaleMaxAgeDays, progress)
		fmt.Println()
		must(err)
		if result.NumRows() == 0 {
			must(fmt.Errorf("no data for any of the %d parts", len(parts)))
		}
		must(pipeline.ExportTableToXLSX(result, *out))
		fmt.Printf("bom run done parts=%d rows=%d stale_rows=%d output=%s\n", len(parts), result.NumRows(), len(stale), *out)
	case "excel:update":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "target xlsm workbook")
		bomFile := fs.String("bom", "", "BOM file providing the parts to update")
		part := fs.String("part", "", "single part id to update")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		if (*bomFile == "") == (*part == "") {
			must(fmt.Errorf("exactly one of --bom or --part is required"))
		}

		parts := []string{*part}
		if *bomFile != "" {
			b, err := bom.Load(*bomFile, cfg.BOMHeaderRow)
			must(err)
			parts = b.PartIDs()
		}

		snap, err := loadSnapshot(cfg)
		must(err)

		db, err := storage.Open(cfg.HistoryDBPath)
		must(err)
		defer db.Close()

		svc := vendors.NewFetchService(cfg, db)
		entries := collectEntries(snap, svc, parts)
		if len(entries) == 0 {
			must(fmt.Errorf("no quotes fetched, nothing to update"))
		}

		startedAt := time.Now()
		updater := excel.NewUpdater(*file, cfg, excel.NoopMacroRunner{})
		summary, err := updater.Run(entries, func(done, total int) {
			fmt.Printf("\rwriting %d/%d", done, total)
		})
		fmt.Println()
		must(err)
		must(db.RecordUpdateRun(startedAt, summary))
		fmt.Printf("update done written=%d appended=%d skipped=%d failed=%d\n",
			summary.Written, summary.Appended, summary.Skipped, summary.Failed)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		snap, err := loadSnapshot(cfg)
		must(err)
		must(pipeline.ExportTableToXLSX(snap.Table, *out))
		fmt.Printf("exported %d rows to %s\n", snap.Table.NumRows(), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func loadSnapshot(cfg config.Config) (*database.Snapshot, error) {
	t, err := database.LoadCache(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("cache not loadable (run db:import first): %w", err)
	}
	snap := &database.Snapshot{Table: t}
	if !snap.HasKeyColumns(database.DefaultKeyColumns()) {
		return nil, fmt.Errorf("cache lacks the identifying columns, re-import the database")
	}
	return snap, nil
}

// findBlock tries the search term as entered, then in identifier-normalized
// form so SAP numbers pasted with a trailing ".0" still hit.
func findBlock(snap *database.Snapshot, term string) (*table.Table, bool) {
	keys := database.DefaultKeyColumns()
	if block, ok := snap.FindBlock(term, keys); ok {
		return block, true
	}
	if norm := util.NormalizeIdentifier(term); norm != "" && norm != strings.TrimSpace(term) {
		return snap.FindBlock(norm, keys)
	}
	return nil, false
}

func newFetchService(cfg config.Config) *vendors.FetchService {
	db, err := storage.Open(cfg.HistoryDBPath)
	if err != nil {
		// history is best effort, quotes still work without it
		fmt.Fprintf(os.Stderr, "warning: quote history unavailable: %v\n", err)
		return vendors.NewFetchService(cfg, nil)
	}
	return vendors.NewFetchService(cfg, db)
}

// collectEntries fetches live quotes for every part and shapes them into
// update entries addressed by the database's identifiers where known.
func collectEntries(snap *database.Snapshot, svc *vendors.FetchService, parts []string) []internal.UpdateEntry {
	var entries []internal.UpdateEntry
	for _, part := range parts {
		partID := part
		sapID := ""
		fetchKey := part
		if block, ok := findBlock(snap, part); ok {
			if order := database.OrderNumber(block); order != "" {
				partID = order
				fetchKey = order
			}
			sapID = block.Cell(0, database.SAPColumn).Raw()
		}

		quotes := svc.GetQuotes(context.Background(), fetchKey)
		if len(quotes) == 0 {
			continue
		}

		entry := internal.UpdateEntry{PartID: partID, SAPID: sapID}
		for _, q := range quotes {
			entry.Blocks = append(entry.Blocks, internal.PriceBlock{
				q.Date.Format(util.DateLayout),
				util.FormatPriceText(q.Price),
				q.Lot,
				q.Source,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

func printTable(t *table.Table, stale []int) {
	staleSet := map[int]bool{}
	for _, r := range stale {
		staleSet[r] = true
	}

	names := t.ColumnNames()
	fmt.Printf("%-6s", "")
	for _, n := range names {
		fmt.Printf("%-28s", n)
	}
	fmt.Println()

	rows := t.NumRows()
	for r := 0; r < rows; r++ {
		marker := ""
		if staleSet[r] {
			marker = "!"
		}
		fmt.Printf("%-6s", marker)
		for _, n := range names {
			fmt.Printf("%-28s", t.Cell(r, n).Raw())
		}
		fmt.Println()
	}
	if len(stale) > 0 {
		fmt.Println("rows marked ! belong to a price block older than the staleness limit")
	}
}

func usage() {
	fmt.Println("usage: pricedb <command>")
	fmt.Println("commands:")
	fmt.Println("  db:import --file=DB.xlsm [--sheet=DB_4erDS]")
	fmt.Println("  db:check")
	fmt.Println("  search --key=<part> [--online] [--out=result.xlsx]")
	fmt.Println("  bom:run --file=bom.xlsx --out=prices.xlsx [--online]")
	fmt.Println("  excel:update --file=DB.xlsm (--bom=bom.xlsx | --part=<part>)")
	fmt.Println("  export:xlsx --out=db.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
