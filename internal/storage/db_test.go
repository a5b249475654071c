package storage

import (
	"path/filepath"
	"testing"
	"time"

	"pricedb/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndListQuotes(t *testing.T) {
	db := openTestDB(t)

	older := internal.Quote{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Price: "1.00", Lot: "100", Source: "Mouser (-30%)"}
	newer := internal.Quote{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Price: "0.70", Lot: "500", Source: "Octopart (-30%)"}
	if err := db.RecordQuote("MX-150", older); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordQuote("MX-150", newer); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordQuote("other", internal.Quote{Date: time.Now(), Price: "9", Source: "x"}); err != nil {
		t.Fatal(err)
	}

	got, err := db.QuotesForPart("MX-150", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("quotes=%+v", got)
	}
	if got[0].Source != "Octopart (-30%)" || got[1].Source != "Mouser (-30%)" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if !got[0].Date.Equal(newer.Date) {
		t.Fatalf("date=%v", got[0].Date)
	}
}

func TestRecordUpdateRun(t *testing.T) {
	db := openTestDB(t)

	summary := internal.UpdateSummary{Written: 3, Appended: 1, Skipped: 2, Failed: 0}
	if err := db.RecordUpdateRun(time.Now(), summary); err != nil {
		t.Fatal(err)
	}

	var written, appended, skipped, failed int
	err := db.conn.QueryRow(`SELECT written, appended, skipped, failed FROM update_runs`).
		Scan(&written, &appended, &skipped, &failed)
	if err != nil {
		t.Fatal(err)
	}
	if written != 3 || appended != 1 || skipped != 2 || failed != 0 {
		t.Fatalf("counters=%d/%d/%d/%d", written, appended, skipped, failed)
	}
}
