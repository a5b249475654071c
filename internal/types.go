package internal

import "time"

// Quote is one externally obtained price observation for a part. Price and
// Lot keep whatever textual form the vendor delivered; the merger formats
// them for display and the updater coerces them on write.
type Quote struct {
	Date   time.Time
	Price  string
	Lot    string
	Source string
}

// PriceBlock holds the four display values of one observation in fixed row
// order: date, price, lot size, source label.
type PriceBlock [4]string

// UpdateEntry is one part's set of blocks to reconcile into the spreadsheet.
type UpdateEntry struct {
	PartID string
	SAPID  string
	Blocks []PriceBlock
}

// UpdateSummary counts the outcome of one reconciliation session.
type UpdateSummary struct {
	Written  int
	Appended int
	Skipped  int
	Failed   int
}
