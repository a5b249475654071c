package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pricedb/internal"
	"pricedb/internal/database"
	"pricedb/internal/table"
)

// spliceMarker flags non-component rows in bill-of-materials data.
const spliceMarker = "SPLICE"

// LookupFunc resolves a part id to its database block.
type LookupFunc func(part string) (*table.Table, bool)

// FetchFunc obtains zero or more live quotes for a part id. Implementations
// fail soft: errors become an empty result, never a panic or propagated
// error.
type FetchFunc func(ctx context.Context, part string) []internal.Quote

// ProgressFunc reports batch progress as (processed, total).
type ProgressFunc func(done, total int)

// RunBatch merges every part of a bill of materials into one concatenated
// table. Stale row indices of each item are offset by the rows accumulated
// before it; items producing no rows contribute nothing and do not break
// the numbering. Cancellation is cooperative, checked between items.
func RunBatch(ctx context.Context, parts []string, lookup LookupFunc, fetch FetchFunc, now time.Time, maxAgeDays int, progress ProgressFunc) (*table.Table, []int, error) {
	queue := filterParts(parts)
	total := len(queue)

	out := &table.Table{}
	var stale []int

	for i, part := range queue {
		if err := ctx.Err(); err != nil {
			return out, stale, err
		}
		if progress != nil {
			progress(i+1, total)
		}

		block, found := lookup(part)
		fetchKey := part
		if found {
			if order := database.OrderNumber(block); order != "" {
				fetchKey = order
			}
		} else {
			block = nil
		}

		var quotes []internal.Quote
		if fetch != nil {
			quotes = fetch(ctx, fetchKey)
		}

		merged := Merge(block, quotes, now, maxAgeDays)
		if merged.Empty() {
			log.Debug().Str("part", part).Msg("no rows for part, skipping")
			continue
		}

		offset := out.NumRows()
		out.AppendTable(merged.Table)
		for _, r := range merged.StaleRows {
			stale = append(stale, r+offset)
		}
	}

	return out, stale, nil
}

// filterParts trims, drops empties and the SPLICE marker, and keeps the
// first occurrence of each id in file order.
func filterParts(parts []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.EqualFold(p, spliceMarker) {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
