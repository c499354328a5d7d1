package ledger

import (
	"sort"
	"time"
)

// Aggregate merges normalized entries into a project summary for the
// inclusive range [rangeStart, rangeEnd].
//
// The carried-forward balance folds every dated entry strictly before
// the range start; the same fold then walks the in-range entries in
// (date, source id) order, attaching a running balance snapshot to each
// line. Totals are plain category sums, deliberately independent from
// the fold. Undated entries (failed date parsing) are excluded from
// range filtering altogether but still counted in EntriesCount.
//
// Row-level problems never abort the aggregation; the only errors are
// caller-contract violations.
func Aggregate(entries []LedgerEntry, projectID string, rangeStart, rangeEnd time.Time) (*ProjectLedgerSummary, error) {
	if projectID == "" {
		return nil, ErrEmptyProjectID
	}
	rangeStart = Day(rangeStart)
	rangeEnd = Day(rangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil, ErrInvalidRange
	}

	var before, inRange []LedgerEntry
	count := 0
	for _, entry := range entries {
		if entry.ProjectID != projectID {
			continue
		}
		count++
		if !entry.Dated() {
			continue
		}
		day := Day(entry.Date)
		switch {
		case day.Before(rangeStart):
			before = append(before, entry)
		case !day.After(rangeEnd):
			inRange = append(inRange, entry)
		}
	}

	sortEntries(before)
	carried := foldBalance(0, before)

	sortEntries(inRange)
	lines := make([]LedgerLine, 0, len(inRange))
	balance := carried
	summary := &ProjectLedgerSummary{
		ProjectID:      projectID,
		RangeStart:     rangeStart,
		RangeEnd:       rangeEnd,
		CarriedForward: carried,
		EntriesCount:   count,
	}
	for _, entry := range inRange {
		balance = applyEntry(balance, entry)
		lines = append(lines, LedgerLine{LedgerEntry: entry, Balance: balance})
		switch entry.Kind {
		case KindIncome, KindTransferIn:
			summary.TotalIncome += entry.Amount
		case KindExpense:
			summary.TotalExpenses += entry.Amount
		case KindDeferred:
			summary.TotalDeferred += entry.Amount
		}
	}
	summary.Entries = lines
	summary.RemainingBalance = carried + summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}

// CarriedForward computes the net cash balance accumulated strictly
// before rangeStart for a project.
func CarriedForward(entries []LedgerEntry, projectID string, rangeStart time.Time) float64 {
	rangeStart = Day(rangeStart)
	var before []LedgerEntry
	for _, entry := range entries {
		if entry.ProjectID != projectID || !entry.Dated() {
			continue
		}
		if Day(entry.Date).Before(rangeStart) {
			before = append(before, entry)
		}
	}
	sortEntries(before)
	return foldBalance(0, before)
}

// SafeRatio divides numerator by denominator, defining the zero
// denominator case as 0 rather than NaN or Inf.
func SafeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func sortEntries(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].SourceID < entries[j].SourceID
	})
}

func foldBalance(start float64, entries []LedgerEntry) float64 {
	balance := start
	for _, entry := range entries {
		balance = applyEntry(balance, entry)
	}
	return balance
}

// applyEntry advances the cash balance by one entry. Deferred purchases
// do not move cash.
func applyEntry(balance float64, entry LedgerEntry) float64 {
	switch entry.Kind {
	case KindIncome, KindTransferIn:
		return balance + entry.Amount
	case KindExpense:
		return balance - entry.Amount
	}
	return balance
}
