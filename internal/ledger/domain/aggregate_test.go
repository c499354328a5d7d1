package ledger

import (
	"reflect"
	"testing"
	"time"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func entry(id, project, date string, kind Kind, category Category, amount float64) LedgerEntry {
	var d time.Time
	if date != "" {
		d = day(date)
	}
	return LedgerEntry{ProjectID: project, Date: d, Kind: kind, Category: category, Amount: amount, SourceID: id}
}

func TestAggregateCarriedForward(t *testing.T) {
	entries := []LedgerEntry{
		entry("a", "p1", "2025-07-01", KindIncome, CategoryFundTransfer, 1000),
		entry("b", "p1", "2025-07-02", KindExpense, CategoryMaterials, 300),
	}
	summary, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.CarriedForward != 700 {
		t.Fatalf("carried forward = %v, want 700", summary.CarriedForward)
	}
	if summary.RemainingBalance != 700 {
		t.Fatalf("remaining with empty range = %v, want carried forward", summary.RemainingBalance)
	}
	if summary.TotalIncome != 0 || summary.TotalExpenses != 0 || summary.TotalDeferred != 0 {
		t.Fatalf("empty range totals must be zero: %+v", summary)
	}
}

func TestAggregateEmptyBeforeSet(t *testing.T) {
	summary, err := Aggregate(nil, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.CarriedForward != 0 {
		t.Fatalf("carried forward over empty set = %v, want 0", summary.CarriedForward)
	}
}

func TestAggregateDeferredExcludedFromCash(t *testing.T) {
	entries := []LedgerEntry{
		entry("a", "p1", "2025-08-01", KindIncome, CategoryFundTransfer, 10000),
		entry("b", "p1", "2025-08-02", KindDeferred, CategoryMaterials, 5000),
		entry("c", "p1", "2025-08-03", KindExpense, CategoryTransportation, 700),
	}
	summary, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.TotalExpenses != 700 {
		t.Fatalf("total expenses = %v, want 700 (deferred excluded)", summary.TotalExpenses)
	}
	if summary.TotalDeferred != 5000 {
		t.Fatalf("total deferred = %v, want 5000", summary.TotalDeferred)
	}
	if summary.RemainingBalance != 9300 {
		t.Fatalf("remaining = %v, want 9300", summary.RemainingBalance)
	}
	// The deferred line must not move the running balance.
	if summary.Entries[1].Balance != summary.Entries[0].Balance {
		t.Fatalf("deferred entry moved the balance: %v -> %v", summary.Entries[0].Balance, summary.Entries[1].Balance)
	}
}

func TestAggregateRunningBalanceAndTieBreak(t *testing.T) {
	entries := []LedgerEntry{
		entry("b", "p1", "2025-08-01", KindExpense, CategoryMaterials, 100),
		entry("a", "p1", "2025-08-01", KindIncome, CategoryFundTransfer, 500),
	}
	summary, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.Entries[0].SourceID != "a" || summary.Entries[1].SourceID != "b" {
		t.Fatalf("tie break by source id violated: %s, %s", summary.Entries[0].SourceID, summary.Entries[1].SourceID)
	}
	if summary.Entries[0].Balance != 500 || summary.Entries[1].Balance != 400 {
		t.Fatalf("running balances = %v, %v; want 500, 400", summary.Entries[0].Balance, summary.Entries[1].Balance)
	}
}

func TestAggregateFiltersProjectAndUndated(t *testing.T) {
	entries := []LedgerEntry{
		entry("a", "p1", "2025-08-01", KindIncome, CategoryFundTransfer, 100),
		entry("b", "p2", "2025-08-01", KindIncome, CategoryFundTransfer, 999),
		entry("c", "p1", "", KindExpense, CategoryMaterials, 50),
	}
	summary, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.TotalIncome != 100 {
		t.Fatalf("foreign project leaked into totals: %v", summary.TotalIncome)
	}
	if len(summary.Entries) != 1 {
		t.Fatalf("undated entry must be excluded from range, got %d entries", len(summary.Entries))
	}
	// Still counted for diagnostics purposes.
	if summary.EntriesCount != 2 {
		t.Fatalf("entries count = %d, want 2", summary.EntriesCount)
	}
}

func TestAggregateInvalidRange(t *testing.T) {
	if _, err := Aggregate(nil, "p1", day("2025-08-31"), day("2025-08-01")); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := Aggregate(nil, "", day("2025-08-01"), day("2025-08-31")); err != ErrEmptyProjectID {
		t.Fatalf("expected ErrEmptyProjectID, got %v", err)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	entries := []LedgerEntry{
		entry("a", "p1", "2025-08-01", KindIncome, CategoryFundTransfer, 500),
		entry("b", "p1", "2025-08-02", KindExpense, CategoryMaterials, 120),
		entry("c", "p1", "2025-08-02", KindDeferred, CategoryMaterials, 80),
	}
	first, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	second, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs produced different outputs:\n%+v\n%+v", first, second)
	}
}

func TestBalanceContinuityAcrossSplit(t *testing.T) {
	entries := []LedgerEntry{
		entry("a", "p1", "2025-07-15", KindIncome, CategoryFundTransfer, 2000),
		entry("b", "p1", "2025-08-03", KindExpense, CategoryTransportation, 150),
		entry("c", "p1", "2025-08-20", KindIncome, CategoryFundTransfer, 400),
		entry("d", "p1", "2025-09-02", KindExpense, CategoryMaterials, 90),
		entry("e", "p1", "2025-09-10", KindDeferred, CategoryMaterials, 999),
	}

	// Whole range [Aug, Sep] versus [Aug] then carrying into [Sep]:
	// splitting must not change the final balance.
	whole, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-09-30"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	first, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	second, err := Aggregate(entries, "p1", day("2025-09-01"), day("2025-09-30"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if second.CarriedForward != first.RemainingBalance {
		t.Fatalf("carried forward %v does not continue prior remaining %v", second.CarriedForward, first.RemainingBalance)
	}
	if whole.RemainingBalance != second.RemainingBalance {
		t.Fatalf("split changed the final balance: %v vs %v", whole.RemainingBalance, second.RemainingBalance)
	}
}

func TestCarriedForwardHelperMatchesAggregate(t *testing.T) {
	entries := []LedgerEntry{
		entry("a", "p1", "2025-07-01", KindIncome, CategoryFundTransfer, 1000),
		entry("b", "p1", "2025-07-05", KindExpense, CategoryMaterials, 250),
	}
	summary, err := Aggregate(entries, "p1", day("2025-08-01"), day("2025-08-31"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got := CarriedForward(entries, "p1", day("2025-08-01")); got != summary.CarriedForward {
		t.Fatalf("CarriedForward = %v, aggregate says %v", got, summary.CarriedForward)
	}
}

func TestSafeRatio(t *testing.T) {
	if got := SafeRatio(300, 400); got != 0.75 {
		t.Fatalf("SafeRatio = %v, want 0.75", got)
	}
	if got := SafeRatio(300, 0); got != 0 {
		t.Fatalf("zero denominator must yield 0, got %v", got)
	}
}
